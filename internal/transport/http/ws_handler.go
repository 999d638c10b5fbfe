package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"business-english-quiz/internal/app"
	"business-english-quiz/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Word string `json:"word"`
}

// bookmarkPayload targets the current sentence (kind=sentence), one of its
// options (kind=word, word), or an already saved entry by id.
type bookmarkPayload struct {
	Kind domain.BookmarkKind `json:"kind"`
	Word string              `json:"word"`
	ID   string              `json:"id"`
}

type bookmarkToggled struct {
	ID    string `json:"id"`
	Saved bool   `json:"saved"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

var errBadBookmark = errors.New("invalid bookmark request")

// ServeWS upgrades HTTP requests to websockets and forwards UI events into the game.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	log.Printf("ws client %s connected", connID)
	defer log.Printf("ws client %s disconnected", connID)

	updates, cancel := h.service.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error (%s): %v", connID, err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	sendError := func(err error) {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "selectOption":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendError(errors.New("invalid selectOption payload"))
				continue
			}
			result, err := h.service.SelectOption(r.Context(), payload.Word)
			if err != nil {
				sendError(err)
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: result}
		case "advance":
			h.service.Advance()
		case "restart":
			if _, err := h.service.Restart(r.Context()); err != nil {
				log.Printf("restart failed: %v", err)
				sendError(err)
			}
		case "toggleBookmark":
			var payload bookmarkPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendError(errBadBookmark)
				continue
			}
			toggled, err := h.toggleBookmark(payload)
			if err != nil {
				sendError(err)
				continue
			}
			send <- outboundMessage[any]{Type: "bookmarkToggled", Payload: toggled}
			send <- outboundMessage[any]{Type: "bookmarks", Payload: h.service.Bookmarks()}
		case "bookmarks":
			send <- outboundMessage[any]{Type: "bookmarks", Payload: h.service.Bookmarks()}
		default:
			sendError(errors.New("unsupported message type"))
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) toggleBookmark(p bookmarkPayload) (bookmarkToggled, error) {
	if p.ID != "" {
		for _, entry := range h.service.Bookmarks() {
			if entry.ID == p.ID {
				return bookmarkToggled{ID: entry.ID, Saved: h.service.ToggleBookmark(entry)}, nil
			}
		}
		return bookmarkToggled{}, errBadBookmark
	}

	var (
		entry domain.BookmarkEntry
		saved bool
		err   error
	)
	switch p.Kind {
	case domain.KindSentence:
		entry, saved, err = h.service.ToggleSentence()
	case domain.KindWord:
		entry, saved, err = h.service.ToggleWord(p.Word)
	default:
		err = errBadBookmark
	}
	if err != nil {
		return bookmarkToggled{}, err
	}
	return bookmarkToggled{ID: entry.ID, Saved: saved}, nil
}
