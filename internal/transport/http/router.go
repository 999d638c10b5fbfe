package http

import (
	"encoding/json"
	"log"
	"net/http"

	"business-english-quiz/internal/app"
)

// NewRouter wires the websocket endpoint, the saved-list endpoint and the health check.
func NewRouter(service *app.QuizService) *http.ServeMux {
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("/bookmarks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(service.Bookmarks()); err != nil {
			log.Printf("encode bookmarks: %v", err)
		}
	})
	return mux
}
