package app

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"slices"
	"sync"
	"time"

	"business-english-quiz/internal/domain"
)

// DefaultBookmarksKey is the key the saved list lives under.
const DefaultBookmarksKey = "businessEnglishChallengeSavedItems"

const persistTimeout = 5 * time.Second

// KVStore is a durable key-value slot (memory, file, SQLite, Redis, Postgres).
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// BookmarkStore is an insertion-ordered set of bookmarks keyed by id.
// Every mutation is written back in the background; the latest snapshot wins.
type BookmarkStore struct {
	kv  KVStore
	key string

	mu      sync.RWMutex
	entries []domain.BookmarkEntry
	closed  bool

	pending chan []byte
	done    chan struct{}
}

// NewBookmarkStore loads the saved list once. A missing or corrupt blob yields an empty store.
func NewBookmarkStore(ctx context.Context, kv KVStore, key string) *BookmarkStore {
	if key == "" {
		key = DefaultBookmarksKey
	}
	s := &BookmarkStore{
		kv:      kv,
		key:     key,
		pending: make(chan []byte, 1),
		done:    make(chan struct{}),
	}
	s.entries = s.load(ctx)
	go s.persistLoop()
	return s
}

func (s *BookmarkStore) load(ctx context.Context) []domain.BookmarkEntry {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			log.Printf("could not load saved items: %v", err)
		}
		return nil
	}

	var stored []domain.BookmarkEntry
	if err := json.Unmarshal(raw, &stored); err != nil {
		log.Printf("could not decode saved items, starting empty: %v", err)
		return nil
	}

	entries := make([]domain.BookmarkEntry, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for _, entry := range stored {
		if entry.ID == "" {
			continue
		}
		if _, dup := seen[entry.ID]; dup {
			continue
		}
		seen[entry.ID] = struct{}{}
		entries = append(entries, entry)
	}
	return entries
}

// Toggle removes the entry if its id is saved, otherwise appends it.
// It reports whether the entry is saved afterwards.
func (s *BookmarkStore) Toggle(entry domain.BookmarkEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := false
	if i := s.indexLocked(entry.ID); i >= 0 {
		s.entries = slices.Delete(s.entries, i, i+1)
	} else {
		s.entries = append(s.entries, entry)
		saved = true
	}
	s.schedulePersistLocked()
	return saved
}

// List returns the saved entries in insertion order.
func (s *BookmarkStore) List() []domain.BookmarkEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.BookmarkEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Contains reports whether an entry with the given id is saved.
func (s *BookmarkStore) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id) >= 0
}

// IsSaved checks membership by kind and key (item id or option word).
func (s *BookmarkStore) IsSaved(kind domain.BookmarkKind, key string) bool {
	return s.Contains(domain.BookmarkID(kind, key))
}

// Close stops accepting writes and waits for the last snapshot to be written.
func (s *BookmarkStore) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.pending)
	s.mu.Unlock()
	<-s.done
}

func (s *BookmarkStore) indexLocked(id string) int {
	return slices.IndexFunc(s.entries, func(e domain.BookmarkEntry) bool {
		return e.ID == id
	})
}

func (s *BookmarkStore) schedulePersistLocked() {
	if s.closed {
		return
	}
	data, err := json.Marshal(s.entriesForStorageLocked())
	if err != nil {
		log.Printf("could not encode saved items: %v", err)
		return
	}
	select {
	case s.pending <- data:
	default:
		// replace the queued snapshot; only the newest list matters
		select {
		case <-s.pending:
		default:
		}
		s.pending <- data
	}
}

func (s *BookmarkStore) entriesForStorageLocked() []domain.BookmarkEntry {
	if s.entries == nil {
		return []domain.BookmarkEntry{}
	}
	return s.entries
}

func (s *BookmarkStore) persistLoop() {
	defer close(s.done)
	for data := range s.pending {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		if err := s.kv.Set(ctx, s.key, data); err != nil {
			log.Printf("could not save items: %v", err)
		}
		cancel()
	}
}
