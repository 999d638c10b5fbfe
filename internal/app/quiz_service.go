package app

import (
	"context"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"business-english-quiz/internal/domain"
)

// DefaultRetryDelay is how long an incorrect try stays visible before the question reopens.
const DefaultRetryDelay = 1500 * time.Millisecond

// CatalogRepository loads the quiz catalog (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context) ([]domain.QuizItem, error)
}

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc is the production implementation.
type AfterFunc func(d time.Duration, f func()) Timer

// Options tunes pacing and randomness of a QuizService. Zero values pick the defaults.
type Options struct {
	RetryDelay time.Duration
	Requeue    RequeuePolicy
	Rand       Randomizer
	AfterFunc  AfterFunc
}

func (o Options) withDefaults() Options {
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.Requeue.MinOffset == 0 && o.Requeue.MaxOffset == 0 {
		o.Requeue = DefaultRequeuePolicy
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.AfterFunc == nil {
		o.AfterFunc = func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		}
	}
	return o
}

// QuizService is the single-player game: it owns the session state and
// translates presentation events into engine transitions.
type QuizService struct {
	catalog   CatalogRepository
	bookmarks *BookmarkStore
	opts      Options

	mu          sync.Mutex
	items       []domain.QuizItem
	state       SessionState
	retry       Timer
	subscribers map[chan domain.GameSnapshot]struct{}
}

func NewQuizService(catalog CatalogRepository, bookmarks *BookmarkStore, opts Options) *QuizService {
	return &QuizService{
		catalog:     catalog,
		bookmarks:   bookmarks,
		opts:        opts.withDefaults(),
		state:       SessionState{AnswerState: domain.AnswerPending},
		subscribers: make(map[chan domain.GameSnapshot]struct{}),
	}
}

// Start loads the catalog and seeds the queue. Until it succeeds the game reports loading.
func (s *QuizService) Start(ctx context.Context) error {
	items, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return err
	}
	if err := domain.ValidateCatalog(items); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRetryLocked()
	s.items = items
	generation := s.state.Generation + 1
	s.state = NewSessionState(items, s.state.Score, s.opts.Rand)
	s.state.Generation = generation
	s.broadcastLocked()
	return nil
}

// Snapshot returns the current read model.
func (s *QuizService) Snapshot() domain.GameSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// State returns a copy of the engine state.
func (s *QuizService) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	state.Queue = append([]domain.QueueEntry(nil), s.state.Queue...)
	return state
}

// SelectOption answers the current item with the option carrying word.
func (s *QuizService) SelectOption(_ context.Context, word string) (domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.state.Current()
	if !ok {
		return domain.AnswerResult{}, domain.ErrCatalogNotLoaded
	}
	opt, ok := current.FindOption(word)
	if !ok {
		return domain.AnswerResult{Word: word, Score: s.state.Score}, domain.ErrOptionNotFound
	}

	next, result := SubmitAnswer(s.state, opt, s.opts.Requeue, s.opts.Rand)
	if !result.Accepted {
		return result, nil
	}
	s.state = next
	if !result.Correct {
		s.armRetryLocked()
	}
	s.broadcastLocked()
	return result, nil
}

// Advance moves to the next item after a correct answer.
func (s *QuizService) Advance() (domain.GameSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := Advance(s.state)
	if !ok {
		return s.snapshotLocked(), false
	}
	s.stopRetryLocked()
	s.state = next
	return s.broadcastLocked(), true
}

// Restart resets the score and reshuffles the catalog. If the catalog cannot be
// refreshed the previously loaded one is reused.
func (s *QuizService) Restart(ctx context.Context) (domain.GameSnapshot, error) {
	items, err := s.catalog.GetCatalog(ctx)
	if err == nil {
		err = domain.ValidateCatalog(items)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if len(s.items) == 0 {
			return s.snapshotLocked(), err
		}
		log.Printf("catalog refresh on restart failed, reusing loaded catalog: %v", err)
		items = s.items
	}
	s.stopRetryLocked()
	s.items = items
	s.state = Restart(s.state, items, s.opts.Rand)
	return s.broadcastLocked(), nil
}

// ToggleBookmark saves or removes an entry and reports whether it is saved afterwards.
func (s *QuizService) ToggleBookmark(entry domain.BookmarkEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := s.bookmarks.Toggle(entry)
	s.broadcastLocked()
	return saved
}

// ToggleSentence bookmarks the current item's filled sentence.
func (s *QuizService) ToggleSentence() (domain.BookmarkEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.state.Current()
	if !ok {
		return domain.BookmarkEntry{}, false, domain.ErrCatalogNotLoaded
	}
	entry := domain.SentenceBookmark(current.QuizItem)
	saved := s.bookmarks.Toggle(entry)
	s.broadcastLocked()
	return entry, saved, nil
}

// ToggleWord bookmarks one of the current item's options.
func (s *QuizService) ToggleWord(word string) (domain.BookmarkEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.state.Current()
	if !ok {
		return domain.BookmarkEntry{}, false, domain.ErrCatalogNotLoaded
	}
	opt, ok := current.FindOption(word)
	if !ok {
		return domain.BookmarkEntry{}, false, domain.ErrOptionNotFound
	}
	entry := domain.WordBookmark(opt)
	saved := s.bookmarks.Toggle(entry)
	s.broadcastLocked()
	return entry, saved, nil
}

// Bookmarks lists saved entries in insertion order.
func (s *QuizService) Bookmarks() []domain.BookmarkEntry {
	return s.bookmarks.List()
}

// IsSaved reports bookmark membership by kind and key.
func (s *QuizService) IsSaved(kind domain.BookmarkKind, key string) bool {
	return s.bookmarks.IsSaved(kind, key)
}

// Subscribe returns a channel that receives a snapshot after every change.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe() (<-chan domain.GameSnapshot, func()) {
	ch := make(chan domain.GameSnapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Close cancels a pending retry timer.
func (s *QuizService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRetryLocked()
}

func (s *QuizService) armRetryLocked() {
	s.stopRetryLocked()
	generation := s.state.Generation
	s.retry = s.opts.AfterFunc(s.opts.RetryDelay, func() {
		s.clearIncorrect(generation)
	})
}

func (s *QuizService) stopRetryLocked() {
	if s.retry != nil {
		s.retry.Stop()
		s.retry = nil
	}
}

func (s *QuizService) clearIncorrect(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.state.AnswerState
	s.state = ClearIncorrect(s.state, generation)
	if s.state.AnswerState != before {
		s.retry = nil
		s.broadcastLocked()
	}
}

func (s *QuizService) broadcastLocked() domain.GameSnapshot {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// drop the stale update so a slow reader never blocks the game
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (s *QuizService) snapshotLocked() domain.GameSnapshot {
	snap := domain.GameSnapshot{
		QueueLength: len(s.state.Queue),
		AnswerState: s.state.AnswerState,
		Score:       s.state.Score,
	}
	current, ok := s.state.Current()
	if !ok {
		snap.Loading = true
		return snap
	}

	snap.ItemID = current.ID
	snap.Sentence = current.Sentence
	snap.SentencePl = current.SentencePl
	snap.Repeat = current.RepetitionScheduled
	snap.Position = s.state.CurrentIndex
	snap.SentenceSaved = s.bookmarks.IsSaved(domain.KindSentence, strconv.Itoa(current.ID))
	if s.state.AnswerState == domain.AnswerCorrect {
		snap.Revealed = current.RevealedSentence()
	}
	snap.Options = make([]domain.OptionView, len(current.Options))
	for i, opt := range current.Options {
		snap.Options[i] = domain.OptionView{
			Option: opt,
			Saved:  s.bookmarks.IsSaved(domain.KindWord, opt.Word),
		}
	}
	return snap
}
