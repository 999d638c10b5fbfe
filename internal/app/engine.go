package app

import (
	"slices"

	"business-english-quiz/internal/domain"
)

// Randomizer is the source of shuffles and requeue offsets. *rand.Rand satisfies it.
type Randomizer interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// RequeuePolicy controls where a missed item is put back in the queue.
type RequeuePolicy struct {
	MinOffset int
	MaxOffset int
}

// DefaultRequeuePolicy puts a missed item back 10 to 14 positions ahead.
var DefaultRequeuePolicy = RequeuePolicy{MinOffset: 10, MaxOffset: 14}

func (p RequeuePolicy) offset(rnd Randomizer) int {
	lo, hi := p.MinOffset, p.MaxOffset
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	return lo + rnd.Intn(hi-lo+1)
}

// SessionState is the whole progression state of one game session.
// Transition functions never mutate their input; they return the next state.
type SessionState struct {
	Queue        []domain.QueueEntry `json:"queue"`
	CurrentIndex int                 `json:"currentIndex"`
	AnswerState  domain.AnswerState  `json:"answerState"`
	Score        int                 `json:"score"`
	// Generation changes on every advance and restart; pending retry timers carry the value they were armed with.
	Generation uint64 `json:"generation"`
}

// NewSessionState shuffles the catalog into a fresh queue with the given starting score.
func NewSessionState(catalog []domain.QuizItem, score int, rnd Randomizer) SessionState {
	queue := make([]domain.QueueEntry, len(catalog))
	for i, item := range catalog {
		queue[i] = domain.QueueEntry{QuizItem: item}
	}
	rnd.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})
	if score < 0 {
		score = 0
	}
	return SessionState{
		Queue:       queue,
		AnswerState: domain.AnswerPending,
		Score:       score,
	}
}

// Loaded reports whether the queue has been initialized.
func (s SessionState) Loaded() bool {
	return len(s.Queue) > 0
}

// Current returns the entry at the current index, or false while loading.
func (s SessionState) Current() (domain.QueueEntry, bool) {
	if !s.Loaded() || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Queue) {
		return domain.QueueEntry{}, false
	}
	return s.Queue[s.CurrentIndex], true
}

// SubmitAnswer applies an option choice to the current item.
// Input outside the pending state is ignored and reported as not accepted.
func SubmitAnswer(s SessionState, opt domain.Option, policy RequeuePolicy, rnd Randomizer) (SessionState, domain.AnswerResult) {
	result := domain.AnswerResult{Word: opt.Word, Score: s.Score}
	if s.AnswerState != domain.AnswerPending || !s.Loaded() {
		return s, result
	}
	result.Accepted = true

	if opt.IsCorrect {
		s.AnswerState = domain.AnswerCorrect
		s.Score++
		result.Correct = true
		result.Score = s.Score
		return s, result
	}

	s.AnswerState = domain.AnswerIncorrectTry
	current := s.Queue[s.CurrentIndex]
	if current.RepetitionScheduled {
		return s, result
	}

	queue := slices.Clone(s.Queue)
	queue = slices.Delete(queue, s.CurrentIndex, s.CurrentIndex+1)
	current.RepetitionScheduled = true
	pos := min(s.CurrentIndex+policy.offset(rnd), len(queue))
	s.Queue = slices.Insert(queue, pos, current)
	result.Requeued = true
	return s, result
}

// ClearIncorrect returns an incorrect try to pending, unless the state moved
// to another generation after the retry timer was armed.
func ClearIncorrect(s SessionState, generation uint64) SessionState {
	if s.Generation != generation || s.AnswerState != domain.AnswerIncorrectTry {
		return s
	}
	s.AnswerState = domain.AnswerPending
	return s
}

// Advance moves past a correctly answered item, wrapping to the start of the queue.
// The requeue flags survive the wrap.
func Advance(s SessionState) (SessionState, bool) {
	if s.AnswerState != domain.AnswerCorrect || !s.Loaded() {
		return s, false
	}
	s.AnswerState = domain.AnswerPending
	s.CurrentIndex = (s.CurrentIndex + 1) % len(s.Queue)
	s.Generation++
	return s, true
}

// Restart discards the session and starts over from a fresh shuffle with a zero score.
func Restart(s SessionState, catalog []domain.QuizItem, rnd Randomizer) SessionState {
	next := NewSessionState(catalog, 0, rnd)
	next.Generation = s.Generation + 1
	return next
}
