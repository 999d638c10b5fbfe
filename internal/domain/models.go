package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// blankPattern matches the placeholder a sentence leaves for the missing word.
var blankPattern = regexp.MustCompile(`_{2,}`)

// Option is one multiple-choice answer for a quiz item.
type Option struct {
	Word      string `json:"word" yaml:"word"`
	WordPl    string `json:"word_pl" yaml:"word_pl"`
	IsCorrect bool   `json:"isCorrect" yaml:"isCorrect"`
}

// QuizItem is a fill-in-the-blank sentence with exactly one correct option.
type QuizItem struct {
	ID          int      `json:"id" yaml:"id"`
	Sentence    string   `json:"sentence" yaml:"sentence"`
	SentencePl  string   `json:"sentence_pl" yaml:"sentence_pl"`
	Options     []Option `json:"options" yaml:"options"`
	CorrectWord string   `json:"correctWord" yaml:"correctWord"`
}

// Validate checks the catalog invariants for a single item.
func (q QuizItem) Validate() error {
	if strings.TrimSpace(q.Sentence) == "" {
		return fmt.Errorf("%w: item %d has an empty sentence", ErrInvalidQuizItem, q.ID)
	}
	if n := len(blankPattern.FindAllStringIndex(q.Sentence, -1)); n != 1 {
		return fmt.Errorf("%w: item %d has %d blanks, want 1", ErrInvalidQuizItem, q.ID, n)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: item %d has %d options, want at least 2", ErrInvalidQuizItem, q.ID, len(q.Options))
	}

	seen := make(map[string]struct{}, len(q.Options))
	correct := 0
	for _, opt := range q.Options {
		if opt.Word == "" {
			return fmt.Errorf("%w: item %d has an option without a word", ErrInvalidQuizItem, q.ID)
		}
		if _, dup := seen[opt.Word]; dup {
			return fmt.Errorf("%w: item %d repeats option %q", ErrInvalidQuizItem, q.ID, opt.Word)
		}
		seen[opt.Word] = struct{}{}
		if opt.IsCorrect {
			correct++
			if opt.Word != q.CorrectWord {
				return fmt.Errorf("%w: item %d correct option %q does not match correctWord %q", ErrInvalidQuizItem, q.ID, opt.Word, q.CorrectWord)
			}
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: item %d has %d correct options, want 1", ErrInvalidQuizItem, q.ID, correct)
	}
	return nil
}

// FindOption looks up an option by its word.
func (q QuizItem) FindOption(word string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.Word == word {
			return opt, true
		}
	}
	return Option{}, false
}

// FilledSentence returns the sentence with the blank replaced by the correct word.
func (q QuizItem) FilledSentence() string {
	return fillBlank(q.Sentence, q.CorrectWord)
}

// RevealedSentence is the display form of FilledSentence, padded with spaces.
func (q QuizItem) RevealedSentence() string {
	return fillBlank(q.Sentence, " "+q.CorrectWord+" ")
}

func fillBlank(sentence, word string) string {
	loc := blankPattern.FindStringIndex(sentence)
	if loc == nil {
		return sentence
	}
	return sentence[:loc[0]] + word + sentence[loc[1]:]
}

// ValidateCatalog checks every item plus id uniqueness across the catalog.
func ValidateCatalog(items []QuizItem) error {
	if len(items) == 0 {
		return ErrCatalogEmpty
	}
	ids := make(map[int]struct{}, len(items))
	for _, item := range items {
		if _, dup := ids[item.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidQuizItem, item.ID)
		}
		ids[item.ID] = struct{}{}
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// QueueEntry is a catalog item placed in the session queue.
// RepetitionScheduled is set once the item has been requeued after a miss.
type QueueEntry struct {
	QuizItem
	RepetitionScheduled bool `json:"repetitionScheduled"`
}

// AnswerState tracks where the current question is in its answer cycle.
type AnswerState string

const (
	AnswerPending      AnswerState = "pending"
	AnswerCorrect      AnswerState = "correct"
	AnswerIncorrectTry AnswerState = "incorrect_try"
)

// BookmarkKind distinguishes saved words from saved sentences.
type BookmarkKind string

const (
	KindWord     BookmarkKind = "word"
	KindSentence BookmarkKind = "sentence"
)

// Valid reports whether k is a known bookmark kind.
func (k BookmarkKind) Valid() bool {
	return k == KindWord || k == KindSentence
}

// BookmarkEntry is a saved word or sentence. ID is the dedup key.
type BookmarkEntry struct {
	ID          string       `json:"id"`
	Kind        BookmarkKind `json:"kind"`
	Content     string       `json:"content"`
	Translation string       `json:"translation"`
}

// BookmarkID derives the stable id for a word ("word-{word}") or sentence ("sentence-{itemID}").
func BookmarkID(kind BookmarkKind, key string) string {
	return string(kind) + "-" + key
}

// SentenceBookmark builds the bookmark for a quiz item's filled sentence.
func SentenceBookmark(item QuizItem) BookmarkEntry {
	return BookmarkEntry{
		ID:          BookmarkID(KindSentence, strconv.Itoa(item.ID)),
		Kind:        KindSentence,
		Content:     item.FilledSentence(),
		Translation: item.SentencePl,
	}
}

// WordBookmark builds the bookmark for an option word.
func WordBookmark(opt Option) BookmarkEntry {
	return BookmarkEntry{
		ID:          BookmarkID(KindWord, opt.Word),
		Kind:        KindWord,
		Content:     opt.Word,
		Translation: opt.WordPl,
	}
}

// OptionView is an option as shown to the player, with its bookmark flag.
type OptionView struct {
	Option
	Saved bool `json:"saved"`
}

// GameSnapshot is the read model handed to the presentation layer.
type GameSnapshot struct {
	Loading       bool         `json:"loading"`
	ItemID        int          `json:"itemId,omitempty"`
	Sentence      string       `json:"sentence,omitempty"`
	SentencePl    string       `json:"sentencePl,omitempty"`
	Revealed      string       `json:"revealed,omitempty"`
	Options       []OptionView `json:"options,omitempty"`
	Repeat        bool         `json:"repeat"`
	SentenceSaved bool         `json:"sentenceSaved"`
	Position      int          `json:"position"`
	QueueLength   int          `json:"queueLength"`
	AnswerState   AnswerState  `json:"answerState"`
	Score         int          `json:"score"`
}

// AnswerResult summarizes the outcome of one option selection.
type AnswerResult struct {
	Accepted bool   `json:"accepted"`
	Correct  bool   `json:"correct"`
	Requeued bool   `json:"requeued"`
	Score    int    `json:"score"`
	Word     string `json:"word"`
}
