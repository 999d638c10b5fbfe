package domain

import (
	"errors"
	"testing"
)

func sampleItem() QuizItem {
	return QuizItem{
		ID:         7,
		Sentence:   "We need to __ our efforts.",
		SentencePl: "Musimy połączyć nasze wysiłki.",
		Options: []Option{
			{Word: "combine", WordPl: "połączyć", IsCorrect: true},
			{Word: "divide", WordPl: "podzielić"},
		},
		CorrectWord: "combine",
	}
}

func TestQuizItemValidate(t *testing.T) {
	if err := sampleItem().Validate(); err != nil {
		t.Fatalf("expected valid item, got %v", err)
	}

	cases := map[string]func(q *QuizItem){
		"no blank":       func(q *QuizItem) { q.Sentence = "We need to combine our efforts." },
		"two blanks":     func(q *QuizItem) { q.Sentence = "We __ to __ our efforts." },
		"one option":     func(q *QuizItem) { q.Options = q.Options[:1] },
		"no correct":     func(q *QuizItem) { q.Options[0].IsCorrect = false },
		"two correct":    func(q *QuizItem) { q.Options[1].IsCorrect = true },
		"duplicate word": func(q *QuizItem) { q.Options[1].Word = "combine" },
		"word mismatch":  func(q *QuizItem) { q.CorrectWord = "divide" },
		"empty sentence": func(q *QuizItem) { q.Sentence = "  " },
		"empty word":     func(q *QuizItem) { q.Options[1].Word = "" },
	}
	for name, mutate := range cases {
		item := sampleItem()
		item.Options = append([]Option(nil), item.Options...)
		mutate(&item)
		if err := item.Validate(); !errors.Is(err, ErrInvalidQuizItem) {
			t.Fatalf("%s: expected ErrInvalidQuizItem, got %v", name, err)
		}
	}
}

func TestValidateCatalog(t *testing.T) {
	if err := ValidateCatalog(nil); !errors.Is(err, ErrCatalogEmpty) {
		t.Fatalf("expected ErrCatalogEmpty, got %v", err)
	}
	item := sampleItem()
	if err := ValidateCatalog([]QuizItem{item, item}); !errors.Is(err, ErrInvalidQuizItem) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestFilledSentence(t *testing.T) {
	item := sampleItem()
	item.Sentence = "We need to ___ our efforts."
	if got := item.FilledSentence(); got != "We need to combine our efforts." {
		t.Fatalf("unexpected filled sentence %q", got)
	}
	if got := item.RevealedSentence(); got != "We need to  combine  our efforts." {
		t.Fatalf("unexpected revealed sentence %q", got)
	}
}

func TestBookmarkIDsAreDeterministic(t *testing.T) {
	item := sampleItem()
	first := SentenceBookmark(item)
	second := SentenceBookmark(item)
	if first != second || first.ID != "sentence-7" {
		t.Fatalf("expected stable sentence bookmark, got %+v and %+v", first, second)
	}
	if first.Content != "We need to combine our efforts." || first.Kind != KindSentence {
		t.Fatalf("unexpected sentence bookmark %+v", first)
	}

	word := WordBookmark(item.Options[1])
	if word.ID != "word-divide" || word.Translation != "podzielić" || word != WordBookmark(item.Options[1]) {
		t.Fatalf("unexpected word bookmark %+v", word)
	}
	if BookmarkID(KindWord, "divide") != word.ID {
		t.Fatalf("BookmarkID disagrees with WordBookmark")
	}
}
