package app_test

import (
	"context"
	"errors"
	"testing"

	"business-english-quiz/internal/app"
	"business-english-quiz/internal/domain"
	"business-english-quiz/internal/infra/memory"
)

func TestBookmarkToggleIsIdempotent(t *testing.T) {
	store := app.NewBookmarkStore(context.Background(), memory.NewKVStore(), "")
	defer store.Close()

	a := domain.WordBookmark(domain.Option{Word: "leverage", WordPl: "wykorzystać"})
	b := domain.WordBookmark(domain.Option{Word: "deadline", WordPl: "termin"})
	store.Toggle(a)
	store.Toggle(b)
	before := store.List()

	x := domain.SentenceBookmark(item(9, "A", "X"))
	if !store.Toggle(x) {
		t.Fatalf("first toggle should save")
	}
	if store.Toggle(x) {
		t.Fatalf("second toggle should remove")
	}

	after := store.List()
	if len(after) != len(before) {
		t.Fatalf("expected %d entries, got %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("ordering changed: %+v vs %+v", before, after)
		}
	}
}

func TestBookmarkPersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()

	store := app.NewBookmarkStore(ctx, kv, "saved")
	store.Toggle(domain.WordBookmark(domain.Option{Word: "leverage", WordPl: "wykorzystać"}))
	store.Toggle(domain.SentenceBookmark(item(3, "A", "X")))
	store.Close()

	raw, err := kv.Get(ctx, "saved")
	if err != nil {
		t.Fatalf("expected persisted blob: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("expected non-empty blob")
	}

	reloaded := app.NewBookmarkStore(ctx, kv, "saved")
	defer reloaded.Close()
	list := reloaded.List()
	if len(list) != 2 || list[0].ID != "word-leverage" || list[1].ID != "sentence-3" {
		t.Fatalf("unexpected reloaded list %+v", list)
	}
	if !reloaded.IsSaved(domain.KindSentence, "3") {
		t.Fatalf("expected sentence bookmark membership")
	}
}

func TestBookmarkCorruptBlobStartsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	_ = kv.Set(ctx, app.DefaultBookmarksKey, []byte("{not json"))

	store := app.NewBookmarkStore(ctx, kv, "")
	defer store.Close()
	if len(store.List()) != 0 {
		t.Fatalf("expected empty store from corrupt blob")
	}
}

func TestBookmarkDropsDuplicateIDsOnLoad(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	_ = kv.Set(ctx, "saved", []byte(`[
		{"id":"word-a","kind":"word","content":"a","translation":"a"},
		{"id":"word-a","kind":"word","content":"a","translation":"a"},
		{"id":"","kind":"word","content":"b","translation":"b"}
	]`))

	store := app.NewBookmarkStore(ctx, kv, "saved")
	defer store.Close()
	if list := store.List(); len(list) != 1 || list[0].ID != "word-a" {
		t.Fatalf("unexpected list %+v", list)
	}
}

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("storage unavailable")
}

func (brokenKV) Set(context.Context, string, []byte) error {
	return errors.New("storage unavailable")
}

func TestBookmarkStoreSurvivesBrokenStorage(t *testing.T) {
	store := app.NewBookmarkStore(context.Background(), brokenKV{}, "")

	entry := domain.WordBookmark(domain.Option{Word: "asset", WordPl: "aktywo"})
	if !store.Toggle(entry) {
		t.Fatalf("expected toggle to work in memory")
	}
	if !store.Contains(entry.ID) {
		t.Fatalf("expected entry in memory")
	}
	store.Close()
	// toggles after close stay in memory only
	store.Toggle(entry)
	if store.Contains(entry.ID) {
		t.Fatalf("expected entry removed")
	}
}
