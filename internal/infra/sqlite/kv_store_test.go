package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"business-english-quiz/internal/app"
	"business-english-quiz/internal/domain"
)

func TestKVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "data", "quiz.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if _, err := store.Get(ctx, "saved"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if err := store.Set(ctx, "saved", []byte("[1]")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "saved", []byte("[2]")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := store.Get(ctx, "saved")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "[2]" {
		t.Fatalf("expected latest value, got %q", got)
	}
}

func TestBookmarksSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quiz.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	bookmarks := app.NewBookmarkStore(ctx, store, "")
	bookmarks.Toggle(domain.WordBookmark(domain.Option{Word: "revenue", WordPl: "przychód"}))
	bookmarks.Close()
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	reloaded := app.NewBookmarkStore(ctx, reopened, "")
	defer reloaded.Close()
	if !reloaded.IsSaved(domain.KindWord, "revenue") {
		t.Fatalf("expected bookmark to survive reopen, got %+v", reloaded.List())
	}
}
