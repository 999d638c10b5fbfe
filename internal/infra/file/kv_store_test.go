package file

import (
	"context"
	"errors"
	"testing"

	"business-english-quiz/internal/domain"
)

func TestKVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewKVStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := store.Get(ctx, "saved/items"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if err := store.Set(ctx, "saved/items", []byte(`[{"id":"word-a"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "saved/items", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.Get(ctx, "saved/items")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("expected latest value, got %q", got)
	}
}
