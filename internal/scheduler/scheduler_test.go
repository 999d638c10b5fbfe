package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingWarmer struct {
	calls atomic.Int32
	err   error
}

func (w *countingWarmer) Warm(context.Context) error {
	w.calls.Add(1)
	return w.err
}

func TestSchedulerWarmsCatalog(t *testing.T) {
	warmer := &countingWarmer{}
	s := New(warmer)
	if err := s.Start(time.Second); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for warmer.calls.Load() < 1 {
		if time.Now().After(deadline) {
			t.Fatalf("expected a scheduled warm call, got %d", warmer.calls.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWarmFailureIsLogged(t *testing.T) {
	warmer := &countingWarmer{err: errors.New("db down")}
	s := New(warmer)
	s.warmCatalog()
	if warmer.calls.Load() != 1 {
		t.Fatalf("expected one warm attempt")
	}
}
