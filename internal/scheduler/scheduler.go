package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Warmer reloads a cached catalog ahead of expiry.
type Warmer interface {
	Warm(ctx context.Context) error
}

// Scheduler runs background upkeep for the quiz service.
type Scheduler struct {
	scheduler *gocron.Scheduler
	warmer    Warmer
	timeout   time.Duration
}

// New creates a scheduler instance.
func New(warmer Warmer) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		warmer:    warmer,
		timeout:   30 * time.Second,
	}
}

// Start refreshes the catalog every interval without blocking the caller.
func (s *Scheduler) Start(interval time.Duration) error {
	if _, err := s.scheduler.Every(interval).WaitForSchedule().Do(s.warmCatalog); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) warmCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.warmer.Warm(ctx); err != nil {
		log.Printf("catalog refresh failed: %v", err)
		return
	}
	log.Printf("catalog refreshed")
}
