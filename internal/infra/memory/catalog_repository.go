package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"business-english-quiz/internal/domain"
	"golang.org/x/sync/singleflight"
)

const catalogKey = "catalog"

// CatalogLoader fetches the quiz catalog from a backing store (file, Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]domain.QuizItem, error)
}

// CatalogRepository caches the catalog with a TTL to avoid repeated loads.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu        sync.RWMutex
	items     []domain.QuizItem
	expiresAt time.Time
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GetCatalog returns the cached catalog, loading it on a miss or after expiry.
// A ttl of zero caches forever.
func (r *CatalogRepository) GetCatalog(ctx context.Context) ([]domain.QuizItem, error) {
	if items, ok := r.cached(r.clock()); ok {
		return items, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		if items, ok := r.cached(r.clock()); ok {
			return items, nil
		}
		return r.reload(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.QuizItem), nil
}

// Warm reloads the catalog regardless of expiry.
func (r *CatalogRepository) Warm(ctx context.Context) error {
	_, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		return r.reload(ctx)
	})
	return err
}

func (r *CatalogRepository) cached(now time.Time) ([]domain.QuizItem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.items == nil {
		return nil, false
	}
	if r.ttl > 0 && !r.expiresAt.After(now) {
		return nil, false
	}
	return r.items, true
}

func (r *CatalogRepository) reload(ctx context.Context) ([]domain.QuizItem, error) {
	items, err := r.loader.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateCatalog(items); err != nil {
		return nil, err
	}

	expiresAt := r.clock().Add(r.ttlWithJitter())
	r.mu.Lock()
	r.items = items
	r.expiresAt = expiresAt
	r.mu.Unlock()
	return items, nil
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticCatalogLoader is a simple loader backed by a slice (useful for tests/demos).
type StaticCatalogLoader struct {
	items []domain.QuizItem
}

func NewStaticCatalogLoader(items []domain.QuizItem) *StaticCatalogLoader {
	return &StaticCatalogLoader{items: items}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context) ([]domain.QuizItem, error) {
	if len(l.items) == 0 {
		return nil, domain.ErrCatalogEmpty
	}
	return l.items, nil
}
