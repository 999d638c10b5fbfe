package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"business-english-quiz/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches the catalog from a backing store (file, Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]domain.QuizItem, error)
}

// CatalogRepository caches the serialized catalog in Redis and falls back to a loader on a miss.
// The catalog is stored as: SET quiz:catalog {json}
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context) ([]domain.QuizItem, error) {
	if items, ok := r.cached(ctx); ok {
		return items, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if items, ok := r.cached(ctx); ok {
			return items, nil
		}
		return r.reload(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.QuizItem), nil
}

// Warm reloads the catalog from the loader and refreshes the cached copy.
func (r *CatalogRepository) Warm(ctx context.Context) error {
	_, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		return r.reload(ctx)
	})
	return err
}

const catalogKey = "quiz:catalog"

func (r *CatalogRepository) cached(ctx context.Context) ([]domain.QuizItem, bool) {
	raw, err := r.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		return nil, false
	}
	var items []domain.QuizItem
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("dropping undecodable cached catalog: %v", err)
		return nil, false
	}
	if domain.ValidateCatalog(items) != nil {
		return nil, false
	}
	return items, true
}

func (r *CatalogRepository) reload(ctx context.Context) ([]domain.QuizItem, error) {
	items, err := r.loader.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateCatalog(items); err != nil {
		return nil, err
	}

	data, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	// best-effort: a failed cache write only costs a reload next time
	if err := r.client.Set(ctx, catalogKey, data, r.ttlWithJitter()).Err(); err != nil {
		log.Printf("cache catalog in redis: %v", err)
	}
	return items, nil
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
