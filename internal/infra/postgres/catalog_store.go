package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"business-english-quiz/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogStore keeps quiz items as JSONB rows in Postgres.
type CatalogStore struct {
	pool *pgxpool.Pool
}

func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

func (s *CatalogStore) LoadCatalog(ctx context.Context) ([]domain.QuizItem, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM quiz_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	var items []domain.QuizItem
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan quiz item: %w", err)
		}
		var item domain.QuizItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshal quiz item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.ErrCatalogEmpty
	}
	return items, nil
}

// SaveCatalog replaces the stored catalog with items in one transaction.
func (s *CatalogStore) SaveCatalog(ctx context.Context, items []domain.QuizItem) error {
	if err := domain.ValidateCatalog(items); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM quiz_items`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal quiz item %d: %w", item.ID, err)
		}
		batch.Queue(`INSERT INTO quiz_items (id, data) VALUES ($1, $2::jsonb)`, item.ID, string(data))
	}
	results := tx.SendBatch(ctx, batch)
	for range items {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert quiz item: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("insert quiz items: %w", err)
	}
	return tx.Commit(ctx)
}
