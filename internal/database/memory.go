package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"basketcatalog/internal/models"
)

// MemoryRepo is an in-process store with the same query semantics as Repo.
// It backs DB_DRIVER=memory and the service tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	baskets map[string]models.Basket
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{baskets: map[string]models.Basket{}}
}

func (m *MemoryRepo) Count(ctx context.Context, f Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, b := range m.baskets {
		if f.Matches(b) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepo) FindMany(ctx context.Context, q FindQuery) ([]models.Basket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := q.checkWindow(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	matched := []models.Basket{}
	for _, b := range m.baskets {
		if q.Filter.Matches(b) {
			matched = append(matched, copyBasket(b, q.IncludeHoldings))
		}
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if q.Order == NameAsc {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	if q.Skip >= len(matched) {
		return []models.Basket{}, nil
	}
	end := q.Skip + q.Take
	if end > len(matched) {
		end = len(matched)
	}
	return matched[q.Skip:end], nil
}

func (m *MemoryRepo) FindUnique(ctx context.Context, id string, includeHoldings bool) (*models.Basket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.baskets[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyBasket(b, includeHoldings)
	return &out, nil
}

func (m *MemoryRepo) ListAssets(ctx context.Context) ([]BasketAssets, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]BasketAssets, 0, len(m.baskets))
	for _, b := range m.baskets {
		res = append(res, BasketAssets{ID: b.ID, Category: b.Category, Assets: append(models.Assets(nil), b.Assets...)})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *MemoryRepo) UpdateCategory(ctx context.Context, id, category string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.baskets[id]
	if !ok {
		return ErrNotFound
	}
	b.Category = category
	b.UpdatedAt = time.Now().UTC()
	m.baskets[id] = b
	return nil
}

func (m *MemoryRepo) SeedBaskets(ctx context.Context, baskets []models.Basket) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	inserted := 0
	for _, b := range baskets {
		if _, exists := m.baskets[b.ID]; exists {
			continue
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = b.CreatedAt
		}
		m.baskets[b.ID] = copyBasket(b, true)
		inserted++
	}
	return inserted, nil
}

func copyBasket(b models.Basket, withHoldings bool) models.Basket {
	b.Assets = append(models.Assets(nil), b.Assets...)
	if withHoldings {
		b.Holdings = append([]models.Holding(nil), b.Holdings...)
	} else {
		b.Holdings = nil
	}
	return b
}
