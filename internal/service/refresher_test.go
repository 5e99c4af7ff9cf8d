package service

import (
	"context"
	"testing"
	"time"

	"basketcatalog/internal/database"
	"basketcatalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRefresher_RefreshOnce(t *testing.T) {
	repo := database.NewMemoryRepo()
	ctx := context.Background()
	_, err := repo.SeedBaskets(ctx, []models.Basket{
		{ID: "a", Name: "Unclassified", Assets: models.Assets{{Symbol: "ETH"}}},
		{ID: "b", Name: "Stale", Category: models.CategoryBonds, Assets: models.Assets{{Symbol: "SPY", Type: "equity"}}},
		{ID: "c", Name: "Current", Category: models.CategoryMixed},
	})
	require.NoError(t, err)

	r := NewCategoryRefresher(repo, quietLogger())
	n, err := r.RefreshOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	a, err := repo.FindUnique(ctx, "a", false)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryCrypto, a.Category)
	b, err := repo.FindUnique(ctx, "b", false)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryStocks, b.Category)

	n, err = r.RefreshOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "second pass has nothing to change")

	count, err := repo.Count(ctx, database.Filter{database.CategoryIs(models.CategoryCrypto)})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCategoryRefresher_Start(t *testing.T) {
	r := NewCategoryRefresher(database.NewMemoryRepo(), quietLogger())

	_, err := r.Start(context.Background(), "not a schedule")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done, err := r.Start(ctx, "@every 1h")
	require.NoError(t, err)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresher did not stop")
	}
}
