package service

import (
	"context"
	"fmt"

	"basketcatalog/internal/database"
	"basketcatalog/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type CategoryStore interface {
	ListAssets(ctx context.Context) ([]database.BasketAssets, error)
	UpdateCategory(ctx context.Context, id, category string) error
}

// CategoryRefresher keeps the stored category column in line with each
// basket's assets, so category filters can run inside the store query.
type CategoryRefresher struct {
	repo CategoryStore
	log  *logrus.Logger
}

func NewCategoryRefresher(r CategoryStore, log *logrus.Logger) *CategoryRefresher {
	return &CategoryRefresher{repo: r, log: log}
}

// RefreshOnce reclassifies every basket and returns how many rows changed.
func (p *CategoryRefresher) RefreshOnce(ctx context.Context) (int, error) {
	items, err := p.repo.ListAssets(ctx)
	if err != nil {
		return 0, fmt.Errorf("list basket assets: %w", err)
	}
	updated := 0
	for _, it := range items {
		want := models.Classify(it.Assets)
		if it.Category == want {
			continue
		}
		if err := p.repo.UpdateCategory(ctx, it.ID, want); err != nil {
			p.log.Warnf("update category for %s failed: %v", it.ID, err)
			continue
		}
		p.log.Debugf("basket %s category %q -> %q", it.ID, it.Category, want)
		updated++
	}
	return updated, nil
}

// Start runs RefreshOnce on a cron schedule until ctx is cancelled. The
// returned channel is closed once the scheduler has stopped.
func (p *CategoryRefresher) Start(ctx context.Context, schedule string) (<-chan struct{}, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		n, err := p.RefreshOnce(ctx)
		if err != nil {
			p.log.Warnf("category refresh failed: %v", err)
			return
		}
		p.log.Infof("category refresh updated %d baskets", n)
	}); err != nil {
		return nil, fmt.Errorf("category refresh schedule %q: %w", schedule, err)
	}
	c.Start()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		<-c.Stop().Done()
		p.log.Info("category refresher stopping")
	}()
	return done, nil
}
