package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"basketcatalog/internal/database"
	"basketcatalog/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	// MaxOffset caps how deep a listing may page, whether given as offset or page.
	MaxOffset      = 1_000_000
	maxSearchRunes = 100
)

// Gateway is the read side of the basket store.
type Gateway interface {
	Count(ctx context.Context, f database.Filter) (int, error)
	FindMany(ctx context.Context, q database.FindQuery) ([]models.Basket, error)
	FindUnique(ctx context.Context, id string, includeHoldings bool) (*models.Basket, error)
}

// ListQuery is the raw listing input. Nil pointers mean "not supplied".
type ListQuery struct {
	Search    string
	Category  string
	RiskLevel string
	Community *bool
	Sort      string
	Limit     *int
	Offset    *int
	Page      *int
}

type Pagination struct {
	Total      int  `json:"total"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	Page       int  `json:"page"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

type BasketList struct {
	Baskets    []BasketSummary `json:"baskets"`
	Pagination Pagination      `json:"pagination"`
}

type CatalogService struct {
	repo    Gateway
	log     *logrus.Logger
	timeout time.Duration
}

func NewCatalogService(r Gateway, log *logrus.Logger, timeout time.Duration) *CatalogService {
	return &CatalogService{repo: r, log: log, timeout: timeout}
}

func (s *CatalogService) ListBaskets(ctx context.Context, q ListQuery) (*BasketList, error) {
	fq, err := q.compile()
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	var (
		total int
		rows  []models.Basket
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.Count(gctx, fq.Filter)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		bs, err := s.repo.FindMany(gctx, fq)
		if err != nil {
			return fmt.Errorf("find: %w", err)
		}
		rows = bs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, s.dependencyError("list baskets", err)
	}

	out := &BasketList{
		Baskets:    make([]BasketSummary, 0, len(rows)),
		Pagination: paginate(total, fq.Take, fq.Skip),
	}
	for _, b := range rows {
		out.Baskets = append(out.Baskets, Summarize(b, false))
	}
	return out, nil
}

func (s *CatalogService) GetBasketByID(ctx context.Context, id string) (*BasketSummary, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &ValidationError{Fields: map[string]string{"id": "is required"}}
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	b, err := s.repo.FindUnique(ctx, id, true)
	if errors.Is(err, database.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, s.dependencyError("get basket", err)
	}
	sum := Summarize(*b, true)
	return &sum, nil
}

func (s *CatalogService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func (s *CatalogService) dependencyError(op string, err error) error {
	s.log.WithFields(logrus.Fields{"op": op, "error": err}).Error("basket store call failed")
	return &DependencyError{Op: op, Err: err}
}

func paginate(total, limit, offset int) Pagination {
	p := Pagination{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		Page:    offset/limit + 1,
		HasMore: offset < total-limit,
	}
	p.TotalPages = (total + limit - 1) / limit
	return p
}

func (q ListQuery) compile() (database.FindQuery, error) {
	fields := map[string]string{}
	fq := database.FindQuery{Take: DefaultLimit, IncludeHoldings: true}

	if search := strings.TrimSpace(q.Search); search != "" {
		if len([]rune(search)) > maxSearchRunes {
			fields["search"] = fmt.Sprintf("must be at most %d characters", maxSearchRunes)
		} else {
			fq.Filter = append(fq.Filter, database.SearchText(search))
		}
	}
	if q.RiskLevel != "" {
		if lvl, ok := models.ParseRiskLevel(q.RiskLevel); ok {
			fq.Filter = append(fq.Filter, database.RiskLevelIs(lvl))
		} else {
			fields["riskLevel"] = "must be one of LOW, MEDIUM, HIGH"
		}
	}
	if q.Category != "" {
		if c, ok := models.ParseCategory(q.Category); ok {
			fq.Filter = append(fq.Filter, database.CategoryIs(c))
		} else {
			fields["category"] = "must be one of Crypto, Stocks, Bonds, Real Estate, Mixed"
		}
	}
	if q.Community != nil {
		fq.Filter = append(fq.Filter, database.CommunityIs(*q.Community))
	}

	switch strings.ToLower(q.Sort) {
	case "", "newest":
		fq.Order = database.NewestFirst
	case "name":
		fq.Order = database.NameAsc
	default:
		fields["sort"] = "must be one of newest, name"
	}

	if q.Limit != nil {
		if *q.Limit < 1 || *q.Limit > MaxLimit {
			fields["limit"] = fmt.Sprintf("must be between 1 and %d", MaxLimit)
		} else {
			fq.Take = *q.Limit
		}
	}
	switch {
	case q.Offset != nil && q.Page != nil:
		fields["page"] = "cannot be combined with offset"
	case q.Offset != nil:
		if *q.Offset < 0 || *q.Offset > MaxOffset {
			fields["offset"] = fmt.Sprintf("must be between 0 and %d", MaxOffset)
		} else {
			fq.Skip = *q.Offset
		}
	case q.Page != nil:
		if *q.Page < 1 || *q.Page-1 > MaxOffset/fq.Take {
			fields["page"] = fmt.Sprintf("must be between 1 and %d", MaxOffset/fq.Take+1)
		} else {
			fq.Skip = (*q.Page - 1) * fq.Take
		}
	}

	if len(fields) > 0 {
		return database.FindQuery{}, &ValidationError{Fields: fields}
	}
	return fq, nil
}
