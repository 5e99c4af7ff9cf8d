package database

import (
	"errors"
	"fmt"
	"strings"

	"basketcatalog/internal/models"
)

var ErrNotFound = errors.New("basket not found")

// Predicate is one supported filter condition. The set is closed: only types in
// this package implement it.
type Predicate interface {
	Matches(b models.Basket) bool
	predicate()
}

// SearchText matches a case-insensitive substring of name, description or stored category.
type SearchText string

// RiskLevelIs matches the exact risk level.
type RiskLevelIs models.RiskLevel

// CategoryIs matches the stored category column.
type CategoryIs string

type CommunityIs bool

func (SearchText) predicate()  {}
func (RiskLevelIs) predicate() {}
func (CategoryIs) predicate()  {}
func (CommunityIs) predicate() {}

func (p SearchText) Matches(b models.Basket) bool {
	needle := strings.ToLower(string(p))
	return strings.Contains(strings.ToLower(b.Name), needle) ||
		strings.Contains(strings.ToLower(b.Description), needle) ||
		strings.Contains(strings.ToLower(b.Category), needle)
}

func (p RiskLevelIs) Matches(b models.Basket) bool { return b.RiskLevel == models.RiskLevel(p) }
func (p CategoryIs) Matches(b models.Basket) bool  { return b.Category == string(p) }
func (p CommunityIs) Matches(b models.Basket) bool { return b.IsCommunity == bool(p) }

// Filter is a conjunction of predicates. An empty filter matches everything.
type Filter []Predicate

func (f Filter) Matches(b models.Basket) bool {
	for _, p := range f {
		if !p.Matches(b) {
			return false
		}
	}
	return true
}

type Order int

const (
	NewestFirst Order = iota
	NameAsc
)

type FindQuery struct {
	Filter          Filter
	Order           Order
	Skip            int
	Take            int
	IncludeHoldings bool
}

func (q FindQuery) checkWindow() error {
	if q.Skip < 0 || q.Take < 0 {
		return fmt.Errorf("invalid window skip=%d take=%d", q.Skip, q.Take)
	}
	return nil
}

// BasketAssets is the projection the category refresher works on.
type BasketAssets struct {
	ID       string        `db:"id"`
	Category string        `db:"category"`
	Assets   models.Assets `db:"assets"`
}
