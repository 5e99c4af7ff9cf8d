package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"basketcatalog/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

//go:embed schema/*.sql
var schemaFS embed.FS

const basketColumns = `id, name, description, icon_url, risk_level, category, assets, is_community, curator_id,
	performance_one_day, performance_one_week, performance_one_month, performance_three_months, performance_one_year,
	created_at, updated_at`

type Repo struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func New(db *sqlx.DB, log *logrus.Logger) *Repo {
	return &Repo{db: db, log: log}
}

// Migrate applies the embedded schema for the connection's driver.
func (r *Repo) Migrate(ctx context.Context) error {
	name := "schema/" + r.db.DriverName() + ".sql"
	b, err := schemaFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("no schema for driver %q", r.db.DriverName())
	}
	if _, err := r.db.ExecContext(ctx, string(b)); err != nil {
		return fmt.Errorf("apply %s: %w", name, err)
	}
	return nil
}

func (r *Repo) Count(ctx context.Context, f Filter) (int, error) {
	where, args := r.whereClause(f)
	var n int
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM baskets`+where), args...); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repo) FindMany(ctx context.Context, q FindQuery) ([]models.Basket, error) {
	if err := q.checkWindow(); err != nil {
		return nil, err
	}
	where, args := r.whereClause(q.Filter)
	query := `SELECT ` + basketColumns + ` FROM baskets` + where + ` ORDER BY ` + orderClause(q.Order) + ` LIMIT ? OFFSET ?`
	args = append(args, q.Take, q.Skip)

	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []models.Basket{}
	for rows.Next() {
		var b models.Basket
		// a dropped row would leave the page out of step with Count
		if err := rows.StructScan(&b); err != nil {
			return nil, fmt.Errorf("scan basket: %w", err)
		}
		res = append(res, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if q.IncludeHoldings && len(res) > 0 {
		ids := make([]string, len(res))
		for i, b := range res {
			ids[i] = b.ID
		}
		byBasket, err := r.holdingsFor(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range res {
			res[i].Holdings = byBasket[res[i].ID]
		}
	}
	return res, nil
}

func (r *Repo) FindUnique(ctx context.Context, id string, includeHoldings bool) (*models.Basket, error) {
	var b models.Basket
	err := r.db.GetContext(ctx, &b, r.db.Rebind(`SELECT `+basketColumns+` FROM baskets WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if includeHoldings {
		byBasket, err := r.holdingsFor(ctx, []string{id})
		if err != nil {
			return nil, err
		}
		b.Holdings = byBasket[id]
	}
	return &b, nil
}

func (r *Repo) holdingsFor(ctx context.Context, ids []string) (map[string][]models.Holding, error) {
	q, args, err := sqlx.In(`SELECT id, basket_id, current_value, total_amount_invested, units_owned FROM holdings WHERE basket_id IN (?) ORDER BY basket_id, id`, ids)
	if err != nil {
		return nil, err
	}
	var hs []models.Holding
	if err := r.db.SelectContext(ctx, &hs, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	res := make(map[string][]models.Holding, len(ids))
	for _, h := range hs {
		res[h.BasketID] = append(res[h.BasketID], h)
	}
	return res, nil
}

func (r *Repo) ListAssets(ctx context.Context) ([]BasketAssets, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT id, category, assets FROM baskets ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []BasketAssets{}
	for rows.Next() {
		var b BasketAssets
		if err := rows.StructScan(&b); err != nil {
			r.log.Warnf("scan basket assets failed: %v", err)
			continue
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

func (r *Repo) UpdateCategory(ctx context.Context, id, category string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE baskets SET category = ?, updated_at = ? WHERE id = ?`), category, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedBaskets inserts baskets and their holdings in one transaction. Rows that
// already exist are left untouched; the number of new baskets is returned.
func (r *Repo) SeedBaskets(ctx context.Context, baskets []models.Basket) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	insertBasket := tx.Rebind(`INSERT INTO baskets (` + basketColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`)
	insertHolding := tx.Rebind(`INSERT INTO holdings (id, basket_id, current_value, total_amount_invested, units_owned, created_at) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`)

	now := time.Now().UTC()
	inserted := 0
	for _, b := range baskets {
		created := b.CreatedAt
		if created.IsZero() {
			created = now
		}
		updated := b.UpdatedAt
		if updated.IsZero() {
			updated = created
		}
		res, err := tx.ExecContext(ctx, insertBasket,
			b.ID, b.Name, b.Description, b.IconURL, string(b.RiskLevel), b.Category, b.Assets, b.IsCommunity, b.CuratorID,
			b.OneDay, b.OneWeek, b.OneMonth, b.ThreeMonths, b.OneYear,
			created.UTC(), updated.UTC())
		if err != nil {
			return 0, fmt.Errorf("insert basket %s: %w", b.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
		for _, h := range b.Holdings {
			if _, err := tx.ExecContext(ctx, insertHolding, h.ID, b.ID,
				h.CurrentValue.String(), h.TotalAmountInvested.String(), h.UnitsOwned.String(), created.UTC()); err != nil {
				return 0, fmt.Errorf("insert holding %s: %w", h.ID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *Repo) whereClause(f Filter) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	for _, p := range f {
		switch p := p.(type) {
		case SearchText:
			clauses = append(clauses, r.searchClause())
			pat := "%" + escapeLike(strings.ToLower(string(p))) + "%"
			args = append(args, pat, pat, pat)
		case RiskLevelIs:
			clauses = append(clauses, `risk_level = ?`)
			args = append(args, string(p))
		case CategoryIs:
			clauses = append(clauses, `category = ?`)
			args = append(args, string(p))
		case CommunityIs:
			clauses = append(clauses, `is_community = ?`)
			args = append(args, bool(p))
		}
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// searchClause matches a lower-cased pattern against name, description and
// category. SQLite's LOWER and LIKE only fold ASCII, so there the columns go
// through casefold, which uses the same rule as SearchText.Matches.
func (r *Repo) searchClause() string {
	if r.db.DriverName() == "postgres" {
		return `(name ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\' OR category ILIKE ? ESCAPE '\')`
	}
	return `(casefold(name) LIKE ? ESCAPE '\' OR casefold(description) LIKE ? ESCAPE '\' OR casefold(category) LIKE ? ESCAPE '\')`
}

func orderClause(o Order) string {
	if o == NameAsc {
		return "name ASC, id ASC"
	}
	return "created_at DESC, id ASC"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
