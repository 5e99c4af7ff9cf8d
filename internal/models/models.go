package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// ParseRiskLevel accepts any letter case and returns the canonical upper-case level.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case RiskLow:
		return RiskLow, true
	case RiskMedium:
		return RiskMedium, true
	case RiskHigh:
		return RiskHigh, true
	}
	return "", false
}

type Asset struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Type   string  `json:"type,omitempty"`
}

// Assets is stored as a JSON array. Anything that is not an array decodes to an empty list.
type Assets []Asset

func (a *Assets) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("assets: unsupported column type %T", src)
	}
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "[") {
		*a = nil
		return nil
	}
	var out []Asset
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return fmt.Errorf("assets: %w", err)
	}
	*a = out
	return nil
}

func (a Assets) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Asset(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

type Holding struct {
	ID                  string          `db:"id" json:"-"`
	BasketID            string          `db:"basket_id" json:"basketId"`
	CurrentValue        decimal.Decimal `db:"current_value" json:"currentValue"`
	TotalAmountInvested decimal.Decimal `db:"total_amount_invested" json:"totalAmountInvested"`
	UnitsOwned          decimal.Decimal `db:"units_owned" json:"unitsOwned"`
}

// PeriodReturns holds precomputed returns. Missing periods stay invalid.
type PeriodReturns struct {
	OneDay      decimal.NullDecimal `db:"performance_one_day"`
	OneWeek     decimal.NullDecimal `db:"performance_one_week"`
	OneMonth    decimal.NullDecimal `db:"performance_one_month"`
	ThreeMonths decimal.NullDecimal `db:"performance_three_months"`
	OneYear     decimal.NullDecimal `db:"performance_one_year"`
}

func (p PeriodReturns) Any() bool {
	return p.OneDay.Valid || p.OneWeek.Valid || p.OneMonth.Valid || p.ThreeMonths.Valid || p.OneYear.Valid
}

type Basket struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	IconURL     string    `db:"icon_url"`
	RiskLevel   RiskLevel `db:"risk_level"`
	Category    string    `db:"category"`
	Assets      Assets    `db:"assets"`
	IsCommunity bool      `db:"is_community"`
	CuratorID   *string   `db:"curator_id"`
	PeriodReturns
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Holdings []Holding `db:"-"`
}
