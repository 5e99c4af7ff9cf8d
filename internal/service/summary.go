package service

import (
	"basketcatalog/internal/models"

	"github.com/shopspring/decimal"
)

// PerformancePeriod labels the holdings-derived return.
const PerformancePeriod = "1D"

var hundred = decimal.NewFromInt(100)

type Performance struct {
	Percentage float64 `json:"percentage"`
	Period     string  `json:"period"`
	IsPositive bool    `json:"isPositive"`
}

type Returns struct {
	OneDay      *float64 `json:"oneDay,omitempty"`
	OneWeek     *float64 `json:"oneWeek,omitempty"`
	OneMonth    *float64 `json:"oneMonth,omitempty"`
	ThreeMonths *float64 `json:"threeMonths,omitempty"`
	OneYear     *float64 `json:"oneYear,omitempty"`
}

type BasketSummary struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	IconURL     string           `json:"iconUrl"`
	RiskLevel   models.RiskLevel `json:"riskLevel"`
	Category    string           `json:"category"`
	IsCommunity bool             `json:"isCommunity"`
	CuratorID   *string          `json:"curatorId,omitempty"`
	Performance Performance      `json:"performance"`
	Returns     *Returns         `json:"returns,omitempty"`
	TotalValue  float64          `json:"totalValue"`
	AssetCount  int              `json:"assetCount"`
	Assets      models.Assets    `json:"assets,omitempty"`
}

// ComputePerformance sums holdings and derives the percentage return.
// With nothing invested the return is 0 and not positive.
func ComputePerformance(holdings []models.Holding) (Performance, decimal.Decimal) {
	invested, current := decimal.Zero, decimal.Zero
	for _, h := range holdings {
		invested = invested.Add(h.TotalAmountInvested)
		current = current.Add(h.CurrentValue)
	}
	perf := Performance{Period: PerformancePeriod}
	if invested.IsZero() {
		return perf, current
	}
	pct := current.Sub(invested).Div(invested).Mul(hundred).Round(2)
	perf.Percentage, _ = pct.Float64()
	perf.IsPositive = pct.Sign() >= 0
	return perf, current
}

// Summarize builds the response view of a basket. A stored category wins over
// the one derived from assets.
func Summarize(b models.Basket, withAssets bool) BasketSummary {
	category := b.Category
	if category == "" {
		category = models.Classify(b.Assets)
	}
	perf, total := ComputePerformance(b.Holdings)
	totalValue, _ := total.Round(2).Float64()

	s := BasketSummary{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		IconURL:     b.IconURL,
		RiskLevel:   b.RiskLevel,
		Category:    category,
		IsCommunity: b.IsCommunity,
		CuratorID:   b.CuratorID,
		Performance: perf,
		TotalValue:  totalValue,
		AssetCount:  len(b.Assets),
	}
	if b.PeriodReturns.Any() {
		s.Returns = &Returns{
			OneDay:      nullFloat(b.OneDay),
			OneWeek:     nullFloat(b.OneWeek),
			OneMonth:    nullFloat(b.OneMonth),
			ThreeMonths: nullFloat(b.ThreeMonths),
			OneYear:     nullFloat(b.OneYear),
		}
	}
	if withAssets {
		s.Assets = b.Assets
	}
	return s
}

func nullFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f, _ := d.Decimal.Round(2).Float64()
	return &f
}
