package database

import (
	"time"

	"basketcatalog/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var fixtureNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("basketcatalog/fixtures"))

// FixtureID is stable across runs so reseeding hits ON CONFLICT instead of duplicating rows.
func FixtureID(kind, name string) string {
	return uuid.NewSHA1(fixtureNamespace, []byte(kind+":"+name)).String()
}

type fixture struct {
	name        string
	description string
	risk        models.RiskLevel
	community   bool
	assets      models.Assets
	invested    []string
	current     []string
	oneDay      string
}

var fixtures = []fixture{
	{
		name:        "Crypto Blue Chips",
		description: "Bitcoin and Ether weighted by market cap",
		risk:        models.RiskHigh,
		assets: models.Assets{
			{Symbol: "BTC", Name: "Bitcoin", Weight: 60, Type: "crypto"},
			{Symbol: "ETH", Name: "Ethereum", Weight: 40, Type: "crypto"},
		},
		invested: []string{"1000", "2500"},
		current:  []string{"1100", "2300"},
		oneDay:   "1.25",
	},
	{
		name:        "US Tech Leaders",
		description: "Large cap technology equities",
		risk:        models.RiskMedium,
		assets: models.Assets{
			{Symbol: "AAPL", Name: "Apple", Weight: 35, Type: "stock"},
			{Symbol: "MSFT", Name: "Microsoft", Weight: 35, Type: "stock"},
			{Symbol: "NVDA", Name: "Nvidia", Weight: 30, Type: "equity"},
		},
		invested: []string{"5000"},
		current:  []string{"5600"},
	},
	{
		name:        "Treasury Ladder",
		description: "Short and medium duration government bonds",
		risk:        models.RiskLow,
		assets: models.Assets{
			{Symbol: "SHY", Name: "1-3 Year Treasury", Weight: 50, Type: "treasury"},
			{Symbol: "IEF", Name: "7-10 Year Treasury", Weight: 50, Type: "bond"},
		},
		invested: []string{"3000"},
		current:  []string{"3012.5"},
	},
	{
		name:        "Global Property",
		description: "Listed real estate investment trusts",
		risk:        models.RiskMedium,
		community:   true,
		assets: models.Assets{
			{Symbol: "VNQ", Name: "Vanguard Real Estate", Weight: 70, Type: "reit"},
			{Symbol: "VNQI", Name: "Vanguard Global ex-US Real Estate", Weight: 30, Type: "reit"},
		},
	},
	{
		name:        "All Weather",
		description: "Balanced mix across asset classes",
		risk:        models.RiskLow,
		community:   true,
		assets: models.Assets{
			{Symbol: "GLD", Name: "Gold", Weight: 50, Type: "commodity"},
			{Symbol: "DBC", Name: "Commodities", Weight: 50, Type: "commodity"},
		},
		invested: []string{"0"},
		current:  []string{"0"},
	},
}

// Fixtures returns the demo catalog. Creation times are spaced an hour apart
// ending at now so the default ordering is deterministic.
func Fixtures(now time.Time) []models.Basket {
	out := make([]models.Basket, 0, len(fixtures))
	for i, f := range fixtures {
		id := FixtureID("basket", f.name)
		created := now.Add(-time.Duration(len(fixtures)-i) * time.Hour).UTC()
		b := models.Basket{
			ID:          id,
			Name:        f.name,
			Description: f.description,
			IconURL:     "https://static.basketcatalog.dev/icons/" + id + ".png",
			RiskLevel:   f.risk,
			Category:    models.Classify(f.assets),
			Assets:      f.assets,
			IsCommunity: f.community,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		if f.oneDay != "" {
			b.OneDay = decimal.NullDecimal{Decimal: decimal.RequireFromString(f.oneDay), Valid: true}
		}
		for j := range f.invested {
			b.Holdings = append(b.Holdings, models.Holding{
				ID:                  FixtureID("holding", f.name+"#"+string(rune('a'+j))),
				BasketID:            id,
				TotalAmountInvested: decimal.RequireFromString(f.invested[j]),
				CurrentValue:        decimal.RequireFromString(f.current[j]),
				UnitsOwned:          decimal.NewFromInt(1),
			})
		}
		out = append(out, b)
	}
	return out
}
