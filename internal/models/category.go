package models

import "strings"

const (
	CategoryCrypto     = "Crypto"
	CategoryStocks     = "Stocks"
	CategoryBonds      = "Bonds"
	CategoryRealEstate = "Real Estate"
	CategoryMixed      = "Mixed"
)

var categoryRules = []struct {
	category string
	types    []string
}{
	{CategoryCrypto, []string{"btc", "eth", "crypto"}},
	{CategoryStocks, []string{"stock", "equity"}},
	{CategoryBonds, []string{"bond", "treasury"}},
	{CategoryRealEstate, []string{"reit", "real estate"}},
}

// Classify derives a category from asset types. Earlier rules win, so a basket
// holding both crypto and stocks is Crypto.
func Classify(assets Assets) string {
	if len(assets) == 0 {
		return CategoryMixed
	}
	seen := make(map[string]bool, len(assets))
	for _, a := range assets {
		t := a.Type
		if t == "" {
			t = a.Symbol
		}
		seen[strings.ToLower(strings.TrimSpace(t))] = true
	}
	for _, rule := range categoryRules {
		for _, t := range rule.types {
			if seen[t] {
				return rule.category
			}
		}
	}
	return CategoryMixed
}

// ParseCategory matches a category label ignoring case.
func ParseCategory(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, c := range []string{CategoryCrypto, CategoryStocks, CategoryBonds, CategoryRealEstate, CategoryMixed} {
		if strings.EqualFold(s, c) {
			return c, true
		}
	}
	return "", false
}
