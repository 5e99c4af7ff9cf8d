package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		assets Assets
		want   string
	}{
		{"nil", nil, CategoryMixed},
		{"empty", Assets{}, CategoryMixed},
		{"crypto", Assets{{Symbol: "BTC", Type: "crypto"}}, CategoryCrypto},
		{"crypto wins over stocks", Assets{{Symbol: "AAPL", Type: "stock"}, {Symbol: "ETH", Type: "crypto"}}, CategoryCrypto},
		{"symbol fallback", Assets{{Symbol: "BTC"}}, CategoryCrypto},
		{"case insensitive", Assets{{Symbol: "X", Type: "Equity"}}, CategoryStocks},
		{"stocks over bonds", Assets{{Type: "bond"}, {Type: "stock"}}, CategoryStocks},
		{"treasury", Assets{{Type: "treasury"}}, CategoryBonds},
		{"bonds over real estate", Assets{{Type: "reit"}, {Type: "bond"}}, CategoryBonds},
		{"real estate", Assets{{Type: "real estate"}}, CategoryRealEstate},
		{"unknown types", Assets{{Type: "commodity"}, {Symbol: "GLD"}}, CategoryMixed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.assets))
		})
	}
}

func TestAssets_Scan(t *testing.T) {
	var a Assets
	require.NoError(t, a.Scan([]byte(`[{"symbol":"BTC","name":"Bitcoin","weight":60,"type":"crypto"}]`)))
	require.Len(t, a, 1)
	assert.Equal(t, Asset{Symbol: "BTC", Name: "Bitcoin", Weight: 60, Type: "crypto"}, a[0])

	for _, src := range []interface{}{nil, "", "null", `{"symbol":"BTC"}`, "42"} {
		a = Assets{{Symbol: "stale"}}
		require.NoError(t, a.Scan(src), "src %v", src)
		assert.Empty(t, a, "src %v", src)
		assert.Equal(t, CategoryMixed, Classify(a))
	}

	assert.Error(t, a.Scan(`[{"symbol":`))
	assert.Error(t, a.Scan(3.5))
}

func TestAssets_Value(t *testing.T) {
	v, err := Assets(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = Assets{{Symbol: "SPY", Weight: 100, Type: "equity"}}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"symbol":"SPY","name":"","weight":100,"type":"equity"}]`, v.(string))
}

func TestParseRiskLevel(t *testing.T) {
	lvl, ok := ParseRiskLevel(" medium ")
	assert.True(t, ok)
	assert.Equal(t, RiskMedium, lvl)

	_, ok = ParseRiskLevel("INVALID")
	assert.False(t, ok)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("real estate")
	assert.True(t, ok)
	assert.Equal(t, CategoryRealEstate, c)

	_, ok = ParseCategory("gold")
	assert.False(t, ok)
}
