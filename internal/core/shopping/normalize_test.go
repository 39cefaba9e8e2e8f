package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "epinards frais", NormalizeName("  Épinards frais "))
	assert.Equal(t, "creme fraiche", NormalizeName("Crème fraîche"))
	assert.Equal(t, "oeuf", NormalizeName("OEUF"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestNormalizeUnit(t *testing.T) {
	cases := map[string]string{
		"Grammes":          "g",
		"KG":               "kg",
		"kilogrammes":      "kg",
		"Millilitres":      "ml",
		"litre":            "l",
		"centilitres":      "cl",
		"Pièces":           "pièce",
		"unités":           "pièce",
		"tbsp":             "cuil. à soupe",
		"cuillère à soupe": "cuil. à soupe",
		"tsp":              "cuil. à café",
		"cuillères à café": "cuil. à café",
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizeUnit(raw), "unit %q", raw)
	}
}

func TestNormalizeUnitPassThrough(t *testing.T) {
	assert.Equal(t, "poignee", NormalizeUnit(" Poignée "))
	assert.Equal(t, "", NormalizeUnit(""))
}

func TestSimilarityRatio(t *testing.T) {
	assert.InDelta(t, 1.0, similarityRatio("tomates", "tomates"), 1e-9)
	assert.InDelta(t, 0.0, similarityRatio("abc", "xyz"), 1e-9)
	// "tomates" vs "tomate": common part of 6 runes, 2*6/(7+6).
	assert.InDelta(t, 12.0/13.0, similarityRatio("tomates", "tomate"), 1e-9)
	assert.InDelta(t, 1.0, similarityRatio("", ""), 1e-9)
}

func TestIsInStock(t *testing.T) {
	index := BuildStockIndex([]StockEntry{
		{Name: "Tomates"},
		{Name: "Crème fraîche"},
	})

	assert.True(t, IsInStock("tomates", index, DefaultFuzzyThreshold))
	assert.True(t, IsInStock("  TOMATES  ", index, DefaultFuzzyThreshold))
	// Near miss above the threshold.
	assert.True(t, IsInStock("tomate", index, DefaultFuzzyThreshold))
	assert.False(t, IsInStock("poulet", index, DefaultFuzzyThreshold))
	assert.False(t, IsInStock("", index, DefaultFuzzyThreshold))
}

func TestIsInStockThresholdBoundary(t *testing.T) {
	index := BuildStockIndex([]StockEntry{{Name: "abcd"}})
	// "abcd" vs "abce": ratio 2*3/8 = 0.75.
	assert.True(t, IsInStock("abce", index, 0.75))
	assert.False(t, IsInStock("abce", index, 0.76))
}
