package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeCombinesDuplicateLines(t *testing.T) {
	lines := []GroceryLine{
		{ItemName: "Pâtes", Quantity: Num(250), Unit: "g", SourceRecipes: "Carbonara"},
		{ItemName: "pates", Quantity: Num(250), Unit: "g", SourceRecipes: "Bolognaise"},
	}

	merged, stats := Merge(lines, nil, DefaultFuzzyThreshold)
	require.Len(t, merged, 1)
	assert.Equal(t, "Pâtes", merged[0].ItemName)
	assert.Equal(t, 500.0, merged[0].Quantity.Value)
	assert.Equal(t, "Bolognaise, Carbonara", merged[0].SourceRecipes)
	assert.Equal(t, Stats{Input: 2, Output: 1, SkippedStock: 0}, stats)
}

func TestMergeDropsStockedLinesBeforeGrouping(t *testing.T) {
	lines := []GroceryLine{
		{ItemName: "Riz", Quantity: Num(100), Unit: "g"},
		{ItemName: "riz", Quantity: Num(400), Unit: "g"},
		{ItemName: "Curry", Quantity: Num(1), Unit: "pièce"},
	}
	stock := []StockEntry{{Name: "riz"}}

	merged, stats := Merge(lines, stock, DefaultFuzzyThreshold)
	require.Len(t, merged, 1)
	assert.Equal(t, "Curry", merged[0].ItemName)
	assert.Equal(t, 2, stats.SkippedStock)
	assert.Equal(t, 3, stats.Input)
	assert.Equal(t, 1, stats.Output)
}

func TestMergeIdempotent(t *testing.T) {
	lines := []GroceryLine{
		{ItemName: "Oignons", Quantity: Num(3), Unit: "pièce", SourceRecipes: "Soupe, Curry", Category: "produce"},
		{ItemName: "Lait", Quantity: Num(500), Unit: "ml", Notes: "entier"},
		{ItemName: "Farine", Quantity: Unknown(), Unit: ""},
	}

	once, _ := Merge(lines, nil, DefaultFuzzyThreshold)
	twice, _ := Merge(once, nil, DefaultFuzzyThreshold)
	assert.Equal(t, once, twice)
}

func TestMergeSplitsRecipeListsOnCommas(t *testing.T) {
	lines := []GroceryLine{
		{ItemName: "Ail", Quantity: Num(2), Unit: "pièce", SourceRecipes: "Curry, Soupe"},
		{ItemName: "ail", Quantity: Num(1), Unit: "pièce", SourceRecipes: "Soupe"},
	}

	merged, _ := Merge(lines, nil, DefaultFuzzyThreshold)
	require.Len(t, merged, 1)
	assert.Equal(t, "Curry, Soupe", merged[0].SourceRecipes)
}

func TestMergeKeepsRawQuantityTextAsNote(t *testing.T) {
	lines := []GroceryLine{
		{ItemName: "Sel", Quantity: Quantity{Raw: "une pincée"}, Unit: ""},
		{ItemName: "sel", Quantity: Num(5), Unit: "g"},
	}

	merged, _ := Merge(lines, nil, DefaultFuzzyThreshold)
	require.Len(t, merged, 1)
	assert.Equal(t, 5.0, merged[0].Quantity.Value)
	assert.Equal(t, "une pincée", merged[0].Notes)
}

func TestMergeEmptyInput(t *testing.T) {
	merged, stats := Merge(nil, nil, DefaultFuzzyThreshold)
	assert.Empty(t, merged)
	assert.Equal(t, Stats{}, stats)
}
