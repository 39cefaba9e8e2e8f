package pipeline

import (
	"testing"

	"github.com/Airohh/Appli-Food-Course/internal/core/llm"
	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"
	"github.com/Airohh/Appli-Food-Course/internal/core/spoonacular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchCandidateByURL(t *testing.T) {
	candidates := []spoonacular.Candidate{
		{Title: "Curry de poulet", SourceURL: "https://spoonacular.com/recipes/123456"},
		{Title: "Bowl de quinoa", SourceURL: "https://spoonacular.com/recipes/234567"},
	}
	match := matchCandidate("autre nom", "https://spoonacular.com/recipes/234567", candidates)
	require.NotNil(t, match)
	assert.Equal(t, "Bowl de quinoa", match.Title)
}

func TestMatchCandidateByTitleContainment(t *testing.T) {
	candidates := []spoonacular.Candidate{
		{Title: "Curry de poulet au lait de coco"},
	}
	match := matchCandidate("curry de poulet", "", candidates)
	require.NotNil(t, match)

	assert.Nil(t, matchCandidate("tarte aux pommes", "", candidates))
}

func TestEnrichSelectionCarriesCandidateData(t *testing.T) {
	amount := 300.0
	protein := 42.0
	minutes := 35
	candidates := []spoonacular.Candidate{
		{
			ID:           123456,
			Title:        "Curry de poulet",
			ReadyMinutes: &minutes,
			SourceURL:    "https://spoonacular.com/recipes/123456",
			Image:        "https://img.spoonacular.com/recipes-123456-312x231.jpg",
			Nutrition:    spoonacular.Nutrition{Protein: &protein},
			Ingredients: []spoonacular.CandidateIngredient{
				{Name: "poulet", Amount: &amount, Unit: "g"},
			},
		},
	}
	chosen := []llm.SelectedRecipe{{Name: "Curry de poulet"}}

	menu := enrichSelection(chosen, candidates, "Semaine 35 – 2026", 2)
	require.Len(t, menu, 1)
	entry := menu[0]
	assert.Equal(t, 123456, entry.SpoonID)
	assert.Equal(t, "https://spoonacular.com/recipes/123456", entry.Link)
	assert.Equal(t, 35, *entry.TimeMinutes)
	assert.Equal(t, 42.0, *entry.Protein)
	assert.Equal(t, "Semaine 35 – 2026", entry.Week)
	assert.Equal(t, 2, entry.Portions)
	require.Len(t, entry.Ingredients, 1)
	assert.Equal(t, "poulet", entry.Ingredients[0].Name)
}

func TestEnrichSelectionUnmatchedKeepsNameOnly(t *testing.T) {
	chosen := []llm.SelectedRecipe{{Name: "Recette inconnue", Link: "https://x"}}
	menu := enrichSelection(chosen, nil, "Semaine 1 – 2026", 2)
	require.Len(t, menu, 1)
	assert.Equal(t, "Recette inconnue", menu[0].Name)
	assert.Zero(t, menu[0].SpoonID)
	assert.Empty(t, menu[0].Ingredients)
}

func TestEnrichSelectionRecoversIDFromLink(t *testing.T) {
	chosen := []llm.SelectedRecipe{{
		Name: "Recette inconnue",
		Link: "https://spoonacular.com/recipes/654321",
	}}
	menu := enrichSelection(chosen, nil, "Semaine 1 – 2026", 2)
	require.Len(t, menu, 1)
	assert.Equal(t, 654321, menu[0].SpoonID)
	assert.Empty(t, menu[0].Ingredients)
}

func TestFirstN(t *testing.T) {
	candidates := []spoonacular.Candidate{
		{Title: "a"}, {Title: "b"}, {Title: "c"},
	}
	chosen := firstN(candidates, 2)
	require.Len(t, chosen, 2)
	assert.Equal(t, "a", chosen[0].Name)

	assert.Len(t, firstN(candidates, 10), 3)
}

func TestStockNamesDeduplicates(t *testing.T) {
	stock := []shopping.StockEntry{
		{Name: "Riz"},
		{Name: " riz "},
		{Name: "Lait"},
		{Name: ""},
	}
	assert.Equal(t, []string{"Riz", "Lait"}, stockNames(stock))
}

func TestHasQuantities(t *testing.T) {
	assert.False(t, hasQuantities([]shopping.GroceryLine{
		{ItemName: "Sel", Quantity: shopping.Unknown()},
		{ItemName: "Riz", Quantity: shopping.Num(0)},
	}))
	assert.True(t, hasQuantities([]shopping.GroceryLine{
		{ItemName: "Riz", Quantity: shopping.Num(200)},
	}))
	assert.True(t, hasQuantities([]shopping.GroceryLine{
		{ItemName: "Sel", Quantity: shopping.Quantity{Raw: "une pincée"}},
	}))
}

func TestCountMissingQuantities(t *testing.T) {
	lines := []shopping.GroceryLine{
		{ItemName: "Riz", Quantity: shopping.Num(200)},
		{ItemName: "Sel", Quantity: shopping.Unknown()},
		{ItemName: "Lait", Quantity: shopping.Num(0)},
	}
	assert.Equal(t, 2, countMissingQuantities(lines))
}

func TestDropEmptied(t *testing.T) {
	lines := []shopping.GroceryLine{
		{ItemName: "Riz", Quantity: shopping.Num(200)},
		{ItemName: "Lait", Quantity: shopping.Num(0)},
		{ItemName: "Sel", Quantity: shopping.Unknown()},
	}
	kept := dropEmptied(lines)
	require.Len(t, kept, 2)
	assert.Equal(t, "Riz", kept[0].ItemName)
	assert.Equal(t, "Sel", kept[1].ItemName)
}
