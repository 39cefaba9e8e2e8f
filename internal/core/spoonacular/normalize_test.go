package spoonacular

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecipeExtractsMacros(t *testing.T) {
	recipe := mockCatalogue[0]
	candidate := normalizeRecipe(recipe)

	assert.Equal(t, "Poulet grillé aux légumes", candidate.Title)
	assert.Equal(t, 4, candidate.Servings)
	require.NotNil(t, candidate.Nutrition.Calories)
	assert.Equal(t, 450.0, *candidate.Nutrition.Calories)
	require.NotNil(t, candidate.Nutrition.Protein)
	assert.Equal(t, 45.0, *candidate.Nutrition.Protein)
	require.Len(t, candidate.Ingredients, 4)
	assert.Equal(t, "chicken breast", candidate.Ingredients[0].Name)
	assert.Equal(t, "g", candidate.Ingredients[0].Unit)
}

func TestNormalizeRecipeReconstructsURLs(t *testing.T) {
	recipe := wireRecipe{ID: 99999, Title: "Test"}
	candidate := normalizeRecipe(recipe)

	assert.Equal(t, "https://spoonacular.com/recipes/99999", candidate.SourceURL)
	assert.Equal(t, "https://img.spoonacular.com/recipes-99999-312x231.jpg", candidate.Image)
	assert.Equal(t, 1, candidate.Servings)
}

func TestNormalizeRecipeDefaultsTitle(t *testing.T) {
	candidate := normalizeRecipe(wireRecipe{})
	assert.Equal(t, "Recette", candidate.Title)
}

func TestScaleIngredientsUsesServingsRatio(t *testing.T) {
	// 4 base servings scaled to 2 portions halves every amount.
	ingredients := scaleIngredients(mockCatalogue[0], 2)
	require.Len(t, ingredients, 4)
	assert.Equal(t, 250.0, ingredients[0].Amount)
	assert.Equal(t, "chicken breast", ingredients[0].Name)
	assert.Equal(t, "500g chicken breasts", ingredients[0].RawName)
	assert.Equal(t, "Meat", ingredients[0].Aisle)
	assert.Equal(t, 123456, ingredients[0].RecipeID)
}

func TestMockRecipeIngredients(t *testing.T) {
	ingredients, ok := MockRecipeIngredients(234567, 2)
	require.True(t, ok)
	require.Len(t, ingredients, 4)
	// Base servings already 2, amounts unchanged.
	assert.Equal(t, 300.0, ingredients[0].Amount)

	_, ok = MockRecipeIngredients(1, 2)
	assert.False(t, ok)
}

func TestMockCandidatesAllHaveImages(t *testing.T) {
	candidates := MockCandidates()
	require.Len(t, candidates, 6)
	for _, candidate := range candidates {
		assert.NotEmpty(t, candidate.Image, candidate.Title)
		assert.NotEmpty(t, candidate.SourceURL, candidate.Title)
	}
}

func TestWeekOffset(t *testing.T) {
	// 2026-01-07 is ISO week 2.
	now := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 70, WeekOffset(now, 70))
}
