package spoonacular

import (
	"fmt"
	"strings"
)

// normalizeRecipe flattens a wire recipe to the planner's candidate shape:
// metric measures only, macros pulled out of the nutrient list, and source
// and image URLs reconstructed from the recipe id when the API omits them.
func normalizeRecipe(recipe wireRecipe) Candidate {
	title := recipe.Title
	if title == "" {
		title = "Recette"
	}
	servings := recipe.Servings
	if servings == 0 {
		servings = 1
	}

	var nutrition Nutrition
	for _, nutrient := range recipe.Nutrition.Nutrients {
		switch strings.ToLower(nutrient.Name) {
		case "calories":
			nutrition.Calories = nutrient.Amount
		case "protein":
			nutrition.Protein = nutrient.Amount
		case "carbohydrates":
			nutrition.Carbs = nutrient.Amount
		case "fat":
			nutrition.Fat = nutrient.Amount
		}
	}

	ingredients := make([]CandidateIngredient, 0, len(recipe.ExtendedIngredients))
	for _, ing := range recipe.ExtendedIngredients {
		ingredients = append(ingredients, CandidateIngredient{
			Name:   strings.TrimSpace(ingredientName(ing)),
			Amount: ing.Measures.Metric.Amount,
			Unit:   ingredientUnit(ing),
		})
	}

	sourceURL := recipe.SourceURL
	if sourceURL == "" && recipe.ID != 0 {
		sourceURL = fmt.Sprintf("https://spoonacular.com/recipes/%d", recipe.ID)
	}
	image := recipe.Image
	if image == "" && recipe.ID != 0 {
		image = fmt.Sprintf("https://img.spoonacular.com/recipes-%d-312x231.jpg", recipe.ID)
	}

	return Candidate{
		ID:           recipe.ID,
		Title:        title,
		ReadyMinutes: recipe.ReadyInMinutes,
		Servings:     servings,
		SourceURL:    sourceURL,
		Image:        image,
		Ingredients:  ingredients,
		Nutrition:    nutrition,
	}
}

func ingredientName(ing wireIngredient) string {
	if ing.NameClean != "" {
		return ing.NameClean
	}
	return ing.Name
}

func ingredientUnit(ing wireIngredient) string {
	if ing.Measures.Metric.UnitShort != "" {
		return ing.Measures.Metric.UnitShort
	}
	return ing.Measures.Metric.Unit
}

// scaleIngredients converts a recipe's wire ingredients to the consolidation
// shape, multiplying amounts to reach the desired portions.
func scaleIngredients(recipe wireRecipe, desiredPortions int) []RecipeIngredient {
	baseServings := recipe.Servings
	multiplier := float64(desiredPortions)
	if baseServings > 0 {
		multiplier = float64(desiredPortions) / float64(baseServings)
	}

	ingredients := make([]RecipeIngredient, 0, len(recipe.ExtendedIngredients))
	for _, ing := range recipe.ExtendedIngredients {
		name := strings.TrimSpace(ingredientName(ing))
		amount := 0.0
		if ing.Measures.Metric.Amount != nil {
			amount = *ing.Measures.Metric.Amount
		}
		aisle := ing.Aisle
		if aisle == "" {
			aisle = "Divers"
		}
		rawName := ing.OriginalString
		if rawName == "" {
			rawName = name
		}
		ingredients = append(ingredients, RecipeIngredient{
			RawName:     rawName,
			Name:        name,
			Amount:      amount * multiplier,
			Unit:        ingredientUnit(ing),
			Aisle:       aisle,
			RecipeID:    recipe.ID,
			RecipeTitle: recipe.Title,
		})
	}
	return ingredients
}
