package spoonacular

func ptrF(v float64) *float64 { return &v }

func ptrI(v int) *int { return &v }

// mockCatalogue is a small fixed recipe set used when no API key is
// available. Shapes mirror the wire format so the same normalization path
// runs in mock and live modes.
var mockCatalogue = []wireRecipe{
	{
		ID:             123456,
		Title:          "Poulet grillé aux légumes",
		ReadyInMinutes: ptrI(30),
		Servings:       4,
		SourceURL:      "https://spoonacular.com/recipes/123456",
		Image:          "https://img.spoonacular.com/recipes-123456-312x231.jpg",
		ExtendedIngredients: []wireIngredient{
			mockIngredient("chicken breast", 500, "g", "Meat", "500g chicken breasts"),
			mockIngredient("olive oil", 2, "tbsp", "Oil, Vinegar, Salad Dressing", "2 tbsp olive oil"),
			mockIngredient("bell pepper", 2, "pieces", "Produce", "2 bell peppers"),
			mockIngredient("onion", 1, "medium", "Produce", "1 medium onion"),
		},
		Nutrition: mockNutrition(450, 45, 15, 20),
	},
	{
		ID:             234567,
		Title:          "Saumon aux asperges et riz",
		ReadyInMinutes: ptrI(25),
		Servings:       2,
		SourceURL:      "https://spoonacular.com/recipes/234567",
		Image:          "https://img.spoonacular.com/recipes-234567-312x231.jpg",
		ExtendedIngredients: []wireIngredient{
			mockIngredient("salmon", 300, "g", "Seafood", "300g salmon"),
			mockIngredient("asparagus", 250, "g", "Produce", "250g asparagus"),
			mockIngredient("rice", 200, "g", "Pasta and Rice", "200g rice"),
			mockIngredient("lemon", 1, "piece", "Produce", "1 lemon"),
		},
		Nutrition: mockNutrition(520, 38, 45, 18),
	},
	{
		ID:             345678,
		Title:          "Salade de quinoa et poulet",
		ReadyInMinutes: ptrI(20),
		Servings:       3,
		SourceURL:      "https://spoonacular.com/recipes/345678",
		Image:          "https://img.spoonacular.com/recipes-345678-312x231.jpg",
		ExtendedIngredients: []wireIngredient{
			mockIngredient("quinoa", 150, "g", "Pasta and Rice", "150g quinoa"),
			mockIngredient("chicken breast", 300, "g", "Meat", "300g chicken breast"),
			mockIngredient("cucumber", 1, "medium", "Produce", "1 medium cucumber"),
			mockIngredient("tomato", 200, "g", "Produce", "200g tomatoes"),
			mockIngredient("feta cheese", 100, "g", "Cheese", "100g feta cheese"),
		},
		Nutrition: mockNutrition(420, 35, 40, 12),
	},
	{
		ID:             456789,
		Title:          "Curry de légumes et pois chiches",
		ReadyInMinutes: ptrI(35),
		Servings:       4,
		SourceURL:      "https://spoonacular.com/recipes/456789",
		Image:          "https://img.spoonacular.com/recipes-456789-312x231.jpg",
		ExtendedIngredients: []wireIngredient{
			mockIngredient("chickpea", 400, "g", "Canned and Jarred", "400g chickpeas"),
			mockIngredient("coconut milk", 400, "ml", "Canned and Jarred", "400ml coconut milk"),
			mockIngredient("curry powder", 2, "tbsp", "Spices and Seasonings", "2 tbsp curry powder"),
			mockIngredient("sweet potato", 500, "g", "Produce", "500g sweet potato"),
		},
		Nutrition: mockNutrition(380, 15, 55, 12),
	},
	{
		ID:             567890,
		Title:          "Omelette aux champignons",
		ReadyInMinutes: ptrI(10),
		Servings:       2,
		SourceURL:      "https://spoonacular.com/recipes/567890",
		Image:          "https://img.spoonacular.com/recipes-567890-312x231.jpg",
		ExtendedIngredients: []wireIngredient{
			mockIngredient("egg", 4, "pieces", "Milk, Eggs, Other Dairy", "4 eggs"),
			mockIngredient("mushroom", 150, "g", "Produce", "150g mushrooms"),
			mockIngredient("cheese", 50, "g", "Cheese", "50g cheese"),
			mockIngredient("butter", 1, "tbsp", "Milk, Eggs, Other Dairy", "1 tbsp butter"),
		},
		Nutrition: mockNutrition(320, 22, 5, 22),
	},
	{
		ID:             678901,
		Title:          "Pâtes aux légumes et parmesan",
		ReadyInMinutes: ptrI(15),
		Servings:       2,
		SourceURL:      "https://spoonacular.com/recipes/678901",
		Image:          "https://img.spoonacular.com/recipes-678901-312x231.jpg",
		ExtendedIngredients: []wireIngredient{
			mockIngredient("pasta", 200, "g", "Pasta and Rice", "200g pasta"),
			mockIngredient("zucchini", 2, "medium", "Produce", "2 medium zucchini"),
			mockIngredient("cherry tomato", 200, "g", "Produce", "200g cherry tomatoes"),
			mockIngredient("parmesan cheese", 50, "g", "Cheese", "50g parmesan cheese"),
			mockIngredient("garlic", 2, "cloves", "Produce", "2 cloves garlic"),
		},
		Nutrition: mockNutrition(480, 18, 65, 15),
	},
}

func mockIngredient(name string, amount float64, unit, aisle, original string) wireIngredient {
	var ing wireIngredient
	ing.Name = name
	ing.NameClean = name
	ing.Aisle = aisle
	ing.OriginalString = original
	ing.Measures.Metric.Amount = ptrF(amount)
	ing.Measures.Metric.UnitShort = unit
	return ing
}

func mockNutrition(calories, protein, carbs, fat float64) wireNutrition {
	var n wireNutrition
	for _, pair := range []struct {
		name   string
		amount float64
	}{
		{"Calories", calories},
		{"Protein", protein},
		{"Carbohydrates", carbs},
		{"Fat", fat},
	} {
		n.Nutrients = append(n.Nutrients, struct {
			Name   string   `json:"name"`
			Amount *float64 `json:"amount"`
		}{Name: pair.name, Amount: ptrF(pair.amount)})
	}
	return n
}

// MockCandidates returns the normalized mock catalogue.
func MockCandidates() []Candidate {
	candidates := make([]Candidate, 0, len(mockCatalogue))
	for _, recipe := range mockCatalogue {
		candidates = append(candidates, normalizeRecipe(recipe))
	}
	return candidates
}

// MockRecipeIngredients resolves a mock recipe's ingredient list by id,
// scaled to the desired portions. The second return is false when the id is
// not in the catalogue.
func MockRecipeIngredients(spoonID int, desiredPortions int) ([]RecipeIngredient, bool) {
	for _, recipe := range mockCatalogue {
		if recipe.ID == spoonID {
			return scaleIngredients(recipe, desiredPortions), true
		}
	}
	return nil, false
}
