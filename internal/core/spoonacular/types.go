package spoonacular

// wireRecipe is the recipe shape returned by the search API. Only the
// fields the planner consumes are mapped.
type wireRecipe struct {
	ID                  int              `json:"id"`
	Title               string           `json:"title"`
	ReadyInMinutes      *int             `json:"readyInMinutes"`
	Servings            int              `json:"servings"`
	SourceURL           string           `json:"sourceUrl"`
	Image               string           `json:"image"`
	ExtendedIngredients []wireIngredient `json:"extendedIngredients"`
	Nutrition           wireNutrition    `json:"nutrition"`
}

type wireIngredient struct {
	Name           string `json:"name"`
	NameClean      string `json:"nameClean"`
	Aisle          string `json:"aisle"`
	OriginalString string `json:"originalString"`
	Measures       struct {
		Metric wireMeasure `json:"metric"`
	} `json:"measures"`
}

type wireMeasure struct {
	Amount    *float64 `json:"amount"`
	Unit      string   `json:"unit"`
	UnitShort string   `json:"unitShort"`
}

type wireNutrition struct {
	Nutrients []struct {
		Name   string   `json:"name"`
		Amount *float64 `json:"amount"`
	} `json:"nutrients"`
}

type searchResponse struct {
	Results []wireRecipe `json:"results"`
}

// Candidate is a normalized search result, the planner's working recipe
// shape.
type Candidate struct {
	ID           int                   `json:"id,omitempty"`
	Title        string                `json:"title"`
	ReadyMinutes *int                  `json:"readyMinutes"`
	Servings     int                   `json:"servings"`
	SourceURL    string                `json:"sourceUrl"`
	Image        string                `json:"image"`
	Ingredients  []CandidateIngredient `json:"ingredients"`
	Nutrition    Nutrition             `json:"nutrition"`
}

// CandidateIngredient keeps the metric measure of one ingredient.
type CandidateIngredient struct {
	Name   string   `json:"name"`
	Amount *float64 `json:"amount"`
	Unit   string   `json:"unit"`
}

// Nutrition holds the per-serving macros extracted from the nutrient list.
type Nutrition struct {
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
}

// RecipeIngredient is one ingredient of a recipe scaled to the desired
// portions, as used for grocery consolidation.
type RecipeIngredient struct {
	RawName     string  `json:"raw_name"`
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	Unit        string  `json:"unit"`
	Aisle       string  `json:"aisle"`
	RecipeID    int     `json:"recipe_id"`
	RecipeTitle string  `json:"recipe_title"`
}
