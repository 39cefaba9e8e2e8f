package notion

import (
	"testing"

	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groceriesSchema() map[string]PropertyDefinition {
	return map[string]PropertyDefinition{
		"Article":     {Type: "title"},
		"Catégorie":   {Type: "select"},
		"Quantité":    {Type: "number"},
		"Unité":       {Type: "rich_text"},
		"À acheter ?": {Type: "checkbox"},
		"Recettes":    {Type: "rich_text"},
		"Semaine":     {Type: "multi_select"},
	}
}

func TestGroceryProperties(t *testing.T) {
	line := shopping.GroceryLine{
		ItemName:      "Riz basmati",
		Quantity:      shopping.Num(500),
		Unit:          "grammes",
		SourceRecipes: "Curry, Bowl",
		Category:      "féculents",
	}
	properties := GroceryProperties(line, "Semaine 35 – 2026", groceriesSchema())

	assert.Equal(t, map[string]interface{}{"number": 500.0}, properties["Quantité"])
	assert.Equal(t, map[string]interface{}{
		"select": map[string]string{"name": "féculents"},
	}, properties["Catégorie"])
	assert.Equal(t, map[string]interface{}{"checkbox": true}, properties["À acheter ?"])

	unit := properties["Unité"].(map[string]interface{})["rich_text"].([]map[string]interface{})
	assert.Equal(t, "g", unit[0]["text"].(map[string]string)["content"])

	week := properties["Semaine"].(map[string]interface{})["multi_select"].([]map[string]string)
	require.Len(t, week, 1)
	assert.Equal(t, "Semaine 35 – 2026", week[0]["name"])
}

func TestGroceryPropertiesUnknownQuantitySkipped(t *testing.T) {
	line := shopping.GroceryLine{ItemName: "Sel", Quantity: shopping.Unknown()}
	properties := GroceryProperties(line, "", groceriesSchema())
	_, hasQuantity := properties["Quantité"]
	assert.False(t, hasQuantity)
	_, hasWeek := properties["Semaine"]
	assert.False(t, hasWeek)
}

func TestGroceryPropertiesWeekFallsBackToSelect(t *testing.T) {
	schema := groceriesSchema()
	schema["Semaine"] = PropertyDefinition{Type: "select"}

	properties := GroceryProperties(shopping.GroceryLine{ItemName: "Riz"}, "Semaine 1 – 2026", schema)
	assert.Equal(t, map[string]interface{}{
		"select": map[string]string{"name": "Semaine 1 – 2026"},
	}, properties["Semaine"])
}

func recipesSchema() map[string]PropertyDefinition {
	return map[string]PropertyDefinition{
		"Nom":           {Type: "title"},
		"Lien":          {Type: "url"},
		"ID":            {Type: "number"},
		"Temps":         {Type: "number"},
		"Calories (~)":  {Type: "number"},
		"Protéines (g)": {Type: "number"},
		"Photo":         {Type: "files"},
		"Ingrédients":   {Type: "rich_text"},
		"Semaine":       {Type: "select"},
	}
}

func TestRecipeProperties(t *testing.T) {
	minutes := 35
	calories := 520.7
	protein := 42.0
	row := RecipeRow{
		Name:        "Curry de poulet",
		SpoonID:     123456,
		TimeMinutes: &minutes,
		Calories:    &calories,
		Protein:     &protein,
		Image:       "https://img.spoonacular.com/recipes-123456-312x231.jpg",
		Ingredients: "300 g poulet\n200 ml lait de coco",
		Week:        "Semaine 35 – 2026",
	}
	properties := RecipeProperties(row, recipesSchema())

	assert.Equal(t, map[string]interface{}{"url": "https://spoonacular.com/recipes/123456"}, properties["Lien"])
	assert.Equal(t, map[string]interface{}{"number": 123456.0}, properties["ID"])
	assert.Equal(t, map[string]interface{}{"number": 35.0}, properties["Temps"])
	assert.Equal(t, map[string]interface{}{"number": 520.0}, properties["Calories (~)"])
	assert.Equal(t, map[string]interface{}{"number": 42.0}, properties["Protéines (g)"])

	files := properties["Photo"].(map[string]interface{})["files"].([]map[string]interface{})
	require.Len(t, files, 1)
	assert.Equal(t, "external", files[0]["type"])
}

func TestRecipePropertiesImageURLColumn(t *testing.T) {
	schema := recipesSchema()
	schema["Photo"] = PropertyDefinition{Type: "url"}

	row := RecipeRow{Name: "Bowl", Image: "https://example.com/bowl.jpg"}
	properties := RecipeProperties(row, schema)
	assert.Equal(t, map[string]interface{}{"url": "https://example.com/bowl.jpg"}, properties["Photo"])
}

func TestRecipePropertiesZeroCaloriesSkipped(t *testing.T) {
	zero := 0.0
	properties := RecipeProperties(RecipeRow{Name: "Bowl", Calories: &zero}, recipesSchema())
	_, ok := properties["Calories (~)"]
	assert.False(t, ok)
}

func TestMealPlanProperties(t *testing.T) {
	schema := map[string]PropertyDefinition{
		"Nom":      {Type: "title"},
		"Date":     {Type: "date"},
		"Type":     {Type: "select"},
		"Recettes": {Type: "relation"},
	}
	row := MealPlanRow{
		Date:         "2026-08-31",
		MealType:     "Déjeuner",
		RecipePageID: "12345678-90ab-cdef-1234-567890abcdef",
	}
	properties := MealPlanProperties(row, schema)

	assert.Equal(t, map[string]interface{}{
		"date": map[string]string{"start": "2026-08-31"},
	}, properties["Date"])
	assert.Equal(t, map[string]interface{}{
		"select": map[string]string{"name": "dejeuner"},
	}, properties["Type"])

	refs := properties["Recettes"].(map[string]interface{})["relation"].([]map[string]string)
	require.Len(t, refs, 1)
	assert.Equal(t, row.RecipePageID, refs[0]["id"])
}

func TestNormalizeMealType(t *testing.T) {
	assert.Equal(t, "dejeuner", normalizeMealType("Déjeuner"))
	assert.Equal(t, "diner", normalizeMealType("Dîner"))
	assert.Equal(t, "petit-dejeuner", normalizeMealType("Petit-déjeuner"))
	assert.Equal(t, "brunch", normalizeMealType("Brunch"))
}
