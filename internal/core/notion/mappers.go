package notion

import (
	"fmt"
	"strings"

	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"
)

// resolveByNameOrType picks the schema column to write: first candidate
// name that exists, else the first column of the wanted type.
func resolveByNameOrType(schema map[string]PropertyDefinition, propType string, names ...string) (string, bool) {
	for _, name := range names {
		if _, ok := schema[name]; ok {
			return name, true
		}
	}
	return FindPropertyByType(schema, propType)
}

func setPayload(properties map[string]interface{}, schema map[string]PropertyDefinition, column string, value interface{}) {
	payload, ok := BuildPropertyPayload(schema[column].Type, value)
	if ok {
		properties[column] = payload
	}
}

// RecipeRow is one menu entry headed for the recipes database.
type RecipeRow struct {
	Name        string
	Link        string
	SpoonID     int
	TimeMinutes *int
	Calories    *float64
	Protein     *float64
	Tags        []string
	Image       string
	Ingredients string
	Portions    *int
	Week        string
}

// RecipeProperties shapes a menu entry into write payloads matched against
// the recipes database schema. Columns the schema lacks are left out.
func RecipeProperties(row RecipeRow, schema map[string]PropertyDefinition) map[string]interface{} {
	properties := make(map[string]interface{})

	link := row.Link
	if link == "" && row.SpoonID != 0 {
		link = fmt.Sprintf("https://spoonacular.com/recipes/%d", row.SpoonID)
	}
	if link != "" {
		if def, ok := schema["Lien"]; ok && def.Type == "url" {
			setPayload(properties, schema, "Lien", link)
		} else {
			for name, def := range schema {
				if def.Type != "url" {
					continue
				}
				switch name {
				case "Photo", "Image", "photo", "image":
					continue
				}
				setPayload(properties, schema, name, link)
				break
			}
		}
	}

	if row.SpoonID != 0 {
		if column, ok := resolveByNameOrType(schema, "number", "ID", "Spoon ID", "SpoonID"); ok && schema[column].Type == "number" {
			setPayload(properties, schema, column, float64(row.SpoonID))
		}
	}
	if row.TimeMinutes != nil {
		if column, ok := resolveByNameOrType(schema, "number", "Temps", "Durée"); ok && schema[column].Type == "number" {
			setPayload(properties, schema, column, float64(*row.TimeMinutes))
		}
	}
	if row.Calories != nil && *row.Calories > 0 {
		if column, ok := resolveByNameOrType(schema, "number", "Calories (~)", "Calories"); ok && schema[column].Type == "number" {
			setPayload(properties, schema, column, float64(int(*row.Calories)))
		}
	}
	if row.Protein != nil {
		if column, ok := resolveByNameOrType(schema, "number", "Protéines (g)", "Proteines"); ok && schema[column].Type == "number" {
			setPayload(properties, schema, column, *row.Protein)
		}
	}
	if len(row.Tags) > 0 {
		if column, ok := resolveByNameOrType(schema, "multi_select", "Tags", "Tag"); ok && schema[column].Type == "multi_select" {
			setPayload(properties, schema, column, row.Tags)
		}
	}

	if row.Image != "" {
		if column, ok := resolveByNameOrType(schema, "files", "Photo", "Image"); ok {
			switch schema[column].Type {
			case "files":
				properties[column] = map[string]interface{}{
					"files": []map[string]interface{}{
						{"type": "external", "name": "image.jpg", "external": map[string]string{"url": row.Image}},
					},
				}
			case "url":
				setPayload(properties, schema, column, row.Image)
			}
		}
	}

	if row.Ingredients != "" {
		if column, ok := resolveByNameOrType(schema, "rich_text", "Ingrédients", "Ingredients", "Liste"); ok && schema[column].Type == "rich_text" {
			setPayload(properties, schema, column, row.Ingredients)
		}
	}
	if row.Portions != nil {
		if column, ok := schema["Portions"]; ok && column.Type == "number" {
			setPayload(properties, schema, "Portions", float64(*row.Portions))
		}
	}
	if row.Week != "" {
		setWeek(properties, schema, row.Week)
	}

	return properties
}

// GroceryProperties shapes one consolidated grocery line into write
// payloads for the groceries database.
func GroceryProperties(line shopping.GroceryLine, week string, schema map[string]PropertyDefinition) map[string]interface{} {
	properties := make(map[string]interface{})

	if line.Category != "" {
		if column, ok := resolveByNameOrType(schema, "select", "Catégorie", "Categorie"); ok && schema[column].Type == "select" {
			setPayload(properties, schema, column, line.Category)
		}
	}
	if line.Quantity.Known {
		if column, ok := resolveByNameOrType(schema, "number", "Quantité", "Quantite"); ok && schema[column].Type == "number" {
			setPayload(properties, schema, column, line.Quantity.Value)
		}
	}
	if line.Unit != "" {
		if column, ok := resolveByNameOrType(schema, "rich_text", "Unité", "Unite"); ok && schema[column].Type == "rich_text" {
			setPayload(properties, schema, column, shopping.NormalizeUnit(line.Unit))
		}
	}
	if column, ok := resolveByNameOrType(schema, "checkbox", "À acheter ?", "A acheter"); ok && schema[column].Type == "checkbox" {
		setPayload(properties, schema, column, true)
	}
	if line.SourceRecipes != "" {
		if column, ok := resolveByNameOrType(schema, "rich_text", "Recettes", "Recette"); ok && schema[column].Type == "rich_text" {
			setPayload(properties, schema, column, line.SourceRecipes)
		}
	}
	if strings.TrimSpace(line.Notes) != "" {
		if column, ok := schema["Notes"]; ok && column.Type == "rich_text" {
			setPayload(properties, schema, "Notes", line.Notes)
		}
	}
	if week != "" {
		setWeek(properties, schema, week)
	}

	return properties
}

// MealPlanRow is one scheduled meal headed for the meal plan database.
type MealPlanRow struct {
	Date         string
	MealType     string
	RecipePageID string
	Portions     *int
}

// MealPlanProperties shapes a scheduled meal into write payloads for the
// meal plan database.
func MealPlanProperties(row MealPlanRow, schema map[string]PropertyDefinition) map[string]interface{} {
	properties := make(map[string]interface{})

	if row.Date != "" {
		if column, ok := FindPropertyByType(schema, "date"); ok {
			setPayload(properties, schema, column, row.Date)
		}
	}
	if row.MealType != "" {
		if column, ok := resolveByNameOrType(schema, "select", "Type", "Jour", "Repas"); ok && schema[column].Type == "select" {
			setPayload(properties, schema, column, normalizeMealType(row.MealType))
		}
	}
	if row.RecipePageID != "" {
		if column, ok := resolveByNameOrType(schema, "relation", "Recettes", "Recette", "Plat"); ok && schema[column].Type == "relation" {
			setPayload(properties, schema, column, []string{row.RecipePageID})
		}
	}
	if row.Portions != nil {
		if column, ok := resolveByNameOrType(schema, "number", "Portions", "Portion"); ok && schema[column].Type == "number" {
			setPayload(properties, schema, column, float64(*row.Portions))
		}
	}

	return properties
}

// normalizeMealType folds a meal label to the accent-free select options
// used in the databases.
func normalizeMealType(mealType string) string {
	folded := shopping.NormalizeName(mealType)
	switch folded {
	case "dejeuner":
		return "dejeuner"
	case "diner":
		return "diner"
	case "petit-dejeuner", "petit dejeuner":
		return "petit-dejeuner"
	}
	return folded
}

// setWeek writes the week label into a multi_select column when present,
// falling back to a select column.
func setWeek(properties map[string]interface{}, schema map[string]PropertyDefinition, week string) {
	if column, ok := resolveByNameOrType(schema, "multi_select", "Semaine", "Week"); ok && schema[column].Type == "multi_select" {
		setPayload(properties, schema, column, []string{week})
		return
	}
	if column, ok := resolveByNameOrType(schema, "select", "Semaine", "Week"); ok && schema[column].Type == "select" {
		setPayload(properties, schema, column, week)
	}
}
