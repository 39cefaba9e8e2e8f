package pipeline

import (
	"strconv"
	"strings"

	"github.com/Airohh/Appli-Food-Course/internal/core/llm"
	"github.com/Airohh/Appli-Food-Course/internal/core/notion"
	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"
	"github.com/Airohh/Appli-Food-Course/internal/core/spoonacular"
)

// MenuEntry is one selected recipe as persisted in menu.json. Field tags
// follow the workspace column names.
type MenuEntry struct {
	Name        string                `json:"Nom"`
	Link        string                `json:"Lien,omitempty"`
	TimeMinutes *int                  `json:"Temps,omitempty"`
	Calories    *float64              `json:"Calories (~),omitempty"`
	Protein     *float64              `json:"Protéines (g),omitempty"`
	Image       string                `json:"Image,omitempty"`
	SpoonID     int                   `json:"id,omitempty"`
	Portions    int                   `json:"Portions,omitempty"`
	Week        string                `json:"Semaine,omitempty"`
	Ingredients []shopping.Ingredient `json:"ingredients,omitempty"`
}

// matchCandidate pairs a chosen recipe back with its search candidate, by
// source URL first, then by title containment either way.
func matchCandidate(name, link string, candidates []spoonacular.Candidate) *spoonacular.Candidate {
	title := strings.ToLower(strings.TrimSpace(name))
	for i := range candidates {
		c := &candidates[i]
		if link != "" && c.SourceURL != "" && link == c.SourceURL {
			return c
		}
		candTitle := strings.ToLower(strings.TrimSpace(c.Title))
		if title == "" || candTitle == "" {
			continue
		}
		if title == candTitle || strings.Contains(candTitle, title) || strings.Contains(title, candTitle) {
			return c
		}
	}
	return nil
}

// enrichSelection turns the chosen recipes into menu entries carrying the
// candidate's ingredients, macros and image. A choice with no matching
// candidate keeps its name and link, recovering the recipe id from the
// link when it carries one so ingredient scaling can still run.
func enrichSelection(chosen []llm.SelectedRecipe, candidates []spoonacular.Candidate, week string, portions int) []MenuEntry {
	entries := make([]MenuEntry, 0, len(chosen))
	for _, recipe := range chosen {
		entry := MenuEntry{
			Name:     recipe.Name,
			Link:     recipe.Link,
			Week:     week,
			Portions: portions,
		}
		if recipe.ReadyMinutes > 0 {
			minutes := recipe.ReadyMinutes
			entry.TimeMinutes = &minutes
		}
		if match := matchCandidate(recipe.Name, recipe.Link, candidates); match != nil {
			if entry.Link == "" {
				entry.Link = match.SourceURL
			}
			if entry.TimeMinutes == nil {
				entry.TimeMinutes = match.ReadyMinutes
			}
			entry.Calories = match.Nutrition.Calories
			entry.Protein = match.Nutrition.Protein
			entry.Image = match.Image
			entry.SpoonID = match.ID
			entry.Ingredients = candidateIngredients(match.Ingredients)
		} else if id, ok := ExtractSpoonID(entry.Link); ok {
			entry.SpoonID = id
		}
		entries = append(entries, entry)
	}
	return entries
}

func candidateIngredients(ingredients []spoonacular.CandidateIngredient) []shopping.Ingredient {
	out := make([]shopping.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		out = append(out, shopping.Ingredient{
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
		})
	}
	return out
}

func scaledIngredients(ingredients []spoonacular.RecipeIngredient) []shopping.Ingredient {
	out := make([]shopping.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		amount := ing.Amount
		out = append(out, shopping.Ingredient{
			Name:     ing.Name,
			Amount:   &amount,
			Unit:     ing.Unit,
			Category: ing.Aisle,
		})
	}
	return out
}

// firstN is the no-LLM selection: the first finalCount candidates as-is.
func firstN(candidates []spoonacular.Candidate, finalCount int) []llm.SelectedRecipe {
	if finalCount > len(candidates) {
		finalCount = len(candidates)
	}
	chosen := make([]llm.SelectedRecipe, 0, finalCount)
	for _, c := range candidates[:finalCount] {
		selected := llm.SelectedRecipe{
			Name: c.Title,
			Link: c.SourceURL,
		}
		if c.ReadyMinutes != nil {
			selected.ReadyMinutes = *c.ReadyMinutes
		}
		chosen = append(chosen, selected)
	}
	return chosen
}

// menuRecipes converts menu entries to the consolidation input.
func menuRecipes(entries []MenuEntry) []shopping.Recipe {
	recipes := make([]shopping.Recipe, 0, len(entries))
	for _, entry := range entries {
		recipes = append(recipes, shopping.Recipe{
			Name:        entry.Name,
			Ingredients: shopping.IngredientList(entry.Ingredients),
		})
	}
	return recipes
}

// menuRows converts menu entries to the workspace sync shape.
func menuRows(entries []MenuEntry) []notion.RecipeRow {
	rows := make([]notion.RecipeRow, 0, len(entries))
	for _, entry := range entries {
		var ingredientLines []string
		for _, ing := range entry.Ingredients {
			var parts []string
			if ing.Amount != nil {
				parts = append(parts, formatFloat(*ing.Amount))
			}
			if ing.Unit != "" {
				parts = append(parts, ing.Unit)
			}
			if ing.Name != "" {
				parts = append(parts, ing.Name)
			}
			if len(parts) > 0 {
				ingredientLines = append(ingredientLines, strings.Join(parts, " "))
			}
		}
		portions := entry.Portions
		rows = append(rows, notion.RecipeRow{
			Name:        entry.Name,
			Link:        entry.Link,
			SpoonID:     entry.SpoonID,
			TimeMinutes: entry.TimeMinutes,
			Calories:    entry.Calories,
			Protein:     entry.Protein,
			Image:       entry.Image,
			Ingredients: strings.Join(ingredientLines, "\n"),
			Portions:    &portions,
			Week:        entry.Week,
		})
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// stockNames collects the trimmed stock item names, first spelling wins.
func stockNames(stock []shopping.StockEntry) []string {
	seen := make(map[string]struct{}, len(stock))
	var names []string
	for _, entry := range stock {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names
}

// hasQuantities reports whether at least one line carries a usable amount.
func hasQuantities(lines []shopping.GroceryLine) bool {
	for _, line := range lines {
		if line.Quantity.Known && line.Quantity.Value > 0 {
			return true
		}
		if strings.TrimSpace(line.Quantity.Raw) != "" {
			return true
		}
	}
	return false
}

// countMissingQuantities counts lines with no amount at all.
func countMissingQuantities(lines []shopping.GroceryLine) int {
	missing := 0
	for _, line := range lines {
		if !line.Quantity.Known || line.Quantity.Value == 0 {
			missing++
		}
	}
	return missing
}
