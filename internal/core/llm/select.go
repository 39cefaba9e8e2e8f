package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"
	"github.com/Airohh/Appli-Food-Course/internal/core/spoonacular"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"

	"go.uber.org/zap"
)

// SelectedRecipe is the model's pick for one weekly slot.
type SelectedRecipe struct {
	Name         string `json:"Nom"`
	Link         string `json:"Lien"`
	ReadyMinutes int    `json:"Temps"`
}

// liteCandidate is the reduced recipe sent to the model: enough to choose
// by, small enough to fit many in one prompt.
type liteCandidate struct {
	Title        string        `json:"title"`
	ReadyMinutes int           `json:"readyMinutes"`
	SourceURL    string        `json:"sourceUrl"`
	Nutrition    liteNutrition `json:"nutrition"`
	Ingredients  []string      `json:"ingredients"`
}

type liteNutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
}

// shortlistCandidates filters candidates to quick, protein-dense recipes
// and keeps the top entries by protein per calorie.
func shortlistCandidates(candidates []spoonacular.Candidate, limit int) []liteCandidate {
	shortlisted := make([]liteCandidate, 0, limit)
	for _, recipe := range candidates {
		protein := deref(recipe.Nutrition.Protein)
		calories := deref(recipe.Nutrition.Calories)
		readyMinutes := 999
		if recipe.ReadyMinutes != nil {
			readyMinutes = *recipe.ReadyMinutes
		}

		if readyMinutes > 45 || protein < 25 || calories < 250 || calories > 800 {
			continue
		}

		names := make([]string, 0, 10)
		for _, ing := range recipe.Ingredients {
			if ing.Name == "" {
				continue
			}
			names = append(names, ing.Name)
			if len(names) == 10 {
				break
			}
		}

		shortlisted = append(shortlisted, liteCandidate{
			Title:        recipe.Title,
			ReadyMinutes: readyMinutes,
			SourceURL:    recipe.SourceURL,
			Nutrition:    liteNutrition{Calories: calories, Protein: protein},
			Ingredients:  names,
		})
	}

	sort.SliceStable(shortlisted, func(i, j int) bool {
		return proteinDensity(shortlisted[i]) > proteinDensity(shortlisted[j])
	})
	if len(shortlisted) > limit {
		shortlisted = shortlisted[:limit]
	}
	return shortlisted
}

func proteinDensity(c liteCandidate) float64 {
	calories := c.Nutrition.Calories
	if calories < 1 {
		calories = 1
	}
	return c.Nutrition.Protein / calories
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// ChooseRecipes asks the model to pick finalCount varied recipes from the
// candidates, favoring what the pantry already holds.
func (c *Client) ChooseRecipes(ctx context.Context, candidates []spoonacular.Candidate, stock []string, finalCount int) ([]SelectedRecipe, error) {
	lite := shortlistCandidates(candidates, 25)

	stockLine := "aucun"
	if len(stock) > 0 {
		stockLine = strings.Join(stock, ", ")
	}
	liteJSON, err := common.ToJSON(lite)
	if err != nil {
		return nil, fmt.Errorf("failed to encode candidates: %w", err)
	}

	prompt := fmt.Sprintf(chooseRecipesPrompt, finalCount) +
		"\n\nStock disponible: " + stockLine +
		"\n\nRecettes candidates (format JSON):\n" + liteJSON + "\n"

	content, err := c.complete(ctx, prompt, 0.3, 1500)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Recipes  []SelectedRecipe `json:"recipes"`
		Recettes []SelectedRecipe `json:"Recettes"`
	}
	if err := decodeObject(content, &wrapped); err != nil {
		return nil, err
	}
	selected := wrapped.Recipes
	if len(selected) == 0 {
		selected = wrapped.Recettes
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("model returned no recipes")
	}

	common.LogInfo("recipes selected",
		zap.Int("candidates", len(candidates)),
		zap.Int("shortlisted", len(lite)),
		zap.Int("selected", len(selected)),
	)
	return selected, nil
}

// courseEnvelope matches the answer shapes the model uses for course lists.
type courseEnvelope struct {
	Courses   []shopping.GroceryLine `json:"courses"`
	Items     []shopping.GroceryLine `json:"items"`
	Groceries []shopping.GroceryLine `json:"groceries"`
}

func (e courseEnvelope) lines() []shopping.GroceryLine {
	if len(e.Courses) > 0 {
		return e.Courses
	}
	if len(e.Items) > 0 {
		return e.Items
	}
	return e.Groceries
}

// Chunking thresholds for long course lists. A list whose JSON exceeds the
// token budget is cleaned in slices of dedupBatchSize lines.
const (
	dedupBatchSize   = 50
	dedupTokenBudget = 2500
)

// DeduplicateCourses asks the model to merge near-duplicate course lines
// and normalize names. Long lists are cleaned in chunks so one call never
// overruns the completion window; the original list comes back on any
// failure.
func (c *Client) DeduplicateCourses(ctx context.Context, courses []shopping.GroceryLine) ([]shopping.GroceryLine, error) {
	if len(courses) == 0 {
		return nil, nil
	}
	if errs := ValidateCourses(courses, false); len(errs) > 0 {
		return nil, fmt.Errorf("invalid courses before model call: %v", errs[0])
	}

	if ShouldSplitBatch(courses, dedupTokenBudget) {
		cleaned := ProcessInBatches(courses, dedupBatchSize, func(batch []shopping.GroceryLine) ([]shopping.GroceryLine, error) {
			return c.deduplicateOnce(ctx, batch)
		})
		return cleaned, nil
	}
	return c.deduplicateOnce(ctx, courses)
}

func (c *Client) deduplicateOnce(ctx context.Context, courses []shopping.GroceryLine) ([]shopping.GroceryLine, error) {
	coursesJSON, err := common.ToJSON(courses)
	if err != nil {
		return nil, fmt.Errorf("failed to encode courses: %w", err)
	}
	prompt := deduplicateCoursesPrompt +
		"\n\nListe de courses à nettoyer (format JSON):\n" + coursesJSON + "\n"

	content, err := c.complete(ctx, prompt, 0.1, 3000)
	if err != nil {
		return nil, err
	}

	var envelope courseEnvelope
	if err := decodeObject(content, &envelope); err != nil {
		return nil, err
	}
	cleaned := envelope.lines()
	if len(cleaned) == 0 {
		return courses, nil
	}
	if errs := ValidateCourses(cleaned, false); len(errs) > 0 {
		common.LogWarn("model returned invalid course lines, sanitizing",
			zap.Int("errors", len(errs)),
		)
		cleaned = SanitizeCourses(cleaned)
	}
	return cleaned, nil
}

// CompleteQuantities asks the model to fill in missing quantities, using
// the selected recipes as context. Lines that already carry a quantity are
// left alone; when nothing is missing no call is made.
func (c *Client) CompleteQuantities(ctx context.Context, courses []shopping.GroceryLine, recipes []shopping.Recipe) ([]shopping.GroceryLine, error) {
	if len(courses) == 0 {
		return nil, nil
	}
	if errs := ValidateCourses(courses, false); len(errs) > 0 {
		return nil, fmt.Errorf("invalid courses before model call: %v", errs[0])
	}

	missing := 0
	for _, item := range courses {
		if !item.Quantity.Known || item.Quantity.Value == 0 {
			missing++
		}
	}
	if missing == 0 {
		return courses, nil
	}

	coursesJSON, err := common.ToJSON(courses)
	if err != nil {
		return nil, fmt.Errorf("failed to encode courses: %w", err)
	}
	prompt := completeQuantitiesPrompt +
		"\n\nListe de courses avec quantités manquantes (format JSON):\n" + coursesJSON + "\n"

	if len(recipes) > 0 {
		recipesJSON, err := common.ToJSON(recipes)
		if err == nil {
			prompt += "\n\nRecettes associées (pour contexte) :\n" + recipesJSON + "\n"
		}
	}

	content, err := c.complete(ctx, prompt, 0.2, 3000)
	if err != nil {
		return nil, err
	}

	var envelope courseEnvelope
	if err := decodeObject(content, &envelope); err != nil {
		return nil, err
	}
	completed := envelope.lines()
	if len(completed) == 0 {
		return courses, nil
	}
	if errs := ValidateCourses(completed, false); len(errs) > 0 {
		common.LogWarn("model returned invalid course lines, sanitizing",
			zap.Int("errors", len(errs)),
		)
		completed = SanitizeCourses(completed)
	}
	return completed, nil
}

// ConsolidateFallback asks the model to build the grocery list directly
// from the selected recipes. Used only when the local consolidation could
// not produce quantities.
func (c *Client) ConsolidateFallback(ctx context.Context, selected []shopping.Recipe, stock []string) ([]shopping.GroceryLine, error) {
	stockLine := "aucun"
	if len(stock) > 0 {
		stockLine = strings.Join(stock, ", ")
	}
	selectedJSON, err := common.ToJSON(selected)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recipes: %w", err)
	}

	prompt := fmt.Sprintf(consolidatePrompt, stockLine) +
		"\n\nRecettes sélectionnées (format JSON):\n" + selectedJSON + "\n"

	content, err := c.complete(ctx, prompt, 0.2, 2000)
	if err != nil {
		return nil, err
	}

	var envelope courseEnvelope
	if err := decodeObject(content, &envelope); err != nil {
		return nil, err
	}
	return envelope.lines(), nil
}
