package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"
	"github.com/Airohh/Appli-Food-Course/internal/core/spoonacular"
	"github.com/Airohh/Appli-Food-Course/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func ptrInt(v int) *int { return &v }

func candidate(title string, readyMinutes int, protein, calories float64) spoonacular.Candidate {
	return spoonacular.Candidate{
		Title:        title,
		ReadyMinutes: ptrInt(readyMinutes),
		Nutrition: spoonacular.Nutrition{
			Protein:  ptr(protein),
			Calories: ptr(calories),
		},
		Ingredients: []spoonacular.CandidateIngredient{
			{Name: "ingredient"},
		},
	}
}

func TestShortlistFiltersByMacros(t *testing.T) {
	candidates := []spoonacular.Candidate{
		candidate("ok", 30, 40, 500),
		candidate("too slow", 90, 40, 500),
		candidate("low protein", 30, 10, 500),
		candidate("too light", 30, 40, 100),
		candidate("too heavy", 30, 40, 1200),
	}

	lite := shortlistCandidates(candidates, 25)
	require.Len(t, lite, 1)
	assert.Equal(t, "ok", lite[0].Title)
}

func TestShortlistSortsByProteinDensity(t *testing.T) {
	candidates := []spoonacular.Candidate{
		candidate("lean", 30, 30, 600),
		candidate("dense", 30, 50, 400),
	}

	lite := shortlistCandidates(candidates, 25)
	require.Len(t, lite, 2)
	assert.Equal(t, "dense", lite[0].Title)
}

func TestShortlistHonorsLimit(t *testing.T) {
	var candidates []spoonacular.Candidate
	for i := 0; i < 40; i++ {
		candidates = append(candidates, candidate("r", 30, 40, 500))
	}
	lite := shortlistCandidates(candidates, 25)
	assert.Len(t, lite, 25)
}

func TestShortlistSkipsMissingNutrition(t *testing.T) {
	candidates := []spoonacular.Candidate{
		{Title: "no data", ReadyMinutes: ptrInt(30)},
	}
	assert.Empty(t, shortlistCandidates(candidates, 25))
}

func TestDeduplicateCoursesChunksLongLists(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"courses\": []}"}}]}`)
	}))
	defer srv.Close()

	client := NewClient(config.LLMConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "test",
		Timeout: 5 * time.Second,
	}, nil)

	courses := make([]shopping.GroceryLine, 0, 120)
	for i := 0; i < 120; i++ {
		courses = append(courses, shopping.GroceryLine{
			ItemName:      fmt.Sprintf("Filet de poulet fermier numéro %d", i),
			Quantity:      shopping.Num(200),
			Unit:          "g",
			SourceRecipes: "Curry de poulet au lait de coco",
		})
	}

	cleaned, err := client.DeduplicateCourses(context.Background(), courses)
	require.NoError(t, err)
	assert.Len(t, cleaned, 120)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestShortlistCapsIngredientNames(t *testing.T) {
	c := candidate("many", 30, 40, 500)
	c.Ingredients = nil
	for i := 0; i < 15; i++ {
		c.Ingredients = append(c.Ingredients, spoonacular.CandidateIngredient{Name: "x"})
	}
	lite := shortlistCandidates([]spoonacular.Candidate{c}, 25)
	require.Len(t, lite, 1)
	assert.Len(t, lite[0].Ingredients, 10)
}
