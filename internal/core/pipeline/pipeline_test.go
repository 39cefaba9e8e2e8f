package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Airohh/Appli-Food-Course/internal/core/llm"
	"github.com/Airohh/Appli-Food-Course/internal/core/notion"
	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"
	"github.com/Airohh/Appli-Food-Course/internal/core/spoonacular"
	"github.com/Airohh/Appli-Food-Course/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	candidates []spoonacular.Candidate
}

func (f *fakeSource) Candidates(ctx context.Context, opts spoonacular.SearchOptions) []spoonacular.Candidate {
	return f.candidates
}

func (f *fakeSource) RecipeIngredients(ctx context.Context, spoonID, desiredPortions int) ([]spoonacular.RecipeIngredient, error) {
	ingredients, ok := spoonacular.MockRecipeIngredients(spoonID, desiredPortions)
	if !ok {
		return nil, nil
	}
	return ingredients, nil
}

type fakeWorkspace struct {
	stock       []shopping.StockEntry
	menuRows    []notion.RecipeRow
	synced      []shopping.GroceryLine
	clearedWeek string
}

func (f *fakeWorkspace) FetchStock(ctx context.Context) ([]shopping.StockEntry, error) {
	return f.stock, nil
}

func (f *fakeWorkspace) SyncMenu(ctx context.Context, rows []notion.RecipeRow) (notion.SyncStats, error) {
	f.menuRows = rows
	return notion.SyncStats{Created: len(rows)}, nil
}

func (f *fakeWorkspace) SyncGroceries(ctx context.Context, week string, lines []shopping.GroceryLine, clearWeek bool) (notion.SyncStats, error) {
	f.synced = lines
	if clearWeek {
		f.clearedWeek = week
	}
	return notion.SyncStats{Created: len(lines)}, nil
}

func (f *fakeWorkspace) SyncMealPlan(ctx context.Context, names []string, start time.Time) (notion.SyncStats, error) {
	return notion.SyncStats{Created: len(names)}, nil
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Planner: config.PlannerConfig{
			FinalCount:        2,
			CandidateCount:    6,
			FuzzyThreshold:    shopping.DefaultFuzzyThreshold,
			ArtifactDir:       dir,
			PortionsPerRecipe: 2,
		},
	}
}

func writeStock(t *testing.T, dir string, content string) string {
	t.Helper()
	path := filepath.Join(dir, "stock.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunProducesArtifacts(t *testing.T) {
	dir := t.TempDir()
	stockPath := writeStock(t, dir, `[{"Aliment":"sel","Quantité":1,"Unité":"kg","Categorie":"épicerie"}]`)

	p := New(testConfig(dir), &fakeSource{candidates: spoonacular.MockCandidates()}, nil, nil, nil)
	result, err := p.Run(context.Background(), "run-1", Options{StockPath: stockPath})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Selected)
	assert.Greater(t, result.Items, 0)
	assert.NotEmpty(t, result.Week)

	for _, name := range []string{"menu.json", "groceries.json", "achats_filtres.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	lines, err := LoadGroceries(filepath.Join(dir, "achats_filtres.json"))
	require.NoError(t, err)
	assert.Len(t, lines, result.Items)
}

func TestRunDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	stockPath := writeStock(t, dir, `[]`)

	p := New(testConfig(dir), &fakeSource{candidates: spoonacular.MockCandidates()}, nil, nil, nil)
	_, err := p.Run(context.Background(), "run-2", Options{StockPath: stockPath, DryRun: true})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "menu.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunNoCandidates(t *testing.T) {
	dir := t.TempDir()
	p := New(testConfig(dir), &fakeSource{}, nil, nil, nil)
	_, err := p.Run(context.Background(), "run-3", Options{StockPath: filepath.Join(dir, "missing.json")})
	assert.Error(t, err)
}

func TestRunSyncsWorkspace(t *testing.T) {
	dir := t.TempDir()
	stockPath := writeStock(t, dir, `[]`)

	workspace := &fakeWorkspace{}
	p := New(testConfig(dir), &fakeSource{candidates: spoonacular.MockCandidates()}, nil, workspace, nil)
	result, err := p.Run(context.Background(), "run-4", Options{
		StockPath:     stockPath,
		SyncWorkspace: true,
		Week:          "Semaine 10 – 2026",
	})
	require.NoError(t, err)

	assert.Len(t, workspace.menuRows, result.Selected)
	assert.Len(t, workspace.synced, result.Items)
	assert.Equal(t, "Semaine 10 – 2026", workspace.clearedWeek)
	assert.Equal(t, result.Items, result.GrocerySync.Created)
}

func TestRunRefreshStockWritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	stockPath := filepath.Join(dir, "stock.json")

	workspace := &fakeWorkspace{
		stock: []shopping.StockEntry{{Name: "riz", Quantity: shopping.Num(1), Unit: "kg"}},
	}
	p := New(testConfig(dir), &fakeSource{candidates: spoonacular.MockCandidates()}, nil, workspace, nil)
	_, err := p.Run(context.Background(), "run-5", Options{
		StockPath:    stockPath,
		RefreshStock: true,
	})
	require.NoError(t, err)

	entries, err := LoadStock(stockPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "riz", entries[0].Name)
}

func TestTryAcquireRelease(t *testing.T) {
	p := New(testConfig(t.TempDir()), &fakeSource{}, nil, nil, nil)
	require.True(t, p.TryAcquire())
	assert.False(t, p.TryAcquire())
	p.Release()
	assert.True(t, p.TryAcquire())
}

type stubAssistant struct {
	chooseErr error
	chosen    []llm.SelectedRecipe
	deduped   []shopping.GroceryLine
}

func (s *stubAssistant) ChooseRecipes(ctx context.Context, candidates []spoonacular.Candidate, stock []string, finalCount int) ([]llm.SelectedRecipe, error) {
	return s.chosen, s.chooseErr
}

func (s *stubAssistant) ConsolidateFallback(ctx context.Context, selected []shopping.Recipe, stock []string) ([]shopping.GroceryLine, error) {
	return nil, nil
}

func (s *stubAssistant) DeduplicateCourses(ctx context.Context, courses []shopping.GroceryLine) ([]shopping.GroceryLine, error) {
	if s.deduped != nil {
		return s.deduped, nil
	}
	return courses, nil
}

func (s *stubAssistant) CompleteQuantities(ctx context.Context, courses []shopping.GroceryLine, recipes []shopping.Recipe) ([]shopping.GroceryLine, error) {
	return courses, nil
}

func TestRunAssistantSelection(t *testing.T) {
	dir := t.TempDir()
	stockPath := writeStock(t, dir, `[]`)

	candidates := spoonacular.MockCandidates()
	assistant := &stubAssistant{
		chosen: []llm.SelectedRecipe{{Name: candidates[0].Title, Link: candidates[0].SourceURL}},
	}
	p := New(testConfig(dir), &fakeSource{candidates: candidates}, assistant, nil, nil)
	result, err := p.Run(context.Background(), "run-6", Options{StockPath: stockPath, LLMEnabled: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Selected)
}

func TestRunAssistantFailureFallsBack(t *testing.T) {
	dir := t.TempDir()
	stockPath := writeStock(t, dir, `[]`)

	assistant := &stubAssistant{chooseErr: assert.AnError}
	p := New(testConfig(dir), &fakeSource{candidates: spoonacular.MockCandidates()}, assistant, nil, nil)
	result, err := p.Run(context.Background(), "run-7", Options{StockPath: stockPath, LLMEnabled: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Selected)
}
