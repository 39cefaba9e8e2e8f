package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Airohh/Appli-Food-Course/internal/core/llm"
	"github.com/Airohh/Appli-Food-Course/internal/core/notion"
	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"
	"github.com/Airohh/Appli-Food-Course/internal/core/spoonacular"
	"github.com/Airohh/Appli-Food-Course/internal/infrastructure/config"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/notify"

	"go.uber.org/zap"
)

// RecipeSource finds candidate recipes and their scaled ingredients.
type RecipeSource interface {
	Candidates(ctx context.Context, opts spoonacular.SearchOptions) []spoonacular.Candidate
	RecipeIngredients(ctx context.Context, spoonID int, desiredPortions int) ([]spoonacular.RecipeIngredient, error)
}

// Assistant is the LLM-backed cleanup surface. All methods may fail; the
// pipeline falls back to the deterministic path on any error.
type Assistant interface {
	ChooseRecipes(ctx context.Context, candidates []spoonacular.Candidate, stock []string, finalCount int) ([]llm.SelectedRecipe, error)
	ConsolidateFallback(ctx context.Context, selected []shopping.Recipe, stock []string) ([]shopping.GroceryLine, error)
	DeduplicateCourses(ctx context.Context, courses []shopping.GroceryLine) ([]shopping.GroceryLine, error)
	CompleteQuantities(ctx context.Context, courses []shopping.GroceryLine, recipes []shopping.Recipe) ([]shopping.GroceryLine, error)
}

// Workspace is the page-database surface the pipeline reads stock from and
// pushes artifacts to.
type Workspace interface {
	FetchStock(ctx context.Context) ([]shopping.StockEntry, error)
	SyncMenu(ctx context.Context, rows []notion.RecipeRow) (notion.SyncStats, error)
	SyncGroceries(ctx context.Context, week string, lines []shopping.GroceryLine, clearWeek bool) (notion.SyncStats, error)
	SyncMealPlan(ctx context.Context, recipeNames []string, startDate time.Time) (notion.SyncStats, error)
}

// Options drive one pipeline run.
type Options struct {
	Query         string
	DryRun        bool
	LLMEnabled    bool
	LLMFallback   bool
	RefreshStock  bool
	SyncWorkspace bool
	StockPath     string
	MealPlanStart time.Time
	Week          string
}

// Result summarizes one completed run.
type Result struct {
	RunID        string           `json:"run_id"`
	Week         string           `json:"week"`
	Candidates   int              `json:"candidates"`
	Selected     int              `json:"selected"`
	Items        int              `json:"items"`
	MergeStats   shopping.Stats   `json:"merge_stats"`
	RecipeSync   notion.SyncStats `json:"recipe_sync"`
	GrocerySync  notion.SyncStats `json:"grocery_sync"`
	MealPlanSync notion.SyncStats `json:"meal_plan_sync"`
	StartedAt    time.Time        `json:"started_at"`
	FinishedAt   time.Time        `json:"finished_at"`
}

// Pipeline wires the collaborators into the weekly run. One run at a time;
// Busy gates concurrent triggers.
type Pipeline struct {
	cfg       *config.Config
	recipes   RecipeSource
	assistant Assistant
	workspace Workspace
	notifier  *notify.Notifier
	running   int32
}

// New assembles a Pipeline. assistant and workspace may be nil when the
// matching collaborator is not configured.
func New(cfg *config.Config, recipes RecipeSource, assistant Assistant, workspace Workspace, notifier *notify.Notifier) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		recipes:   recipes,
		assistant: assistant,
		workspace: workspace,
		notifier:  notifier,
	}
}

// TryAcquire claims the single run slot. Callers that get true must call
// Release when the run ends.
func (p *Pipeline) TryAcquire() bool {
	return atomic.CompareAndSwapInt32(&p.running, 0, 1)
}

// Release frees the run slot.
func (p *Pipeline) Release() {
	atomic.StoreInt32(&p.running, 0)
}

// Run executes the weekly pipeline: candidates, selection, consolidation,
// merge, stock subtraction, artifacts, workspace sync, notification.
func (p *Pipeline) Run(ctx context.Context, runID string, opts Options) (*Result, error) {
	started := time.Now()
	week := opts.Week
	if week == "" {
		week = WeekLabel(started)
	}
	common.LogInfo("pipeline run started",
		zap.String("run_id", runID),
		zap.String("week", week),
		zap.Bool("dry_run", opts.DryRun))

	store := NewStore(p.cfg.Planner.ArtifactDir, opts.DryRun)

	candidates := p.recipes.Candidates(ctx, spoonacular.SearchOptions{
		Query:          opts.Query,
		Diet:           p.cfg.Planner.Diet,
		MaxReadyMinute: p.cfg.Planner.MaxReadyMinutes,
		Number:         p.cfg.Planner.CandidateCount,
	})
	common.LogInfo("candidates fetched", zap.Int("count", len(candidates)))
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidate recipes available")
	}

	stock, err := p.loadStock(ctx, opts, store)
	if err != nil {
		return nil, err
	}
	names := stockNames(stock)

	chosen := p.selectRecipes(ctx, opts, candidates, names)
	menu := enrichSelection(chosen, candidates, week, p.cfg.Planner.PortionsPerRecipe)
	p.scaleMenu(ctx, menu)
	if err := store.SaveJSON(store.MenuPath(), menu); err != nil {
		return nil, err
	}

	recipes := menuRecipes(menu)
	groceries := shopping.Consolidate(recipes, stock, p.cfg.Planner.FuzzyThreshold)

	if p.assistant != nil && opts.LLMEnabled && opts.LLMFallback && !hasQuantities(groceries) {
		common.LogInfo("no quantities after consolidation, trying assistant fallback")
		fallback, err := p.assistant.ConsolidateFallback(ctx, recipes, names)
		if err != nil {
			common.LogWarn("assistant consolidation failed", zap.Error(err))
		} else if len(fallback) > 0 {
			groceries = fallback
		}
	}
	if err := store.SaveJSON(store.GroceriesPath(), groceries); err != nil {
		return nil, err
	}

	merged, stats := shopping.Merge(groceries, stock, p.cfg.Planner.FuzzyThreshold)
	common.LogInfo("courses merged",
		zap.Int("input", stats.Input),
		zap.Int("output", stats.Output),
		zap.Int("skipped_stock", stats.SkippedStock))

	merged = p.cleanup(ctx, opts, merged, recipes)
	merged = shopping.SubtractStock(merged, stock)
	merged = dropEmptied(merged)

	if err := store.SaveJSON(store.PurchasesPath(), merged); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:      runID,
		Week:       week,
		Candidates: len(candidates),
		Selected:   len(menu),
		Items:      len(merged),
		MergeStats: stats,
		StartedAt:  started,
	}

	if p.workspace != nil && opts.SyncWorkspace && !opts.DryRun {
		p.sync(ctx, opts, week, menu, merged, result)
	}

	p.notify(ctx, opts, len(merged))

	result.FinishedAt = time.Now()
	common.LogInfo("pipeline run finished",
		zap.String("run_id", runID),
		zap.Int("items", result.Items),
		zap.Duration("took", result.FinishedAt.Sub(started)))
	return result, nil
}

// loadStock refreshes the local snapshot from the workspace when asked,
// then loads it from disk. Refresh failures fall back to the local file.
func (p *Pipeline) loadStock(ctx context.Context, opts Options, store *Store) ([]shopping.StockEntry, error) {
	if opts.RefreshStock && p.workspace != nil {
		snapshot, err := p.workspace.FetchStock(ctx)
		if err != nil {
			common.LogWarn("stock refresh failed, using local snapshot", zap.Error(err))
		} else if err := store.SaveJSON(opts.StockPath, snapshot); err != nil {
			common.LogWarn("stock snapshot not written", zap.Error(err))
		}
	}
	return LoadStock(opts.StockPath)
}

// scaleMenu replaces each entry's search-time ingredient measures with the
// recipe's full list scaled to the configured portions. Lookup failures keep
// the search measures.
func (p *Pipeline) scaleMenu(ctx context.Context, menu []MenuEntry) {
	portions := p.cfg.Planner.PortionsPerRecipe
	if portions <= 0 {
		return
	}
	for i := range menu {
		entry := &menu[i]
		if entry.SpoonID == 0 {
			continue
		}
		scaled, err := p.recipes.RecipeIngredients(ctx, entry.SpoonID, portions)
		if err != nil {
			common.LogWarn("ingredient scaling failed, keeping search measures",
				zap.String("recipe", entry.Name),
				zap.Error(err))
			continue
		}
		if len(scaled) > 0 {
			entry.Ingredients = scaledIngredients(scaled)
		}
	}
}

// selectRecipes asks the assistant when enabled and falls back to the first
// finalCount candidates.
func (p *Pipeline) selectRecipes(ctx context.Context, opts Options, candidates []spoonacular.Candidate, names []string) []llm.SelectedRecipe {
	finalCount := p.cfg.Planner.FinalCount
	if p.assistant != nil && opts.LLMEnabled {
		chosen, err := p.assistant.ChooseRecipes(ctx, candidates, names, finalCount)
		if err != nil {
			common.LogWarn("assistant selection failed, taking first candidates", zap.Error(err))
		} else if len(chosen) > 0 {
			return chosen
		}
	}
	return firstN(candidates, finalCount)
}

// cleanup runs the optional assistant passes over the merged list. Every
// failure keeps the deterministic result.
func (p *Pipeline) cleanup(ctx context.Context, opts Options, merged []shopping.GroceryLine, recipes []shopping.Recipe) []shopping.GroceryLine {
	if p.assistant == nil || !opts.LLMEnabled || len(merged) == 0 {
		return merged
	}

	cleaned, err := p.assistant.DeduplicateCourses(ctx, merged)
	if err != nil {
		common.LogWarn("assistant deduplication failed", zap.Error(err))
	} else if len(cleaned) > 0 {
		merged = cleaned
	}

	if missing := countMissingQuantities(merged); missing > 0 {
		common.LogInfo("completing missing quantities", zap.Int("missing", missing))
		completed, err := p.assistant.CompleteQuantities(ctx, merged, recipes)
		if err != nil {
			common.LogWarn("assistant completion failed", zap.Error(err))
		} else if len(completed) > 0 {
			merged = completed
		}
	}
	return merged
}

// sync pushes menu, meal plan and groceries to the workspace. Sync errors
// are logged, not fatal; the artifacts on disk stay authoritative.
func (p *Pipeline) sync(ctx context.Context, opts Options, week string, menu []MenuEntry, merged []shopping.GroceryLine, result *Result) {
	recipeStats, err := p.workspace.SyncMenu(ctx, menuRows(menu))
	if err != nil {
		common.LogWarn("menu sync failed", zap.Error(err))
	}
	result.RecipeSync = recipeStats

	if p.cfg.Notion.MealPlanDB != "" {
		start := opts.MealPlanStart
		if start.IsZero() {
			start = time.Now()
		}
		names := make([]string, 0, len(menu))
		for _, entry := range menu {
			names = append(names, entry.Name)
		}
		mealStats, err := p.workspace.SyncMealPlan(ctx, names, start)
		if err != nil {
			common.LogWarn("meal plan sync failed", zap.Error(err))
		}
		result.MealPlanSync = mealStats
	}

	groceryStats, err := p.workspace.SyncGroceries(ctx, week, merged, true)
	if err != nil {
		common.LogWarn("grocery sync failed", zap.Error(err))
	}
	result.GrocerySync = groceryStats
}

// notify sends the "list ready" push, linking the courses view when one is
// configured. Best effort.
func (p *Pipeline) notify(ctx context.Context, opts Options, items int) {
	if p.notifier == nil || opts.DryRun {
		return
	}
	body := fmt.Sprintf("%d articles dans la liste de courses", items)
	if err := p.notifier.Send(ctx, "Liste prete - ouvre ta vue Courses", body, p.cfg.Notion.CoursesViewURL); err != nil {
		common.LogWarn("notification failed", zap.Error(err))
	}
}

// dropEmptied removes lines whose known quantity fell to zero after stock
// subtraction. Lines with unknown quantities stay; only a measured zero
// means nothing is left to buy.
func dropEmptied(lines []shopping.GroceryLine) []shopping.GroceryLine {
	kept := make([]shopping.GroceryLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity.Known && line.Quantity.Value <= 0 {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}
