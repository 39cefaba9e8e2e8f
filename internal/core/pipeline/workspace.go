package pipeline

import (
	"context"
	"time"

	"github.com/Airohh/Appli-Food-Course/internal/core/notion"
	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"
	"github.com/Airohh/Appli-Food-Course/internal/infrastructure/config"
)

// notionWorkspace binds a notion.Client and the configured database ids to
// the Workspace surface. It carries the run's syncer, so build one per run
// via NewWorkspace.
type notionWorkspace struct {
	client *notion.Client
	cfg    config.NotionConfig
	syncer *notion.Syncer
}

// NewWorkspace wraps the workspace client for one pipeline run. Returns nil
// when no token is configured, which disables the sync steps.
func NewWorkspace(cfg config.NotionConfig) Workspace {
	if cfg.Token == "" {
		return nil
	}
	client := notion.NewClient(cfg)
	return &notionWorkspace{
		client: client,
		cfg:    cfg,
		syncer: notion.NewSyncer(client),
	}
}

func (w *notionWorkspace) FetchStock(ctx context.Context) ([]shopping.StockEntry, error) {
	return w.client.FetchStock(ctx, w.syncer.SchemaCache(), w.cfg.StockDB)
}

func (w *notionWorkspace) SyncMenu(ctx context.Context, rows []notion.RecipeRow) (notion.SyncStats, error) {
	return w.syncer.SyncRecipes(ctx, w.cfg.RecipesDB, rows)
}

func (w *notionWorkspace) SyncGroceries(ctx context.Context, week string, lines []shopping.GroceryLine, clearWeek bool) (notion.SyncStats, error) {
	return w.syncer.SyncGroceries(ctx, w.cfg.GroceriesDB, week, lines, clearWeek)
}

func (w *notionWorkspace) SyncMealPlan(ctx context.Context, recipeNames []string, startDate time.Time) (notion.SyncStats, error) {
	return w.syncer.SyncMealPlan(ctx, w.cfg.MealPlanDB, w.cfg.RecipesDB, recipeNames, startDate, nil)
}
