package notion

import (
	"context"
	"fmt"
	"time"

	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"

	"go.uber.org/zap"
)

// SyncStats reports what a sync pass did.
type SyncStats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

// Syncer pushes a run's artifacts into the workspace databases. It owns the
// per-run caches, so build one Syncer per pipeline run.
type Syncer struct {
	client      *Client
	titleCache  *TitleCache
	schemaCache *SchemaCache
}

// NewSyncer wraps a client with fresh per-run caches.
func NewSyncer(client *Client) *Syncer {
	return &Syncer{
		client:      client,
		titleCache:  NewTitleCache(),
		schemaCache: NewSchemaCache(),
	}
}

// SchemaCache exposes the run's schema cache for fetch calls that share it.
func (s *Syncer) SchemaCache() *SchemaCache { return s.schemaCache }

// SyncRecipes upserts the week's menu into the recipes database, keyed by
// recipe title. One failing row does not abort the rest.
func (s *Syncer) SyncRecipes(ctx context.Context, databaseID string, rows []RecipeRow) (SyncStats, error) {
	schema, err := s.client.GetDatabaseProperties(ctx, s.schemaCache, databaseID)
	if err != nil {
		return SyncStats{}, err
	}

	var stats SyncStats
	for _, row := range rows {
		name := row.Name
		if name == "" {
			name = "Recette sans nom"
		}
		properties := RecipeProperties(row, schema)
		result, err := s.client.Upsert(ctx, s.titleCache, s.schemaCache, databaseID, name, properties)
		if err != nil {
			stats.Errors++
			common.LogWarn("recipe sync failed",
				zap.String("recipe", name),
				zap.Error(err))
			continue
		}
		if result.Created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}
	common.LogInfo("recipes synced",
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("errors", stats.Errors))
	return stats, nil
}

// SyncGroceries upserts the filtered shopping list into the groceries
// database. When clearWeek is set, rows already tagged with the week label
// are archived first.
func (s *Syncer) SyncGroceries(ctx context.Context, databaseID, week string, lines []shopping.GroceryLine, clearWeek bool) (SyncStats, error) {
	if clearWeek && week != "" {
		if _, err := s.client.ClearWeek(ctx, databaseID, week); err != nil {
			common.LogWarn("week purge failed", zap.Error(err))
		}
	}

	schema, err := s.client.GetDatabaseProperties(ctx, s.schemaCache, databaseID)
	if err != nil {
		return SyncStats{}, err
	}

	var stats SyncStats
	for _, line := range lines {
		name := line.ItemName
		if name == "" {
			name = "Article sans nom"
		}
		properties := GroceryProperties(line, week, schema)
		result, err := s.client.Upsert(ctx, s.titleCache, s.schemaCache, databaseID, name, properties)
		if err != nil {
			stats.Errors++
			common.LogWarn("grocery sync failed",
				zap.String("item", name),
				zap.Error(err))
			continue
		}
		if result.Created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}
	common.LogInfo("groceries synced",
		zap.String("week", week),
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("errors", stats.Errors))
	return stats, nil
}

// SyncMealPlan schedules the menu into a meal plan database, alternating
// meal types and advancing one day per full rotation. Recipe relations are
// resolved by title in the recipes database when possible.
func (s *Syncer) SyncMealPlan(ctx context.Context, mealPlanDB, recipesDB string, recipeNames []string, startDate time.Time, mealTypes []string) (SyncStats, error) {
	if len(mealTypes) == 0 {
		mealTypes = []string{"Déjeuner", "Dîner"}
	}

	schema, err := s.client.GetDatabaseProperties(ctx, s.schemaCache, mealPlanDB)
	if err != nil {
		return SyncStats{}, err
	}

	var stats SyncStats
	current := startDate
	for i, name := range recipeNames {
		mealType := mealTypes[i%len(mealTypes)]

		recipePageID, found, err := s.client.FindPageByTitle(ctx, s.titleCache, s.schemaCache, recipesDB, name)
		if err != nil {
			stats.Errors++
			common.LogWarn("relation lookup failed", zap.String("recipe", name), zap.Error(err))
			continue
		}
		if !found {
			common.LogWarn("recipe missing from workspace, scheduling without relation",
				zap.String("recipe", name))
			recipePageID = ""
		}

		day := current.Format("2006-01-02")
		row := MealPlanRow{Date: day, MealType: mealType, RecipePageID: recipePageID}
		title := fmt.Sprintf("%s - %s - %s", day, mealType, name)

		result, err := s.client.Upsert(ctx, s.titleCache, s.schemaCache, mealPlanDB, title, MealPlanProperties(row, schema))
		if err != nil {
			stats.Errors++
			common.LogWarn("meal plan sync failed", zap.String("entry", title), zap.Error(err))
		} else if result.Created {
			stats.Created++
		} else {
			stats.Updated++
		}

		if (i+1)%len(mealTypes) == 0 {
			current = current.AddDate(0, 0, 1)
		}
	}
	return stats, nil
}
