package notion

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"

	"go.uber.org/zap"
)

// SchemaCache memoizes database schemas for one pipeline run. Callers own
// the cache and discard it when the run ends, so a renamed column is picked
// up on the next run.
type SchemaCache struct {
	mu      sync.Mutex
	schemas map[string]map[string]PropertyDefinition
}

// NewSchemaCache returns an empty per-run cache.
func NewSchemaCache() *SchemaCache {
	return &SchemaCache{schemas: make(map[string]map[string]PropertyDefinition)}
}

// GetDatabaseProperties returns the column name to definition map for a
// database, fetching it once per run through the cache.
func (c *Client) GetDatabaseProperties(ctx context.Context, cache *SchemaCache, databaseID string) (map[string]PropertyDefinition, error) {
	normalized := NormalizeID(databaseID)

	if cache != nil {
		cache.mu.Lock()
		if schema, ok := cache.schemas[normalized]; ok {
			cache.mu.Unlock()
			return schema, nil
		}
		cache.mu.Unlock()
	}

	db, err := c.retrieveDatabase(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		cache.mu.Lock()
		cache.schemas[normalized] = db.Properties
		cache.mu.Unlock()
	}
	common.LogDebug("database schema loaded",
		zap.String("database_id", normalized),
		zap.Int("properties", len(db.Properties)))
	return db.Properties, nil
}

// ResolvePropertyName matches a wanted column name against the schema,
// first exactly, then case insensitively.
func ResolvePropertyName(schema map[string]PropertyDefinition, wanted string) (string, bool) {
	if _, ok := schema[wanted]; ok {
		return wanted, true
	}
	lowered := strings.ToLower(strings.TrimSpace(wanted))
	for name := range schema {
		if strings.ToLower(strings.TrimSpace(name)) == lowered {
			return name, true
		}
	}
	return "", false
}

// FindPropertyByType returns the first column of the given type.
func FindPropertyByType(schema map[string]PropertyDefinition, propType string) (string, bool) {
	for name, def := range schema {
		if def.Type == propType {
			return name, true
		}
	}
	return "", false
}

// titleProperty locates the mandatory title column of a database.
func titleProperty(schema map[string]PropertyDefinition) (string, error) {
	name, ok := FindPropertyByType(schema, "title")
	if !ok {
		return "", fmt.Errorf("database has no title property")
	}
	return name, nil
}
