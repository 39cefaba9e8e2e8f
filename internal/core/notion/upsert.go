package notion

import (
	"context"
	"fmt"
	"sync"

	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"

	"go.uber.org/zap"
)

// TitleCache maps normalized page titles to page ids, per database, for
// one pipeline run. It spares a full database scan on every upsert.
type TitleCache struct {
	mu     sync.Mutex
	titles map[string]map[string]string
}

// NewTitleCache returns an empty per-run cache.
func NewTitleCache() *TitleCache {
	return &TitleCache{titles: make(map[string]map[string]string)}
}

func (t *TitleCache) lookup(databaseID, normalizedTitle string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	byTitle, ok := t.titles[databaseID]
	if !ok {
		return "", false
	}
	pageID, ok := byTitle[normalizedTitle]
	return pageID, ok
}

func (t *TitleCache) store(databaseID, normalizedTitle, pageID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.titles[databaseID] == nil {
		t.titles[databaseID] = make(map[string]string)
	}
	t.titles[databaseID][normalizedTitle] = pageID
}

func (t *TitleCache) loaded(databaseID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.titles[databaseID]
	return ok
}

func (t *TitleCache) markLoaded(databaseID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.titles[databaseID] == nil {
		t.titles[databaseID] = make(map[string]string)
	}
}

// loadTitles scans a database once and fills the cache with every page's
// normalized title.
func (c *Client) loadTitles(ctx context.Context, cache *TitleCache, schemaCache *SchemaCache, databaseID string) error {
	normalized := NormalizeID(databaseID)
	if cache.loaded(normalized) {
		return nil
	}

	schema, err := c.GetDatabaseProperties(ctx, schemaCache, normalized)
	if err != nil {
		return err
	}
	titleProp, err := titleProperty(schema)
	if err != nil {
		return err
	}

	pages, err := c.QueryAllPages(ctx, normalized)
	if err != nil {
		return err
	}

	cache.markLoaded(normalized)
	for _, page := range pages {
		title := page.Properties[titleProp].Text()
		if title == "" {
			continue
		}
		cache.store(normalized, shopping.NormalizeName(title), page.ID)
	}
	common.LogDebug("title cache loaded",
		zap.String("database_id", normalized),
		zap.Int("pages", len(pages)))
	return nil
}

// FindPageByTitle resolves a page id by its normalized title, loading the
// database's titles into the cache on first use.
func (c *Client) FindPageByTitle(ctx context.Context, cache *TitleCache, schemaCache *SchemaCache, databaseID, title string) (string, bool, error) {
	normalized := NormalizeID(databaseID)
	if err := c.loadTitles(ctx, cache, schemaCache, normalized); err != nil {
		return "", false, err
	}
	pageID, ok := cache.lookup(normalized, shopping.NormalizeName(title))
	return pageID, ok, nil
}

// UpsertResult reports what an upsert did.
type UpsertResult struct {
	PageID  string
	Created bool
}

// Upsert creates or updates the page whose title matches, keyed by the
// normalized title. Property payloads are already shaped for the API; the
// title payload is added here.
func (c *Client) Upsert(ctx context.Context, cache *TitleCache, schemaCache *SchemaCache, databaseID, title string, properties map[string]interface{}) (UpsertResult, error) {
	normalized := NormalizeID(databaseID)

	schema, err := c.GetDatabaseProperties(ctx, schemaCache, normalized)
	if err != nil {
		return UpsertResult{}, err
	}
	titleProp, err := titleProperty(schema)
	if err != nil {
		return UpsertResult{}, err
	}

	merged := make(map[string]interface{}, len(properties)+1)
	for name, payload := range properties {
		merged[name] = payload
	}
	titlePayload, _ := BuildPropertyPayload("title", title)
	merged[titleProp] = titlePayload

	if err := c.loadTitles(ctx, cache, schemaCache, normalized); err != nil {
		return UpsertResult{}, err
	}
	return c.upsertBuilt(ctx, cache, normalized, title, merged)
}

func (c *Client) upsertBuilt(ctx context.Context, cache *TitleCache, databaseID, title string, properties map[string]interface{}) (UpsertResult, error) {
	pageID, ok := cache.lookup(databaseID, shopping.NormalizeName(title))
	if ok {
		if err := c.UpdatePage(ctx, pageID, properties); err != nil {
			return UpsertResult{}, err
		}
		return UpsertResult{PageID: pageID, Created: false}, nil
	}

	pageID, err := c.CreatePage(ctx, databaseID, properties)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("upsert of %q failed: %w", title, err)
	}
	cache.store(databaseID, shopping.NormalizeName(title), pageID)
	return UpsertResult{PageID: pageID, Created: true}, nil
}
