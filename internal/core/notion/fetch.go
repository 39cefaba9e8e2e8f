package notion

import (
	"context"

	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"

	"go.uber.org/zap"
)

// pick returns the first non-empty simplified value among candidate keys.
func pick(row map[string]interface{}, keys ...string) interface{} {
	for _, key := range keys {
		value, ok := row[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if v == "" {
				continue
			}
		case []string:
			if len(v) == 0 {
				continue
			}
		}
		return value
	}
	return nil
}

func pickText(row map[string]interface{}, keys ...string) string {
	value := pick(row, keys...)
	if value == nil {
		return ""
	}
	return stringify(value)
}

func pickQuantity(row map[string]interface{}, keys ...string) shopping.Quantity {
	value := pick(row, keys...)
	if value == nil {
		return shopping.Unknown()
	}
	if num, ok := toFloat(value); ok {
		return shopping.Num(num)
	}
	return shopping.Unknown()
}

// FetchStock reads the pantry database into stock entries. Rows whose
// title cell is empty are skipped.
func (c *Client) FetchStock(ctx context.Context, schemaCache *SchemaCache, databaseID string) ([]shopping.StockEntry, error) {
	normalized := NormalizeID(databaseID)

	schema, err := c.GetDatabaseProperties(ctx, schemaCache, normalized)
	if err != nil {
		return nil, err
	}
	titleProp, err := titleProperty(schema)
	if err != nil {
		return nil, err
	}

	pages, err := c.QueryAllPages(ctx, normalized)
	if err != nil {
		return nil, err
	}

	entries := make([]shopping.StockEntry, 0, len(pages))
	for _, page := range pages {
		row := SimplifyPage(page)
		name := pickText(row, titleProp, "Aliment", "Nom")
		if name == "" {
			continue
		}
		entries = append(entries, shopping.StockEntry{
			Name:     name,
			Quantity: pickQuantity(row, "Quantité", "Quantite", "Quantity"),
			Unit:     pickText(row, "Unité", "Unite", "Unit"),
			Category: pickText(row, "Catégorie", "Categorie", "Category"),
		})
	}
	common.LogInfo("stock fetched",
		zap.String("database_id", normalized),
		zap.Int("entries", len(entries)))
	return entries, nil
}

// weekOf reads the week label from a simplified row, whether the column is
// a select or a multi_select.
func weekOf(row map[string]interface{}) string {
	value := pick(row, "Semaine", "Week")
	switch v := value.(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// ClearWeek archives every groceries row tagged with the week label and
// returns how many were archived. Rows that fail to archive are counted
// and logged but do not abort the purge.
func (c *Client) ClearWeek(ctx context.Context, databaseID, week string) (int, error) {
	normalized := NormalizeID(databaseID)
	pages, err := c.QueryAllPages(ctx, normalized)
	if err != nil {
		return 0, err
	}

	archived := 0
	for _, page := range pages {
		if weekOf(SimplifyPage(page)) != week {
			continue
		}
		if err := c.ArchivePage(ctx, page.ID); err != nil {
			common.LogWarn("page archive failed",
				zap.String("page_id", page.ID),
				zap.Error(err))
			continue
		}
		archived++
	}
	common.LogInfo("week purged",
		zap.String("database_id", normalized),
		zap.String("week", week),
		zap.Int("archived", archived))
	return archived, nil
}
