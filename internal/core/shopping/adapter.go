package shopping

import (
	"encoding/json"
	"strings"
)

// The workspace database, the recipe API and earlier exports disagree on
// field names ("Aliment" vs "Name" vs "Nom", accented vs plain). Everything
// entering the core is decoded here, once, into the canonical types; the
// engines never look at alias keys.

func pickString(m map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		raw, ok := m[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func pickQuantity(m map[string]json.RawMessage, keys ...string) Quantity {
	for _, k := range keys {
		raw, ok := m[k]
		if !ok {
			continue
		}
		var q Quantity
		if err := json.Unmarshal(raw, &q); err == nil && (q.Known || q.Raw != "") {
			return q
		}
	}
	return Unknown()
}

func pickStrings(m map[string]json.RawMessage, keys ...string) []string {
	for _, k := range keys {
		raw, ok := m[k]
		if !ok {
			continue
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
			return list
		}
	}
	return nil
}

// DecodeGroceryLine reads one grocery record regardless of which alias
// spelling it uses.
func DecodeGroceryLine(data []byte) (GroceryLine, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return GroceryLine{}, err
	}
	return GroceryLine{
		ItemName:      pickString(m, "Aliment", "Name", "Nom", "name"),
		Quantity:      pickQuantity(m, "Quantité", "Quantite", "Quantity"),
		Unit:          pickString(m, "Unité", "Unite", "Unit", "unit"),
		SourceRecipes: pickString(m, "Recettes", "Recette"),
		Notes:         pickString(m, "Notes", "notes"),
		Category:      pickString(m, "Categorie", "Category", "Catégorie"),
		CategoryAlt:   pickStrings(m, "Categorie_alt", "Category_alt"),
	}, nil
}

// DecodeGroceryLines reads a JSON array of grocery records. Entries that are
// not objects are skipped rather than failing the whole document.
func DecodeGroceryLines(data []byte) ([]GroceryLine, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	lines := make([]GroceryLine, 0, len(raws))
	for _, raw := range raws {
		line, err := DecodeGroceryLine(raw)
		if err != nil {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// DecodeStockEntries reads a pantry snapshot. Non-object entries are
// ignored, matching how partially hand-edited stock files behave.
func DecodeStockEntries(data []byte) ([]StockEntry, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	entries := make([]StockEntry, 0, len(raws))
	for _, raw := range raws {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		entries = append(entries, StockEntry{
			Name:     pickString(m, "Aliment", "Name", "Nom", "name"),
			Quantity: pickQuantity(m, "Quantité", "Quantite", "Quantity"),
			Unit:     pickString(m, "Unité", "Unite", "Unit", "unit"),
			Category: pickString(m, "Categorie", "Category", "Catégorie"),
		})
	}
	return entries, nil
}

// DecodeRecipes reads selected recipes whose name may arrive as "Nom",
// "title" or "name" and whose ingredients use any of the three list shapes.
func DecodeRecipes(data []byte) ([]Recipe, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	recipes := make([]Recipe, 0, len(raws))
	for _, raw := range raws {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		var ingredients IngredientList
		for _, key := range []string{"ingredients", "Ingrédients", "Ingredients"} {
			if rawList, ok := m[key]; ok {
				if err := json.Unmarshal(rawList, &ingredients); err == nil && len(ingredients) > 0 {
					break
				}
			}
		}
		recipes = append(recipes, Recipe{
			Name:        pickString(m, "Nom", "title", "name", "Name"),
			Ingredients: ingredients,
		})
	}
	return recipes, nil
}
