package shopping

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Quantity models the grocery quantity field, which on the wire is either a
// number or the empty string ("unknown or mixed units"). The sentinel is
// distinct from a numeric zero, so a plain float64 cannot carry it.
type Quantity struct {
	Value float64
	Known bool
	// Raw keeps the original text when the field held something that is not
	// a number ("une pincée"); merge passes it through to the notes.
	Raw string
}

// Num returns a known quantity.
func Num(v float64) Quantity {
	return Quantity{Value: v, Known: true}
}

// Unknown returns the empty-sentinel quantity.
func Unknown() Quantity {
	return Quantity{}
}

// MarshalJSON encodes the quantity as a number, or as "" when unknown.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.Known {
		return json.Marshal("")
	}
	return json.Marshal(q.Value)
}

// UnmarshalJSON accepts a number, a numeric string (comma decimals allowed),
// the empty string or null. Non-numeric text is kept in Raw.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = Quantity{}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = parseQuantityText(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*q = Num(v)
	return nil
}

func parseQuantityText(s string) Quantity {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if cleaned == "" {
		return Unknown()
	}
	if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return Num(v)
	}
	return Quantity{Raw: strings.TrimSpace(s)}
}

// Ingredient is one ingredient as attached to a recipe. Amount is nil when
// the recipe only carries a textual note instead of a measurable quantity.
type Ingredient struct {
	Name     string   `json:"name"`
	Amount   *float64 `json:"amount"`
	Unit     string   `json:"unit"`
	Category string   `json:"category,omitempty"`
	Note     string   `json:"notes,omitempty"`
}

// IngredientList decodes the three ingredient shapes seen at the boundary:
// a comma-separated string, a list of plain names, or a list of records.
type IngredientList []Ingredient

// UnmarshalJSON never fails on an unexpected shape; anything unusable decodes
// to an empty list so a malformed recipe contributes nothing.
func (l *IngredientList) UnmarshalJSON(data []byte) error {
	*l = nil
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		for _, part := range strings.Split(s, ",") {
			if name := strings.TrimSpace(part); name != "" {
				*l = append(*l, Ingredient{Name: name})
			}
		}
		return nil
	}

	var records []Ingredient
	if err := json.Unmarshal(data, &records); err == nil {
		*l = records
		return nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		for _, name := range names {
			if name = strings.TrimSpace(name); name != "" {
				*l = append(*l, Ingredient{Name: name})
			}
		}
	}
	return nil
}

// Recipe is a selected recipe with its ingredient list, as consumed by
// Consolidate. Only the name and the ingredients matter here; the other
// fields ride along for the sync collaborators.
type Recipe struct {
	Name        string         `json:"Nom"`
	Ingredients IngredientList `json:"ingredients"`
}

// GroceryLine is one row of the shopping list, and the re-entrant merge
// input. Field tags follow the workspace-database column names.
type GroceryLine struct {
	ItemName      string   `json:"Aliment"`
	Quantity      Quantity `json:"Quantité"`
	Unit          string   `json:"Unité"`
	SourceRecipes string   `json:"Recettes"`
	Notes         string   `json:"Notes,omitempty"`
	Category      string   `json:"Categorie,omitempty"`
	CategoryAlt   []string `json:"Categorie_alt,omitempty"`
}

// StockEntry is one pantry snapshot line.
type StockEntry struct {
	Name     string   `json:"Aliment"`
	Quantity Quantity `json:"Quantité"`
	Unit     string   `json:"Unité"`
	Category string   `json:"Categorie,omitempty"`
}

// Stats reports what a merge pass did.
type Stats struct {
	Input        int `json:"input"`
	Output       int `json:"output"`
	SkippedStock int `json:"skipped_stock"`
}

// DefaultFuzzyThreshold is the similarity ratio above which two item names
// are treated as the same pantry item.
const DefaultFuzzyThreshold = 0.88
