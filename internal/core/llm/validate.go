package llm

import (
	"fmt"
	"strings"

	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"
)

// ValidateCourseItem checks one grocery line before or after a model call.
// Strict mode additionally requires a known, non-zero quantity and a unit.
func ValidateCourseItem(item shopping.GroceryLine, strict bool) error {
	if strings.TrimSpace(item.ItemName) == "" {
		return fmt.Errorf("missing item name")
	}
	if item.Quantity.Known && item.Quantity.Value < 0 {
		return fmt.Errorf("negative quantity: %v", item.Quantity.Value)
	}
	if strict {
		if !item.Quantity.Known || item.Quantity.Value == 0 {
			return fmt.Errorf("missing quantity")
		}
		if strings.TrimSpace(item.Unit) == "" {
			return fmt.Errorf("missing unit")
		}
	}
	return nil
}

// ValidateCourses checks a whole list and reports every offending index.
func ValidateCourses(courses []shopping.GroceryLine, strict bool) []error {
	var errs []error
	for i, item := range courses {
		if err := ValidateCourseItem(item, strict); err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
		}
	}
	return errs
}

// SanitizeCourseItem trims the text fields of a line the model produced.
func SanitizeCourseItem(item shopping.GroceryLine) shopping.GroceryLine {
	item.ItemName = strings.TrimSpace(item.ItemName)
	item.Unit = strings.TrimSpace(item.Unit)
	item.Notes = strings.TrimSpace(item.Notes)
	item.SourceRecipes = strings.TrimSpace(item.SourceRecipes)
	if item.Quantity.Known && item.Quantity.Value < 0 {
		item.Quantity = shopping.Unknown()
	}
	return item
}

// SanitizeCourses applies SanitizeCourseItem to every line.
func SanitizeCourses(courses []shopping.GroceryLine) []shopping.GroceryLine {
	out := make([]shopping.GroceryLine, 0, len(courses))
	for _, item := range courses {
		out = append(out, SanitizeCourseItem(item))
	}
	return out
}
