package shopping

import "strings"

// Merge re-consolidates an already-flat grocery list, typically the
// concatenation of a fresh consolidation with lines still open in the
// workspace. Lines matching the stock are dropped before grouping, so a
// pantry item removes every occurrence rather than the merged remainder.
// Merging is idempotent: feeding the output back in yields the same lines.
func Merge(lines []GroceryLine, stock []StockEntry, threshold float64) ([]GroceryLine, Stats) {
	index := BuildStockIndex(stock)
	t := newTally()
	skipped := 0

	for _, line := range lines {
		name := strings.TrimSpace(line.ItemName)
		norm := NormalizeName(name)
		if norm == "" {
			continue
		}
		if len(index) > 0 && IsInStock(name, index, threshold) {
			skipped++
			continue
		}

		e := t.entry(norm, name)
		e.addCategory(strings.TrimSpace(line.Category))
		for _, alt := range line.CategoryAlt {
			e.addCategory(strings.TrimSpace(alt))
		}

		unit := strings.TrimSpace(line.Unit)
		if line.Quantity.Known {
			e.addAmount(unit, line.Quantity.Value)
		} else if line.Quantity.Raw != "" {
			e.addNote(line.Quantity.Raw)
		}
		if n := strings.TrimSpace(line.Notes); n != "" {
			e.addNote(n)
		}
		for _, r := range strings.Split(line.SourceRecipes, ",") {
			e.addRecipe(strings.TrimSpace(r))
		}
	}

	merged := t.finalize()
	return merged, Stats{Input: len(lines), Output: len(merged), SkippedStock: skipped}
}
