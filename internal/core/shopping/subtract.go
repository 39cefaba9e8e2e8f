package shopping

import "strings"

// stockConversions converts a stock quantity into the grocery line's unit
// for subtraction. Pairs are keyed (stock unit, grocery unit).
var stockConversions = map[unitPair]float64{
	{"kg", "g"}:  1000,
	{"g", "kg"}:  1.0 / 1000.0,
	{"l", "ml"}:  1000,
	{"ml", "l"}:  1.0 / 1000.0,
	{"cl", "ml"}: 10,
	{"ml", "cl"}: 1.0 / 10.0,
}

// defaultDecrements applies when a stock item exists but its quantity or
// unit cannot be reconciled with the grocery line.
var defaultDecrements = map[string]float64{
	"g":     200,
	"ml":    100,
	"pc":    1,
	"pièce": 1,
	"piece": 1,
}

type stockRecord struct {
	category string
	quantity Quantity
	unit     string
}

// convertStockQuantity expresses a stock quantity in the grocery unit.
// Identical units pass through; then the metric prefixes above; then the
// general culinary table. Returns false when no path exists.
func convertStockQuantity(stockQty float64, stockUnit, groceryUnit string) (float64, bool) {
	su := strings.ToLower(strings.TrimSpace(stockUnit))
	gu := strings.ToLower(strings.TrimSpace(groceryUnit))
	if su == gu {
		return stockQty, true
	}
	if factor, ok := stockConversions[unitPair{su, gu}]; ok {
		return stockQty * factor, true
	}
	if factor, ok := conversionFactors[unitPair{su, gu}]; ok {
		return stockQty * factor, true
	}
	return 0, false
}

// SubtractStock decrements grocery quantities by what the pantry already
// holds. Lookup is by exact normalized name. Items whose stock category
// contains "frais" are left untouched (fresh stock is assumed consumed).
// When units reconcile the decrement is the converted stock quantity;
// otherwise a per-unit default applies (200 g, 100 ml, 1 piece). Quantities
// floor at zero. The input slice is not modified.
func SubtractStock(groceries []GroceryLine, stock []StockEntry) []GroceryLine {
	if len(stock) == 0 {
		return groceries
	}

	lookup := make(map[string]stockRecord, len(stock))
	for _, item := range stock {
		norm := NormalizeName(item.Name)
		if norm == "" {
			continue
		}
		lookup[norm] = stockRecord{
			category: strings.ToLower(strings.TrimSpace(item.Category)),
			quantity: item.Quantity,
			unit:     item.Unit,
		}
	}

	result := make([]GroceryLine, 0, len(groceries))
	for _, grocery := range groceries {
		norm := NormalizeName(grocery.ItemName)
		if norm == "" {
			result = append(result, grocery)
			continue
		}
		record, found := lookup[norm]
		if !found || strings.Contains(record.category, "frais") {
			result = append(result, grocery)
			continue
		}

		current := 0.0
		if grocery.Quantity.Known {
			current = grocery.Quantity.Value
		}

		if record.quantity.Known && record.unit != "" && grocery.Unit != "" {
			if converted, ok := convertStockQuantity(record.quantity.Value, record.unit, grocery.Unit); ok {
				grocery.Quantity = Num(max0(current - converted))
				result = append(result, grocery)
				continue
			}
		}

		decrement := defaultDecrements[strings.ToLower(strings.TrimSpace(grocery.Unit))]
		grocery.Quantity = Num(max0(current - decrement))
		result = append(result, grocery)
	}
	return result
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
