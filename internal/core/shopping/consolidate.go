package shopping

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// tallyEntry accumulates everything known about one normalized item while a
// consolidation or merge pass walks its inputs. Units are summed per unit
// label in first-seen order so a multi-unit breakdown note reads in input
// order.
type tallyEntry struct {
	displayName string
	unitOrder   []string
	unitSums    map[string]float64
	notes       []string
	recipes     map[string]struct{}
	category    string
	categoryAlt map[string]struct{}
}

type tally struct {
	order   []string
	entries map[string]*tallyEntry
}

func newTally() *tally {
	return &tally{entries: make(map[string]*tallyEntry)}
}

func (t *tally) entry(norm, display string) *tallyEntry {
	e, ok := t.entries[norm]
	if !ok {
		e = &tallyEntry{
			unitSums:    make(map[string]float64),
			recipes:     make(map[string]struct{}),
			categoryAlt: make(map[string]struct{}),
		}
		t.entries[norm] = e
		t.order = append(t.order, norm)
	}
	if e.displayName == "" {
		e.displayName = display
	}
	return e
}

func (e *tallyEntry) addAmount(unit string, amount float64) {
	if _, seen := e.unitSums[unit]; !seen {
		e.unitOrder = append(e.unitOrder, unit)
	}
	e.unitSums[unit] += amount
}

func (e *tallyEntry) addNote(note string) {
	e.notes = append(e.notes, note)
}

func (e *tallyEntry) addRecipe(name string) {
	if name != "" {
		e.recipes[name] = struct{}{}
	}
}

func (e *tallyEntry) addCategory(category string) {
	if category == "" {
		return
	}
	if e.category == "" {
		e.category = category
	} else if e.category != category {
		e.categoryAlt[category] = struct{}{}
	}
}

// finalize turns the accumulated entries into sorted grocery lines. An item
// summed under a single unit keeps a numeric quantity (2 dp); mixed units
// collapse to the empty sentinel with a "q1 u1 + q2 u2" breakdown note.
// Category rounding applies only to numeric single-unit lines.
func (t *tally) finalize() []GroceryLine {
	lines := make([]GroceryLine, 0, len(t.order))
	for _, norm := range t.order {
		e := t.entries[norm]
		notes := append([]string(nil), e.notes...)

		qty := Unknown()
		unit := ""
		if len(e.unitOrder) == 1 {
			only := e.unitOrder[0]
			if sum := e.unitSums[only]; sum != 0 {
				qty = Num(round2(sum))
			}
			unit = only
		} else if len(e.unitOrder) > 1 {
			var parts []string
			for _, u := range e.unitOrder {
				if sum := e.unitSums[u]; sum != 0 {
					parts = append(parts, strings.TrimSpace(fmt.Sprintf("%s %s", formatAmount(round2(sum)), u)))
				}
			}
			if len(parts) > 0 {
				notes = append(notes, strings.Join(parts, " + "))
			}
		}

		altSet := make([]string, 0, len(e.categoryAlt))
		for c := range e.categoryAlt {
			if c != "" && c != e.category {
				altSet = append(altSet, c)
			}
		}
		sort.Strings(altSet)
		if len(altSet) == 0 {
			altSet = nil
		}

		if qty.Known && unit != "" {
			qty, unit = applyRounding(qty, unit, e.category)
		}

		recipes := make([]string, 0, len(e.recipes))
		for r := range e.recipes {
			recipes = append(recipes, r)
		}
		sort.Strings(recipes)

		var kept []string
		for _, n := range notes {
			if n != "" {
				kept = append(kept, n)
			}
		}

		lines = append(lines, GroceryLine{
			ItemName:      e.displayName,
			Quantity:      qty,
			Unit:          unit,
			SourceRecipes: strings.Join(recipes, ", "),
			Notes:         strings.TrimSpace(strings.Join(kept, "; ")),
			Category:      e.category,
			CategoryAlt:   altSet,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return NormalizeName(lines[i].ItemName) < NormalizeName(lines[j].ItemName)
	})
	return lines
}

// formatAmount renders a quantity the way it appears in breakdown notes:
// no trailing zeros, plain decimal.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Consolidate flattens the selected recipes' ingredients into one grocery
// list. Ingredients already in stock are skipped per ingredient, the rest
// are grouped by normalized name with per-unit sums. An ingredient with no
// numeric amount contributes its unit text as a note instead.
func Consolidate(recipes []Recipe, stock []StockEntry, threshold float64) []GroceryLine {
	index := BuildStockIndex(stock)
	t := newTally()

	for _, rec := range recipes {
		for _, ing := range rec.Ingredients {
			name := strings.TrimSpace(ing.Name)
			if name == "" {
				continue
			}
			if len(index) > 0 && IsInStock(name, index, threshold) {
				continue
			}
			norm := NormalizeName(name)
			if norm == "" {
				continue
			}
			e := t.entry(norm, name)
			unit := strings.TrimSpace(ing.Unit)
			if ing.Amount != nil {
				e.addAmount(unit, *ing.Amount)
			} else if unit != "" {
				e.addNote(unit)
			}
			e.addRecipe(strings.TrimSpace(rec.Name))
			e.addCategory(strings.TrimSpace(ing.Category))
			if n := strings.TrimSpace(ing.Note); n != "" {
				e.addNote(n)
			}
		}
	}

	return t.finalize()
}
