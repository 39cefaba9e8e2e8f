package shopping

import (
	"math"
	"strings"
)

// roundingRule gives the preferred unit and increment for a category.
type roundingRule struct {
	Unit string
	Step float64
}

// categoryRules maps a line's primary category to its rounding rule. A line
// in one of these categories gets its quantity converted to the preferred
// unit and snapped to the nearest step.
var categoryRules = map[string]roundingRule{
	"spice":   {Unit: "tsp", Step: 0.25},
	"liquid":  {Unit: "ml", Step: 1},
	"meat":    {Unit: "g", Step: 10},
	"produce": {Unit: "piece", Step: 1},
}

type unitPair struct {
	From string
	To   string
}

// conversionFactors covers the culinary unit pairs seen in recipe data.
// Both directions are listed explicitly so lookup stays a single map read.
// piece↔g and g↔ml are identity passes: the value is kept and only the
// unit label changes.
var conversionFactors = map[unitPair]float64{
	{"g", "tsp"}:    1.0 / 5.0,
	{"tsp", "g"}:    5,
	{"g", "ml"}:     1,
	{"ml", "g"}:     1,
	{"piece", "g"}:  1,
	{"g", "piece"}:  1,
	{"tbsp", "ml"}:  15,
	{"ml", "tbsp"}:  1.0 / 15.0,
	{"tsp", "ml"}:   5,
	{"ml", "tsp"}:   1.0 / 5.0,
	{"cup", "ml"}:   240,
	{"ml", "cup"}:   1.0 / 240.0,
	{"oz", "g"}:     28.35,
	{"g", "oz"}:     1.0 / 28.35,
	{"lb", "g"}:     453.59,
	{"g", "lb"}:     1.0 / 453.59,
	{"clove", "pc"}: 1,
	{"piece", "pc"}: 1,
	{"pc", "piece"}: 1,
}

// convert translates a quantity between units. The second return is false
// when the pair has no known factor. Units are compared case-insensitively
// as written; they are not re-run through the synonym table here.
func convert(value float64, from, to string) (float64, bool) {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	if from == to {
		return value, true
	}
	if factor, ok := conversionFactors[unitPair{from, to}]; ok {
		return value * factor, true
	}
	return value, false
}

// applyRounding converts a line's quantity to its category's preferred unit
// and snaps it to the category increment. Lines with no rule, no known
// quantity or no conversion path come back unchanged.
func applyRounding(qty Quantity, unit, category string) (Quantity, string) {
	if !qty.Known || unit == "" {
		return qty, unit
	}
	rule, ok := categoryRules[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return qty, unit
	}
	converted, ok := convert(qty.Value, unit, rule.Unit)
	if !ok {
		return qty, unit
	}
	snapped := math.Round(converted/rule.Step) * rule.Step
	return Num(round4(snapped)), rule.Unit
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
