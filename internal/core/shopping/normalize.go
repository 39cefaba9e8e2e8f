package shopping

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripAccents(s string) string {
	out, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeName folds an item name to its comparison key: trimmed, lowered,
// accents removed. "Épinards frais " becomes "epinards frais".
func NormalizeName(raw string) string {
	return stripAccents(strings.ToLower(strings.TrimSpace(raw)))
}

// unitSynonyms maps folded spellings to canonical units. Canonical forms are
// the French labels used in the workspace database.
var unitSynonyms = map[string]string{
	"g":       "g",
	"gramme":  "g",
	"grammes": "g",

	"kg":          "kg",
	"kilo":        "kg",
	"kilos":       "kg",
	"kilogramme":  "kg",
	"kilogrammes": "kg",

	"ml":          "ml",
	"millilitre":  "ml",
	"millilitres": "ml",

	"l":      "l",
	"litre":  "l",
	"litres": "l",

	"cl":          "cl",
	"centilitre":  "cl",
	"centilitres": "cl",

	"piece":  "pièce",
	"pieces": "pièce",
	"unite":  "pièce",
	"unites": "pièce",

	"tbsp":               "cuil. à soupe",
	"cuillere a soupe":   "cuil. à soupe",
	"cuilleres a soupe":  "cuil. à soupe",
	"cuil. a soupe":      "cuil. à soupe",
	"c. a soupe":         "cuil. à soupe",
	"cas":                "cuil. à soupe",

	"tsp":              "cuil. à café",
	"cuillere a cafe":  "cuil. à café",
	"cuilleres a cafe": "cuil. à café",
	"cuil. a cafe":     "cuil. à café",
	"c. a cafe":        "cuil. à café",
	"cac":              "cuil. à café",
}

// NormalizeUnit maps the many spellings of a measurement unit to one
// canonical form. Units outside the table pass through folded, so new units
// degrade to consistent keys rather than disappearing.
func NormalizeUnit(raw string) string {
	folded := NormalizeName(raw)
	if canonical, ok := unitSynonyms[folded]; ok {
		return canonical
	}
	return folded
}

// StockIndex is a set of normalized pantry item names.
type StockIndex map[string]struct{}

// BuildStockIndex collects the normalized names of the pantry snapshot.
func BuildStockIndex(stock []StockEntry) StockIndex {
	idx := make(StockIndex, len(stock))
	for _, entry := range stock {
		if key := NormalizeName(entry.Name); key != "" {
			idx[key] = struct{}{}
		}
	}
	return idx
}

// IsInStock reports whether an ingredient name matches a pantry item, first
// by exact normalized key and then by similarity ratio against every key.
// The first key at or above the threshold wins.
func IsInStock(name string, index StockIndex, threshold float64) bool {
	key := NormalizeName(name)
	if key == "" {
		return false
	}
	if _, ok := index[key]; ok {
		return true
	}
	for stockKey := range index {
		if similarityRatio(key, stockKey) >= threshold {
			return true
		}
	}
	return false
}

// similarityRatio is 2*M / (len(a) + len(b)) where M counts the characters
// covered by the longest-common-substring decomposition of the two strings
// (recursing left and right of each match). Operates on runes.
func similarityRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 1
	}
	m := matchingBlocks(ra, rb)
	return 2 * float64(m) / float64(len(ra)+len(rb))
}

func matchingBlocks(a, b []rune) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingBlocks(a[:ai], b[:bi])
	total += matchingBlocks(a[ai+size:], b[bi+size:])
	return total
}

func longestMatch(a, b []rune) (ai, bi, size int) {
	// j2len[j] holds the length of the match ending at a[i], b[j].
	j2len := make(map[int]int, len(b))
	for i := range a {
		next := make(map[int]int, len(b))
		for j := range b {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > size {
				ai, bi, size = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return ai, bi, size
}
