// Package assumption turns a two-column label/value sheet into a lookup of
// business drivers keyed by normalized label.
package assumption

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Key is the canonical form of a label: lowercase letters and digits only,
// with diacritics folded. The empty key never matches anything.
type Key string

// NormalizeKey canonicalizes a free-text label so "Açaí cost per bowl",
// "ACAI cost-per-bowl" and "acaicostperbowl" all share one key.
func NormalizeKey(label string) Key {
	lowered := strings.ToLower(label)

	// Chained transformers keep state, so build one per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(fold, lowered)
	if err != nil {
		folded = lowered
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return Key(b.String())
}
