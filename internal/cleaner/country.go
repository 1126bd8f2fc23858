package cleaner

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CountryTable maps known abbreviation/casing variants to one canonical full
// country name. It is an extend-as-you-learn table, not a closed
// enumeration: unmapped values pass through unchanged, which is a latent
// data-quality gap to fix in configuration, not an error.
type CountryTable struct {
	variants map[string]string
}

// NewCountryTable builds a lookup table; variant keys are matched after
// case and accent folding, so config entries may be written naturally.
func NewCountryTable(variants map[string]string) *CountryTable {
	m := make(map[string]string, len(variants))
	for k, v := range variants {
		m[foldKey(k)] = v
	}
	return &CountryTable{variants: m}
}

// Canonical returns the canonical name for a known variant, or the trimmed
// input unchanged when the variant is unknown.
func (t *CountryTable) Canonical(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if full, ok := t.variants[foldKey(s)]; ok {
		return full
	}
	return s
}

// foldKey lowercases and strips accents (NFD, remove nonspacing marks, NFC)
// so "Méxîco"/"MEXICO"/"mexico" all land on the same key.
func foldKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
