package cleaner

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"txclean/internal/config"
	"txclean/internal/schema"
)

// Normalizer applies the per-field cleaning rules to a raw record after
// identity resolution. Rules run independently per record; a record can
// still be rejected here (bad date, placeholder product), every other rule
// only rewrites values.
type Normalizer struct {
	layouts      []string
	placeholders map[string]struct{}
	countries    *CountryTable
}

// NewNormalizer builds a Normalizer from the configured rule tables.
func NewNormalizer(rules config.Rules) *Normalizer {
	ph := make(map[string]struct{}, len(rules.PlaceholderProducts))
	for _, p := range rules.PlaceholderProducts {
		ph[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	return &Normalizer{
		layouts:      rules.DateLayouts,
		placeholders: ph,
		countries:    NewCountryTable(rules.CountryMap),
	}
}

// Record normalizes one raw record into a clean candidate. When the record
// cannot be normalized it returns ok=false and the rejection reason.
//
// Quantity and price may still be zero after this stage; filling those gaps
// is the imputation engine's job.
func (n *Normalizer) Record(raw schema.RawRecord) (schema.CleanRecord, Reason, bool) {
	date, ok := n.normalizeDate(raw.OrderDate)
	if !ok {
		return schema.CleanRecord{}, ReasonBadDate, false
	}

	product := strings.TrimSpace(raw.ProductName)
	if n.placeholderProduct(product) {
		return schema.CleanRecord{}, ReasonInvalidProduct, false
	}

	return schema.CleanRecord{
		Origin:        raw.Origin,
		OrderID:       strings.TrimSpace(raw.OrderID),
		OrderDate:     date,
		CustomerName:  cleanName(raw.CustomerName),
		Country:       n.countries.Canonical(raw.Country),
		ProductID:     strings.TrimSpace(raw.ProductID),
		ProductName:   product,
		Category:      strings.TrimSpace(raw.Category),
		Quantity:      parseAmount(raw.Quantity),
		UnitPrice:     parseAmount(raw.UnitPrice),
		DiscountCode:  strings.TrimSpace(raw.DiscountCode),
		SalesRep:      strings.TrimSpace(raw.SalesRep),
		PaymentMethod: strings.TrimSpace(raw.PaymentMethod),
		OrderSource:   strings.TrimSpace(raw.OrderSource),
	}, "", true
}

// normalizeDate tries the configured layouts in priority order and renders
// the first match in the canonical form. A blank value or a value matching
// no layout fails.
func (n *Normalizer) normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range n.layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(schema.DateLayout), true
		}
	}
	return "", false
}

// placeholderProduct reports whether the trimmed product name is unusable:
// blank or a configured placeholder token.
func (n *Normalizer) placeholderProduct(trimmed string) bool {
	if trimmed == "" {
		return true
	}
	_, bad := n.placeholders[strings.ToLower(trimmed)]
	return bad
}

// cleanName cleans a customer name: blank stays nil (not an error);
// otherwise quote artifacts are stripped, whitespace runs collapse to one
// space, and the result is capitalized (first letter upper, remainder
// lower).
func cleanName(s string) *string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\'', '’', '`', '"':
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return nil
	}
	s = capitalize(s)
	return &s
}

// capitalize uppercases the first rune and lowercases the remainder.
func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// parseAmount parses a numeric field leniently: currency symbols and
// thousands separators are stripped, an unparseable or missing value reads
// as 0 (a gap for imputation), and a negative value is sign-corrected to its
// absolute value.
//
// Treating the sign as a data-entry error rather than a return/credit is an
// explicit business assumption (config rules.sign_policy).
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', ',', ' ':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if v < 0 {
		v = -v
	}
	return v
}
