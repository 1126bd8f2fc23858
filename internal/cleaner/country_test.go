package cleaner

import (
	"testing"

	"txclean/internal/config"
)

func TestCountryCanonical(t *testing.T) {
	table := NewCountryTable(config.Default().Rules.CountryMap)

	cases := []struct {
		in   string
		want string
	}{
		{"usa", "United States"},
		{"USA", "United States"},
		{"U.S.", "United States"},
		{" u.s.a. ", "United States"},
		{"united states", "United States"},
		{"UK", "United Kingdom"},
		{"deutschland", "Germany"},
		// Unmapped values pass through trimmed, not rejected.
		{" Netherlands ", "Netherlands"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := table.Canonical(tc.in); got != tc.want {
			t.Errorf("Canonical(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCountryAccentFolding(t *testing.T) {
	table := NewCountryTable(map[string]string{
		"montreal": "Canada",
	})
	if got := table.Canonical("Montréal"); got != "Canada" {
		t.Errorf("Canonical(Montréal) = %q, want accent-insensitive match Canada", got)
	}
}
