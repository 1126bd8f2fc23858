// Package datagen produces a synthetic raw transactions feed carrying the
// same noise patterns the cleaning pipeline exists for: sentinel and
// duplicate order IDs, mixed date encodings, messy customer names, country
// variants, placeholder products, and zero/negative amounts. It is used by
// the `gen` subcommand for demos and by tests that need a realistic batch.
package datagen

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"txclean/internal/schema"
)

// Generator produces dirty raw rows deterministically from a seed.
type Generator struct {
	faker  *gofakeit.Faker
	lastID int
}

// New creates a Generator with a specific seed for reproducibility.
func New(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed), lastID: 1000}
}

var (
	categories = []string{"Apparel", "Footwear", "Accessories", "Home", "Electronics"}
	products   = map[string][]string{
		"Apparel":     {"Denim Jacket", "Linen Shirt", "Wool Sweater"},
		"Footwear":    {"Leather Boots", "Canvas Sneakers"},
		"Accessories": {"Silk Scarf", "Leather Belt"},
		"Home":        {"Ceramic Vase", "Throw Blanket"},
		"Electronics": {"Bluetooth Speaker", "Desk Lamp"},
	}
	countryVariants = []string{"USA", "usa", "U.S.", "United States", "UK", "uk", "Germany", "DE", "france", "CAN"}
	sources         = []string{"web", "store", "phone"}
	payments        = []string{"card", "cash", "paypal"}
	discounts       = []string{"", "SUMMER10", "VIP20", "WELCOME5"}
	sentinelIDs     = []string{"", "0", "???", "99999", "ORDX"}
	placeholders    = []string{"unknown item", "()", "UNKNOWN"}
)

// Row produces one raw CSV row aligned to schema.RawColumns.
func (g *Generator) Row() []string {
	f := g.faker

	id := fmt.Sprintf("%d", g.nextID())
	switch {
	case f.Number(0, 99) < 5:
		id = f.RandomString(sentinelIDs)
	case f.Number(0, 99) < 8 && g.lastID > 1001:
		// Re-issue an already used ID to exercise deduplication.
		id = fmt.Sprintf("%d", f.Number(1001, g.lastID-1))
	}

	category := f.RandomString(categories)
	product := f.RandomString(products[category])
	if f.Number(0, 99) < 4 {
		product = f.RandomString(placeholders)
	}

	name := f.FirstName() + " " + f.LastName()
	switch f.Number(0, 3) {
	case 0:
		name = strings.ToUpper(name)
	case 1:
		name = "  " + strings.ToLower(name) + "  "
	case 2:
		name = strings.Replace(name, " ", "   '", 1)
	}
	if f.Number(0, 99) < 5 {
		name = ""
	}

	qty := fmt.Sprintf("%d", f.Number(1, 8))
	switch f.Number(0, 19) {
	case 0:
		qty = fmt.Sprintf("-%d", f.Number(1, 8))
	case 1:
		qty = "0"
	case 2:
		qty = ""
	}

	price := fmt.Sprintf("%.2f", f.Price(5, 300))
	switch f.Number(0, 19) {
	case 0:
		price = "-" + price
	case 1:
		price = "0"
	case 2:
		price = "$" + price
	}

	return []string{
		id,
		g.dirtyDate(),
		name,
		f.RandomString(countryVariants),
		fmt.Sprintf("P-%04d", f.Number(1, 400)),
		product,
		category,
		qty,
		price,
		f.RandomString(discounts),
		f.FirstName(),
		f.RandomString(payments),
		f.RandomString(sources),
		f.Email(),
	}
}

// WriteCSV emits a header row plus n dirty rows.
func (g *Generator) WriteCSV(w io.Writer, n int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(schema.RawColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(g.Row()); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// nextID hands out mostly increasing order IDs.
func (g *Generator) nextID() int {
	g.lastID += g.faker.Number(1, 3)
	return g.lastID
}

// dirtyDate renders one date in a randomly chosen known encoding, with an
// occasional garbage value that no layout matches.
func (g *Generator) dirtyDate() string {
	f := g.faker
	t := f.DateRange(
		mustDate("2023-01-01"),
		mustDate("2024-12-31"),
	)
	switch f.Number(0, 9) {
	case 0:
		return t.Format("2-Jan-06")
	case 1:
		return t.Format("2-Jan-2006")
	case 2:
		return t.Format("2/1/2006")
	case 3:
		return "not a date"
	case 4:
		return ""
	default:
		return t.Format(schema.DateLayout)
	}
}

// mustDate parses a canonical-form date; layouts here are compile-time
// constants, so a parse failure is a programming error.
func mustDate(s string) time.Time {
	t, err := time.Parse(schema.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
