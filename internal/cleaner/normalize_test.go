package cleaner

import (
	"testing"

	"txclean/internal/config"
	"txclean/internal/schema"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(config.Default().Rules)
}

// validRaw returns a raw record that passes every normalizer rule.
func validRaw(origin int) schema.RawRecord {
	return schema.RawRecord{
		Origin:      origin,
		OrderID:     "1001",
		OrderDate:   "2024-03-05",
		ProductName: "Denim Jacket",
		Category:    "Apparel",
		Quantity:    "2",
		UnitPrice:   "49.99",
	}
}

func TestNormalizeDate(t *testing.T) {
	n := testNormalizer()

	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-05", "2024-03-05", true},
		{"5/3/2024", "2024-03-05", true},
		{"05/03/2024", "2024-03-05", true},
		{"5-Mar-2024", "2024-03-05", true},
		{"5-Mar-24", "2024-03-05", true},
		{" 2024-03-05 ", "2024-03-05", true},
		{"", "", false},
		{"   ", "", false},
		{"not a date", "", false},
		{"2024-13-40", "", false},
		{"31/2/2024", "", false},
	}
	for _, tc := range cases {
		got, ok := n.normalizeDate(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("normalizeDate(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDateRejection(t *testing.T) {
	n := testNormalizer()
	raw := validRaw(0)
	raw.OrderDate = "garbage"

	_, reason, ok := n.Record(raw)
	if ok || reason != ReasonBadDate {
		t.Fatalf("Record = (reason %q, ok %v), want missing_or_invalid_date rejection", reason, ok)
	}
}

func TestCleanName(t *testing.T) {
	str := func(s string) *string { return &s }

	cases := []struct {
		in   string
		want *string
	}{
		{"", nil},
		{"   ", nil},
		{"''", nil},
		{"john smith", str("John smith")},
		{"  JOHN   SMITH  ", str("John smith")},
		{"o'brien", str("Obrien")},
		{"  'maria  ", str("Maria")},
		{"ann\t\tlee", str("Ann lee")},
	}
	for _, tc := range cases {
		got := cleanName(tc.in)
		switch {
		case got == nil && tc.want == nil:
		case got == nil || tc.want == nil:
			t.Errorf("cleanName(%q) = %v, want %v", tc.in, got, tc.want)
		case *got != *tc.want:
			t.Errorf("cleanName(%q) = %q, want %q", tc.in, *got, *tc.want)
		}
	}
}

func TestPlaceholderProduct(t *testing.T) {
	n := testNormalizer()

	for _, bad := range []string{"unknown item", "UNKNOWN ITEM", "Unknown", "()", "???", ""} {
		raw := validRaw(0)
		raw.ProductName = bad
		if _, reason, ok := n.Record(raw); ok || reason != ReasonInvalidProduct {
			t.Errorf("product %q: got (reason %q, ok %v), want invalid_product rejection", bad, reason, ok)
		}
	}

	raw := validRaw(0)
	raw.ProductName = "  Denim Jacket  "
	rec, _, ok := n.Record(raw)
	if !ok || rec.ProductName != "Denim Jacket" {
		t.Errorf("real product: got (%q, ok %v), want trimmed keep", rec.ProductName, ok)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"3", 3},
		{"49.99", 49.99},
		{"-5", 5},
		{"-49.99", 49.99},
		{"$49.99", 49.99},
		{"1,299.50", 1299.5},
		{"", 0},
		{"0", 0},
		{"n/a", 0},
	}
	for _, tc := range cases {
		if got := parseAmount(tc.in); got != tc.want {
			t.Errorf("parseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRecordNormalizesFields(t *testing.T) {
	n := testNormalizer()
	raw := schema.RawRecord{
		Origin:        7,
		OrderID:       " 1001 ",
		OrderDate:     "5/3/2024",
		CustomerName:  "  jane   O'DOE ",
		Country:       "usa",
		ProductID:     " P-0042 ",
		ProductName:   " Denim Jacket ",
		Category:      " Apparel ",
		Quantity:      "-2",
		UnitPrice:     "$49.99",
		DiscountCode:  " SUMMER10 ",
		SalesRep:      " Ana ",
		PaymentMethod: " card ",
		OrderSource:   " web ",
		Email:         "jane@example.com",
	}

	rec, _, ok := n.Record(raw)
	if !ok {
		t.Fatal("Record rejected a valid raw record")
	}

	if rec.Origin != 7 {
		t.Errorf("Origin = %d, want 7", rec.Origin)
	}
	if rec.OrderID != "1001" {
		t.Errorf("OrderID = %q", rec.OrderID)
	}
	if rec.OrderDate != "2024-03-05" {
		t.Errorf("OrderDate = %q", rec.OrderDate)
	}
	if rec.CustomerName == nil || *rec.CustomerName != "Jane odoe" {
		t.Errorf("CustomerName = %v, want Jane odoe", rec.CustomerName)
	}
	if rec.Country != "United States" {
		t.Errorf("Country = %q, want United States", rec.Country)
	}
	if rec.Quantity != 2 {
		t.Errorf("Quantity = %v, want sign-corrected 2", rec.Quantity)
	}
	if rec.UnitPrice != 49.99 {
		t.Errorf("UnitPrice = %v, want 49.99", rec.UnitPrice)
	}
	if rec.DiscountCode != "SUMMER10" || rec.SalesRep != "Ana" || rec.PaymentMethod != "card" || rec.OrderSource != "web" {
		t.Errorf("passthrough fields not trimmed: %+v", rec)
	}
}
