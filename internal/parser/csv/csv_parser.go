// Package csv ingests the raw transactions feed. It is a streaming reader
// tolerant of the usual real-world noise (BOM, unescaped quotes, ragged
// rows) and performs no cleaning of its own: every value is carried verbatim
// into a schema.RawRecord, and rejection is left to the downstream stages.
//
// The one fatal condition is a schema mismatch: a header that, after
// mapping, is missing any canonical column aborts the run before any record
// is processed.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"txclean/internal/schema"
)

// Options configures the parser. All fields are optional; sensible defaults
// are applied when a field is zero.
type Options struct {
	// HasHeader indicates whether the first row contains column headers.
	// Without a header, columns are taken positionally in schema.RawColumns
	// order.
	HasHeader bool

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// LazyQuotes tolerates unescaped quotes in fields.
	LazyQuotes bool

	// HeaderMap maps source header names to canonical field names from
	// schema.RawColumns. Headers already matching a canonical name (after
	// trimming) need no entry.
	HeaderMap map[string]string
}

// Parser parses CSV input according to Options. A Parser is safe to reuse
// across inputs but is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// ErrSchema marks a fatal input-schema failure (missing expected columns).
var ErrSchema = errors.New("input schema mismatch")

// Parse reads the whole input and returns the ingested records, the number
// of unreadable rows soft-dropped by the CSV layer, and an error. Origin is
// assigned in read order starting at 0, counting only ingested records.
//
// Rows shorter than an expected source column yield "" for that field; this
// is absence, not an error, and is handled downstream.
func (p *Parser) Parse(r io.Reader) ([]schema.RawRecord, int, error) {
	comma := p.opt.Comma
	if comma == 0 {
		comma = ','
	}

	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.ReuseRecord = true
	cr.LazyQuotes = p.opt.LazyQuotes
	cr.FieldsPerRecord = -1 // ragged rows are tolerated
	cr.TrimLeadingSpace = true

	colIx, err := p.columnIndex(cr)
	if err != nil {
		return nil, 0, err
	}

	var (
		out     []schema.RawRecord
		skipped int
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Unreadable line; soft-drop and continue.
			skipped++
			continue
		}
		rec := assemble(row, colIx)
		rec.Origin = len(out)
		out = append(out, rec)
	}
	return out, skipped, nil
}

// columnIndex reads the header (when present) and returns, per canonical
// column in schema.RawColumns order, the source column index or -1.
func (p *Parser) columnIndex(cr *csv.Reader) ([]int, error) {
	colIx := make([]int, len(schema.RawColumns))
	if !p.opt.HasHeader {
		for i := range colIx {
			colIx[i] = i
		}
		return colIx, nil
	}

	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	hdr = StripHeaderBOM(hdr)

	pos := make(map[string]int, len(hdr))
	for i, raw := range hdr {
		name := strings.TrimSpace(raw)
		if mapped, ok := p.opt.HeaderMap[name]; ok && mapped != "" {
			name = mapped
		}
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	var missing []string
	for i, name := range schema.RawColumns {
		ix, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			colIx[i] = -1
			continue
		}
		colIx[i] = ix
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %v", ErrSchema, missing)
	}
	return colIx, nil
}

// assemble copies row cells into a RawRecord following the canonical column
// order. Cells beyond the row's width read as "".
func assemble(row []string, colIx []int) schema.RawRecord {
	cell := func(i int) string {
		ix := colIx[i]
		if ix < 0 || ix >= len(row) {
			return ""
		}
		return row[ix]
	}
	return schema.RawRecord{
		OrderID:       cell(0),
		OrderDate:     cell(1),
		CustomerName:  cell(2),
		Country:       cell(3),
		ProductID:     cell(4),
		ProductName:   cell(5),
		Category:      cell(6),
		Quantity:      cell(7),
		UnitPrice:     cell(8),
		DiscountCode:  cell(9),
		SalesRep:      cell(10),
		PaymentMethod: cell(11),
		OrderSource:   cell(12),
		Email:         cell(13),
	}
}
