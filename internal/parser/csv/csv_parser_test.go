package csv

import (
	"errors"
	"strings"
	"testing"

	"txclean/internal/schema"
)

const header = "orderId,orderDate,customerName,country,productId,productName,category,quantity,unitPrice,discountCode,salesRep,paymentMethod,orderSource,email"

func TestParseVerbatim(t *testing.T) {
	in := header + "\n" +
		" 100 ,2024-03-05, jane doe ,usa,P-1,Denim Jacket,Apparel,-5,$49.99,SUMMER10,Ana,card,web,jane@example.com\n"

	p := NewParser(Options{HasHeader: true})
	recs, skipped, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if skipped != 0 || len(recs) != 1 {
		t.Fatalf("got %d records, %d skipped", len(recs), skipped)
	}

	rec := recs[0]
	if rec.Origin != 0 {
		t.Errorf("Origin = %d, want 0", rec.Origin)
	}
	// Values are carried verbatim; no trimming, no sign or currency handling.
	if rec.OrderID != "100 " {
		t.Errorf("OrderID = %q, want %q (leading space eaten by the reader, trailing kept)", rec.OrderID, "100 ")
	}
	if rec.CustomerName != "jane doe " {
		t.Errorf("CustomerName = %q", rec.CustomerName)
	}
	if rec.Quantity != "-5" || rec.UnitPrice != "$49.99" {
		t.Errorf("amounts = %q / %q, want verbatim", rec.Quantity, rec.UnitPrice)
	}
	if rec.Email != "jane@example.com" {
		t.Errorf("Email = %q", rec.Email)
	}
}

func TestParseOriginOrder(t *testing.T) {
	in := header + "\n" +
		"1,2024-03-05,,,,,A,1,1,,,,,\n" +
		"2,2024-03-05,,,,,A,1,1,,,,,\n" +
		"3,2024-03-05,,,,,A,1,1,,,,,\n"

	recs, _, err := NewParser(Options{HasHeader: true}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for i, rec := range recs {
		if rec.Origin != i {
			t.Errorf("record %d has Origin %d", i, rec.Origin)
		}
	}
}

func TestParseHeaderBOM(t *testing.T) {
	in := "\ufeff" + header + "\n" +
		"100,2024-03-05,,,,Denim Jacket,Apparel,1,10,,,,,\n"

	recs, _, err := NewParser(Options{HasHeader: true}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse with BOM: %v", err)
	}
	if len(recs) != 1 || recs[0].OrderID != "100" {
		t.Errorf("got %+v", recs)
	}
}

func TestParseHeaderMap(t *testing.T) {
	in := "Order ID,Order Date,Customer,Country,SKU,Product,Category,Qty,Price,Discount,Rep,Payment,Source,E-mail\n" +
		"100,2024-03-05,,,,Denim Jacket,Apparel,1,10,,,,,\n"

	p := NewParser(Options{
		HasHeader: true,
		HeaderMap: map[string]string{
			"Order ID":   "orderId",
			"Order Date": "orderDate",
			"Customer":   "customerName",
			"Country":    "country",
			"SKU":        "productId",
			"Product":    "productName",
			"Category":   "category",
			"Qty":        "quantity",
			"Price":      "unitPrice",
			"Discount":   "discountCode",
			"Rep":        "salesRep",
			"Payment":    "paymentMethod",
			"Source":     "orderSource",
			"E-mail":     "email",
		},
	})
	recs, _, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(recs) != 1 || recs[0].ProductName != "Denim Jacket" || recs[0].Quantity != "1" {
		t.Errorf("got %+v", recs)
	}
}

func TestParseMissingColumnAborts(t *testing.T) {
	in := "orderId,orderDate\n100,2024-03-05\n"
	_, _, err := NewParser(Options{HasHeader: true}).Parse(strings.NewReader(in))
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
}

func TestParseRaggedRow(t *testing.T) {
	// Row is shorter than the header; missing trailing fields read as "".
	in := header + "\n" +
		"100,2024-03-05,jane,usa,P-1,Denim Jacket,Apparel\n"

	recs, skipped, err := NewParser(Options{HasHeader: true}).Parse(strings.NewReader(in))
	if err != nil || skipped != 0 {
		t.Fatalf("Parse: err=%v skipped=%d", err, skipped)
	}
	rec := recs[0]
	if rec.Category != "Apparel" || rec.Quantity != "" || rec.Email != "" {
		t.Errorf("got %+v, want empty trailing fields", rec)
	}
}

func TestParseNoHeaderPositional(t *testing.T) {
	in := "100,2024-03-05,jane,usa,P-1,Denim Jacket,Apparel,1,10,,,,web,j@x.com\n"
	recs, _, err := NewParser(Options{}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(recs) != 1 || recs[0].OrderSource != "web" || recs[0].Email != "j@x.com" {
		t.Errorf("got %+v", recs)
	}
}

func TestParseSemicolonDelimiter(t *testing.T) {
	in := strings.ReplaceAll(header, ",", ";") + "\n" +
		"100;2024-03-05;;;;Denim Jacket;Apparel;1;10;;;;;\n"

	recs, _, err := NewParser(Options{HasHeader: true, Comma: ';'}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(recs) != 1 || recs[0].ProductName != "Denim Jacket" {
		t.Errorf("got %+v", recs)
	}
}

func TestRawColumnsCovered(t *testing.T) {
	if len(schema.RawColumns) != 14 {
		t.Fatalf("RawColumns has %d entries, assemble expects 14", len(schema.RawColumns))
	}
}
