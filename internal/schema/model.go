// Package schema defines the typed record shapes flowing through the
// cleaning pipeline: the verbatim raw row as ingested and the canonical
// clean row as published.
package schema

// DateLayout is the canonical form every OrderDate is stored in.
const DateLayout = "2006-01-02"

// RawRecord is one ingested row. All values are kept verbatim as strings;
// nothing is trimmed, coerced, or rejected at this stage. Origin is the
// 0-based position of the row in the input and is the tie-breaker for
// duplicate order IDs, so ingestion order must be preserved.
type RawRecord struct {
	Origin int

	OrderID       string
	OrderDate     string
	CustomerName  string
	Country       string
	ProductID     string
	ProductName   string
	Category      string
	Quantity      string
	UnitPrice     string
	DiscountCode  string
	SalesRep      string
	PaymentMethod string
	OrderSource   string
	Email         string
}

// CleanRecord is the canonical output row. Email is dropped. CustomerName is
// a pointer: nil means the source field was blank, which is not an error.
type CleanRecord struct {
	Origin int `db:"-"`

	OrderID       string  `db:"order_id"`
	OrderDate     string  `db:"order_date"`
	CustomerName  *string `db:"customer_name"`
	Country       string  `db:"country"`
	ProductID     string  `db:"product_id"`
	ProductName   string  `db:"product_name"`
	Category      string  `db:"category"`
	Quantity      float64 `db:"quantity"`
	UnitPrice     float64 `db:"unit_price"`
	DiscountCode  string  `db:"discount_code"`
	SalesRep      string  `db:"sales_rep"`
	PaymentMethod string  `db:"payment_method"`
	OrderSource   string  `db:"order_source"`
}

// RawColumns lists the canonical input column names in feed order. The
// parser requires every one of them to be present in the (mapped) header.
var RawColumns = []string{
	"orderId", "orderDate", "customerName", "country",
	"productId", "productName", "category", "quantity", "unitPrice",
	"discountCode", "salesRep", "paymentMethod", "orderSource", "email",
}

// CleanColumns lists the output column names in storage order, matching the
// value order produced by (CleanRecord).Row.
var CleanColumns = []string{
	"order_id", "order_date", "customer_name", "country",
	"product_id", "product_name", "category", "quantity", "unit_price",
	"discount_code", "sales_rep", "payment_method", "order_source",
}

// LedgerColumns lists the rejection-ledger column names in storage order.
var LedgerColumns = []string{"origin_index", "stage", "reason"}

// Row returns the record's values aligned to CleanColumns, ready for a
// bulk-load sink. A nil CustomerName becomes SQL NULL.
func (c CleanRecord) Row() []any {
	var name any
	if c.CustomerName != nil {
		name = *c.CustomerName
	}
	return []any{
		c.OrderID, c.OrderDate, name, c.Country,
		c.ProductID, c.ProductName, c.Category, c.Quantity, c.UnitPrice,
		c.DiscountCode, c.SalesRep, c.PaymentMethod, c.OrderSource,
	}
}
