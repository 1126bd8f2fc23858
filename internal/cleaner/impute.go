package cleaner

import "txclean/internal/schema"

// Aggregates holds the immutable lookup tables the imputation engine needs.
// They are computed in one pass over the post-normalization kept set, before
// any record is imputed, so donor pools contain only original values:
// imputed quantities never feed the mean, imputed prices never enter the
// per-group maxima. The tables are read-only afterwards, which keeps the
// apply pass reproducible and safe to parallelize.
type Aggregates struct {
	// MeanQuantity is the arithmetic mean of all strictly positive
	// quantities in the kept set; 0 when no positive quantity exists.
	MeanQuantity float64

	maxPrice map[priceKey]float64
}

type priceKey struct {
	product  string
	category string
}

// BuildAggregates runs the aggregate pass over the kept set.
func BuildAggregates(kept []schema.CleanRecord) Aggregates {
	var (
		sum   float64
		count int
		maxes = make(map[priceKey]float64)
	)
	for _, rec := range kept {
		if rec.Quantity > 0 {
			sum += rec.Quantity
			count++
		}
		if rec.UnitPrice > 0 {
			key := priceKey{rec.ProductName, rec.Category}
			if rec.UnitPrice > maxes[key] {
				maxes[key] = rec.UnitPrice
			}
		}
	}
	agg := Aggregates{maxPrice: maxes}
	if count > 0 {
		agg.MeanQuantity = sum / float64(count)
	}
	return agg
}

// PriceDonor returns the maximum strictly positive unit price among kept
// records sharing the (productName, category) pair, if any exists.
func (a Aggregates) PriceDonor(product, category string) (float64, bool) {
	v, ok := a.maxPrice[priceKey{product, category}]
	return v, ok
}

// Impute fills a record's quantity/price gaps from the precomputed tables.
// A record whose price gap has no donor, or whose quantity gap cannot be
// filled because the kept set has no positive quantity at all, is rejected
// rather than passed through at zero, preserving the strictly-positive
// output invariant.
func (a Aggregates) Impute(rec schema.CleanRecord) (schema.CleanRecord, Reason, bool) {
	if rec.Quantity == 0 {
		if a.MeanQuantity <= 0 {
			return schema.CleanRecord{}, ReasonQuantityGap, false
		}
		rec.Quantity = a.MeanQuantity
	}
	if rec.UnitPrice == 0 {
		donor, ok := a.PriceDonor(rec.ProductName, rec.Category)
		if !ok {
			return schema.CleanRecord{}, ReasonPriceGap, false
		}
		rec.UnitPrice = donor
	}
	return rec, "", true
}
