package cleaner

import "sort"

// Stage identifies the pipeline stage that excluded a record.
type Stage string

const (
	StageIdentity  Stage = "identity"
	StageNormalize Stage = "normalize"
	StageImpute    Stage = "impute"
)

// Reason is a rejection reason code. The set is the operator-facing
// vocabulary of the reconciliation ledger.
type Reason string

const (
	ReasonInvalidID       Reason = "invalid_id"
	ReasonDuplicateID     Reason = "duplicate_id"
	ReasonBadDate         Reason = "missing_or_invalid_date"
	ReasonInvalidProduct  Reason = "invalid_product"
	ReasonPriceGap        Reason = "unresolvable_price_gap"
	ReasonQuantityGap     Reason = "unresolvable_quantity_gap"
)

// Rejection is one ledger entry: which input row was excluded, where, and
// why. Together with the clean output it must account for every input row:
// ingested = clean + len(ledger).
type Rejection struct {
	Origin int
	Stage  Stage
	Reason Reason
}

// Row returns the entry's values aligned to schema.LedgerColumns.
func (r Rejection) Row() []any {
	return []any{r.Origin, string(r.Stage), string(r.Reason)}
}

// sortLedger orders entries by origin index so ledger output is stable.
func sortLedger(entries []Rejection) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Origin < entries[j].Origin })
}

// CountByReason tallies ledger entries per reason code for reconciliation.
func CountByReason(entries []Rejection) map[Reason]int {
	out := make(map[Reason]int, len(entries))
	for _, e := range entries {
		out[e.Reason]++
	}
	return out
}
