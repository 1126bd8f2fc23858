package cleaner

import (
	"strings"

	"github.com/zeebo/xxh3"

	"txclean/internal/schema"
)

// IdentityResolver enforces the single-record-per-orderId invariant and
// filters structurally invalid identifiers.
//
// An orderId is valid when, after trimming, it is non-blank, not a member of
// the configured sentinel set (case-insensitive), and an all-digit token with
// a positive value. Among records sharing a valid ID, the one with the
// lowest origin index wins; later occurrences are rejected as duplicates.
// The tie-break is deterministic but order-dependent: ingestion order is part
// of the contract.
type IdentityResolver struct {
	sentinels map[string]struct{}
}

// NewIdentityResolver builds a resolver from the configured sentinel values.
func NewIdentityResolver(sentinels []string) *IdentityResolver {
	set := make(map[string]struct{}, len(sentinels))
	for _, s := range sentinels {
		set[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	return &IdentityResolver{sentinels: set}
}

// Valid reports whether id passes the validity predicate.
func (ir *IdentityResolver) Valid(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	if _, bad := ir.sentinels[strings.ToLower(id)]; bad {
		return false
	}
	positive := false
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c < '0' || c > '9' {
			return false
		}
		if c != '0' {
			positive = true
		}
	}
	return positive
}

// Resolve partitions the input into kept records (one per distinct valid
// orderId, first occurrence wins, input order preserved) and rejections.
func (ir *IdentityResolver) Resolve(in []schema.RawRecord) ([]schema.RawRecord, []Rejection) {
	kept := make([]schema.RawRecord, 0, len(in))
	var rejected []Rejection

	// Dedup keys are hashes of the trimmed ID. IDs are digit tokens, so no
	// case folding is needed beyond trimming.
	seen := make(map[uint64]struct{}, len(in))

	for _, rec := range in {
		if !ir.Valid(rec.OrderID) {
			rejected = append(rejected, Rejection{Origin: rec.Origin, Stage: StageIdentity, Reason: ReasonInvalidID})
			continue
		}
		key := xxh3.HashString(strings.TrimSpace(rec.OrderID))
		if _, dup := seen[key]; dup {
			rejected = append(rejected, Rejection{Origin: rec.Origin, Stage: StageIdentity, Reason: ReasonDuplicateID})
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, rec)
	}
	return kept, rejected
}
