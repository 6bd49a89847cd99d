// Package reconcile post-processes a raw hit window before display:
// heuristic de-duplication, optional table-column sort, and pagination.
package reconcile

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/kailas-cloud/govrecords/internal/domain/award"
)

const keySeparator = "\x1f"

// DedupeKey builds the composite duplicate key: amount, awardee, title and
// contract number (reference id when the contract number is blank), each
// case-folded. Distinct records sharing all four collapse into one.
func DedupeKey(a *award.Award) string {
	return dedupeKey(cases.Fold(), a)
}

func dedupeKey(fold cases.Caser, a *award.Award) string {
	number := a.ContractNo
	if strings.TrimSpace(number) == "" {
		number = a.ReferenceID
	}
	parts := [...]string{a.Amount, a.Awardee, a.Title, number}
	for i, p := range parts {
		parts[i] = fold.String(strings.TrimSpace(p))
	}
	return strings.Join(parts[:], keySeparator)
}

// Dedupe keeps the first record of each duplicate group, in input order.
// The input slice is not modified.
func Dedupe(hits []award.Award) []award.Award {
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(hits))
	out := make([]award.Award, 0, len(hits))
	for i := range hits {
		k := dedupeKey(fold, &hits[i])
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, hits[i])
	}
	return out
}
