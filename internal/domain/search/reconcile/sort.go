package reconcile

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/govrecords/internal/domain/award"
)

// Direction is a table sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection validates s; an empty string means Asc.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "", Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	default:
		return "", fmt.Errorf("invalid sort direction: %q", s)
	}
}

// TableSort is a client-side column sort.
type TableSort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// numericFields compare as parsed floats.
var numericFields = map[string]bool{
	award.FieldAmount: true,
}

// SortableFields lists the columns a table sort may name.
var SortableFields = []string{
	award.FieldTitle,
	award.FieldAwardee,
	award.FieldOrganization,
	award.FieldCategory,
	award.FieldArea,
	award.FieldAmount,
	award.FieldDate,
	award.FieldStatus,
	award.FieldContractNo,
	award.FieldReferenceID,
}

// IsSortable reports whether field may be used in a TableSort.
func IsSortable(field string) bool {
	return slices.Contains(SortableFields, field)
}

// Sort returns a stably sorted copy. Numeric fields compare as floats with
// unparsable values as zero; other fields compare case-folded with English
// collation. A nil sort returns the input order unchanged.
func Sort(hits []award.Award, ts *TableSort) []award.Award {
	if ts == nil || len(hits) < 2 {
		return slices.Clone(hits)
	}

	sign := 1
	if ts.Direction == Desc {
		sign = -1
	}

	if numericFields[ts.Field] {
		return sortByKey(hits, (*award.Award).AmountValue, func(x, y float64) int {
			return sign * cmp.Compare(x, y)
		})
	}

	// Caser and Collator are stateful; one per call.
	fold := cases.Fold()
	col := collate.New(language.English)
	return sortByKey(hits,
		func(a *award.Award) string { return fold.String(a.Value(ts.Field)) },
		func(x, y string) int { return sign * col.CompareString(x, y) },
	)
}

// sortByKey computes each key once and sorts stably by it.
func sortByKey[K any](hits []award.Award, key func(*award.Award) K, compare func(x, y K) int) []award.Award {
	type keyed struct {
		idx int
		k   K
	}
	ks := make([]keyed, len(hits))
	for i := range hits {
		ks[i] = keyed{idx: i, k: key(&hits[i])}
	}
	slices.SortStableFunc(ks, func(x, y keyed) int { return compare(x.k, y.k) })

	out := make([]award.Award, len(hits))
	for i, kv := range ks {
		out[i] = hits[kv.idx]
	}
	return out
}
