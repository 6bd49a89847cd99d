// Package facet builds filter fragments from multi-select facet selections.
package facet

import (
	"slices"

	"github.com/kailas-cloud/govrecords/internal/domain/award"
	"github.com/kailas-cloud/govrecords/internal/domain/search/filter"
)

// Name identifies a facet dimension.
type Name string

// Facet names.
const (
	Area         Name = "area"
	Awardee      Name = "awardee"
	Organization Name = "organization"
	Category     Name = "category"
)

// AllCategories is the category sentinel meaning "no category filter".
const AllCategories = "all"

// multiSelect is the fragment order after category.
var multiSelect = []Name{Area, Awardee, Organization}

// Field returns the index field a facet filters on.
func (n Name) Field() string {
	switch n {
	case Area:
		return award.FieldArea
	case Awardee:
		return award.FieldAwardee
	case Organization:
		return award.FieldOrganization
	case Category:
		return award.FieldCategory
	default:
		return ""
	}
}

// IsValid reports whether n is a known facet.
func (n Name) IsValid() bool { return n.Field() != "" }

// Selection maps a facet to its selected values. Selections are treated as
// values: every mutator returns a copy.
type Selection map[Name][]string

// With returns a copy with the values for n replaced.
func (s Selection) With(n Name, values ...string) Selection {
	out := s.clone()
	if len(values) == 0 {
		delete(out, n)
		return out
	}
	out[n] = dedupeValues(values)
	return out
}

// Toggle returns a copy with value added to n, or removed when already present.
func (s Selection) Toggle(n Name, value string) Selection {
	out := s.clone()
	cur := out[n]
	if i := slices.Index(cur, value); i >= 0 {
		next := slices.Delete(slices.Clone(cur), i, i+1)
		if len(next) == 0 {
			delete(out, n)
		} else {
			out[n] = next
		}
		return out
	}
	out[n] = append(slices.Clone(cur), value)
	return out
}

// Values returns the selected values of n.
func (s Selection) Values(n Name) []string { return s[n] }

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	for _, v := range s {
		if len(v) > 0 {
			return false
		}
	}
	return true
}

func (s Selection) clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = slices.Clone(v)
	}
	return out
}

func dedupeValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// Build converts a selection plus the single-select category into filter
// terms to be AND-ed with the parser's clauses. Order is fixed: category,
// then area, awardee, organization. Multi-select facets with no values emit
// nothing; category values in the selection map are ignored in favour of
// categoryValue.
func Build(sel Selection, categoryValue string) []filter.Term {
	var terms []filter.Term

	if categoryValue != "" && categoryValue != AllCategories {
		terms = append(terms, filter.Clause(filter.Eq(Category.Field(), categoryValue)))
	}

	for _, n := range multiSelect {
		values := sel[n]
		if len(values) == 0 {
			continue
		}
		conds := make([]filter.Condition, len(values))
		for i, v := range values {
			conds[i] = filter.Eq(n.Field(), v)
		}
		terms = append(terms, filter.AnyOf(conds...))
	}

	return terms
}

// Fragments renders Build's terms as wire strings.
func Fragments(sel Selection, categoryValue string) []string {
	terms := Build(sel, categoryValue)
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.String()
	}
	return out
}
