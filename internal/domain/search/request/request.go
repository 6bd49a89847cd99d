// Package request composes parser output, facet fragments and a sort mode
// into the query sent to the remote index.
package request

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/govrecords/internal/domain/search/filter"
	"github.com/kailas-cloud/govrecords/internal/domain/search/query"
	"github.com/kailas-cloud/govrecords/internal/domain/search/sortmode"
)

// Fetch window limits. There is no server-side pagination in the default
// path: a bounded window is fetched and paginated client-side.
const (
	// MaxQueryLength is the maximum accepted raw query length.
	MaxQueryLength = 4096
	DefaultLimit   = 1000
	BrowseLimit    = 10000
	MaxLimit       = 10000
)

// Request is a composed index query. It is a value: With* methods return copies.
type Request struct {
	query  string
	filter filter.Expression
	sort   []string
	limit  int
	offset int
}

// Compose merges a parsed query with facet terms and a sort mode. Facet terms
// come first in their builder order; the parser's directive clauses are
// appended last. Compose is pure.
func Compose(parsed query.Parsed, facets []filter.Term, m sortmode.Mode) Request {
	expr := filter.And(facets...).Append(parsed.Filter().Terms()...)
	return Request{
		query:  parsed.FreeText,
		filter: expr,
		sort:   m.Directive(),
		limit:  DefaultLimit,
	}
}

// WithLimit returns a copy with the fetch window size set. Non-positive values
// select DefaultLimit; values above MaxLimit are clamped.
func (r Request) WithLimit(limit int) Request {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	r.limit = limit
	return r
}

// WithOffset returns a copy with the fetch window offset set.
func (r Request) WithOffset(offset int) Request {
	if offset < 0 {
		offset = 0
	}
	r.offset = offset
	return r
}

// Query returns the free text, possibly empty.
func (r Request) Query() string { return r.query }

// Filter returns the structured filter.
func (r Request) Filter() filter.Expression { return r.filter }

// FilterString returns the wire filter; ok is false when no filter applies.
func (r Request) FilterString() (string, bool) { return r.filter.Render() }

// Sort returns the sort directives; nil means relevance.
func (r Request) Sort() []string { return slices.Clone(r.sort) }

// Limit returns the fetch window size.
func (r Request) Limit() int { return r.limit }

// Offset returns the fetch window offset.
func (r Request) Offset() int { return r.offset }

// IsEmpty reports the "no search active" state: no free text and no filter.
func (r Request) IsEmpty() bool {
	return strings.TrimSpace(r.query) == "" && r.filter.IsEmpty()
}

// Description is the diagnostic view of a composed request.
type Description struct {
	Query  string   `json:"query"`
	Filter string   `json:"filter,omitempty"`
	Sort   []string `json:"sort,omitempty"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset,omitempty"`
}

// Describe returns the diagnostic description.
func (r Request) Describe() Description {
	f, _ := r.FilterString()
	return Description{
		Query:  r.query,
		Filter: f,
		Sort:   r.Sort(),
		Limit:  r.limit,
		Offset: r.offset,
	}
}

// String returns a one-line debug representation.
func (r Request) String() string {
	f, ok := r.FilterString()
	if !ok {
		f = "<none>"
	}
	s := "<relevance>"
	if len(r.sort) > 0 {
		s = strings.Join(r.sort, ",")
	}
	return fmt.Sprintf("q=%q filter=%s sort=%s limit=%d offset=%d", r.query, f, s, r.limit, r.offset)
}
