package state

import (
	"github.com/kailas-cloud/govrecords/internal/domain/search/facet"
	"github.com/kailas-cloud/govrecords/internal/domain/search/reconcile"
	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
	"github.com/kailas-cloud/govrecords/internal/domain/search/sortmode"
)

// --- Query inputs (refetch) ---

// SetQuery replaces the raw query string.
type SetQuery struct{ Text string }

func (a SetQuery) apply(s State) State {
	return withInput(s, func(in *Input) { in.Query = a.Text })
}
func (SetQuery) refetch() bool { return true }

// SetStrict toggles exact-phrase matching.
type SetStrict struct{ On bool }

func (a SetStrict) apply(s State) State {
	return withInput(s, func(in *Input) { in.Strict = a.On })
}
func (SetStrict) refetch() bool { return true }

// ToggleFacet adds or removes one facet value.
type ToggleFacet struct {
	Facet facet.Name
	Value string
}

func (a ToggleFacet) apply(s State) State {
	if !a.Facet.IsValid() {
		return s
	}
	if a.Facet == facet.Category {
		if s.Input.Category == a.Value {
			return SetCategory{}.apply(s)
		}
		return SetCategory{Value: a.Value}.apply(s)
	}
	return withInput(s, func(in *Input) { in.Facets = in.Facets.Toggle(a.Facet, a.Value) })
}
func (ToggleFacet) refetch() bool { return true }

// SetFacet replaces all values of one multi-select facet.
type SetFacet struct {
	Facet  facet.Name
	Values []string
}

func (a SetFacet) apply(s State) State {
	if !a.Facet.IsValid() || a.Facet == facet.Category {
		return s
	}
	return withInput(s, func(in *Input) { in.Facets = in.Facets.With(a.Facet, a.Values...) })
}
func (SetFacet) refetch() bool { return true }

// SetCategory selects the single category; "" or "all" clears it.
type SetCategory struct{ Value string }

func (a SetCategory) apply(s State) State {
	v := a.Value
	if v == "" {
		v = facet.AllCategories
	}
	return withInput(s, func(in *Input) { in.Category = v })
}
func (SetCategory) refetch() bool { return true }

// ClearFilters drops every facet selection and the category.
type ClearFilters struct{}

func (ClearFilters) apply(s State) State {
	return withInput(s, func(in *Input) {
		in.Facets = nil
		in.Category = facet.AllCategories
	})
}
func (ClearFilters) refetch() bool { return true }

// SetSortMode selects the server-side ordering. Invalid modes are ignored.
type SetSortMode struct{ Mode sortmode.Mode }

func (a SetSortMode) apply(s State) State {
	if !a.Mode.IsValid() {
		return s
	}
	return withInput(s, func(in *Input) { in.SortMode = a.Mode })
}
func (SetSortMode) refetch() bool { return true }

// SetBrowseAll controls whether an empty search lists everything.
type SetBrowseAll struct{ On bool }

func (a SetBrowseAll) apply(s State) State {
	return withInput(s, func(in *Input) { in.BrowseAll = a.On })
}
func (SetBrowseAll) refetch() bool { return true }

// --- View inputs (no refetch) ---

// SetTableSort sorts the retained hits by a column.
type SetTableSort struct{ Sort reconcile.TableSort }

func (a SetTableSort) apply(s State) State {
	ts := a.Sort
	s.Input.TableSort = &ts
	s.Input.Page = 1
	return s
}
func (SetTableSort) refetch() bool { return false }

// ClearTableSort restores the fetch order.
type ClearTableSort struct{}

func (ClearTableSort) apply(s State) State {
	s.Input.TableSort = nil
	s.Input.Page = 1
	return s
}
func (ClearTableSort) refetch() bool { return false }

// SetPage moves to a 1-based page. The value is not clamped.
type SetPage struct{ Page int }

func (a SetPage) apply(s State) State {
	s.Input.Page = a.Page
	return s
}
func (SetPage) refetch() bool { return false }

// SetPageSize changes the page size and returns to the first page.
type SetPageSize struct{ Size int }

func (a SetPageSize) apply(s State) State {
	if a.Size <= 0 {
		return s
	}
	s.Input.PageSize = a.Size
	s.Input.Page = 1
	return s
}
func (SetPageSize) refetch() bool { return false }

// SetDedupe toggles heuristic de-duplication.
type SetDedupe struct{ On bool }

func (a SetDedupe) apply(s State) State {
	s.Input.Dedupe = a.On
	s.Input.Page = 1
	return s
}
func (SetDedupe) refetch() bool { return false }

// --- Request lifecycle ---

// SearchStarted records a newly issued request generation.
type SearchStarted struct {
	Seq     uint64
	Request request.Description
}

func (a SearchStarted) apply(s State) State {
	if a.Seq <= s.Seq {
		return s
	}
	req := a.Request
	s.Seq = a.Seq
	s.Status = result.StatusLoading
	s.LastQuery = &req
	s.Error = ""
	return s
}
func (SearchStarted) refetch() bool { return false }

// SearchSucceeded delivers hits for generation Seq.
type SearchSucceeded struct {
	Seq uint64
	Raw result.Raw
}

func (a SearchSucceeded) apply(s State) State {
	if a.Seq != s.Seq {
		return s
	}
	s.Hits = a.Raw.Hits
	s.EstimatedTotal = a.Raw.EstimatedTotalHits
	s.ProcessingTimeMs = a.Raw.ProcessingTimeMs
	s.Status = result.StatusFor(a.Raw)
	s.Error = ""
	return s
}
func (SearchSucceeded) refetch() bool { return false }

// SearchFailed empties the result set for generation Seq and keeps LastQuery.
type SearchFailed struct {
	Seq uint64
	Err string
}

func (a SearchFailed) apply(s State) State {
	if a.Seq != s.Seq {
		return s
	}
	s.Hits = nil
	s.EstimatedTotal = 0
	s.ProcessingTimeMs = 0
	s.Status = result.StatusFailed
	s.Error = a.Err
	return s
}
func (SearchFailed) refetch() bool { return false }

// SearchSuppressed marks generation Seq as "no search active". It
// supersedes any request still in flight.
type SearchSuppressed struct{ Seq uint64 }

func (a SearchSuppressed) apply(s State) State {
	if a.Seq <= s.Seq {
		return s
	}
	s.Seq = a.Seq
	s.Hits = nil
	s.EstimatedTotal = 0
	s.ProcessingTimeMs = 0
	s.Status = result.StatusSuppressed
	s.Error = ""
	return s
}
func (SearchSuppressed) refetch() bool { return false }
