// Package state models the search screen as an immutable value and a pure
// transition function. Async completions carry the generation they were
// issued under; Reduce drops any completion that is not the latest.
package state

import (
	"github.com/kailas-cloud/govrecords/internal/domain/award"
	"github.com/kailas-cloud/govrecords/internal/domain/search/facet"
	"github.com/kailas-cloud/govrecords/internal/domain/search/reconcile"
	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
	"github.com/kailas-cloud/govrecords/internal/domain/search/sortmode"
)

// DefaultPageSize is used when a state is created without one.
const DefaultPageSize = 20

// Input is everything the user controls.
type Input struct {
	Query     string
	Strict    bool
	Facets    facet.Selection
	Category  string
	SortMode  sortmode.Mode
	TableSort *reconcile.TableSort
	Page      int
	PageSize  int
	Dedupe    bool
	BrowseAll bool
}

// State is the full screen state. Treat it as a value.
type State struct {
	Input            Input
	Status           result.Status
	Hits             []award.Award
	EstimatedTotal   int
	ProcessingTimeMs int
	// LastQuery is the most recently issued request; it survives failures.
	LastQuery *request.Description
	Error     string
	// Seq is the latest issued request generation.
	Seq uint64
}

// New returns an idle state.
func New(pageSize int, dedupe, browseAll bool) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{
		Input: Input{
			Category:  facet.AllCategories,
			SortMode:  sortmode.Relevance,
			Page:      1,
			PageSize:  pageSize,
			Dedupe:    dedupe,
			BrowseAll: browseAll,
		},
		Status: result.StatusIdle,
	}
}

// View reconciles the retained hits for the current page.
func (s State) View() result.Page {
	return reconcile.Reconcile(s.Hits, s.Input.Dedupe, s.Input.TableSort, s.Input.Page, s.Input.PageSize)
}

// Diagnostics returns the retained request description and error.
func (s State) Diagnostics() result.Diagnostics {
	var d result.Diagnostics
	if s.LastQuery != nil {
		d.Request = *s.LastQuery
	}
	d.Error = s.Error
	return d
}

// Action is a state transition.
type Action interface {
	apply(s State) State
	// refetch reports whether the action changes what must be fetched.
	refetch() bool
}

// Reduce applies a to s. It is pure.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

// Refetches reports whether a changes the index query, as opposed to only
// the client-side view (table sort, paging, dedupe).
func Refetches(a Action) bool {
	return a != nil && a.refetch()
}

// withInput applies an input change that invalidates the current page.
func withInput(s State, f func(in *Input)) State {
	f(&s.Input)
	s.Input.Page = 1
	return s
}
