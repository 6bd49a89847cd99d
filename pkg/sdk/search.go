package govrecords

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/govrecords/internal/domain/award"
	"github.com/kailas-cloud/govrecords/internal/domain/search/facet"
	"github.com/kailas-cloud/govrecords/internal/domain/search/reconcile"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
	"github.com/kailas-cloud/govrecords/internal/domain/search/sortmode"
	searchuc "github.com/kailas-cloud/govrecords/internal/usecase/search"
)

// Award is one procurement record.
type Award = award.Award

// SortMode is the server-side ordering.
type SortMode = sortmode.Mode

// Sort modes.
const (
	SortRelevance = sortmode.Relevance
	SortDate      = sortmode.Date
	SortAmount    = sortmode.Amount
)

// Result statuses.
const (
	StatusOK         = string(result.StatusOK)
	StatusEmpty      = string(result.StatusEmpty)
	StatusSuppressed = string(result.StatusSuppressed)
)

// Results is one page of a reconciled search.
type Results struct {
	Items      []Award
	Page       int
	PageSize   int
	TotalPages int
	TotalItems int
	// EstimatedTotalHits is the index's estimate, which may exceed TotalItems
	// when the fetch window truncated the list.
	EstimatedTotalHits int
	ProcessingTimeMs   int
	Status             string
	// Query, Filter and Sort are what was sent to the index.
	Query  string
	Filter string
	Sort   []string
}

// QueryBuilder is a fluent builder for one search.
type QueryBuilder struct {
	client *Client
	in     searchuc.Input
	err    error
}

// Query starts a search. q accepts inline directives (awardee:"ABC Corp").
func (c *Client) Query(q string) *QueryBuilder {
	return &QueryBuilder{
		client: c,
		in: searchuc.Input{
			Query:    q,
			Category: facet.AllCategories,
			SortMode: sortmode.Relevance,
			Page:     1,
			PageSize: c.pageSize,
			Dedupe:   c.dedupe,
		},
	}
}

// Strict matches the free text as one exact phrase.
func (b *QueryBuilder) Strict() *QueryBuilder {
	b.in.Strict = true
	return b
}

// Area restricts results to any of the given areas of delivery.
func (b *QueryBuilder) Area(values ...string) *QueryBuilder {
	return b.facet(facet.Area, values)
}

// Awardee restricts results to any of the given awardees.
func (b *QueryBuilder) Awardee(values ...string) *QueryBuilder {
	return b.facet(facet.Awardee, values)
}

// Organization restricts results to any of the given procuring organizations.
func (b *QueryBuilder) Organization(values ...string) *QueryBuilder {
	return b.facet(facet.Organization, values)
}

func (b *QueryBuilder) facet(n facet.Name, values []string) *QueryBuilder {
	b.in.Facets = b.in.Facets.With(n, append(b.in.Facets[n], values...)...)
	return b
}

// Category restricts results to one business category.
func (b *QueryBuilder) Category(c string) *QueryBuilder {
	if c == "" {
		c = facet.AllCategories
	}
	b.in.Category = c
	return b
}

// SortBy sets the server-side ordering.
func (b *QueryBuilder) SortBy(m SortMode) *QueryBuilder {
	if !m.IsValid() {
		b.err = fmt.Errorf("sort mode %q: %w", m, ErrInvalidRequest)
	}
	b.in.SortMode = m
	return b
}

// OrderBy sorts the fetched list by a column before pagination.
func (b *QueryBuilder) OrderBy(field string, desc bool) *QueryBuilder {
	if !reconcile.IsSortable(field) {
		b.err = fmt.Errorf("column %q is not sortable: %w", field, ErrInvalidRequest)
		return b
	}
	dir := reconcile.Asc
	if desc {
		dir = reconcile.Desc
	}
	b.in.TableSort = &reconcile.TableSort{Field: field, Direction: dir}
	return b
}

// Page selects a 1-based page.
func (b *QueryBuilder) Page(n int) *QueryBuilder {
	b.in.Page = n
	return b
}

// PageSize sets the page size.
func (b *QueryBuilder) PageSize(n int) *QueryBuilder {
	if n > 0 {
		b.in.PageSize = n
	}
	return b
}

// Dedupe overrides the client's de-duplication default.
func (b *QueryBuilder) Dedupe(on bool) *QueryBuilder {
	b.in.Dedupe = on
	return b
}

// BrowseAll lists everything when nothing is searched, instead of
// returning StatusSuppressed.
func (b *QueryBuilder) BrowseAll() *QueryBuilder {
	b.in.BrowseAll = true
	return b
}

// Do runs the search. A failed fetch returns an error wrapping ErrFetchFailed.
func (b *QueryBuilder) Do(ctx context.Context) (res Results, err error) {
	start := time.Now()
	defer func() { b.client.obs.observe("search", res.Status, start, err, "query", b.in.Query) }()

	if b.err != nil {
		return Results{}, b.err
	}

	out := b.client.app.Search.Search(ctx, b.in)
	if out.Status == result.StatusFailed {
		cause := strings.TrimPrefix(out.Diagnostics.Error, ErrFetchFailed.Error()+": ")
		return Results{}, fmt.Errorf("search: %w: %s", ErrFetchFailed, cause)
	}

	req := out.Diagnostics.Request
	return Results{
		Items:              out.Page.Items,
		Page:               out.Page.Page,
		PageSize:           out.Page.PageSize,
		TotalPages:         out.Page.TotalPages,
		TotalItems:         out.Page.TotalItems,
		EstimatedTotalHits: out.EstimatedTotalHits,
		ProcessingTimeMs:   out.ProcessingTimeMs,
		Status:             string(out.Status),
		Query:              req.Query,
		Filter:             req.Filter,
		Sort:               req.Sort,
	}, nil
}
