package chi

import (
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/govrecords/internal/domain"
	"github.com/kailas-cloud/govrecords/internal/domain/search/facet"
	"github.com/kailas-cloud/govrecords/internal/domain/search/reconcile"
	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/domain/search/sortmode"
	searchuc "github.com/kailas-cloud/govrecords/internal/usecase/search"
)

// SearchParams are the query parameters of the search endpoints.
// Facet parameters repeat: ?area=Cebu&area=Davao.
type SearchParams struct {
	Q            *string
	Strict       *bool
	Area         []string
	Awardee      []string
	Organization []string
	Category     *string
	Sort         *string
	TableSort    *string
	TableDir     *string
	Page         *int
	PageSize     *int
	Dedupe       *bool
	Browse       *bool
}

// bindSearchParams decodes the query string with form/explode style.
func bindSearchParams(r *http.Request) (SearchParams, error) {
	var p SearchParams
	q := r.URL.Query()
	binds := []struct {
		name string
		dest any
	}{
		{"q", &p.Q},
		{"strict", &p.Strict},
		{"area", &p.Area},
		{"awardee", &p.Awardee},
		{"organization", &p.Organization},
		{"category", &p.Category},
		{"sort", &p.Sort},
		{"table_sort", &p.TableSort},
		{"table_dir", &p.TableDir},
		{"page", &p.Page},
		{"page_size", &p.PageSize},
		{"dedupe", &p.Dedupe},
		{"browse", &p.Browse},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return SearchParams{}, fmt.Errorf("invalid format for parameter %s: %w", b.name, domain.ErrInvalidRequest)
		}
	}
	return p, nil
}

// input validates p and fills unset values from the server defaults.
// Out-of-range pages are passed through and yield an empty page.
func (s *Server) input(p SearchParams) (searchuc.Input, error) {
	in := searchuc.Input{
		Category:  facet.AllCategories,
		SortMode:  sortmode.Relevance,
		Page:      1,
		PageSize:  s.opts.DefaultPageSize,
		Dedupe:    s.opts.Dedupe,
		BrowseAll: s.opts.BrowseAll,
	}

	if p.Q != nil {
		if len(*p.Q) > request.MaxQueryLength {
			return in, fmt.Errorf("q exceeds %d bytes: %w", request.MaxQueryLength, domain.ErrInvalidRequest)
		}
		in.Query = *p.Q
	}
	if p.Strict != nil {
		in.Strict = *p.Strict
	}

	sel := facet.Selection{}
	sel = sel.With(facet.Area, p.Area...)
	sel = sel.With(facet.Awardee, p.Awardee...)
	sel = sel.With(facet.Organization, p.Organization...)
	in.Facets = sel

	if p.Category != nil && *p.Category != "" {
		in.Category = *p.Category
	}
	if p.Sort != nil {
		m, err := sortmode.Parse(*p.Sort)
		if err != nil {
			return in, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
		in.SortMode = m
	}

	if p.TableSort != nil && *p.TableSort != "" {
		if !reconcile.IsSortable(*p.TableSort) {
			return in, fmt.Errorf("table_sort %q is not a sortable column: %w", *p.TableSort, domain.ErrInvalidRequest)
		}
		dir := ""
		if p.TableDir != nil {
			dir = *p.TableDir
		}
		d, err := reconcile.ParseDirection(dir)
		if err != nil {
			return in, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
		in.TableSort = &reconcile.TableSort{Field: *p.TableSort, Direction: d}
	}

	if p.Page != nil {
		in.Page = *p.Page
	}
	if p.PageSize != nil && *p.PageSize > 0 {
		in.PageSize = min(*p.PageSize, s.opts.MaxPageSize)
	}
	if p.Dedupe != nil {
		in.Dedupe = *p.Dedupe
	}
	if p.Browse != nil {
		in.BrowseAll = *p.Browse
	}
	return in, nil
}
