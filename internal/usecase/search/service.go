package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/govrecords/internal/domain"
	"github.com/kailas-cloud/govrecords/internal/domain/award"
	"github.com/kailas-cloud/govrecords/internal/domain/search/facet"
	"github.com/kailas-cloud/govrecords/internal/domain/search/query"
	"github.com/kailas-cloud/govrecords/internal/domain/search/reconcile"
	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
	"github.com/kailas-cloud/govrecords/internal/domain/search/state"
	"github.com/kailas-cloud/govrecords/internal/metrics"
)

// Input is the user-controlled part of a search.
type Input = state.Input

// Options bounds the fetch window.
type Options struct {
	// DefaultLimit is the window for ordinary searches.
	DefaultLimit int
	// BrowseLimit is the window when an empty search lists everything.
	BrowseLimit int
}

// Outcome is the result of one search cycle. Fetch failures never escape as
// errors; they surface as StatusFailed with Diagnostics still populated.
type Outcome struct {
	Page               result.Page
	Status             result.Status
	EstimatedTotalHits int
	ProcessingTimeMs   int
	Diagnostics        result.Diagnostics
	// List is the full reconciled list, before pagination.
	List []award.Award
}

// Service composes requests from user input and reconciles fetched hits.
type Service struct {
	fetcher Fetcher
	opts    Options
	logger  *zap.Logger
}

// New creates a search service. Zero limits fall back to the request package defaults.
func New(fetcher Fetcher, opts Options, logger *zap.Logger) *Service {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = request.DefaultLimit
	}
	if opts.BrowseLimit <= 0 {
		opts.BrowseLimit = request.BrowseLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{fetcher: fetcher, opts: opts, logger: logger}
}

// Prepare parses, builds and composes the request for in. suppressed is true
// when nothing is being searched and in does not ask to browse everything;
// the caller must then skip the fetch.
func (s *Service) Prepare(in Input) (req request.Request, suppressed bool) {
	parsed := query.Parse(in.Query, in.Strict)
	terms := facet.Build(in.Facets, in.Category)
	req = request.Compose(parsed, terms, in.SortMode)

	limit := s.opts.DefaultLimit
	if in.BrowseAll && req.IsEmpty() {
		limit = s.opts.BrowseLimit
	}
	req = req.WithLimit(limit)

	return req, req.IsEmpty() && !in.BrowseAll
}

// Fetch runs req against the index. Errors wrap domain.ErrFetchFailed.
func (s *Service) Fetch(ctx context.Context, req request.Request) (result.Raw, error) {
	raw, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrFetchFailed) {
			return result.Raw{}, err
		}
		return result.Raw{}, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	return raw, nil
}

// Search runs one full cycle: prepare, fetch, reconcile.
func (s *Service) Search(ctx context.Context, in Input) Outcome {
	req, suppressed := s.Prepare(in)
	desc := req.Describe()

	if suppressed {
		metrics.SearchSuppressedTotal.Inc()
		return s.outcome(in, nil, result.StatusSuppressed, result.Raw{}, result.Diagnostics{Request: desc})
	}

	raw, err := s.Fetch(ctx, req)
	if err != nil {
		s.logger.Warn("Search failed",
			zap.String("query", desc.Query),
			zap.String("filter", desc.Filter),
			zap.Strings("sort", desc.Sort),
			zap.Error(err),
		)
		return s.outcome(in, nil, result.StatusFailed, result.Raw{},
			result.Diagnostics{Request: desc, Error: err.Error()})
	}

	return s.outcome(in, raw.Hits, result.StatusFor(raw), raw, result.Diagnostics{Request: desc})
}

func (s *Service) outcome(
	in Input, hits []award.Award, status result.Status, raw result.Raw, diag result.Diagnostics,
) Outcome {
	list := reconcile.List(hits, in.Dedupe, in.TableSort)
	items, totalPages := reconcile.Paginate(list, in.Page, in.PageSize)
	return Outcome{
		Page: result.Page{
			Items:      items,
			Page:       in.Page,
			PageSize:   in.PageSize,
			TotalPages: totalPages,
			TotalItems: len(list),
		},
		Status:             status,
		EstimatedTotalHits: raw.EstimatedTotalHits,
		ProcessingTimeMs:   raw.ProcessingTimeMs,
		Diagnostics:        diag,
		List:               list,
	}
}
