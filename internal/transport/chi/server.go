// Package chi exposes the search service over HTTP.
package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/govrecords/internal/domain/award"
	"github.com/kailas-cloud/govrecords/internal/domain/search/query"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/govrecords/internal/usecase/health"
	searchuc "github.com/kailas-cloud/govrecords/internal/usecase/search"
)

// Searcher runs one search cycle.
type Searcher interface {
	Search(ctx context.Context, in searchuc.Input) searchuc.Outcome
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Options are the presentation defaults applied to unset query parameters.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	Dedupe          bool
	BrowseAll       bool
}

// Server serves the search HTTP API.
type Server struct {
	search        Searcher
	health        HealthChecker
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health HealthChecker, opts Options, logger *zap.Logger) *Server {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = opts.DefaultPageSize
	}
	return &Server{
		search:        search,
		health:        health,
		opts:          opts,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/v1/search", s.Search)
	r.Get("/v1/search/export.csv", s.ExportCSV)
	r.Get("/v1/directives", s.Directives)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

// SearchResponse is the body of GET /v1/search.
type SearchResponse struct {
	Items              []award.Award      `json:"items"`
	Page               int                `json:"page"`
	PageSize           int                `json:"page_size"`
	TotalPages         int                `json:"total_pages"`
	TotalItems         int                `json:"total_items"`
	EstimatedTotalHits int                `json:"estimated_total_hits"`
	ProcessingTimeMs   int                `json:"processing_time_ms"`
	Status             result.Status      `json:"status"`
	Diagnostics        result.Diagnostics `json:"diagnostics"`
}

// Search handles GET /v1/search. Fetch failures are reported in the body
// with status "failed", not as an HTTP error.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	in, ok := s.bind(w, r)
	if !ok {
		return
	}

	out := s.search.Search(r.Context(), in)

	items := out.Page.Items
	if items == nil {
		items = []award.Award{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Items:              items,
		Page:               out.Page.Page,
		PageSize:           out.Page.PageSize,
		TotalPages:         out.Page.TotalPages,
		TotalItems:         out.Page.TotalItems,
		EstimatedTotalHits: out.EstimatedTotalHits,
		ProcessingTimeMs:   out.ProcessingTimeMs,
		Status:             out.Status,
		Diagnostics:        out.Diagnostics,
	})
}

// DirectivesResponse is the body of GET /v1/directives.
type DirectivesResponse struct {
	Items []query.Directive `json:"items"`
}

// Directives handles GET /v1/directives.
func (s *Server) Directives(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, DirectivesResponse{Items: query.Directives})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) bind(w http.ResponseWriter, r *http.Request) (searchuc.Input, bool) {
	params, err := bindSearchParams(r)
	if err != nil {
		s.handleDomainError(w, err)
		return searchuc.Input{}, false
	}
	in, err := s.input(params)
	if err != nil {
		s.handleDomainError(w, err)
		return searchuc.Input{}, false
	}
	return in, true
}
