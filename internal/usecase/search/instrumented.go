package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
	"github.com/kailas-cloud/govrecords/internal/metrics"
)

// InstrumentedFetcher wraps a Fetcher with fetch metrics and logging.
type InstrumentedFetcher struct {
	inner   Fetcher
	backend string
	logger  *zap.Logger
}

// NewInstrumentedFetcher wraps inner. backend labels the metrics.
func NewInstrumentedFetcher(inner Fetcher, backend string, logger *zap.Logger) *InstrumentedFetcher {
	return &InstrumentedFetcher{inner: inner, backend: backend, logger: logger}
}

// Fetch delegates to the inner fetcher and records the outcome.
func (f *InstrumentedFetcher) Fetch(ctx context.Context, req request.Request) (result.Raw, error) {
	start := time.Now()
	raw, err := f.inner.Fetch(ctx, req)
	duration := time.Since(start)

	metrics.SearchFetchDuration.WithLabelValues(f.backend).Observe(duration.Seconds())

	if err != nil {
		metrics.SearchFetchTotal.WithLabelValues(f.backend, "error").Inc()
		f.logger.Warn("Index fetch failed",
			zap.String("backend", f.backend),
			zap.Stringer("request", req),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return result.Raw{}, fmt.Errorf("fetch: %w", err)
	}

	metrics.SearchFetchTotal.WithLabelValues(f.backend, string(result.StatusFor(raw))).Inc()
	f.logger.Debug("Index fetch completed",
		zap.String("backend", f.backend),
		zap.Stringer("request", req),
		zap.Duration("duration", duration),
		zap.Int("hits", len(raw.Hits)),
		zap.Int("estimated_total_hits", raw.EstimatedTotalHits),
	)
	return raw, nil
}
