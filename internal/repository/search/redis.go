package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/govrecords/internal/db"
	"github.com/kailas-cloud/govrecords/internal/domain"
	"github.com/kailas-cloud/govrecords/internal/domain/award"
	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
	"github.com/kailas-cloud/govrecords/internal/repository/index"
)

// store is the consumer interface for FT.SEARCH (ISP).
type store interface {
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

// RedisFetcher serves composed requests from a RediSearch/valkey-search index.
type RedisFetcher struct {
	store     store
	indexName string
	prefix    string
}

// NewRedisFetcher creates a fetcher over the FT index indexName whose
// documents live under the hash key prefix.
func NewRedisFetcher(s store, indexName, prefix string) *RedisFetcher {
	return &RedisFetcher{store: s, indexName: indexName, prefix: prefix}
}

// Fetch translates req and runs it as one FT.SEARCH.
func (f *RedisFetcher) Fetch(ctx context.Context, req request.Request) (result.Raw, error) {
	t, err := translate(req)
	if err != nil {
		return result.Raw{}, fmt.Errorf("translate %s: %w", req, err)
	}
	if t.unsatisfiable {
		return result.Raw{}, nil
	}

	start := time.Now()
	sr, err := f.store.SearchList(ctx, &db.ListQuery{
		IndexName:    f.indexName,
		Query:        t.query,
		SortBy:       t.sortBy,
		Offset:       req.Offset(),
		Limit:        req.Limit(),
		ReturnFields: award.Fields,
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return result.Raw{}, fmt.Errorf("search %s: %w: %w", f.indexName, domain.ErrIndexUnavailable, err)
		}
		return result.Raw{}, fmt.Errorf("search %s: %w", f.indexName, err)
	}

	raw := result.Raw{
		EstimatedTotalHits: sr.Total,
		ProcessingTimeMs:   int(time.Since(start).Milliseconds()),
	}
	if len(sr.Entries) > 0 {
		raw.Hits = make([]award.Award, 0, len(sr.Entries))
	}
	for _, e := range sr.Entries {
		a := award.FromFields(e.Fields)
		if a.ID == "" {
			a.ID = index.IDFromKey(f.prefix, e.Key)
		}
		raw.Hits = append(raw.Hits, a)
	}
	return raw, nil
}
