package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/govrecords/internal/db"
	"github.com/kailas-cloud/govrecords/internal/db/meili"
	"github.com/kailas-cloud/govrecords/internal/domain/search/filter"
	"github.com/kailas-cloud/govrecords/internal/domain/search/query"
	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/domain/search/sortmode"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchListFn func(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	calls        int
}

func (m *mockStore) SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	m.calls++
	if m.searchListFn != nil {
		return m.searchListFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

// mockMeili implements meiliSearcher for tests.
type mockMeili struct {
	searchFn func(ctx context.Context, uid string, req *meili.SearchRequest) (*meili.SearchResponse, error)
}

func (m *mockMeili) Search(ctx context.Context, uid string, req *meili.SearchRequest) (*meili.SearchResponse, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, uid, req)
	}
	return &meili.SearchResponse{}, nil
}

func composeRequest(t *testing.T, raw string, strict bool, mode sortmode.Mode, facets ...filter.Term) request.Request {
	t.Helper()
	return request.Compose(query.Parse(raw, strict), facets, mode)
}
