// Package search adapts the remote full-text indexes to the search use case.
package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/govrecords/internal/db/meili"
	"github.com/kailas-cloud/govrecords/internal/domain"
	"github.com/kailas-cloud/govrecords/internal/domain/award"
	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
)

// meiliSearcher is the consumer interface for Meilisearch (ISP).
type meiliSearcher interface {
	Search(ctx context.Context, uid string, req *meili.SearchRequest) (*meili.SearchResponse, error)
}

// MeiliFetcher serves composed requests from a Meilisearch index. The
// filter grammar is Meilisearch's own, so the filter string goes out as is.
type MeiliFetcher struct {
	client meiliSearcher
	uid    string
}

// NewMeiliFetcher creates a fetcher over the index uid.
func NewMeiliFetcher(c meiliSearcher, uid string) *MeiliFetcher {
	return &MeiliFetcher{client: c, uid: uid}
}

// Fetch runs one search request.
func (f *MeiliFetcher) Fetch(ctx context.Context, req request.Request) (result.Raw, error) {
	filterStr, _ := req.FilterString()
	resp, err := f.client.Search(ctx, f.uid, &meili.SearchRequest{
		Q:      req.Query(),
		Filter: filterStr,
		Sort:   req.Sort(),
		Limit:  req.Limit(),
		Offset: req.Offset(),
	})
	if err != nil {
		if meili.IsUnavailable(err) || meili.IsCode(err, meili.CodeIndexNotFound) {
			return result.Raw{}, fmt.Errorf("search %s: %w: %w", f.uid, domain.ErrIndexUnavailable, err)
		}
		if meili.IsCode(err, meili.CodeInvalidFilter) || meili.IsCode(err, meili.CodeInvalidSort) {
			return result.Raw{}, fmt.Errorf("search %s: %w: %w", f.uid, domain.ErrInvalidRequest, err)
		}
		return result.Raw{}, fmt.Errorf("search %s: %w", f.uid, err)
	}

	raw := result.Raw{
		EstimatedTotalHits: resp.EstimatedTotalHits,
		ProcessingTimeMs:   resp.ProcessingTimeMs,
	}
	if len(resp.Hits) > 0 {
		raw.Hits = make([]award.Award, 0, len(resp.Hits))
	}
	for _, h := range resp.Hits {
		raw.Hits = append(raw.Hits, hitToAward(h))
	}
	return raw, nil
}

// hitToAward copies known attributes; numbers are rendered without exponent.
func hitToAward(h map[string]any) award.Award {
	var a award.Award
	for k, v := range h {
		a.Set(k, stringify(v))
	}
	return a
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
