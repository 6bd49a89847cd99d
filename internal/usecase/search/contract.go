package search

import (
	"context"

	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
)

// Fetcher issues a composed request to the remote index and returns a
// bounded window of hits.
type Fetcher interface {
	Fetch(ctx context.Context, req request.Request) (result.Raw, error)
}
