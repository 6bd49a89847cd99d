package ingest

import (
	"context"

	"github.com/kailas-cloud/govrecords/internal/domain/award"
)

// Indexer owns the remote index and writes documents to it.
type Indexer interface {
	Ensure(ctx context.Context) error
	Drop(ctx context.Context) error
	Upload(ctx context.Context, docs []award.Award) error
}
