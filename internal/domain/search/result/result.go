// Package result holds raw index responses and the reconciled page shown to callers.
package result

import (
	"github.com/kailas-cloud/govrecords/internal/domain/award"
	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
)

// Raw is a bounded hit window returned by the index.
type Raw struct {
	Hits               []award.Award `json:"hits"`
	EstimatedTotalHits int           `json:"estimatedTotalHits"`
	ProcessingTimeMs   int           `json:"processingTimeMs"`
}

// Page is one page of a reconciled result set.
type Page struct {
	Items      []award.Award `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
	TotalItems int           `json:"total_items"`
}

// Status distinguishes why a result set looks the way it does.
type Status string

// Status values.
const (
	// StatusOK means the fetch succeeded with at least one hit.
	StatusOK Status = "ok"
	// StatusEmpty means the fetch succeeded with zero hits.
	StatusEmpty Status = "empty"
	// StatusFailed means the fetch failed; the page is empty.
	StatusFailed Status = "failed"
	// StatusSuppressed means no search was active and no fetch was issued.
	StatusSuppressed Status = "suppressed"
	// StatusLoading means a fetch is in flight.
	StatusLoading Status = "loading"
	// StatusIdle means nothing has been requested yet.
	StatusIdle Status = "idle"
)

// Diagnostics keeps the last composed query visible even after a failure.
type Diagnostics struct {
	Request request.Description `json:"request"`
	Error   string              `json:"error,omitempty"`
}

// StatusFor classifies a successful fetch.
func StatusFor(raw Raw) Status {
	if len(raw.Hits) == 0 {
		return StatusEmpty
	}
	return StatusOK
}
