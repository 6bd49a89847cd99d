package govrecords

import "github.com/kailas-cloud/govrecords/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest   = domain.ErrInvalidRequest
	ErrIndexUnavailable = domain.ErrIndexUnavailable
	ErrFetchFailed      = domain.ErrFetchFailed
)
