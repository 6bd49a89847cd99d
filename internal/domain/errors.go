package domain

import (
	"errors"
)

var (
	// ErrInvalidRequest signals malformed search or ingest input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrFetchFailed signals that the remote index rejected or could not serve a query.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrIndexUnavailable signals that the remote index is unreachable.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrUnsupportedBackend signals an index backend the build does not know.
	ErrUnsupportedBackend = errors.New("unsupported index backend")
)
