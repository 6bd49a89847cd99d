package meili

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/meilisearch/meilisearch-go"
)

// Error codes govrecords reacts to.
const (
	CodeIndexAlreadyExists = "index_already_exists"
	CodeIndexNotFound      = "index_not_found"
	CodeInvalidFilter      = "invalid_search_filter"
	CodeInvalidSort        = "invalid_search_sort"
)

// APIError is a Meilisearch error body as reported on a failed task.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Code       string `json:"code"`
	Type       string `json:"type"`
	Link       string `json:"link,omitempty"`
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("meilisearch %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("meilisearch %s: %s", e.Code, e.Message)
}

// Error wraps a failure with the operation and index it happened on.
type Error struct {
	Op    string
	Index string
	Err   error
}

func (e *Error) Error() string {
	if e.Index != "" {
		return e.Op + " " + e.Index + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// IsCode reports whether err carries a Meilisearch error with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	var mErr *meilisearch.Error
	return errors.As(err, &mErr) && mErr.MeilisearchApiError.Code == code
}

// IsUnavailable reports whether err is a transport failure or a 5xx, as
// opposed to a rejected request.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	var mErr *meilisearch.Error
	if errors.As(err, &mErr) && mErr.StatusCode != 0 {
		return mErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
