package db

import "errors"

// Sentinel errors for database operations.
var (
	// ErrKeyNotFound is a cache miss on GET.
	ErrKeyNotFound = errors.New("db: key not found")
	// ErrIndexNotFound means the FT index does not exist.
	ErrIndexNotFound = errors.New("db: index not found")
	// ErrIndexExists is returned by FT.CREATE for a name already in use.
	ErrIndexExists = errors.New("db: index already exists")
)

// Op names the Redis command an Error came from.
const (
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpHSet        = "HSET"
	OpGet         = "GET"
	OpSet         = "SET"
	OpPing        = "PING"
)

// Error wraps a driver error with the command and, when there is one, the
// key or index it addressed.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
