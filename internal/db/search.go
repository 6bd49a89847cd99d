package db

// SortOrder is the direction of an FT.SEARCH SORTBY clause.
type SortOrder string

const (
	// SortAsc sorts ascending.
	SortAsc SortOrder = "ASC"
	// SortDesc sorts descending.
	SortDesc SortOrder = "DESC"
)

// SortBy is an optional FT.SEARCH SORTBY clause. The field must be SORTABLE.
type SortBy struct {
	Field string
	Order SortOrder
}

// ListQuery is the input for a paged FT.SEARCH.
type ListQuery struct {
	IndexName    string
	Query        string // RediSearch query syntax; "*" matches everything
	SortBy       *SortBy
	Offset       int
	Limit        int
	ReturnFields []string // empty returns all hash fields
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
