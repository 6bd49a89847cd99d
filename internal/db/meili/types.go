package meili

// SearchRequest holds the search parameters govrecords sends.
type SearchRequest struct {
	Q                    string
	Filter               string
	Sort                 []string
	Limit                int
	Offset               int
	AttributesToRetrieve []string
}

// SearchResponse is the decoded search result. Hits keep Meilisearch's
// loose typing; numeric attributes arrive as float64.
type SearchResponse struct {
	Hits               []map[string]any `json:"hits"`
	EstimatedTotalHits int              `json:"estimatedTotalHits"`
	ProcessingTimeMs   int              `json:"processingTimeMs"`
	Query              string           `json:"query"`
	Limit              int              `json:"limit"`
	Offset             int              `json:"offset"`
}

// Settings is the subset of index settings govrecords manages.
type Settings struct {
	FilterableAttributes []string `json:"filterableAttributes,omitempty"`
	SortableAttributes   []string `json:"sortableAttributes,omitempty"`
	SearchableAttributes []string `json:"searchableAttributes,omitempty"`
	SeparatorTokens      []string `json:"separatorTokens,omitempty"`
	NonSeparatorTokens   []string `json:"nonSeparatorTokens,omitempty"`
}

// TaskStatus is the lifecycle state of an asynchronous task.
type TaskStatus string

// Task statuses.
const (
	TaskEnqueued   TaskStatus = "enqueued"
	TaskProcessing TaskStatus = "processing"
	TaskSucceeded  TaskStatus = "succeeded"
	TaskFailed     TaskStatus = "failed"
	TaskCanceled   TaskStatus = "canceled"
)

// Task is an enqueued (summarized) or polled task.
type Task struct {
	TaskUID  int64      `json:"taskUid"`
	UID      int64      `json:"uid"`
	IndexUID string     `json:"indexUid"`
	Status   TaskStatus `json:"status"`
	Type     string     `json:"type"`
	Error    *APIError  `json:"error,omitempty"`
}

// ID returns the task id from either the summarized or the full form.
func (t *Task) ID() int64 {
	if t.TaskUID != 0 {
		return t.TaskUID
	}
	return t.UID
}
