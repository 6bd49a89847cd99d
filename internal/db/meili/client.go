// Package meili adapts the official Meilisearch client to the calls
// govrecords makes: search, document upload, index lifecycle and settings.
package meili

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"golang.org/x/time/rate"
)

// Config holds connection parameters for a Meilisearch server.
type Config struct {
	Host    string // e.g. http://localhost:7700
	APIKey  string
	Timeout time.Duration
	// RateLimit caps outbound requests per second; 0 disables throttling.
	RateLimit float64
	Burst     int
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client talks to one Meilisearch server.
type Client struct {
	sm      meilisearch.ServiceManager
	limiter *rate.Limiter
}

// NewClient validates cfg and creates a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("host is required")
	}
	host := strings.TrimRight(cfg.Host, "/")
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse host: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("host %q must be http or https", cfg.Host)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	opts := []meilisearch.Option{meilisearch.WithCustomClient(hc)}
	if cfg.APIKey != "" {
		opts = append(opts, meilisearch.WithAPIKey(cfg.APIKey))
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{sm: meilisearch.New(host, opts...), limiter: limiter}, nil
}

// Search runs a query against index uid.
func (c *Client) Search(ctx context.Context, uid string, req *SearchRequest) (*SearchResponse, error) {
	const op = "search"
	if err := c.wait(ctx, op, uid); err != nil {
		return nil, err
	}

	sr := &meilisearch.SearchRequest{
		Limit:                int64(req.Limit),
		Offset:               int64(req.Offset),
		Sort:                 req.Sort,
		AttributesToRetrieve: req.AttributesToRetrieve,
	}
	if req.Filter != "" {
		sr.Filter = req.Filter
	}

	res, err := c.sm.Index(uid).SearchWithContext(ctx, req.Q, sr)
	if err != nil {
		return nil, &Error{Op: op, Index: uid, Err: err}
	}

	// Hits are re-decoded so callers see plain maps whatever the client's
	// hit representation is.
	raw, err := json.Marshal(res.Hits)
	if err != nil {
		return nil, &Error{Op: op, Index: uid, Err: fmt.Errorf("encode hits: %w", err)}
	}
	out := &SearchResponse{
		EstimatedTotalHits: int(res.EstimatedTotalHits),
		ProcessingTimeMs:   int(res.ProcessingTimeMs),
		Query:              req.Q,
		Limit:              req.Limit,
		Offset:             req.Offset,
	}
	if err := json.Unmarshal(raw, &out.Hits); err != nil {
		return nil, &Error{Op: op, Index: uid, Err: fmt.Errorf("decode hits: %w", err)}
	}
	return out, nil
}

// AddDocuments enqueues an upsert of docs into index uid.
func (c *Client) AddDocuments(ctx context.Context, uid, primaryKey string, docs any) (*Task, error) {
	const op = "add documents"
	if err := c.wait(ctx, op, uid); err != nil {
		return nil, err
	}
	var pk []string
	if primaryKey != "" {
		pk = append(pk, primaryKey)
	}
	info, err := c.sm.Index(uid).AddDocumentsWithContext(ctx, docs, pk...)
	if err != nil {
		return nil, &Error{Op: op, Index: uid, Err: err}
	}
	return fromTaskInfo(info), nil
}

// CreateIndex enqueues creation of index uid.
func (c *Client) CreateIndex(ctx context.Context, uid, primaryKey string) (*Task, error) {
	const op = "create index"
	if err := c.wait(ctx, op, uid); err != nil {
		return nil, err
	}
	info, err := c.sm.CreateIndexWithContext(ctx, &meilisearch.IndexConfig{Uid: uid, PrimaryKey: primaryKey})
	if err != nil {
		return nil, &Error{Op: op, Index: uid, Err: err}
	}
	return fromTaskInfo(info), nil
}

// DeleteIndex enqueues deletion of index uid and all its documents.
func (c *Client) DeleteIndex(ctx context.Context, uid string) (*Task, error) {
	const op = "delete index"
	if err := c.wait(ctx, op, uid); err != nil {
		return nil, err
	}
	info, err := c.sm.DeleteIndexWithContext(ctx, uid)
	if err != nil {
		return nil, &Error{Op: op, Index: uid, Err: err}
	}
	return fromTaskInfo(info), nil
}

// UpdateSettings enqueues a partial settings update on index uid.
func (c *Client) UpdateSettings(ctx context.Context, uid string, s *Settings) (*Task, error) {
	const op = "update settings"
	if err := c.wait(ctx, op, uid); err != nil {
		return nil, err
	}
	info, err := c.sm.Index(uid).UpdateSettingsWithContext(ctx, &meilisearch.Settings{
		FilterableAttributes: s.FilterableAttributes,
		SortableAttributes:   s.SortableAttributes,
		SearchableAttributes: s.SearchableAttributes,
		SeparatorTokens:      s.SeparatorTokens,
		NonSeparatorTokens:   s.NonSeparatorTokens,
	})
	if err != nil {
		return nil, &Error{Op: op, Index: uid, Err: err}
	}
	return fromTaskInfo(info), nil
}

// GetTask returns the current state of an enqueued task.
func (c *Client) GetTask(ctx context.Context, taskUID int64) (*Task, error) {
	const op = "get task"
	if err := c.wait(ctx, op, ""); err != nil {
		return nil, err
	}
	t, err := c.sm.GetTaskWithContext(ctx, taskUID)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return fromTask(t), nil
}

// WaitForTask polls a task until it leaves the queue. A failed task returns
// its error as *APIError.
func (c *Client) WaitForTask(ctx context.Context, taskUID int64, interval time.Duration) (*Task, error) {
	const op = "wait for task"
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	if err := c.wait(ctx, op, ""); err != nil {
		return nil, err
	}
	t, err := c.sm.WaitForTaskWithContext(ctx, taskUID, interval)
	if err != nil {
		return nil, &Error{Op: op, Err: fmt.Errorf("task %d: %w", taskUID, err)}
	}

	task := fromTask(t)
	switch task.Status {
	case TaskFailed, TaskCanceled:
		if task.Error != nil {
			return task, task.Error
		}
		return task, fmt.Errorf("task %d %s", taskUID, task.Status)
	}
	return task, nil
}

// Health reports whether the server is available.
func (c *Client) Health(ctx context.Context) error {
	const op = "health"
	if err := c.wait(ctx, op, ""); err != nil {
		return err
	}
	h, err := c.sm.HealthWithContext(ctx)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	if h.Status != "available" {
		return fmt.Errorf("meilisearch status %q", h.Status)
	}
	return nil
}

// Ping is Health under the name the health checker expects.
func (c *Client) Ping(ctx context.Context) error { return c.Health(ctx) }

func (c *Client) wait(ctx context.Context, op, uid string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Op: op, Index: uid, Err: err}
	}
	return nil
}

func fromTaskInfo(info *meilisearch.TaskInfo) *Task {
	return &Task{
		TaskUID:  info.TaskUID,
		IndexUID: info.IndexUID,
		Status:   TaskStatus(info.Status),
		Type:     string(info.Type),
	}
}

func fromTask(t *meilisearch.Task) *Task {
	out := &Task{
		UID:      t.UID,
		TaskUID:  t.TaskUID,
		IndexUID: t.IndexUID,
		Status:   TaskStatus(t.Status),
		Type:     string(t.Type),
	}
	if t.Error.Code != "" || t.Error.Message != "" {
		out.Error = &APIError{
			Message: t.Error.Message,
			Code:    t.Error.Code,
			Type:    t.Error.Type,
			Link:    t.Error.Link,
		}
	}
	return out
}
