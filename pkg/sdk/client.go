package govrecords

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/govrecords/internal/app"
	"github.com/kailas-cloud/govrecords/internal/config"
	ingestuc "github.com/kailas-cloud/govrecords/internal/usecase/ingest"
)

// Client is the govrecords SDK entry point. It is safe for concurrent use.
type Client struct {
	app      *app.App
	obs      *observer
	pageSize int
	dedupe   bool
}

// New creates a Client and connects to the configured index. The context
// bounds the Redis readiness check, when Redis is used.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{dedupe: true}
	for _, o := range opts {
		o.apply(cfg)
	}

	appCfg, err := cfg.appConfig()
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, appCfg, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("govrecords: %w", err)
	}

	return &Client{
		app:      a,
		obs:      obs,
		pageSize: appCfg.Search.DefaultPageSize,
		dedupe:   cfg.dedupe,
	}, nil
}

// appConfig maps options onto the service configuration.
func (c *clientConfig) appConfig() (config.Config, error) {
	var cfg config.Config
	switch c.backend {
	case config.BackendMeilisearch:
		if c.meiliHost == "" {
			return cfg, errors.New("govrecords: meilisearch host required")
		}
	case config.BackendRedis:
		if len(c.redisAddrs) == 0 {
			return cfg, errors.New("govrecords: redis address required")
		}
	default:
		return cfg, errors.New("govrecords: no index configured (use WithMeilisearch or WithRedis)")
	}
	if c.cacheTTL > 0 && len(c.redisAddrs) == 0 {
		return cfg, errors.New("govrecords: result cache needs a redis address (use WithCacheRedis)")
	}

	cfg.Index.Backend = c.backend
	cfg.Index.Meilisearch.Host = c.meiliHost
	cfg.Index.Meilisearch.APIKey = c.meiliKey
	cfg.Index.Meilisearch.IndexUID = c.indexUID
	cfg.Index.Redis.Name = c.redisIndex
	cfg.Index.Redis.KeyPrefix = c.redisPrefix
	cfg.Database.Addrs = c.redisAddrs
	cfg.Database.Password = c.redisPass
	if c.cacheTTL > 0 {
		cfg.Cache.Enabled = true
		cfg.Cache.TTLSec = max(1, int(c.cacheTTL/time.Second))
	}
	cfg.Search.DefaultPageSize = c.pageSize
	cfg.ApplyDefaults()
	return cfg, nil
}

// Close releases all resources.
func (c *Client) Close() {
	c.app.Close()
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component -> "ok"/"error"
}

// Health checks the index and, when enabled, the result cache.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.app.Health.Check(ctx)
	c.obs.observe("health", string(report.Status), start, nil)

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// EnsureIndex creates the index if needed and applies its settings.
func (c *Client) EnsureIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ensure_index", "", start, err) }()

	if err = c.app.Ingest.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// DropIndex deletes the index and all its documents.
func (c *Client) DropIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("drop_index", "", start, err) }()

	if err = c.app.Ingest.DropIndex(ctx); err != nil {
		return fmt.Errorf("drop index: %w", err)
	}
	return nil
}

// ImportReport summarizes one CSV import.
type ImportReport = ingestuc.Report

// Import loads a CSV whose header names index fields. Failed batches are
// counted in the report and do not stop the import.
func (c *Client) Import(ctx context.Context, r io.Reader) (rep ImportReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("import", "", start, err, "rows", rep.Rows, "failed", rep.Failed) }()

	rep, err = c.app.Ingest.ImportCSV(ctx, r)
	if err != nil {
		return rep, fmt.Errorf("import: %w", err)
	}
	return rep, nil
}
