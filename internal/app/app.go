// Package app assembles the search and ingest services from configuration.
// It is the composition root shared by the API server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/govrecords/internal/config"
	"github.com/kailas-cloud/govrecords/internal/db"
	"github.com/kailas-cloud/govrecords/internal/db/meili"
	dbRedis "github.com/kailas-cloud/govrecords/internal/db/redis"
	"github.com/kailas-cloud/govrecords/internal/domain"
	"github.com/kailas-cloud/govrecords/internal/metrics"
	"github.com/kailas-cloud/govrecords/internal/repository/hitcache"
	"github.com/kailas-cloud/govrecords/internal/repository/index"
	searchrepo "github.com/kailas-cloud/govrecords/internal/repository/search"
	healthuc "github.com/kailas-cloud/govrecords/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/govrecords/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/govrecords/internal/usecase/search"
)

// App holds the wired services. Close releases backend connections.
type App struct {
	Search *searchuc.Service
	Ingest *ingestuc.Service
	Health *healthuc.Service

	cfg   config.Config
	store db.Store
}

// New connects to the configured backends and wires the decorator chain:
// backend fetcher -> result cache (optional) -> instrumentation.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg}

	if cfg.NeedsRedis() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("redis not ready: %w", err)
		}
		a.store = store
		logger.Info("Connected to redis", zap.Strings("addrs", cfg.Database.Addrs))
	}

	var (
		fetcher searchuc.Fetcher
		indexer ingestuc.Indexer
		pinger  healthuc.Pinger
	)
	switch cfg.Index.Backend {
	case config.BackendMeilisearch:
		mc := cfg.Index.Meilisearch
		client, err := meili.NewClient(meili.Config{
			Host:      mc.Host,
			APIKey:    mc.APIKey,
			Timeout:   time.Duration(mc.TimeoutSec) * time.Second,
			RateLimit: mc.RateLimit,
			Burst:     mc.Burst,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create meilisearch client: %w", err)
		}
		fetcher = searchrepo.NewMeiliFetcher(client, mc.IndexUID)
		indexer = index.NewMeili(client, mc.IndexUID).
			WithTaskPoll(time.Duration(mc.TaskPollMs) * time.Millisecond)
		pinger = client
	case config.BackendRedis:
		rc := cfg.Index.Redis
		fetcher = searchrepo.NewRedisFetcher(a.store, rc.Name, rc.KeyPrefix)
		indexer = index.NewRedis(a.store, rc.Name, rc.KeyPrefix)
		pinger = a.store
	default:
		a.Close()
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, cfg.Index.Backend)
	}

	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled {
		fetcher = hitcache.New(fetcher, a.store, cfg.Cache.KeyPrefix,
			time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.ResultCacheTotal, logger)
		cachePinger = a.store
	}
	fetcher = searchuc.NewInstrumentedFetcher(fetcher, cfg.Index.Backend, logger)

	a.Search = searchuc.New(fetcher, searchuc.Options{
		DefaultLimit: cfg.Search.DefaultLimit,
		BrowseLimit:  cfg.Search.BrowseLimit,
	}, logger)
	a.Ingest = ingestuc.New(indexer, ingestuc.Options{
		BatchSize: cfg.Ingest.BatchSize,
		Workers:   cfg.Ingest.Workers,
	}, logger)
	a.Health = healthuc.New(pinger, cachePinger)

	return a, nil
}

// SessionOptions returns session settings derived from the search config.
func (a *App) SessionOptions(logger *zap.Logger) searchuc.SessionOptions {
	d := time.Duration(a.cfg.Search.DebounceMs) * time.Millisecond
	if a.cfg.Search.DebounceMs < 0 {
		d = 0
	}
	return searchuc.SessionOptions{Debounce: d, Logger: logger}
}

// Close releases backend connections.
func (a *App) Close() {
	if a.store != nil {
		a.store.Close()
	}
}
