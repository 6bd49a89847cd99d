// Package hitcache caches raw index responses in a key-value store.
package hitcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/govrecords/internal/db"
	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
)

// DefaultTTL is used when New receives a non-positive TTL.
const DefaultTTL = 5 * time.Minute

// fetcher is the decorated port.
type fetcher interface {
	Fetch(ctx context.Context, req request.Request) (result.Raw, error)
}

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedFetcher serves repeated requests from the cache. Only successful
// fetches are stored; cache failures fall through to the inner fetcher.
type CachedFetcher struct {
	inner      fetcher
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. Keys are prefix + sha256 of the request.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner fetcher,
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedFetcher{
		inner:      inner,
		store:      s,
		prefix:     prefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Fetch returns a cached response or calls the inner fetcher.
func (c *CachedFetcher) Fetch(ctx context.Context, req request.Request) (result.Raw, error) {
	key := c.cacheKey(req)

	if raw, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return raw, nil
	}

	c.incCache("miss")

	raw, err := c.inner.Fetch(ctx, req)
	if err != nil {
		return result.Raw{}, fmt.Errorf("fetch: %w", err)
	}

	c.putToCache(ctx, key, raw)
	return raw, nil
}

func (c *CachedFetcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedFetcher) cacheKey(req request.Request) string {
	f, _ := req.FilterString()
	parts := []string{
		req.Query(),
		f,
		strings.Join(req.Sort(), ","),
		strconv.Itoa(req.Limit()),
		strconv.Itoa(req.Offset()),
	}
	h := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return c.prefix + hex.EncodeToString(h[:])
}

func (c *CachedFetcher) getFromCache(ctx context.Context, key string) (result.Raw, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached result", zap.String("key", key), zap.Error(err))
		}
		return result.Raw{}, false
	}
	if len(data) == 0 {
		return result.Raw{}, false
	}

	var raw result.Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		c.logger.Warn("Failed to parse cached result", zap.String("key", key), zap.Error(err))
		return result.Raw{}, false
	}

	return raw, true
}

func (c *CachedFetcher) putToCache(ctx context.Context, key string, raw result.Raw) {
	data, err := json.Marshal(raw)
	if err != nil {
		c.logger.Warn("Failed to encode result", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache result", zap.String("key", key), zap.Error(err))
	}
}
