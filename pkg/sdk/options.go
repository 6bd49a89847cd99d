package govrecords

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	backend string // "meilisearch" or "redis"

	meiliHost   string
	meiliKey    string
	indexUID    string
	redisAddrs  []string
	redisPass   string
	redisIndex  string
	redisPrefix string

	cacheTTL time.Duration

	pageSize int
	dedupe   bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithMeilisearch selects a Meilisearch server as the index.
func WithMeilisearch(host, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend = "meilisearch"
		c.meiliHost = host
		c.meiliKey = apiKey
	})
}

// WithIndexUID sets the Meilisearch index uid. Default: "philgeps".
func WithIndexUID(uid string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexUID = uid
	})
}

// WithRedis selects a Redis or Valkey search index.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend = "redis"
		c.redisAddrs = []string{addr}
		c.redisPass = password
	})
}

// WithRedisIndex sets the FT index name and the hash key prefix of records.
func WithRedisIndex(name, keyPrefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisIndex = name
		c.redisPrefix = keyPrefix
	})
}

// WithResultCache caches successful fetches in Redis for ttl.
// Requires WithRedis or a Redis address from WithCacheRedis.
func WithResultCache(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithCacheRedis sets the Redis instance used by the result cache when the
// index itself is Meilisearch.
func WithCacheRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPass = password
	})
}

// WithDefaultPageSize sets the page size used when a query does not set one.
// Default: 20.
func WithDefaultPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithDedupe sets whether likely duplicate records are collapsed by default.
// Default: true.
func WithDedupe(on bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.dedupe = on
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
