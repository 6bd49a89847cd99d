package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Index backends.
const (
	BackendMeilisearch = "meilisearch"
	BackendRedis       = "redis"
)

// Config holds the govrecords configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Index    IndexConfig    `yaml:"index"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Search   SearchConfig   `yaml:"search"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// IndexConfig selects and configures the remote full-text index.
type IndexConfig struct {
	Backend     string           `yaml:"backend"` // meilisearch (default), redis
	Meilisearch MeiliConfig      `yaml:"meilisearch"`
	Redis       RedisIndexConfig `yaml:"redis"`
}

// MeiliConfig holds Meilisearch connection settings.
type MeiliConfig struct {
	Host       string  `yaml:"host"`
	APIKey     string  `yaml:"api_key"`
	IndexUID   string  `yaml:"index_uid"`
	TimeoutSec int     `yaml:"timeout_sec"`
	RateLimit  float64 `yaml:"rate_limit"` // requests per second, 0 = unlimited
	Burst      int     `yaml:"burst"`
	TaskPollMs int     `yaml:"task_poll_ms"`
}

// RedisIndexConfig names the FT index and the hash key prefix of documents.
type RedisIndexConfig struct {
	Name      string `yaml:"name"`
	KeyPrefix string `yaml:"key_prefix"`
}

// DatabaseConfig holds Redis/Valkey connection settings, used by the redis
// backend and the result cache.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Enabled   bool   `yaml:"enabled"`
	TTLSec    int    `yaml:"ttl_sec"`
	KeyPrefix string `yaml:"key_prefix"`
}

// SearchConfig holds fetch window and presentation defaults.
type SearchConfig struct {
	DefaultLimit    int   `yaml:"default_limit"`
	BrowseLimit     int   `yaml:"browse_limit"`
	DefaultPageSize int   `yaml:"default_page_size"`
	MaxPageSize     int   `yaml:"max_page_size"`
	DebounceMs      int   `yaml:"debounce_ms"` // negative = no debounce
	Dedupe          *bool `yaml:"dedupe"`      // default true
	BrowseAll       bool  `yaml:"browse_all"`
}

// DedupeDefault reports the configured dedupe default.
func (s SearchConfig) DedupeDefault() bool {
	return s.Dedupe == nil || *s.Dedupe
}

// IngestConfig holds CSV import settings.
type IngestConfig struct {
	BatchSize int `yaml:"batch_size"`
	Workers   int `yaml:"workers"`
}

// Load reads configuration from a YAML file by environment name (local, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Index.Backend == "" {
		c.Index.Backend = BackendMeilisearch
	}
	if c.Index.Meilisearch.IndexUID == "" {
		c.Index.Meilisearch.IndexUID = "philgeps"
	}
	if c.Index.Meilisearch.TimeoutSec <= 0 {
		c.Index.Meilisearch.TimeoutSec = 10
	}
	if c.Index.Meilisearch.TaskPollMs <= 0 {
		c.Index.Meilisearch.TaskPollMs = 250
	}
	if c.Index.Redis.Name == "" {
		c.Index.Redis.Name = "govrecords:awards:idx"
	}
	if c.Index.Redis.KeyPrefix == "" {
		c.Index.Redis.KeyPrefix = "govrecords:award:"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "govrecords:hits:"
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 1000
	}
	if c.Search.BrowseLimit <= 0 {
		c.Search.BrowseLimit = 10000
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 20
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 200
	}
	if c.Search.DebounceMs == 0 {
		c.Search.DebounceMs = 300
	}
	if c.Ingest.BatchSize <= 0 {
		c.Ingest.BatchSize = 5000
	}
	if c.Ingest.Workers <= 0 {
		c.Ingest.Workers = 4
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Index.Backend {
	case BackendMeilisearch:
		if c.Index.Meilisearch.Host == "" {
			return fmt.Errorf("index.meilisearch.host is required")
		}
	case BackendRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for the redis backend")
		}
	default:
		return fmt.Errorf("index.backend must be %q or %q, got %q",
			BackendMeilisearch, BackendRedis, c.Index.Backend)
	}
	if c.Cache.Enabled && len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required when cache is enabled")
	}
	if c.Search.BrowseLimit < c.Search.DefaultLimit {
		return fmt.Errorf("search.browse_limit (%d) must not be below search.default_limit (%d)",
			c.Search.BrowseLimit, c.Search.DefaultLimit)
	}
	if c.Search.MaxPageSize < c.Search.DefaultPageSize {
		return fmt.Errorf("search.max_page_size (%d) must not be below search.default_page_size (%d)",
			c.Search.MaxPageSize, c.Search.DefaultPageSize)
	}
	return nil
}

// NeedsRedis reports whether a Redis/Valkey connection must be opened.
func (c *Config) NeedsRedis() bool {
	return c.Index.Backend == BackendRedis || c.Cache.Enabled
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
