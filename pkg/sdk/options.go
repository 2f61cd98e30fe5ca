package artwatch

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
	backend  string // "memory", "sqlite", "redis" or "valkey"
	addrs    []string
	password string
	dataDir  string

	readinessTimeout time.Duration
	scanLimit        int

	weights    *Weights
	patterns   *ClassifierPatterns
	usdPerUnit float64
	now        func() time.Time

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithMemory keeps every store in process memory. This is the default.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.backend = "memory"
	})
}

// WithSQLite stores everything in a single SQLite file under dataDir.
// An empty dataDir opens a private in-memory database.
func WithSQLite(dataDir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend = "sqlite"
		c.dataDir = dataDir
	})
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithReadinessTimeout bounds the initial Redis/Valkey readiness wait. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithScanLimit bounds how many feature records a similarity query scans. Default: 1000.
func WithScanLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.scanLimit = n
	})
}

// WithWeights replaces the interest-scoring weights and threshold.
// A Threshold of zero or less keeps the default of 15.
func WithWeights(w Weights) Option {
	return optionFunc(func(c *clientConfig) {
		c.weights = &w
	})
}

// WithClassifierPatterns replaces the domain classification tables.
// Empty lists keep the built-in patterns for that category.
func WithClassifierPatterns(p ClassifierPatterns) Option {
	return optionFunc(func(c *clientConfig) {
		c.patterns = &p
	})
}

// WithUSDPerUnit sets the price of one web-search cost unit. Default: 0.0015.
func WithUSDPerUnit(usd float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.usdPerUnit = usd
	})
}

// WithClock overrides the clock used for request and reputation timestamps.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(c *clientConfig) {
		c.now = now
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
