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

// Config holds the artwatch configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Storage    StorageConfig    `yaml:"storage"`
	Similarity SimilarityConfig `yaml:"similarity"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Findings   FindingsConfig   `yaml:"findings"`
	Auth       AuthConfig       `yaml:"auth"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Logging    LoggingConfig    `yaml:"logging"`
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

// Storage backends.
const (
	BackendRedis  = "redis"
	BackendValkey = "valkey"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend string       `yaml:"backend"` // redis, valkey, sqlite, memory (default: sqlite)
	Redis   RedisConfig  `yaml:"redis"`
	SQLite  SQLiteConfig `yaml:"sqlite"`
}

// RedisConfig holds Redis/Valkey connection settings.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SQLiteConfig holds SQLite settings.
type SQLiteConfig struct {
	DataDir string `yaml:"data_dir"` // empty = in-memory database
}

// SimilarityConfig bounds similarity scans.
type SimilarityConfig struct {
	ScanLimit             int `yaml:"scan_limit"`
	HybridFetchMultiplier int `yaml:"hybrid_fetch_multiplier"`
}

// ScoringConfig holds interest-scoring weights and domain classifier patterns.
type ScoringConfig struct {
	InterestThreshold     int              `yaml:"interest_threshold"`
	SimilarCommercialOnly bool             `yaml:"similar_commercial_only"`
	Weights               WeightsConfig    `yaml:"weights"`
	Classifier            ClassifierConfig `yaml:"classifier"`
}

// WeightsConfig overrides individual score terms. Nil fields keep the default.
type WeightsConfig struct {
	Full        *int `yaml:"full"`
	Partial     *int `yaml:"partial"`
	Similar     *int `yaml:"similar"`
	Auction     *int `yaml:"auction"`
	Marketplace *int `yaml:"marketplace"`
	Social      *int `yaml:"social"`
	Museum      *int `yaml:"museum"`
	Academic    *int `yaml:"academic"`
	Other       *int `yaml:"other"`
	Suspicious  *int `yaml:"suspicious"`
	Page        *int `yaml:"page"`
}

// ClassifierConfig replaces individual pattern tables. Empty lists keep the default.
type ClassifierConfig struct {
	Auction     []string `yaml:"auction"`
	Marketplace []string `yaml:"marketplace"`
	Museum      []string `yaml:"museum"`
	Social      []string `yaml:"social"`
	Academic    []string `yaml:"academic"`
	Suspicious  []string `yaml:"suspicious"`
}

// FindingsConfig holds reporting settings.
type FindingsConfig struct {
	USDPerUnit float64 `yaml:"usd_per_unit"`
}

// RateLimitConfig holds per-client request rate limits. Zero RPS disables limiting.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendSQLite
	}
	if c.Storage.Redis.ReadinessTimeout <= 0 {
		c.Storage.Redis.ReadinessTimeout = 10
	}
	if c.Similarity.ScanLimit <= 0 {
		c.Similarity.ScanLimit = 1000
	}
	if c.Similarity.HybridFetchMultiplier <= 0 {
		c.Similarity.HybridFetchMultiplier = 2
	}
	if c.Scoring.InterestThreshold <= 0 {
		c.Scoring.InterestThreshold = 15
	}
	if c.Findings.USDPerUnit <= 0 {
		c.Findings.USDPerUnit = 0.0015
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = int(c.RateLimit.RPS) + 1
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Storage.Backend {
	case BackendRedis, BackendValkey:
		if len(c.Storage.Redis.Addrs) == 0 {
			return fmt.Errorf("storage.redis.addrs is required for backend %q", c.Storage.Backend)
		}
	case BackendSQLite, BackendMemory:
		// ok
	default:
		return fmt.Errorf(
			"storage.backend must be one of redis, valkey, sqlite, memory, got %q", c.Storage.Backend,
		)
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("rate_limit.rps must be non-negative, got %v", c.RateLimit.RPS)
	}
	if w := c.Scoring.Weights; anyNegative(w.Full, w.Partial, w.Similar, w.Auction, w.Marketplace,
		w.Social, w.Museum, w.Academic, w.Other, w.Suspicious, w.Page) {
		return fmt.Errorf("scoring.weights must be non-negative")
	}
	return nil
}

func anyNegative(vals ...*int) bool {
	for _, v := range vals {
		if v != nil && *v < 0 {
			return true
		}
	}
	return false
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
