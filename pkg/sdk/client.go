package artwatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/artwatch/internal/config"
	"github.com/kailas-cloud/artwatch/internal/domain/feature"
	domrep "github.com/kailas-cloud/artwatch/internal/domain/reputation"
	domsim "github.com/kailas-cloud/artwatch/internal/domain/similarity"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
	"github.com/kailas-cloud/artwatch/internal/engine"
	findingsuc "github.com/kailas-cloud/artwatch/internal/usecase/findings"
	healthuc "github.com/kailas-cloud/artwatch/internal/usecase/health"
	similarityuc "github.com/kailas-cloud/artwatch/internal/usecase/similarity"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the engine services.
type featureWriter interface {
	Put(ctx context.Context, rec *feature.Record) error
}

type similarityUseCase interface {
	Find(ctx context.Context, q similarityuc.Query) ([]domsim.Result, error)
	FindDuplicates(ctx context.Context, threshold int) ([]domsim.Group, error)
}

type scoringUseCase interface {
	Score(ctx context.Context, artworkID string, p *vision.Payload) (vision.SearchRequest, error)
}

type findingsUseCase interface {
	ListInteresting(ctx context.Context, offset, limit int) ([]vision.SearchRequest, error)
	GetRequest(ctx context.Context, id string) (vision.SearchRequest, error)
	ArtworkHistory(ctx context.Context, artworkID string, limit int) ([]vision.SearchRequest, error)
	Stats(ctx context.Context) (vision.Stats, error)
	Cost(ctx context.Context) (findingsuc.CostSummary, error)
	SuspiciousDomains(ctx context.Context) ([]domrep.Reputation, error)
	DomainsByCategory(ctx context.Context, c vision.Category, limit int) ([]domrep.Reputation, error)
}

type reputationUseCase interface {
	Get(ctx context.Context, name string) (domrep.Reputation, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the artwatch SDK entry point.
type Client struct {
	backend     *engine.Backend
	features    featureWriter
	similarity  similarityUseCase
	scoring     scoringUseCase
	findings    findingsUseCase
	reputations reputationUseCase
	health      healthUseCase
	obs         *observer
}

// New opens the configured backend and wires the engine.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		backend:          config.BackendMemory,
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	switch cfg.backend {
	case config.BackendRedis, config.BackendValkey:
		if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
			return nil, errors.New("artwatch: database address required for " + cfg.backend)
		}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	backend, err := engine.Open(ctx, storageConfig(cfg), zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("artwatch: %w", err)
	}

	e := engine.New(backend, settings(cfg), zap.NewNop())
	return &Client{
		backend:     backend,
		features:    backend.Features,
		similarity:  e.Similarity,
		scoring:     e.Scoring,
		findings:    e.Findings,
		reputations: e.Reputation,
		health:      e.Health,
		obs:         obs,
	}, nil
}

func storageConfig(cfg *clientConfig) config.StorageConfig {
	sc := config.StorageConfig{Backend: cfg.backend}
	switch cfg.backend {
	case config.BackendRedis, config.BackendValkey:
		sc.Redis = config.RedisConfig{
			Addrs:            cfg.addrs,
			Password:         cfg.password,
			ReadinessTimeout: int(cfg.readinessTimeout / time.Second),
		}
	case config.BackendSQLite:
		sc.SQLite = config.SQLiteConfig{DataDir: cfg.dataDir}
	}
	return sc
}

func settings(cfg *clientConfig) engine.Settings {
	s := engine.Settings{Now: cfg.now}
	s.Similarity.ScanLimit = cfg.scanLimit
	s.Findings.USDPerUnit = cfg.usdPerUnit
	if w := cfg.weights; w != nil {
		s.Scoring.InterestThreshold = w.Threshold
		s.Scoring.SimilarCommercialOnly = w.SimilarCommercialOnly
		s.Scoring.Weights = config.WeightsConfig{
			Full:        &w.Full,
			Partial:     &w.Partial,
			Similar:     &w.Similar,
			Auction:     &w.Auction,
			Marketplace: &w.Marketplace,
			Social:      &w.Social,
			Museum:      &w.Museum,
			Academic:    &w.Academic,
			Other:       &w.Other,
			Suspicious:  &w.Suspicious,
			Page:        &w.Page,
		}
	}
	if p := cfg.patterns; p != nil {
		s.Scoring.Classifier = config.ClassifierConfig{
			Auction:     p.Auction,
			Marketplace: p.Marketplace,
			Museum:      p.Museum,
			Social:      p.Social,
			Academic:    p.Academic,
			Suspicious:  p.Suspicious,
		}
	}
	return s
}

// DefaultWeights returns the built-in scoring weights.
func DefaultWeights() Weights {
	return weightsFromEngine(engine.Weights(config.ScoringConfig{}))
}

// Close releases all resources.
func (c *Client) Close() {
	if c.backend != nil {
		_ = c.backend.Close()
	}
}

// Ping checks backend connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.backend.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
