package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/artwatch/internal/config"
	"github.com/kailas-cloud/artwatch/internal/db"
	"github.com/kailas-cloud/artwatch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/artwatch/internal/db/redis"
	"github.com/kailas-cloud/artwatch/internal/domain/feature"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
	featurerepo "github.com/kailas-cloud/artwatch/internal/repository/feature"
	reputationrepo "github.com/kailas-cloud/artwatch/internal/repository/reputation"
	searchreqrepo "github.com/kailas-cloud/artwatch/internal/repository/searchreq"
	"github.com/kailas-cloud/artwatch/internal/storage/sqlite"
	reputationuc "github.com/kailas-cloud/artwatch/internal/usecase/reputation"
)

// FeatureStore reads and seeds feature records.
type FeatureStore interface {
	Put(ctx context.Context, rec *feature.Record) error
	Get(ctx context.Context, artworkID string) (feature.Record, error)
	ListAll(ctx context.Context, limit int) ([]feature.Record, error)
}

// RequestStore persists and reads scored search requests.
type RequestStore interface {
	Save(ctx context.Context, req *vision.SearchRequest) error
	Get(ctx context.Context, id string) (vision.SearchRequest, error)
	ListInteresting(ctx context.Context, offset, limit int) ([]vision.SearchRequest, error)
	ListByArtwork(ctx context.Context, artworkID string, limit int) ([]vision.SearchRequest, error)
	Stats(ctx context.Context) (vision.Stats, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Backend bundles the three stores of one persistence backend.
type Backend struct {
	Name        string
	Features    FeatureStore
	Reputations reputationuc.Store
	Requests    RequestStore

	pinger pinger
	close  func() error
}

// Ping checks backend connectivity.
func (b *Backend) Ping(ctx context.Context) error { return b.pinger.Ping(ctx) }

// Close releases the backend.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendRedis, config.BackendValkey:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Redis.Addrs,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Backend, err)
		}
		timeout := time.Duration(cfg.Redis.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("%s not ready: %w", cfg.Backend, err)
		}
		logger.Info("Connected to key-value store",
			zap.String("backend", cfg.Backend),
			zap.Strings("addrs", cfg.Redis.Addrs),
		)
		return kvBackend(cfg.Backend, store), nil
	case config.BackendMemory:
		return kvBackend(config.BackendMemory, memory.NewStore()), nil
	case config.BackendSQLite, "":
		dir := cfg.SQLite.DataDir
		if dir == "" {
			dir = ":memory:"
		}
		s, err := sqlite.Open(dir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info("Opened sqlite store", zap.String("data_dir", dir))
		return &Backend{
			Name:        config.BackendSQLite,
			Features:    s.Features(),
			Reputations: s.Reputations(),
			Requests:    s.SearchRequests(),
			pinger:      s,
			close:       s.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// NewKV builds a Backend over any db.Store.
func NewKV(name string, store db.Store) *Backend { return kvBackend(name, store) }

func kvBackend(name string, store db.Store) *Backend {
	return &Backend{
		Name:        name,
		Features:    featurerepo.New(store),
		Reputations: reputationrepo.New(store),
		Requests:    searchreqrepo.New(store),
		pinger:      store,
		close: func() error {
			store.Close()
			return nil
		},
	}
}
