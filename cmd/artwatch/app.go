package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/kailas-cloud/artwatch/internal/config"
	"github.com/kailas-cloud/artwatch/internal/engine"
	artwatch "github.com/kailas-cloud/artwatch/pkg/sdk"
)

// loadConfig resolves --config, then --env, then $ENV.
func loadConfig() (config.Config, string, error) {
	env := flagEnv
	if env == "" {
		env = config.GetEnv()
	}
	var (
		cfg config.Config
		err error
	)
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return config.Config{}, env, &configError{err: err}
	}
	return cfg, env, nil
}

// clientOptions maps the application config onto SDK options.
func clientOptions(cfg *config.Config) []artwatch.Option {
	var opts []artwatch.Option
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		opts = append(opts, artwatch.WithMemory())
	case config.BackendRedis, config.BackendValkey:
		addr := ""
		if len(cfg.Storage.Redis.Addrs) > 0 {
			addr = cfg.Storage.Redis.Addrs[0]
		}
		if cfg.Storage.Backend == config.BackendValkey {
			opts = append(opts, artwatch.WithValkey(addr, cfg.Storage.Redis.Password))
		} else {
			opts = append(opts, artwatch.WithRedis(addr, cfg.Storage.Redis.Password))
		}
	default:
		opts = append(opts, artwatch.WithSQLite(cfg.Storage.SQLite.DataDir))
	}

	w := engine.Weights(cfg.Scoring)
	opts = append(opts,
		artwatch.WithScanLimit(cfg.Similarity.ScanLimit),
		artwatch.WithUSDPerUnit(cfg.Findings.USDPerUnit),
		artwatch.WithWeights(artwatch.Weights{
			Full:                  w.Full,
			Partial:               w.Partial,
			Similar:               w.Similar,
			Auction:               w.Auction,
			Marketplace:           w.Marketplace,
			Social:                w.Social,
			Museum:                w.Museum,
			Academic:              w.Academic,
			Other:                 w.Other,
			Suspicious:            w.Suspicious,
			Page:                  w.Page,
			Threshold:             w.Threshold,
			SimilarCommercialOnly: w.SimilarCommercialOnly,
		}),
		artwatch.WithClassifierPatterns(artwatch.ClassifierPatterns(cfg.Scoring.Classifier)),
	)
	if flagVerbose {
		opts = append(opts, artwatch.WithLogger(
			slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})),
		))
	}
	return opts
}

// openClient loads config and opens an in-process engine client.
func openClient(ctx context.Context) (*artwatch.Client, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return artwatch.New(ctx, clientOptions(&cfg)...)
}

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
