package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/artwatch/internal/config"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
	"github.com/kailas-cloud/artwatch/internal/metrics"
	findingsuc "github.com/kailas-cloud/artwatch/internal/usecase/findings"
	healthuc "github.com/kailas-cloud/artwatch/internal/usecase/health"
	reputationuc "github.com/kailas-cloud/artwatch/internal/usecase/reputation"
	scoringuc "github.com/kailas-cloud/artwatch/internal/usecase/scoring"
	similarityuc "github.com/kailas-cloud/artwatch/internal/usecase/similarity"
)

// Engine is the composition root shared by the HTTP server, the CLI and the SDK.
type Engine struct {
	Backend    *Backend
	Similarity *similarityuc.Service
	Scoring    *scoringuc.Service
	Reputation *reputationuc.Tracker
	Findings   *findingsuc.Service
	Health     *healthuc.Service
}

// Settings carries the tunables of the engine services.
type Settings struct {
	Similarity config.SimilarityConfig
	Scoring    config.ScoringConfig
	Findings   config.FindingsConfig
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// SettingsFromConfig extracts engine settings from the application config.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{Similarity: cfg.Similarity, Scoring: cfg.Scoring, Findings: cfg.Findings}
}

// New wires the engine services over backend.
func New(backend *Backend, s Settings, logger *zap.Logger) *Engine {
	metrics.Register()

	now := s.Now
	if now == nil {
		now = time.Now
	}

	features := similarityuc.NewInstrumentedFeatures(backend.Features, backend.Name, logger)
	var simOpts []similarityuc.Option
	if s.Similarity.ScanLimit > 0 {
		simOpts = append(simOpts, similarityuc.WithScanLimit(s.Similarity.ScanLimit))
	}
	if s.Similarity.HybridFetchMultiplier > 0 {
		simOpts = append(simOpts, similarityuc.WithHybridFetchMultiplier(s.Similarity.HybridFetchMultiplier))
	}

	tracker := reputationuc.NewTracker(backend.Reputations, reputationuc.WithClock(now))
	classifier := vision.NewClassifier(Classifier(s.Scoring.Classifier))
	scoring := scoringuc.New(backend.Requests, tracker, classifier,
		scoringuc.WithWeights(Weights(s.Scoring)),
		scoringuc.WithClock(now),
	)

	var findOpts []findingsuc.Option
	if s.Findings.USDPerUnit > 0 {
		findOpts = append(findOpts, findingsuc.WithUSDPerUnit(s.Findings.USDPerUnit))
	}

	return &Engine{
		Backend:    backend,
		Similarity: similarityuc.New(features, simOpts...),
		Scoring:    scoring,
		Reputation: tracker,
		Findings:   findingsuc.New(backend.Requests, tracker, findOpts...),
		Health:     healthuc.New(backend, features),
	}
}

// Weights overlays configured weights on the defaults.
func Weights(sc config.ScoringConfig) scoringuc.Weights {
	w := scoringuc.DefaultWeights()
	cw := sc.Weights
	for _, o := range []struct {
		src *int
		dst *int
	}{
		{cw.Full, &w.Full},
		{cw.Partial, &w.Partial},
		{cw.Similar, &w.Similar},
		{cw.Auction, &w.Auction},
		{cw.Marketplace, &w.Marketplace},
		{cw.Social, &w.Social},
		{cw.Museum, &w.Museum},
		{cw.Academic, &w.Academic},
		{cw.Other, &w.Other},
		{cw.Suspicious, &w.Suspicious},
		{cw.Page, &w.Page},
	} {
		if o.src != nil {
			*o.dst = *o.src
		}
	}
	if sc.InterestThreshold > 0 {
		w.Threshold = sc.InterestThreshold
	}
	w.SimilarCommercialOnly = sc.SimilarCommercialOnly
	return w
}

// Classifier overlays configured pattern tables on the defaults.
func Classifier(cc config.ClassifierConfig) vision.ClassifierConfig {
	out := vision.DefaultClassifierConfig()
	for _, o := range []struct {
		src []string
		dst *[]string
	}{
		{cc.Auction, &out.Auction},
		{cc.Marketplace, &out.Marketplace},
		{cc.Museum, &out.Museum},
		{cc.Social, &out.Social},
		{cc.Academic, &out.Academic},
		{cc.Suspicious, &out.Suspicious},
	} {
		if len(o.src) > 0 {
			*o.dst = o.src
		}
	}
	return out
}
