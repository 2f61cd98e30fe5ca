package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/artwatch/internal/config"
	"github.com/kailas-cloud/artwatch/internal/domain"
	"github.com/kailas-cloud/artwatch/internal/domain/feature"
	domsim "github.com/kailas-cloud/artwatch/internal/domain/similarity"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
	healthuc "github.com/kailas-cloud/artwatch/internal/usecase/health"
	similarityuc "github.com/kailas-cloud/artwatch/internal/usecase/similarity"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func openBackends(t *testing.T) map[string]*Backend {
	t.Helper()
	out := make(map[string]*Backend)
	for _, name := range []string{config.BackendMemory, config.BackendSQLite} {
		b, err := Open(context.Background(), config.StorageConfig{Backend: name}, zap.NewNop())
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		t.Cleanup(func() { _ = b.Close() })
		out[name] = b
	}
	return out
}

func seed(t *testing.T, b *Backend) {
	t.Helper()
	recs := []feature.Record{
		{ArtworkID: "src", PHash: "ffffffff00000000", DHash: "0000000000000000", AHash: "0000000000000000",
			Embedding: []float32{1, 0, 0}},
		{ArtworkID: "twin", PHash: "ffffffff00000001", DHash: "0000000000000000", AHash: "0000000000000000",
			Embedding: []float32{1, 0, 0}},
		{ArtworkID: "far", PHash: "00000000ffffffff", DHash: "0000000000000000", AHash: "0000000000000000",
			Embedding: []float32{0, 1, 0}},
	}
	for i := range recs {
		if err := b.Features.Put(context.Background(), &recs[i]); err != nil {
			t.Fatalf("put %s: %v", recs[i].ArtworkID, err)
		}
	}
}

func TestEngine_EndToEnd(t *testing.T) {
	for name, b := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seed(t, b)
			e := New(b, Settings{Now: func() time.Time { return testNow }}, zap.NewNop())

			res, err := e.Similarity.Find(ctx, similarityuc.NewQuery("src", domsim.Hybrid))
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if len(res) != 1 || res[0].CandidateID() != "twin" || res[0].Method() != domsim.Hybrid {
				t.Fatalf("expected twin via both methods, got %+v", res)
			}

			groups, err := e.Similarity.FindDuplicates(ctx, similarityuc.DefaultDuplicateThreshold)
			if err != nil {
				t.Fatalf("duplicates: %v", err)
			}
			if len(groups) != 1 || groups[0].Anchor != "src" {
				t.Fatalf("expected one group anchored at src, got %+v", groups)
			}

			req, err := e.Scoring.Score(ctx, "src", &vision.Payload{
				FullMatches: []vision.ImageHit{{URL: "https://www.christies.com/lot/1.jpg"}},
			})
			if err != nil {
				t.Fatalf("score: %v", err)
			}
			if !req.HasInterestingResults() {
				t.Fatal("expected interesting request")
			}
			if _, err := e.Scoring.Score(ctx, "src", &vision.Payload{
				SimilarImages: []vision.ImageHit{{URL: "https://museum.example.org/x.jpg"}},
			}); err != nil {
				t.Fatalf("score routine: %v", err)
			}

			got, err := e.Findings.GetRequest(ctx, req.ID)
			if err != nil {
				t.Fatalf("get request: %v", err)
			}
			if len(got.Matches()) != 1 || got.Matches()[0].Domain != "christies.com" {
				t.Errorf("unexpected stored matches: %+v", got.Matches())
			}

			findings, err := e.Findings.ListInteresting(ctx, 0, 0)
			if err != nil {
				t.Fatalf("findings: %v", err)
			}
			if len(findings) != 1 {
				t.Errorf("expected 1 finding, got %d", len(findings))
			}

			st, err := e.Findings.Stats(ctx)
			if err != nil {
				t.Fatalf("stats: %v", err)
			}
			if st.Requests != 2 || st.InterestingRequests != 1 || st.TotalCostUnits != 2 {
				t.Errorf("unexpected stats: %+v", st)
			}

			sus, err := e.Findings.SuspiciousDomains(ctx)
			if err != nil {
				t.Fatalf("suspicious: %v", err)
			}
			if len(sus) != 1 || sus[0].Domain != "christies.com" || !sus[0].LastSeen.Equal(testNow) {
				t.Errorf("unexpected suspicious domains: %+v", sus)
			}

			if r := e.Health.Check(ctx); r.Status != healthuc.Healthy {
				t.Errorf("expected healthy, got %+v", r)
			}
		})
	}
}

func TestEngine_MissingSourceIsEmpty(t *testing.T) {
	b, err := Open(context.Background(), config.StorageConfig{Backend: config.BackendMemory}, zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	e := New(b, Settings{}, zap.NewNop())
	res, err := e.Similarity.Find(context.Background(), similarityuc.NewQuery("ghost", domsim.Hash))
	if err != nil || len(res) != 0 {
		t.Errorf("expected empty result, got %v, %v", res, err)
	}
	if _, err := e.Findings.GetRequest(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOpen_Unknown(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Backend: "cassandra"}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestWeights_Overlay(t *testing.T) {
	page := 0
	w := Weights(config.ScoringConfig{
		InterestThreshold:     25,
		SimilarCommercialOnly: true,
		Weights:               config.WeightsConfig{Page: &page},
	})
	if w.Page != 0 || w.Full != 10 || w.Threshold != 25 || !w.SimilarCommercialOnly {
		t.Errorf("unexpected weights: %+v", w)
	}
}

func TestClassifier_Overlay(t *testing.T) {
	c := Classifier(config.ClassifierConfig{Auction: []string{"lots"}})
	if len(c.Auction) != 1 || c.Auction[0] != "lots" {
		t.Errorf("expected auction override, got %v", c.Auction)
	}
	if len(c.Marketplace) == 0 {
		t.Error("marketplace must keep defaults")
	}
	cl := vision.NewClassifier(c)
	if cl.Categorize("lots.example") != vision.CategoryAuction {
		t.Error("override must take effect")
	}
	if cl.Categorize("christies.com") == vision.CategoryAuction {
		t.Error("default auction patterns must be replaced")
	}
}
