package artwatch

import (
	"context"

	"github.com/kailas-cloud/artwatch/internal/domain/feature"
	domrep "github.com/kailas-cloud/artwatch/internal/domain/reputation"
	domsim "github.com/kailas-cloud/artwatch/internal/domain/similarity"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
	findingsuc "github.com/kailas-cloud/artwatch/internal/usecase/findings"
	similarityuc "github.com/kailas-cloud/artwatch/internal/usecase/similarity"
)

// --- featureWriter mock ---

type mockFeatures struct {
	putFn func(ctx context.Context, rec *feature.Record) error
}

func (m *mockFeatures) Put(ctx context.Context, rec *feature.Record) error {
	return m.putFn(ctx, rec)
}

// --- similarityUseCase mock ---

type mockSimilarity struct {
	findFn       func(ctx context.Context, q similarityuc.Query) ([]domsim.Result, error)
	duplicatesFn func(ctx context.Context, threshold int) ([]domsim.Group, error)
}

func (m *mockSimilarity) Find(ctx context.Context, q similarityuc.Query) ([]domsim.Result, error) {
	return m.findFn(ctx, q)
}

func (m *mockSimilarity) FindDuplicates(ctx context.Context, threshold int) ([]domsim.Group, error) {
	return m.duplicatesFn(ctx, threshold)
}

// --- scoringUseCase mock ---

type mockScoring struct {
	scoreFn func(ctx context.Context, artworkID string, p *vision.Payload) (vision.SearchRequest, error)
}

func (m *mockScoring) Score(ctx context.Context, artworkID string, p *vision.Payload) (vision.SearchRequest, error) {
	return m.scoreFn(ctx, artworkID, p)
}

// --- findingsUseCase mock ---

type mockFindings struct {
	err  error
	reqs []vision.SearchRequest
	reps []domrep.Reputation
}

func (m *mockFindings) ListInteresting(context.Context, int, int) ([]vision.SearchRequest, error) {
	return m.reqs, m.err
}

func (m *mockFindings) GetRequest(context.Context, string) (vision.SearchRequest, error) {
	if m.err != nil || len(m.reqs) == 0 {
		return vision.SearchRequest{}, m.err
	}
	return m.reqs[0], nil
}

func (m *mockFindings) ArtworkHistory(context.Context, string, int) ([]vision.SearchRequest, error) {
	return m.reqs, m.err
}

func (m *mockFindings) Stats(context.Context) (vision.Stats, error) {
	return vision.Stats{Requests: int64(len(m.reqs))}, m.err
}

func (m *mockFindings) Cost(context.Context) (findingsuc.CostSummary, error) {
	return findingsuc.CostSummary{TotalUnits: 1000, EstimatedUSD: 1.5}, m.err
}

func (m *mockFindings) SuspiciousDomains(context.Context) ([]domrep.Reputation, error) {
	return m.reps, m.err
}

func (m *mockFindings) DomainsByCategory(context.Context, vision.Category, int) ([]domrep.Reputation, error) {
	return m.reps, m.err
}

// --- helpers ---

func testClient() *Client {
	return &Client{}
}
