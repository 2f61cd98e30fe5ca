package feature

import (
	"context"
	"testing"
	"time"

	domfeature "github.com/kailas-cloud/artwatch/internal/domain/feature"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hreplaceFn     func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	saddFn         func(ctx context.Context, key string, members ...string) error
	smembersFn     func(ctx context.Context, key string) ([]string, error)
}

func (m *mockStore) HReplace(ctx context.Context, key string, fields map[string]string) error {
	if m.hreplaceFn != nil {
		return m.hreplaceFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) SAdd(ctx context.Context, key string, members ...string) error {
	if m.saddFn != nil {
		return m.saddFn(ctx, key, members...)
	}
	return nil
}

func (m *mockStore) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.smembersFn != nil {
		return m.smembersFn(ctx, key)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testRecord(t *testing.T, id string) domfeature.Record {
	t.Helper()
	return domfeature.Record{
		ArtworkID: id,
		PHash:     "ffd8a0b0c0d0e0f0",
		DHash:     "0f0e0d0c0b0a0908",
		AHash:     "1122334455667788",
		Embedding: testVector(domfeature.EmbeddingDimensions),
		Quality: domfeature.Quality{
			Width:         1024,
			Height:        768,
			Format:        "jpeg",
			FileSizeBytes: 204800,
			Sharpness:     0.75,
			Grayscale:     true,
			ModelVersion:  "clip-vit-b32",
		},
		ExtractedAt: time.UnixMilli(1700000000000).UTC(),
	}
}

func testVector(dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(i) * 0.001
	}
	return vec
}
