package feature

import (
	"context"
	"fmt"
	"slices"

	"github.com/kailas-cloud/artwatch/internal/domain"
	domfeature "github.com/kailas-cloud/artwatch/internal/domain/feature"
)

const storeName = "redis"

// store is the consumer interface for feature records (ISP).
type store interface {
	HReplace(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo stores one hash per artwork plus an id set used for full scans.
type Repo struct {
	store store
}

// New creates a feature repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put replaces the feature record of an artwork. Used by imports, never by the engine.
func (r *Repo) Put(ctx context.Context, rec *domfeature.Record) error {
	// Records are replaced wholesale; stale fields never survive a rewrite.
	if err := r.store.HReplace(ctx, recordKey(rec.ArtworkID), buildHashFields(rec)); err != nil {
		return domain.NewStoreError(storeName, "put", err)
	}
	if err := r.store.SAdd(ctx, idsKey(), rec.ArtworkID); err != nil {
		return domain.NewStoreError(storeName, "put", err)
	}
	return nil
}

// Get returns the record of one artwork or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, artworkID string) (domfeature.Record, error) {
	m, err := r.store.HGetAll(ctx, recordKey(artworkID))
	if err != nil {
		return domfeature.Record{}, domain.NewStoreError(storeName, "get", err)
	}
	if len(m) == 0 {
		return domfeature.Record{}, fmt.Errorf("features of %s: %w", artworkID, domain.ErrNotFound)
	}
	return parseHashFields(artworkID, m), nil
}

// ListAll returns up to limit records ordered by artwork id ascending.
// A non-positive limit returns every record.
func (r *Repo) ListAll(ctx context.Context, limit int) ([]domfeature.Record, error) {
	ids, err := r.store.SMembers(ctx, idsKey())
	if err != nil {
		return nil, domain.NewStoreError(storeName, "list", err)
	}
	slices.Sort(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = recordKey(id)
	}
	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, domain.NewStoreError(storeName, "list", err)
	}

	out := make([]domfeature.Record, 0, len(maps))
	for i, m := range maps {
		// Ids whose hash vanished between SMEMBERS and HGETALL are skipped.
		if len(m) == 0 {
			continue
		}
		out = append(out, parseHashFields(ids[i], m))
	}
	return out, nil
}

func recordKey(artworkID string) string {
	return domain.KeyPrefix + "features:" + artworkID
}

func idsKey() string {
	return domain.KeyPrefix + "features"
}
