package reputation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/kailas-cloud/artwatch/internal/db"
	"github.com/kailas-cloud/artwatch/internal/domain"
	domrep "github.com/kailas-cloud/artwatch/internal/domain/reputation"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
)

const storeName = "redis"

// Hash field names.
const (
	fieldDomain   = "domain"
	fieldCategory = "category"
	fieldTotal    = "total_appearances"
	fieldFirst    = "first_seen"
	fieldFlagged  = "flagged_suspicious"
)

// store is the consumer interface for domain reputations (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetNX(ctx context.Context, key, field, value string) error
	HIncrBy(ctx context.Context, key, field string, val int64) (int64, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	ZAddGT(ctx context.Context, key, member string, score float64) error
	ZRevRange(ctx context.Context, key string, offset, limit int) ([]string, error)
	ZScore(ctx context.Context, key, member string) (float64, error)
}

// Repo keeps one hash per domain. Every write is a single commutative command,
// so concurrent Apply calls for the same domain never lose an update.
type Repo struct {
	store store
}

// New creates a reputation repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Apply folds one delta into the stored reputation of d.Domain.
func (r *Repo) Apply(ctx context.Context, d domrep.Delta) error {
	key := domainKey(d.Domain)
	seen := strconv.FormatInt(d.SeenAt.UnixMilli(), 10)

	if err := r.store.HSetNX(ctx, key, fieldFirst, seen); err != nil {
		return domain.NewStoreError(storeName, "apply", err)
	}

	fields := map[string]string{fieldDomain: d.Domain}
	if d.Category != "" {
		fields[fieldCategory] = string(d.Category)
	}
	if d.Flags() {
		// One-way latch: nothing ever writes "0".
		fields[fieldFlagged] = "1"
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return domain.NewStoreError(storeName, "apply", err)
	}

	total, err := r.store.HIncrBy(ctx, key, fieldTotal, int64(d.Appearances))
	if err != nil {
		return domain.NewStoreError(storeName, "apply", err)
	}
	if d.ArtworkID != "" {
		if err := r.store.SAdd(ctx, artworksKey(d.Domain), d.ArtworkID); err != nil {
			return domain.NewStoreError(storeName, "apply", err)
		}
	}
	if err := r.store.ZAddGT(ctx, lastSeenKey(), d.Domain, float64(d.SeenAt.UnixMilli())); err != nil {
		return domain.NewStoreError(storeName, "apply", err)
	}
	// Totals only grow, so GT keeps the ranking index in step with the hash.
	if err := r.store.ZAddGT(ctx, rankKey(), d.Domain, float64(total)); err != nil {
		return domain.NewStoreError(storeName, "apply", err)
	}
	return nil
}

// Get returns the reputation of a normalized domain or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, name string) (domrep.Reputation, error) {
	m, err := r.store.HGetAll(ctx, domainKey(name))
	if err != nil {
		return domrep.Reputation{}, domain.NewStoreError(storeName, "get", err)
	}
	if len(m) == 0 {
		return domrep.Reputation{}, fmt.Errorf("reputation of %s: %w", name, domain.ErrNotFound)
	}
	return r.hydrate(ctx, name, m)
}

// ListSuspicious returns flagged domains ordered by total appearances descending.
func (r *Repo) ListSuspicious(ctx context.Context, limit int) ([]domrep.Reputation, error) {
	return r.listWhere(ctx, limit, func(m map[string]string) bool {
		return m[fieldFlagged] == "1"
	})
}

// ListByCategory returns domains of one category ordered by total appearances descending.
func (r *Repo) ListByCategory(ctx context.Context, c vision.Category, limit int) ([]domrep.Reputation, error) {
	return r.listWhere(ctx, limit, func(m map[string]string) bool {
		return m[fieldCategory] == string(c)
	})
}

func (r *Repo) listWhere(ctx context.Context, limit int, keep func(map[string]string) bool) ([]domrep.Reputation, error) {
	names, err := r.store.ZRevRange(ctx, rankKey(), 0, 0)
	if err != nil {
		return nil, domain.NewStoreError(storeName, "list", err)
	}
	if len(names) == 0 {
		return nil, nil
	}

	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = domainKey(n)
	}
	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, domain.NewStoreError(storeName, "list", err)
	}

	var out []domrep.Reputation
	for i, m := range maps {
		if len(m) == 0 || !keep(m) {
			continue
		}
		rep, err := r.hydrate(ctx, names[i], m)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *Repo) hydrate(ctx context.Context, name string, m map[string]string) (domrep.Reputation, error) {
	rep := parseHash(name, m)

	artworks, err := r.store.SMembers(ctx, artworksKey(name))
	if err != nil {
		return domrep.Reputation{}, domain.NewStoreError(storeName, "get", err)
	}
	slices.Sort(artworks)
	rep.ArtworksFound = artworks

	last, err := r.store.ZScore(ctx, lastSeenKey(), name)
	switch {
	case err == nil:
		rep.LastSeen = time.UnixMilli(int64(last)).UTC()
	case errors.Is(err, db.ErrKeyNotFound):
		rep.LastSeen = rep.FirstSeen
	default:
		return domrep.Reputation{}, domain.NewStoreError(storeName, "get", err)
	}
	return rep, nil
}

func parseHash(name string, m map[string]string) domrep.Reputation {
	total, _ := strconv.Atoi(m[fieldTotal])
	first, _ := strconv.ParseInt(m[fieldFirst], 10, 64)
	rep := domrep.Reputation{
		Domain:            name,
		Category:          vision.Category(m[fieldCategory]),
		TotalAppearances:  total,
		FlaggedSuspicious: m[fieldFlagged] == "1",
	}
	if first > 0 {
		rep.FirstSeen = time.UnixMilli(first).UTC()
	}
	return rep
}

func domainKey(name string) string {
	return domain.KeyPrefix + "reputation:" + name
}

func artworksKey(name string) string {
	return domain.KeyPrefix + "reputation:" + name + ":artworks"
}

func lastSeenKey() string {
	return domain.KeyPrefix + "reputation_index:last_seen"
}

func rankKey() string {
	return domain.KeyPrefix + "reputation_index:appearances"
}
