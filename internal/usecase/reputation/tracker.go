package reputation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/artwatch/internal/domain"
	domrep "github.com/kailas-cloud/artwatch/internal/domain/reputation"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
	"github.com/kailas-cloud/artwatch/internal/logger"
	"github.com/kailas-cloud/artwatch/internal/metrics"
)

// Tracker folds interesting search matches into per-domain reputation.
type Tracker struct {
	store Store
	locks *keyedMutex
	now   func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker creates a Tracker over store.
func NewTracker(store Store, opts ...Option) *Tracker {
	t := &Tracker{store: store, locks: newKeyedMutex(), now: time.Now}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Track applies one delta per distinct domain in matches. Matches without a
// domain are skipped. A domain's category is taken from its first match.
// Deltas for the same domain are serialized in-process; the store applies each atomically.
func (t *Tracker) Track(ctx context.Context, artworkID string, matches []vision.Match) error {
	if artworkID == "" {
		return fmt.Errorf("%w: artwork id is required", domain.ErrInvalidRequest)
	}
	seenAt := t.now().UTC()
	for _, d := range aggregate(artworkID, matches, seenAt) {
		if err := t.apply(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) apply(ctx context.Context, d domrep.Delta) error {
	unlock := t.locks.Lock(d.Domain)
	defer unlock()

	err := t.store.Apply(ctx, d)
	metrics.ReputationUpdatesTotal.WithLabelValues(string(d.Category), metrics.StatusOf(err)).Inc()
	if err != nil {
		logger.FromContext(ctx).Error("Reputation update failed",
			zap.String("domain", d.Domain),
			zap.String("artwork_id", d.ArtworkID),
			zap.Error(err),
		)
		return fmt.Errorf("apply reputation for %s: %w", d.Domain, err)
	}
	return nil
}

// Get returns the reputation of a single domain.
func (t *Tracker) Get(ctx context.Context, name string) (domrep.Reputation, error) {
	if name == "" {
		return domrep.Reputation{}, fmt.Errorf("%w: domain is required", domain.ErrInvalidRequest)
	}
	r, err := t.store.Get(ctx, name)
	if err != nil {
		return domrep.Reputation{}, fmt.Errorf("get reputation %s: %w", name, err)
	}
	return r, nil
}

// ListSuspicious returns flagged domains ordered by total appearances, highest first.
func (t *Tracker) ListSuspicious(ctx context.Context, limit int) ([]domrep.Reputation, error) {
	out, err := t.store.ListSuspicious(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list suspicious domains: %w", err)
	}
	return out, nil
}

// ListByCategory returns domains of category c ordered by total appearances, highest first.
func (t *Tracker) ListByCategory(ctx context.Context, c vision.Category, limit int) ([]domrep.Reputation, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidRequest, c)
	}
	out, err := t.store.ListByCategory(ctx, c, limit)
	if err != nil {
		return nil, fmt.Errorf("list %s domains: %w", c, err)
	}
	return out, nil
}

// aggregate groups matches by domain in first-appearance order.
func aggregate(artworkID string, matches []vision.Match, seenAt time.Time) []domrep.Delta {
	idx := make(map[string]int)
	var out []domrep.Delta
	for i := range matches {
		m := &matches[i]
		if m.Domain == "" {
			continue
		}
		if j, ok := idx[m.Domain]; ok {
			out[j].Appearances++
			continue
		}
		idx[m.Domain] = len(out)
		out = append(out, domrep.Delta{
			Domain:      m.Domain,
			Category:    m.Category,
			Appearances: 1,
			ArtworkID:   artworkID,
			SeenAt:      seenAt,
		})
	}
	return out
}
