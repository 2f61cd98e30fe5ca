package similarity

import (
	"context"
	"time"

	domsim "github.com/kailas-cloud/artwatch/internal/domain/similarity"
	"github.com/kailas-cloud/artwatch/internal/metrics"
)

// FindDuplicates groups records whose phash lies within threshold of a group anchor.
//
// Records are visited in store order (artwork id ascending). Each unclaimed record
// becomes an anchor and claims every later unclaimed record within threshold of it.
// Grouping is anchor-based, not transitive: two members may be farther apart than
// threshold from each other. Singleton groups are dropped.
func (s *Service) FindDuplicates(ctx context.Context, threshold int) (groups []domsim.Group, err error) {
	start := time.Now()
	defer func() {
		metrics.SimilarityQueryDuration.WithLabelValues("duplicates").Observe(time.Since(start).Seconds())
		metrics.SimilarityQueriesTotal.WithLabelValues("duplicates", metrics.StatusOf(err)).Inc()
		if err == nil {
			metrics.DuplicateGroupsFound.Observe(float64(len(groups)))
		}
	}()

	if err := validateHashThreshold(threshold); err != nil {
		return nil, err
	}

	records, err := s.features.ListAll(ctx, s.scanLimit)
	if err != nil {
		return nil, storeFailure("list", err)
	}

	hashed := records[:0:0]
	for _, r := range records {
		if r.HasPHash() {
			hashed = append(hashed, r)
		}
	}

	claimed := make([]bool, len(hashed))
	for i := range hashed {
		if claimed[i] {
			continue
		}
		anchor := &hashed[i]
		g := domsim.Group{Anchor: anchor.ArtworkID}
		for j := i + 1; j < len(hashed); j++ {
			if claimed[j] {
				continue
			}
			d := domsim.HammingDistance(anchor.PHash, hashed[j].PHash)
			if d != domsim.IncompatibleDistance && d <= threshold {
				g.Members = append(g.Members, domsim.Member{ArtworkID: hashed[j].ArtworkID, Distance: d})
				claimed[j] = true
			}
		}
		if len(g.Members) > 0 {
			claimed[i] = true
			groups = append(groups, g)
		}
	}
	return groups, nil
}
