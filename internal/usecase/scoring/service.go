package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/artwatch/internal/domain"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
	"github.com/kailas-cloud/artwatch/internal/logger"
	"github.com/kailas-cloud/artwatch/internal/metrics"
)

// Service classifies one completed web search as interesting or routine and persists it.
type Service struct {
	requests   RequestStore
	tracker    ReputationTracker
	classifier vision.Classifier
	weights    Weights
	now        func() time.Time
	newID      func() string
}

// Option configures a Service.
type Option func(*Service)

// WithWeights overrides the scoring weights.
func WithWeights(w Weights) Option {
	return func(s *Service) { s.weights = w }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides request id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// New creates a scoring service.
func New(requests RequestStore, tracker ReputationTracker, classifier vision.Classifier, opts ...Option) *Service {
	s := &Service{
		requests:   requests,
		tracker:    tracker,
		classifier: classifier,
		weights:    DefaultWeights(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Score computes the interest score of a search payload, persists the request and,
// when interesting, feeds the reputation tracker. Match and entity rows are kept
// only for interesting searches.
func (s *Service) Score(ctx context.Context, artworkID string, p *vision.Payload) (vision.SearchRequest, error) {
	if artworkID == "" {
		return vision.SearchRequest{}, fmt.Errorf("%w: artwork id is required", domain.ErrInvalidRequest)
	}
	if p == nil {
		return vision.SearchRequest{}, fmt.Errorf("%w: search payload is required", domain.ErrInvalidRequest)
	}
	source := p.ImageSource
	if source == "" {
		source = vision.SourceDatabase
	}
	if !source.IsValid() {
		return vision.SearchRequest{}, fmt.Errorf("%w: unknown image source %q", domain.ErrInvalidRequest, source)
	}

	ev := s.evaluate(p)

	cost := p.APICostUnits
	if cost < 1 {
		cost = 1
	}
	req := vision.SearchRequest{
		ID:          s.newID(),
		ArtworkID:   artworkID,
		ImageSource: source,
		Counts: vision.Counts{
			Full:    len(p.FullMatches),
			Partial: len(p.PartialMatches),
			Similar: len(p.SimilarImages),
			Pages:   len(p.Pages),
		},
		BestMatchScore:   ev.best,
		InterestScore:    ev.score,
		APICostUnits:     cost,
		ProcessingTimeMS: p.ProcessingTimeMS,
		CreatedAt:        s.now().UTC(),
		Outcome:          vision.Routine{},
	}
	interesting := ev.score >= s.weights.Threshold
	if interesting {
		req.Outcome = vision.Interesting{Matches: ev.matches, Entities: copyEntities(p.Entities)}
	}

	if err := s.requests.Save(ctx, &req); err != nil {
		metrics.ScoringOutcomesTotal.WithLabelValues(metrics.StatusError).Inc()
		return vision.SearchRequest{}, fmt.Errorf("save search request: %w", err)
	}
	metrics.ScoringOutcomesTotal.WithLabelValues(outcomeLabel(interesting)).Inc()
	metrics.InterestScore.Observe(float64(ev.score))
	metrics.SearchCostUnitsTotal.Add(float64(cost))

	if interesting {
		if err := s.tracker.Track(ctx, artworkID, ev.matches); err != nil {
			logger.FromContext(ctx).Error("Reputation update failed after request was saved",
				zap.String("request_id", req.ID),
				zap.String("artwork_id", artworkID),
				zap.Error(err),
			)
			return vision.SearchRequest{}, fmt.Errorf("track reputation for request %s: %w", req.ID, err)
		}
	}
	return req, nil
}

type evaluation struct {
	score   int
	best    *float64
	matches []vision.Match
}

type pageRef struct {
	url   string
	title string
}

func (s *Service) evaluate(p *vision.Payload) evaluation {
	var ev evaluation
	pages := pageIndex(p.Pages)

	imageMatches := func(t vision.MatchType, hits []vision.ImageHit) {
		for _, h := range hits {
			m := s.classify(t, h.URL)
			m.Confidence = h.Score
			if ref, ok := pages[h.URL]; ok && t != vision.MatchSimilar {
				m.PageURL, m.PageTitle = ref.url, ref.title
			}
			ev.matches = append(ev.matches, m)

			if t == vision.MatchSimilar && s.weights.SimilarCommercialOnly && !m.Category.IsCommercial() {
				continue
			}
			ev.score += s.matchScore(&m)

			if t != vision.MatchSimilar && h.Score != nil && (ev.best == nil || *h.Score > *ev.best) {
				v := *h.Score
				ev.best = &v
			}
		}
	}
	imageMatches(vision.MatchFull, p.FullMatches)
	imageMatches(vision.MatchPartial, p.PartialMatches)
	imageMatches(vision.MatchSimilar, p.SimilarImages)

	for _, pg := range p.Pages {
		m := s.classify(vision.MatchPage, pg.URL)
		m.ImageURL = ""
		m.PageURL, m.PageTitle = pg.URL, pg.Title
		ev.matches = append(ev.matches, m)
		if m.Category.IsCommercial() || s.classifier.IsSuspicious(m.Domain) {
			ev.score += s.weights.Page
		}
	}
	return ev
}

func (s *Service) classify(t vision.MatchType, rawURL string) vision.Match {
	d := vision.ExtractDomain(rawURL)
	return vision.Match{
		Type:     t,
		ImageURL: rawURL,
		Domain:   d,
		Category: s.classifier.Categorize(d),
	}
}

// matchScore is base by type plus category bonus plus the suspicious-domain bonus.
func (s *Service) matchScore(m *vision.Match) int {
	score := s.weights.base(m.Type) + s.weights.categoryBonus(m.Category)
	if s.classifier.IsSuspicious(m.Domain) {
		score += s.weights.Suspicious
	}
	return score
}

// pageIndex maps each full or partial matching image URL to the first page that embeds it.
func pageIndex(pages []vision.PageHit) map[string]pageRef {
	idx := make(map[string]pageRef)
	add := func(img string, pg *vision.PageHit) {
		if _, ok := idx[img]; !ok {
			idx[img] = pageRef{url: pg.URL, title: pg.Title}
		}
	}
	for i := range pages {
		pg := &pages[i]
		for _, img := range pg.FullMatchingImages {
			add(img, pg)
		}
		for _, img := range pg.PartialMatchingImages {
			add(img, pg)
		}
	}
	return idx
}

func copyEntities(in []vision.Entity) []vision.Entity {
	if len(in) == 0 {
		return nil
	}
	out := make([]vision.Entity, len(in))
	copy(out, in)
	return out
}

func outcomeLabel(interesting bool) string {
	if interesting {
		return "interesting"
	}
	return "routine"
}
