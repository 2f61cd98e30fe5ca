package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/artwatch/internal/domain"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
)

// --- Mocks ---

type mockRequests struct {
	saved []vision.SearchRequest
	err   error
}

func (m *mockRequests) Save(_ context.Context, req *vision.SearchRequest) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, *req)
	return nil
}

type trackCall struct {
	artworkID string
	matches   []vision.Match
}

type mockTracker struct {
	calls []trackCall
	err   error
}

func (m *mockTracker) Track(_ context.Context, artworkID string, matches []vision.Match) error {
	m.calls = append(m.calls, trackCall{artworkID: artworkID, matches: matches})
	return m.err
}

// --- Helpers ---

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestService(opts ...Option) (*Service, *mockRequests, *mockTracker) {
	reqs := &mockRequests{}
	tr := &mockTracker{}
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "req-1" }),
	}
	svc := New(reqs, tr, vision.NewClassifier(vision.DefaultClassifierConfig()), append(base, opts...)...)
	return svc, reqs, tr
}

func f64(v float64) *float64 { return &v }

// --- Tests ---

func TestScore_AuctionFullMatchIsInteresting(t *testing.T) {
	svc, reqs, tr := newTestService()
	p := vision.Payload{
		FullMatches: []vision.ImageHit{{URL: "https://www.christies.com/lot/123.jpg", Score: f64(0.97)}},
	}

	req, err := svc.Score(context.Background(), "art-1", &p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.InterestScore != 30 {
		t.Errorf("expected score 30, got %d", req.InterestScore)
	}
	if !req.HasInterestingResults() {
		t.Fatal("expected interesting outcome")
	}
	ms := req.Matches()
	if len(ms) != 1 {
		t.Fatalf("expected 1 stored match, got %d", len(ms))
	}
	if ms[0].Domain != "christies.com" || ms[0].Category != vision.CategoryAuction || ms[0].Type != vision.MatchFull {
		t.Errorf("unexpected match: %+v", ms[0])
	}
	if len(reqs.saved) != 1 {
		t.Fatalf("expected 1 saved request, got %d", len(reqs.saved))
	}
	if len(tr.calls) != 1 || tr.calls[0].artworkID != "art-1" || len(tr.calls[0].matches) != 1 {
		t.Errorf("expected one tracker call with 1 match, got %+v", tr.calls)
	}
}

func TestScore_MuseumSimilarIsRoutine(t *testing.T) {
	svc, reqs, tr := newTestService()
	p := vision.Payload{
		SimilarImages: []vision.ImageHit{{URL: "https://museum.example.org/img.jpg"}},
		Entities:      []vision.Entity{{Description: "Painting"}},
	}

	req, err := svc.Score(context.Background(), "art-1", &p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.InterestScore != 4 {
		t.Errorf("expected score 4, got %d", req.InterestScore)
	}
	if req.HasInterestingResults() {
		t.Error("expected routine outcome")
	}
	if req.Matches() != nil || req.Entities() != nil {
		t.Error("routine request must not carry match or entity rows")
	}
	if req.Counts.Similar != 1 {
		t.Errorf("expected similar count 1, got %d", req.Counts.Similar)
	}
	if len(reqs.saved) != 1 {
		t.Errorf("routine request must still be saved")
	}
	if len(tr.calls) != 0 {
		t.Errorf("tracker must not run for routine requests")
	}
}

func TestScore_SuspiciousBonus(t *testing.T) {
	svc, _, _ := newTestService()
	p := vision.Payload{
		FullMatches: []vision.ImageHit{{URL: "http://private-collection.net/a.jpg"}},
	}
	req, err := svc.Score(context.Background(), "art-1", &p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// full 10 + other 0 + suspicious 10
	if req.InterestScore != 20 {
		t.Errorf("expected score 20, got %d", req.InterestScore)
	}
}

func TestScore_PageBonus(t *testing.T) {
	tests := []struct {
		name  string
		pages []vision.PageHit
		want  int
	}{
		{"marketplace page", []vision.PageHit{{URL: "https://www.ebay.com/itm/1"}}, 10},
		{"suspicious page", []vision.PageHit{{URL: "https://estate-sale.example/p"}}, 10},
		{"plain page", []vision.PageHit{{URL: "https://blog.example.com/p"}}, 0},
		{"museum page", []vision.PageHit{{URL: "https://gallery.example/p"}}, 0},
		{
			"two commercial pages",
			[]vision.PageHit{{URL: "https://etsy.com/a"}, {URL: "https://sothebys.com/b"}},
			20,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService()
			p := vision.Payload{Pages: tt.pages}
			req, err := svc.Score(context.Background(), "art-1", &p)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.InterestScore != tt.want {
				t.Errorf("expected score %d, got %d", tt.want, req.InterestScore)
			}
		})
	}
}

func TestScore_ThresholdIsInclusive(t *testing.T) {
	svc, _, _ := newTestService()
	// partial 5 + other 0 + commercial page 10 = 15
	p := vision.Payload{
		PartialMatches: []vision.ImageHit{{URL: "https://blog.example.com/a.jpg"}},
		Pages:          []vision.PageHit{{URL: "https://etsy.com/listing/1"}},
	}
	req, err := svc.Score(context.Background(), "art-1", &p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.InterestScore != 15 {
		t.Fatalf("expected score 15, got %d", req.InterestScore)
	}
	if !req.HasInterestingResults() {
		t.Error("score equal to threshold must be interesting")
	}
}

func TestScore_CustomWeights(t *testing.T) {
	w := DefaultWeights()
	w.Threshold = 40
	svc, _, tr := newTestService(WithWeights(w))
	p := vision.Payload{
		FullMatches: []vision.ImageHit{{URL: "https://christies.com/a.jpg"}},
	}
	req, err := svc.Score(context.Background(), "art-1", &p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.HasInterestingResults() {
		t.Error("expected routine under raised threshold")
	}
	if len(tr.calls) != 0 {
		t.Error("tracker must not run")
	}
}

func TestScore_SimilarCommercialOnly(t *testing.T) {
	w := DefaultWeights()
	w.SimilarCommercialOnly = true
	svc, _, _ := newTestService(WithWeights(w))
	p := vision.Payload{
		SimilarImages: []vision.ImageHit{
			{URL: "https://museum.example.org/a.jpg"},
			{URL: "https://www.ebay.com/b.jpg"},
		},
	}
	req, err := svc.Score(context.Background(), "art-1", &p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// only ebay: similar 2 + marketplace 15
	if req.InterestScore != 17 {
		t.Errorf("expected score 17, got %d", req.InterestScore)
	}
	if got := len(req.Matches()); got != 2 {
		t.Errorf("expected both similar matches stored, got %d", got)
	}
}

func TestScore_BestMatchScore(t *testing.T) {
	svc, _, _ := newTestService()
	p := vision.Payload{
		FullMatches:    []vision.ImageHit{{URL: "https://a.com/1.jpg", Score: f64(0.6)}, {URL: "https://a.com/2.jpg"}},
		PartialMatches: []vision.ImageHit{{URL: "https://b.com/1.jpg", Score: f64(0.8)}},
		SimilarImages:  []vision.ImageHit{{URL: "https://c.com/1.jpg", Score: f64(0.99)}},
	}
	req, err := svc.Score(context.Background(), "art-1", &p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.BestMatchScore == nil || *req.BestMatchScore != 0.8 {
		t.Errorf("expected best match 0.8, got %v", req.BestMatchScore)
	}

	p = vision.Payload{FullMatches: []vision.ImageHit{{URL: "https://a.com/1.jpg"}}}
	req, err = svc.Score(context.Background(), "art-1", &p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.BestMatchScore != nil {
		t.Errorf("expected absent best match, got %v", *req.BestMatchScore)
	}
}

func TestScore_PageContextFirstPageWins(t *testing.T) {
	svc, _, _ := newTestService()
	img := "https://christies.com/lot/9.jpg"
	p := vision.Payload{
		FullMatches:    []vision.ImageHit{{URL: img}},
		PartialMatches: []vision.ImageHit{{URL: "https://unlinked.example/x.jpg"}},
		Pages: []vision.PageHit{
			{URL: "https://christies.com/lot/9", Title: "Lot 9", PartialMatchingImages: []string{img}},
			{URL: "https://blog.example.com/post", Title: "Blog", FullMatchingImages: []string{img}},
		},
		Entities: []vision.Entity{{Description: "Oil painting", Score: f64(0.5)}},
	}
	req, err := svc.Score(context.Background(), "art-1", &p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ms := req.Matches()
	if len(ms) != 4 {
		t.Fatalf("expected 4 matches (full, partial, 2 pages), got %d", len(ms))
	}
	if ms[0].PageURL != "https://christies.com/lot/9" || ms[0].PageTitle != "Lot 9" {
		t.Errorf("expected first page context, got %+v", ms[0])
	}
	if ms[1].PageURL != "" {
		t.Errorf("unlinked partial must have no page context, got %q", ms[1].PageURL)
	}
	if ms[2].Type != vision.MatchPage || ms[2].ImageURL != "" || ms[2].PageTitle != "Lot 9" {
		t.Errorf("unexpected page match: %+v", ms[2])
	}
	if len(req.Entities()) != 1 || req.Entities()[0].Description != "Oil painting" {
		t.Errorf("expected entity to be stored, got %+v", req.Entities())
	}
}

func TestScore_RequestFields(t *testing.T) {
	svc, reqs, _ := newTestService()
	pt := int64(420)
	p := vision.Payload{
		PartialMatches:   []vision.ImageHit{{URL: "https://x.com/a.jpg"}},
		ProcessingTimeMS: &pt,
	}
	req, err := svc.Score(context.Background(), "art-7", &p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ID != "req-1" || req.ArtworkID != "art-7" {
		t.Errorf("unexpected ids: %q %q", req.ID, req.ArtworkID)
	}
	if req.ImageSource != vision.SourceDatabase {
		t.Errorf("expected default source database, got %q", req.ImageSource)
	}
	if req.APICostUnits != 1 {
		t.Errorf("expected cost floor 1, got %d", req.APICostUnits)
	}
	if !req.CreatedAt.Equal(fixedNow) {
		t.Errorf("expected created %v, got %v", fixedNow, req.CreatedAt)
	}
	if req.ProcessingTimeMS == nil || *req.ProcessingTimeMS != 420 {
		t.Errorf("expected processing time 420, got %v", req.ProcessingTimeMS)
	}
	if reqs.saved[0].ID != "req-1" {
		t.Errorf("saved request mismatch")
	}
}

func TestScore_Validation(t *testing.T) {
	svc, reqs, _ := newTestService()

	_, err := svc.Score(context.Background(), "", &vision.Payload{})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for empty artwork id, got %v", err)
	}

	_, err = svc.Score(context.Background(), "art-1", &vision.Payload{ImageSource: "ftp"})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for bad source, got %v", err)
	}

	_, err = svc.Score(context.Background(), "art-1", nil)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for nil payload, got %v", err)
	}
	if len(reqs.saved) != 0 {
		t.Error("invalid input must not be persisted")
	}
}

func TestScore_SaveError(t *testing.T) {
	svc, reqs, tr := newTestService()
	reqs.err = domain.NewStoreError("redis", "save", errors.New("conn refused"))
	p := vision.Payload{FullMatches: []vision.ImageHit{{URL: "https://christies.com/a.jpg"}}}

	_, err := svc.Score(context.Background(), "art-1", &p)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
	if len(tr.calls) != 0 {
		t.Error("tracker must not run when save fails")
	}
}

func TestScore_TrackerError(t *testing.T) {
	svc, reqs, tr := newTestService()
	tr.err = domain.NewStoreError("redis", "apply", errors.New("timeout"))
	p := vision.Payload{FullMatches: []vision.ImageHit{{URL: "https://christies.com/a.jpg"}}}

	_, err := svc.Score(context.Background(), "art-1", &p)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
	if len(reqs.saved) != 1 {
		t.Error("request must be saved before tracking")
	}
}
