package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/artwatch/internal/db/memory"
	"github.com/kailas-cloud/artwatch/internal/domain/feature"
	"github.com/kailas-cloud/artwatch/internal/engine"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, opts RouterOptions) http.Handler {
	t.Helper()
	b := engine.NewKV("memory", memory.NewStore())
	recs := []feature.Record{
		{ArtworkID: "a1", PHash: "ffffffff00000000", DHash: "0000000000000000", AHash: "0000000000000000"},
		{ArtworkID: "a2", PHash: "ffffffff00000003", DHash: "0000000000000000", AHash: "0000000000000000"},
		{ArtworkID: "a3", PHash: "00000000ffffffff", DHash: "0000000000000000", AHash: "0000000000000000"},
	}
	for i := range recs {
		if err := b.Features.Put(context.Background(), &recs[i]); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	e := engine.New(b, engine.Settings{Now: func() time.Time { return testNow }}, zap.NewNop())
	srv := NewServer(e.Similarity, e.Scoring, e.Findings, e.Health, zap.NewNop())
	return NewRouter(srv, opts)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}

func TestFindSimilar_Hash(t *testing.T) {
	h := newTestRouter(t, RouterOptions{})

	rr := do(t, h, "GET", "/artworks/a1/similar?method=hash&threshold=5", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decode[SimilarResponse](t, rr)
	if resp.Count != 1 || resp.SimilarArtworks[0].ArtworkID != "a2" {
		t.Fatalf("expected a2 only, got %+v", resp)
	}
	item := resp.SimilarArtworks[0]
	if item.HammingDist == nil || *item.HammingDist != 2 {
		t.Errorf("hamming distance: got %v, want 2", item.HammingDist)
	}
	if item.Band != "identical" {
		t.Errorf("band: got %q, want identical", item.Band)
	}
}

func TestFindSimilar_UnknownSourceIsEmpty(t *testing.T) {
	h := newTestRouter(t, RouterOptions{})

	rr := do(t, h, "GET", "/artworks/missing/similar?method=hash", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if resp := decode[SimilarResponse](t, rr); resp.Count != 0 {
		t.Errorf("expected no results, got %d", resp.Count)
	}
}

func TestFindSimilar_BadParams(t *testing.T) {
	h := newTestRouter(t, RouterOptions{})

	tests := []struct {
		name   string
		target string
		code   ErrorCode
	}{
		{"unknown method", "/artworks/a1/similar?method=sift", ErrorCodeValidationFailed},
		{"non-numeric threshold", "/artworks/a1/similar?threshold=abc", ErrorCodeBadRequest},
		{"threshold out of range", "/artworks/a1/similar?method=hash&threshold=65", ErrorCodeValidationFailed},
		{"clip threshold out of range", "/artworks/a1/similar?method=clip&clip_threshold=1.5", ErrorCodeValidationFailed},
		{"limit zero", "/artworks/a1/similar?limit=0", ErrorCodeValidationFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, h, "GET", tc.target, "")
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", rr.Code)
			}
			if resp := decode[ErrorResponse](t, rr); resp.Code != tc.code {
				t.Errorf("code: got %s, want %s", resp.Code, tc.code)
			}
		})
	}
}

func TestDetectDuplicates(t *testing.T) {
	h := newTestRouter(t, RouterOptions{})

	rr := do(t, h, "GET", "/artworks/duplicates", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	resp := decode[DuplicatesResponse](t, rr)
	if resp.Threshold != 5 || resp.DuplicateGroups != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	g := resp.Groups[0]
	if g.Anchor != "a1" || len(g.Members) != 1 || g.Members[0].ArtworkID != "a2" {
		t.Errorf("unexpected group: %+v", g)
	}
}

const auctionPayload = `{
	"full_matches": [{"url": "https://www.christies.com/lot/7.jpg", "score": 0.92}],
	"pages_with_image": [{"url": "https://www.christies.com/lot/7", "page_title": "Lot 7",
		"full_matching_images": ["https://www.christies.com/lot/7.jpg"]}],
	"web_entities": [{"description": "Jan Matejko", "score": 0.8}],
	"image_source": "database",
	"processing_time_ms": 420,
	"api_cost_units": 3
}`

func TestSubmitVisionResults_ThenReports(t *testing.T) {
	h := newTestRouter(t, RouterOptions{})

	rr := do(t, h, "POST", "/artworks/a1/vision-results", auctionPayload)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}
	created := decode[SearchRequestResponse](t, rr)
	if !created.HasInterestingResults || created.InterestScore != 40 {
		t.Fatalf("expected interesting score 40, got %+v", created)
	}
	if loc := rr.Header().Get("Location"); loc != "/vision/requests/"+created.ID {
		t.Errorf("location: got %q", loc)
	}
	if len(created.Matches) != 2 {
		t.Errorf("expected full + page match, got %d", len(created.Matches))
	}

	rr = do(t, h, "GET", "/vision/requests/"+created.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get request status: %d", rr.Code)
	}
	got := decode[SearchRequestResponse](t, rr)
	if got.Matches[0].PageTitle != "Lot 7" || len(got.Entities) != 1 {
		t.Errorf("unexpected stored request: %+v", got)
	}

	rr = do(t, h, "GET", "/vision/findings", "")
	if f := decode[FindingsResponse](t, rr); f.Total != 1 || f.Limit != 50 {
		t.Errorf("unexpected findings: %+v", f)
	}

	rr = do(t, h, "GET", "/vision/artworks/a1/searches", "")
	if s := decode[ArtworkSearchesResponse](t, rr); s.Total != 1 {
		t.Errorf("unexpected searches: %+v", s)
	}

	rr = do(t, h, "GET", "/vision/domains/suspicious", "")
	sus := decode[DomainsResponse](t, rr)
	if sus.Total != 1 || sus.Domains[0].Domain != "christies.com" || sus.Domains[0].TotalAppearances != 2 {
		t.Errorf("unexpected suspicious domains: %+v", sus)
	}

	rr = do(t, h, "GET", "/vision/domains/category/auction", "")
	if d := decode[DomainsResponse](t, rr); d.Category != "auction" || d.Total != 1 {
		t.Errorf("unexpected auction domains: %+v", d)
	}

	rr = do(t, h, "GET", "/vision/cost-summary", "")
	if c := decode[CostSummaryResponse](t, rr); c.TotalAPIUnits != 3 || c.EstimatedCostUSD != 0 {
		t.Errorf("unexpected cost: %+v", c)
	}

	rr = do(t, h, "GET", "/vision/stats", "")
	if st := decode[StatsResponse](t, rr); st.TotalRequests != 1 || st.InterestingRequests != 1 {
		t.Errorf("unexpected stats: %+v", st)
	}
}

func TestSubmitVisionResults_Errors(t *testing.T) {
	h := newTestRouter(t, RouterOptions{})

	rr := do(t, h, "POST", "/artworks/a1/vision-results", "{not json")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed body: got %d", rr.Code)
	}

	rr = do(t, h, "POST", "/artworks/a1/vision-results", `{"image_source": "camera"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid source: got %d", rr.Code)
	}
	if resp := decode[ErrorResponse](t, rr); resp.Code != ErrorCodeValidationFailed {
		t.Errorf("code: got %s", resp.Code)
	}
}

func TestReports_Validation(t *testing.T) {
	h := newTestRouter(t, RouterOptions{})

	for _, target := range []string{
		"/vision/findings?limit=0",
		"/vision/findings?limit=501",
		"/vision/findings?offset=-1",
		"/vision/domains/category/blog",
	} {
		if rr := do(t, h, "GET", target, ""); rr.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", target, rr.Code)
		}
	}
}

func TestGetSearchRequest_NotFound(t *testing.T) {
	h := newTestRouter(t, RouterOptions{})

	rr := do(t, h, "GET", "/vision/requests/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
	if resp := decode[ErrorResponse](t, rr); resp.Code != ErrorCodeNotFound {
		t.Errorf("code: got %s", resp.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	h := newTestRouter(t, RouterOptions{APIKeys: []string{"secret"}})

	rr := do(t, h, "GET", "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if resp := decode[HealthResponse](t, rr); resp.Status != "ok" {
		t.Errorf("status: got %q", resp.Status)
	}
}

func TestRouter_AuthAndUnknownRoute(t *testing.T) {
	h := newTestRouter(t, RouterOptions{APIKeys: []string{"secret"}})

	if rr := do(t, h, "GET", "/vision/stats", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("no token: got %d, want 401", rr.Code)
	}

	req := httptest.NewRequest("GET", "/vision/stats", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("with token: got %d, want 200", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	req = httptest.NewRequest("GET", "/collections", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound || !strings.Contains(rr.Body.String(), "not_found") {
		t.Errorf("unknown route: got %d %s", rr.Code, rr.Body.String())
	}
}
