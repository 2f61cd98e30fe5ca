package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, http.NoBody))
	return rr
}

func count(method, path, status string) float64 {
	return testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(method, path, status))
}

func TestMiddleware_LabelsNestedRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Route("/vision", func(r chi.Router) {
		r.Get("/requests/{request_id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	})
	before := count("GET", "/vision/requests/{request_id}", "404")

	serve(r, "GET", "/vision/requests/9f1c")

	if got := count("GET", "/vision/requests/{request_id}", "404") - before; got != 1 {
		t.Errorf("got %v, want 1", got)
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/vision/stats", func(http.ResponseWriter, *http.Request) {})
	before := count("GET", UnmatchedRoute, "404")

	serve(r, "GET", "/artworks/7/unknown")

	if got := count("GET", UnmatchedRoute, "404") - before; got != 1 {
		t.Errorf("got %v, want 1", got)
	}
}

func TestMiddleware_WithoutRouterContext(t *testing.T) {
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	before := count("POST", UnmatchedRoute, "202")

	serve(h, "POST", "/artworks/7/vision-results")

	if got := count("POST", UnmatchedRoute, "202") - before; got != 1 {
		t.Errorf("got %v, want 1", got)
	}
}

func TestMiddleware_SkipsScrapePath(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware("/metrics"))
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# HELP")) })
	before := count("GET", "/metrics", "200")

	serve(r, "GET", "/metrics")

	if got := count("GET", "/metrics", "200") - before; got != 0 {
		t.Errorf("scrape recorded: %v", got)
	}
}

func TestMiddleware_StatusDefaultsAndFirstWriteWins(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/vision/cost-summary", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
		w.WriteHeader(http.StatusInternalServerError)
	})
	before := count("GET", "/vision/cost-summary", "200")

	serve(r, "GET", "/vision/cost-summary")

	if got := count("GET", "/vision/cost-summary", "200") - before; got != 1 {
		t.Errorf("got %v, want 1", got)
	}
	if n := testutil.CollectAndCount(HTTPRequestDuration); n == 0 {
		t.Error("expected duration observations")
	}
}
