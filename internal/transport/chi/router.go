package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/artwatch/internal/metrics"
)

// RouterOptions configure the middleware stack.
type RouterOptions struct {
	APIKeys []string
	RPS     float64
	Burst   int
	Logger  *zap.Logger
}

// NewRouter mounts every artwatch route on a chi router.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(logger))
	r.Use(metrics.Middleware(metricsPath))

	r.Get(healthPath, s.HealthCheck)
	r.Get(metricsPath, s.Metrics)

	w := &wrapper{handler: s}

	// Auth and rate limiting run after routing so their rejections keep the route pattern.
	r.Group(func(r chi.Router) {
		r.Use(BearerAuthMiddleware(opts.APIKeys))
		r.Use(RateLimitMiddleware(opts.RPS, opts.Burst))

		r.Get("/artworks/duplicates", w.DetectDuplicates)
		r.Get("/artworks/{artwork_id}/similar", w.FindSimilar)
		r.Post("/artworks/{artwork_id}/vision-results", w.SubmitVisionResults)

		r.Route("/vision", func(r chi.Router) {
			r.Get("/findings", w.ListFindings)
			r.Get("/requests/{request_id}", w.GetSearchRequest)
			r.Get("/artworks/{artwork_id}/searches", w.ListArtworkSearches)
			r.Get("/domains/suspicious", s.ListSuspiciousDomains)
			r.Get("/domains/category/{category}", w.ListDomainsByCategory)
			r.Get("/cost-summary", s.GetCostSummary)
			r.Get("/stats", s.GetStats)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
	return r
}

// wrapper binds path and query parameters before calling the Server.
type wrapper struct {
	handler *Server
}

func paramError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
}

func (wr *wrapper) FindSimilar(w http.ResponseWriter, r *http.Request) {
	var artworkID string
	if err := bindPath(r, "artwork_id", &artworkID); err != nil {
		paramError(w, err)
		return
	}
	params, err := bindFindSimilarParams(r)
	if err != nil {
		paramError(w, err)
		return
	}
	wr.handler.FindSimilar(w, r, artworkID, params)
}

func (wr *wrapper) DetectDuplicates(w http.ResponseWriter, r *http.Request) {
	params, err := bindDetectDuplicatesParams(r)
	if err != nil {
		paramError(w, err)
		return
	}
	wr.handler.DetectDuplicates(w, r, params)
}

func (wr *wrapper) SubmitVisionResults(w http.ResponseWriter, r *http.Request) {
	var artworkID string
	if err := bindPath(r, "artwork_id", &artworkID); err != nil {
		paramError(w, err)
		return
	}
	wr.handler.SubmitVisionResults(w, r, artworkID)
}

func (wr *wrapper) ListFindings(w http.ResponseWriter, r *http.Request) {
	params, err := bindListFindingsParams(r)
	if err != nil {
		paramError(w, err)
		return
	}
	wr.handler.ListFindings(w, r, params)
}

func (wr *wrapper) GetSearchRequest(w http.ResponseWriter, r *http.Request) {
	var requestID string
	if err := bindPath(r, "request_id", &requestID); err != nil {
		paramError(w, err)
		return
	}
	wr.handler.GetSearchRequest(w, r, requestID)
}

func (wr *wrapper) ListArtworkSearches(w http.ResponseWriter, r *http.Request) {
	var artworkID string
	if err := bindPath(r, "artwork_id", &artworkID); err != nil {
		paramError(w, err)
		return
	}
	params, err := bindLimitParams(r)
	if err != nil {
		paramError(w, err)
		return
	}
	wr.handler.ListArtworkSearches(w, r, artworkID, params)
}

func (wr *wrapper) ListDomainsByCategory(w http.ResponseWriter, r *http.Request) {
	var category string
	if err := bindPath(r, "category", &category); err != nil {
		paramError(w, err)
		return
	}
	params, err := bindLimitParams(r)
	if err != nil {
		paramError(w, err)
		return
	}
	wr.handler.ListDomainsByCategory(w, r, category, params)
}
