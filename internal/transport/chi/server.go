package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/artwatch/internal/domain"
	domsim "github.com/kailas-cloud/artwatch/internal/domain/similarity"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
	"github.com/kailas-cloud/artwatch/internal/logger"
	findingsuc "github.com/kailas-cloud/artwatch/internal/usecase/findings"
	healthuc "github.com/kailas-cloud/artwatch/internal/usecase/health"
	scoringuc "github.com/kailas-cloud/artwatch/internal/usecase/scoring"
	similarityuc "github.com/kailas-cloud/artwatch/internal/usecase/similarity"
)

// maxBodyBytes caps a vision-results payload.
const maxBodyBytes = 4 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers of the artwatch API.
type Server struct {
	similarity    *similarityuc.Service
	scoring       *scoringuc.Service
	findings      *findingsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	similarity *similarityuc.Service,
	scoring *scoringuc.Service,
	findings *findingsuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		similarity: similarity,
		scoring:    scoring,
		findings:   findings,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, ErrorCodeStoreUnavailable),
	}
	return s
}

// FindSimilar handles GET /artworks/{artwork_id}/similar.
func (s *Server) FindSimilar(w http.ResponseWriter, r *http.Request, artworkID string, params FindSimilarParams) {
	method := ""
	if params.Method != nil {
		method = *params.Method
	}
	m, ok := domsim.ParseMethod(method)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("method must be one of hash, clip, hybrid, got %q", method))
		return
	}

	q := similarityuc.NewQuery(artworkID, m)
	if params.Threshold != nil {
		q.HashThreshold = *params.Threshold
	}
	if params.ClipThreshold != nil {
		q.EmbeddingThreshold = *params.ClipThreshold
	}
	if params.Limit != nil {
		q.Limit = *params.Limit
	}

	ctx := logger.With(r.Context(), zap.String("artwork_id", artworkID), zap.String("method", string(m)))
	results, err := s.similarity.Find(ctx, q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]SimilarItem, len(results))
	for i := range results {
		items[i] = similarToDTO(&results[i])
	}
	writeJSON(w, http.StatusOK, SimilarResponse{
		SourceArtworkID: artworkID,
		Method:          string(m),
		Count:           len(items),
		SimilarArtworks: items,
	})
}

// DetectDuplicates handles GET /artworks/duplicates.
func (s *Server) DetectDuplicates(w http.ResponseWriter, r *http.Request, params DetectDuplicatesParams) {
	threshold := similarityuc.DefaultDuplicateThreshold
	if params.Threshold != nil {
		threshold = *params.Threshold
	}

	groups, err := s.similarity.FindDuplicates(r.Context(), threshold)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out := make([]DuplicateGroup, len(groups))
	for i := range groups {
		out[i] = groupToDTO(&groups[i])
	}
	writeJSON(w, http.StatusOK, DuplicatesResponse{
		Threshold:       threshold,
		DuplicateGroups: len(out),
		Groups:          out,
	})
}

// SubmitVisionResults handles POST /artworks/{artwork_id}/vision-results.
func (s *Server) SubmitVisionResults(w http.ResponseWriter, r *http.Request, artworkID string) {
	var req VisionResultsRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx := logger.With(r.Context(), zap.String("artwork_id", artworkID))
	p := payloadFromDTO(&req)
	sr, err := s.scoring.Score(ctx, artworkID, &p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	logger.FromContext(ctx).Info("Search scored",
		zap.String("request_id", sr.ID),
		zap.Int("interest_score", sr.InterestScore),
		zap.Bool("interesting", sr.HasInterestingResults()),
	)
	w.Header().Set("Location", "/vision/requests/"+sr.ID)
	writeJSON(w, http.StatusCreated, requestToDTO(&sr))
}

// ListFindings handles GET /vision/findings.
func (s *Server) ListFindings(w http.ResponseWriter, r *http.Request, params ListFindingsParams) {
	limit := findingsuc.DefaultFindingsLimit
	if params.Limit != nil {
		limit = *params.Limit
		if limit == 0 {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
				fmt.Sprintf("limit must be between 1 and %d", findingsuc.MaxFindingsLimit))
			return
		}
	}
	offset := derefInt(params.Offset)

	reqs, err := s.findings.ListInteresting(r.Context(), offset, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FindingsResponse{
		Total:    len(reqs),
		Limit:    limit,
		Offset:   offset,
		Findings: requestsToDTO(reqs),
	})
}

// GetSearchRequest handles GET /vision/requests/{request_id}.
func (s *Server) GetSearchRequest(w http.ResponseWriter, r *http.Request, requestID string) {
	sr, err := s.findings.GetRequest(r.Context(), requestID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requestToDTO(&sr))
}

// ListArtworkSearches handles GET /vision/artworks/{artwork_id}/searches.
func (s *Server) ListArtworkSearches(w http.ResponseWriter, r *http.Request, artworkID string, params LimitParams) {
	reqs, err := s.findings.ArtworkHistory(r.Context(), artworkID, derefInt(params.Limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ArtworkSearchesResponse{
		ArtworkID: artworkID,
		Total:     len(reqs),
		Searches:  requestsToDTO(reqs),
	})
}

// ListSuspiciousDomains handles GET /vision/domains/suspicious.
func (s *Server) ListSuspiciousDomains(w http.ResponseWriter, r *http.Request) {
	doms, err := s.findings.SuspiciousDomains(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DomainsResponse{Total: len(doms), Domains: domainsToDTO(doms)})
}

// ListDomainsByCategory handles GET /vision/domains/category/{category}.
func (s *Server) ListDomainsByCategory(w http.ResponseWriter, r *http.Request, category string, params LimitParams) {
	doms, err := s.findings.DomainsByCategory(r.Context(), vision.Category(category), derefInt(params.Limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DomainsResponse{
		Category: category,
		Total:    len(doms),
		Domains:  domainsToDTO(doms),
	})
}

// GetCostSummary handles GET /vision/cost-summary.
func (s *Server) GetCostSummary(w http.ResponseWriter, r *http.Request) {
	c, err := s.findings.Cost(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, costToDTO(c))
}

// GetStats handles GET /vision/stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.findings.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsToDTO(st))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message. Validation errors are built by
// the engine and passed through; everything else is reduced to its sentinel.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrRateLimited,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With(zap.String("request_id", middleware.GetReqID(r.Context())))
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
