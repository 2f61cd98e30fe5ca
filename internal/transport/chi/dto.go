package chi

import (
	"time"

	domrep "github.com/kailas-cloud/artwatch/internal/domain/reputation"
	domsim "github.com/kailas-cloud/artwatch/internal/domain/similarity"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
	findingsuc "github.com/kailas-cloud/artwatch/internal/usecase/findings"
)

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeRateLimited      ErrorCode = "rate_limited"
	ErrorCodeStoreUnavailable ErrorCode = "store_unavailable"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// --- Similarity ---

// SimilarResponse is returned by GET /artworks/{artwork_id}/similar.
type SimilarResponse struct {
	SourceArtworkID string        `json:"source_artwork_id"`
	Method          string        `json:"method"`
	Count           int           `json:"count"`
	SimilarArtworks []SimilarItem `json:"similar_artworks"`
}

// SimilarItem is one similarity candidate.
type SimilarItem struct {
	ArtworkID      string   `json:"artwork_id"`
	Methods        []string `json:"methods"`
	Similarity     float64  `json:"similarity"`
	HammingDist    *int     `json:"hamming_distance,omitempty"`
	HashScore      *float64 `json:"hash_similarity,omitempty"`
	EmbeddingScore *float64 `json:"clip_similarity,omitempty"`
	Band           string   `json:"band,omitempty"`
}

// DuplicatesResponse is returned by GET /artworks/duplicates.
type DuplicatesResponse struct {
	Threshold       int              `json:"threshold"`
	DuplicateGroups int              `json:"duplicate_groups"`
	Groups          []DuplicateGroup `json:"groups"`
}

// DuplicateGroup is one anchor with its near-duplicates.
type DuplicateGroup struct {
	Anchor     string            `json:"anchor_artwork_id"`
	ArtworkIDs []string          `json:"artwork_ids"`
	Members    []DuplicateMember `json:"duplicates"`
}

// DuplicateMember is a non-anchor group member.
type DuplicateMember struct {
	ArtworkID       string `json:"artwork_id"`
	HammingDistance int    `json:"hamming_distance"`
}

// --- Scoring ---

// VisionResultsRequest is the body of POST /artworks/{artwork_id}/vision-results.
type VisionResultsRequest struct {
	FullMatches      []ImageHitDTO `json:"full_matches"`
	PartialMatches   []ImageHitDTO `json:"partial_matches"`
	VisuallySimilar  []ImageHitDTO `json:"visually_similar"`
	PagesWithImage   []PageHitDTO  `json:"pages_with_image"`
	WebEntities      []EntityDTO   `json:"web_entities"`
	ImageSource      string        `json:"image_source"`
	ProcessingTimeMS *int64        `json:"processing_time_ms"`
	APICostUnits     int           `json:"api_cost_units"`
}

// ImageHitDTO is a raw image match.
type ImageHitDTO struct {
	URL   string   `json:"url"`
	Score *float64 `json:"score,omitempty"`
}

// PageHitDTO is a raw page embedding the searched image.
type PageHitDTO struct {
	URL                   string   `json:"url"`
	PageTitle             string   `json:"page_title,omitempty"`
	FullMatchingImages    []string `json:"full_matching_images,omitempty"`
	PartialMatchingImages []string `json:"partial_matching_images,omitempty"`
}

// EntityDTO is a web entity.
type EntityDTO struct {
	Description string   `json:"description"`
	Score       *float64 `json:"score,omitempty"`
}

// SearchRequestResponse describes one scored search.
type SearchRequestResponse struct {
	ID                    string      `json:"id"`
	ArtworkID             string      `json:"artwork_id"`
	ImageSource           string      `json:"image_source"`
	TotalFullMatches      int         `json:"total_full_matches"`
	TotalPartialMatches   int         `json:"total_partial_matches"`
	TotalSimilarImages    int         `json:"total_similar_images"`
	TotalPagesWithImage   int         `json:"total_pages_with_image"`
	BestMatchScore        *float64    `json:"best_match_score"`
	HasInterestingResults bool        `json:"has_interesting_results"`
	InterestScore         int         `json:"interest_score"`
	APICostUnits          int         `json:"api_cost_units"`
	ProcessingTimeMS      *int64      `json:"processing_time_ms"`
	CreatedAt             time.Time   `json:"created_at"`
	Matches               []MatchDTO  `json:"matches,omitempty"`
	Entities              []EntityDTO `json:"entities,omitempty"`
}

// MatchDTO is a stored match of an interesting search.
type MatchDTO struct {
	MatchType       string   `json:"match_type"`
	ImageURL        string   `json:"image_url,omitempty"`
	PageURL         string   `json:"page_url,omitempty"`
	PageTitle       string   `json:"page_title,omitempty"`
	Domain          string   `json:"domain"`
	DomainCategory  string   `json:"domain_category"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
}

// --- Findings ---

// FindingsResponse is returned by GET /vision/findings.
type FindingsResponse struct {
	Total    int                     `json:"total"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
	Findings []SearchRequestResponse `json:"findings"`
}

// ArtworkSearchesResponse is returned by GET /vision/artworks/{artwork_id}/searches.
type ArtworkSearchesResponse struct {
	ArtworkID string                  `json:"artwork_id"`
	Total     int                     `json:"total"`
	Searches  []SearchRequestResponse `json:"searches"`
}

// DomainsResponse lists domain reputations.
type DomainsResponse struct {
	Category string      `json:"category,omitempty"`
	Total    int         `json:"total"`
	Domains  []DomainDTO `json:"domains"`
}

// DomainDTO is one domain reputation.
type DomainDTO struct {
	Domain            string    `json:"domain"`
	Category          string    `json:"category"`
	TotalAppearances  int       `json:"total_appearances"`
	ArtworksFound     []string  `json:"artworks_found"`
	FirstSeen         time.Time `json:"first_seen"`
	LastSeen          time.Time `json:"last_seen"`
	FlaggedSuspicious bool      `json:"flagged_suspicious"`
}

// CostSummaryResponse is returned by GET /vision/cost-summary.
type CostSummaryResponse struct {
	TotalAPIUnits    int64   `json:"total_api_units"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
}

// StatsResponse is returned by GET /vision/stats.
type StatsResponse struct {
	TotalRequests       int64 `json:"total_requests"`
	TotalUnits          int64 `json:"total_units"`
	UniqueArtworks      int64 `json:"unique_artworks"`
	InterestingRequests int64 `json:"interesting_requests"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// --- Converters ---

func similarToDTO(r *domsim.Result) SimilarItem {
	methods := make([]string, len(r.Methods()))
	for i, m := range r.Methods() {
		methods[i] = string(m)
	}
	item := SimilarItem{
		ArtworkID:  r.CandidateID(),
		Methods:    methods,
		Similarity: r.Score(),
	}
	if d, ok := r.Distance(); ok {
		item.HammingDist = &d
		hs := r.HashScore()
		item.HashScore = &hs
		item.Band = string(domsim.HashBand(d))
	}
	if r.FoundBy(domsim.Embedding) {
		es := r.EmbeddingScore()
		item.EmbeddingScore = &es
		if item.Band == "" {
			item.Band = string(domsim.EmbeddingBand(es))
		}
	}
	return item
}

func groupToDTO(g *domsim.Group) DuplicateGroup {
	members := make([]DuplicateMember, len(g.Members))
	for i, m := range g.Members {
		members[i] = DuplicateMember{ArtworkID: m.ArtworkID, HammingDistance: m.Distance}
	}
	return DuplicateGroup{Anchor: g.Anchor, ArtworkIDs: g.ArtworkIDs(), Members: members}
}

func payloadFromDTO(req *VisionResultsRequest) vision.Payload {
	hits := func(in []ImageHitDTO) []vision.ImageHit {
		out := make([]vision.ImageHit, len(in))
		for i, h := range in {
			out[i] = vision.ImageHit{URL: h.URL, Score: h.Score}
		}
		return out
	}
	pages := make([]vision.PageHit, len(req.PagesWithImage))
	for i, p := range req.PagesWithImage {
		pages[i] = vision.PageHit{
			URL:                   p.URL,
			Title:                 p.PageTitle,
			FullMatchingImages:    p.FullMatchingImages,
			PartialMatchingImages: p.PartialMatchingImages,
		}
	}
	entities := make([]vision.Entity, len(req.WebEntities))
	for i, e := range req.WebEntities {
		entities[i] = vision.Entity{Description: e.Description, Score: e.Score}
	}
	return vision.Payload{
		FullMatches:      hits(req.FullMatches),
		PartialMatches:   hits(req.PartialMatches),
		SimilarImages:    hits(req.VisuallySimilar),
		Pages:            pages,
		Entities:         entities,
		ImageSource:      vision.ImageSource(req.ImageSource),
		ProcessingTimeMS: req.ProcessingTimeMS,
		APICostUnits:     req.APICostUnits,
	}
}

func requestToDTO(r *vision.SearchRequest) SearchRequestResponse {
	out := SearchRequestResponse{
		ID:                    r.ID,
		ArtworkID:             r.ArtworkID,
		ImageSource:           string(r.ImageSource),
		TotalFullMatches:      r.Counts.Full,
		TotalPartialMatches:   r.Counts.Partial,
		TotalSimilarImages:    r.Counts.Similar,
		TotalPagesWithImage:   r.Counts.Pages,
		BestMatchScore:        r.BestMatchScore,
		HasInterestingResults: r.HasInterestingResults(),
		InterestScore:         r.InterestScore,
		APICostUnits:          r.APICostUnits,
		ProcessingTimeMS:      r.ProcessingTimeMS,
		CreatedAt:             r.CreatedAt,
	}
	for _, m := range r.Matches() {
		out.Matches = append(out.Matches, MatchDTO{
			MatchType:       string(m.Type),
			ImageURL:        m.ImageURL,
			PageURL:         m.PageURL,
			PageTitle:       m.PageTitle,
			Domain:          m.Domain,
			DomainCategory:  string(m.Category),
			ConfidenceScore: m.Confidence,
		})
	}
	for _, e := range r.Entities() {
		out.Entities = append(out.Entities, EntityDTO{Description: e.Description, Score: e.Score})
	}
	return out
}

func requestsToDTO(in []vision.SearchRequest) []SearchRequestResponse {
	out := make([]SearchRequestResponse, len(in))
	for i := range in {
		out[i] = requestToDTO(&in[i])
	}
	return out
}

func domainsToDTO(in []domrep.Reputation) []DomainDTO {
	out := make([]DomainDTO, len(in))
	for i, r := range in {
		artworks := r.ArtworksFound
		if artworks == nil {
			artworks = []string{}
		}
		out[i] = DomainDTO{
			Domain:            r.Domain,
			Category:          string(r.Category),
			TotalAppearances:  r.TotalAppearances,
			ArtworksFound:     artworks,
			FirstSeen:         r.FirstSeen,
			LastSeen:          r.LastSeen,
			FlaggedSuspicious: r.FlaggedSuspicious,
		}
	}
	return out
}

func costToDTO(c findingsuc.CostSummary) CostSummaryResponse {
	return CostSummaryResponse{TotalAPIUnits: c.TotalUnits, EstimatedCostUSD: c.EstimatedUSD}
}

func statsToDTO(s vision.Stats) StatsResponse {
	return StatsResponse{
		TotalRequests:       s.Requests,
		TotalUnits:          s.TotalCostUnits,
		UniqueArtworks:      s.ArtworksSearched,
		InterestingRequests: s.InterestingRequests,
	}
}
