package artwatch

import "time"

// Method selects the similarity signal.
type Method string

// Method constants.
const (
	MethodHash   Method = "hash"
	MethodClip   Method = "clip"
	MethodHybrid Method = "hybrid"
)

// FeatureRecord is the per-artwork feature set produced by the image pipeline.
// Hashes are 16 hex characters and come as a triple or not at all.
type FeatureRecord struct {
	ArtworkID string    `json:"artwork_id"`
	PHash     string    `json:"phash,omitempty"`
	DHash     string    `json:"dhash,omitempty"`
	AHash     string    `json:"ahash,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`

	Width         int       `json:"width,omitempty"`
	Height        int       `json:"height,omitempty"`
	Format        string    `json:"format,omitempty"`
	FileSizeBytes int64     `json:"file_size_bytes,omitempty"`
	Sharpness     float64   `json:"sharpness,omitempty"`
	Contrast      float64   `json:"contrast,omitempty"`
	Brightness    float64   `json:"brightness,omitempty"`
	Grayscale     bool      `json:"grayscale,omitempty"`
	ModelVersion  string    `json:"model_version,omitempty"`
	ExtractedAt   time.Time `json:"extracted_at,omitzero"`
}

// SimilarOptions tune a similarity query. Zero values select the method defaults.
type SimilarOptions struct {
	Method        Method
	HashThreshold *int
	ClipThreshold *float64
	Limit         int
}

// SimilarArtwork is one similarity candidate, best first.
type SimilarArtwork struct {
	ArtworkID       string   `json:"artwork_id"`
	Methods         []Method `json:"methods"`
	Similarity      float64  `json:"similarity"`
	HammingDistance *int     `json:"hamming_distance,omitempty"`
	HashSimilarity  *float64 `json:"hash_similarity,omitempty"`
	ClipSimilarity  *float64 `json:"clip_similarity,omitempty"`
	Band            string   `json:"band,omitempty"`
}

// DuplicateGroup is an anchor artwork with its near-duplicates.
type DuplicateGroup struct {
	Anchor     string      `json:"anchor_artwork_id"`
	ArtworkIDs []string    `json:"artwork_ids"`
	Duplicates []Duplicate `json:"duplicates"`
}

// Duplicate is a group member and its distance to the anchor.
type Duplicate struct {
	ArtworkID       string `json:"artwork_id"`
	HammingDistance int    `json:"hamming_distance"`
}

// VisionResults is the raw outcome of one reverse image search.
// The JSON shape matches the body of POST /artworks/{artwork_id}/vision-results.
type VisionResults struct {
	FullMatches      []ImageHit `json:"full_matches"`
	PartialMatches   []ImageHit `json:"partial_matches"`
	VisuallySimilar  []ImageHit `json:"visually_similar"`
	PagesWithImage   []PageHit  `json:"pages_with_image"`
	WebEntities      []Entity   `json:"web_entities"`
	ImageSource      string     `json:"image_source"`
	ProcessingTimeMS *int64     `json:"processing_time_ms"`
	APICostUnits     int        `json:"api_cost_units"`
}

// ImageHit is a matched image URL with an optional confidence.
type ImageHit struct {
	URL   string   `json:"url"`
	Score *float64 `json:"score,omitempty"`
}

// PageHit is a page that embeds the searched image.
type PageHit struct {
	URL                   string   `json:"url"`
	PageTitle             string   `json:"page_title,omitempty"`
	FullMatchingImages    []string `json:"full_matching_images,omitempty"`
	PartialMatchingImages []string `json:"partial_matching_images,omitempty"`
}

// Entity is a web entity associated with the image.
type Entity struct {
	Description string   `json:"description"`
	Score       *float64 `json:"score,omitempty"`
}

// SearchRequest is a scored search. Matches and Entities are set only when
// HasInterestingResults is true.
type SearchRequest struct {
	ID                    string    `json:"id"`
	ArtworkID             string    `json:"artwork_id"`
	ImageSource           string    `json:"image_source"`
	TotalFullMatches      int       `json:"total_full_matches"`
	TotalPartialMatches   int       `json:"total_partial_matches"`
	TotalSimilarImages    int       `json:"total_similar_images"`
	TotalPagesWithImage   int       `json:"total_pages_with_image"`
	BestMatchScore        *float64  `json:"best_match_score"`
	HasInterestingResults bool      `json:"has_interesting_results"`
	InterestScore         int       `json:"interest_score"`
	APICostUnits          int       `json:"api_cost_units"`
	ProcessingTimeMS      *int64    `json:"processing_time_ms"`
	CreatedAt             time.Time `json:"created_at"`
	Matches               []Match   `json:"matches,omitempty"`
	Entities              []Entity  `json:"entities,omitempty"`
}

// Match is a stored, classified hit of an interesting search.
type Match struct {
	Type       string   `json:"match_type"`
	ImageURL   string   `json:"image_url,omitempty"`
	PageURL    string   `json:"page_url,omitempty"`
	PageTitle  string   `json:"page_title,omitempty"`
	Domain     string   `json:"domain"`
	Category   string   `json:"domain_category"`
	Confidence *float64 `json:"confidence_score,omitempty"`
}

// DomainReputation is the running aggregate of one domain across interesting searches.
type DomainReputation struct {
	Domain            string    `json:"domain"`
	Category          string    `json:"category"`
	TotalAppearances  int       `json:"total_appearances"`
	ArtworksFound     []string  `json:"artworks_found"`
	FirstSeen         time.Time `json:"first_seen"`
	LastSeen          time.Time `json:"last_seen"`
	FlaggedSuspicious bool      `json:"flagged_suspicious"`
}

// Stats aggregates search volume.
type Stats struct {
	TotalRequests       int64 `json:"total_requests"`
	InterestingRequests int64 `json:"interesting_requests"`
	UniqueArtworks      int64 `json:"unique_artworks"`
	TotalUnits          int64 `json:"total_units"`
}

// CostSummary reports accumulated search spend.
type CostSummary struct {
	TotalAPIUnits    int64   `json:"total_api_units"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
}

// Weights are the interest-scoring weights. Threshold is inclusive.
type Weights struct {
	Full, Partial, Similar                                int
	Auction, Marketplace, Social, Museum, Academic, Other int
	Suspicious, Page, Threshold                           int
	SimilarCommercialOnly                                 bool
}

// ClassifierPatterns are substring tables used to classify result domains.
type ClassifierPatterns struct {
	Auction     []string
	Marketplace []string
	Museum      []string
	Social      []string
	Academic    []string
	Suspicious  []string
}
