package vision

// MatchType is the kind of web-search hit.
type MatchType string

// Match type constants.
const (
	MatchFull    MatchType = "full"
	MatchPartial MatchType = "partial"
	MatchSimilar MatchType = "similar"
	MatchPage    MatchType = "page"
)

// IsValid checks if the match type is one of the supported values.
func (t MatchType) IsValid() bool {
	return t == MatchFull || t == MatchPartial || t == MatchSimilar || t == MatchPage
}

// Match is a stored web-search hit, enriched with domain classification.
type Match struct {
	Type       MatchType
	ImageURL   string
	PageURL    string
	PageTitle  string
	Domain     string
	Category   Category
	Confidence *float64
}

// Entity is a web entity the search engine associated with the image.
type Entity struct {
	Description string
	Score       *float64
}
