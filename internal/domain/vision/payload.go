package vision

// ImageSource tells where the searched image came from.
type ImageSource string

// Image source constants.
const (
	SourceDatabase ImageSource = "database"
	SourceURL      ImageSource = "url"
)

// IsValid checks if the source is one of the supported values.
func (s ImageSource) IsValid() bool { return s == SourceDatabase || s == SourceURL }

// ImageHit is a raw matched image returned by the web search.
type ImageHit struct {
	URL   string
	Score *float64
}

// PageHit is a raw page that embeds the searched image.
type PageHit struct {
	URL                   string
	Title                 string
	FullMatchingImages    []string
	PartialMatchingImages []string
}

// Payload is the raw outcome of one completed web search for one artwork.
type Payload struct {
	FullMatches      []ImageHit
	PartialMatches   []ImageHit
	SimilarImages    []ImageHit
	Pages            []PageHit
	Entities         []Entity
	ImageSource      ImageSource
	ProcessingTimeMS *int64
	APICostUnits     int
}
