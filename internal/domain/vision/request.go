package vision

import "time"

// Outcome is the terminal state of a scored search: Interesting or Routine.
type Outcome interface {
	isOutcome()
}

// Interesting carries everything a reviewer needs. Only interesting searches store rows.
type Interesting struct {
	Matches  []Match
	Entities []Entity
}

// Routine is a search not worth a human's attention. It stores no match or entity rows.
type Routine struct{}

func (Interesting) isOutcome() {}
func (Routine) isOutcome()     {}

// Counts summarizes raw hit volumes, kept for every search.
type Counts struct {
	Full    int
	Partial int
	Similar int
	Pages   int
}

// SearchRequest is the append-only record of one scored web search.
type SearchRequest struct {
	ID               string
	ArtworkID        string
	ImageSource      ImageSource
	Counts           Counts
	BestMatchScore   *float64
	InterestScore    int
	APICostUnits     int
	ProcessingTimeMS *int64
	CreatedAt        time.Time
	Outcome          Outcome
}

// HasInterestingResults reports whether the search was classified as interesting.
func (r *SearchRequest) HasInterestingResults() bool {
	_, ok := r.Outcome.(Interesting)
	return ok
}

// Matches returns stored matches; nil for routine searches.
func (r *SearchRequest) Matches() []Match {
	if in, ok := r.Outcome.(Interesting); ok {
		return in.Matches
	}
	return nil
}

// Entities returns stored web entities; nil for routine searches.
func (r *SearchRequest) Entities() []Entity {
	if in, ok := r.Outcome.(Interesting); ok {
		return in.Entities
	}
	return nil
}
