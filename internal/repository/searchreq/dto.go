package searchreq

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/artwatch/internal/domain/vision"
)

const (
	outcomeInteresting = "interesting"
	outcomeRoutine     = "routine"
)

// requestJSON is the stored form of a search request.
type requestJSON struct {
	ID               string       `json:"id"`
	ArtworkID        string       `json:"artwork_id"`
	ImageSource      string       `json:"image_source"`
	FullCount        int          `json:"full_matches_count"`
	PartialCount     int          `json:"partial_matches_count"`
	SimilarCount     int          `json:"similar_images_count"`
	PagesCount       int          `json:"pages_count"`
	BestMatchScore   *float64     `json:"best_match_score,omitempty"`
	InterestScore    int          `json:"interest_score"`
	APICostUnits     int          `json:"api_cost_units"`
	ProcessingTimeMS *int64       `json:"processing_time_ms,omitempty"`
	CreatedAt        int64        `json:"created_at"`
	Outcome          string       `json:"outcome"`
	Matches          []matchJSON  `json:"matches,omitempty"`
	Entities         []entityJSON `json:"entities,omitempty"`
}

type matchJSON struct {
	Type       string   `json:"type"`
	ImageURL   string   `json:"image_url,omitempty"`
	PageURL    string   `json:"page_url,omitempty"`
	PageTitle  string   `json:"page_title,omitempty"`
	Domain     string   `json:"domain,omitempty"`
	Category   string   `json:"category,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type entityJSON struct {
	Description string   `json:"description"`
	Score       *float64 `json:"score,omitempty"`
}

func toJSON(r *vision.SearchRequest) requestJSON {
	out := requestJSON{
		ID:               r.ID,
		ArtworkID:        r.ArtworkID,
		ImageSource:      string(r.ImageSource),
		FullCount:        r.Counts.Full,
		PartialCount:     r.Counts.Partial,
		SimilarCount:     r.Counts.Similar,
		PagesCount:       r.Counts.Pages,
		BestMatchScore:   r.BestMatchScore,
		InterestScore:    r.InterestScore,
		APICostUnits:     r.APICostUnits,
		ProcessingTimeMS: r.ProcessingTimeMS,
		CreatedAt:        r.CreatedAt.UnixMilli(),
		Outcome:          outcomeRoutine,
	}
	if in, ok := r.Outcome.(vision.Interesting); ok {
		out.Outcome = outcomeInteresting
		for _, m := range in.Matches {
			out.Matches = append(out.Matches, matchJSON{
				Type:       string(m.Type),
				ImageURL:   m.ImageURL,
				PageURL:    m.PageURL,
				PageTitle:  m.PageTitle,
				Domain:     m.Domain,
				Category:   string(m.Category),
				Confidence: m.Confidence,
			})
		}
		for _, e := range in.Entities {
			out.Entities = append(out.Entities, entityJSON{Description: e.Description, Score: e.Score})
		}
	}
	return out
}

func fromJSON(j requestJSON) (vision.SearchRequest, error) {
	r := vision.SearchRequest{
		ID:          j.ID,
		ArtworkID:   j.ArtworkID,
		ImageSource: vision.ImageSource(j.ImageSource),
		Counts: vision.Counts{
			Full:    j.FullCount,
			Partial: j.PartialCount,
			Similar: j.SimilarCount,
			Pages:   j.PagesCount,
		},
		BestMatchScore:   j.BestMatchScore,
		InterestScore:    j.InterestScore,
		APICostUnits:     j.APICostUnits,
		ProcessingTimeMS: j.ProcessingTimeMS,
		CreatedAt:        time.UnixMilli(j.CreatedAt).UTC(),
	}
	switch j.Outcome {
	case outcomeRoutine:
		r.Outcome = vision.Routine{}
	case outcomeInteresting:
		in := vision.Interesting{}
		for _, m := range j.Matches {
			in.Matches = append(in.Matches, vision.Match{
				Type:       vision.MatchType(m.Type),
				ImageURL:   m.ImageURL,
				PageURL:    m.PageURL,
				PageTitle:  m.PageTitle,
				Domain:     m.Domain,
				Category:   vision.Category(m.Category),
				Confidence: m.Confidence,
			})
		}
		for _, e := range j.Entities {
			in.Entities = append(in.Entities, vision.Entity{Description: e.Description, Score: e.Score})
		}
		r.Outcome = in
	default:
		return vision.SearchRequest{}, fmt.Errorf("unknown outcome %q", j.Outcome)
	}
	return r, nil
}
