package artwatch

import (
	"github.com/kailas-cloud/artwatch/internal/domain/feature"
	domrep "github.com/kailas-cloud/artwatch/internal/domain/reputation"
	domsim "github.com/kailas-cloud/artwatch/internal/domain/similarity"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
	findingsuc "github.com/kailas-cloud/artwatch/internal/usecase/findings"
	scoringuc "github.com/kailas-cloud/artwatch/internal/usecase/scoring"
)

func recordToDomain(r *FeatureRecord) feature.Record {
	return feature.Record{
		ArtworkID: r.ArtworkID,
		PHash:     r.PHash,
		DHash:     r.DHash,
		AHash:     r.AHash,
		Embedding: r.Embedding,
		Quality: feature.Quality{
			Width:         r.Width,
			Height:        r.Height,
			Format:        r.Format,
			FileSizeBytes: r.FileSizeBytes,
			Sharpness:     r.Sharpness,
			Contrast:      r.Contrast,
			Brightness:    r.Brightness,
			Grayscale:     r.Grayscale,
			ModelVersion:  r.ModelVersion,
		},
		ExtractedAt: r.ExtractedAt,
	}
}

func methodToDomain(m Method) (domsim.Method, bool) {
	return domsim.ParseMethod(string(m))
}

func methodFromDomain(m domsim.Method) Method {
	switch m {
	case domsim.Hash:
		return MethodHash
	case domsim.Embedding:
		return MethodClip
	default:
		return MethodHybrid
	}
}

func similarFromDomain(r *domsim.Result) SimilarArtwork {
	methods := make([]Method, len(r.Methods()))
	for i, m := range r.Methods() {
		methods[i] = methodFromDomain(m)
	}
	out := SimilarArtwork{
		ArtworkID:  r.CandidateID(),
		Methods:    methods,
		Similarity: r.Score(),
	}
	if d, ok := r.Distance(); ok {
		hs := r.HashScore()
		out.HammingDistance = &d
		out.HashSimilarity = &hs
		out.Band = string(domsim.HashBand(d))
	}
	if r.FoundBy(domsim.Embedding) {
		es := r.EmbeddingScore()
		out.ClipSimilarity = &es
		if out.Band == "" {
			out.Band = string(domsim.EmbeddingBand(es))
		}
	}
	return out
}

func groupFromDomain(g *domsim.Group) DuplicateGroup {
	dups := make([]Duplicate, len(g.Members))
	for i, m := range g.Members {
		dups[i] = Duplicate{ArtworkID: m.ArtworkID, HammingDistance: m.Distance}
	}
	return DuplicateGroup{Anchor: g.Anchor, ArtworkIDs: g.ArtworkIDs(), Duplicates: dups}
}

func payloadToDomain(v *VisionResults) vision.Payload {
	hits := func(in []ImageHit) []vision.ImageHit {
		out := make([]vision.ImageHit, len(in))
		for i, h := range in {
			out[i] = vision.ImageHit{URL: h.URL, Score: h.Score}
		}
		return out
	}
	pages := make([]vision.PageHit, len(v.PagesWithImage))
	for i, p := range v.PagesWithImage {
		pages[i] = vision.PageHit{
			URL:                   p.URL,
			Title:                 p.PageTitle,
			FullMatchingImages:    p.FullMatchingImages,
			PartialMatchingImages: p.PartialMatchingImages,
		}
	}
	entities := make([]vision.Entity, len(v.WebEntities))
	for i, e := range v.WebEntities {
		entities[i] = vision.Entity{Description: e.Description, Score: e.Score}
	}
	return vision.Payload{
		FullMatches:      hits(v.FullMatches),
		PartialMatches:   hits(v.PartialMatches),
		SimilarImages:    hits(v.VisuallySimilar),
		Pages:            pages,
		Entities:         entities,
		ImageSource:      vision.ImageSource(v.ImageSource),
		ProcessingTimeMS: v.ProcessingTimeMS,
		APICostUnits:     v.APICostUnits,
	}
}

func requestFromDomain(r *vision.SearchRequest) SearchRequest {
	out := SearchRequest{
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
		out.Matches = append(out.Matches, Match{
			Type:       string(m.Type),
			ImageURL:   m.ImageURL,
			PageURL:    m.PageURL,
			PageTitle:  m.PageTitle,
			Domain:     m.Domain,
			Category:   string(m.Category),
			Confidence: m.Confidence,
		})
	}
	for _, e := range r.Entities() {
		out.Entities = append(out.Entities, Entity{Description: e.Description, Score: e.Score})
	}
	return out
}

func requestsFromDomain(in []vision.SearchRequest) []SearchRequest {
	out := make([]SearchRequest, len(in))
	for i := range in {
		out[i] = requestFromDomain(&in[i])
	}
	return out
}

func reputationFromDomain(r *domrep.Reputation) DomainReputation {
	artworks := r.ArtworksFound
	if artworks == nil {
		artworks = []string{}
	}
	return DomainReputation{
		Domain:            r.Domain,
		Category:          string(r.Category),
		TotalAppearances:  r.TotalAppearances,
		ArtworksFound:     artworks,
		FirstSeen:         r.FirstSeen,
		LastSeen:          r.LastSeen,
		FlaggedSuspicious: r.FlaggedSuspicious,
	}
}

func reputationsFromDomain(in []domrep.Reputation) []DomainReputation {
	out := make([]DomainReputation, len(in))
	for i := range in {
		out[i] = reputationFromDomain(&in[i])
	}
	return out
}

func statsFromDomain(s vision.Stats) Stats {
	return Stats{
		TotalRequests:       s.Requests,
		InterestingRequests: s.InterestingRequests,
		UniqueArtworks:      s.ArtworksSearched,
		TotalUnits:          s.TotalCostUnits,
	}
}

func costFromDomain(c findingsuc.CostSummary) CostSummary {
	return CostSummary{TotalAPIUnits: c.TotalUnits, EstimatedCostUSD: c.EstimatedUSD}
}

func weightsFromEngine(w scoringuc.Weights) Weights {
	return Weights{
		Full:                  w.Full,
		Partial:               w.Partial,
		Similar:               w.Similar,
		Auction:               w.Auction,
		Marketplace:           w.Marketplace,
		Social:                w.Social,
		Museum:                w.Museum,
		Academic:              w.Academic,
		Other:                 w.Other,
		Suspicious:            w.Suspicious,
		Page:                  w.Page,
		Threshold:             w.Threshold,
		SimilarCommercialOnly: w.SimilarCommercialOnly,
	}
}
