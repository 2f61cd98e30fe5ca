package similarity

// Band is a human-readable similarity grade.
type Band string

// Band constants.
const (
	BandIdentical   Band = "identical"
	BandVerySimilar Band = "very_similar"
	BandSimilar     Band = "similar"
	BandSomewhat    Band = "somewhat_similar"
	BandDistinct    Band = "distinct"
)

// Hash distance band edges (inclusive).
const (
	HashIdenticalMax   = 5
	HashVerySimilarMax = 10
	HashSimilarMax     = 15
	HashSomewhatMax    = 20
)

// Embedding similarity band edges (inclusive lower bounds).
const (
	EmbeddingHighMin   = 0.90
	EmbeddingMediumMin = 0.80
	EmbeddingLowMin    = 0.70
)

// HashBand grades a Hamming distance.
func HashBand(distance int) Band {
	switch {
	case distance <= HashIdenticalMax:
		return BandIdentical
	case distance <= HashVerySimilarMax:
		return BandVerySimilar
	case distance <= HashSimilarMax:
		return BandSimilar
	case distance <= HashSomewhatMax:
		return BandSomewhat
	}
	return BandDistinct
}

// EmbeddingBand grades a cosine similarity.
func EmbeddingBand(score float64) Band {
	switch {
	case score >= EmbeddingHighMin:
		return BandVerySimilar
	case score >= EmbeddingMediumMin:
		return BandSimilar
	case score >= EmbeddingLowMin:
		return BandSomewhat
	}
	return BandDistinct
}
