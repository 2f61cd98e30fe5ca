package similarity

// Result is a single similarity candidate.
type Result struct {
	candidateID    string
	methods        []Method
	distance       int
	score          float64
	hashScore      float64
	embeddingScore float64
}

// NewHashResult creates a candidate found by perceptual hash.
func NewHashResult(candidateID string, distance int) Result {
	s := HashSimilarity(distance)
	return Result{
		candidateID: candidateID,
		methods:     []Method{Hash},
		distance:    distance,
		score:       s,
		hashScore:   s,
	}
}

// NewEmbeddingResult creates a candidate found by embedding similarity.
func NewEmbeddingResult(candidateID string, score float64) Result {
	s := clamp01(score)
	return Result{
		candidateID:    candidateID,
		methods:        []Method{Embedding},
		distance:       -1,
		score:          s,
		embeddingScore: s,
	}
}

// Combine merges a hash and an embedding result for the same candidate.
// The combined score is the mean of the two normalized similarities.
func Combine(h, e Result) Result {
	return Result{
		candidateID:    h.candidateID,
		methods:        []Method{Hash, Embedding},
		distance:       h.distance,
		score:          (h.hashScore + e.embeddingScore) / 2,
		hashScore:      h.hashScore,
		embeddingScore: e.embeddingScore,
	}
}

// CandidateID returns the matched artwork identifier.
func (r *Result) CandidateID() string { return r.candidateID }

// Methods returns the strategies that found this candidate.
func (r *Result) Methods() []Method { return r.methods }

// Method returns Hybrid when both strategies agree, otherwise the single strategy.
func (r *Result) Method() Method {
	if len(r.methods) > 1 {
		return Hybrid
	}
	return r.methods[0]
}

// Distance returns the Hamming distance; ok is false when no hash comparison was made.
func (r *Result) Distance() (int, bool) { return r.distance, r.distance >= 0 }

// Score returns the normalized similarity in [0,1].
func (r *Result) Score() float64 { return r.score }

// HashScore returns the hash component (0 when absent).
func (r *Result) HashScore() float64 { return r.hashScore }

// EmbeddingScore returns the embedding component (0 when absent).
func (r *Result) EmbeddingScore() float64 { return r.embeddingScore }

// FoundBy reports whether m contributed to this result.
func (r *Result) FoundBy(m Method) bool {
	for _, x := range r.methods {
		if x == m {
			return true
		}
	}
	return false
}
