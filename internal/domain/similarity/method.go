package similarity

// Method is a similarity detection strategy.
type Method string

// Method constants.
const (
	Hash      Method = "hash"
	Embedding Method = "embedding"
	// Hybrid merges Hash and Embedding candidates.
	Hybrid Method = "hybrid"
)

// ParseMethod maps user-facing names to a Method. "clip" and "perceptual_hash"
// are accepted as aliases used by older clients.
func ParseMethod(s string) (Method, bool) {
	switch s {
	case "hash", "phash", "perceptual_hash":
		return Hash, true
	case "embedding", "clip", "clip_embedding":
		return Embedding, true
	case "hybrid", "":
		return Hybrid, true
	}
	return "", false
}
