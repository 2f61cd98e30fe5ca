package feature

import (
	"fmt"
	"time"
)

const (
	// HashHexLength is the hex length of a 64-bit perceptual hash.
	HashHexLength = 16
	// EmbeddingDimensions is the embedding width produced by the image encoder.
	EmbeddingDimensions = 512
)

// Quality holds image metadata computed alongside the features. Opaque to the engine.
type Quality struct {
	Width         int
	Height        int
	Format        string
	FileSizeBytes int64
	Sharpness     float64
	Contrast      float64
	Brightness    float64
	Grayscale     bool
	ModelVersion  string
}

// Record is the per-artwork feature set: three perceptual hashes and an optional embedding.
// Records are replaced wholesale on re-analysis and never partially mutated by the engine.
type Record struct {
	ArtworkID   string
	PHash       string
	DHash       string
	AHash       string
	Embedding   []float32
	Quality     Quality
	ExtractedAt time.Time
}

// HasPHash reports whether the record carries a perceptual hash.
func (r *Record) HasPHash() bool { return r.PHash != "" }

// HasEmbedding reports whether the record carries an embedding.
func (r *Record) HasEmbedding() bool { return len(r.Embedding) > 0 }

// Validate checks producer invariants before a record is written by an import.
// The engine itself never calls Validate: malformed stored records degrade to "no match".
func (r *Record) Validate() error {
	if r.ArtworkID == "" {
		return fmt.Errorf("artwork id is required")
	}
	set := 0
	for _, h := range []string{r.PHash, r.DHash, r.AHash} {
		if h == "" {
			continue
		}
		set++
		if len(h) != HashHexLength {
			return fmt.Errorf("hash %q must be %d hex characters", h, HashHexLength)
		}
		if !isHex(h) {
			return fmt.Errorf("hash %q is not hexadecimal", h)
		}
	}
	if set != 0 && set != 3 {
		return fmt.Errorf("phash, dhash and ahash must be set together")
	}
	if len(r.Embedding) != 0 && len(r.Embedding) != EmbeddingDimensions {
		return fmt.Errorf("embedding must have %d dimensions, got %d", EmbeddingDimensions, len(r.Embedding))
	}
	return nil
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
