package similarity

import (
	"math"
	"math/bits"
	"strconv"
)

const (
	// HashBits is the width of a perceptual hash.
	HashBits = 64
	// IncompatibleDistance is returned when two hashes cannot be compared.
	// It is larger than any distance a valid pair can produce.
	IncompatibleDistance = 999
)

// HammingDistance counts differing bits between two hex-encoded hashes.
// Returns IncompatibleDistance when either hash is empty, the lengths differ,
// or a hash is not valid hex. Missing features are a steady-state condition, not an error.
func HammingDistance(a, b string) int {
	if a == "" || b == "" || len(a) != len(b) {
		return IncompatibleDistance
	}

	// Compare 64-bit words so hashes wider than 16 hex chars still work.
	dist := 0
	for i := 0; i < len(a); i += 16 {
		end := min(i+16, len(a))
		x, err := strconv.ParseUint(a[i:end], 16, 64)
		if err != nil {
			return IncompatibleDistance
		}
		y, err := strconv.ParseUint(b[i:end], 16, 64)
		if err != nil {
			return IncompatibleDistance
		}
		dist += bits.OnesCount64(x ^ y)
	}
	return dist
}

// CosineSimilarity returns the cosine of the angle between a and b, clamped to [0,1].
// Empty, mismatched or zero-norm vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) {
		return 0
	}
	return clamp01(sim)
}

// HashSimilarity maps a Hamming distance onto [0,1], 1 being identical.
func HashSimilarity(distance int) float64 {
	return clamp01(1 - float64(distance)/HashBits)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
