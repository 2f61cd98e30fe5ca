package similarity

import (
	"math"
	"testing"
)

func TestNewHashResult(t *testing.T) {
	r := NewHashResult("a", 8)
	if r.CandidateID() != "a" {
		t.Errorf("expected candidate a, got %s", r.CandidateID())
	}
	if r.Score() != 0.875 {
		t.Errorf("expected score 0.875, got %v", r.Score())
	}
	d, ok := r.Distance()
	if !ok || d != 8 {
		t.Errorf("expected distance 8, got %d (ok=%v)", d, ok)
	}
	if r.Method() != Hash {
		t.Errorf("expected method hash, got %s", r.Method())
	}
}

func TestNewEmbeddingResult_NoDistance(t *testing.T) {
	r := NewEmbeddingResult("b", 0.9)
	if _, ok := r.Distance(); ok {
		t.Error("embedding result should have no hash distance")
	}
	if r.Method() != Embedding {
		t.Errorf("expected method embedding, got %s", r.Method())
	}
}

func TestCombine_MeanScore(t *testing.T) {
	h := NewHashResult("c", 16) // 0.75
	e := NewEmbeddingResult("c", 0.95)
	c := Combine(h, e)

	if math.Abs(c.Score()-0.85) > 1e-9 {
		t.Errorf("expected combined score 0.85, got %v", c.Score())
	}
	if c.Method() != Hybrid {
		t.Errorf("expected hybrid method, got %s", c.Method())
	}
	if !c.FoundBy(Hash) || !c.FoundBy(Embedding) {
		t.Errorf("expected both methods, got %v", c.Methods())
	}
	if c.HashScore() != 0.75 || c.EmbeddingScore() != 0.95 {
		t.Errorf("component scores not preserved: %v %v", c.HashScore(), c.EmbeddingScore())
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
		ok   bool
	}{
		{"hash", Hash, true},
		{"perceptual_hash", Hash, true},
		{"clip", Embedding, true},
		{"embedding", Embedding, true},
		{"hybrid", Hybrid, true},
		{"", Hybrid, true},
		{"sift", "", false},
	}
	for _, tc := range tests {
		got, ok := ParseMethod(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseMethod(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestBands(t *testing.T) {
	if HashBand(3) != BandIdentical || HashBand(10) != BandVerySimilar ||
		HashBand(15) != BandSimilar || HashBand(20) != BandSomewhat || HashBand(21) != BandDistinct {
		t.Error("unexpected hash band edges")
	}
	if EmbeddingBand(0.95) != BandVerySimilar || EmbeddingBand(0.85) != BandSimilar ||
		EmbeddingBand(0.7) != BandSomewhat || EmbeddingBand(0.2) != BandDistinct {
		t.Error("unexpected embedding band edges")
	}
}
