package feature

import (
	"strconv"
	"time"

	domfeature "github.com/kailas-cloud/artwatch/internal/domain/feature"
)

// Hash field names.
const (
	fieldPHash        = "phash"
	fieldDHash        = "dhash"
	fieldAHash        = "ahash"
	fieldEmbedding    = "embedding"
	fieldWidth        = "width"
	fieldHeight       = "height"
	fieldFormat       = "format"
	fieldFileSize     = "file_size_bytes"
	fieldSharpness    = "sharpness"
	fieldContrast     = "contrast"
	fieldBrightness   = "brightness"
	fieldGrayscale    = "grayscale"
	fieldModelVersion = "model_version"
	fieldExtractedAt  = "extracted_at"
)

// buildHashFields flattens a record into a map for HSET. Empty values are omitted.
func buildHashFields(rec *domfeature.Record) map[string]string {
	m := make(map[string]string, 14)
	putIf := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	putIf(fieldPHash, rec.PHash)
	putIf(fieldDHash, rec.DHash)
	putIf(fieldAHash, rec.AHash)
	if rec.HasEmbedding() {
		m[fieldEmbedding] = vectorToBytes(rec.Embedding)
	}
	q := rec.Quality
	m[fieldWidth] = strconv.Itoa(q.Width)
	m[fieldHeight] = strconv.Itoa(q.Height)
	putIf(fieldFormat, q.Format)
	m[fieldFileSize] = strconv.FormatInt(q.FileSizeBytes, 10)
	m[fieldSharpness] = strconv.FormatFloat(q.Sharpness, 'f', -1, 64)
	m[fieldContrast] = strconv.FormatFloat(q.Contrast, 'f', -1, 64)
	m[fieldBrightness] = strconv.FormatFloat(q.Brightness, 'f', -1, 64)
	m[fieldGrayscale] = strconv.FormatBool(q.Grayscale)
	putIf(fieldModelVersion, q.ModelVersion)
	if !rec.ExtractedAt.IsZero() {
		m[fieldExtractedAt] = strconv.FormatInt(rec.ExtractedAt.UnixMilli(), 10)
	}
	return m
}

// parseHashFields rebuilds a record from a hash. Unparsable numbers fall back to zero values:
// the engine treats malformed records as "no match", not as errors.
func parseHashFields(artworkID string, m map[string]string) domfeature.Record {
	rec := domfeature.Record{
		ArtworkID: artworkID,
		PHash:     m[fieldPHash],
		DHash:     m[fieldDHash],
		AHash:     m[fieldAHash],
	}
	if v, ok := m[fieldEmbedding]; ok {
		rec.Embedding = bytesToVector(v)
	}
	rec.Quality = domfeature.Quality{
		Width:         atoi(m[fieldWidth]),
		Height:        atoi(m[fieldHeight]),
		Format:        m[fieldFormat],
		FileSizeBytes: atoi64(m[fieldFileSize]),
		Sharpness:     atof(m[fieldSharpness]),
		Contrast:      atof(m[fieldContrast]),
		Brightness:    atof(m[fieldBrightness]),
		Grayscale:     m[fieldGrayscale] == "true",
		ModelVersion:  m[fieldModelVersion],
	}
	if ms := atoi64(m[fieldExtractedAt]); ms > 0 {
		rec.ExtractedAt = time.UnixMilli(ms).UTC()
	}
	return rec
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	return string(domfeature.EncodeEmbedding(v))
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	return domfeature.DecodeEmbedding([]byte(s))
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atoi64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
