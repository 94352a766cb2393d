// Package mock provides a deterministic embedder for tests and offline
// demos. It hashes whitespace tokens onto vector axes, so texts that
// share words genuinely score higher under cosine similarity than texts
// that do not. No semantic model is involved.
package mock

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

const defaultDimensions = 384 // matches all-MiniLM-L6-v2

// Embedder is a deterministic bag-of-words embedder.
type Embedder struct {
	dimensions int
}

// New creates a mock embedder with the default dimensionality.
func New() *Embedder {
	return &Embedder{dimensions: defaultDimensions}
}

// NewWithDimensions creates a mock embedder with a custom vector size.
func NewWithDimensions(dims int) *Embedder {
	if dims <= 0 {
		dims = defaultDimensions
	}
	return &Embedder{dimensions: dims}
}

// Embed maps each lowercased token to a hashed axis and accumulates, then
// normalizes to a unit vector. The same text always yields the same
// embedding.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	embedding := make([]float32, e.dimensions)

	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?;:\"'")
		if token == "" {
			continue
		}
		h := fnv.New64a()
		h.Write([]byte(token))
		embedding[h.Sum64()%uint64(e.dimensions)] += 1
	}

	return normalize(embedding), nil
}

// Dimensions returns the embedding vector size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = float32(math.Sqrt(float64(norm)))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
