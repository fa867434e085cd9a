// Package embedprovider implements the EmbeddingProvider boundary: a
// narrow interface with a static, dependency-free primary, an HTTP-based
// fallback, and a no-op implementation for graceful degradation to
// BM25-only search when no provider is available.
package embedprovider

import (
	"context"
	"math"
)

// Provider generates vector embeddings for a batch of texts and reports
// its output dimension and identity tag. The "no provider" case is a
// concrete implementation advertising dimension 0, not a nil interface.
type Provider interface {
	// Encode generates one embedding per input text, in order.
	Encode(ctx context.Context, texts []string) ([][]float32, error)

	// Dim returns the embedding dimension. 0 means no embeddings are produced.
	Dim() int

	// Name returns the provider's identity tag, stored alongside vectors
	// so a later mismatch triggers a rebuild rather than silent corruption.
	Name() string

	// Available reports whether the provider is ready to encode.
	Available(ctx context.Context) bool
}

// normalizeVector scales v to unit length, leaving zero vectors untouched.
func normalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	if sumSquares == 0 {
		return v
	}

	magnitude := math.Sqrt(sumSquares)
	out := make([]float32, len(v))
	for i, val := range v {
		out[i] = float32(float64(val) / magnitude)
	}
	return out
}
