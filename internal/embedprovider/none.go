package embedprovider

import "context"

// None is the graceful-degradation provider: it advertises dimension 0
// and produces no vectors, causing search to skip the cosine branch and
// fall back to BM25-only scoring.
type None struct{}

// NewNone returns the no-provider implementation.
func NewNone() *None { return &None{} }

// Encode returns an empty matrix, one row per input, all zero-length.
func (n *None) Encode(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{}
	}
	return out, nil
}

// Dim reports 0: no embeddings are produced.
func (n *None) Dim() int { return 0 }

// Name identifies the no-provider mode.
func (n *None) Name() string { return "none" }

// Available is always false: callers should skip the cosine branch.
func (n *None) Available(_ context.Context) bool { return false }
