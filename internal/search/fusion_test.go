package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMaxNormalize_ScalesToZeroOne(t *testing.T) {
	out := minMaxNormalize(map[string]float64{"a": 1, "b": 3, "c": 5})
	assert.Equal(t, 0.0, out["a"])
	assert.Equal(t, 0.5, out["b"])
	assert.Equal(t, 1.0, out["c"])
}

func TestMinMaxNormalize_AllEqualScoresOne(t *testing.T) {
	out := minMaxNormalize(map[string]float64{"a": 2, "b": 2})
	assert.Equal(t, 1.0, out["a"])
	assert.Equal(t, 1.0, out["b"])
}

func TestMinMaxNormalize_EmptyReturnsEmpty(t *testing.T) {
	assert.Empty(t, minMaxNormalize(map[string]float64{}))
}

func TestClamp01_BoundsValues(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.5))
	assert.Equal(t, 1.0, clamp01(1.5))
	assert.Equal(t, 0.3, clamp01(0.3))
}

func TestFuse_WeightsCosineAndBM25(t *testing.T) {
	bm25 := map[string]float64{"a": 1.0, "b": 0.0}
	cosine := map[string]float64{"a": 0.0, "b": 1.0}
	out := fuse(bm25, cosine, 0.6, []string{"a", "b"})
	assert.InDelta(t, 0.4, out["a"], 1e-9)
	assert.InDelta(t, 0.6, out["b"], 1e-9)
}

func TestFuse_DocumentMissingFromOneSignalScoresZeroThere(t *testing.T) {
	bm25 := map[string]float64{"a": 1.0}
	cosine := map[string]float64{}
	out := fuse(bm25, cosine, 0.6, []string{"a"})
	assert.InDelta(t, 0.4, out["a"], 1e-9)
}
