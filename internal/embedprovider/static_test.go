package embedprovider

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorMagnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestStatic_Encode_ReturnsCorrectDimension(t *testing.T) {
	s := NewStatic()
	out, err := s.Encode(context.Background(), []string{"func main() {}"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Len(t, out[0], StaticDim)
}

func TestStatic_Encode_VectorIsNormalized(t *testing.T) {
	s := NewStatic()
	out, err := s.Encode(context.Background(), []string{"func main() {}"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, vectorMagnitude(out[0]), 0.001)
}

func TestStatic_Encode_IsDeterministic(t *testing.T) {
	s := NewStatic()
	text := "func add(a, b int) int { return a + b }"

	a, err1 := s.Encode(context.Background(), []string{text})
	b, err2 := s.Encode(context.Background(), []string{text})
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, a, b)
}

func TestStatic_Encode_EmptyTextReturnsZeroVector(t *testing.T) {
	s := NewStatic()
	out, err := s.Encode(context.Background(), []string{"   "})
	require.NoError(t, err)
	for _, v := range out[0] {
		assert.Zero(t, v)
	}
}

func TestStatic_Encode_BatchPreservesOrder(t *testing.T) {
	s := NewStatic()
	out, err := s.Encode(context.Background(), []string{"alpha", "beta", "gamma"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.NotEqual(t, out[0], out[1])
	assert.NotEqual(t, out[1], out[2])
}

func TestStatic_SplitsCamelCaseAndSnakeCase(t *testing.T) {
	assert.Equal(t, []string{"get", "User", "Name"}, splitCamelCase("getUserName"))
	assert.Equal(t, []string{"get", "user", "name"}, splitCodeToken("get_user_name"))
}

func TestStatic_DimAndName(t *testing.T) {
	s := NewStatic()
	assert.Equal(t, 256, s.Dim())
	assert.Equal(t, "static256", s.Name())
}

func TestStatic_AlwaysAvailable(t *testing.T) {
	s := NewStatic()
	assert.True(t, s.Available(context.Background()))
}

func TestStatic_SimilarTextsAreCloserThanUnrelatedOnes(t *testing.T) {
	s := NewStatic()
	out, err := s.Encode(context.Background(), []string{
		"func parseConfig(path string) error",
		"func parseConfiguration(path string) error",
		"banana smoothie recipe",
	})
	require.NoError(t, err)

	simSame := cosineForTest(out[0], out[1])
	simDiff := cosineForTest(out[0], out[2])
	assert.Greater(t, simSame, simDiff)
}

func cosineForTest(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
