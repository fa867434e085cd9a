package vectorstore

import (
	"path/filepath"
	"testing"

	"github.com/rlmctx/rlmctx/internal/rlmerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob")
	s, err := Open(path, "static256", 4)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestAdd_AndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob")
	s, err := Open(path, "static256", 3)
	require.NoError(t, err)

	require.NoError(t, s.Add("chunk-1", []float32{1, 0, 0}))
	v, ok := s.Get("chunk-1")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 0, 0}, v)
}

func TestAdd_RejectsWrongDimension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob")
	s, err := Open(path, "static256", 3)
	require.NoError(t, err)

	err = s.Add("chunk-1", []float32{1, 0})
	assert.True(t, rlmerrors.Is(err, rlmerrors.KindInvalidSize))
}

func TestAdd_RejectsInvalidID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob")
	s, err := Open(path, "static256", 2)
	require.NoError(t, err)

	err = s.Add("../escape", []float32{1, 0})
	assert.True(t, rlmerrors.Is(err, rlmerrors.KindInvalidID))
}

func TestAdd_UpdatesExistingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob")
	s, err := Open(path, "static256", 2)
	require.NoError(t, err)

	require.NoError(t, s.Add("chunk-1", []float32{1, 0}))
	require.NoError(t, s.Add("chunk-1", []float32{0, 1}))

	assert.Equal(t, 1, s.Len())
	v, ok := s.Get("chunk-1")
	require.True(t, ok)
	assert.Equal(t, []float32{0, 1}, v)
}

func TestCosineAll_RanksByDescendingSimilarity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob")
	s, err := Open(path, "static256", 2)
	require.NoError(t, err)

	require.NoError(t, s.Add("orthogonal", []float32{0, 1}))
	require.NoError(t, s.Add("identical", []float32{1, 0}))
	require.NoError(t, s.Add("opposite", []float32{-1, 0}))

	results := s.CosineAll([]float32{1, 0})
	require.Len(t, results, 3)
	assert.Equal(t, "identical", results[0].ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, "orthogonal", results[1].ID)
	assert.InDelta(t, 0.0, results[1].Score, 1e-9)
	assert.Equal(t, "opposite", results[2].ID)
	assert.InDelta(t, -1.0, results[2].Score, 1e-9)
}

func TestCosineAll_BreaksTiesByID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob")
	s, err := Open(path, "static256", 2)
	require.NoError(t, err)

	require.NoError(t, s.Add("b", []float32{1, 0}))
	require.NoError(t, s.Add("a", []float32{1, 0}))

	results := s.CosineAll([]float32{1, 0})
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "b", results[1].ID)
}

func TestCosineAll_ZeroVectorScoresZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob")
	s, err := Open(path, "static256", 2)
	require.NoError(t, err)

	require.NoError(t, s.Add("zero", []float32{0, 0}))
	results := s.CosineAll([]float32{1, 0})
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].Score)
}

func TestPersistence_RoundTripsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob")

	s, err := Open(path, "static256", 2)
	require.NoError(t, err)
	require.NoError(t, s.Add("chunk-1", []float32{1, 2}))
	require.NoError(t, s.Add("chunk-2", []float32{3, 4}))

	reopened, err := Open(path, "static256", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Len())

	v, ok := reopened.Get("chunk-2")
	require.True(t, ok)
	assert.Equal(t, []float32{3, 4}, v)
}

func TestOpen_RebuildsEmptyOnProviderMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob")

	s, err := Open(path, "static256", 2)
	require.NoError(t, err)
	require.NoError(t, s.Add("chunk-1", []float32{1, 2}))

	reopened, err := Open(path, "fallback384", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.Len())
}

func TestOpen_RebuildsEmptyOnDimensionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob")

	s, err := Open(path, "static256", 2)
	require.NoError(t, err)
	require.NoError(t, s.Add("chunk-1", []float32{1, 2}))

	reopened, err := Open(path, "static256", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.Len())
}

func TestIDs_ReturnsInsertionOrderCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob")
	s, err := Open(path, "static256", 1)
	require.NoError(t, err)

	require.NoError(t, s.Add("first", []float32{1}))
	require.NoError(t, s.Add("second", []float32{2}))

	ids := s.IDs()
	assert.Equal(t, []string{"first", "second"}, ids)

	ids[0] = "mutated"
	idsAgain := s.IDs()
	assert.Equal(t, "first", idsAgain[0])
}

func TestReload_PicksUpExternalWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob")

	writer, err := Open(path, "static256", 2)
	require.NoError(t, err)
	require.NoError(t, writer.Add("chunk-1", []float32{1, 0}))

	reader, err := Open(path, "static256", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, reader.Len())

	require.NoError(t, writer.Add("chunk-2", []float32{0, 1}))
	require.NoError(t, reader.Reload())
	assert.Equal(t, 2, reader.Len())
}

func TestGet_MissingIDReturnsFalse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob")
	s, err := Open(path, "static256", 1)
	require.NoError(t, err)

	_, ok := s.Get("nonexistent")
	assert.False(t, ok)
}
