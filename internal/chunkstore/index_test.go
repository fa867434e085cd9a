package chunkstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIndex_MissingFileReturnsEmpty(t *testing.T) {
	idx, err := loadIndex(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, indexVersion, idx.Version)
	assert.Empty(t, idx.Chunks)
}

func TestSaveAndLoadIndex_RoundTrips(t *testing.T) {
	root := t.TempDir()
	idx := &index{
		Version:             indexVersion,
		Chunks:              []Chunk{{ID: "2026-07-30_p_001", Summary: "s"}},
		TotalTokensEstimate: 42,
	}
	require.NoError(t, saveIndex(root, idx))

	loaded, err := loadIndex(root)
	require.NoError(t, err)
	assert.Equal(t, idx.Chunks, loaded.Chunks)
	assert.Equal(t, 42, loaded.TotalTokensEstimate)
}

func TestWithIndexLock_PersistsMutation(t *testing.T) {
	root := t.TempDir()
	err := withIndexLock(root, func(idx *index) error {
		idx.Chunks = append(idx.Chunks, Chunk{ID: "x"})
		return nil
	})
	require.NoError(t, err)

	idx, err := loadIndex(root)
	require.NoError(t, err)
	require.Len(t, idx.Chunks, 1)
	assert.Equal(t, "x", idx.Chunks[0].ID)
}

func TestWithIndexLock_ErrorFromFnSkipsSave(t *testing.T) {
	root := t.TempDir()
	sentinel := assert.AnError
	err := withIndexLock(root, func(idx *index) error {
		idx.Chunks = append(idx.Chunks, Chunk{ID: "should-not-persist"})
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	idx, loadErr := loadIndex(root)
	require.NoError(t, loadErr)
	assert.Empty(t, idx.Chunks)
}

func TestIndex_FindByHashAndID(t *testing.T) {
	idx := &index{Chunks: []Chunk{
		{ID: "a", ContentHash: "hash-a"},
		{ID: "b", ContentHash: "hash-b"},
	}}

	c, ok := idx.findByHash("hash-b")
	assert.True(t, ok)
	assert.Equal(t, "b", c.ID)

	i, ok := idx.findByID("a")
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	_, ok = idx.findByHash("missing")
	assert.False(t, ok)
}

func TestIndex_Filtered_OrdersAndLimits(t *testing.T) {
	idx := &index{Chunks: []Chunk{
		{ID: "2026-07-28_p_001", Project: "p", Domain: "bug", CreatedAt: "2026-07-28T00:00:00Z"},
		{ID: "2026-07-30_p_001", Project: "p", Domain: "bug", CreatedAt: "2026-07-30T00:00:00Z"},
		{ID: "2026-07-29_q_001", Project: "q", Domain: "bug", CreatedAt: "2026-07-29T00:00:00Z"},
	}}

	out := idx.filtered(ListFilter{Project: "p"})
	require.Len(t, out, 2)
	assert.Equal(t, "2026-07-30_p_001", out[0].ID)
	assert.Equal(t, "2026-07-28_p_001", out[1].ID)

	limited := idx.filtered(ListFilter{Limit: 1})
	assert.Len(t, limited, 1)
	assert.Equal(t, "2026-07-30_p_001", limited[0].ID)
}

func TestIndexPath_JoinsRoot(t *testing.T) {
	assert.Equal(t, filepath.Join("root", "index.json"), indexPath("root"))
}
