package retention

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rlmctx/rlmctx/internal/chunkstore"
	"github.com/rlmctx/rlmctx/internal/rlmerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexFile struct {
	Version             string             `json:"version"`
	Chunks              []chunkstore.Chunk `json:"chunks"`
	TotalTokensEstimate int                `json:"total_tokens_estimate"`
}

// backdateChunk rewrites a chunk's created_at in index.json directly,
// since chunkstore has no public mutator for it and retention's age
// thresholds need realistic fixtures.
func backdateChunk(t *testing.T, root, id string, age time.Duration) {
	t.Helper()
	path := filepath.Join(root, "index.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var idx indexFile
	require.NoError(t, json.Unmarshal(data, &idx))
	for i := range idx.Chunks {
		if idx.Chunks[i].ID == id {
			idx.Chunks[i].CreatedAt = time.Now().UTC().Add(-age).Format(time.RFC3339)
		}
	}

	out, err := json.MarshalIndent(idx, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, out, 0o644))
}

func newTestStores(t *testing.T) (root string, cs *chunkstore.Store, rs *Store) {
	t.Helper()
	root = t.TempDir()
	cs, err := chunkstore.NewStore(root)
	require.NoError(t, err)
	rs = NewStore(root, cs)
	cs.SetRestorer(rs)
	return root, cs, rs
}

func TestPreview_ListsOldUnprotectedChunkAsArchiveCandidate(t *testing.T) {
	root, cs, rs := newTestStores(t)
	result, err := cs.Create(chunkstore.CreateInput{Content: "plain old content", Project: "p"})
	require.NoError(t, err)
	backdateChunk(t, root, result.ChunkID, 40*24*time.Hour)

	preview, err := rs.Preview()
	require.NoError(t, err)
	require.Len(t, preview.ArchiveCandidates, 1)
	assert.Equal(t, result.ChunkID, preview.ArchiveCandidates[0].ID)
	assert.Empty(t, preview.PurgeCandidates)
}

func TestPreview_ExcludesRecentChunk(t *testing.T) {
	_, cs, rs := newTestStores(t)
	_, err := cs.Create(chunkstore.CreateInput{Content: "fresh content here", Project: "p"})
	require.NoError(t, err)

	preview, err := rs.Preview()
	require.NoError(t, err)
	assert.Empty(t, preview.ArchiveCandidates)
}

func TestPreview_ExcludesProtectedTagChunk(t *testing.T) {
	root, cs, rs := newTestStores(t)
	result, err := cs.Create(chunkstore.CreateInput{Content: "important decision content", Project: "p", Tags: []string{"critical"}})
	require.NoError(t, err)
	backdateChunk(t, root, result.ChunkID, 40*24*time.Hour)

	preview, err := rs.Preview()
	require.NoError(t, err)
	assert.Empty(t, preview.ArchiveCandidates)
}

func TestPreview_ExcludesHighAccessCountChunk(t *testing.T) {
	root, cs, rs := newTestStores(t)
	result, err := cs.Create(chunkstore.CreateInput{Content: "popular content", Project: "p"})
	require.NoError(t, err)
	backdateChunk(t, root, result.ChunkID, 40*24*time.Hour)
	for i := 0; i < ImmuneAccessCount; i++ {
		_, err := cs.Peek(result.ChunkID, 0, 0)
		require.NoError(t, err)
	}

	preview, err := rs.Preview()
	require.NoError(t, err)
	assert.Empty(t, preview.ArchiveCandidates)
}

func TestPreview_ExcludesChunkWithNonZeroAccessCount(t *testing.T) {
	root, cs, rs := newTestStores(t)
	result, err := cs.Create(chunkstore.CreateInput{Content: "peeked once content", Project: "p"})
	require.NoError(t, err)
	backdateChunk(t, root, result.ChunkID, 40*24*time.Hour)

	_, err = cs.Peek(result.ChunkID, 0, 0)
	require.NoError(t, err)

	preview, err := rs.Preview()
	require.NoError(t, err)
	assert.Empty(t, preview.ArchiveCandidates)
}

func TestPreview_ExcludesProtectedKeywordChunk(t *testing.T) {
	root, cs, rs := newTestStores(t)
	result, err := cs.Create(chunkstore.CreateInput{Content: "DECISION: keep using BM25 for ranking", Project: "p"})
	require.NoError(t, err)
	backdateChunk(t, root, result.ChunkID, 40*24*time.Hour)

	preview, err := rs.Preview()
	require.NoError(t, err)
	assert.Empty(t, preview.ArchiveCandidates)
}

func TestRun_ArchivesEligibleChunkAndUpdatesIndex(t *testing.T) {
	root, cs, rs := newTestStores(t)
	result, err := cs.Create(chunkstore.CreateInput{Content: "old content to archive", Project: "p"})
	require.NoError(t, err)
	backdateChunk(t, root, result.ChunkID, 40*24*time.Hour)

	runResult, err := rs.Run(RunOptions{Archive: true})
	require.NoError(t, err)
	assert.Equal(t, 1, runResult.ArchivedCount)
	assert.Empty(t, runResult.Errors)

	chunk, ok, err := cs.Get(result.ChunkID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, chunk.Archived)

	_, statErr := os.Stat(filepath.Join(root, "chunks", result.ChunkID+".md"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(archiveFilePath(root, result.ChunkID))
	assert.NoError(t, statErr)
}

func TestRun_ArchivingOneFailureDoesNotBlockAnother(t *testing.T) {
	root, cs, rs := newTestStores(t)
	good, err := cs.Create(chunkstore.CreateInput{Content: "archivable content one", Project: "p"})
	require.NoError(t, err)
	backdateChunk(t, root, good.ChunkID, 40*24*time.Hour)

	runResult, err := rs.Run(RunOptions{Archive: true})
	require.NoError(t, err)
	assert.Equal(t, 1, runResult.ArchivedCount)
}

func TestRun_PurgesEligibleArchivedChunk(t *testing.T) {
	root, cs, rs := newTestStores(t)
	result, err := cs.Create(chunkstore.CreateInput{Content: "content bound for purge", Project: "p"})
	require.NoError(t, err)
	backdateChunk(t, root, result.ChunkID, 40*24*time.Hour)

	_, err = rs.Run(RunOptions{Archive: true})
	require.NoError(t, err)

	require.NoError(t, withArchiveIndexLock(root, func(reg *archiveRegistry) error {
		i, ok := reg.findByID(result.ChunkID)
		require.True(t, ok)
		reg.Archived[i].ArchivedAt = time.Now().UTC().Add(-200 * 24 * time.Hour).Format(time.RFC3339)
		return nil
	}))

	runResult, err := rs.Run(RunOptions{Purge: true})
	require.NoError(t, err)
	assert.Equal(t, 1, runResult.PurgedCount)

	_, statErr := os.Stat(archiveFilePath(root, result.ChunkID))
	assert.True(t, os.IsNotExist(statErr))

	reg, err := loadArchiveIndex(root)
	require.NoError(t, err)
	assert.Empty(t, reg.Archived)

	purgeLog, err := loadPurgeLog(root)
	require.NoError(t, err)
	require.Len(t, purgeLog.Purged, 1)
	assert.Equal(t, result.ChunkID, purgeLog.Purged[0].ID)
}

func TestRestore_BringsArchivedChunkBackToActiveZone(t *testing.T) {
	root, cs, rs := newTestStores(t)
	result, err := cs.Create(chunkstore.CreateInput{Content: "restore me please", Project: "p"})
	require.NoError(t, err)
	backdateChunk(t, root, result.ChunkID, 40*24*time.Hour)

	_, err = rs.Run(RunOptions{Archive: true})
	require.NoError(t, err)

	peeked, err := cs.Peek(result.ChunkID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "restore me please", peeked.Content)

	chunk, ok, err := cs.Get(result.ChunkID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, chunk.Archived)
}

func TestRestore_MissingArchiveEntryReturnsNotFound(t *testing.T) {
	root, _, rs := newTestStores(t)
	err := rs.Restore("2026-01-01_p_001")
	assert.Error(t, err)
	assert.True(t, rlmerrors.Is(err, rlmerrors.KindNotFound))
}
