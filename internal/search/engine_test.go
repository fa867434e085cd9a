package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rlmctx/rlmctx/internal/chunkstore"
	"github.com/rlmctx/rlmctx/internal/embedprovider"
	"github.com/rlmctx/rlmctx/internal/insight"
	"github.com/rlmctx/rlmctx/internal/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Engine, *chunkstore.Store, *insight.Store) {
	t.Helper()
	root := t.TempDir()
	cs, err := chunkstore.NewStore(root)
	require.NoError(t, err)
	is, err := insight.NewStore(root)
	require.NoError(t, err)
	return NewEngine(cs, is, Config{}), cs, is
}

func TestQuery_EmptyQueryReturnsNoResults(t *testing.T) {
	e, _, _ := newTestEngine(t)
	results, err := e.Query(context.Background(), "", Filter{}, 10, true)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQuery_RanksRelevantChunkAboveUnrelated(t *testing.T) {
	e, cs, _ := newTestEngine(t)
	_, err := cs.Create(chunkstore.CreateInput{
		Content: "decided to use BM25 ranking for the search engine implementation",
		Project: "rlmctx",
	})
	require.NoError(t, err)
	_, err = cs.Create(chunkstore.CreateInput{
		Content: "unrelated note about gardening and plants",
		Project: "rlmctx",
	})
	require.NoError(t, err)

	results, err := e.Query(context.Background(), "bm25 ranking search", Filter{}, 10, true)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Preview, "BM25")
}

func TestQuery_IncludesInsightsWhenRequested(t *testing.T) {
	e, _, is := newTestEngine(t)
	_, err := is.Remember(insight.RememberInput{
		Content:    "bm25 ranking tuned to k1 1.5",
		Category:   insight.CategoryDecision,
		Importance: insight.ImportanceHigh,
	})
	require.NoError(t, err)

	results, err := e.Query(context.Background(), "bm25 ranking", Filter{}, 10, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, KindInsight, results[0].Kind)
}

func TestQuery_ExcludesInsightsWhenNotRequested(t *testing.T) {
	e, _, is := newTestEngine(t)
	_, err := is.Remember(insight.RememberInput{
		Content:    "bm25 ranking tuned to k1 1.5",
		Category:   insight.CategoryDecision,
		Importance: insight.ImportanceHigh,
	})
	require.NoError(t, err)

	results, err := e.Query(context.Background(), "bm25 ranking", Filter{}, 10, false)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQuery_FiltersByProjectAndDomain(t *testing.T) {
	e, cs, _ := newTestEngine(t)
	_, err := cs.Create(chunkstore.CreateInput{Content: "bm25 tuning notes for alpha", Project: "alpha", Domain: "infra"})
	require.NoError(t, err)
	_, err = cs.Create(chunkstore.CreateInput{Content: "bm25 tuning notes for beta", Project: "beta", Domain: "bug"})
	require.NoError(t, err)

	results, err := e.Query(context.Background(), "bm25 tuning", Filter{Project: "alpha"}, 10, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Preview, "alpha")
}

func TestQuery_FiltersByEntitySubstring(t *testing.T) {
	e, cs, _ := newTestEngine(t)
	_, err := cs.Create(chunkstore.CreateInput{Content: "bm25 notes touching auth_handler.go", Project: "p"})
	require.NoError(t, err)
	_, err = cs.Create(chunkstore.CreateInput{Content: "bm25 notes touching router.go", Project: "p"})
	require.NoError(t, err)

	results, err := e.Query(context.Background(), "bm25 notes", Filter{Entity: "auth_handler"}, 10, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Preview, "auth_handler")
}

func TestQuery_BlendsCosineSignalWhenEmbedderAndVectorsWired(t *testing.T) {
	root := t.TempDir()
	cs, err := chunkstore.NewStore(root)
	require.NoError(t, err)
	is, err := insight.NewStore(root)
	require.NoError(t, err)

	embedder := embedprovider.NewStatic()
	vectors, err := vectorstore.Open(filepath.Join(root, "embeddings.gob"), embedder.Name(), embedder.Dim())
	require.NoError(t, err)

	result, err := cs.Create(chunkstore.CreateInput{Content: "bm25 ranking search engine", Project: "p"})
	require.NoError(t, err)

	vecs, err := embedder.Encode(context.Background(), []string{"bm25 ranking search engine"})
	require.NoError(t, err)
	require.NoError(t, vectors.Add(result.ChunkID, vecs[0]))

	e := NewEngine(cs, is, Config{Vectors: vectors, Embedder: embedder})
	results, err := e.Query(context.Background(), "bm25 ranking", Filter{}, 10, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, result.ChunkID, results[0].ID)
}

func TestQuery_RespectsLimit(t *testing.T) {
	e, cs, _ := newTestEngine(t)
	for i := 0; i < 5; i++ {
		_, err := cs.Create(chunkstore.CreateInput{Content: "bm25 tuning note number " + string(rune('A'+i)), Project: "p", Ticket: string(rune('A' + i))})
		require.NoError(t, err)
	}

	results, err := e.Query(context.Background(), "bm25 tuning", Filter{}, 2, false)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
