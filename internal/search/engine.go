package search

import (
	"context"
	"sort"
	"strings"

	"github.com/rlmctx/rlmctx/internal/chunkstore"
	"github.com/rlmctx/rlmctx/internal/embedprovider"
	"github.com/rlmctx/rlmctx/internal/insight"
	"github.com/rlmctx/rlmctx/internal/tokenize"
	"github.com/rlmctx/rlmctx/internal/vectorstore"
)

// ChunkSource is the subset of chunkstore.Store the search engine reads.
type ChunkSource interface {
	ListChunks(filter chunkstore.ListFilter) ([]chunkstore.Chunk, error)
	ReadContent(id string) (string, error)
}

// InsightSource is the subset of insight.Store the search engine reads.
type InsightSource interface {
	Recall(filter insight.RecallFilter) ([]insight.Insight, error)
}

// Engine implements search (C8): a unified BM25+cosine hybrid ranking
// over active chunks and insights.
type Engine struct {
	chunks   ChunkSource
	insights InsightSource
	vectors  *vectorstore.Store
	embedder embedprovider.Provider
	k1       float64
	b        float64
	alpha    float64
}

// Config configures an Engine's ranking parameters and optional
// semantic-search backends. Vectors and Embedder may be nil, in which
// case search degrades to BM25-only, matching the spec's graceful
// degradation policy.
type Config struct {
	K1       float64
	B        float64
	Alpha    float64
	Vectors  *vectorstore.Store
	Embedder embedprovider.Provider
}

// NewEngine builds a search Engine over the given chunk and insight
// sources.
func NewEngine(chunks ChunkSource, insights InsightSource, cfg Config) *Engine {
	k1, b, alpha := cfg.K1, cfg.B, cfg.Alpha
	if k1 == 0 {
		k1 = DefaultK1
	}
	if b == 0 {
		b = DefaultB
	}
	if alpha == 0 {
		alpha = DefaultFusionAlpha
	}
	return &Engine{
		chunks:   chunks,
		insights: insights,
		vectors:  cfg.Vectors,
		embedder: cfg.Embedder,
		k1:       k1,
		b:        b,
		alpha:    alpha,
	}
}

// Query runs a hybrid search and returns the top limit results matching
// filter, most relevant first. An empty query returns no results.
func (e *Engine) Query(ctx context.Context, query string, filter Filter, limit int, includeInsights bool) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	queryTokens := tokenize.Tokenize(query, true)
	if len(queryTokens) == 0 {
		return []Result{}, nil
	}

	docs, err := e.buildCorpus(includeInsights)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return []Result{}, nil
	}

	bm25Raw := bm25Scores(queryTokens, docs, e.k1, e.b)
	bm25Norm := minMaxNormalize(bm25Raw)

	cosine := e.cosineScores(ctx, query)

	ids := make([]string, len(docs))
	byID := make(map[string]document, len(docs))
	for i, d := range docs {
		ids[i] = d.id
		byID[d.id] = d
	}

	fused := fuse(bm25Norm, cosine, e.alpha, ids)

	matched := make([]Result, 0, len(docs))
	for _, d := range docs {
		_, inBM25 := bm25Raw[d.id]
		if !inBM25 && cosine[d.id] <= 0 {
			continue
		}
		score := fused[d.id]
		if !matchesFilter(d, filter) {
			continue
		}
		matched = append(matched, Result{ID: d.id, Kind: d.kind, Score: score, Preview: d.preview})
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Score != matched[j].Score {
			return matched[i].Score > matched[j].Score
		}
		return matched[i].ID > matched[j].ID
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// cosineScores computes per-document cosine similarity against the query
// embedding, clamped to [0, 1]. Returns an empty map when no embedder or
// vector store is wired, or the store is empty — search then degrades
// to BM25-only with every document scoring zero on this signal.
func (e *Engine) cosineScores(ctx context.Context, query string) map[string]float64 {
	if e.embedder == nil || e.vectors == nil || e.vectors.Len() == 0 {
		return map[string]float64{}
	}

	vectors, err := e.embedder.Encode(ctx, []string{query})
	if err != nil || len(vectors) != 1 {
		return map[string]float64{}
	}

	scores := make(map[string]float64, e.vectors.Len())
	for _, s := range e.vectors.CosineAll(vectors[0]) {
		scores[s.ID] = clamp01(s.Score)
	}
	return scores
}

// buildCorpus assembles the document set for one search call: every
// active chunk (summary+tags+project+domain+content, per the spec) and,
// if requested, every insight (content only).
func (e *Engine) buildCorpus(includeInsights bool) ([]document, error) {
	chunks, err := e.chunks.ListChunks(chunkstore.ListFilter{})
	if err != nil {
		return nil, err
	}

	docs := make([]document, 0, len(chunks))
	for _, c := range chunks {
		content, err := e.chunks.ReadContent(c.ID)
		if err != nil {
			continue
		}
		text := strings.Join([]string{c.Summary, strings.Join(c.Tags, " "), c.Project, c.Domain, content}, " ")
		docs = append(docs, document{
			id:        c.ID,
			kind:      KindChunk,
			tokens:    tokenize.Tokenize(text, true),
			project:   c.Project,
			domain:    c.Domain,
			createdAt: chunkCreatedAt(c),
			entities:  allEntities(c),
			preview:   c.Summary,
		})
	}

	if includeInsights {
		insights, err := e.insights.Recall(insight.RecallFilter{})
		if err != nil {
			return nil, err
		}
		for _, ins := range insights {
			docs = append(docs, document{
				id:        ins.ID,
				kind:      KindInsight,
				tokens:    tokenize.Tokenize(ins.Content, true),
				createdAt: ins.CreatedAt,
				preview:   ins.Content,
			})
		}
	}

	return docs, nil
}

// chunkCreatedAt returns c's created_at, falling back to the leading
// YYYY-MM-DD prefix of its ID for legacy chunks with no timestamp.
func chunkCreatedAt(c chunkstore.Chunk) string {
	if c.CreatedAt != "" {
		return c.CreatedAt
	}
	if len(c.ID) >= 10 {
		return c.ID[:10]
	}
	return ""
}

func allEntities(c chunkstore.Chunk) []string {
	out := make([]string, 0, len(c.Entities.Files)+len(c.Entities.Versions)+len(c.Entities.Modules)+len(c.Entities.Tickets)+len(c.Entities.Functions))
	out = append(out, c.Entities.Files...)
	out = append(out, c.Entities.Versions...)
	out = append(out, c.Entities.Modules...)
	out = append(out, c.Entities.Tickets...)
	out = append(out, c.Entities.Functions...)
	return out
}

// matchesFilter applies the spec's project/domain/date/entity filters.
// Date comparison is lexicographic on YYYY-MM-DD prefixes.
func matchesFilter(d document, f Filter) bool {
	if f.Project != "" && d.project != f.Project {
		return false
	}
	if f.Domain != "" && d.domain != f.Domain {
		return false
	}
	if f.DateFrom != "" && datePrefix(d.createdAt) < f.DateFrom {
		return false
	}
	if f.DateTo != "" && datePrefix(d.createdAt) > f.DateTo {
		return false
	}
	if f.Entity != "" {
		needle := strings.ToLower(f.Entity)
		found := false
		for _, e := range d.entities {
			if strings.Contains(strings.ToLower(e), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func datePrefix(createdAt string) string {
	if len(createdAt) >= 10 {
		return createdAt[:10]
	}
	return createdAt
}
