// Package search implements the hybrid BM25/vector search engine (C8)
// over the unified chunk and insight corpus.
package search

// DocKind distinguishes a chunk result from an insight result.
type DocKind string

const (
	KindChunk   DocKind = "chunk"
	KindInsight DocKind = "insight"
)

// document is one corpus entry built fresh per search call: a chunk's
// summary+tags+project+domain+content, or an insight's content.
type document struct {
	id        string
	kind      DocKind
	tokens    []string
	project   string
	domain    string
	createdAt string
	entities  []string
	preview   string
}

// Filter narrows search results by metadata, applied before truncation.
type Filter struct {
	Project  string
	Domain   string
	DateFrom string
	DateTo   string
	Entity   string
}

// Result is one ranked search hit.
type Result struct {
	ID      string
	Kind    DocKind
	Score   float64
	Preview string
}
