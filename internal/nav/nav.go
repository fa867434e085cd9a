package nav

import (
	"sort"

	"github.com/rlmctx/rlmctx/internal/chunkstore"
)

// ChunkSource is the subset of chunkstore.Store nav reads and forwards
// peek/list_chunks to.
type ChunkSource interface {
	ListChunks(filter chunkstore.ListFilter) ([]chunkstore.Chunk, error)
	ReadContent(id string) (string, error)
	Peek(id string, startLine, endLine int) (chunkstore.PeekResult, error)
}

// Nav implements the navigation contract (C9) as a single façade over
// chunkstore, so the RPC layer calls one package for peek, grep,
// grep_fuzzy, and list_chunks.
type Nav struct {
	chunks ChunkSource
}

// New builds a Nav over the given chunk source.
func New(chunks ChunkSource) *Nav {
	return &Nav{chunks: chunks}
}

// Peek forwards to chunkstore.Store.Peek.
func (n *Nav) Peek(id string, startLine, endLine int) (chunkstore.PeekResult, error) {
	return n.chunks.Peek(id, startLine, endLine)
}

// ListChunks returns a metadata projection of the index matching filter,
// newest first, capped at limit.
func (n *Nav) ListChunks(filter Filter, limit int) ([]chunkstore.Chunk, error) {
	chunks, err := n.chunks.ListChunks(chunkstore.ListFilter{Project: filter.Project, Domain: filter.Domain})
	if err != nil {
		return nil, err
	}

	out := chunks[:0:0]
	for _, c := range chunks {
		if matchesChunk(c, filter) {
			out = append(out, c)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// sortedChunks returns active chunks in deterministic ID order, for grep
// and grep_fuzzy's "iterate in sorted order" contract.
func (n *Nav) sortedChunks(filter Filter) ([]chunkstore.Chunk, error) {
	chunks, err := n.chunks.ListChunks(chunkstore.ListFilter{})
	if err != nil {
		return nil, err
	}

	out := make([]chunkstore.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if matchesChunk(c, filter) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
