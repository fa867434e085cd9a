// Package nav implements chunk navigation (C9): peek, grep, grep_fuzzy,
// and list_chunks, all operating over the active chunk corpus.
package nav

// Filter narrows grep and list_chunks by chunk metadata, mirroring the
// filter shape search.Filter uses for the same concepts.
type Filter struct {
	Project  string
	Domain   string
	DateFrom string
	DateTo   string
	Entity   string
}

// Match is one grep hit.
type Match struct {
	ChunkID string
	Line    int
	Text    string
}

// FuzzyMatch is one grep_fuzzy hit, scored 0-100.
type FuzzyMatch struct {
	ChunkID string
	Line    int
	Text    string
	Score   int
}
