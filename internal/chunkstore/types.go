// Package chunkstore implements the chunk index and content storage: the
// active chunks directory of Markdown files with YAML frontmatter, the
// index.json registry, entity extraction, auto-summary, and dedup.
package chunkstore

// Entities holds the five typed lists extracted from a chunk's content at
// creation time.
type Entities struct {
	Files     []string `yaml:"files,omitempty" json:"files"`
	Versions  []string `yaml:"versions,omitempty" json:"versions"`
	Modules   []string `yaml:"modules,omitempty" json:"modules"`
	Tickets   []string `yaml:"tickets,omitempty" json:"tickets"`
	Functions []string `yaml:"functions,omitempty" json:"functions"`
}

// Chunk is an immutable content-addressed record of externalized content.
// Content itself lives in the on-disk Markdown file at Path; Chunk carries
// only metadata, mirroring one entry of index.json.
type Chunk struct {
	ID             string   `json:"id"`
	Path           string   `json:"path"`
	Summary        string   `json:"summary"`
	Tags           []string `json:"tags"`
	Project        string   `json:"project,omitempty"`
	Domain         string   `json:"domain,omitempty"`
	Ticket         string   `json:"ticket,omitempty"`
	CreatedAt      string   `json:"created_at"`
	TokensEstimate int      `json:"tokens_estimate"`
	ContentHash    string   `json:"content_hash"`
	AccessCount    int      `json:"access_count"`
	LastAccessed   string   `json:"last_accessed,omitempty"`
	Entities       Entities `json:"entities"`
	Archived       bool     `json:"archived"`
}

// frontmatter is the YAML header written at the top of each chunk file.
type frontmatter struct {
	Summary   string   `yaml:"summary"`
	Tags      []string `yaml:"tags"`
	CreatedAt string   `yaml:"created_at"`
	Project   string   `yaml:"project,omitempty"`
	Domain    string   `yaml:"domain,omitempty"`
	Ticket    string   `yaml:"ticket,omitempty"`
	Entities  Entities `yaml:"entities"`
}

// CreateResult is returned by Store.Create.
type CreateResult struct {
	ChunkID   string
	Duplicate bool
	Summary   string
	Tokens    int
}

// ListFilter narrows ListChunks.
type ListFilter struct {
	Project string
	Domain  string
	Limit   int
}
