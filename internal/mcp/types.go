package mcp

// RememberInput is the input schema for the remember tool.
type RememberInput struct {
	Content    string   `json:"content" jsonschema:"the fact, decision, or finding to remember"`
	Category   string   `json:"category,omitempty" jsonschema:"decision, fact, preference, finding, todo, or general (default general)"`
	Importance string   `json:"importance,omitempty" jsonschema:"low, medium, high, or critical (default medium)"`
	Tags       []string `json:"tags,omitempty" jsonschema:"free-form tags for later filtering"`
}

// RememberOutput is the output schema for the remember tool.
type RememberOutput struct {
	ID string `json:"id"`
}

// RecallInput is the input schema for the recall tool.
type RecallInput struct {
	Query      string `json:"query,omitempty" jsonschema:"search text; empty returns most recent insights"`
	Category   string `json:"category,omitempty"`
	Importance string `json:"importance,omitempty"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of insights; 0 or omitted returns all"`
}

// RecallOutput is the output schema for the recall tool.
type RecallOutput struct {
	Insights []InsightOutput `json:"insights"`
}

// InsightOutput is one insight in a recall/status response.
type InsightOutput struct {
	ID         string   `json:"id"`
	Content    string   `json:"content"`
	Category   string   `json:"category"`
	Importance string   `json:"importance"`
	Tags       []string `json:"tags,omitempty"`
	CreatedAt  string   `json:"created_at"`
}

// ForgetInput is the input schema for the forget tool.
type ForgetInput struct {
	ID string `json:"id" jsonschema:"the insight ID to remove"`
}

// ForgetOutput is the output schema for the forget tool.
type ForgetOutput struct {
	Removed bool `json:"removed"`
}

// StatusInput is the input schema for the status tool (no parameters).
type StatusInput struct{}

// StatusOutput summarizes the storage root's global state.
type StatusOutput struct {
	StorageRoot         string `json:"storage_root"`
	ActiveChunks        int    `json:"active_chunks"`
	ArchivedChunks      int    `json:"archived_chunks"`
	TotalTokensEstimate int    `json:"total_tokens_estimate"`
	InsightsCount       int    `json:"insights_count"`
	EmbeddingProvider   string `json:"embedding_provider"`
	EmbeddingAvailable  bool   `json:"embedding_available"`
}

// ChunkInput is the input schema for the chunk tool.
type ChunkInput struct {
	Content string   `json:"content" jsonschema:"the content to externalize"`
	Summary string   `json:"summary,omitempty" jsonschema:"override the auto-derived summary"`
	Tags    []string `json:"tags,omitempty"`
	Project string   `json:"project,omitempty" jsonschema:"defaults to the detected project name"`
	Ticket  string   `json:"ticket,omitempty"`
	Domain  string   `json:"domain,omitempty" jsonschema:"e.g. bug, feature, refactor"`
}

// ChunkOutput is the output schema for the chunk tool.
type ChunkOutput struct {
	ChunkID   string `json:"chunk_id"`
	Duplicate bool   `json:"duplicate"`
	Summary   string `json:"summary"`
	Tokens    int    `json:"tokens"`
}

// PeekInput is the input schema for the peek tool.
type PeekInput struct {
	ID        string `json:"id" jsonschema:"chunk ID to read"`
	StartLine int    `json:"start_line,omitempty" jsonschema:"1-based inclusive start line, default 1"`
	EndLine   int    `json:"end_line,omitempty" jsonschema:"1-based inclusive end line, default end of content"`
}

// PeekOutput is the output schema for the peek tool.
type PeekOutput struct {
	Content     string `json:"content"`
	AccessCount int    `json:"access_count"`
}

// GrepInput is the input schema for the grep tool. Setting Fuzzy selects
// partial-ratio fuzzy matching (grep_fuzzy's behavior) over exact regex.
type GrepInput struct {
	Pattern   string `json:"pattern" jsonschema:"regex pattern, or fuzzy query text when fuzzy is true"`
	Project   string `json:"project,omitempty"`
	Domain    string `json:"domain,omitempty"`
	DateFrom  string `json:"date_from,omitempty" jsonschema:"YYYY-MM-DD inclusive lower bound"`
	DateTo    string `json:"date_to,omitempty" jsonschema:"YYYY-MM-DD inclusive upper bound"`
	Entity    string `json:"entity,omitempty" jsonschema:"filter to chunks whose extracted entities contain this substring"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of matches, default 10"`
	Fuzzy     bool   `json:"fuzzy,omitempty" jsonschema:"use partial-ratio fuzzy scoring instead of regex"`
	Threshold int    `json:"threshold,omitempty" jsonschema:"minimum fuzzy score 0-100, used only when fuzzy is true"`
}

// GrepOutput is the output schema for the grep tool.
type GrepOutput struct {
	Matches []GrepMatch `json:"matches"`
}

// GrepMatch is one grep (or grep_fuzzy) hit.
type GrepMatch struct {
	ChunkID string `json:"chunk_id"`
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Score   int    `json:"score,omitempty"`
}

// ListChunksInput is the input schema for the list_chunks tool.
type ListChunksInput struct {
	Project  string `json:"project,omitempty"`
	Domain   string `json:"domain,omitempty"`
	DateFrom string `json:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty"`
	Entity   string `json:"entity,omitempty"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of chunks; 0 or omitted returns all"`
}

// ListChunksOutput is the output schema for the list_chunks tool.
type ListChunksOutput struct {
	Chunks []ChunkSummary `json:"chunks"`
}

// ChunkSummary is one chunk's metadata, as returned by list_chunks.
type ChunkSummary struct {
	ID          string   `json:"id"`
	Summary     string   `json:"summary"`
	Tags        []string `json:"tags,omitempty"`
	Project     string   `json:"project,omitempty"`
	Domain      string   `json:"domain,omitempty"`
	CreatedAt   string   `json:"created_at"`
	AccessCount int      `json:"access_count"`
	Archived    bool     `json:"archived"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query           string `json:"query" jsonschema:"the hybrid BM25+cosine search query"`
	Project         string `json:"project,omitempty"`
	Domain          string `json:"domain,omitempty"`
	DateFrom        string `json:"date_from,omitempty"`
	DateTo          string `json:"date_to,omitempty"`
	Entity          string `json:"entity,omitempty"`
	Limit           int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 10"`
	IncludeInsights bool   `json:"include_insights,omitempty" jsonschema:"also rank remembered insights alongside chunks"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResult `json:"results"`
}

// SearchResult is one ranked hit from the search tool.
type SearchResult struct {
	ID      string  `json:"id"`
	Kind    string  `json:"kind"`
	Score   float64 `json:"score"`
	Preview string  `json:"preview"`
}

// SessionsInput is the input schema for the sessions tool.
type SessionsInput struct {
	Project string `json:"project,omitempty"`
	Domain  string `json:"domain,omitempty"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of sessions; 0 or omitted returns all"`
}

// SessionsOutput is the output schema for the sessions tool.
type SessionsOutput struct {
	Sessions []SessionSummary `json:"sessions"`
}

// SessionSummary is one session registry entry.
type SessionSummary struct {
	ID         string   `json:"id"`
	Date       string   `json:"date"`
	Project    string   `json:"project"`
	ChunkCount int      `json:"chunk_count"`
	ChunkIDs   []string `json:"chunk_ids,omitempty"`
	Domains    []string `json:"domains,omitempty"`
	LastUsed   string   `json:"last_used"`
}

// DomainsInput is the input schema for the domains tool (no parameters).
type DomainsInput struct{}

// DomainsOutput is the output schema for the domains tool.
type DomainsOutput struct {
	Domains []string `json:"domains"`
}

// RetentionPreviewInput is the input schema for the retention_preview tool
// (no parameters).
type RetentionPreviewInput struct{}

// RetentionPreviewOutput is the output schema for the retention_preview tool.
type RetentionPreviewOutput struct {
	ArchiveCandidates []string `json:"archive_candidates"`
	PurgeCandidates   []string `json:"purge_candidates"`
}

// RetentionRunInput is the input schema for the retention_run tool.
type RetentionRunInput struct {
	Archive bool `json:"archive,omitempty" jsonschema:"run the archive phase"`
	Purge   bool `json:"purge,omitempty" jsonschema:"run the purge phase"`
}

// RetentionRunOutput is the output schema for the retention_run tool.
type RetentionRunOutput struct {
	ArchivedCount int          `json:"archived_count"`
	PurgedCount   int          `json:"purged_count"`
	Errors        []RunFailure `json:"errors,omitempty"`
}

// RunFailure is one item's failure during retention_run.
type RunFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// RestoreInput is the input schema for the restore tool.
type RestoreInput struct {
	ID string `json:"id" jsonschema:"archived chunk ID to restore to the active zone"`
}

// RestoreOutput is the output schema for the restore tool.
type RestoreOutput struct {
	Restored bool `json:"restored"`
}
