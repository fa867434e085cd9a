// Package retention implements the archive/purge lifecycle (C10):
// preview, run, and restore over the active/archive chunk zones.
package retention

import "time"

// Thresholds from the spec's retention policy.
const (
	ArchiveAfter      = 30 * 24 * time.Hour
	PurgeAfter        = 180 * 24 * time.Hour
	ImmuneAccessCount = 3

	// keywordScanBytes bounds how much of a chunk's content is scanned for
	// protected keywords.
	keywordScanBytes = 4096

	// archiveConcurrency bounds parallel compress/decompress work per run.
	archiveConcurrency = 4
)

// ProtectedTags makes a chunk immune to archival/purge regardless of age
// or access count.
var ProtectedTags = map[string]struct{}{
	"critical": {}, "decision": {}, "keep": {}, "important": {},
}

// ProtectedKeywords are searched (ASCII-folded, uppercased) in the first
// keywordScanBytes of a chunk's content.
var ProtectedKeywords = []string{"DECISION:", "IMPORTANT:", "A RETENIR:"}

// ArchiveCandidate is an active chunk eligible for archival.
type ArchiveCandidate struct {
	ID          string
	Project     string
	Domain      string
	Tags        []string
	AccessCount int
	ContentHash string
	CreatedAt   string
}

// PurgeCandidate is an archived chunk eligible for purge.
type PurgeCandidate struct {
	ID         string
	ArchivedAt string
}

// PreviewResult enumerates both candidate sets with no side effects.
type PreviewResult struct {
	ArchiveCandidates []ArchiveCandidate
	PurgeCandidates   []PurgeCandidate
}

// ItemError records a per-item failure during Run.
type ItemError struct {
	ID    string
	Error string
}

// RunResult summarizes one retention_run invocation.
type RunResult struct {
	ArchivedCount int
	PurgedCount   int
	Errors        []ItemError
}

// RunOptions selects which phases retention_run performs.
type RunOptions struct {
	Archive bool
	Purge   bool
}
