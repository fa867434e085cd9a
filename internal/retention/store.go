package retention

import (
	"time"

	"github.com/rlmctx/rlmctx/internal/chunkstore"
	"github.com/rlmctx/rlmctx/internal/pathsafe"
)

// ChunkSource is the slice of chunkstore.Store retention depends on. A
// narrow interface keeps C5 and C10 decoupled; chunkstore.Store satisfies
// it structurally.
type ChunkSource interface {
	ListChunks(filter chunkstore.ListFilter) ([]chunkstore.Chunk, error)
	ReadContent(id string) (string, error)
	MarkArchived(id string) error
	UnmarkArchived(id string) error
}

// Store implements the archive/purge/restore lifecycle (C10) over a
// storage root shared with the chunk store.
type Store struct {
	root   string
	chunks ChunkSource
}

// NewStore wires a retention store over root, reading and archiving
// chunks through chunks.
func NewStore(root string, chunks ChunkSource) *Store {
	return &Store{root: root, chunks: chunks}
}

// Preview enumerates archive and purge candidates with no side effects.
func (s *Store) Preview() (PreviewResult, error) {
	now := time.Now().UTC()

	archiveCandidates, err := s.archiveCandidates(now)
	if err != nil {
		return PreviewResult{}, err
	}
	purgeCandidates, err := s.purgeCandidates(now)
	if err != nil {
		return PreviewResult{}, err
	}

	return PreviewResult{ArchiveCandidates: archiveCandidates, PurgeCandidates: purgeCandidates}, nil
}

// Run performs the selected phases, returning counts and per-item errors.
// A failure archiving or purging one chunk never aborts its siblings.
func (s *Store) Run(opts RunOptions) (RunResult, error) {
	var result RunResult
	now := time.Now().UTC()

	if opts.Archive {
		candidates, err := s.archiveCandidates(now)
		if err != nil {
			return result, err
		}
		archived, errs := s.archiveBatch(candidates, now)
		result.ArchivedCount = archived
		result.Errors = append(result.Errors, errs...)
	}

	if opts.Purge {
		candidates, err := s.purgeCandidates(now)
		if err != nil {
			return result, err
		}
		purged, errs := s.purgeBatch(candidates, now)
		result.PurgedCount = purged
		result.Errors = append(result.Errors, errs...)
	}

	return result, nil
}

// archiveCandidates lists active chunks older than ArchiveAfter that are
// not immune.
func (s *Store) archiveCandidates(now time.Time) ([]ArchiveCandidate, error) {
	chunks, err := s.chunks.ListChunks(chunkstore.ListFilter{})
	if err != nil {
		return nil, err
	}

	var out []ArchiveCandidate
	for _, c := range chunks {
		if c.Archived {
			continue
		}
		createdAt, err := time.Parse(time.RFC3339, c.CreatedAt)
		if err != nil {
			continue
		}
		if now.Sub(createdAt) < ArchiveAfter {
			continue
		}
		if c.AccessCount != 0 {
			continue
		}

		content, err := s.chunks.ReadContent(c.ID)
		if err != nil {
			continue
		}
		if isImmune(c.Tags, c.AccessCount, content) {
			continue
		}

		out = append(out, ArchiveCandidate{
			ID:          c.ID,
			Project:     c.Project,
			Domain:      c.Domain,
			Tags:        c.Tags,
			AccessCount: c.AccessCount,
			ContentHash: c.ContentHash,
			CreatedAt:   c.CreatedAt,
		})
	}
	return out, nil
}

// purgeCandidates lists archived chunks older than PurgeAfter that are
// not immune, re-checking immunity against the frozen archive snapshot.
func (s *Store) purgeCandidates(now time.Time) ([]PurgeCandidate, error) {
	reg, err := loadArchiveIndex(s.root)
	if err != nil {
		return nil, err
	}

	var out []PurgeCandidate
	for _, e := range reg.sortedByArchivedAt() {
		archivedAt, err := time.Parse(time.RFC3339, e.ArchivedAt)
		if err != nil {
			continue
		}
		if now.Sub(archivedAt) < PurgeAfter {
			continue
		}

		data, err := pathsafe.GunzipBounded(archiveFilePath(s.root, e.ID), 0)
		if err != nil {
			continue
		}
		if isImmune(e.Tags, e.AccessCount, string(data)) {
			continue
		}

		out = append(out, PurgeCandidate{ID: e.ID, ArchivedAt: e.ArchivedAt})
	}
	return out, nil
}
