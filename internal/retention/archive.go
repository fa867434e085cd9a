package retention

import (
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rlmctx/rlmctx/internal/pathsafe"
	"github.com/rlmctx/rlmctx/internal/rlmerrors"
)

// archiveOutcome is one candidate's compress-and-write result, collected
// per-slot so one failure never cancels its siblings' work.
type archiveOutcome struct {
	candidate ArchiveCandidate
	err       error
}

// archiveBatch compresses every candidate's content concurrently (bounded
// by archiveConcurrency), then reconciles the index and archive registry
// sequentially for whichever candidates compressed successfully. This
// mirrors the fan-out-then-reconcile shape used elsewhere for parallel
// work whose failures must be collected rather than propagated.
func (s *Store) archiveBatch(candidates []ArchiveCandidate, now time.Time) (int, []ItemError) {
	if len(candidates) == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Join(s.root, "archive"), 0o755); err != nil {
		errs := make([]ItemError, len(candidates))
		for i, c := range candidates {
			errs[i] = ItemError{ID: c.ID, Error: err.Error()}
		}
		return 0, errs
	}

	outcomes := make([]archiveOutcome, len(candidates))
	g := new(errgroup.Group)
	g.SetLimit(archiveConcurrency)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			outcomes[i] = archiveOutcome{candidate: c, err: s.compressCandidate(c)}
			return nil
		})
	}
	_ = g.Wait()

	var archived int
	var errs []ItemError
	for _, o := range outcomes {
		if o.err != nil {
			errs = append(errs, ItemError{ID: o.candidate.ID, Error: o.err.Error()})
			continue
		}
		if err := s.reconcileArchived(o.candidate, now); err != nil {
			errs = append(errs, ItemError{ID: o.candidate.ID, Error: err.Error()})
			continue
		}
		archived++
	}
	return archived, errs
}

// compressCandidate writes a candidate's gzip-compressed content to the
// archive zone without touching any index.
func (s *Store) compressCandidate(c ArchiveCandidate) error {
	content, err := s.chunks.ReadContent(c.ID)
	if err != nil {
		return err
	}
	compressed, err := pathsafe.GzipBytes([]byte(content))
	if err != nil {
		return err
	}
	return pathsafe.AtomicWrite(archiveFilePath(s.root, c.ID), compressed)
}

// reconcileArchived records the archive_index.json entry, flips the chunk
// index to archived, and removes the active-zone file. Run sequentially,
// never concurrently, to avoid interleaving index-lock acquisitions.
func (s *Store) reconcileArchived(c ArchiveCandidate, now time.Time) error {
	entry := ArchiveEntry{
		ID:          c.ID,
		Project:     c.Project,
		Domain:      c.Domain,
		Tags:        c.Tags,
		AccessCount: c.AccessCount,
		ArchivedAt:  now.Format(time.RFC3339),
		ContentHash: c.ContentHash,
	}
	if err := withArchiveIndexLock(s.root, func(reg *archiveRegistry) error {
		reg.Archived = append(reg.Archived, entry)
		return nil
	}); err != nil {
		return err
	}

	if err := s.chunks.MarkArchived(c.ID); err != nil {
		return err
	}

	activePath, err := pathsafe.ResolveIn(filepath.Join(s.root, "chunks"), c.ID, ".md")
	if err != nil {
		return err
	}
	if err := os.Remove(activePath); err != nil && !os.IsNotExist(err) {
		return rlmerrors.Wrap("remove archived chunk file", err)
	}
	return nil
}
