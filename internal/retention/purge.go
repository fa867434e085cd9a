package retention

import (
	"os"
	"time"

	"github.com/rlmctx/rlmctx/internal/rlmerrors"
)

// purgeBatch deletes each candidate's archived content and tombstones it
// in purge_log.json, sequentially: purges are rare and low-volume next to
// archival, so the added complexity of bounded concurrency isn't earned.
func (s *Store) purgeBatch(candidates []PurgeCandidate, now time.Time) (int, []ItemError) {
	var purged int
	var errs []ItemError

	for _, c := range candidates {
		if err := s.purgeOne(c, now); err != nil {
			errs = append(errs, ItemError{ID: c.ID, Error: err.Error()})
			continue
		}
		purged++
	}
	return purged, errs
}

func (s *Store) purgeOne(c PurgeCandidate, now time.Time) error {
	path := archiveFilePath(s.root, c.ID)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return rlmerrors.Wrap("remove archived chunk file", err)
	}

	if err := withPurgeLogLock(s.root, func(reg *purgeRegistry) error {
		reg.Purged = append(reg.Purged, purgeEntry{
			ID:         c.ID,
			ArchivedAt: c.ArchivedAt,
			PurgedAt:   now.Format(time.RFC3339),
		})
		return nil
	}); err != nil {
		return err
	}

	return withArchiveIndexLock(s.root, func(reg *archiveRegistry) error {
		reg.removeByID(c.ID)
		return nil
	})
}
