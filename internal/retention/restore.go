package retention

import (
	"os"
	"path/filepath"

	"github.com/rlmctx/rlmctx/internal/pathsafe"
	"github.com/rlmctx/rlmctx/internal/rlmerrors"
)

// Restore moves an archived chunk back to the active zone: decompress,
// write the content back under its original ID, drop the archive entry,
// and unmark it in the chunk index. It implements chunkstore.Restorer so
// Peek can auto-restore on demand.
func (s *Store) Restore(id string) error {
	archivePath := archiveFilePath(s.root, id)
	if _, err := os.Stat(archivePath); err != nil {
		if os.IsNotExist(err) {
			return rlmerrors.New(rlmerrors.KindNotFound, "chunk not found in archive", nil)
		}
		return rlmerrors.Wrap("stat archived chunk", err)
	}

	data, err := pathsafe.GunzipBounded(archivePath, 0)
	if err != nil {
		return err
	}

	activePath, err := pathsafe.ResolveIn(filepath.Join(s.root, "chunks"), id, ".md")
	if err != nil {
		return err
	}
	if err := pathsafe.AtomicWrite(activePath, data); err != nil {
		return err
	}

	if err := s.chunks.UnmarkArchived(id); err != nil {
		return err
	}

	return withArchiveIndexLock(s.root, func(reg *archiveRegistry) error {
		reg.removeByID(id)
		return nil
	})
}
