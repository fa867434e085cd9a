package retention

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/rlmctx/rlmctx/internal/pathsafe"
	"github.com/rlmctx/rlmctx/internal/rlmerrors"
)

const archiveIndexVersion = "1"
const purgeLogVersion = "1"

// ArchiveEntry records a chunk's metadata snapshot at the moment it moved
// from the active zone to the archive zone.
type ArchiveEntry struct {
	ID          string   `json:"id"`
	Project     string   `json:"project,omitempty"`
	Domain      string   `json:"domain,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	AccessCount int      `json:"access_count"`
	ArchivedAt  string   `json:"archived_at"`
	ContentHash string   `json:"content_hash,omitempty"`
}

type archiveRegistry struct {
	Version  string         `json:"version"`
	Archived []ArchiveEntry `json:"archived"`
}

// purgeEntry is one permanently-deleted chunk's tombstone.
type purgeEntry struct {
	ID         string `json:"id"`
	ArchivedAt string `json:"archived_at"`
	PurgedAt   string `json:"purged_at"`
}

type purgeRegistry struct {
	Version string       `json:"version"`
	Purged  []purgeEntry `json:"purged"`
}

func archiveIndexPath(root string) string { return filepath.Join(root, "archive_index.json") }
func purgeLogPath(root string) string     { return filepath.Join(root, "purge_log.json") }
func archiveFilePath(root, id string) string {
	return filepath.Join(root, "archive", id+".md.gz")
}

func loadArchiveIndex(root string) (*archiveRegistry, error) {
	data, err := os.ReadFile(archiveIndexPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &archiveRegistry{Version: archiveIndexVersion}, nil
		}
		return nil, rlmerrors.Wrap("read archive_index.json", err)
	}
	var reg archiveRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, rlmerrors.Wrap("parse archive_index.json", err)
	}
	if reg.Version == "" {
		reg.Version = archiveIndexVersion
	}
	return &reg, nil
}

func saveArchiveIndex(root string, reg *archiveRegistry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return rlmerrors.Wrap("marshal archive_index.json", err)
	}
	return pathsafe.AtomicWrite(archiveIndexPath(root), data)
}

func withArchiveIndexLock(root string, fn func(reg *archiveRegistry) error) error {
	return pathsafe.WithExclusiveLock(archiveIndexPath(root), func() error {
		reg, err := loadArchiveIndex(root)
		if err != nil {
			return err
		}
		if err := fn(reg); err != nil {
			return err
		}
		return saveArchiveIndex(root, reg)
	})
}

func loadPurgeLog(root string) (*purgeRegistry, error) {
	data, err := os.ReadFile(purgeLogPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &purgeRegistry{Version: purgeLogVersion}, nil
		}
		return nil, rlmerrors.Wrap("read purge_log.json", err)
	}
	var reg purgeRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, rlmerrors.Wrap("parse purge_log.json", err)
	}
	if reg.Version == "" {
		reg.Version = purgeLogVersion
	}
	return &reg, nil
}

func savePurgeLog(root string, reg *purgeRegistry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return rlmerrors.Wrap("marshal purge_log.json", err)
	}
	return pathsafe.AtomicWrite(purgeLogPath(root), data)
}

func withPurgeLogLock(root string, fn func(reg *purgeRegistry) error) error {
	return pathsafe.WithExclusiveLock(purgeLogPath(root), func() error {
		reg, err := loadPurgeLog(root)
		if err != nil {
			return err
		}
		if err := fn(reg); err != nil {
			return err
		}
		return savePurgeLog(root, reg)
	})
}

func (reg *archiveRegistry) findByID(id string) (int, bool) {
	for i, e := range reg.Archived {
		if e.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (reg *archiveRegistry) removeByID(id string) {
	for i, e := range reg.Archived {
		if e.ID == id {
			reg.Archived = append(reg.Archived[:i], reg.Archived[i+1:]...)
			return
		}
	}
}

// sortedByArchivedAt returns a copy ordered oldest-archived-first, the
// order purge candidates are evaluated in.
func (reg *archiveRegistry) sortedByArchivedAt() []ArchiveEntry {
	out := append([]ArchiveEntry(nil), reg.Archived...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].ArchivedAt != out[j].ArchivedAt {
			return out[i].ArchivedAt < out[j].ArchivedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}
