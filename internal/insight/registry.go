package insight

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rlmctx/rlmctx/internal/pathsafe"
	"github.com/rlmctx/rlmctx/internal/rlmerrors"
)

const registryVersion = "1"

// registry is the on-disk shape of session_memory.json.
type registry struct {
	Version     string    `json:"version"`
	Insights    []Insight `json:"insights"`
	CreatedAt   string    `json:"created_at"`
	LastUpdated string    `json:"last_updated"`
}

func registryPath(root string) string {
	return filepath.Join(root, "session_memory.json")
}

func loadRegistry(root string) (*registry, error) {
	data, err := os.ReadFile(registryPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			now := time.Now().UTC().Format(time.RFC3339)
			return &registry{Version: registryVersion, CreatedAt: now, LastUpdated: now}, nil
		}
		return nil, rlmerrors.Wrap("read session_memory.json", err)
	}
	var reg registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, rlmerrors.Wrap("parse session_memory.json", err)
	}
	if reg.Version == "" {
		reg.Version = registryVersion
	}
	return &reg, nil
}

func saveRegistry(root string, reg *registry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return rlmerrors.Wrap("marshal session_memory.json", err)
	}
	return pathsafe.AtomicWrite(registryPath(root), data)
}

// withRegistryLock serializes read-modify-write access to
// session_memory.json, stamping LastUpdated on every successful mutation.
func withRegistryLock(root string, fn func(reg *registry) error) error {
	return pathsafe.WithExclusiveLock(registryPath(root), func() error {
		reg, err := loadRegistry(root)
		if err != nil {
			return err
		}
		if err := fn(reg); err != nil {
			return err
		}
		reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
		return saveRegistry(root, reg)
	})
}

func (reg *registry) findByID(id string) (int, bool) {
	for i, ins := range reg.Insights {
		if ins.ID == id {
			return i, true
		}
	}
	return 0, false
}
