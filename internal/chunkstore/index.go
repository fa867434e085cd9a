package chunkstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/rlmctx/rlmctx/internal/pathsafe"
	"github.com/rlmctx/rlmctx/internal/rlmerrors"
)

const indexVersion = "1"

// index is the on-disk shape of index.json.
type index struct {
	Version             string  `json:"version"`
	Chunks              []Chunk `json:"chunks"`
	TotalTokensEstimate int     `json:"total_tokens_estimate"`
}

func indexPath(root string) string {
	return filepath.Join(root, "index.json")
}

// loadIndex reads index.json, returning an empty index if the file does
// not yet exist. Callers must hold the index lock.
func loadIndex(root string) (*index, error) {
	path := indexPath(root)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &index{Version: indexVersion}, nil
		}
		return nil, rlmerrors.Wrap("read index.json", err)
	}

	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, rlmerrors.Wrap("parse index.json", err)
	}
	if idx.Version == "" {
		idx.Version = indexVersion
	}
	return &idx, nil
}

// saveIndex atomically persists idx. Callers must hold the index lock.
func saveIndex(root string, idx *index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return rlmerrors.Wrap("marshal index.json", err)
	}
	return pathsafe.AtomicWrite(indexPath(root), data)
}

// withIndexLock serializes read-modify-write access to index.json across
// processes, per the spec's shared-resource policy.
func withIndexLock(root string, fn func(idx *index) error) error {
	return pathsafe.WithExclusiveLock(indexPath(root), func() error {
		idx, err := loadIndex(root)
		if err != nil {
			return err
		}
		if err := fn(idx); err != nil {
			return err
		}
		return saveIndex(root, idx)
	})
}

// findByHash returns the chunk with the given content hash, if any.
func (idx *index) findByHash(hash string) (Chunk, bool) {
	for _, c := range idx.Chunks {
		if c.ContentHash == hash {
			return c, true
		}
	}
	return Chunk{}, false
}

// findByID returns the chunk with the given ID and its slice index.
func (idx *index) findByID(id string) (int, bool) {
	for i, c := range idx.Chunks {
		if c.ID == id {
			return i, true
		}
	}
	return 0, false
}

// ids returns every chunk ID currently in the index.
func (idx *index) ids() []string {
	out := make([]string, len(idx.Chunks))
	for i, c := range idx.Chunks {
		out[i] = c.ID
	}
	return out
}

// filtered returns chunks matching filter, ordered by created_at desc.
func (idx *index) filtered(filter ListFilter) []Chunk {
	out := make([]Chunk, 0, len(idx.Chunks))
	for _, c := range idx.Chunks {
		if filter.Project != "" && c.Project != filter.Project {
			continue
		}
		if filter.Domain != "" && c.Domain != filter.Domain {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}
