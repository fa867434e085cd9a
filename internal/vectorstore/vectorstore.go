// Package vectorstore implements a flat, brute-force cosine-similarity
// vector store persisted as a single gob-encoded file. It replaces an ANN
// graph with a linear array: the corpus size this memory core serves
// (thousands of rows at most) makes brute force both simpler and fast
// enough, and it keeps the on-disk format a plain array the spec can pin
// down exactly.
package vectorstore

import (
	"bytes"
	"encoding/gob"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/rlmctx/rlmctx/internal/pathsafe"
	"github.com/rlmctx/rlmctx/internal/rlmerrors"
)

// Scored pairs an ID with a similarity score, used for ranked results.
type Scored struct {
	ID    string
	Score float64
}

// persisted is the on-disk gob-encoded shape: provider identifier,
// embedding dimension, an ordered array of chunk IDs, and a parallel 2-D
// float array of shape (n, dim).
type persisted struct {
	Provider string
	Dim      int
	IDs      []string
	Vectors  [][]float32
}

// Store is a flat, in-memory, brute-force dense vector store backed by a
// single persisted file under the storage root.
type Store struct {
	mu   sync.RWMutex
	path string

	provider string
	dim      int
	ids      []string
	vectors  [][]float32
	index    map[string]int // id -> position in ids/vectors
}

// Open loads the store from path if it exists and its provider/dim agree
// with provider and dim; otherwise it starts empty (a rebuild, per the
// spec's behavior when the on-disk tag disagrees with the active provider).
func Open(path string, provider string, dim int) (*Store, error) {
	s := &Store{
		path:     path,
		provider: provider,
		dim:      dim,
		index:    make(map[string]int),
	}

	if err := s.reloadLocked(); err != nil {
		return nil, err
	}

	return s, nil
}

// reloadLocked reads the persisted file from disk and replaces the
// in-memory rows, or clears them if the file is absent or its
// provider/dim tag disagrees with this store's. Callers must hold s.mu.
func (s *Store) reloadLocked() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.ids, s.vectors, s.index = nil, nil, make(map[string]int)
			return nil
		}
		return rlmerrors.Wrap("read vector store", err)
	}

	var p persisted
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&p); err != nil {
		return rlmerrors.Wrap("decode vector store", err)
	}

	if p.Provider != s.provider || p.Dim != s.dim {
		// Mismatch: rebuild empty, requiring a backfill, as specified.
		s.ids, s.vectors, s.index = nil, nil, make(map[string]int)
		return nil
	}

	s.ids = p.IDs
	s.vectors = p.Vectors
	s.index = make(map[string]int, len(s.ids))
	for i, id := range s.ids {
		s.index[id] = i
	}
	return nil
}

// Add appends or updates a row, then persists the full store atomically.
// The whole read-modify-write window is held under the vector store's
// own exclusive file lock, reloading the latest on-disk rows first so a
// concurrent writer in another process is merged with rather than
// clobbered.
func (s *Store) Add(id string, vector []float32) error {
	if err := pathsafe.ValidateID(id); err != nil {
		return err
	}
	if len(vector) != s.dim {
		return rlmerrors.New(rlmerrors.KindInvalidSize,
			"vector dimension does not match store dimension", nil)
	}

	return pathsafe.WithExclusiveLock(s.path, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		if err := s.reloadLocked(); err != nil {
			return err
		}

		if pos, ok := s.index[id]; ok {
			s.vectors[pos] = vector
		} else {
			s.index[id] = len(s.ids)
			s.ids = append(s.ids, id)
			s.vectors = append(s.vectors, vector)
		}

		return s.persistLocked()
	})
}

// Get returns the vector for id, or (nil, false) if absent.
func (s *Store) Get(id string) ([]float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.vectors[pos], true
}

// CosineAll scores every stored row against query and returns results
// sorted by score descending, ties broken by ID for determinism.
func (s *Store) CosineAll(query []float32) []Scored {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Scored, 0, len(s.ids))
	for i, id := range s.ids {
		results = append(results, Scored{ID: id, Score: cosine(query, s.vectors[i])})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	return results
}

// Len returns the number of stored rows.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns a copy of all stored IDs in insertion order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Reload discards the in-memory rows and reloads from disk, used by the
// cache-invalidation watcher when a foreign process writes the file.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked()
}

// persistLocked writes the full store atomically. Callers must hold s.mu.
func (s *Store) persistLocked() error {
	p := persisted{
		Provider: s.provider,
		Dim:      s.dim,
		IDs:      s.ids,
		Vectors:  s.vectors,
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(p); err != nil {
		return rlmerrors.Wrap("encode vector store", err)
	}

	return pathsafe.AtomicWrite(s.path, buf.Bytes())
}

// cosine computes cosine similarity between two equal-length vectors.
func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		ai, bi := float64(a[i]), float64(b[i])
		dot += ai * bi
		normA += ai * ai
		normB += bi * bi
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
