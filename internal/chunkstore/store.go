package chunkstore

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rlmctx/rlmctx/internal/pathsafe"
	"github.com/rlmctx/rlmctx/internal/rlmerrors"
)

// MaxContentBytes bounds chunk content at creation time.
const MaxContentBytes = pathsafe.MaxChunkBytes

// TokensPerChar estimates token count from content length.
const TokensPerChar = 4

// MaxSummaryChars bounds the auto-derived summary length.
const MaxSummaryChars = 80

// Restorer auto-restores an archived chunk back to the active zone. The
// retention package implements this; chunkstore only calls it, keeping
// C5 and C10 decoupled.
type Restorer interface {
	Restore(id string) error
}

// Store implements the chunk index and content storage contract (C5):
// chunk, peek, and list_chunks over a single storage root.
type Store struct {
	root     string
	restorer Restorer
}

// Option configures a Store.
type Option func(*Store)

// WithRestorer wires an auto-restore hook for peek on archived chunks.
func WithRestorer(r Restorer) Option {
	return func(s *Store) { s.restorer = r }
}

// SetRestorer wires the auto-restore hook after construction, for callers
// whose Restorer implementation itself depends on this Store (the
// retention package takes a ChunkSource built from this Store).
func (s *Store) SetRestorer(r Restorer) {
	s.restorer = r
}

// NewStore opens (creating if necessary) a chunk store rooted at root.
func NewStore(root string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, "chunks"), 0o755); err != nil {
		return nil, rlmerrors.Wrap("create chunks directory", err)
	}

	s := &Store{root: root}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateInput carries the optional fields accepted by Create.
type CreateInput struct {
	Content string
	Summary string
	Tags    []string
	Project string
	Ticket  string
	Domain  string
}

// Create stores content as a new chunk, or returns the existing chunk ID
// if identical content was already stored (duplicate detection).
func (s *Store) Create(in CreateInput) (CreateResult, error) {
	if len(in.Content) == 0 {
		return CreateResult{}, rlmerrors.New(rlmerrors.KindInvalidSize, "chunk content is empty", nil)
	}
	if len(in.Content) > MaxContentBytes {
		return CreateResult{}, rlmerrors.New(rlmerrors.KindInvalidSize, "chunk content exceeds maximum size", nil)
	}

	hash := pathsafe.SHA256Normalized(in.Content)
	summary := in.Summary
	if summary == "" {
		summary = autoSummary(in.Content)
	}

	var result CreateResult
	err := withIndexLock(s.root, func(idx *index) error {
		if existing, ok := idx.findByHash(hash); ok {
			result = CreateResult{
				ChunkID:   existing.ID,
				Duplicate: true,
				Summary:   existing.Summary,
				Tokens:    existing.TokensEstimate,
			}
			return nil
		}

		now := time.Now().UTC()
		datePrefix := now.Format("2006-01-02")
		seq := nextSequence(idx.ids(), datePrefix, in.Project)
		id := generateID(datePrefix, in.Project, seq, in.Ticket, in.Domain)
		if err := pathsafe.ValidateID(id); err != nil {
			return err
		}

		entities := ExtractEntities(in.Content)
		tokens := len(in.Content) / TokensPerChar

		path, err := pathsafe.ResolveIn(filepath.Join(s.root, "chunks"), id, ".md")
		if err != nil {
			return err
		}

		fm := frontmatter{
			Summary:   summary,
			Tags:      in.Tags,
			CreatedAt: now.Format(time.RFC3339),
			Project:   in.Project,
			Domain:    in.Domain,
			Ticket:    in.Ticket,
			Entities:  entities,
		}
		data, err := renderChunkFile(fm, in.Content)
		if err != nil {
			return err
		}
		if err := pathsafe.AtomicWrite(path, data); err != nil {
			return err
		}

		chunk := Chunk{
			ID:             id,
			Path:           filepath.Join("chunks", id+".md"),
			Summary:        summary,
			Tags:           in.Tags,
			Project:        in.Project,
			Domain:         in.Domain,
			Ticket:         in.Ticket,
			CreatedAt:      fm.CreatedAt,
			TokensEstimate: tokens,
			ContentHash:    hash,
			Entities:       entities,
		}
		idx.Chunks = append(idx.Chunks, chunk)
		idx.TotalTokensEstimate += tokens

		result = CreateResult{ChunkID: id, Duplicate: false, Summary: summary, Tokens: tokens}
		return nil
	})
	if err != nil {
		return CreateResult{}, err
	}

	return result, nil
}

// PeekResult is the slice of a chunk's content returned by Peek.
type PeekResult struct {
	Content     string
	AccessCount int
}

// Peek reads a chunk's content, optionally sliced to a 1-based inclusive
// line range, and increments its access counter. If the chunk is absent
// from the active zone but a Restorer is wired, it is auto-restored first.
func (s *Store) Peek(id string, startLine, endLine int) (PeekResult, error) {
	if err := pathsafe.ValidateID(id); err != nil {
		return PeekResult{}, err
	}

	path, err := pathsafe.ResolveIn(filepath.Join(s.root, "chunks"), id, ".md")
	if err != nil {
		return PeekResult{}, err
	}

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if s.restorer == nil {
			return PeekResult{}, rlmerrors.New(rlmerrors.KindNotFound, "chunk not found", nil)
		}
		if err := s.restorer.Restore(id); err != nil {
			return PeekResult{}, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return PeekResult{}, rlmerrors.New(rlmerrors.KindNotFound, "chunk not found", nil)
		}
		return PeekResult{}, rlmerrors.Wrap("read chunk", err)
	}

	_, body, err := splitChunkFile(data)
	if err != nil {
		return PeekResult{}, err
	}

	sliced := sliceLines(body, startLine, endLine)

	var accessCount int
	lockErr := withIndexLock(s.root, func(idx *index) error {
		i, ok := idx.findByID(id)
		if !ok {
			return rlmerrors.New(rlmerrors.KindNotFound, "chunk not found in index", nil)
		}
		idx.Chunks[i].AccessCount++
		idx.Chunks[i].LastAccessed = time.Now().UTC().Format(time.RFC3339)
		accessCount = idx.Chunks[i].AccessCount
		return nil
	})
	if lockErr != nil {
		return PeekResult{}, lockErr
	}

	return PeekResult{Content: sliced, AccessCount: accessCount}, nil
}

// ReadContent returns a chunk's raw body without touching its access
// counter or triggering auto-restore. Used by search and grep, which
// scan the corpus rather than "access" an individual chunk.
func (s *Store) ReadContent(id string) (string, error) {
	if err := pathsafe.ValidateID(id); err != nil {
		return "", err
	}

	path, err := pathsafe.ResolveIn(filepath.Join(s.root, "chunks"), id, ".md")
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", rlmerrors.New(rlmerrors.KindNotFound, "chunk not found", nil)
		}
		return "", rlmerrors.Wrap("read chunk", err)
	}

	_, body, err := splitChunkFile(data)
	return body, err
}

// MarkArchived flips a chunk's index entry to archived. The caller is
// responsible for moving the underlying content out of the active zone.
func (s *Store) MarkArchived(id string) error {
	return withIndexLock(s.root, func(idx *index) error {
		i, ok := idx.findByID(id)
		if !ok {
			return rlmerrors.New(rlmerrors.KindNotFound, "chunk not found in index", nil)
		}
		idx.Chunks[i].Archived = true
		return nil
	})
}

// UnmarkArchived flips a chunk's index entry back to active, used when
// restoring content from the archive zone.
func (s *Store) UnmarkArchived(id string) error {
	return withIndexLock(s.root, func(idx *index) error {
		i, ok := idx.findByID(id)
		if !ok {
			return rlmerrors.New(rlmerrors.KindNotFound, "chunk not found in index", nil)
		}
		idx.Chunks[i].Archived = false
		return nil
	})
}

// ListChunks returns a metadata-only projection of the index, newest first.
func (s *Store) ListChunks(filter ListFilter) ([]Chunk, error) {
	idx, err := loadIndex(s.root)
	if err != nil {
		return nil, err
	}
	return idx.filtered(filter), nil
}

// Get returns a single chunk's metadata by ID.
func (s *Store) Get(id string) (Chunk, bool, error) {
	idx, err := loadIndex(s.root)
	if err != nil {
		return Chunk{}, false, err
	}
	i, ok := idx.findByID(id)
	if !ok {
		return Chunk{}, false, nil
	}
	return idx.Chunks[i], true, nil
}

// autoSummary takes the first non-empty, non-heading line, truncated to
// MaxSummaryChars.
func autoSummary(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if len(trimmed) > MaxSummaryChars {
			return trimmed[:MaxSummaryChars]
		}
		return trimmed
	}
	return ""
}

// sliceLines returns lines [start, end] (1-based, inclusive) from text.
// A zero or out-of-range bound means "to the edge".
func sliceLines(text string, start, end int) string {
	if start <= 0 && end <= 0 {
		return text
	}

	lines := strings.Split(text, "\n")
	if start <= 0 {
		start = 1
	}
	if end <= 0 || end > len(lines) {
		end = len(lines)
	}
	if start > len(lines) {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}
