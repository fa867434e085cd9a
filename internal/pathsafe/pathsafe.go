// Package pathsafe provides the storage-root safety primitives every other
// package builds on: ID validation, path containment, atomic writes,
// cross-process exclusive locking, normalized content hashing, and bounded
// gzip decompression.
package pathsafe

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rlmctx/rlmctx/internal/rlmerrors"
)

// MaxChunkBytes is the size cap for chunk content at creation time.
const MaxChunkBytes = 2 * 1024 * 1024 // 2 MiB

// DefaultGunzipCap is the default decompression size cap.
const DefaultGunzipCap = 10 * 1024 * 1024 // 10 MiB

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_.&-]+$`)

// MaxIDLength bounds ID length to keep filenames and index rows sane.
const MaxIDLength = 200

// ValidateID checks s against the ID allowlist: nonempty, bounded length,
// characters drawn from [A-Za-z0-9_.&-].
func ValidateID(s string) error {
	if s == "" {
		return rlmerrors.New(rlmerrors.KindInvalidID, "id must not be empty", nil)
	}
	if len(s) > MaxIDLength {
		return rlmerrors.New(rlmerrors.KindInvalidID, fmt.Sprintf("id exceeds %d characters", MaxIDLength), nil)
	}
	if !idPattern.MatchString(s) {
		return rlmerrors.New(rlmerrors.KindInvalidID, fmt.Sprintf("id %q contains characters outside [A-Za-z0-9_.&-]", s), nil)
	}
	return nil
}

// ResolveIn joins base, id, and ext and verifies the cleaned result still
// has base as a path prefix, rejecting any escape via "..". The check is
// lexical: symlinks are not resolved.
func ResolveIn(base, id, ext string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}

	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", rlmerrors.Wrap("resolve base path", err)
	}
	absBase = filepath.Clean(absBase)

	candidate := filepath.Join(absBase, id+ext)
	candidate = filepath.Clean(candidate)

	rel, err := filepath.Rel(absBase, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", rlmerrors.New(rlmerrors.KindPathEscape, fmt.Sprintf("id %q escapes storage root", id), nil)
	}

	return candidate, nil
}

// AtomicWrite writes data to a sibling tempfile in path's directory, fsyncs
// it, and renames it over path. On failure the tempfile is unlinked and the
// original is left untouched.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return rlmerrors.Wrap("create parent directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return rlmerrors.Wrap("create temp file", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return rlmerrors.Wrap("write temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return rlmerrors.Wrap("fsync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return rlmerrors.Wrap("close temp file", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return rlmerrors.Wrap("rename temp file over target", err)
	}

	return nil
}

// SHA256Normalized hashes text after lowercasing it and collapsing runs of
// whitespace to a single space, matching the normalization dedup relies on.
func SHA256Normalized(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	normalized := strings.Join(fields, " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// GunzipBounded decompresses the gzip stream at path, aborting with
// rlmerrors.KindInvalidSize once the produced size exceeds maxBytes. A
// maxBytes of 0 uses DefaultGunzipCap.
func GunzipBounded(path string, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultGunzipCap
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, rlmerrors.Wrap("open gzip file", err)
	}
	defer func() { _ = f.Close() }()

	return gunzipReader(f, maxBytes)
}
