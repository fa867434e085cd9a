package pathsafe

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/rlmctx/rlmctx/internal/rlmerrors"
)

// gunzipReader streams r through gzip decompression, aborting once the
// decompressed size would exceed maxBytes. This guards against
// decompression bombs inflating a small archived chunk into unbounded
// memory use.
func gunzipReader(r io.Reader, maxBytes int64) ([]byte, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, rlmerrors.Wrap("open gzip stream", err)
	}
	defer func() { _ = gz.Close() }()

	limited := io.LimitReader(gz, maxBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, rlmerrors.Wrap("read gzip stream", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, rlmerrors.New(rlmerrors.KindInvalidSize, "decompressed content exceeds size cap", nil)
	}
	return data, nil
}

// GzipBytes compresses data for archiving. It is the inverse of
// GunzipBounded and is used by the retention package when moving a chunk
// from the active zone to the archive zone.
func GzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, rlmerrors.Wrap("gzip compress", err)
	}
	if err := w.Close(); err != nil {
		return nil, rlmerrors.Wrap("close gzip writer", err)
	}
	return buf.Bytes(), nil
}
