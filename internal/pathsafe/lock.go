package pathsafe

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/rlmctx/rlmctx/internal/rlmerrors"
)

// WithExclusiveLock acquires an exclusive whole-file lock on path+".lock",
// runs fn, and releases the lock on every exit path including a panic
// unwinding through fn. Callers hold the lock across their entire
// read-modify-write window on the target file.
func WithExclusiveLock(path string, fn func() error) error {
	lockPath := path + ".lock"

	dir := filepath.Dir(lockPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return rlmerrors.Wrap("create lock directory", err)
	}

	fl := flock.New(lockPath)
	if err := fl.Lock(); err != nil {
		return rlmerrors.Wrap("acquire exclusive lock", err)
	}
	defer func() { _ = fl.Unlock() }()

	return fn()
}

// TryWithExclusiveLock behaves like WithExclusiveLock but returns
// (false, nil) immediately instead of blocking if the lock is already held
// by another process.
func TryWithExclusiveLock(path string, fn func() error) (bool, error) {
	lockPath := path + ".lock"

	dir := filepath.Dir(lockPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, rlmerrors.Wrap("create lock directory", err)
	}

	fl := flock.New(lockPath)
	acquired, err := fl.TryLock()
	if err != nil {
		return false, rlmerrors.Wrap("acquire exclusive lock", err)
	}
	if !acquired {
		return false, nil
	}
	defer func() { _ = fl.Unlock() }()

	return true, fn()
}
