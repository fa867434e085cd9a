// Package rlmerrors defines the tagged error taxonomy surfaced across the
// memory core's RPC boundary. Callers never see raw I/O errors; every
// failure path wraps into one of the Kind values below.
package rlmerrors

import "fmt"

// Kind identifies one of the core's error categories.
type Kind string

const (
	// KindInvalidID means a chunk ID failed the allowlist.
	KindInvalidID Kind = "InvalidId"
	// KindPathEscape means a resolved path would leave the storage root.
	KindPathEscape Kind = "PathEscape"
	// KindInvalidSize means content exceeded a size cap (chunk or gzip).
	KindInvalidSize Kind = "InvalidSize"
	// KindNotFound means the ID exists in neither the active nor the archive zone.
	KindNotFound Kind = "NotFound"
	// KindDuplicate is informational: content already exists under another ID.
	KindDuplicate Kind = "Duplicate"
	// KindInvalidPattern means a regex failed to compile for grep.
	KindInvalidPattern Kind = "InvalidPattern"
	// KindEncoding means a chunk file was not valid UTF-8.
	KindEncoding Kind = "EncodingError"
	// KindProviderUnavailable is informational: the embedding provider is absent.
	KindProviderUnavailable Kind = "ProviderUnavailable"
	// KindIO wraps filesystem, lock-acquisition, or gzip failures.
	KindIO Kind = "IOError"
)

// Error is the structured error type returned by every core operation.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap supports errors.Is/errors.As chains through the Cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by Kind, so errors.Is(err, rlmerrors.New(KindNotFound, "", nil)) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an Error of the given kind.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Wrap wraps an existing error as KindIO unless it is already a tagged Error.
func Wrap(message string, cause error) *Error {
	if cause == nil {
		return nil
	}
	var e *Error
	if AsError(cause, &e) {
		return e
	}
	return New(KindIO, message, cause)
}

// AsError is a small errors.As helper kept local to avoid importing errors
// in every caller that just wants to test the Kind.
func AsError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// KindOf extracts the Kind of err, or "" if err is not a tagged Error.
func KindOf(err error) Kind {
	var e *Error
	if AsError(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err is a tagged Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
