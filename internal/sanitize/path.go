// Package sanitize validates and normalizes the two kinds of untrusted input
// the registry touches before they reach the filesystem or the on-disk
// document: the registry directory path and a caller-supplied tag.
package sanitize

import (
	"path/filepath"
	"strings"

	"github.com/giantswarm/portres/internal/sentinel"
)

// ErrInvalidPath is returned when a registry directory path contains a
// traversal segment or a NUL byte, either before or after normalization.
const ErrInvalidPath = sentinel.Error("invalid path")

// Path rejects any input containing ".." or a NUL byte, checked both before
// and after normalization to an absolute form, and returns the absolute,
// normalized path on success.
//
// Checking before normalization catches a raw ".." segment even when
// filepath.Clean would otherwise absorb it into a shorter, seemingly safe
// path; the check after normalization re-verifies the absolute form that
// is returned (filepath.Abs has already cleaned it).
func Path(path string) (string, error) {
	if containsTraversal(path) {
		return "", ErrInvalidPath
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ErrInvalidPath
	}

	if containsTraversal(abs) {
		return "", ErrInvalidPath
	}

	return abs, nil
}

// containsTraversal reports whether path contains a NUL byte or a ".."
// path segment.
func containsTraversal(path string) bool {
	if strings.ContainsRune(path, 0) {
		return true
	}
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
