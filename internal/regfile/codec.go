package regfile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/giantswarm/portres/internal/dirutil"
	"github.com/giantswarm/portres/internal/sentinel"
)

// ErrWriteFailed is returned by Write when the durable write fails.
const ErrWriteFailed = sentinel.Error("write registry failed")

// dirMode and fileMode are the permissions for the registry directory and
// the registry file: 0700 so only the owning user can see entries naming
// other local processes, 0600 for the file itself.
const (
	dirMode  = 0o700
	fileMode = 0o600
)

// Read loads the registry document at path. A missing file returns Empty().
// Any parse or structural failure (malformed JSON, non-object top level, a
// version this code does not recognize) is graceful recovery, not an error:
// it also returns Empty(), logged at Warn so an operator can still notice a
// corrupt registry without the call failing. A corrupt registry is treated
// as equivalent to a fresh host, per spec.
func Read(path string, logger *slog.Logger) Document {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read registry, treating as empty", "path", path, "error", err)
		}
		return Empty()
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("registry is corrupt, treating as empty", "path", path, "error", err)
		return Empty()
	}

	if doc.Version != SchemaVersion {
		logger.Warn("registry has an unrecognized schema version, treating as empty",
			"path", path, "version", doc.Version, "expected", SchemaVersion)
		return Empty()
	}

	if doc.Entries == nil {
		doc.Entries = []Entry{}
	}

	return doc
}

// Write durably replaces the registry document at path. It ensures the
// parent directory exists (mode 0700), marshals doc to pretty-printed JSON,
// writes it to a sibling temp file (mode 0600) named with a random-hex
// suffix so concurrent writers never collide on the temp name, then renames
// the temp file over path. Rename-over-write is the only mutation pattern:
// a crash mid-write leaves either the previous document or the new one,
// never a torn file.
func Write(path string, doc Document) error {
	if err := dirutil.EnsureDirForFile(path, dirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	if doc.Entries == nil {
		doc.Entries = []Entry{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal registry: %w", ErrWriteFailed, err)
	}

	tmpPath := fmt.Sprintf("%s.%s.tmp", path, uuid.New().String())
	if err := os.WriteFile(tmpPath, data, fileMode); err != nil {
		return fmt.Errorf("%w: write temp file: %w", ErrWriteFailed, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: rename temp file: %w", ErrWriteFailed, err)
	}

	return nil
}

// Path returns the canonical registry file path under registryDir.
func Path(registryDir string) string {
	return filepath.Join(registryDir, "registry.json")
}

// LockPath returns the canonical lock file path under registryDir.
func LockPath(registryDir string) string {
	return filepath.Join(registryDir, "registry.lock")
}
