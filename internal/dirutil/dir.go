package dirutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates a directory and all parent directories if they don't
// exist, using the given mode. Returns nil if the directory already exists.
// The mode is applied only to directories created by this call; an
// already-existing directory keeps whatever mode it has.
func EnsureDir(path string, mode os.FileMode) error {
	if err := os.MkdirAll(path, mode); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// EnsureDirForFile creates the parent directory of filePath if it does not
// already exist, ensuring the file can be created without a missing-directory
// error.
func EnsureDirForFile(filePath string, mode os.FileMode) error {
	if err := EnsureDir(filepath.Dir(filePath), mode); err != nil {
		return fmt.Errorf("ensure dir for %s: %w", filePath, err)
	}
	return nil
}
