// Package file provides the FileManager adapter over the local file system.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"ledbox-netcfg/internal/port"
)

// ManagerAdapter implements the FileManager port using the os package.
type ManagerAdapter struct{}

var _ port.FileManager = (*ManagerAdapter)(nil)

// NewManagerAdapter creates a new file manager adapter.
func NewManagerAdapter() *ManagerAdapter {
	return &ManagerAdapter{}
}

// ReadFile reads the contents of a file.
func (f *ManagerAdapter) ReadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return data, nil
}

// WriteFile replaces filename with data. The content is written to a
// temporary file in the same directory and renamed over the target, so
// readers never observe a partial file.
func (f *ManagerAdapter) WriteFile(filename string, data []byte, perm int) error {
	dir := filepath.Dir(filename)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".*")
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	if err := tmp.Chmod(os.FileMode(perm)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("failed to replace file %s: %w", filename, err)
	}
	return nil
}

// FileExists checks if a file exists.
func (f *ManagerAdapter) FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
