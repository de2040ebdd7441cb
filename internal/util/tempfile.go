package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempDir is a scratch directory removed by Cleanup.
type TempDir struct {
	path string
}

// CreateTempDir creates a uniquely named directory under base. An empty base
// uses the OS temp directory.
func CreateTempDir(base, prefix string) (*TempDir, error) {
	if base == "" {
		base = os.TempDir()
	}
	if err := EnsureDirectory(base); err != nil {
		return nil, fmt.Errorf("failed to create temp base %s: %w", base, err)
	}
	path, err := os.MkdirTemp(base, prefix+"_*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir in %s: %w", base, err)
	}
	return &TempDir{path: path}, nil
}

// Path returns the directory path.
func (d *TempDir) Path() string {
	return d.path
}

// Join returns name resolved inside the directory.
func (d *TempDir) Join(name string) string {
	return filepath.Join(d.path, filepath.Base(name))
}

// Cleanup removes the directory and everything in it.
func (d *TempDir) Cleanup() error {
	if d == nil || d.path == "" {
		return nil
	}
	return os.RemoveAll(d.path)
}
