package util

import (
	"os"
	"path/filepath"
	"strings"
)

// GetFileStem returns the base name of path without its extension.
func GetFileStem(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// GetExtension returns the lowercased extension of name without the leading dot.
func GetExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// EnsureDirectory creates path and any missing parents.
func EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists reports whether path names an existing non-directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
