// Package output writes emitted variants to a directory.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	coreerr "github.com/aagalakova/Media-processor/internal/errors"
	"github.com/aagalakova/Media-processor/internal/logging"
	"github.com/aagalakova/Media-processor/internal/media"
	"github.com/aagalakova/Media-processor/internal/util"
)

// Writer stores variants under a directory. A name that already exists on
// disk is kept and the new file gets a " - dupN" suffix, unless Overwrite
// is set.
type Writer struct {
	dir       string
	overwrite bool
	log       *logging.Logger

	mu      sync.Mutex
	claimed map[string]bool
	written []string
	bytes   uint64
}

// NewWriter creates the output directory if needed.
func NewWriter(dir string, overwrite bool, logger *logging.Logger) (*Writer, error) {
	if err := util.EnsureDirectory(dir); err != nil {
		return nil, coreerr.NewIOError(fmt.Sprintf("cannot create output directory %s", dir), err)
	}
	return &Writer{
		dir:       dir,
		overwrite: overwrite,
		log:       logging.OrGlobal(logger).WithPrefix("output"),
		claimed:   make(map[string]bool),
	}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write stores each variant and returns the paths written.
func (w *Writer) Write(variants []media.Variant) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(variants))
	for _, v := range variants {
		path := w.resolve(v.Name)
		if err := writeFile(path, v.Data); err != nil {
			return paths, coreerr.NewIOError(fmt.Sprintf("cannot write %s", path), err)
		}
		w.claimed[path] = true
		w.written = append(w.written, path)
		w.bytes += uint64(len(v.Data))
		paths = append(paths, path)
		w.log.Debug("variant written", "path", path, "bytes", len(v.Data), "source", v.Source)
	}
	return paths, nil
}

// Sink adapts the writer to a results sink. Write errors go to onError.
func (w *Writer) Sink(onError func(error)) func([]media.Variant) {
	return func(variants []media.Variant) {
		if _, err := w.Write(variants); err != nil && onError != nil {
			onError(err)
		}
	}
}

// Written returns every path written so far.
func (w *Writer) Written() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.written...)
}

// BytesWritten returns the total size of the files written.
func (w *Writer) BytesWritten() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bytes
}

// resolve returns the destination for name, appending " - dupN" while the
// candidate is taken on disk or by an earlier write of this writer.
func (w *Writer) resolve(name string) string {
	base := filepath.Base(name)
	requested := filepath.Join(w.dir, base)
	if w.overwrite && !w.claimed[requested] {
		return requested
	}
	if !w.taken(requested) {
		return requested
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for counter := 1; ; counter++ {
		candidate := filepath.Join(w.dir, fmt.Sprintf("%s - dup%d%s", stem, counter, ext))
		if !w.taken(candidate) {
			return candidate
		}
	}
}

func (w *Writer) taken(path string) bool {
	return w.claimed[path] || util.FileExists(path)
}

// writeFile writes through a temporary file so a partial write never
// leaves a truncated variant under its final name.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".mediaproc-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
