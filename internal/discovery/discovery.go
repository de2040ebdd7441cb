// Package discovery finds and loads the media files a batch is built from.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	coreerr "github.com/aagalakova/Media-processor/internal/errors"
	"github.com/aagalakova/Media-processor/internal/logging"
	"github.com/aagalakova/Media-processor/internal/media"
)

// Result contains the results of file discovery with metadata.
type Result struct {
	Files        []string
	SkippedCount int
}

// FindMediaFiles finds image, audio and video files in the given directory,
// plus files of any other type when includeOther is set. Hidden files and
// subdirectories are skipped. Files are sorted case-insensitively by name.
func FindMediaFiles(inputDir string, includeOther bool) (*Result, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, coreerr.NewIOError(fmt.Sprintf("directory does not exist: %s", inputDir), err)
	}
	if !info.IsDir() {
		return nil, coreerr.NewIOError(fmt.Sprintf("%s is not a directory", inputDir), nil)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, coreerr.NewIOError(fmt.Sprintf("cannot read directory %s", inputDir), err)
	}

	result := &Result{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		if includeOther || media.TypeForName(name) != media.Other {
			result.Files = append(result.Files, filepath.Join(inputDir, name))
		} else {
			result.SkippedCount++
		}
	}

	sortByName(result.Files)
	return result, nil
}

// ResolveInputs expands directories among paths into the media files they
// contain. Explicit file paths are kept in the order given, whatever their
// type. Duplicates are dropped.
func ResolveInputs(paths []string, includeOther bool, logger *logging.Logger) ([]string, error) {
	log := logging.OrGlobal(logger)

	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, coreerr.NewIOError(fmt.Sprintf("input does not exist: %s", p), err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		result, err := FindMediaFiles(p, includeOther)
		if err != nil {
			return nil, err
		}
		logDiscoveredFiles(log, p, result)
		for _, f := range result.Files {
			add(f)
		}
	}

	if len(files) == 0 {
		return nil, coreerr.NewNoInputFilesError()
	}
	return files, nil
}

// Load reads files into memory and classifies them.
func Load(paths []string) ([]media.InputFile, error) {
	files := make([]media.InputFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, coreerr.NewIOError(fmt.Sprintf("cannot read %s", p), err)
		}
		files = append(files, media.NewInputFile(filepath.Base(p), data))
	}
	return files, nil
}

func sortByName(files []string) {
	slices.SortFunc(files, func(a, b string) int {
		return strings.Compare(strings.ToLower(filepath.Base(a)), strings.ToLower(filepath.Base(b)))
	})
}

// logDiscoveredFiles logs the first 5 discovered files plus a count.
func logDiscoveredFiles(log *logging.Logger, dir string, result *Result) {
	if len(result.Files) == 0 {
		log.Info("no media files found", "dir", dir, "skipped", result.SkippedCount)
		return
	}

	log.Info("found media files", "dir", dir, "count", len(result.Files), "skipped", result.SkippedCount)

	maxToLog := min(5, len(result.Files))
	for i := range maxToLog {
		log.Debug("discovered", "file", filepath.Base(result.Files[i]))
	}

	if len(result.Files) > 5 {
		log.Debug("more files discovered", "count", len(result.Files)-5)
	}
}
