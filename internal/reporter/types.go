// Package reporter provides progress reporting interfaces and implementations.
package reporter

import "time"

// EngineSummary describes a codec engine state change.
type EngineSummary struct {
	State   string
	Tier    string
	Source  string
	Version string
	// Message is set when the engine failed to load.
	Message string
}

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	RunID      string
	TotalFiles int
	FileList   []string
	OutputDir  string
	// PlannedGroups is the number of smart-naming groups, zero when smart
	// naming is off.
	PlannedGroups int
}

// FileStartInfo identifies the file about to be processed.
type FileStartInfo struct {
	Index int
	Total int
	Name  string
	Type  string
	Phase string
}

// StageProgress represents a generic stage update.
type StageProgress struct {
	Stage   string
	Percent float32
	Message string
	ETA     *time.Duration
}

// VariantInfo describes one emitted variant.
type VariantInfo struct {
	Name         string
	Format       string
	Resolution   string
	OriginalSize uint64
	Size         uint64
	Note         string
}

// VariantSummary lists the variants emitted for one input file.
type VariantSummary struct {
	File     string
	Variants []VariantInfo
}

// BatchProgress is the file-granular progress of the run.
type BatchProgress struct {
	Completed int
	Total     int
	Percent   float64
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	RunID             string
	State             string
	TotalFiles        int
	ProcessedFiles    int
	FallbackCount     int
	VariantCount      int
	TotalOriginalSize uint64
	TotalOutputSize   uint64
	TotalDuration     time.Duration
	FileResults       []FileResult
}

// FileResult contains the per-file outcome.
type FileResult struct {
	Filename  string
	Variants  int
	Fallback  bool
	Reduction float64
}
