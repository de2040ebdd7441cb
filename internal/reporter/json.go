package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/aagalakova/Media-processor/internal/util"
)

// JSONReporter outputs NDJSON events, one object per line.
type JSONReporter struct {
	writer            io.Writer
	mu                sync.Mutex
	runID             string
	lastProgressStage string
	lastProgressTime  time.Time
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return NewJSONReporterWithWriter(os.Stdout)
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(event map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event["timestamp"] = r.timestamp()
	if r.runID != "" {
		event["run_id"] = r.runID
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) EngineStatus(summary EngineSummary) {
	event := map[string]interface{}{
		"type":   "engine_status",
		"state":  summary.State,
		"tier":   summary.Tier,
		"source": summary.Source,
	}
	if summary.Version != "" {
		event["version"] = summary.Version
	}
	if summary.Message != "" {
		event["message"] = summary.Message
	}
	r.write(event)
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.mu.Lock()
	r.runID = info.RunID
	r.mu.Unlock()

	r.write(map[string]interface{}{
		"type":           "batch_started",
		"total_files":    info.TotalFiles,
		"file_list":      info.FileList,
		"output_dir":     info.OutputDir,
		"planned_groups": info.PlannedGroups,
	})
}

func (r *JSONReporter) FileStarted(info FileStartInfo) {
	r.mu.Lock()
	r.lastProgressStage = ""
	r.lastProgressTime = time.Time{}
	r.mu.Unlock()

	r.write(map[string]interface{}{
		"type":         "file_started",
		"current_file": info.Index,
		"total_files":  info.Total,
		"name":         info.Name,
		"media_type":   info.Type,
		"phase":        info.Phase,
	})
}

// StageProgress is throttled: the first update of a stage is written, then
// at most one per interval.
func (r *JSONReporter) StageProgress(update StageProgress) {
	const minInterval = 5 * time.Second

	now := time.Now()
	r.mu.Lock()
	shouldEmit := update.Stage != r.lastProgressStage ||
		now.Sub(r.lastProgressTime) >= minInterval ||
		update.Percent >= 99.0
	if !shouldEmit {
		r.mu.Unlock()
		return
	}
	r.lastProgressStage = update.Stage
	r.lastProgressTime = now
	r.mu.Unlock()

	event := map[string]interface{}{
		"type":    "stage_progress",
		"stage":   update.Stage,
		"percent": update.Percent,
		"message": update.Message,
	}
	if update.ETA != nil {
		event["eta_seconds"] = int64(update.ETA.Seconds())
	}
	r.write(event)
}

func (r *JSONReporter) VariantsReady(summary VariantSummary) {
	variants := make([]map[string]interface{}, len(summary.Variants))
	for i, v := range summary.Variants {
		variants[i] = map[string]interface{}{
			"name":          v.Name,
			"format":        v.Format,
			"resolution":    v.Resolution,
			"original_size": v.OriginalSize,
			"size":          v.Size,
			"note":          v.Note,
		}
	}
	r.write(map[string]interface{}{
		"type":     "variants_ready",
		"file":     summary.File,
		"variants": variants,
	})
}

func (r *JSONReporter) BatchProgress(progress BatchProgress) {
	r.write(map[string]interface{}{
		"type":      "batch_progress",
		"completed": progress.Completed,
		"total":     progress.Total,
		"percent":   progress.Percent,
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]interface{}{
		"type":    "warning",
		"message": message,
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]interface{}{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	reduction := util.CalculateSizeReduction(summary.TotalOriginalSize, summary.TotalOutputSize)

	files := make([]map[string]interface{}, len(summary.FileResults))
	for i, f := range summary.FileResults {
		files[i] = map[string]interface{}{
			"file":      f.Filename,
			"variants":  f.Variants,
			"fallback":  f.Fallback,
			"reduction": f.Reduction,
		}
	}

	r.write(map[string]interface{}{
		"type":                         "batch_complete",
		"state":                        summary.State,
		"processed_files":              summary.ProcessedFiles,
		"total_files":                  summary.TotalFiles,
		"variant_count":                summary.VariantCount,
		"fallback_count":               summary.FallbackCount,
		"total_original_size":          summary.TotalOriginalSize,
		"total_output_size":            summary.TotalOutputSize,
		"total_duration_seconds":       int64(summary.TotalDuration.Seconds()),
		"total_size_reduction_percent": reduction,
		"files":                        files,
	})
}

func (r *JSONReporter) Verbose(message string) {
	r.write(map[string]interface{}{
		"type":    "verbose",
		"message": message,
	})
}
