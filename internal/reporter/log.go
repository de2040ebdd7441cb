package reporter

import (
	"github.com/aagalakova/Media-processor/internal/logging"
)

// LogReporter mirrors events into the structured log so a run log file
// holds the same story the terminal showed.
type LogReporter struct {
	log *logging.Logger
}

// NewLogReporter creates a reporter writing to logger, or the global logger
// when nil.
func NewLogReporter(logger *logging.Logger) *LogReporter {
	return &LogReporter{log: logging.OrGlobal(logger).WithPrefix("events")}
}

func (r *LogReporter) EngineStatus(s EngineSummary) {
	r.log.Info("engine status", "state", s.State, "tier", s.Tier, "source", s.Source, "message", s.Message)
}

func (r *LogReporter) BatchStarted(info BatchStartInfo) {
	r.log.Info("batch started", "run_id", info.RunID, "files", info.TotalFiles, "output_dir", info.OutputDir)
}

func (r *LogReporter) FileStarted(info FileStartInfo) {
	r.log.Info("file started", "index", info.Index, "total", info.Total, "file", info.Name, "type", info.Type)
}

func (r *LogReporter) StageProgress(update StageProgress) {
	r.log.Debug("stage progress", "stage", update.Stage, "message", update.Message)
}

func (r *LogReporter) VariantsReady(s VariantSummary) {
	for _, v := range s.Variants {
		r.log.Info("variant ready", "file", s.File, "name", v.Name, "bytes", v.Size, "note", v.Note)
	}
}

func (r *LogReporter) BatchProgress(p BatchProgress) {
	r.log.Debug("batch progress", "completed", p.Completed, "total", p.Total, "percent", p.Percent)
}

func (r *LogReporter) Warning(message string) {
	r.log.Warn(message)
}

func (r *LogReporter) Error(err ReporterError) {
	r.log.Error(err.Title, "message", err.Message, "context", err.Context)
}

func (r *LogReporter) BatchComplete(s BatchSummary) {
	r.log.Info("batch complete",
		"run_id", s.RunID,
		"state", s.State,
		"processed", s.ProcessedFiles,
		"total", s.TotalFiles,
		"variants", s.VariantCount,
		"fallbacks", s.FallbackCount,
		"original_bytes", s.TotalOriginalSize,
		"output_bytes", s.TotalOutputSize)
}

func (r *LogReporter) Verbose(message string) {
	r.log.Debug(message)
}
