package reporter

// Reporter receives diagnostic events from a batch run. Implementations must
// tolerate being called from the orchestrator goroutine and, for engine
// status, from a signal handler's goroutine.
type Reporter interface {
	EngineStatus(summary EngineSummary)
	BatchStarted(info BatchStartInfo)
	FileStarted(info FileStartInfo)
	StageProgress(update StageProgress)
	VariantsReady(summary VariantSummary)
	BatchProgress(progress BatchProgress)
	Warning(message string)
	Error(err ReporterError)
	BatchComplete(summary BatchSummary)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) EngineStatus(EngineSummary)   {}
func (NullReporter) BatchStarted(BatchStartInfo)  {}
func (NullReporter) FileStarted(FileStartInfo)    {}
func (NullReporter) StageProgress(StageProgress)  {}
func (NullReporter) VariantsReady(VariantSummary) {}
func (NullReporter) BatchProgress(BatchProgress)  {}
func (NullReporter) Warning(string)               {}
func (NullReporter) Error(ReporterError)          {}
func (NullReporter) BatchComplete(BatchSummary)   {}
func (NullReporter) Verbose(string)               {}
