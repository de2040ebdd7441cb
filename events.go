package mediaprocessor

import (
	"time"

	"github.com/aagalakova/Media-processor/internal/reporter"
	"github.com/aagalakova/Media-processor/internal/util"
)

// EventType identifies the kind of event passed to an EventHandler.
type EventType string

const (
	EventTypeEngineStatus  EventType = "engine_status"
	EventTypeBatchStarted  EventType = "batch_started"
	EventTypeFileStarted   EventType = "file_started"
	EventTypeVariantsReady EventType = "variants_ready"
	EventTypeBatchProgress EventType = "batch_progress"
	EventTypeWarning       EventType = "warning"
	EventTypeError         EventType = "error"
	EventTypeBatchComplete EventType = "batch_complete"
)

// Event is implemented by every event type.
type Event interface {
	Type() EventType
	Timestamp() int64
}

// EventHandler receives events. A returned error is ignored; handlers must
// not block the run for long.
type EventHandler func(Event) error

// BaseEvent carries the fields common to all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      int64     `json:"timestamp"`
}

func (e BaseEvent) Type() EventType  { return e.EventType }
func (e BaseEvent) Timestamp() int64 { return e.Time }

// NewTimestamp returns the current Unix time in seconds.
func NewTimestamp() int64 {
	return time.Now().Unix()
}

func base(t EventType) BaseEvent {
	return BaseEvent{EventType: t, Time: NewTimestamp()}
}

// EngineStatusEvent reports a codec engine state change.
type EngineStatusEvent struct {
	BaseEvent
	State   string `json:"state"`
	Tier    string `json:"tier,omitempty"`
	Source  string `json:"source,omitempty"`
	Version string `json:"version,omitempty"`
	Message string `json:"message,omitempty"`
}

// BatchStartedEvent is sent once the naming plan is built.
type BatchStartedEvent struct {
	BaseEvent
	RunID      string   `json:"run_id"`
	TotalFiles int      `json:"total_files"`
	Files      []string `json:"files"`
}

// FileStartedEvent is sent before each file is processed.
type FileStartedEvent struct {
	BaseEvent
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
}

// VariantInfo describes one emitted variant.
type VariantInfo struct {
	Name string `json:"name"`
	Size uint64 `json:"size"`
	Note string `json:"note,omitempty"`
}

// VariantsReadyEvent lists the variants emitted for one file.
type VariantsReadyEvent struct {
	BaseEvent
	File     string        `json:"file"`
	Variants []VariantInfo `json:"variants"`
}

// BatchProgressEvent is sent after each file.
type BatchProgressEvent struct {
	BaseEvent
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// WarningEvent reports a recovered problem.
type WarningEvent struct {
	BaseEvent
	Message string `json:"message"`
}

// ErrorEvent reports an error.
type ErrorEvent struct {
	BaseEvent
	Title      string `json:"title"`
	Message    string `json:"message"`
	Context    string `json:"context,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// BatchCompleteEvent is sent when a run ends, completed or cancelled.
type BatchCompleteEvent struct {
	BaseEvent
	State                     string  `json:"state"`
	ProcessedFiles            int     `json:"processed_files"`
	TotalFiles                int     `json:"total_files"`
	VariantCount              int     `json:"variant_count"`
	FallbackCount             int     `json:"fallback_count"`
	TotalSizeReductionPercent float64 `json:"total_size_reduction_percent"`
}

// eventReporter adapts EventHandler to the Reporter interface.
type eventReporter struct {
	handler EventHandler
}

func newEventReporter(handler EventHandler) *eventReporter {
	return &eventReporter{handler: handler}
}

func (r *eventReporter) EngineStatus(s reporter.EngineSummary) {
	_ = r.handler(EngineStatusEvent{
		BaseEvent: base(EventTypeEngineStatus),
		State:     s.State,
		Tier:      s.Tier,
		Source:    s.Source,
		Version:   s.Version,
		Message:   s.Message,
	})
}

func (r *eventReporter) BatchStarted(info reporter.BatchStartInfo) {
	_ = r.handler(BatchStartedEvent{
		BaseEvent:  base(EventTypeBatchStarted),
		RunID:      info.RunID,
		TotalFiles: info.TotalFiles,
		Files:      info.FileList,
	})
}

func (r *eventReporter) FileStarted(info reporter.FileStartInfo) {
	_ = r.handler(FileStartedEvent{
		BaseEvent: base(EventTypeFileStarted),
		Index:     info.Index,
		Total:     info.Total,
		Name:      info.Name,
		MediaType: info.Type,
	})
}

func (r *eventReporter) StageProgress(reporter.StageProgress) {}

func (r *eventReporter) VariantsReady(s reporter.VariantSummary) {
	variants := make([]VariantInfo, len(s.Variants))
	for i, v := range s.Variants {
		variants[i] = VariantInfo{Name: v.Name, Size: v.Size, Note: v.Note}
	}
	_ = r.handler(VariantsReadyEvent{
		BaseEvent: base(EventTypeVariantsReady),
		File:      s.File,
		Variants:  variants,
	})
}

func (r *eventReporter) BatchProgress(p reporter.BatchProgress) {
	_ = r.handler(BatchProgressEvent{
		BaseEvent: base(EventTypeBatchProgress),
		Completed: p.Completed,
		Total:     p.Total,
		Percent:   p.Percent,
	})
}

func (r *eventReporter) Warning(message string) {
	_ = r.handler(WarningEvent{
		BaseEvent: base(EventTypeWarning),
		Message:   message,
	})
}

func (r *eventReporter) Error(e reporter.ReporterError) {
	_ = r.handler(ErrorEvent{
		BaseEvent:  base(EventTypeError),
		Title:      e.Title,
		Message:    e.Message,
		Context:    e.Context,
		Suggestion: e.Suggestion,
	})
}

func (r *eventReporter) BatchComplete(s reporter.BatchSummary) {
	_ = r.handler(BatchCompleteEvent{
		BaseEvent:                 base(EventTypeBatchComplete),
		State:                     s.State,
		ProcessedFiles:            s.ProcessedFiles,
		TotalFiles:                s.TotalFiles,
		VariantCount:              s.VariantCount,
		FallbackCount:             s.FallbackCount,
		TotalSizeReductionPercent: util.CalculateSizeReduction(s.TotalOriginalSize, s.TotalOutputSize),
	})
}

func (r *eventReporter) Verbose(string) {}
