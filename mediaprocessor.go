// Package mediaprocessor converts batches of images, audio and video into
// named output variants.
//
// Images are rendered at every requested size and format on a background
// fill. Audio and video are transcoded by an FFmpeg engine negotiated on
// first use; when no engine can be loaded, or a transcode fails or times
// out, the original bytes are emitted instead with a note, and the batch
// carries on.
//
// Basic usage:
//
//	proc, err := mediaprocessor.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer proc.Close()
//
//	settings := mediaprocessor.DefaultSettings()
//	settings.ImageSizes = mediaprocessor.ParseSizes("800x800, 400x400")
//
//	summary, err := proc.Process(ctx, files, settings, mediaprocessor.Sinks{
//	    Results: func(variants []mediaprocessor.Variant) { ... },
//	})
package mediaprocessor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aagalakova/Media-processor/internal/codec"
	"github.com/aagalakova/Media-processor/internal/config"
	"github.com/aagalakova/Media-processor/internal/logging"
	"github.com/aagalakova/Media-processor/internal/media"
	"github.com/aagalakova/Media-processor/internal/metrics"
	"github.com/aagalakova/Media-processor/internal/naming"
	"github.com/aagalakova/Media-processor/internal/processing"
	"github.com/aagalakova/Media-processor/internal/reporter"
)

// Re-exported types.
type (
	InputFile     = media.InputFile
	MediaType     = media.Type
	Variant       = media.Variant
	Settings      = config.Settings
	Size          = config.Size
	Quality       = config.Quality
	Background    = config.Background
	NamingOptions = config.NamingOptions
	Sinks         = processing.Sinks
	Summary       = processing.Summary
	FileOutcome   = processing.FileOutcome
	RunState      = processing.State
	EngineStatus  = codec.Status
	EngineState   = codec.State
	Reporter      = reporter.Reporter
	Metrics       = metrics.Recorder
	PlanEntry     = naming.Entry
	PlannedNames  = naming.Planned
)

const (
	MediaOther = media.Other
	MediaImage = media.Image
	MediaAudio = media.Audio
	MediaVideo = media.Video

	QualityLow    = config.QualityLow
	QualityMedium = config.QualityMedium
	QualityHigh   = config.QualityHigh

	RunCompleted = processing.StateCompleted
	RunCancelled = processing.StateCancelled

	EngineUnloaded = codec.StateUnloaded
	EngineReady    = codec.StateReady
	EngineFailed   = codec.StateFailed
)

// DefaultSettings returns the default per-run settings.
func DefaultSettings() Settings {
	return config.DefaultSettings()
}

// NewInputFile classifies data by name and content.
func NewInputFile(name string, data []byte) InputFile {
	return media.NewInputFile(name, data)
}

// ParseSizes parses a list such as "800x800, 50x50", skipping invalid entries.
func ParseSizes(raw string) []Size {
	return config.ParseSizes(raw)
}

// ParseBackground parses a background name or "#rrggbb" colour.
func ParseBackground(s string) (Background, error) {
	return config.ParseBackground(s)
}

// ParseQuality parses "low", "medium" or "high".
func ParseQuality(s string) (Quality, error) {
	return config.ParseQuality(s)
}

// NewMetrics creates a metrics recorder with its own registry.
func NewMetrics() *Metrics {
	return metrics.New()
}

// Plan returns the smart-naming groups a run of files with settings would
// use, with their expected output counts. It is empty unless smart naming
// is on.
func Plan(files []InputFile, settings Settings) []PlanEntry {
	return naming.BuildPlan(files, settings).Entries()
}

// PreviewNames lists the names each file's variants would receive in a run,
// in processing order, assuming every conversion succeeds.
func PreviewNames(files []InputFile, settings Settings) []PlannedNames {
	return naming.Preview(processing.PhaseOrder(files), settings)
}

// Processor runs batches against one codec engine. A Processor runs one
// batch at a time; Cancel may be called from any goroutine.
type Processor struct {
	config       *config.Config
	adapter      *codec.Adapter
	orchestrator *processing.Orchestrator
	logger       *logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

type options struct {
	cfg      *config.Config
	logger   *logging.Logger
	reporter reporter.Reporter
	metrics  *metrics.Recorder
	factory  codec.EngineFactory
}

// Option configures a Processor.
type Option func(*options)

// New creates a Processor. Engine binaries named in MEDIAPROC_FFMPEG are
// tried before the configured sources.
func New(opts ...Option) (*Processor, error) {
	o := &options{cfg: config.NewConfig("", "")}
	o.cfg.ApplyEnv()
	for _, opt := range opts {
		opt(o)
	}

	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.OrGlobal(o.logger)
	rep := o.reporter
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	factory := o.factory
	if factory == nil {
		factory = codec.ProcessEngineFactory(o.cfg.GetWorkDir(), o.cfg.Responsive, logger)
	}

	adapterOpts := codec.OptionsFromConfig(o.cfg)
	adapterOpts.Logger = logger
	adapterOpts.Metrics = o.metrics
	adapterOpts.OnStatus = func(s codec.Status) {
		summary := reporter.EngineSummary{State: s.State.String()}
		if s.State == codec.StateReady {
			summary.Tier = s.Tier.String()
			summary.Source = s.Source
			summary.Version = s.Version
		}
		if s.Err != nil {
			summary.Message = s.Err.Error()
		}
		rep.EngineStatus(summary)
	}
	adapter := codec.New(adapterOpts, factory)

	return &Processor{
		config:  o.cfg,
		adapter: adapter,
		logger:  logger,
		orchestrator: processing.NewOrchestrator(processing.Options{
			Transcoder:     adapter,
			Reporter:       rep,
			Logger:         logger,
			Metrics:        o.metrics,
			MaxImagePixels: o.cfg.MaxImagePixels,
			OutputDir:      o.cfg.OutputDir,
		}),
	}, nil
}

// WithEngineSources sets the ordered engine binaries for each tier.
func WithEngineSources(multiThread, singleThread []string) Option {
	return func(o *options) {
		o.cfg.MultiThreadSources = multiThread
		o.cfg.SingleThreadSources = singleThread
	}
}

// WithExtraEngineSources tries the given engine binaries before the
// configured ones, for both tiers.
func WithExtraEngineSources(paths ...string) Option {
	return func(o *options) {
		o.cfg.PrependEngineSources(paths...)
	}
}

// WithTimeouts sets the engine load, audio and video deadlines. Zero values
// keep the defaults.
func WithTimeouts(load, audio, video time.Duration) Option {
	return func(o *options) {
		if load > 0 {
			o.cfg.EngineLoadTimeout = load
		}
		if audio > 0 {
			o.cfg.AudioTimeout = audio
		}
		if video > 0 {
			o.cfg.VideoTimeout = video
		}
	}
}

// WithSingleThread skips the multi-thread engine tier.
func WithSingleThread() Option {
	return func(o *options) {
		o.cfg.ForceSingleThread = true
	}
}

// WithResponsive runs the engine at lowered priority and leaves a core free.
func WithResponsive() Option {
	return func(o *options) {
		o.cfg.Responsive = true
	}
}

// WithWorkDir sets the engine scratch directory.
func WithWorkDir(dir string) Option {
	return func(o *options) {
		o.cfg.WorkDir = dir
	}
}

// WithOutputDir names the output directory in reports.
func WithOutputDir(dir string) Option {
	return func(o *options) {
		o.cfg.OutputDir = dir
	}
}

// WithMaxImagePixels sets the largest source image, in pixels, that is
// decoded. Bigger images pass through unchanged as decode failures.
func WithMaxImagePixels(n int) Option {
	return func(o *options) {
		o.cfg.MaxImagePixels = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = &logging.Logger{Logger: l}
		}
	}
}

// WithReporter sets the diagnostic reporter.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithEventHandler delivers run events to handler.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		if handler != nil {
			o.reporter = newEventReporter(handler)
		}
	}
}

// WithMetrics records run metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithEngineFactory replaces how engines are created for each source.
func WithEngineFactory(f codec.EngineFactory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// Process runs one batch. The settings are validated and captured; later
// changes to them, or to files, do not affect the run. Results and
// progress are delivered through sinks as each file completes.
func (p *Processor) Process(ctx context.Context, files []InputFile, settings Settings, sinks Sinks) (*Summary, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.cancel = nil
		p.mu.Unlock()
	}()

	return p.orchestrator.Run(ctx, files, settings, sinks)
}

// Cancel stops the running batch: no further file is started and the codec
// engine is torn down, interrupting a transcode in flight.
func (p *Processor) Cancel() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.adapter.Cancel()
}

// State returns the lifecycle state of the last or current run.
func (p *Processor) State() RunState {
	return p.orchestrator.State()
}

// EngineStatus returns the codec engine status.
func (p *Processor) EngineStatus() EngineStatus {
	return p.adapter.Status()
}

// Close releases the codec engine.
func (p *Processor) Close() error {
	p.adapter.Close()
	return nil
}
