// Package processing runs batches: every input file is turned into its
// output variants, one file at a time, with per-file failure isolation.
package processing

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aagalakova/Media-processor/internal/codec"
	"github.com/aagalakova/Media-processor/internal/config"
	coreerr "github.com/aagalakova/Media-processor/internal/errors"
	"github.com/aagalakova/Media-processor/internal/ffmpeg"
	"github.com/aagalakova/Media-processor/internal/logging"
	"github.com/aagalakova/Media-processor/internal/media"
	"github.com/aagalakova/Media-processor/internal/metrics"
	"github.com/aagalakova/Media-processor/internal/naming"
	"github.com/aagalakova/Media-processor/internal/reporter"
	"github.com/aagalakova/Media-processor/internal/util"
)

// Transcoder is the codec engine as used by the orchestrator.
// *codec.Adapter implements it.
type Transcoder interface {
	TranscodeAudio(ctx context.Context, in media.InputFile, req codec.AudioRequest, progress ffmpeg.ProgressCallback) codec.Result
	TranscodeVideo(ctx context.Context, in media.InputFile, req codec.VideoRequest, progress ffmpeg.ProgressCallback) codec.Result
	Cancel()
}

// State is the orchestrator lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Sinks receive the output of a run. Both are called synchronously from the
// run loop after each file; either may be nil.
type Sinks struct {
	Progress func(percent float64)
	Results  func(variants []media.Variant)
}

// Options configures an Orchestrator.
type Options struct {
	Transcoder     Transcoder
	Reporter       reporter.Reporter
	Logger         *logging.Logger
	Metrics        *metrics.Recorder
	MaxImagePixels int
	// OutputDir is only reported; the results sink decides where data goes.
	OutputDir string
}

// FileOutcome is the result of one input file.
type FileOutcome struct {
	Name          string
	Type          media.Type
	Variants      int
	OriginalBytes uint64
	OutputBytes   uint64
	Fallback      bool
	// Err is the recovered error behind a fallback.
	Err error
}

// Summary describes a finished run.
type Summary struct {
	RunID          string
	State          State
	TotalFiles     int
	ProcessedFiles int
	VariantCount   int
	FallbackCount  int
	OriginalBytes  uint64
	OutputBytes    uint64
	Duration       time.Duration
	Files          []FileOutcome
}

// Orchestrator runs batches. Only one batch may run at a time.
type Orchestrator struct {
	opts Options
	rep  reporter.Reporter
	log  *logging.Logger

	mu    sync.Mutex
	state State
}

// NewOrchestrator creates an idle orchestrator.
func NewOrchestrator(opts Options) *Orchestrator {
	rep := opts.Reporter
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	return &Orchestrator{
		opts: opts,
		rep:  rep,
		log:  logging.OrGlobal(opts.Logger).WithPrefix("batch"),
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// run carries the per-run state threaded through the file handlers.
type run struct {
	id       string
	settings config.Settings
	names    *naming.Generator
	log      *logging.Logger
}

// Run processes files with settings. Non-video files are processed first,
// then video files, each phase in input order. Cancelling ctx stops the run
// before the next file starts and tears the codec engine down; the returned
// summary then has StateCancelled. The only errors are an empty file list
// and a run already in progress.
func (o *Orchestrator) Run(ctx context.Context, files []media.InputFile, settings config.Settings, sinks Sinks) (*Summary, error) {
	if len(files) == 0 {
		return nil, coreerr.NewNoInputFilesError()
	}

	o.mu.Lock()
	if o.state == StateRunning {
		o.mu.Unlock()
		return nil, coreerr.NewBatchRunningError()
	}
	o.state = StateRunning
	o.mu.Unlock()

	files = slices.Clone(files)
	settings = settings.Clone()

	r := &run{
		id:       uuid.NewString(),
		settings: settings,
	}
	r.log = o.log.With("run_id", r.id)

	plan := naming.BuildPlan(files, settings)
	r.names = naming.NewGenerator(settings.Naming, plan, func(err error) {
		r.log.Warn("naming group was not planned", "error", err)
		o.rep.Warning(err.Error())
	})

	ordered := PhaseOrder(files)
	summary := &Summary{RunID: r.id, TotalFiles: len(ordered)}
	start := time.Now()

	r.log.Info("batch started", "files", len(ordered), "planned_groups", plan.Len(), "smart_naming", settings.Naming.Smart)
	o.rep.BatchStarted(reporter.BatchStartInfo{
		RunID:         r.id,
		TotalFiles:    len(ordered),
		FileList:      fileNames(ordered),
		OutputDir:     o.opts.OutputDir,
		PlannedGroups: plan.Len(),
	})

	for i, f := range ordered {
		if ctx.Err() != nil {
			r.log.Info("batch cancelled", "processed", summary.ProcessedFiles, "remaining", len(ordered)-i)
			o.rep.Warning(fmt.Sprintf("Batch cancelled after %d of %d files", summary.ProcessedFiles, len(ordered)))
			break
		}

		phase := "media"
		if f.Type == media.Video {
			phase = "video"
		}
		o.rep.FileStarted(reporter.FileStartInfo{
			Index: i + 1,
			Total: len(ordered),
			Name:  f.OriginalName,
			Type:  f.Type.String(),
			Phase: phase,
		})

		variants, outcome := o.processFile(ctx, r, f)
		summary.add(outcome)

		if len(variants) > 0 {
			if sinks.Results != nil {
				sinks.Results(variants)
			}
			o.rep.VariantsReady(variantSummary(f, variants))
		}

		percent := float64(summary.ProcessedFiles*100) / float64(len(ordered))
		if sinks.Progress != nil {
			sinks.Progress(percent)
		}
		o.rep.BatchProgress(reporter.BatchProgress{
			Completed: summary.ProcessedFiles,
			Total:     len(ordered),
			Percent:   percent,
		})
		o.opts.Metrics.SetProgress(percent)
	}

	summary.Duration = time.Since(start)
	summary.State = StateCompleted
	if ctx.Err() != nil {
		if o.opts.Transcoder != nil {
			o.opts.Transcoder.Cancel()
		}
		if summary.ProcessedFiles < summary.TotalFiles {
			summary.State = StateCancelled
		}
	}

	o.mu.Lock()
	o.state = summary.State
	o.mu.Unlock()

	o.opts.Metrics.BatchFinished(summary.State.String())
	r.log.Info("batch finished",
		"state", summary.State.String(),
		"processed", summary.ProcessedFiles,
		"variants", summary.VariantCount,
		"fallbacks", summary.FallbackCount,
		"duration", summary.Duration)
	o.rep.BatchComplete(batchSummary(summary))

	return summary, nil
}

// PhaseOrder returns the non-video files followed by the video files,
// keeping input order within each phase.
func PhaseOrder(files []media.InputFile) []media.InputFile {
	ordered := make([]media.InputFile, 0, len(files))
	for _, f := range files {
		if f.Type != media.Video {
			ordered = append(ordered, f)
		}
	}
	for _, f := range files {
		if f.Type == media.Video {
			ordered = append(ordered, f)
		}
	}
	return ordered
}

// processFile converts one file. It never fails: errors and panics become a
// single pass-through variant of the original bytes.
func (o *Orchestrator) processFile(ctx context.Context, r *run, f media.InputFile) (variants []media.Variant, outcome FileOutcome) {
	outcome = FileOutcome{Name: f.OriginalName, Type: f.Type, OriginalBytes: uint64(f.Size())}

	var err error
	func() {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic while processing %s: %v", f.OriginalName, p)
			}
		}()
		switch f.Type {
		case media.Image:
			variants, err = o.processImage(r, f)
		case media.Audio:
			variants, err = o.processAudio(ctx, r, f)
		case media.Video:
			variants, err = o.processVideo(ctx, r, f)
		default:
			variants = []media.Variant{o.copyThrough(r, f)}
		}
	}()

	if err != nil {
		variants = []media.Variant{o.fallback(r, f, err)}
		outcome.Fallback = true
		outcome.Err = err
	}

	for _, v := range variants {
		if v.Passthrough() {
			outcome.Fallback = true
		}
		outcome.OutputBytes += uint64(v.Size)
		o.opts.Metrics.VariantEmitted(f.Type.String(), v.Format)
	}
	outcome.Variants = len(variants)
	o.opts.Metrics.FileProcessed(f.Type.String(), outcome.Fallback)
	return variants, outcome
}

// fallback replaces the output of a failed file with its original bytes.
func (o *Orchestrator) fallback(r *run, f media.InputFile, err error) media.Variant {
	reason := fallbackReason(err)
	r.log.Warn("file passed through unchanged",
		"file", f.OriginalName,
		"type", f.Type.String(),
		"kind", reason,
		"error", err)
	o.rep.Warning(fmt.Sprintf("%s: %v; original kept", f.OriginalName, err))
	o.opts.Metrics.Fallback(reason)

	name := r.names.Generate(naming.Request{File: f, Position: 1, Total: 1})
	return media.PassthroughVariant(f, name, noteFor(err))
}

// copyThrough emits files of unrecognised type unchanged.
func (o *Orchestrator) copyThrough(r *run, f media.InputFile) media.Variant {
	name := r.names.Generate(naming.Request{File: f, Position: 1, Total: 1})
	return media.PassthroughVariant(f, name, "")
}

func noteFor(err error) string {
	kind, ok := coreerr.KindOf(err)
	if !ok {
		return media.NoteFallback
	}
	switch kind {
	case coreerr.KindDecode:
		return media.NoteDecodeFailed
	case coreerr.KindEngineUnavailable:
		return media.NoteEngineUnavailable
	case coreerr.KindEncodeTimeout:
		return media.NoteEncodeTimeout
	case coreerr.KindEncodeFailure:
		return media.NoteEncodeFailed
	default:
		return media.NoteFallback
	}
}

func fallbackReason(err error) string {
	kind, ok := coreerr.KindOf(err)
	if !ok {
		return "unexpected"
	}
	switch kind {
	case coreerr.KindDecode:
		return "decode"
	case coreerr.KindEngineUnavailable:
		return "engine_unavailable"
	case coreerr.KindEncodeTimeout:
		return "encode_timeout"
	case coreerr.KindEncodeFailure:
		return "encode_failure"
	case coreerr.KindCancelled:
		return "cancelled"
	default:
		return "unexpected"
	}
}

// stageProgress forwards engine progress to the reporter.
func (o *Orchestrator) stageProgress(f media.InputFile) ffmpeg.ProgressCallback {
	return func(p ffmpeg.Progress) {
		o.rep.StageProgress(reporter.StageProgress{
			Stage: "transcode",
			Message: fmt.Sprintf("%s: %s encoded, speed %.1fx",
				f.OriginalName, util.FormatDuration(p.ElapsedSecs), p.Speed),
		})
	}
}

func (s *Summary) add(f FileOutcome) {
	s.ProcessedFiles++
	s.VariantCount += f.Variants
	s.OriginalBytes += f.OriginalBytes
	s.OutputBytes += f.OutputBytes
	if f.Fallback {
		s.FallbackCount++
	}
	s.Files = append(s.Files, f)
}

func fileNames(files []media.InputFile) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.OriginalName
	}
	return names
}

func variantSummary(f media.InputFile, variants []media.Variant) reporter.VariantSummary {
	s := reporter.VariantSummary{File: f.OriginalName}
	for _, v := range variants {
		s.Variants = append(s.Variants, reporter.VariantInfo{
			Name:         v.Name,
			Format:       v.Format,
			Resolution:   v.Resolution,
			OriginalSize: uint64(v.OriginalSize),
			Size:         uint64(v.Size),
			Note:         v.Note,
		})
	}
	return s
}

func batchSummary(s *Summary) reporter.BatchSummary {
	out := reporter.BatchSummary{
		RunID:             s.RunID,
		State:             s.State.String(),
		TotalFiles:        s.TotalFiles,
		ProcessedFiles:    s.ProcessedFiles,
		FallbackCount:     s.FallbackCount,
		VariantCount:      s.VariantCount,
		TotalOriginalSize: s.OriginalBytes,
		TotalOutputSize:   s.OutputBytes,
		TotalDuration:     s.Duration,
	}
	for _, f := range s.Files {
		out.FileResults = append(out.FileResults, reporter.FileResult{
			Filename:  f.Name,
			Variants:  f.Variants,
			Fallback:  f.Fallback,
			Reduction: util.CalculateSizeReduction(f.OriginalBytes, f.OutputBytes),
		})
	}
	return out
}
