// Package codec negotiates a codec engine and runs audio and video
// transcodes on it. Every failure degrades to a pass-through of the input.
package codec

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aagalakova/Media-processor/internal/config"
	coreerr "github.com/aagalakova/Media-processor/internal/errors"
	"github.com/aagalakova/Media-processor/internal/ffmpeg"
	"github.com/aagalakova/Media-processor/internal/logging"
	"github.com/aagalakova/Media-processor/internal/media"
	"github.com/aagalakova/Media-processor/internal/metrics"
	"github.com/aagalakova/Media-processor/internal/util"
)

// State is the engine lifecycle state.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unloaded"
	}
}

// Tier is the engine build flavour.
type Tier int

const (
	TierMultiThread Tier = iota
	TierSingleThread
)

func (t Tier) String() string {
	if t == TierSingleThread {
		return "single-thread"
	}
	return "multi-thread"
}

// Source is one place an engine can be loaded from.
type Source struct {
	Tier     Tier
	Location string
}

func (s Source) String() string {
	return fmt.Sprintf("%s (%s)", s.Location, s.Tier)
}

// EngineFactory creates an unloaded engine for a source.
type EngineFactory func(Source) ffmpeg.Engine

// Status describes the adapter's engine.
type Status struct {
	State  State
	Tier   Tier
	Source string
	// Version is the engine's self-reported version, when it has one.
	Version string
	// Err is set when State is StateFailed.
	Err error
}

// Options configures an Adapter.
type Options struct {
	MultiThreadSources  []string
	SingleThreadSources []string
	// MultiThreadCapable decides whether multi-thread sources are tried.
	MultiThreadCapable func() bool
	Responsive         bool

	LoadTimeout  time.Duration
	AudioTimeout time.Duration
	VideoTimeout time.Duration

	Logger  *logging.Logger
	Metrics *metrics.Recorder
	// OnStatus is told about every state change.
	OnStatus func(Status)
}

// OptionsFromConfig derives adapter options from process configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	capable := util.MultiThreadCapable
	if cfg.ForceSingleThread {
		capable = func() bool { return false }
	}
	return Options{
		MultiThreadSources:  cfg.MultiThreadSources,
		SingleThreadSources: cfg.SingleThreadSources,
		MultiThreadCapable:  capable,
		Responsive:          cfg.Responsive,
		LoadTimeout:         cfg.EngineLoadTimeout,
		AudioTimeout:        cfg.AudioTimeout,
		VideoTimeout:        cfg.VideoTimeout,
	}
}

// ProcessEngineFactory returns a factory for FFmpeg process engines.
func ProcessEngineFactory(workBase string, lowPriority bool, logger *logging.Logger) EngineFactory {
	return func(src Source) ffmpeg.Engine {
		return ffmpeg.NewProcessEngine(ffmpeg.ProcessOptions{
			Binary:      src.Location,
			WorkBase:    workBase,
			LowPriority: lowPriority,
			Logger:      logger,
		})
	}
}

// Result is the outcome of a transcode. Data is always usable: on failure
// it is the original input and Err says why.
type Result struct {
	Data        []byte
	Passthrough bool
	Err         error
	Codec       string
}

// Adapter owns at most one loaded engine. Transcodes are expected one at a
// time; Cancel may be called from any goroutine.
type Adapter struct {
	opts    Options
	factory EngineFactory
	log     *logging.Logger

	mu           sync.Mutex
	status       Status
	engine       ffmpeg.Engine
	engineCtx    context.Context
	engineCancel context.CancelFunc
	generation   uint64
}

// New creates an unloaded adapter.
func New(opts Options, factory EngineFactory) *Adapter {
	if opts.MultiThreadCapable == nil {
		opts.MultiThreadCapable = util.MultiThreadCapable
	}
	return &Adapter{
		opts:    opts,
		factory: factory,
		log:     logging.OrGlobal(opts.Logger).WithPrefix("codec"),
	}
}

// Status returns the current engine status.
func (a *Adapter) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// State returns the current engine state.
func (a *Adapter) State() State {
	return a.Status().State
}

func (a *Adapter) notify(s Status) {
	if a.opts.OnStatus != nil {
		a.opts.OnStatus(s)
	}
}

func (a *Adapter) sources() []Source {
	var out []Source
	if a.opts.MultiThreadCapable() {
		for _, loc := range a.opts.MultiThreadSources {
			out = append(out, Source{Tier: TierMultiThread, Location: loc})
		}
	}
	for _, loc := range a.opts.SingleThreadSources {
		out = append(out, Source{Tier: TierSingleThread, Location: loc})
	}
	return out
}

type loaded struct {
	engine ffmpeg.Engine
	source Source
}

// Load negotiates an engine: multi-thread sources first when the host is
// capable, then single-thread sources, each bounded by the load timeout.
// A Ready or Failed adapter returns its status without trying again.
func (a *Adapter) Load(ctx context.Context) Status {
	a.mu.Lock()
	switch a.status.State {
	case StateReady, StateFailed, StateLoading:
		s := a.status
		a.mu.Unlock()
		return s
	}
	engineCtx, engineCancel := context.WithCancel(context.Background())
	a.engineCtx, a.engineCancel = engineCtx, engineCancel
	gen := a.generation
	a.status = Status{State: StateLoading}
	a.mu.Unlock()
	a.notify(Status{State: StateLoading})

	loadCtx, stop := withEngine(ctx, engineCtx)
	defer stop()

	sources := a.sources()
	attempts := make([]Attempt[loaded], 0, len(sources))
	for _, src := range sources {
		attempts = append(attempts, Attempt[loaded]{
			Name: src.String(),
			Run: func(ctx context.Context) (loaded, error) {
				return a.loadSource(ctx, src)
			},
		})
	}
	out := RunChain(loadCtx, attempts)

	a.mu.Lock()
	if a.generation != gen {
		// cancelled while loading; the adapter has already been reset
		s := a.status
		a.mu.Unlock()
		if out.OK() {
			_ = out.Value.engine.Exit()
		}
		return s
	}

	var s Status
	if out.OK() {
		a.engine = out.Value.engine
		s = Status{State: StateReady, Tier: out.Value.source.Tier, Source: out.Value.source.Location}
		if v, ok := a.engine.(ffmpeg.Versioned); ok {
			s.Version = v.Version()
		}
		a.log.Info("codec engine ready", "tier", s.Tier.String(), "source", s.Source, "version", s.Version)
	} else {
		engineCancel()
		a.engineCtx, a.engineCancel = nil, nil
		s = Status{State: StateFailed, Err: coreerr.NewEngineUnavailableError("no codec engine source could be loaded", out.Err())}
		a.log.Warn("codec engine unavailable, media will pass through unchanged", "error", out.Err())
	}
	a.status = s
	a.mu.Unlock()

	a.notify(s)
	return s
}

func (a *Adapter) loadSource(ctx context.Context, src Source) (loaded, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.LoadTimeout)
	defer cancel()

	engine := a.factory(src)
	if err := engine.Load(ctx); err != nil {
		_ = engine.Exit()
		a.opts.Metrics.EngineLoad(src.Tier.String(), false)
		a.log.Debug("engine source failed", "source", src.String(), "error", err)
		return loaded{}, err
	}
	a.opts.Metrics.EngineLoad(src.Tier.String(), true)
	return loaded{engine: engine, source: src}, nil
}

// Cancel tears down the engine, interrupting any transcode in flight, and
// resets the adapter to Unloaded.
func (a *Adapter) Cancel() {
	a.mu.Lock()
	engine, cancel := a.engine, a.engineCancel
	a.engine, a.engineCtx, a.engineCancel = nil, nil, nil
	a.generation++
	prev := a.status.State
	a.status = Status{State: StateUnloaded}
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if engine != nil {
		if err := engine.Exit(); err != nil {
			a.log.Warn("engine exit failed", "error", err)
		}
	}
	if prev != StateUnloaded {
		a.log.Info("codec engine torn down", "previous_state", prev.String())
		a.notify(Status{State: StateUnloaded})
	}
}

// Close releases the engine. It is equivalent to Cancel.
func (a *Adapter) Close() {
	a.Cancel()
}

// acquire loads the engine if needed and returns it with its lifetime context.
func (a *Adapter) acquire(ctx context.Context) (ffmpeg.Engine, context.Context, Tier, error) {
	if a.State() == StateUnloaded {
		a.Load(ctx)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.status.State {
	case StateReady:
		return a.engine, a.engineCtx, a.status.Tier, nil
	case StateFailed:
		return nil, nil, 0, a.status.Err
	default:
		return nil, nil, 0, coreerr.NewEngineUnavailableError("codec engine is "+a.status.State.String(), nil)
	}
}

func (a *Adapter) threads(tier Tier) int {
	if tier == TierSingleThread {
		return 1
	}
	return util.EncoderThreads(a.opts.Responsive)
}

// AudioRequest describes an audio transcode.
type AudioRequest struct {
	Format      string
	BitrateKbps int
}

// TranscodeAudio converts in to the requested format. Ogg retries once with
// the alternate vorbis encoder when the primary one fails.
func (a *Adapter) TranscodeAudio(ctx context.Context, in media.InputFile, req AudioRequest, progress ffmpeg.ProgressCallback) Result {
	engine, engineCtx, tier, err := a.acquire(ctx)
	if err != nil {
		return passthrough(in, err)
	}

	opCtx, cancel := context.WithTimeout(ctx, a.opts.AudioTimeout)
	defer cancel()
	stop := context.AfterFunc(engineCtx, cancel)
	defer stop()

	inName := "input." + media.EngineInputExt(in)
	outName := "output." + req.Format
	defer engine.Cleanup(inName, outName)

	if err := engine.WriteInput(inName, in.Data); err != nil {
		return passthrough(in, coreerr.NewEncodeFailureError("audio transcode", err))
	}

	codecs := ffmpeg.AudioCodecs(req.Format)
	attempts := make([]Attempt[[]byte], 0, len(codecs))
	for _, c := range codecs {
		job := ffmpeg.AudioJob{
			Input:       inName,
			Output:      outName,
			Codec:       c,
			BitrateKbps: req.BitrateKbps,
			Threads:     a.threads(tier),
		}
		attempts = append(attempts, Attempt[[]byte]{
			Name: c.Name,
			Run: func(ctx context.Context) ([]byte, error) {
				return runAndRead(ctx, engine, ffmpeg.BuildAudioArgs(job), outName, progress)
			},
		})
	}

	start := time.Now()
	out := RunChain(opCtx, attempts)
	a.opts.Metrics.ObserveTranscode("audio", time.Since(start))
	if !out.OK() {
		return passthrough(in, classify("audio transcode", opCtx, out.Err()))
	}
	if out.Index > 0 {
		a.log.Info("audio encoded with fallback codec", "file", in.OriginalName, "codec", out.Winner)
	}
	return Result{Data: out.Value, Codec: out.Winner}
}

// VideoRequest describes a video transcode.
type VideoRequest struct {
	Format     string
	Resolution config.Size
	Quality    config.Quality
}

// TranscodeVideo converts in to the requested container and frame size.
func (a *Adapter) TranscodeVideo(ctx context.Context, in media.InputFile, req VideoRequest, progress ffmpeg.ProgressCallback) Result {
	engine, engineCtx, tier, err := a.acquire(ctx)
	if err != nil {
		return passthrough(in, err)
	}

	opCtx, cancel := context.WithTimeout(ctx, a.opts.VideoTimeout)
	defer cancel()
	stop := context.AfterFunc(engineCtx, cancel)
	defer stop()

	inName := "input." + media.EngineInputExt(in)
	outName := "output." + req.Format
	defer engine.Cleanup(inName, outName)

	if err := engine.WriteInput(inName, in.Data); err != nil {
		return passthrough(in, coreerr.NewEncodeFailureError("video transcode", err))
	}

	args := ffmpeg.BuildVideoArgs(ffmpeg.VideoJob{
		Input:   inName,
		Output:  outName,
		Format:  req.Format,
		Width:   req.Resolution.Width,
		Height:  req.Resolution.Height,
		Quality: req.Quality,
		Threads: a.threads(tier),
	})

	start := time.Now()
	data, err := runAndRead(opCtx, engine, args, outName, progress)
	a.opts.Metrics.ObserveTranscode("video", time.Since(start))
	if err != nil {
		return passthrough(in, classify("video transcode", opCtx, err))
	}
	return Result{Data: data, Codec: videoCodecName(req.Format)}
}

func runAndRead(ctx context.Context, engine ffmpeg.Engine, args []string, outName string, progress ffmpeg.ProgressCallback) ([]byte, error) {
	if err := engine.Run(ctx, args, progress); err != nil {
		return nil, err
	}
	data, err := engine.ReadOutput(outName)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("engine produced an empty output")
	}
	return data, nil
}

func videoCodecName(format string) string {
	if format == "webm" {
		return "libvpx-vp9"
	}
	return "libx264"
}

// classify maps a transcode error to the error taxonomy using the state of
// the operation's context.
func classify(operation string, opCtx context.Context, err error) error {
	switch {
	case errors.Is(opCtx.Err(), context.DeadlineExceeded):
		return coreerr.NewEncodeTimeoutError(operation, err)
	case opCtx.Err() != nil:
		return &coreerr.CoreError{Kind: coreerr.KindCancelled, Message: operation + " interrupted", Underlying: err}
	default:
		return coreerr.NewEncodeFailureError(operation, err)
	}
}

func passthrough(in media.InputFile, err error) Result {
	return Result{Data: in.Data, Passthrough: true, Err: err}
}

// withEngine derives a context that is also cancelled when engineCtx is.
func withEngine(ctx, engineCtx context.Context) (context.Context, func()) {
	merged, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(engineCtx, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}
