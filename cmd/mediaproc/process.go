package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mediaprocessor "github.com/aagalakova/Media-processor"
	"github.com/aagalakova/Media-processor/internal/discovery"
	"github.com/aagalakova/Media-processor/internal/logging"
	"github.com/aagalakova/Media-processor/internal/metrics"
	"github.com/aagalakova/Media-processor/internal/output"
	"github.com/aagalakova/Media-processor/internal/reporter"
	"github.com/aagalakova/Media-processor/internal/util"
)

// errCancelled is returned when a run is interrupted before every file was
// processed.
var errCancelled = errors.New("processing cancelled")

type processArgs struct {
	outputDir string
	logDir    string
	verbose   bool
	noLog     bool
	jsonOut   bool
	overwrite bool

	ffmpeg       []string
	singleThread bool
	responsive   bool
	loadTimeout  time.Duration
	audioTimeout time.Duration
	videoTimeout time.Duration

	metricsFile string

	settings settingsFlags
}

func newProcessCmd() *cobra.Command {
	pa := &processArgs{}

	cmd := &cobra.Command{
		Use:   "process [flags] <path>...",
		Short: "Convert media files into output variants",
		Long: `Convert every media file in the given files and directories.

Directories are scanned one level deep; hidden files are skipped. Variants
are written to the output directory, never overwriting an existing file
unless --overwrite is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args, pa)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&pa.outputDir, "output", "o", "", "Output directory (required)")
	fs.StringVarP(&pa.logDir, "log-dir", "l", "", "Log directory (default: OUTPUT/logs)")
	fs.BoolVarP(&pa.verbose, "verbose", "v", false, "Show per-stage progress and debug logging")
	fs.BoolVar(&pa.noLog, "no-log", false, "Disable the run log file")
	fs.BoolVar(&pa.jsonOut, "json", false, "Emit NDJSON events on stdout instead of terminal output")
	fs.BoolVar(&pa.overwrite, "overwrite", false, "Replace existing files in the output directory")

	fs.StringSliceVar(&pa.ffmpeg, "ffmpeg", nil, "FFmpeg binaries to try before the defaults")
	fs.BoolVar(&pa.singleThread, "single-thread", false, "Only use the single-thread engine tier")
	fs.BoolVar(&pa.responsive, "responsive", false, "Run FFmpeg at lower priority and leave a core free")
	fs.DurationVar(&pa.loadTimeout, "load-timeout", 0, "Engine load deadline (default 30s)")
	fs.DurationVar(&pa.audioTimeout, "audio-timeout", 0, "Deadline per audio transcode (default 2m)")
	fs.DurationVar(&pa.videoTimeout, "video-timeout", 0, "Deadline per video transcode (default 10m)")

	fs.StringVar(&pa.metricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file")

	pa.settings.register(fs)

	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runProcess(cmd *cobra.Command, args []string, pa *processArgs) error {
	outputDir, err := filepath.Abs(pa.outputDir)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if err := util.EnsureDirectory(outputDir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	logDir := pa.logDir
	if logDir == "" {
		logDir = filepath.Join(outputDir, "logs")
	}

	runLog, err := logging.Setup(logDir, pa.verbose, pa.noLog)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer func() { _ = runLog.Close() }()

	logger := runLog.Structured()
	logging.SetGlobal(logger)

	host := util.GetSystemInfo()
	logger.Info("host",
		"hostname", host.Hostname,
		"cpus", host.NumCPU,
		"platform", host.OS+"/"+host.Arch,
		"version", appVersion)

	settings, err := pa.settings.build(cmd)
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	paths, err := discovery.ResolveInputs(args, pa.settings.includeOther, logger)
	if err != nil {
		return err
	}
	files, err := discovery.Load(paths)
	if err != nil {
		return err
	}

	var console reporter.Reporter
	if pa.jsonOut {
		console = reporter.NewJSONReporter()
	} else {
		console = reporter.NewTerminalReporter(pa.verbose)
	}
	var events reporter.Reporter
	if runLog != nil {
		events = reporter.NewLogReporter(logger)
	}
	rep := reporter.NewCompositeReporter(console, events)

	var rec *metrics.Recorder
	if pa.metricsFile != "" {
		rec = metrics.New()
	}

	opts := []mediaprocessor.Option{
		mediaprocessor.WithLogger(logger.Logger),
		mediaprocessor.WithReporter(rep),
		mediaprocessor.WithMetrics(rec),
		mediaprocessor.WithOutputDir(outputDir),
		mediaprocessor.WithExtraEngineSources(pa.ffmpeg...),
		mediaprocessor.WithTimeouts(pa.loadTimeout, pa.audioTimeout, pa.videoTimeout),
	}
	if pa.singleThread {
		opts = append(opts, mediaprocessor.WithSingleThread())
	}
	if pa.responsive {
		opts = append(opts, mediaprocessor.WithResponsive())
	}

	proc, err := mediaprocessor.New(opts...)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	defer func() { _ = proc.Close() }()

	writer, err := output.NewWriter(outputDir, pa.overwrite, logger)
	if err != nil {
		return err
	}
	onWriteError := func(err error) {
		rep.Error(reporter.ReporterError{
			Title:      "Write failed",
			Message:    err.Error(),
			Context:    outputDir,
			Suggestion: "Check free space and permissions on the output directory",
		})
		proc.Cancel()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("interrupt received, cancelling run")
			proc.Cancel()
		case <-ctx.Done():
		}
	}()

	summary, err := proc.Process(ctx, files, settings, mediaprocessor.Sinks{
		Results: writer.Sink(onWriteError),
	})
	if err != nil {
		return err
	}

	logger.Info("outputs written",
		"count", len(writer.Written()),
		"bytes", writer.BytesWritten(),
		"dir", writer.Dir())

	if rec != nil {
		if err := rec.WriteTextfile(pa.metricsFile); err != nil {
			logger.Error("failed to write metrics", "path", pa.metricsFile, "error", err)
			rep.Warning(fmt.Sprintf("Could not write metrics to %s: %v", pa.metricsFile, err))
		}
	}

	if summary.State == mediaprocessor.RunCancelled {
		return fmt.Errorf("%w after %d of %d files", errCancelled, summary.ProcessedFiles, summary.TotalFiles)
	}
	return nil
}
