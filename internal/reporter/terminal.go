package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/aagalakova/Media-processor/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	out    io.Writer
	errOut io.Writer

	mu         sync.Mutex
	progress   *progressbar.ProgressBar
	maxPercent float64
	lastStage  string
	verbose    bool

	cyan    *color.Color
	green   *color.Color
	yellow  *color.Color
	red     *color.Color
	magenta *color.Color
	bold    *color.Color
	faint   *color.Color
}

// NewTerminalReporter creates a terminal reporter writing to stdout, with
// errors and the progress bar on stderr.
func NewTerminalReporter(verbose bool) *TerminalReporter {
	return newTerminalReporter(os.Stdout, os.Stderr, verbose)
}

// NewTerminalReporterWithWriter creates a terminal reporter that writes
// everything to w.
func NewTerminalReporterWithWriter(w io.Writer, verbose bool) *TerminalReporter {
	return newTerminalReporter(w, w, verbose)
}

func newTerminalReporter(out, errOut io.Writer, verbose bool) *TerminalReporter {
	return &TerminalReporter{
		out:     out,
		errOut:  errOut,
		verbose: verbose,
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		magenta: color.New(color.FgMagenta),
		bold:    color.New(color.Bold),
		faint:   color.New(color.Faint),
	}
}

func (r *TerminalReporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *TerminalReporter) heading(title string) {
	r.printf("\n")
	_, _ = r.cyan.Fprintln(r.out, title)
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	r.printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.maxPercent = 0
}

func (r *TerminalReporter) EngineStatus(summary EngineSummary) {
	switch summary.State {
	case "ready":
		r.printf("  %s codec engine ready: %s (%s)\n", r.green.Sprint("✓"), summary.Source, summary.Tier)
		if summary.Version != "" && r.verbose {
			r.printf("    %s\n", r.faint.Sprint("ffmpeg "+summary.Version))
		}
	case "failed":
		r.printf("  %s codec engine unavailable, audio and video will pass through unchanged\n", r.yellow.Sprint("!"))
		if summary.Message != "" && r.verbose {
			r.printf("    %s\n", r.faint.Sprint(summary.Message))
		}
	case "loading":
		if r.verbose {
			r.printf("  %s loading codec engine\n", r.magenta.Sprint("›"))
		}
	default:
		if r.verbose {
			r.printf("  %s codec engine %s\n", r.magenta.Sprint("›"), summary.State)
		}
	}
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	r.heading("BATCH")
	if info.OutputDir != "" {
		r.printf("  Processing %d files -> %s\n", info.TotalFiles, r.bold.Sprint(info.OutputDir))
	} else {
		r.printf("  Processing %d files\n", info.TotalFiles)
	}
	for i, name := range info.FileList {
		r.printf("  %d. %s\n", i+1, name)
	}
	if info.PlannedGroups > 0 {
		r.printLabel(14, "Naming groups:", fmt.Sprint(info.PlannedGroups))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastStage = ""
	r.progress = progressbar.NewOptions64(
		100,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(r.errOut),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Batch [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) FileStarted(info FileStartInfo) {
	r.mu.Lock()
	if r.lastStage != info.Phase {
		r.lastStage = info.Phase
		r.mu.Unlock()
		r.heading(strings.ToUpper(info.Phase))
	} else {
		r.mu.Unlock()
	}
	r.printf("\nFile %s of %d: %s %s\n",
		r.bold.Sprint(info.Index),
		info.Total,
		info.Name,
		r.faint.Sprintf("(%s)", info.Type))
}

func (r *TerminalReporter) StageProgress(update StageProgress) {
	if !r.verbose {
		return
	}
	r.printf("  %s %s: %s\n", r.magenta.Sprint("›"), update.Stage, update.Message)
}

func (r *TerminalReporter) VariantsReady(summary VariantSummary) {
	for _, v := range summary.Variants {
		line := fmt.Sprintf("%s  %s", v.Name, util.FormatBytes(v.Size))
		if v.Resolution != "" {
			line += "  " + v.Resolution
		}
		if v.Note != "" {
			r.printf("  %s %s %s\n", r.yellow.Sprint("•"), line, r.yellow.Sprintf("[%s]", v.Note))
			continue
		}
		r.printf("  %s %s\n", r.green.Sprint("•"), line)
	}
}

func (r *TerminalReporter) BatchProgress(progress BatchProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return
	}

	clamped := min(max(progress.Percent, 0), 100)
	if clamped >= r.maxPercent {
		r.maxPercent = clamped
		_ = r.progress.Set64(int64(clamped))
	}
	r.progress.Describe(fmt.Sprintf("%d/%d files", progress.Completed, progress.Total))
}

func (r *TerminalReporter) Warning(message string) {
	r.printf("\n")
	_, _ = r.yellow.Fprintf(r.out, "WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	_, _ = fmt.Fprintln(r.errOut)
	_, _ = r.red.Fprintf(r.errOut, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(r.errOut, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	r.finishProgress()

	reduction := util.CalculateSizeReduction(summary.TotalOriginalSize, summary.TotalOutputSize)

	r.heading("BATCH SUMMARY")
	r.printf("  %s\n", r.bold.Sprintf("%d of %d files processed (%s)", summary.ProcessedFiles, summary.TotalFiles, summary.State))
	r.printf("  Variants: %s, fallbacks: %s\n",
		r.green.Sprint(summary.VariantCount),
		r.yellow.Sprint(summary.FallbackCount))
	r.printf("  Size: %s -> %s (%.1f%% reduction)\n",
		util.FormatBytes(summary.TotalOriginalSize),
		util.FormatBytes(summary.TotalOutputSize),
		reduction)
	r.printf("  Time: %s\n", util.FormatDuration(summary.TotalDuration.Seconds()))

	for _, result := range summary.FileResults {
		marker := r.green.Sprint("✓")
		if result.Fallback {
			marker = r.yellow.Sprint("!")
		}
		r.printf("  %s %s (%d variants, %.1f%% reduction)\n", marker, result.Filename, result.Variants, result.Reduction)
	}
}

func (r *TerminalReporter) Verbose(message string) {
	if !r.verbose {
		return
	}
	r.printf("  %s\n", r.faint.Sprint(message))
}
