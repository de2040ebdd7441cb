package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"slices"
	"strconv"
	"strings"

	coreerr "github.com/aagalakova/Media-processor/internal/errors"
	"github.com/aagalakova/Media-processor/internal/util"
)

// Progress represents transcode progress parsed from FFmpeg stderr.
type Progress struct {
	CurrentFrame uint64
	Speed        float32
	FPS          float32
	Bitrate      string
	ElapsedSecs  float64
}

// ProgressCallback is called with progress updates during a transcode.
type ProgressCallback func(Progress)

const (
	// stderrTailLines is how much of FFmpeg's stderr is kept in error messages.
	stderrTailLines = 6
	// maxLineBytes truncates a single stderr line.
	maxLineBytes = 4096
)

var timeRegex = regexp.MustCompile(`time=(\d{2}:\d{2}:\d{2}\.?\d*)`)

// runProcess runs binary with args in dir, feeding stderr progress to
// callback. started is invoked with the live process before output is read.
func runProcess(ctx context.Context, binary, dir string, args []string, callback ProgressCallback, started func(*exec.Cmd)) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", coreerr.NewCommandStartError(binary, fmt.Errorf("failed to get stderr pipe: %w", err))
	}

	if err := cmd.Start(); err != nil {
		return "", coreerr.NewCommandStartError(binary, err)
	}
	if started != nil {
		started(cmd)
	}

	lines := newLineRing(stderrTailLines)
	parseProgress(stderr, lines, callback)

	err = cmd.Wait()
	stderrTail := lines.String()

	if err != nil {
		if ctx.Err() != nil {
			return stderrTail, fmt.Errorf("ffmpeg interrupted: %w", ctx.Err())
		}
		return stderrTail, coreerr.WrapExecError(binary, err, stderrTail)
	}

	return stderrTail, nil
}

// lineRing keeps the last few non-empty lines written to it.
type lineRing struct {
	lines []string
	next  int
	full  bool
}

func newLineRing(n int) *lineRing {
	return &lineRing{lines: make([]string, n)}
}

func (r *lineRing) Add(line string) {
	if line == "" || len(r.lines) == 0 {
		return
	}
	r.lines[r.next] = line
	r.next = (r.next + 1) % len(r.lines)
	if r.next == 0 {
		r.full = true
	}
}

// String returns the kept lines, oldest first, joined by newlines.
func (r *lineRing) String() string {
	if !r.full {
		return strings.Join(r.lines[:r.next], "\n")
	}
	ordered := append(slices.Clone(r.lines[r.next:]), r.lines[:r.next]...)
	return strings.Join(ordered, "\n")
}

// parseProgress reads FFmpeg stderr line by line, feeding stats lines to
// callback and keeping the tail in lines. Lines end with \r or \n.
func parseProgress(stderr io.Reader, lines *lineRing, callback ProgressCallback) {
	reader := bufio.NewReader(stderr)
	var lineBuf strings.Builder

	flush := func() {
		line := lineBuf.String()
		lineBuf.Reset()
		lines.Add(line)
		if callback != nil && strings.Contains(line, "time=") {
			if progress := parseProgressLine(line); progress != nil {
				callback(*progress)
			}
		}
	}

	for {
		b, err := reader.ReadByte()
		if err != nil {
			break
		}
		switch {
		case b == '\r' || b == '\n':
			flush()
		case lineBuf.Len() < maxLineBytes:
			lineBuf.WriteByte(b)
		}
	}
	if lineBuf.Len() > 0 {
		flush()
	}
}

// fieldValue returns the token that follows key= in line.
func fieldValue(line, key string) string {
	idx := strings.Index(line, key+"=")
	if idx < 0 {
		return ""
	}
	remaining := strings.TrimLeft(line[idx+len(key)+1:], " ")
	if end := strings.IndexAny(remaining, " \t\r\n"); end >= 0 {
		remaining = remaining[:end]
	}
	return remaining
}

// parseProgressLine extracts progress information from an FFmpeg stats line.
// Audio-only stats lines carry no frame or fps fields.
func parseProgressLine(line string) *Progress {
	matches := timeRegex.FindStringSubmatch(line)
	if len(matches) < 2 {
		return nil
	}
	elapsedSecs, ok := util.ParseFFmpegTime(matches[1])
	if !ok {
		return nil
	}

	p := &Progress{ElapsedSecs: elapsedSecs, Bitrate: fieldValue(line, "bitrate")}

	if f, err := strconv.ParseUint(fieldValue(line, "frame"), 10, 64); err == nil {
		p.CurrentFrame = f
	}
	if f, err := strconv.ParseFloat(fieldValue(line, "fps"), 32); err == nil {
		p.FPS = float32(f)
	}
	if s, err := strconv.ParseFloat(strings.TrimSuffix(fieldValue(line, "speed"), "x"), 32); err == nil {
		p.Speed = float32(s)
	}

	return p
}
