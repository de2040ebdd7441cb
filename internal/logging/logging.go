package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// RunLog is a structured logger backed by a timestamped file for one CLI run.
type RunLog struct {
	*Logger
	file     *os.File
	filePath string
}

// Setup creates a logger that writes to a timestamped log file in logDir.
// Returns nil if logging is disabled (noLog=true).
func Setup(logDir string, verbose, noLog bool) (*RunLog, error) {
	if noLog {
		return nil, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("mediaproc_run_%s.log", timestamp)
	filePath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", filePath, err)
	}

	level := LevelInfo
	if verbose {
		level = LevelDebug
	}

	l := &RunLog{
		Logger:   New(Config{Level: level, Output: file, Enabled: true}),
		file:     file,
		filePath: filePath,
	}

	l.Info("media processor starting", slog.String("log_file", filePath))
	if verbose {
		l.Debug("debug level logging enabled")
	}

	return l, nil
}

// Close closes the log file.
func (l *RunLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// FilePath returns the path to the log file.
func (l *RunLog) FilePath() string {
	if l == nil {
		return ""
	}
	return l.filePath
}

// Writer returns an io.Writer that writes to the log file.
func (l *RunLog) Writer() io.Writer {
	if l == nil || l.file == nil {
		return io.Discard
	}
	return l.file
}

// Structured returns the underlying structured logger, or a discarding one
// when the run log is disabled.
func (l *RunLog) Structured() *Logger {
	if l == nil {
		return Discard()
	}
	return l.Logger
}
