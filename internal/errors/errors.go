// Package errors provides structured error types for media processing operations.
package errors

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindIO represents I/O errors.
	KindIO ErrorKind = iota
	// KindCommand represents external command execution errors.
	KindCommand
	// KindConfig represents configuration validation errors.
	KindConfig
	// KindDecode represents inputs that could not be decoded as images.
	KindDecode
	// KindEngineUnavailable represents a codec engine that could not be loaded.
	KindEngineUnavailable
	// KindEncodeTimeout represents a transcode that exceeded its deadline.
	KindEncodeTimeout
	// KindEncodeFailure represents a transcode command that failed.
	KindEncodeFailure
	// KindNamingInconsistency represents a name requested for a group the plan did not predict.
	KindNamingInconsistency
	// KindNoInputFiles represents a batch started without any input.
	KindNoInputFiles
	// KindBatchRunning represents a batch started while another is in progress.
	KindBatchRunning
	// KindCancelled represents user-cancelled operations.
	KindCancelled
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "I/O error"
	case KindCommand:
		return "Command error"
	case KindConfig:
		return "Configuration error"
	case KindDecode:
		return "Decode failure"
	case KindEngineUnavailable:
		return "Engine unavailable"
	case KindEncodeTimeout:
		return "Encode timeout"
	case KindEncodeFailure:
		return "Encode failure"
	case KindNamingInconsistency:
		return "Naming inconsistency"
	case KindNoInputFiles:
		return "No input files"
	case KindBatchRunning:
		return "Batch already running"
	case KindCancelled:
		return "Operation cancelled"
	default:
		return "Unknown error"
	}
}

// CommandErrorKind represents the type of command error.
type CommandErrorKind int

const (
	// CommandStart means the command failed to start.
	CommandStart CommandErrorKind = iota
	// CommandWait means waiting for the command failed.
	CommandWait
	// CommandFailed means the command returned non-zero exit status.
	CommandFailed
)

// CommandError represents an error from executing an external command.
type CommandError struct {
	Command    string
	Kind       CommandErrorKind
	ExitCode   int
	Stderr     string
	Underlying error
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case CommandStart:
		return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Underlying)
	case CommandWait:
		return fmt.Sprintf("failed to wait for %s: %v", e.Command, e.Underlying)
	case CommandFailed:
		if e.Stderr != "" {
			return fmt.Sprintf("command %s failed with exit code %d: %s", e.Command, e.ExitCode, e.Stderr)
		}
		return fmt.Sprintf("command %s failed with exit code %d", e.Command, e.ExitCode)
	default:
		return fmt.Sprintf("command %s error: %v", e.Command, e.Underlying)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Underlying
}

// CoreError is the main error type for media processing operations.
type CoreError struct {
	Kind       ErrorKind
	Message    string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewIOError creates a new I/O error.
func NewIOError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindIO, Message: message, Underlying: underlying}
}

// NewCommandError creates a new command execution error.
func NewCommandError(cmd string, kind CommandErrorKind, underlying error) *CoreError {
	cmdErr := &CommandError{
		Command:    cmd,
		Kind:       kind,
		Underlying: underlying,
	}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewCommandStartError creates an error for when a command fails to start.
func NewCommandStartError(cmd string, err error) *CoreError {
	return NewCommandError(cmd, CommandStart, err)
}

// NewCommandFailedError creates an error for when a command returns non-zero exit status.
func NewCommandFailedError(cmd string, exitCode int, stderr string) *CoreError {
	cmdErr := &CommandError{
		Command:  cmd,
		Kind:     CommandFailed,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindConfig, Message: message, Underlying: underlying}
}

// NewDecodeError creates an error for an input that could not be decoded.
func NewDecodeError(name string, underlying error) *CoreError {
	return &CoreError{Kind: KindDecode, Message: fmt.Sprintf("cannot decode %s", name), Underlying: underlying}
}

// NewEngineUnavailableError creates an error for a codec engine that failed to load.
func NewEngineUnavailableError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindEngineUnavailable, Message: message, Underlying: underlying}
}

// NewEncodeTimeoutError creates an error for a transcode that ran past its deadline.
func NewEncodeTimeoutError(operation string, underlying error) *CoreError {
	return &CoreError{Kind: KindEncodeTimeout, Message: fmt.Sprintf("%s timed out", operation), Underlying: underlying}
}

// NewEncodeFailureError creates an error for a transcode that failed.
func NewEncodeFailureError(operation string, underlying error) *CoreError {
	return &CoreError{Kind: KindEncodeFailure, Message: fmt.Sprintf("%s failed", operation), Underlying: underlying}
}

// NewNamingInconsistencyError creates an error for a name request outside the naming plan.
func NewNamingInconsistencyError(key string) *CoreError {
	return &CoreError{Kind: KindNamingInconsistency, Message: fmt.Sprintf("no planned entry for %s", key)}
}

// NewNoInputFilesError creates an error for a batch started with no files.
func NewNoInputFilesError() *CoreError {
	return &CoreError{Kind: KindNoInputFiles, Message: "no input files were provided"}
}

// NewBatchRunningError creates an error for a batch started while another is active.
func NewBatchRunningError() *CoreError {
	return &CoreError{Kind: KindBatchRunning, Message: "a batch is already running"}
}

// NewCancelledError creates an error for user-cancelled operations.
func NewCancelledError() *CoreError {
	return &CoreError{Kind: KindCancelled, Message: "operation was cancelled by the user"}
}

// IsKind checks if the error has the specified kind.
func IsKind(err error, kind ErrorKind) bool {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind == kind
	}
	return false
}

// KindOf returns the kind of the outermost CoreError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind, true
	}
	return 0, false
}

// IsCancelled checks if the error is a cancellation error.
func IsCancelled(err error) bool {
	return IsKind(err, KindCancelled) || errors.Is(err, context.Canceled)
}

// IsNoInputFiles checks if the error is a no-input-files error.
func IsNoInputFiles(err error) bool {
	return IsKind(err, KindNoInputFiles)
}

// WrapExecError wraps an exec.ExitError into a CoreError.
func WrapExecError(cmd string, err error, stderr string) *CoreError {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return NewCommandFailedError(cmd, exitErr.ExitCode(), stderr)
	}
	return NewCommandStartError(cmd, err)
}
