package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	coreerr "github.com/aagalakova/Media-processor/internal/errors"
	"github.com/aagalakova/Media-processor/internal/logging"
	"github.com/aagalakova/Media-processor/internal/util"
)

// Engine is a codec engine with a private working file area. Names passed to
// WriteInput, Run arguments, ReadOutput and Cleanup are relative to that area.
type Engine interface {
	Load(ctx context.Context) error
	WriteInput(name string, data []byte) error
	Run(ctx context.Context, args []string, progress ProgressCallback) error
	ReadOutput(name string) ([]byte, error)
	Cleanup(names ...string)
	Exit() error
}

// Versioned is implemented by engines that report their version once loaded.
type Versioned interface {
	Version() string
}

// ErrNotLoaded is returned by engine operations before Load succeeds.
var ErrNotLoaded = errors.New("engine not loaded")

// globalArgs precede every engine invocation.
var globalArgs = []string{"-hide_banner", "-nostdin", "-y", "-loglevel", "error", "-stats"}

// ProcessOptions configures a ProcessEngine.
type ProcessOptions struct {
	// Binary is an executable name looked up on PATH, or a path.
	Binary string
	// WorkBase is where the scratch directory is created.
	WorkBase string
	// LowPriority lowers the OS scheduling priority of engine processes.
	LowPriority bool
	Logger      *logging.Logger
}

// ProcessEngine runs an FFmpeg executable in a scratch directory.
type ProcessEngine struct {
	opts ProcessOptions
	log  *logging.Logger

	mu      sync.Mutex
	path    string
	version string
	dir     *util.TempDir
}

// NewProcessEngine creates an engine for the given binary. Nothing is
// touched until Load.
func NewProcessEngine(opts ProcessOptions) *ProcessEngine {
	return &ProcessEngine{
		opts: opts,
		log:  logging.OrGlobal(opts.Logger).WithPrefix("engine"),
	}
}

// Load resolves the binary, checks that it runs and prepares the working area.
func (e *ProcessEngine) Load(ctx context.Context) error {
	path, err := exec.LookPath(e.opts.Binary)
	if err != nil {
		return fmt.Errorf("locate %s: %w", e.opts.Binary, err)
	}

	out, err := exec.CommandContext(ctx, path, "-hide_banner", "-version").Output()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("probe %s: %w", path, ctx.Err())
		}
		return coreerr.WrapExecError(path, err, "")
	}
	version := parseVersion(string(out))

	dir, err := util.CreateTempDir(e.opts.WorkBase, "mediaproc_engine")
	if err != nil {
		return coreerr.NewIOError("failed to create engine working directory", err)
	}

	e.mu.Lock()
	e.path = path
	e.version = version
	e.dir = dir
	e.mu.Unlock()

	e.log.Debug("engine loaded", "binary", path, "version", version, "workdir", dir.Path())
	return nil
}

// Version returns the version string reported at load time.
func (e *ProcessEngine) Version() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

func (e *ProcessEngine) workdir() (*util.TempDir, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dir == nil {
		return nil, "", ErrNotLoaded
	}
	return e.dir, e.path, nil
}

// WriteInput stores data under name in the working area.
func (e *ProcessEngine) WriteInput(name string, data []byte) error {
	dir, _, err := e.workdir()
	if err != nil {
		return err
	}
	if err := os.WriteFile(dir.Join(name), data, 0644); err != nil {
		return coreerr.NewIOError("failed to write engine input "+name, err)
	}
	return nil
}

// Run executes the engine with args inside the working area.
func (e *ProcessEngine) Run(ctx context.Context, args []string, progress ProgressCallback) error {
	dir, path, err := e.workdir()
	if err != nil {
		return err
	}

	full := append(append([]string(nil), globalArgs...), args...)
	e.log.Debug("running engine", "args", strings.Join(full, " "))

	_, err = runProcess(ctx, path, dir.Path(), full, progress, func(cmd *exec.Cmd) {
		if e.opts.LowPriority {
			if perr := lowerPriority(cmd.Process.Pid); perr != nil {
				e.log.Debug("could not lower engine priority", "error", perr)
			}
		}
	})
	return err
}

// ReadOutput returns the bytes stored under name in the working area.
func (e *ProcessEngine) ReadOutput(name string) ([]byte, error) {
	dir, _, err := e.workdir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(dir.Join(name))
	if err != nil {
		return nil, coreerr.NewIOError("failed to read engine output "+name, err)
	}
	return data, nil
}

// Cleanup removes the named working files. Missing files are ignored.
func (e *ProcessEngine) Cleanup(names ...string) {
	dir, _, err := e.workdir()
	if err != nil {
		return
	}
	for _, name := range names {
		if err := os.Remove(dir.Join(name)); err != nil && !os.IsNotExist(err) {
			e.log.Warn("failed to remove engine working file", "name", name, "error", err)
		}
	}
}

// Exit releases the working area. The engine must be loaded again before use.
func (e *ProcessEngine) Exit() error {
	e.mu.Lock()
	dir := e.dir
	e.dir = nil
	e.mu.Unlock()
	return dir.Cleanup()
}

// parseVersion extracts "6.1.1" from "ffmpeg version 6.1.1 Copyright ...".
func parseVersion(out string) string {
	first, _, _ := strings.Cut(out, "\n")
	fields := strings.Fields(first)
	for i, f := range fields {
		if f == "version" && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return strings.TrimSpace(first)
}
