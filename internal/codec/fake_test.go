package codec

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aagalakova/Media-processor/internal/ffmpeg"
)

// fakeEngine is an in-memory engine. Run writes "encoded:<input>" to the
// last argument unless runFn returns an error.
type fakeEngine struct {
	mu      sync.Mutex
	loadFn  func(ctx context.Context) error
	runFn   func(ctx context.Context, args []string) error
	files   map[string][]byte
	runs    [][]string
	cleaned []string
	exited  bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{files: make(map[string][]byte)}
}

func (e *fakeEngine) Load(ctx context.Context) error {
	if e.loadFn != nil {
		return e.loadFn(ctx)
	}
	return nil
}

func (e *fakeEngine) Version() string {
	return "fake-1.0"
}

func (e *fakeEngine) WriteInput(name string, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.files[name] = data
	return nil
}

func (e *fakeEngine) Run(ctx context.Context, args []string, progress ffmpeg.ProgressCallback) error {
	e.mu.Lock()
	e.runs = append(e.runs, args)
	e.mu.Unlock()

	if e.runFn != nil {
		if err := e.runFn(ctx, args); err != nil {
			return err
		}
	}

	var input string
	for i, a := range args {
		if a == "-i" && i+1 < len(args) {
			input = args[i+1]
		}
	}
	if progress != nil {
		progress(ffmpeg.Progress{ElapsedSecs: 1})
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.files[args[len(args)-1]] = []byte("encoded:" + string(e.files[input]))
	return nil
}

func (e *fakeEngine) ReadOutput(name string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	data, ok := e.files[name]
	if !ok {
		return nil, fmt.Errorf("no such file %s", name)
	}
	return data, nil
}

func (e *fakeEngine) Cleanup(names ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range names {
		delete(e.files, n)
		e.cleaned = append(e.cleaned, n)
	}
}

func (e *fakeEngine) Exit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exited = true
	return nil
}

func (e *fakeEngine) lastRun() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.runs) == 0 {
		return ""
	}
	return strings.Join(e.runs[len(e.runs)-1], " ")
}

// fakeFactory hands out engines per location and records every request.
type fakeFactory struct {
	mu        sync.Mutex
	configure map[string]func(*fakeEngine)
	created   []*fakeEngine
	requested []string
}

func (f *fakeFactory) factory() EngineFactory {
	return func(src Source) ffmpeg.Engine {
		f.mu.Lock()
		defer f.mu.Unlock()
		e := newFakeEngine()
		if cfg, ok := f.configure[src.Location]; ok {
			cfg(e)
		}
		f.created = append(f.created, e)
		f.requested = append(f.requested, src.Location)
		return e
	}
}

func failLoad(e *fakeEngine) {
	e.loadFn = func(context.Context) error { return fmt.Errorf("not found") }
}
