package mediaprocessor

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aagalakova/Media-processor/internal/codec"
	"github.com/aagalakova/Media-processor/internal/config"
	coreerr "github.com/aagalakova/Media-processor/internal/errors"
	"github.com/aagalakova/Media-processor/internal/ffmpeg"
)

// brokenEngine never loads.
type brokenEngine struct{}

func (brokenEngine) Load(context.Context) error                                   { return errors.New("missing") }
func (brokenEngine) WriteInput(string, []byte) error                              { return nil }
func (brokenEngine) Run(context.Context, []string, ffmpeg.ProgressCallback) error { return nil }
func (brokenEngine) ReadOutput(string) ([]byte, error)                            { return nil, nil }
func (brokenEngine) Cleanup(...string)                                            {}
func (brokenEngine) Exit() error                                                  { return nil }

func brokenFactory(codec.Source) ffmpeg.Engine { return brokenEngine{} }

func testPNG(t *testing.T, name string) InputFile {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(6, 6, color.NRGBA{B: 255, A: 255})))
	return NewInputFile(name, buf.Bytes())
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) handle(e Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *eventLog) types() []EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	var types []EventType
	for _, e := range l.events {
		types = append(types, e.Type())
	}
	return types
}

func TestProcessWithUnavailableEngine(t *testing.T) {
	var log eventLog
	proc, err := New(
		WithEngineSources([]string{"mt"}, []string{"st"}),
		WithEngineFactory(brokenFactory),
		WithEventHandler(log.handle),
		WithMetrics(NewMetrics()),
	)
	require.NoError(t, err)
	defer proc.Close()

	settings := DefaultSettings()
	settings.ImageSizes = ParseSizes("4x4")
	settings.ImageFormats = []string{"png"}

	var (
		names    []string
		progress []float64
	)
	summary, err := proc.Process(context.Background(), []InputFile{
		NewInputFile("clip.mov", []byte("not really a movie")),
		testPNG(t, "logo.png"),
	}, settings, Sinks{
		Progress: func(p float64) { progress = append(progress, p) },
		Results: func(vs []Variant) {
			for _, v := range vs {
				names = append(names, v.Name)
			}
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"logo.png", "clip.mov"}, names)
	assert.Equal(t, []float64{50, 100}, progress)
	assert.Equal(t, RunCompleted, summary.State)
	assert.Equal(t, 1, summary.FallbackCount)
	assert.Equal(t, EngineFailed, proc.EngineStatus().State)

	types := log.types()
	assert.Equal(t, EventTypeBatchStarted, types[0])
	assert.Equal(t, EventTypeBatchComplete, types[len(types)-1])
	assert.Contains(t, types, EventTypeEngineStatus)
	assert.Contains(t, types, EventTypeWarning)
}

func TestProcessRejectsBadInput(t *testing.T) {
	proc, err := New(WithEngineFactory(brokenFactory))
	require.NoError(t, err)

	_, err = proc.Process(context.Background(), nil, DefaultSettings(), Sinks{})
	assert.True(t, coreerr.IsNoInputFiles(err))

	bad := DefaultSettings()
	bad.VideoFormat = "gif"
	_, err = proc.Process(context.Background(), []InputFile{NewInputFile("a.txt", []byte("a"))}, bad, Sinks{})
	assert.ErrorIs(t, err, config.ErrInvalidFormat)
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(WithEngineSources(nil, nil))
	assert.ErrorIs(t, err, config.ErrNoEngineSources)

	proc, err := New(WithTimeouts(time.Second, 0, 0), WithSingleThread(), WithResponsive())
	require.NoError(t, err)
	assert.Equal(t, time.Second, proc.config.EngineLoadTimeout)
	assert.Equal(t, config.DefaultVideoTimeout, proc.config.VideoTimeout)
	assert.True(t, proc.config.ForceSingleThread)
	assert.Equal(t, EngineUnloaded, proc.EngineStatus().State)
}

func TestCancelBeforeProcessStopsImmediately(t *testing.T) {
	proc, err := New(WithEngineFactory(brokenFactory))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := proc.Process(ctx, []InputFile{NewInputFile("a.txt", []byte("a"))}, DefaultSettings(), Sinks{})
	require.NoError(t, err)
	assert.Equal(t, RunCancelled, summary.State)
	assert.Zero(t, summary.ProcessedFiles)
	assert.Equal(t, RunCancelled, proc.State())
}

func TestPlan(t *testing.T) {
	settings := DefaultSettings()
	settings.Naming = NamingOptions{Smart: true, BaseName: "logo"}
	settings.ImageSizes = ParseSizes("800x800")
	settings.ImageFormats = []string{"png"}

	entries := Plan([]InputFile{
		NewInputFile("a.png", nil),
		NewInputFile("b.png", nil),
		NewInputFile("c.png", nil),
	}, settings)

	require.Len(t, entries, 1)
	assert.Equal(t, "logo", entries[0].Base)
	assert.Equal(t, "png", entries[0].Ext)
	assert.Equal(t, 3, entries[0].Count)
}

func TestPreviewNamesUsesPhaseOrder(t *testing.T) {
	settings := DefaultSettings()
	settings.ImageFormats = []string{"jpg"}

	got := PreviewNames([]InputFile{
		NewInputFile("clip.mov", nil),
		NewInputFile("photo.png", nil),
	}, settings)

	require.Len(t, got, 2)
	assert.Equal(t, "photo.png", got[0].Source)
	assert.Equal(t, []string{"photo.jpg"}, got[0].Names)
	assert.Equal(t, []string{"clip.mp4"}, got[1].Names)
}
