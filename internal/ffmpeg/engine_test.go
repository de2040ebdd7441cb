package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	coreerr "github.com/aagalakova/Media-processor/internal/errors"
	"github.com/aagalakova/Media-processor/internal/logging"
)

// fakeFFmpeg copies the -i input to the last argument and prints one stats line.
const fakeFFmpeg = `#!/bin/sh
if [ "$2" = "-version" ]; then
  echo "ffmpeg version 9.9-test Copyright"
  exit 0
fi
in=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-i" ]; then in="$a"; fi
  prev="$a"
  out="$a"
done
if [ "$in" = "broken.wav" ]; then
  echo "Invalid data found when processing input" >&2
  exit 1
fi
printf 'size=1kB time=00:00:01.50 bitrate=5.0kbits/s speed=2.0x\r' >&2
cp "$in" "$out"
`

func writeFakeBinary(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script engine requires a unix shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte(fakeFFmpeg), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcessEngineRoundTrip(t *testing.T) {
	engine := NewProcessEngine(ProcessOptions{
		Binary:      writeFakeBinary(t),
		WorkBase:    t.TempDir(),
		LowPriority: true,
		Logger:      logging.Discard(),
	})

	ctx := context.Background()
	if err := engine.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if engine.Version() != "9.9-test" {
		t.Errorf("Version() = %q", engine.Version())
	}

	if err := engine.WriteInput("input.wav", []byte("pcm")); err != nil {
		t.Fatalf("WriteInput() error = %v", err)
	}

	var updates []Progress
	args := BuildAudioArgs(AudioJob{Input: "input.wav", Output: "output.mp3", Codec: AudioCodecs("mp3")[0], Threads: 1})
	if err := engine.Run(ctx, args, func(p Progress) { updates = append(updates, p) }); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(updates) != 1 || updates[0].ElapsedSecs != 1.5 {
		t.Errorf("unexpected progress updates: %+v", updates)
	}

	out, err := engine.ReadOutput("output.mp3")
	if err != nil {
		t.Fatalf("ReadOutput() error = %v", err)
	}
	if string(out) != "pcm" {
		t.Errorf("ReadOutput() = %q", out)
	}

	engine.Cleanup("input.wav", "output.mp3", "never-created")
	if _, err := engine.ReadOutput("output.mp3"); err == nil {
		t.Error("output should be gone after Cleanup")
	}

	if err := engine.Exit(); err != nil {
		t.Fatalf("Exit() error = %v", err)
	}
	if err := engine.WriteInput("x", nil); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("WriteInput after Exit = %v, want ErrNotLoaded", err)
	}
}

func TestProcessEngineRunFailure(t *testing.T) {
	engine := NewProcessEngine(ProcessOptions{Binary: writeFakeBinary(t), WorkBase: t.TempDir(), Logger: logging.Discard()})
	ctx := context.Background()
	if err := engine.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	t.Cleanup(func() { _ = engine.Exit() })

	if err := engine.WriteInput("broken.wav", []byte("x")); err != nil {
		t.Fatal(err)
	}
	err := engine.Run(ctx, []string{"-i", "broken.wav", "out.mp3"}, nil)
	if !coreerr.IsKind(err, coreerr.KindCommand) {
		t.Fatalf("Run() error = %v, want command error", err)
	}

	var cmdErr *coreerr.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.ExitCode != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
	if cmdErr.Stderr != "Invalid data found when processing input" {
		t.Errorf("Stderr = %q", cmdErr.Stderr)
	}
}

func TestProcessEngineLoadMissingBinary(t *testing.T) {
	engine := NewProcessEngine(ProcessOptions{Binary: filepath.Join(t.TempDir(), "no-such-ffmpeg"), Logger: logging.Discard()})
	if err := engine.Load(context.Background()); err == nil {
		t.Fatal("Load() should fail for a missing binary")
	}
	if err := engine.Exit(); err != nil {
		t.Errorf("Exit() on unloaded engine = %v", err)
	}
}
