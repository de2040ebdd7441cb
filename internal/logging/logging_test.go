package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf, Enabled: true})

	l.Info("hidden")
	l.Warn("shown", "file", "a.png")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "file=a.png") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestDisabledLoggerDiscards(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf, Enabled: false})
	l.Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %q", buf.String())
	}
}

func TestWithPrefixGroupsAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf, Enabled: true}).WithPrefix("codec")
	l.Info("engine ready", "tier", "multi-thread")
	if !strings.Contains(buf.String(), "codec.tier=multi-thread") {
		t.Errorf("expected grouped attribute, got %q", buf.String())
	}
}

func TestOrGlobal(t *testing.T) {
	if OrGlobal(nil) != Global() {
		t.Error("OrGlobal(nil) should return the global logger")
	}
	l := Discard()
	if OrGlobal(l) != l {
		t.Error("OrGlobal should return a non-nil logger unchanged")
	}
}

func TestSetupDisabled(t *testing.T) {
	l, err := Setup(t.TempDir(), false, true)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if l != nil {
		t.Fatal("Setup with noLog should return nil")
	}

	// nil run logs are safe to use
	if err := l.Close(); err != nil {
		t.Errorf("Close() on nil = %v", err)
	}
	if l.FilePath() != "" {
		t.Error("FilePath() on nil should be empty")
	}
	l.Structured().Info("dropped")
}

func TestSetupWritesFile(t *testing.T) {
	dir := t.TempDir()
	l, err := Setup(dir, true, false)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	l.Debug("variant written", "name", "logo_1.png")
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(l.FilePath())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	for _, want := range []string{"media processor starting", "name=logo_1.png"} {
		if !strings.Contains(content, want) {
			t.Errorf("log file missing %q:\n%s", want, content)
		}
	}
}

func TestSetGlobal(t *testing.T) {
	prev := Global()
	t.Cleanup(func() { SetGlobal(prev) })

	l := Discard()
	SetGlobal(l)
	if Global() != l {
		t.Error("Global should return the logger passed to SetGlobal")
	}
}
