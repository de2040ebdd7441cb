package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/output", "/log")

	if cfg.OutputDir != "/output" {
		t.Errorf("expected OutputDir=/output, got %s", cfg.OutputDir)
	}
	if cfg.LogDir != "/log" {
		t.Errorf("expected LogDir=/log, got %s", cfg.LogDir)
	}

	if cfg.EngineLoadTimeout != DefaultEngineLoadTimeout {
		t.Errorf("expected EngineLoadTimeout=%s, got %s", DefaultEngineLoadTimeout, cfg.EngineLoadTimeout)
	}
	if cfg.VideoTimeout <= cfg.AudioTimeout {
		t.Errorf("video timeout %s should exceed audio timeout %s", cfg.VideoTimeout, cfg.AudioTimeout)
	}
	if len(cfg.MultiThreadSources) == 0 || len(cfg.SingleThreadSources) == 0 {
		t.Error("expected default engine sources for both tiers")
	}

	// defaults must not alias the package-level slice
	cfg.MultiThreadSources[0] = "changed"
	if DefaultEngineSources[0] == "changed" {
		t.Error("NewConfig should copy DefaultEngineSources")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name         string
		modify       func(*Config)
		wantErr      bool
		wantSentinel error
	}{
		{
			name:    "default config is valid",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "no engine sources",
			modify: func(c *Config) {
				c.MultiThreadSources = nil
				c.SingleThreadSources = nil
			},
			wantErr:      true,
			wantSentinel: ErrNoEngineSources,
		},
		{
			name: "single-thread sources alone are enough",
			modify: func(c *Config) {
				c.MultiThreadSources = nil
			},
			wantErr: false,
		},
		{
			name:         "zero audio timeout",
			modify:       func(c *Config) { c.AudioTimeout = 0 },
			wantErr:      true,
			wantSentinel: ErrInvalidTimeout,
		},
		{
			name:         "negative load timeout",
			modify:       func(c *Config) { c.EngineLoadTimeout = -time.Second },
			wantErr:      true,
			wantSentinel: ErrInvalidTimeout,
		},
		{
			name:         "zero pixel budget",
			modify:       func(c *Config) { c.MaxImagePixels = 0 },
			wantErr:      true,
			wantSentinel: ErrInvalidSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig("/out", "/log")
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantSentinel != nil && !errors.Is(err, tt.wantSentinel) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantSentinel)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	local := filepath.Join("opt", "ffmpeg-local")
	t.Setenv(EnvEngineSources, local+string(os.PathListSeparator)+"ffmpeg")

	cfg := NewConfig("/out", "/log")
	cfg.ApplyEnv()

	if cfg.MultiThreadSources[0] != local {
		t.Errorf("expected %s first, got %v", local, cfg.MultiThreadSources)
	}
	if cfg.SingleThreadSources[0] != local {
		t.Errorf("expected %s first, got %v", local, cfg.SingleThreadSources)
	}

	count := 0
	for _, s := range cfg.MultiThreadSources {
		if s == "ffmpeg" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected ffmpeg once, got %d in %v", count, cfg.MultiThreadSources)
	}
}

func TestApplyEnvEmpty(t *testing.T) {
	t.Setenv(EnvEngineSources, "  ")
	cfg := NewConfig("/out", "/log")
	cfg.ApplyEnv()
	if strings.Join(cfg.MultiThreadSources, ",") != strings.Join(DefaultEngineSources, ",") {
		t.Errorf("empty env should keep defaults, got %v", cfg.MultiThreadSources)
	}
}

func TestPrependEngineSources(t *testing.T) {
	cfg := NewConfig("/out", "/log")
	cfg.PrependEngineSources("/opt/ff/ffmpeg", "ffmpeg")

	if cfg.SingleThreadSources[0] != "/opt/ff/ffmpeg" || cfg.SingleThreadSources[1] != "ffmpeg" {
		t.Errorf("unexpected order: %v", cfg.SingleThreadSources)
	}
	if len(cfg.MultiThreadSources) != len(DefaultEngineSources)+1 {
		t.Errorf("duplicate not collapsed: %v", cfg.MultiThreadSources)
	}
}

func TestGetWorkDir(t *testing.T) {
	cfg := NewConfig("/out", "/log")
	if cfg.GetWorkDir() != os.TempDir() {
		t.Errorf("expected OS temp dir, got %s", cfg.GetWorkDir())
	}
	cfg.WorkDir = "/scratch"
	if cfg.GetWorkDir() != "/scratch" {
		t.Errorf("expected /scratch, got %s", cfg.GetWorkDir())
	}
}
