package ffmpeg

import (
	"fmt"
	"strings"
	"testing"
)

func TestParseProgressLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want *Progress
	}{
		{
			name: "video stats",
			line: "frame=  240 fps= 60 q=28.0 size=     512kB time=00:00:10.00 bitrate= 419.4kbits/s speed=2.5x",
			want: &Progress{CurrentFrame: 240, FPS: 60, ElapsedSecs: 10, Bitrate: "419.4kbits/s", Speed: 2.5},
		},
		{
			name: "audio stats",
			line: "size=     256kB time=00:01:05.50 bitrate= 32.0kbits/s speed=41.2x",
			want: &Progress{ElapsedSecs: 65.5, Bitrate: "32.0kbits/s", Speed: 41.2},
		},
		{
			name: "no time field",
			line: "Stream mapping:",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseProgressLine(tt.line)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected progress, got nil")
			}
			if *got != *tt.want {
				t.Errorf("parseProgressLine() = %+v, want %+v", *got, *tt.want)
			}
		})
	}
}

func TestLineRing(t *testing.T) {
	r := newLineRing(2)
	if got := r.String(); got != "" {
		t.Errorf("empty ring = %q", got)
	}

	r.Add("a")
	r.Add("")
	if got := r.String(); got != "a" {
		t.Errorf("String() = %q, want %q", got, "a")
	}

	r.Add("b")
	r.Add("c")
	r.Add("d")
	if got := r.String(); got != "c\nd" {
		t.Errorf("String() = %q, want %q", got, "c\nd")
	}
}

func TestParseProgressKeepsBoundedTail(t *testing.T) {
	var in strings.Builder
	for i := range 5000 {
		fmt.Fprintf(&in, "frame=%d fps=25 time=00:00:%02d.00 bitrate=900kbits/s speed=2x\r", i, i%60)
	}
	in.WriteString("Error while encoding\nConversion failed!")

	lines := newLineRing(stderrTailLines)
	updates := 0
	parseProgress(strings.NewReader(in.String()), lines, func(Progress) { updates++ })

	if updates != 5000 {
		t.Errorf("updates = %d, want 5000", updates)
	}
	got := strings.Split(lines.String(), "\n")
	if len(got) != stderrTailLines {
		t.Fatalf("kept %d lines, want %d", len(got), stderrTailLines)
	}
	if got[len(got)-1] != "Conversion failed!" {
		t.Errorf("last line = %q", got[len(got)-1])
	}
	if len(lines.lines) != stderrTailLines {
		t.Errorf("ring grew to %d", len(lines.lines))
	}
}

func TestParseProgressTruncatesLongLines(t *testing.T) {
	lines := newLineRing(1)
	parseProgress(strings.NewReader(strings.Repeat("x", 3*maxLineBytes)), lines, nil)
	if n := len(lines.String()); n != maxLineBytes {
		t.Errorf("line length = %d, want %d", n, maxLineBytes)
	}
}

func TestParseVersion(t *testing.T) {
	if got := parseVersion("ffmpeg version 6.1.1 Copyright (c) 2000-2023\nbuilt with gcc"); got != "6.1.1" {
		t.Errorf("parseVersion() = %q", got)
	}
	if got := parseVersion("custom build\n"); got != "custom build" {
		t.Errorf("parseVersion() = %q", got)
	}
}
