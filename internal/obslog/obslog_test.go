package obslog

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNew_DefaultsToNoColorForNonFileWriter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, nil)
	if l.color {
		t.Errorf("expected color detection to default false for a non-Fd writer")
	}
	if got := l.paint("36", "x"); got != "x" {
		t.Errorf("expected paint to pass text through unchanged when color is off, got %q", got)
	}
}

func TestNew_ForceColorOverridesDetection(t *testing.T) {
	var buf bytes.Buffer
	on := true
	l := New(&buf, &on)
	if !l.color {
		t.Fatalf("expected forceColor=true to enable color")
	}
	if got := l.paint("36", "x"); got != "\x1b[36mx\x1b[0m" {
		t.Errorf("expected ANSI-wrapped text, got %q", got)
	}
}

func TestNew_AssignsRunID(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, nil)
	if len(l.RunID) != 36 {
		t.Errorf("expected a UUID-shaped RunID, got %q", l.RunID)
	}
}

func TestStage_WritesNameAndDetail(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, nil)
	l.Stage("ingest", "12 files")
	out := buf.String()
	if !strings.Contains(out, "ingest") || !strings.Contains(out, "12 files") {
		t.Errorf("expected stage line to mention name and detail, got %q", out)
	}
	if !strings.Contains(out, l.RunID[:8]) {
		t.Errorf("expected stage line to include the run ID prefix, got %q", out)
	}
}

func TestProgress_FormatsCountsWithThousandsSeparators(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, nil)
	l.Progress("analyzed", 1234, 5000)
	out := buf.String()
	if !strings.Contains(out, "1,234") || !strings.Contains(out, "5,000") {
		t.Errorf("expected humanized counts, got %q", out)
	}
	if !strings.Contains(out, "analyzed") {
		t.Errorf("expected verb in output, got %q", out)
	}
}

func TestWarn_FormatsLikeFprintf(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, nil)
	l.Warn("registry miss for %s", "Main.f/1")
	out := buf.String()
	if !strings.Contains(out, "registry miss for Main.f/1") {
		t.Errorf("expected formatted warning, got %q", out)
	}
	if !strings.Contains(out, "warn") {
		t.Errorf("expected warn tag, got %q", out)
	}
}

func TestElapsed_ReportsRelativePast(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, nil)
	got := l.Elapsed(time.Now().Add(-2 * time.Hour))
	if !strings.Contains(got, "ago") {
		t.Errorf("expected a past-relative string containing \"ago\", got %q", got)
	}
}
