package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"golang.org/x/exp/slog"
)

func TestForDefault(t *testing.T) {
	if l := For(context.Background()); l != slog.Default() {
		t.Error("For expected slog.Default for a bare context")
	}
}

func TestSetContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	ctx := SetContext(context.Background(), l)
	if got := For(ctx); got != l {
		t.Fatal("For did not return the attached logger")
	}

	For(ctx).Debug("hidden")
	For(ctx).Info("shown", "key", "value")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug log emitted without verbose: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("info log missing: %q", out)
	}
}

func TestNewVerbose(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug("details")
	if !strings.Contains(buf.String(), "details") {
		t.Errorf("debug log missing with verbose: %q", buf.String())
	}
}
