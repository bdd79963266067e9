// Package logging provides tests for run logs and tail output.
package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// TestNewRunLogger tests creating a new run logger.
func TestNewRunLogger(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		logger, err := NewRunLogger(t.TempDir())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer logger.Close()

		if logger.RunID == "" {
			t.Error("expected RunID to be set")
		}
		if !strings.HasSuffix(logger.LogPath, logger.RunID+".log") {
			t.Errorf("LogPath %q does not end with run ID", logger.LogPath)
		}
		if _, err := os.Stat(logger.LogPath); err != nil {
			t.Errorf("log file not created: %v", err)
		}
	})

	t.Run("empty base dir returns error", func(t *testing.T) {
		_, err := NewRunLogger("")
		if err == nil || !strings.Contains(err.Error(), "empty") {
			t.Fatalf("expected empty dir error, got %v", err)
		}
	})

	t.Run("creates nested directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs", "nested")
		logger, err := NewRunLogger(dir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer logger.Close()
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("log directory not created: %v", err)
		}
	})
}

func TestRunLoggerLogger(t *testing.T) {
	r, err := NewRunLogger(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.ReportTimestamp = false
	r.Logger(opts).Info("task added", "index", 0)
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(r.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "task added") || !strings.Contains(out, "index=0") {
		t.Errorf("log output: %q", out)
	}
	if !strings.Contains(out, "tasks") {
		t.Errorf("log output missing prefix: %q", out)
	}
}

func TestRunLoggerCloseNil(t *testing.T) {
	var r *RunLogger
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestNewRespectsLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: log.WarnLevel, Formatter: log.JSONFormatter})
	logger.Info("hidden")
	logger.Warn("shown", "key", "tasks@list")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line logged at warn level: %q", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"key":"tasks@list"`) {
		t.Errorf("json output: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"info":    log.InfoLevel,
		"warn":    log.WarnLevel,
		"warning": log.WarnLevel,
		"ERROR":   log.ErrorLevel,
		"bogus":   log.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): got %v, want %v", in, got, want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	tests := map[string]log.Formatter{
		"json":   log.JSONFormatter,
		"logfmt": log.LogfmtFormatter,
		"text":   log.TextFormatter,
		"":       log.TextFormatter,
	}
	for in, want := range tests {
		if got := ParseFormatter(in); got != want {
			t.Errorf("ParseFormatter(%q): got %v, want %v", in, got, want)
		}
	}
}

func TestFindLatestLog(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		got, err := FindLatestLog(filepath.Join(t.TempDir(), "nope"))
		if err != nil || got != "" {
			t.Errorf("got (%q, %v), want empty", got, err)
		}
	})

	t.Run("picks newest log file", func(t *testing.T) {
		dir := t.TempDir()
		old := filepath.Join(dir, "20240101-000000-1.log")
		newer := filepath.Join(dir, "20240102-000000-2.log")
		other := filepath.Join(dir, "notes.txt")
		for _, p := range []string{old, newer, other} {
			if err := os.WriteFile(p, []byte("x\n"), 0644); err != nil {
				t.Fatal(err)
			}
		}
		now := time.Now()
		_ = os.Chtimes(old, now.Add(-time.Hour), now.Add(-time.Hour))
		_ = os.Chtimes(newer, now, now)
		_ = os.Chtimes(other, now.Add(time.Hour), now.Add(time.Hour))

		got, err := FindLatestLog(dir)
		if err != nil {
			t.Fatal(err)
		}
		if got != newer {
			t.Errorf("got %q, want %q", got, newer)
		}
	})
}

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	content := "one\ntwo\nthree\nfour\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	t.Run("all lines", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, path, 0, false); err != nil {
			t.Fatal(err)
		}
		if buf.String() != content {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("last two lines", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, path, 2, false); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "three\nfour\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("more lines than file", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, path, 10, false); err != nil {
			t.Fatal(err)
		}
		if buf.String() != content {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("follow stops on cancel", func(t *testing.T) {
		cctx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		var buf bytes.Buffer
		if err := TailLog(cctx, &buf, path, 1, true); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "four\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, filepath.Join(t.TempDir(), "x.log"), 0, false); err == nil {
			t.Error("expected error")
		}
	})
}
