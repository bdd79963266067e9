package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file reads as absent", func(t *testing.T) {
		s := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
		v, ok, err := s.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if ok || v != "" {
			t.Errorf("Get: got (%q, %v), want absent", v, ok)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "store.json")
		s := NewFileStore(path)
		if err := s.Set(ctx, "k", `[{"text":"A","done":false}]`); err != nil {
			t.Fatalf("Set: %v", err)
		}
		v, ok, err := s.Get(ctx, "k")
		if err != nil || !ok {
			t.Fatalf("Get: ok=%v err=%v", ok, err)
		}
		if v != `[{"text":"A","done":false}]` {
			t.Errorf("Get: got %q", v)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasSuffix(string(data), "\n") {
			t.Error("store file missing trailing newline")
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		s := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
		if err := s.Set(ctx, "a", "1"); err != nil {
			t.Fatal(err)
		}
		if err := s.Set(ctx, "b", "2"); err != nil {
			t.Fatal(err)
		}
		if err := s.Set(ctx, "a", "3"); err != nil {
			t.Fatal(err)
		}
		if v, _, _ := s.Get(ctx, "a"); v != "3" {
			t.Errorf("a: got %q, want 3", v)
		}
		if v, _, _ := s.Get(ctx, "b"); v != "2" {
			t.Errorf("b: got %q, want 2", v)
		}
		keys, err := s.Keys()
		if err != nil {
			t.Fatal(err)
		}
		sort.Strings(keys)
		if strings.Join(keys, ",") != "a,b" {
			t.Errorf("Keys: got %v", keys)
		}
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.json")
		if err := os.WriteFile(path, []byte("{oops"), 0644); err != nil {
			t.Fatal(err)
		}
		s := NewFileStore(path)
		if _, _, err := s.Get(ctx, "k"); !errors.Is(err, ErrCorrupt) {
			t.Errorf("Get: got %v, want ErrCorrupt", err)
		}
	})

	t.Run("write over corrupt file starts fresh", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "store.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		var logs bytes.Buffer
		s := NewFileStore(path, WithLogger(log.New(&logs)))
		if s.Path() != path {
			t.Errorf("Path: got %q", s.Path())
		}

		if err := s.Set(ctx, "k", "v"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if v, ok, err := s.Get(ctx, "k"); err != nil || !ok || v != "v" {
			t.Errorf("Get: got (%q, %v, %v)", v, ok, err)
		}

		backups, err := filepath.Glob(path + ".corrupt-*")
		if err != nil || len(backups) != 1 {
			t.Fatalf("backups: %v (%v)", backups, err)
		}
		data, err := os.ReadFile(backups[0])
		if err != nil || string(data) != "{not json" {
			t.Errorf("backup content: %q (%v)", data, err)
		}
		if !strings.Contains(logs.String(), "starting fresh") {
			t.Errorf("no warning logged: %q", logs.String())
		}
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFileStore(filepath.Join(dir, "store.json"))
		for i := 0; i < 3; i++ {
			if err := s.Set(ctx, "k", strings.Repeat("x", i)); err != nil {
				t.Fatal(err)
			}
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			t.Errorf("dir entries: %v", names)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if err := s.Set(cctx, "k", "v"); err == nil {
			t.Error("expected context error")
		}
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("empty store reported key")
	}
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := s.Get(ctx, "k"); !ok || v != "v" {
		t.Errorf("Get: got (%q, %v)", v, ok)
	}
}
