package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hammamikhairi/ottoplan/internal/logger"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "recipe.yaml")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{target, other} {
		if err := os.WriteFile(p, []byte("v0"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	calls := make(chan string, 10)
	w, err := New([]string{target}, func(ctx context.Context, path string) {
		calls <- path
	}, logger.New(logger.LevelOff, nil), WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// A burst of writes is one change.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte("v1"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.WriteFile(other, []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-calls:
		want, _ := filepath.Abs(target)
		if got != want {
			t.Fatalf("handler got %s, want %s", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	select {
	case got := <-calls:
		t.Fatalf("unexpected second call for %s", got)
	case <-time.After(300 * time.Millisecond):
	}

	// A later save triggers again.
	if err := os.WriteFile(target, []byte("v2"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called after the second save")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "nope", "recipe.yaml")}, func(context.Context, string) {}, logger.New(logger.LevelOff, nil))
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
