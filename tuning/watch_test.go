package tuning

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherEmitsTuningFileChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(time.Millisecond, dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer func() { _ = w.Close() }()

	path := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(path, []byte("gravity: -50\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != path {
			t.Fatalf("event path = %q, want %q", got, path)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event within timeout")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(time.Millisecond, dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer func() { _ = w.Close() }()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write txt: %v", err)
	}
	// A matching write afterwards proves the unrelated one was skipped, not
	// just still in flight.
	path := filepath.Join(dir, "siege.tengo")
	if err := os.WriteFile(path, []byte("update := func(e, s, t) {}\n"), 0o644); err != nil {
		t.Fatalf("write tengo: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != path {
			t.Fatalf("event path = %q, want %q", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event within timeout")
	}
}

func TestWatcherCloseWithPendingEvents(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(time.Millisecond, dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	// Overrun the 16-slot event buffer without draining it, so the run
	// goroutine can be mid-send when Close lands.
	for i := 0; i < 64; i++ {
		name := filepath.Join(dir, fmt.Sprintf("cfg%02d.yaml", i))
		if err := os.WriteFile(name, []byte("gravity: -1\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	// Events must be closed by the run goroutine; draining terminates.
	done := make(chan struct{})
	go func() {
		for range w.Events {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Events never closed after Close")
	}
}
