// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gsctools/gsc/internal/testutil"
)

// recorder collects OnChange calls.
type recorder struct {
	mu      sync.Mutex
	changed []string
	signal  chan string
}

func newRecorder() *recorder {
	return &recorder{signal: make(chan string, 16)}
}

func (r *recorder) onChange(_ context.Context, changed string) error {
	r.mu.Lock()
	r.changed = append(r.changed, changed)
	r.mu.Unlock()
	r.signal <- changed
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changed)
}

func (r *recorder) await(t *testing.T) string {
	t.Helper()
	select {
	case c := <-r.signal:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a build")
		return ""
	}
}

func startWatcher(t *testing.T, cfg Config) (cancel func()) {
	t.Helper()

	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	return func() {
		stop()
		if err := <-errCh; err != nil {
			t.Errorf("Run() error: %v", err)
		}
	}
}

func write(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("main() {}\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	clock := testutil.NewFakeClock(time.Time{})
	rec := newRecorder()

	stop := startWatcher(t, Config{BaseDir: dir, Clock: clock, OnChange: rec.onChange})
	defer stop()

	write(t, filepath.Join(dir, "a.gsc"))
	if got := rec.await(t); got != "a.gsc" {
		t.Errorf("first build for %q, want a.gsc", got)
	}

	// Same instant: inside the window.
	write(t, filepath.Join(dir, "b.gsc"))
	time.Sleep(200 * time.Millisecond)
	if got := rec.count(); got != 1 {
		t.Fatalf("builds = %d inside the window, want 1", got)
	}

	clock.Advance(1500 * time.Millisecond)
	write(t, filepath.Join(dir, "c.gsc"))
	rec.await(t)

	time.Sleep(200 * time.Millisecond)
	if got := rec.count(); got != 2 {
		t.Errorf("builds = %d, want 2", got)
	}
}

func TestWatcherPatternFiltering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()

	stop := startWatcher(t, Config{BaseDir: dir, OnChange: rec.onChange})
	defer stop()

	for _, name := range []string{"notes.txt", "main.gsc.swp", "main.gsc~"} {
		write(t, filepath.Join(dir, name))
	}
	time.Sleep(200 * time.Millisecond)
	if got := rec.count(); got != 0 {
		t.Fatalf("builds = %d for non-fragment files, want 0", got)
	}

	write(t, filepath.Join(dir, "main.gsc"))
	if got := rec.await(t); got != "main.gsc" {
		t.Errorf("build for %q, want main.gsc", got)
	}
}

func TestWatcherNewSubdirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()

	stop := startWatcher(t, Config{BaseDir: dir, OnChange: rec.onChange})
	defer stop()

	sub := filepath.Join(dir, "lib")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	// Let the watcher register the new directory.
	time.Sleep(200 * time.Millisecond)

	write(t, filepath.Join(sub, "util.gsc"))
	if got := rec.await(t); got != filepath.Join("lib", "util.gsc") {
		t.Errorf("build for %q, want lib/util.gsc", got)
	}
}

func TestWatcherIgnorePatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "generated"), 0o755); err != nil {
		t.Fatal(err)
	}
	rec := newRecorder()

	stop := startWatcher(t, Config{
		BaseDir:  dir,
		Ignore:   []string{"generated/**"},
		OnChange: rec.onChange,
	})
	defer stop()

	write(t, filepath.Join(dir, "generated", "out.gsc"))
	time.Sleep(200 * time.Millisecond)
	if got := rec.count(); got != 0 {
		t.Errorf("builds = %d for ignored file, want 0", got)
	}
}

func TestWatcherClearScreen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()
	var stdout bytes.Buffer

	w, err := New(Config{BaseDir: dir, ClearScreen: true, Stdout: &stdout, OnChange: rec.onChange})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	write(t, filepath.Join(dir, "a.gsc"))
	rec.await(t)
	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// Run has returned, so the dispatch goroutine is done with stdout.
	if got := stdout.String(); got != "\033[2J\033[H" {
		t.Errorf("stdout = %q, want clear sequence", got)
	}
}

func TestWatcherContextCancel(t *testing.T) {
	t.Parallel()

	w, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.Run(ctx); err != nil {
		t.Errorf("Run() on cancelled context = %v, want nil", err)
	}
}

func TestWatcherDoubleRunError(t *testing.T) {
	t.Parallel()

	w, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = w.Run(ctx)

	if err := w.Run(ctx); err == nil {
		t.Error("second Run() succeeded")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{BaseDir: t.TempDir(), Patterns: []string{"[bad"}}); err == nil {
		t.Error("New() accepted a malformed pattern")
	}
	if _, err := New(Config{BaseDir: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("New() accepted a missing base directory")
	}
}
