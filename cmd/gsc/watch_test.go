// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gsctools/gsc/internal/issue"
	"github.com/gsctools/gsc/internal/testutil"
)

func TestWatchCommandWithoutDescriptor(t *testing.T) {
	t.Parallel()

	for _, alias := range []string{"watch", "assistir"} {
		t.Run(alias, func(t *testing.T) {
			t.Parallel()
			run := runCLI(t, context.Background(), t.TempDir(), nil, nil, alias)
			if !issue.IsFailure(run.err, issue.DescriptorNotFoundId) {
				t.Fatalf("err = %v, want DescriptorNotFound", run.err)
			}
		})
	}
}

func TestWatchCommandWithoutSourceDir(t *testing.T) {
	t.Parallel()

	root := newProject(t, compilerScript, nil)
	if err := os.Remove(filepath.Join(root, "src")); err != nil {
		t.Fatal(err)
	}
	run := runCLI(t, context.Background(), root, nil, nil, "watch")
	if !issue.IsFailure(run.err, issue.WatchStartFailedId) {
		t.Fatalf("err = %v, want WatchStartFailed", run.err)
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestWatchCommandRebuildsAndSurvivesFailures(t *testing.T) {
	skipWithoutShell(t)
	t.Parallel()

	root := newProject(t, compilerScript, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, stdout, stderr := newTestApp(root, nil, nil)
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs([]string{"watch"})

	done := make(chan error, 1)
	go func() { done <- rootCmd.ExecuteContext(ctx) }()

	waitFor(t, "watch to start", func() bool { return strings.Contains(stdout.String(), "watching") })

	published := filepath.Join(root, "out", "mymod.gsc")
	if err := os.WriteFile(filepath.Join(root, "src", "main.gsc"), []byte("init() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "first build", func() bool {
		_, err := os.Stat(published)
		return err == nil
	})

	// A broken compiler fails the next build without ending the watch.
	testutil.MustWriteFileMode(t, filepath.Join(root, "compiler.sh"), failingCompilerScript, 0o755)
	time.Sleep(1100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(root, "src", "main.gsc"), []byte("init() {\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "failed build report", func() bool {
		return strings.Contains(stderr.String(), "failed to compile the source code")
	})

	select {
	case err := <-done:
		t.Fatalf("watch ended after a failed build: %v", err)
	default:
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned %v after cancel, want nil", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
