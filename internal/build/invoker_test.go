// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/gsctools/gsc/internal/issue"
	"github.com/gsctools/gsc/internal/project"
	"github.com/gsctools/gsc/internal/source"
)

func TestInvokerStart(t *testing.T) {
	t.Parallel()

	root := newProject(t, `{"name": "demo"}`, nil)
	rec := newCommandRecorder(modeQuiet)
	var stdout, stderr syncBuffer
	inv := NewInvoker(root, WithCommand(rec.CommandFunc(t)), WithOutput(&stdout, &stderr))

	desc := &project.Descriptor{Name: "demo", Destination: project.DefaultDestination, Compiler: project.DefaultCompiler}
	unit := &source.MergedUnit{}
	unit.AddFragment("main.gsc", "#include x;\nmain()\n")

	proc, err := inv.Start(context.Background(), desc, unit)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if code, err := proc.Wait(); code != 0 || err != nil {
		t.Fatalf("Wait() = %d, %v", code, err)
	}

	calls := rec.calls()
	if len(calls) != 1 {
		t.Fatalf("compiler spawned %d times, want 1", len(calls))
	}
	if want := filepath.Join(root, "compiler.exe"); calls[0].Name != want {
		t.Errorf("compiler = %q, want %q", calls[0].Name, want)
	}
	wantArgs := []string{"." + string(filepath.Separator) + filepath.Join("build", "demo.gsc")}
	if !slices.Equal(calls[0].Args, wantArgs) {
		t.Errorf("args = %v, want %v", calls[0].Args, wantArgs)
	}

	data, err := os.ReadFile(filepath.Join(root, "build", "demo.gsc"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "#include x;\n\nmain()\n" {
		t.Errorf("merged unit = %q", data)
	}

	if err := proc.Kill(); err != nil {
		t.Errorf("Kill() after exit error: %v", err)
	}
}

func TestInvokerExitCode(t *testing.T) {
	t.Parallel()

	root := newProject(t, `{"name": "demo"}`, nil)
	var stdout, stderr syncBuffer
	inv := NewInvoker(root, WithCommand(newCommandRecorder(modeFail).CommandFunc(t)), WithOutput(&stdout, &stderr))
	desc := &project.Descriptor{Name: "demo", Compiler: project.DefaultCompiler}

	proc, err := inv.Start(context.Background(), desc, &source.MergedUnit{})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	code, err := proc.Wait()
	if code != 1 || err == nil {
		t.Errorf("Wait() = %d, %v; want exit 1", code, err)
	}
	if !strings.Contains(stderr.String(), "syntax error") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestInvokerCompilerNotFound(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "compiler.exe"), 0o755); err != nil {
		t.Fatal(err)
	}
	inv := NewInvoker(root)

	for _, compiler := range []string{"./missing.exe", "./compiler.exe"} {
		desc := &project.Descriptor{Name: "demo", Compiler: compiler}
		if err := inv.CheckCompiler(desc); !issue.IsFailure(err, issue.CompilerNotFoundId) {
			t.Errorf("CheckCompiler(%s) error = %v, want CompilerNotFound", compiler, err)
		}
	}
}

func TestInvokerMergedWriteFailure(t *testing.T) {
	t.Parallel()

	root := newProject(t, `{"name": "demo"}`, nil)
	// A directory in place of the merged file makes the write fail.
	if err := os.MkdirAll(filepath.Join(root, "build", "demo.gsc"), 0o755); err != nil {
		t.Fatal(err)
	}
	rec := newCommandRecorder(modeQuiet)
	inv := NewInvoker(root, WithCommand(rec.CommandFunc(t)))

	_, err := inv.Start(context.Background(), &project.Descriptor{Name: "demo", Compiler: project.DefaultCompiler}, &source.MergedUnit{})
	if !issue.IsFailure(err, issue.MergedUnitWriteFailedId) {
		t.Fatalf("Start() error = %v, want MergedUnitWriteFailed", err)
	}
	if len(rec.calls()) != 0 {
		t.Error("compiler spawned after write failure")
	}
}

func TestStreamLines(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	var wg sync.WaitGroup
	streamLines(&wg, strings.NewReader("a\nb\r\nc"), lineWriter{mu: &sync.Mutex{}, w: &out})
	wg.Wait()

	if got := out.String(); got != "a\nb\nc\n" {
		t.Errorf("streamed = %q, want %q", got, "a\nb\nc\n")
	}
}
