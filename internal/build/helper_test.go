// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gsctools/gsc/internal/testutil"
)

// Helper compiler modes.
const (
	// modeCompile writes the artifact and lingers before exiting so the
	// directory event wins the race against the exit.
	modeCompile = "compile"
	// modeTwice writes the artifact twice before exiting.
	modeTwice = "twice"
	// modeFail prints an error and exits 1 without an artifact.
	modeFail = "fail"
	// modeQuiet exits 0 without an artifact.
	modeQuiet = "quiet"
	// modeHang never exits on its own.
	modeHang = "hang"
	// modeLate writes the artifact and exits at once.
	modeLate = "late"
)

const helperLinger = 500 * time.Millisecond

type invocation struct {
	Name string
	Args []string
}

// commandRecorder fakes the compiler by re-running the test binary as
// TestHelperProcess.
type commandRecorder struct {
	mode string

	mu          sync.Mutex
	invocations []invocation
}

func newCommandRecorder(mode string) *commandRecorder {
	return &commandRecorder{mode: mode}
}

func (r *commandRecorder) CommandFunc(t *testing.T) CommandFunc {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		r.mu.Lock()
		r.invocations = append(r.invocations, invocation{Name: name, Args: args})
		r.mu.Unlock()

		// The compiler runs in the project root, so the test binary path
		// must not be relative.
		self, err := os.Executable()
		if err != nil {
			t.Errorf("os.Executable: %v", err)
			self = os.Args[0]
		}
		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, args...)
		//nolint:gosec // TestHelperProcess is a test-only pattern
		cmd := exec.CommandContext(ctx, self, cs...)
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"GSC_HELPER_MODE="+r.mode,
		)
		return cmd
	}
}

func (r *commandRecorder) calls() []invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]invocation(nil), r.invocations...)
}

// TestHelperProcess acts as the external compiler. It is not a real test.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: compiler <merged file>")
		os.Exit(2)
	}
	merged := args[len(args)-1]
	artifact := strings.TrimSuffix(filepath.Base(merged), ".gsc") + "-compiled.gsc"

	src, err := os.ReadFile(merged)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	}
	write := func() {
		if err := os.WriteFile(artifact, append([]byte("compiled:"), src...), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(4)
		}
	}

	switch os.Getenv("GSC_HELPER_MODE") {
	case modeCompile:
		fmt.Println("compiling", merged)
		fmt.Fprintln(os.Stderr, "warning: unused variable")
		write()
		time.Sleep(helperLinger)
	case modeTwice:
		write()
		time.Sleep(50 * time.Millisecond)
		write()
		time.Sleep(helperLinger)
	case modeFail:
		fmt.Fprintln(os.Stderr, "syntax error near line 1")
		os.Exit(1)
	case modeQuiet:
	case modeHang:
		time.Sleep(time.Minute)
	case modeLate:
		write()
	}
	os.Exit(0)
}

// newProject lays out a project with a fake compiler file and the given
// fragments.
func newProject(t *testing.T, descriptor string, fragments map[string]string) string {
	t.Helper()

	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, "gsc.json"), descriptor)
	testutil.MustWriteFileMode(t, filepath.Join(root, "compiler.exe"), "fake", 0o755)
	testutil.MustMkdirAll(t, filepath.Join(root, "src"))
	for name, content := range fragments {
		testutil.MustWriteFile(t, filepath.Join(root, "src", name), content)
	}
	return root
}

// syncBuffer is a strings.Builder safe for the stream goroutines.
type syncBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}
