// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/gsctools/gsc/internal/config"
	"github.com/gsctools/gsc/internal/testutil"
)

// compilerScript writes <name>-compiled.gsc into the project root, the way
// the real compiler does. It lingers so the artifact event arrives before
// the exit.
const compilerScript = `#!/bin/sh
echo "compiling $1"
name=$(basename "$1" .gsc)
cat "$1" > "${name}-compiled.gsc"
sleep 1
`

const failingCompilerScript = `#!/bin/sh
echo "syntax error near line 1" >&2
exit 1
`

type (
	syncBuffer struct {
		mu  sync.Mutex
		buf bytes.Buffer
	}

	fakeProvider struct {
		loaded *config.Loaded
		err    error
	}

	cliRun struct {
		stdout *syncBuffer
		stderr *syncBuffer
		err    error
	}
)

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func (p *fakeProvider) LoadWithPath(context.Context, config.LoadOptions) (*config.Loaded, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.loaded != nil {
		return p.loaded, nil
	}
	return &config.Loaded{Config: config.DefaultConfig()}, nil
}

func newTestApp(dir string, provider config.Provider, env map[string]string) (*App, *syncBuffer, *syncBuffer) {
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	if provider == nil {
		provider = &fakeProvider{}
	}
	app := NewApp(Dependencies{
		Config: provider,
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(key string) string { return env[key] },
		Getwd:  func() (string, error) { return dir, nil },
	})
	return app, stdout, stderr
}

// runCLI executes the command tree with args in dir.
func runCLI(t *testing.T, ctx context.Context, dir string, provider config.Provider, env map[string]string, args ...string) cliRun {
	t.Helper()
	app, stdout, stderr := newTestApp(dir, provider, env)
	root := NewRootCommand(app)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return cliRun{stdout: stdout, stderr: stderr, err: err}
}

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler is a shell script")
	}
}

// newProject lays out a project whose compiler is script.
func newProject(t *testing.T, script string, fragments map[string]string) string {
	t.Helper()
	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, "gsc.json"),
		`{"name": "mymod", "destination": "./out", "compiler": "./compiler.sh"}`)
	testutil.MustWriteFileMode(t, filepath.Join(root, "compiler.sh"), script, 0o755)
	testutil.MustMkdirAll(t, filepath.Join(root, "src"))
	for name, content := range fragments {
		testutil.MustWriteFile(t, filepath.Join(root, "src", name), content)
	}
	return root
}

func assertContains(t *testing.T, label, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("%s = %q, want it to contain %q", label, got, want)
	}
}
