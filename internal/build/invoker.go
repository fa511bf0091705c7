// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/gsctools/gsc/internal/issue"
	"github.com/gsctools/gsc/internal/project"
	"github.com/gsctools/gsc/internal/source"

	"github.com/charmbracelet/log"
)

type (
	// CommandFunc creates the compiler command. It is replaced in tests.
	CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

	// Invoker writes the merged unit and spawns the compiler against it.
	Invoker struct {
		root    string
		command CommandFunc
		stdout  io.Writer
		stderr  io.Writer
		logger  *log.Logger
	}

	// InvokerOption configures an Invoker.
	InvokerOption func(*Invoker)

	// Process is a running compiler.
	Process struct {
		cmd  *exec.Cmd
		done chan struct{}
		err  error
		code int
	}
)

// WithCommand replaces exec.CommandContext.
func WithCommand(f CommandFunc) InvokerOption {
	return func(inv *Invoker) { inv.command = f }
}

// WithOutput sets where compiler stdout and stderr lines are copied.
func WithOutput(stdout, stderr io.Writer) InvokerOption {
	return func(inv *Invoker) {
		inv.stdout = stdout
		inv.stderr = stderr
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) InvokerOption {
	return func(inv *Invoker) { inv.logger = l }
}

// NewInvoker creates an Invoker for the project rooted at root.
func NewInvoker(root string, opts ...InvokerOption) *Invoker {
	inv := &Invoker{
		root:    root,
		command: exec.CommandContext,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(inv)
	}
	inv.logger = orDiscard(inv.logger)
	return inv
}

// CompilerPath returns the absolute compiler path of desc.
func (inv *Invoker) CompilerPath(desc *project.Descriptor) string {
	return project.Resolve(inv.root, desc.Compiler)
}

// CheckCompiler fails with CompilerNotFound unless the compiler is a regular
// file.
func (inv *Invoker) CheckCompiler(desc *project.Descriptor) error {
	path := inv.CompilerPath(desc)
	info, err := os.Stat(path)
	if err != nil {
		return issue.NewFailure(issue.CompilerNotFoundId, path, err)
	}
	if info.IsDir() {
		return issue.NewFailure(issue.CompilerNotFoundId, path, fmt.Errorf("is a directory"))
	}
	return nil
}

// Start writes unit to build/<name>.gsc, deletes any artifact left by a
// previous run and spawns the compiler with the merged file as its only
// argument. The compiler runs in the project root.
func (inv *Invoker) Start(ctx context.Context, desc *project.Descriptor, unit *source.MergedUnit) (*Process, error) {
	if err := inv.CheckCompiler(desc); err != nil {
		return nil, err
	}

	buildDir := filepath.Join(inv.root, project.BuildDir)
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return nil, issue.NewFailure(issue.BuildDirCreateFailedId, buildDir, err)
	}

	merged := filepath.Join(inv.root, desc.MergedFile())
	inv.logger.Debug("writing merged unit", "path", merged, "fragments", len(unit.Fragments))
	if err := writeUnit(merged, unit); err != nil {
		return nil, issue.NewFailure(issue.MergedUnitWriteFailedId, merged, err)
	}

	stale := filepath.Join(inv.root, desc.ArtifactName())
	if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, issue.NewFailure(issue.StaleArtifactRemoveFailedId, stale, err)
	}

	compiler := inv.CompilerPath(desc)
	arg := "." + string(filepath.Separator) + desc.MergedFile()
	cmd := inv.command(ctx, compiler, arg)
	cmd.Dir = inv.root

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, issue.NewFailure(issue.CompilerSpawnFailedId, compiler, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, issue.NewFailure(issue.CompilerSpawnFailedId, compiler, err)
	}

	inv.logger.Debug("spawning compiler", "cmd", compiler, "arg", arg)
	if err := cmd.Start(); err != nil {
		return nil, issue.NewFailure(issue.CompilerSpawnFailedId, compiler, err)
	}

	p := &Process{cmd: cmd, done: make(chan struct{})}

	var mu sync.Mutex
	var streams sync.WaitGroup
	streamLines(&streams, stdout, lineWriter{mu: &mu, w: inv.stdout})
	streamLines(&streams, stderr, lineWriter{mu: &mu, w: inv.stderr})

	go func() {
		// Wait must not run before the pipes are drained.
		streams.Wait()
		p.err = cmd.Wait()
		p.code = -1
		if cmd.ProcessState != nil {
			p.code = cmd.ProcessState.ExitCode()
		}
		inv.logger.Debug("compiler exited", "code", p.code)
		close(p.done)
	}()

	return p, nil
}

func writeUnit(path string, unit *source.MergedUnit) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := unit.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Done is closed once the compiler has exited and its output is flushed.
func (p *Process) Done() <-chan struct{} { return p.done }

// Wait blocks until the compiler exits and returns its exit code and the
// error from exec.Cmd.Wait.
func (p *Process) Wait() (int, error) {
	<-p.done
	return p.code, p.err
}

// Kill terminates a running compiler. Killing an exited process is a no-op.
func (p *Process) Kill() error {
	select {
	case <-p.done:
		return nil
	default:
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// exitCause describes why a compiler that produced no artifact stopped.
func (p *Process) exitCause() error {
	select {
	case <-p.done:
	default:
		return nil
	}
	if p.err != nil {
		return p.err
	}
	return fmt.Errorf("compiler exited with code %d without writing its artifact", p.code)
}
