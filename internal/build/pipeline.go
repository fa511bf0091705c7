// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gsctools/gsc/internal/issue"
	"github.com/gsctools/gsc/internal/project"
	"github.com/gsctools/gsc/internal/source"

	"github.com/charmbracelet/log"
)

type (
	// PublisherFunc creates the publisher for one run.
	PublisherFunc func(root string, desc *project.Descriptor, logger *log.Logger) ArtifactPublisher

	// PipelineConfig holds the parameters of a Pipeline.
	PipelineConfig struct {
		// Root is the project directory holding gsc.json.
		Root string
		// Invoker spawns the compiler. nil uses NewInvoker(Root).
		Invoker *Invoker
		// Publisher overrides NewPublisher.
		Publisher PublisherFunc
		Logger    *log.Logger
	}

	// Pipeline runs aggregate, compile, detect and publish for one project.
	Pipeline struct {
		root      string
		invoker   *Invoker
		publisher PublisherFunc
		logger    *log.Logger
	}

	// Options control a single run.
	Options struct {
		// MayExit is set by callers that terminate on failure. When false,
		// failures are passed to Report before being returned.
		MayExit bool
		// Report receives failures of runs that may not exit.
		Report func(error)
		// Sort orders fragments lexically instead of in listing order.
		Sort bool
		// Timeout bounds the wait for the artifact. Zero waits forever.
		Timeout time.Duration
	}

	// Result describes a published build.
	Result struct {
		Descriptor *project.Descriptor
		Fragments  []string
		MergedPath string
		DistPath   string
		Published  string
		Elapsed    time.Duration

		process *Process
	}
)

// NewPipeline creates a Pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	p := &Pipeline{
		root:      cfg.Root,
		invoker:   cfg.Invoker,
		publisher: cfg.Publisher,
		logger:    orDiscard(cfg.Logger),
	}
	if p.invoker == nil {
		p.invoker = NewInvoker(cfg.Root, WithLogger(p.logger))
	}
	if p.publisher == nil {
		p.publisher = func(root string, desc *project.Descriptor, logger *log.Logger) ArtifactPublisher {
			return NewPublisher(root, desc, logger)
		}
	}
	return p
}

// Run executes one build. The descriptor is read again on every call.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	res, err := p.run(ctx, opts)
	if err != nil && !opts.MayExit && opts.Report != nil {
		opts.Report(err)
	}
	return res, err
}

func (p *Pipeline) run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()

	desc, err := project.Load(p.root)
	if err != nil {
		return nil, err
	}
	if err := p.invoker.CheckCompiler(desc); err != nil {
		return nil, err
	}

	destDir := project.Resolve(p.root, desc.Destination)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, issue.NewFailure(issue.DestinationCreateFailedId, destDir, err)
	}

	unit, err := source.Collect(filepath.Join(p.root, project.SourceDir), source.Options{Sort: opts.Sort})
	if err != nil {
		return nil, err
	}

	det := NewDetector(p.root, desc.ArtifactName(), WithDetectorLogger(p.logger))
	if err := det.Start(); err != nil {
		return nil, err
	}
	defer func() { _ = det.Close() }()

	proc, err := p.invoker.Start(ctx, desc, unit)
	if err != nil {
		return nil, err
	}

	waitCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	outcome, err := det.Watch(waitCtx, proc)
	switch outcome {
	case OutcomeDetected:
	case OutcomeNoArtifact:
		return nil, issue.NewFailure(issue.CompileFailedId, desc.ArtifactName(), proc.exitCause())
	default:
		if killErr := proc.Kill(); killErr != nil {
			p.logger.Warn("failed to stop compiler", "error", killErr)
		}
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, issue.NewFailure(issue.BuildTimedOutId, desc.ArtifactName(), err)
		}
		return nil, err
	}

	published, err := p.publisher(p.root, desc, p.logger).Publish(det.ArtifactPath())
	if err != nil {
		return nil, err
	}

	return &Result{
		Descriptor: desc,
		Fragments:  unit.Fragments,
		MergedPath: filepath.Join(p.root, desc.MergedFile()),
		DistPath:   filepath.Join(p.root, desc.DistFile()),
		Published:  published,
		Elapsed:    time.Since(started),
		process:    proc,
	}, nil
}

// Wait blocks until the compiler of a published build exits. Publishing does
// not wait for it.
func (r *Result) Wait() (int, error) {
	if r.process == nil {
		return 0, nil
	}
	return r.process.Wait()
}
