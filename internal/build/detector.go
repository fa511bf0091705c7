// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/gsctools/gsc/internal/issue"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Outcome is how a build's wait for its artifact ended.
type Outcome int

const (
	// OutcomeDetected means the artifact appeared in the watched directory.
	OutcomeDetected Outcome = iota + 1
	// OutcomeNoArtifact means the compiler exited first.
	OutcomeNoArtifact
	// OutcomeCanceled means the context ended first.
	OutcomeCanceled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDetected:
		return "detected"
	case OutcomeNoArtifact:
		return "no-artifact"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

type (
	// Exiter is the part of a compiler process the Detector observes.
	Exiter interface {
		Done() <-chan struct{}
	}

	// Detector watches a directory for the compiler artifact.
	Detector struct {
		dir      string
		artifact string
		logger   *log.Logger

		watcher   *fsnotify.Watcher
		closeOnce sync.Once
	}

	// DetectorOption configures a Detector.
	DetectorOption func(*Detector)
)

// WithDetectorLogger sets the debug logger.
func WithDetectorLogger(l *log.Logger) DetectorOption {
	return func(d *Detector) { d.logger = l }
}

// NewDetector creates a Detector for artifactName inside dir. Call Start
// before spawning the compiler so no event is missed.
func NewDetector(dir, artifactName string, opts ...DetectorOption) *Detector {
	d := &Detector{dir: dir, artifact: artifactName}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = orDiscard(d.logger)
	return d
}

// ArtifactPath is the path the artifact is expected at.
func (d *Detector) ArtifactPath() string {
	return filepath.Join(d.dir, d.artifact)
}

// Start begins watching the directory.
func (d *Detector) Start() error {
	if d.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return issue.NewFailure(issue.DetectorStartFailedId, d.dir, err)
	}
	if err := w.Add(d.dir); err != nil {
		_ = w.Close()
		return issue.NewFailure(issue.DetectorStartFailedId, d.dir, err)
	}
	d.watcher = w
	return nil
}

// Close stops watching. It is safe to call more than once.
func (d *Detector) Close() error {
	var err error
	d.closeOnce.Do(func() {
		if d.watcher != nil {
			err = d.watcher.Close()
		}
	})
	return err
}

// Watch blocks until the artifact appears, proc exits or ctx ends, and
// returns whichever happened first. Later signals are ignored, so a build is
// reported exactly once. The watch is closed on return.
//
// A compiler that exits successfully but writes its artifact after the exit
// is observed loses the race and yields OutcomeNoArtifact.
func (d *Detector) Watch(ctx context.Context, proc Exiter) (Outcome, error) {
	if err := d.Start(); err != nil {
		return 0, err
	}
	defer func() { _ = d.Close() }()

	l := newLatch()
	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		d.watchEvents(stop, l)
	}()
	go func() {
		defer wg.Done()
		select {
		case <-proc.Done():
			if l.resolve(OutcomeNoArtifact) {
				d.logger.Debug("compiler closed before artifact appeared", "name", d.artifact)
			}
		case <-ctx.Done():
			l.resolve(OutcomeCanceled)
		case <-stop:
		}
	}()

	outcome := <-l.done()
	close(stop)
	wg.Wait()

	if outcome == OutcomeCanceled {
		return outcome, ctx.Err()
	}
	return outcome, nil
}

func (d *Detector) watchEvents(stop <-chan struct{}, l *latch) {
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != d.artifact {
				continue
			}
			// Remove and rename-away events report a file that is gone.
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if l.resolve(OutcomeDetected) {
				d.logger.Debug("artifact detected", "name", d.artifact, "op", ev.Op.String())
			} else {
				d.logger.Debug("duplicate artifact event ignored", "name", d.artifact, "op", ev.Op.String())
			}
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.logger.Warn("artifact watch error", "dir", d.dir, "error", err)
		}
	}
}
