// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// DefaultDebounce is the minimum time between two triggered builds.
const DefaultDebounce = time.Second

// DefaultPattern selects the script fragments.
const DefaultPattern = "**/*.gsc"

// ErrInvalidWatchConfig is the sentinel error wrapped by
// InvalidWatchConfigError.
var ErrInvalidWatchConfig = errors.New("invalid watch config")

type (
	// Clock supplies the time used for debouncing.
	Clock interface {
		Now() time.Time
	}

	systemClock struct{}

	// Config holds the parameters for a Watcher.
	Config struct {
		// BaseDir is the directory watched recursively. Empty means the
		// working directory.
		BaseDir string

		// Patterns are doublestar globs relative to BaseDir selecting the
		// files that trigger a build. Empty means DefaultPattern.
		Patterns []string

		// Ignore are extra doublestar globs merged with the default ignores.
		Ignore []string

		// Debounce is the leading-edge window. Zero means DefaultDebounce.
		Debounce time.Duration

		// ClearScreen writes an ANSI clear sequence to Stdout before each
		// triggered build.
		ClearScreen bool

		// OnChange runs a build for the file that triggered it. It is started
		// in its own goroutine, so a slow build does not block new events.
		OnChange func(ctx context.Context, changed string) error

		// Clock overrides the time source.
		Clock Clock

		Stdout io.Writer
		Logger *log.Logger
	}

	// InvalidWatchConfigError collects every invalid field of a Config.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}
)

func (systemClock) Now() time.Time { return time.Now() }

// Error implements the error interface.
func (e *InvalidWatchConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid watch config (%d errors): %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidWatchConfig.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// Validate reports every empty or malformed glob, a whitespace-only BaseDir
// and a negative debounce in a single error.
func (c Config) Validate() error {
	var errs []error
	errs = append(errs, validatePatterns(c.Patterns, "pattern")...)
	errs = append(errs, validatePatterns(c.Ignore, "ignore")...)
	if c.BaseDir != "" && strings.TrimSpace(c.BaseDir) == "" {
		errs = append(errs, fmt.Errorf("base dir must not be whitespace-only"))
	}
	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("debounce must not be negative, got %s", c.Debounce))
	}
	if len(errs) > 0 {
		return &InvalidWatchConfigError{FieldErrors: errs}
	}
	return nil
}

func validatePatterns(patterns []string, label string) []error {
	var errs []error
	for i, pat := range patterns {
		if strings.TrimSpace(pat) == "" {
			errs = append(errs, fmt.Errorf("%s #%d is empty", label, i))
			continue
		}
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("%s %q is not a valid glob", label, pat))
		}
	}
	return errs
}
