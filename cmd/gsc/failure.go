// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gsctools/gsc/internal/issue"
	"github.com/gsctools/gsc/pkg/types"
)

// fail renders err and converts it into the ExitError that reaches Execute.
func (a *App) fail(err error) error {
	a.renderFailure(err)
	return &ExitError{Code: types.ExitFailure, Err: err}
}

// renderFailure prints the localized message of err. In verbose mode the
// cause chain and the catalog guidance follow it.
func (a *App) renderFailure(err error) {
	var f *issue.Failure
	if !errors.As(err, &f) {
		fmt.Fprintf(a.stderr, "%s %s\n", errorIcon, ErrorStyle.Render(formatErrorForDisplay(err, a.verbose)))
		return
	}

	msg := f.Message(a.lang)
	if f.Resource != "" {
		msg += ": " + f.Resource
	}
	fmt.Fprintf(a.stderr, "%s %s\n", errorIcon, ErrorStyle.Render(msg))

	if f.Cause != nil {
		for line := range strings.SplitSeq(formatErrorForDisplay(f.Cause, a.verbose), "\n") {
			fmt.Fprintf(a.stderr, "  %s\n", VerboseStyle.Render(line))
		}
	}

	if !a.verbose {
		return
	}
	entry := issue.Get(f.Id)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(a.glamourStyle())
	if renderErr != nil {
		a.logger.Warn("failed to render issue guidance", "id", f.Id, "error", renderErr)
		return
	}
	fmt.Fprint(a.stderr, rendered)
}

// renderWarning prints a non-fatal failure.
func (a *App) renderWarning(err error) {
	msg := err.Error()
	var f *issue.Failure
	if errors.As(err, &f) {
		msg = f.Message(a.lang)
		if f.Resource != "" {
			msg += ": " + f.Resource
		}
		if f.Cause != nil {
			msg += ": " + f.Cause.Error()
		}
	}
	fmt.Fprintf(a.stderr, "%s %s\n", warningIcon, WarningStyle.Render(msg))
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
