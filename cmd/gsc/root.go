// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gsctools/gsc/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "GSC Tools CLI - dev (built from source)"
	}
	return fmt.Sprintf("GSC Tools CLI - v%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "gsc",
		Short: "Build tool for GSC script projects",
		Long: TitleStyle.Render("gsc") + SubtitleStyle.Render(" - GSC Tools CLI") + `

gsc scaffolds GSC script projects, merges the fragments under src/ into a
single unit, runs the project's compiler on it and publishes the compiled
script to the project's destination.

` + SubtitleStyle.Render("Quick Start:") + `
  1. gsc create my-mod
  2. cd my-mod
  3. gsc build

` + SubtitleStyle.Render("Examples:") + `
  gsc create my-mod         Create a new project
  gsc build                 Compile and publish once
  gsc watch                 Rebuild whenever a fragment changes
  gsc config show           Show the effective configuration`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.prepare(cmd.Context(), flags)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/gsc/config.cue)")

	rootCmd.AddCommand(
		newCreateCommand(app),
		newBuildCommand(app),
		newWatchCommand(app),
		newConfigCommand(app),
	)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	return rootCmd
}

// Execute runs the CLI. It is the only place the process exits.
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		os.Exit(int(exitCodeFor(err)))
	}
}

// exitCodeFor maps a command error to the process exit code. An ExitError
// carrying a success or out-of-range code still exits with failure.
func exitCodeFor(err error) types.ExitCode {
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		return types.ExitFailure
	}
	if exitErr.Code.IsSuccess() || exitErr.Code.Validate() != nil {
		return types.ExitFailure
	}
	return exitErr.Code
}

// handleError prints errors that no command rendered itself, such as unknown
// commands and flag parse errors.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
