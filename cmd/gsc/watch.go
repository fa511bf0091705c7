// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gsctools/gsc/internal/build"
	"github.com/gsctools/gsc/internal/issue"
	"github.com/gsctools/gsc/internal/project"
	"github.com/gsctools/gsc/internal/watch"

	"github.com/spf13/cobra"
)

func newWatchCommand(app *App) *cobra.Command {
	flags := &buildFlagValues{}

	cmd := &cobra.Command{
		Use:     "watch",
		Aliases: []string{"assistir"},
		Short:   "Rebuild the project whenever a fragment changes",
		Long: `Watch src/ recursively and run a build for every changed .gsc fragment.
Events closer together than watch.debounce are dropped. Build failures are
reported and the watch goes on until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := app.getwd()
			if err != nil {
				return app.fail(issue.NewFailure(issue.DescriptorNotFoundId, "", err))
			}
			return app.runWatch(cmd.Context(), root, app.buildOptions(cmd, flags))
		},
	}

	cmd.Flags().BoolVar(&flags.sort, "sort", false, "merge fragments in lexical order (overrides build.sort_fragments)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "give up waiting for the artifact after this long (overrides build.timeout)")

	return cmd
}

// runWatch blocks until ctx is canceled. Only a failure to start the watch
// is returned; build failures are reported and the loop continues.
func (a *App) runWatch(ctx context.Context, root string, opts build.Options) error {
	if !project.Exists(root) {
		return a.fail(issue.NewFailure(issue.DescriptorNotFoundId, filepath.Join(root, project.DescriptorFile), nil))
	}

	opts.MayExit = false
	opts.Report = a.renderFailure

	// Validated when the configuration was loaded.
	debounce, _ := a.cfg.Watch.Debounce.Parse()
	srcDir := filepath.Join(root, project.SourceDir)

	w, err := watch.New(watch.Config{
		BaseDir:     srcDir,
		Patterns:    []string{watch.DefaultPattern},
		Debounce:    debounce,
		ClearScreen: a.cfg.Watch.ClearScreen,
		Stdout:      a.stdout,
		Logger:      a.logger,
		OnChange: func(ctx context.Context, changed string) error {
			fmt.Fprintf(a.stdout, "%s %s\n", arrowIcon, localize(a.lang, msgChangeDetected, CmdStyle.Render(changed)))
			// Reported through opts.Report.
			_, _ = a.runBuild(ctx, root, opts)
			fmt.Fprintf(a.stdout, "\n%s %s\n", arrowIcon, SubtitleStyle.Render(localize(a.lang, msgWatchingAgain)))
			return nil
		},
	})
	if err != nil {
		return a.fail(issue.NewFailure(issue.WatchStartFailedId, srcDir, err))
	}

	fmt.Fprintf(a.stdout, "%s %s\n", arrowIcon, localize(a.lang, msgWatching, CmdStyle.Render(srcDir)))
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return a.fail(issue.NewFailure(issue.WatchStartFailedId, srcDir, err))
	}
	return nil
}
