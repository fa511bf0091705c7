// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/gsctools/gsc/internal/build"
	"github.com/gsctools/gsc/internal/issue"

	"github.com/spf13/cobra"
)

type buildFlagValues struct {
	sort    bool
	timeout time.Duration
}

func newBuildCommand(app *App) *cobra.Command {
	flags := &buildFlagValues{}

	cmd := &cobra.Command{
		Use:     "build",
		Aliases: []string{"compile", "compilar"},
		Short:   "Compile the project in the current directory",
		Long: `Merge every fragment under src/ into build/<name>.gsc, run the compiler on
it and publish <name>-compiled.gsc as dist/<name>.gsc and <destination>/<name>.gsc.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := app.getwd()
			if err != nil {
				return app.fail(issue.NewFailure(issue.DescriptorNotFoundId, "", err))
			}
			opts := app.buildOptions(cmd, flags)
			opts.MayExit = true
			if _, err := app.runBuild(cmd.Context(), root, opts); err != nil {
				return app.fail(err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.sort, "sort", false, "merge fragments in lexical order (overrides build.sort_fragments)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "give up waiting for the artifact after this long (overrides build.timeout)")

	return cmd
}

// buildOptions merges the build flags over the configuration file.
func (a *App) buildOptions(cmd *cobra.Command, flags *buildFlagValues) build.Options {
	opts := build.Options{Sort: a.cfg.Build.SortFragments}
	// Validated when the configuration was loaded.
	opts.Timeout, _ = a.cfg.Build.Timeout.Parse()

	if cmd != nil && cmd.Flags().Changed("sort") {
		opts.Sort = flags.sort
	}
	if cmd != nil && cmd.Flags().Changed("timeout") {
		opts.Timeout = flags.timeout
	}
	return opts
}

func (a *App) newPipeline(root string) *build.Pipeline {
	return build.NewPipeline(build.PipelineConfig{
		Root: root,
		Invoker: build.NewInvoker(root,
			build.WithOutput(a.stdout, a.stderr),
			build.WithLogger(a.logger),
		),
		Logger: a.logger,
	})
}

// runBuild runs one build of the project at root. On success it waits for
// the compiler to exit before reporting.
func (a *App) runBuild(ctx context.Context, root string, opts build.Options) (*build.Result, error) {
	res, err := a.newPipeline(root).Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Once the artifact is detected the exit status no longer decides the
	// outcome.
	code, waitErr := res.Wait()
	a.logger.Debug("compiler exited", "code", code, "error", waitErr, "elapsed", res.Elapsed)

	fmt.Fprintf(a.stdout, "%s %s\n", successIcon, SuccessStyle.Render(localize(a.lang, msgCompiled)))
	fmt.Fprintf(a.stdout, "%s %s\n", successIcon, localize(a.lang, msgPublished, CmdStyle.Render(res.Published)))
	return res, nil
}
