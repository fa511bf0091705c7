// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/gsctools/gsc/internal/issue"
	"github.com/gsctools/gsc/internal/project"

	"github.com/spf13/cobra"
)

func newCreateCommand(app *App) *cobra.Command {
	var bundle string

	cmd := &cobra.Command{
		Use:     "create <name>",
		Aliases: []string{"criar"},
		Short:   "Create a new project",
		Long: `Create a new project directory holding gsc.json, src/main.gsc and,
when a compiler bundle is configured, a copy of the compiler.`,
		Example: `  gsc create my-mod
  gsc create my-mod --compiler-bundle ~/gsc/compiler`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name project.Name
			if len(args) > 0 {
				name = project.Name(args[0])
			}
			source := bundle
			if source == "" {
				source = app.cfg.Create.CompilerBundle.String()
			}
			return app.runCreate(name, source)
		},
	}

	cmd.Flags().StringVar(&bundle, "compiler-bundle", "", "directory copied into the new project's compiler/ directory")

	return cmd
}

func (a *App) runCreate(name project.Name, bundle string) error {
	parent, err := a.getwd()
	if err != nil {
		return a.fail(issue.NewFailure(issue.ProjectDirCreateFailedId, name.String(), err))
	}

	opts := project.CreateOptions{Version: Version}
	if bundle != "" {
		opts.Installer = project.BundleInstaller{Source: bundle}
	}

	a.logger.Debug("creating project", "name", name, "parent", parent, "bundle", bundle)
	created, err := project.Create(parent, name, opts)
	if err != nil {
		return a.fail(err)
	}

	if created.InstallErr != nil {
		a.renderWarning(created.InstallErr)
	} else if bundle != "" {
		fmt.Fprintf(a.stdout, "%s %s\n", successIcon,
			localize(a.lang, msgCompilerInstalled, CmdStyle.Render(filepath.Join(created.Dir, project.CompilerDir))))
	}
	fmt.Fprintf(a.stdout, "%s %s\n", successIcon,
		SuccessStyle.Render(localize(a.lang, msgProjectCreated, created.Dir)))
	return nil
}
