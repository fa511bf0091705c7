// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/gsctools/gsc/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or initialize the gsc configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as CUE",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if app.cfgPath == "" {
					fmt.Fprintf(app.stderr, "%s %s\n", warningIcon, SubtitleStyle.Render(localize(app.lang, msgConfigDefaults)))
				} else {
					app.logger.Debug("showing configuration", "path", app.cfgPath)
				}
				fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
				return nil
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write the default configuration file",
			Long: `Write the default configuration to config.cue in the gsc configuration
directory ($GSC_CONFIG_DIR when set). An existing file is never overwritten.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path, err := config.ConfigFilePath()
				if err != nil {
					return app.fail(err)
				}
				if err := config.CreateDefaultConfig(path); err != nil {
					return app.fail(err)
				}
				fmt.Fprintf(app.stdout, "%s %s\n", successIcon, localize(app.lang, msgConfigCreated, CmdStyle.Render(path)))
				return nil
			},
		},
	)

	return cmd
}
