// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/gsctools/gsc/internal/config"
	"github.com/gsctools/gsc/internal/issue"

	"github.com/charmbracelet/log"
)

type (
	// App is the composition root of the CLI. Command handlers receive it
	// and reach configuration, output and logging through it.
	App struct {
		Config config.Provider

		stdout io.Writer
		stderr io.Writer
		getenv func(string) string
		getwd  func() (string, error)

		// set by prepare before any RunE
		cfg     *config.Config
		cfgPath string
		verbose bool
		lang    issue.Lang
		logger  *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
		Getenv func(string) string
		Getwd  func() (string, error)
	}

	rootFlagValues struct {
		verbose    bool
		configPath string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		getenv: deps.Getenv,
		getwd:  deps.Getwd,
		cfg:    config.DefaultConfig(),
		lang:   issue.LangEnglish,
		logger: log.New(io.Discard),
	}
}

// prepare loads the tool configuration for the project in the working
// directory and derives verbosity, language and the logger from it. Flags
// win over the configuration file.
func (a *App) prepare(ctx context.Context, flags *rootFlagValues) error {
	a.verbose = flags.verbose
	a.lang = issue.ParseLang(string(config.LanguageAuto), a.getenv)
	a.logger = newLogger(a.stderr, a.verbose)

	root, err := a.getwd()
	if err != nil {
		return a.fail(issue.NewFailure(issue.ConfigLoadFailedId, "", err))
	}

	loaded, err := a.Config.LoadWithPath(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		BaseDir:        root,
	})
	if err != nil {
		return a.fail(issue.NewFailure(issue.ConfigLoadFailedId, flags.configPath, err))
	}

	a.cfg = loaded.Config
	a.cfgPath = loaded.Path
	a.verbose = flags.verbose || a.cfg.UI.Verbose
	a.lang = issue.ParseLang(string(a.cfg.UI.Language), a.getenv)
	a.logger = newLogger(a.stderr, a.verbose)
	a.logger.Debug("configuration loaded", "path", a.cfgPath, "language", a.lang)
	return nil
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: config.AppName})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// glamourStyle maps the configured color scheme to a glamour style name.
func (a *App) glamourStyle() string {
	switch a.cfg.UI.ColorScheme {
	case config.ColorSchemeDark, config.ColorSchemeLight:
		return string(a.cfg.UI.ColorScheme)
	default:
		return "auto"
	}
}
