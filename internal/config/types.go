// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// LanguageAuto derives the message language from the locale.
	LanguageAuto Language = "auto"
	// LanguageEnglish selects English messages.
	LanguageEnglish Language = "en"
	// LanguagePortuguese selects Brazilian Portuguese messages.
	LanguagePortuguese Language = "pt-BR"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLanguage is returned when a Language value is not recognized.
	ErrInvalidLanguage = errors.New("invalid language")
	// ErrInvalidDuration is returned when a Duration does not parse.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrInvalidBundlePath is returned when a BundlePath is whitespace-only.
	ErrInvalidBundlePath = errors.New("invalid compiler bundle path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the CLI palette.
	ColorScheme string

	// Language selects the message catalog language.
	Language string

	// Duration is a time.ParseDuration string. Empty means unset.
	Duration string

	// BundlePath is the directory holding a compiler distribution.
	BundlePath string

	// InvalidValueError reports a single rejected field value.
	InvalidValueError struct {
		Field string
		Value string
		Err   error
	}

	// InvalidConfigError collects every invalid field of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the tool configuration.
	Config struct {
		UI     UIConfig     `json:"ui" mapstructure:"ui"`
		Build  BuildConfig  `json:"build" mapstructure:"build"`
		Watch  WatchConfig  `json:"watch" mapstructure:"watch"`
		Create CreateConfig `json:"create" mapstructure:"create"`
	}

	// UIConfig configures output.
	UIConfig struct {
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Language    Language    `json:"language" mapstructure:"language"`
	}

	// BuildConfig configures the compile pipeline.
	BuildConfig struct {
		SortFragments bool     `json:"sort_fragments" mapstructure:"sort_fragments"`
		Timeout       Duration `json:"timeout" mapstructure:"timeout"`
	}

	// WatchConfig configures watch mode.
	WatchConfig struct {
		Debounce    Duration `json:"debounce" mapstructure:"debounce"`
		ClearScreen bool     `json:"clear_screen" mapstructure:"clear_screen"`
	}

	// CreateConfig configures project scaffolding.
	CreateConfig struct {
		CompilerBundle BundlePath `json:"compiler_bundle" mapstructure:"compiler_bundle"`
	}
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Language:    LanguageAuto,
		},
		Watch: WatchConfig{
			Debounce: "1s",
		},
	}
}

// Validate checks every field and reports all failures at once.
func (c Config) Validate() error {
	var errs []error
	for _, check := range []error{
		c.UI.ColorScheme.Validate(),
		c.UI.Language.Validate(),
		c.Build.Timeout.validate("build.timeout"),
		c.Watch.Debounce.validate("watch.debounce"),
		c.Create.CompilerBundle.Validate(),
	} {
		if check != nil {
			errs = append(errs, check)
		}
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %q: %v", e.Field, e.Value, e.Err)
}

// Unwrap returns the field sentinel.
func (e *InvalidValueError) Unwrap() error { return e.Err }

// Validate rejects values other than auto, dark and light.
func (s ColorScheme) Validate() error {
	switch s {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	}
	return &InvalidValueError{Field: "ui.color_scheme", Value: string(s), Err: ErrInvalidColorScheme}
}

// Validate rejects values other than auto, en and pt-BR.
func (l Language) Validate() error {
	switch l {
	case LanguageAuto, LanguageEnglish, LanguagePortuguese:
		return nil
	}
	return &InvalidValueError{Field: "ui.language", Value: string(l), Err: ErrInvalidLanguage}
}

// Parse returns the duration, or zero when unset.
func (d Duration) Parse() (time.Duration, error) {
	if d == "" {
		return 0, nil
	}
	v, err := time.ParseDuration(string(d))
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return v, nil
}

func (d Duration) validate(field string) error {
	if _, err := d.Parse(); err != nil {
		return &InvalidValueError{Field: field, Value: string(d), Err: fmt.Errorf("%w: %v", ErrInvalidDuration, err)}
	}
	return nil
}

// Validate rejects a whitespace-only path. Empty means no bundle.
func (p BundlePath) Validate() error {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return &InvalidValueError{Field: "create.compiler_bundle", Value: string(p), Err: ErrInvalidBundlePath}
	}
	return nil
}

func (p BundlePath) String() string { return string(p) }
