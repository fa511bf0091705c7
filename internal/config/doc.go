// SPDX-License-Identifier: MPL-2.0

// Package config loads the tool-wide gsc configuration: a CUE file validated
// against an embedded schema and merged into Viper over the defaults.
//
// The file is looked up as an explicit --config path, then config.cue in the
// platform config directory (~/.config/gsc on Linux, ~/Library/Application
// Support/gsc on macOS, %APPDATA%\gsc on Windows), then gsc.cue in the
// project directory. No file means defaults.
//
// The per-project gsc.json descriptor is not handled here; see
// internal/project.
package config
