// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE helpers shared by gsc's configuration loader:
// user-facing error formatting with JSON-path prefixes and a size guard for
// files read into memory before compilation.
package cueutil
