// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the gsc command tree.
//
// Commands return errors instead of exiting. Failures are rendered once by the
// command that produced them and reported upward as *ExitError; Execute is
// the only place that terminates the process.
package cmd
