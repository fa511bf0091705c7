// SPDX-License-Identifier: MPL-2.0

// Package build runs the compile pipeline: it writes the merged unit, spawns
// the external compiler, waits for the compiled artifact to appear in the
// project root and publishes it.
//
// The compiler's exit status is not used to decide success. Completion is
// signalled by the artifact file itself, and the two signals race through a
// single-fire latch: whichever resolves first decides the outcome.
//
// No timeout applies unless Options.Timeout is set. A compiler that neither
// exits nor writes its artifact stalls the pipeline.
package build

import (
	"io"

	"github.com/charmbracelet/log"
)

func orDiscard(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.New(io.Discard)
}
