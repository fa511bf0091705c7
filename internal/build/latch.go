// SPDX-License-Identifier: MPL-2.0

package build

import "sync/atomic"

// latch is a single-assignment completion signal. Any number of goroutines may
// call resolve; only the first succeeds.
type latch struct {
	fired atomic.Bool
	ch    chan Outcome
}

func newLatch() *latch {
	return &latch{ch: make(chan Outcome, 1)}
}

// resolve records o if nothing was recorded yet and reports whether it did.
func (l *latch) resolve(o Outcome) bool {
	if !l.fired.CompareAndSwap(false, true) {
		return false
	}
	l.ch <- o
	return true
}

func (l *latch) done() <-chan Outcome { return l.ch }
