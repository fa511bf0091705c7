// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"sync"
	"time"
)

// State is the debounce state owned by one Watcher. The first event fires;
// later events are dropped until the window has passed since the last
// accepted one.
type State struct {
	mu     sync.Mutex
	window time.Duration
	last   time.Time
}

// NewState creates a State with the given window.
func NewState(window time.Duration) *State {
	return &State{window: window}
}

// Allow reports whether an event at now triggers a build and, if so, records
// now as the last build time.
func (s *State) Allow(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.last.IsZero() && now.Sub(s.last) < s.window {
		return false
	}
	s.last = now
	return true
}

// Last returns the time of the last accepted event.
func (s *State) Last() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
