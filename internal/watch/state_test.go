// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"testing"
	"time"

	"github.com/gsctools/gsc/internal/testutil"
)

func TestStateAllow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		gap    time.Duration
		builds int
	}{
		{name: "500ms apart triggers one build", gap: 500 * time.Millisecond, builds: 1},
		{name: "1500ms apart triggers two builds", gap: 1500 * time.Millisecond, builds: 2},
		{name: "exactly the window triggers two builds", gap: time.Second, builds: 2},
		{name: "simultaneous triggers one build", gap: 0, builds: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			clock := testutil.NewFakeClock(time.Time{})
			s := NewState(DefaultDebounce)

			builds := 0
			if s.Allow(clock.Now()) {
				builds++
			}
			clock.Advance(tt.gap)
			if s.Allow(clock.Now()) {
				builds++
			}

			if builds != tt.builds {
				t.Errorf("builds = %d, want %d", builds, tt.builds)
			}
		})
	}
}

func TestStateWindowRestartsOnAcceptedEventOnly(t *testing.T) {
	t.Parallel()

	clock := testutil.NewFakeClock(time.Time{})
	s := NewState(DefaultDebounce)
	start := clock.Now()

	if !s.Allow(clock.Now()) {
		t.Fatal("first event dropped")
	}
	// Dropped events do not move the timestamp.
	for range 3 {
		clock.Advance(300 * time.Millisecond)
		if s.Allow(clock.Now()) {
			t.Fatalf("event at %v accepted inside window", clock.Now().Sub(start))
		}
	}
	clock.Advance(100 * time.Millisecond)
	if !s.Allow(clock.Now()) {
		t.Fatalf("event at %v dropped after window", clock.Now().Sub(start))
	}
	if got := s.Last(); !got.Equal(clock.Now()) {
		t.Errorf("Last() = %v, want %v", got, clock.Now())
	}
}
