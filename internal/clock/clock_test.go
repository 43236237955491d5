// ABOUTME: Tests for the pausable audio clock
// ABOUTME: Verifies elapsed time freezes across suspend and resumes cleanly
package clock

import (
	"testing"
	"time"
)

// fakeNow returns a controllable time source for Pausable.
func fakeNow() (func() time.Time, func(d time.Duration)) {
	base := time.Unix(1000, 0)
	current := base
	now := func() time.Time { return current }
	advance := func(d time.Duration) { current = current.Add(d) }
	return now, advance
}

func TestPausableStartsAtZero(t *testing.T) {
	now, _ := fakeNow()
	c := &Pausable{now: now}
	c.Resume()

	if got := c.Now(); got != 0 {
		t.Errorf("expected 0 at start, got %f", got)
	}
}

func TestPausableAccumulatesWhileRunning(t *testing.T) {
	now, advance := fakeNow()
	c := &Pausable{now: now}
	c.Resume()

	advance(2 * time.Second)
	if got := c.Now(); got != 2.0 {
		t.Errorf("expected 2.0, got %f", got)
	}
}

func TestPausableFreezesWhileSuspended(t *testing.T) {
	now, advance := fakeNow()
	c := &Pausable{now: now}
	c.Resume()

	advance(1 * time.Second)
	c.Suspend()
	advance(5 * time.Second)

	if got := c.Now(); got != 1.0 {
		t.Errorf("expected 1.0 while suspended, got %f", got)
	}
	if !c.Suspended() {
		t.Error("expected Suspended() true")
	}

	c.Resume()
	advance(500 * time.Millisecond)
	if got := c.Now(); got != 1.5 {
		t.Errorf("expected 1.5 after resume, got %f", got)
	}
}

func TestPausableSuspendResumeIdempotent(t *testing.T) {
	now, advance := fakeNow()
	c := &Pausable{now: now}
	c.Resume()
	c.Resume()

	advance(1 * time.Second)
	c.Suspend()
	c.Suspend()
	advance(1 * time.Second)

	if got := c.Now(); got != 1.0 {
		t.Errorf("expected 1.0, got %f", got)
	}
}
