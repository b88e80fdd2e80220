package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	c := RealClock{}
	before := time.Now()
	got := c.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Now() = %v, want between %v and %v", got, before, after)
	}
}

func TestRealClock_Since(t *testing.T) {
	c := RealClock{}
	start := time.Now().Add(-time.Second)
	if d := c.Since(start); d < time.Second {
		t.Errorf("Since() = %v, want >= 1s", d)
	}
}

func TestMockClock_Now(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	if got := c.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}
	if got := c.Now(); !got.Equal(start) {
		t.Errorf("Now() moved without auto-advance: %v", got)
	}
}

func TestMockClock_Set(t *testing.T) {
	c := NewMockClock(time.Time{})
	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	c.Set(target)

	if got := c.Now(); !got.Equal(target) {
		t.Errorf("Now() after Set = %v, want %v", got, target)
	}
}

func TestMockClock_Advance(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	c.Advance(90 * time.Second)

	if got := c.Since(start); got != 90*time.Second {
		t.Errorf("Since() = %v, want 90s", got)
	}
}

func TestMockClock_AutoAdvance(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	c.SetAutoAdvance(time.Millisecond)

	first := c.Now()
	second := c.Now()
	if d := second.Sub(first); d != time.Millisecond {
		t.Errorf("auto-advance step = %v, want 1ms", d)
	}
	if d := c.Since(first); d != 2*time.Millisecond {
		t.Errorf("Since(first) = %v, want 2ms", d)
	}

	c.SetAutoAdvance(0)
	a, b := c.Now(), c.Now()
	if !a.Equal(b) {
		t.Errorf("clock advanced after auto-advance was disabled")
	}
}
