package timeutil

import (
	"testing"
	"time"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewMockClock(start)

	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}
	c.Advance(250 * time.Millisecond)
	if got := c.Since(start); got != 250*time.Millisecond {
		t.Errorf("Since() = %v, want 250ms", got)
	}

	c.Step = time.Second
	t0 := c.Now()
	if got := c.Since(t0); got != time.Second {
		t.Errorf("Since() after stepped Now = %v, want 1s", got)
	}
}

func TestRealClock(t *testing.T) {
	var c Clock = RealClock{}
	t0 := c.Now()
	if d := c.Since(t0); d < 0 {
		t.Errorf("Since() = %v, want >= 0", d)
	}
}
