package core

import (
	"testing"
	"time"
)

func TestFixedStepFiresOncePerInterval(t *testing.T) {
	clock := time.Unix(0, 0)
	fs := NewFixedStep(4)
	fs.now = func() time.Time { return clock }

	if fs.Interval() != 250*time.Millisecond {
		t.Fatalf("expected 250ms interval, got %v", fs.Interval())
	}
	if fs.ShouldStep() {
		t.Fatal("first call should only start the clock")
	}

	clock = clock.Add(100 * time.Millisecond)
	if fs.ShouldStep() {
		t.Fatal("should not fire before a full interval")
	}
	clock = clock.Add(200 * time.Millisecond)
	if !fs.ShouldStep() {
		t.Fatal("expected a step after 300ms")
	}
	if fs.ShouldStep() {
		t.Fatal("remaining 50ms should not fire again")
	}

	fs.Reset()
	clock = clock.Add(time.Second)
	if fs.ShouldStep() {
		t.Fatal("reset should restart the clock")
	}
}

func TestFixedStepDefaultsRate(t *testing.T) {
	fs := NewFixedStep(0)
	if fs.Interval() != 500*time.Millisecond {
		t.Fatalf("expected default 500ms interval, got %v", fs.Interval())
	}
}
