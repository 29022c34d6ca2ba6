package core

import "time"

// FixedStep paces pipeline stages so a viewer can play generation back at a
// steady rate instead of running every stage in one frame.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller firing rate times per second.
func NewFixedStep(rate float64) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetRate(rate)
	return fs
}

// SetRate changes the firing rate. Non-positive rates fall back to 2 per second.
func (f *FixedStep) SetRate(rate float64) {
	if rate <= 0 {
		rate = 2
	}
	f.step = time.Duration(float64(time.Second) / rate)
}

// Interval returns the configured time between steps.
func (f *FixedStep) Interval() time.Duration { return f.step }

// Reset forgets accumulated time; the next step fires after a full interval.
func (f *FixedStep) Reset() {
	f.accumulator = 0
	f.last = time.Time{}
}

// ShouldStep reports whether the caller should advance by one stage.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}
