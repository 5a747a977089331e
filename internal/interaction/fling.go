package interaction

import (
	"time"

	"github.com/san-kum/gravbox/internal/geom"
)

const DefaultFlingWindow = 75 * time.Millisecond

type flingSample struct {
	delta geom.Vec2
	dt    time.Duration
	at    time.Time
}

// FlingTracker keeps the pointer deltas of the last Window and turns them
// into a release velocity in screen units per second.
type FlingTracker struct {
	Window time.Duration

	now     func() time.Time
	samples []flingSample
	last    time.Time
}

func NewFlingTracker(window time.Duration, now func() time.Time) *FlingTracker {
	if window <= 0 {
		window = DefaultFlingWindow
	}
	if now == nil {
		now = time.Now
	}
	return &FlingTracker{Window: window, now: now}
}

// Start clears previous samples and marks the beginning of a gesture.
func (f *FlingTracker) Start() {
	f.samples = f.samples[:0]
	f.last = f.now()
}

// Record stores a pointer delta with the time elapsed since the previous
// event, or since Start for the first one.
func (f *FlingTracker) Record(delta geom.Vec2) {
	t := f.now()
	f.samples = append(f.samples, flingSample{delta: delta, dt: t.Sub(f.last), at: t})
	f.last = t
	f.prune(t)
}

// Velocity is the summed delta over the summed sample time for samples
// within the window ending now. The oldest sample only counts the part of
// its interval inside the window, so the span never exceeds Window. It is
// zero with no samples or no elapsed time.
func (f *FlingTracker) Velocity() geom.Vec2 {
	t := f.now()
	f.prune(t)
	cutoff := t.Add(-f.Window)
	var sum geom.Vec2
	var span time.Duration
	for i, s := range f.samples {
		sum = sum.Add(s.delta)
		dt := s.dt
		if i == 0 {
			dt = min(dt, s.at.Sub(cutoff))
		}
		span += dt
	}
	if len(f.samples) == 0 || span <= 0 {
		return geom.Vec2{}
	}
	return sum.Scale(1 / span.Seconds())
}

func (f *FlingTracker) Len() int { return len(f.samples) }

func (f *FlingTracker) prune(t time.Time) {
	cutoff := t.Add(-f.Window)
	i := 0
	for i < len(f.samples) && f.samples[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		f.samples = append(f.samples[:0], f.samples[i:]...)
	}
}
