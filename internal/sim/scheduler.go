package sim

import "math"

// stepSnap absorbs floating point drift when a step count lands a hair
// below an integer.
const stepSnap = 1e-9

// Scheduler converts variable wall-clock deltas into whole fixed steps,
// carrying the fractional remainder between calls.
type Scheduler struct {
	UpdatesPerSecond float64
	acc              float64
}

func NewScheduler(ups float64) *Scheduler {
	return &Scheduler{UpdatesPerSecond: ups}
}

// Advance returns how many fixed steps elapsed wall seconds cover. The
// remainder stays in [0, 1).
func (s *Scheduler) Advance(elapsed float64) int {
	if elapsed < 0 || math.IsNaN(elapsed) {
		elapsed = 0
	}
	stepsFloat := elapsed*s.UpdatesPerSecond + s.acc
	steps := math.Floor(stepsFloat + stepSnap)
	s.acc = stepsFloat - steps
	if s.acc < 0 {
		s.acc = 0
	}
	return int(steps)
}

// Accumulator returns the carried fraction of a step.
func (s *Scheduler) Accumulator() float64 { return s.acc }

func (s *Scheduler) Reset() { s.acc = 0 }
