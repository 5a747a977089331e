package sim

import "math"

const speedBase = 1.5

// timestepTiers maps the largest relative speed a tier serves to the
// timestep used for it. Faster playback trades accuracy for fewer steps.
var timestepTiers = []struct {
	maxRatio float64
	timestep float64
}{
	{10, 0.01},
	{1000, 0.1},
	{math.Inf(1), 1},
}

// SpeedFor maps a signed speed level to a timestep and update rate whose
// product is ±1.5^|level| simulated seconds per wall second. Negative
// levels run time backwards.
func SpeedFor(level int) (timestep, ups float64) {
	ratio := math.Pow(speedBase, math.Abs(float64(level)))
	var dt float64
	for _, tier := range timestepTiers {
		if ratio <= tier.maxRatio {
			dt = tier.timestep
			break
		}
	}
	ups = ratio / dt
	if level < 0 {
		dt = -dt
	}
	return dt, ups
}

// RelativeSpeed is the simulated seconds per wall second for a level.
func RelativeSpeed(level int) float64 {
	dt, ups := SpeedFor(level)
	return dt * ups
}
