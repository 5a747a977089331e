package metrics

import (
	"math"

	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/physics"
)

// Energy averages the total (kinetic + potential) energy over the observed
// ticks.
type Energy struct {
	name        string
	g           float64
	samples     int
	totalEnergy float64
}

func NewEnergy(g float64) *Energy {
	return &Energy{name: "energy", g: g}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(bodies []*body.Body, t float64) {
	e.totalEnergy += physics.TotalEnergy(bodies, e.g)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation from the first observed
// total energy.
type EnergyDrift struct {
	name          string
	g             float64
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g float64) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", g: g}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(bodies []*body.Body, t float64) {
	energy := physics.TotalEnergy(bodies, e.g)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64   { return e.maxDrift }
func (e *EnergyDrift) Current() float64 { return e.currentEnergy }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
