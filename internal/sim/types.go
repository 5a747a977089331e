package sim

import (
	"github.com/san-kum/gravbox/internal/body"
)

// Metric accumulates a diagnostic over the ticks of a run.
type Metric interface {
	Name() string
	Observe(bodies []*body.Body, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every tick that executed at least one step.
type Observer interface {
	OnTick(w *World, steps int)
}

type Config struct {
	UpdatesPerSecond float64
	// Timestep defaults to 1/UpdatesPerSecond when zero.
	Timestep float64
	// MaxFrameDelta bounds a single tick's wall delta in seconds.
	MaxFrameDelta float64
	Integrator    string
	// GravitationalConstant overrides physics.GravitationalConstant when
	// non-zero.
	GravitationalConstant float64
}

func DefaultConfig() Config {
	return Config{
		UpdatesPerSecond: 100,
		MaxFrameDelta:    0.03,
		Integrator:       "symplectic",
	}
}
