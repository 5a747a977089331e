package metrics

import (
	"math"

	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/physics"
)

// Momentum tracks the largest change in total linear momentum since the
// first observation. Dragging bodies around breaks conservation on purpose,
// so large values after user input are expected.
type Momentum struct {
	name     string
	initial  geom.Vec2
	maxDrift float64
	samples  int
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum_drift"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(bodies []*body.Body, t float64) {
	p := physics.Momentum(bodies)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Distance(m.initial))
}

func (m *Momentum) Value() float64 { return m.maxDrift }

func (m *Momentum) Reset() {
	m.initial = geom.Vec2{}
	m.maxDrift = 0
	m.samples = 0
}
