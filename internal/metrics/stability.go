package metrics

import (
	"github.com/san-kum/gravbox/internal/body"
)

// Stability is the fraction of observed ticks in which every body had a
// finite state within radius of the origin.
type Stability struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewStability(radius float64) *Stability {
	return &Stability{
		name:   "stability",
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(bodies []*body.Body, t float64) {
	s.samples++
	for _, b := range bodies {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() || b.Position.Len() > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
