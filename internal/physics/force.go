package physics

import (
	"math"

	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/geom"
)

// GravitationalConstant in m³·kg⁻¹·s⁻².
const GravitationalConstant = 6.674e-11

// PenaltyFunc returns the magnitude of the repulsion between two bodies
// whose circles overlap by overlap > 0.
type PenaltyFunc func(a, b *body.Body, overlap float64) float64

// MinMassPenalty scales the overlap by the lighter of the two masses.
func MinMassPenalty(a, b *body.Body, overlap float64) float64 {
	return math.Min(a.Mass, b.Mass) * overlap
}

// ForceModel evaluates gravity and collision penalty between all pairs.
type ForceModel struct {
	G float64
	// Penalty sets the repulsion of overlapping bodies. Nil disables
	// collisions.
	Penalty PenaltyFunc
}

func NewForceModel() *ForceModel {
	return &ForceModel{
		G:       GravitationalConstant,
		Penalty: MinMassPenalty,
	}
}

// Accumulate recomputes NetForce for one step.
//
// bodies is the full set; recipients[i] tells whether bodies[i] receives
// force. Non-recipients (locked bodies) still exert force on the others but
// their NetForce is left untouched. A nil recipients slice treats every body
// as a recipient.
func (fm *ForceModel) Accumulate(bodies []*body.Body, recipients []bool) {
	receives := func(i int) bool {
		return recipients == nil || recipients[i]
	}

	for i, b := range bodies {
		if receives(i) {
			b.NetForce = geom.Vec2{}
		}
	}

	n := len(bodies)
	for i := 0; i < n; i++ {
		a := bodies[i]
		for j := i + 1; j < n; j++ {
			b := bodies[j]
			if !receives(i) && !receives(j) {
				continue
			}

			f, ok := fm.PairForce(a, b)
			if !ok {
				continue
			}
			if receives(i) {
				a.NetForce = a.NetForce.Add(f)
			}
			if receives(j) {
				b.NetForce = b.NetForce.Sub(f)
			}
		}
	}
}

// PairForce returns the force exerted on a by b. The force on b is the
// negation. ok is false when the bodies are coincident.
func (fm *ForceModel) PairForce(a, b *body.Body) (f geom.Vec2, ok bool) {
	delta := b.Position.Sub(a.Position)
	d := delta.Len()
	if d == 0 {
		return geom.Vec2{}, false
	}
	// Unit vector from a toward b.
	dir := delta.Scale(1 / d)

	f = dir.Scale(fm.G * a.Mass * b.Mass / (d * d))

	if fm.Penalty != nil {
		overlap := a.Radius + b.Radius - d
		if overlap > 0 {
			f = f.Sub(dir.Scale(fm.Penalty(a, b, overlap)))
		}
	}
	return f, true
}

// Penetration returns how far the circles of a and b overlap, or zero.
func Penetration(a, b *body.Body) float64 {
	overlap := a.Radius + b.Radius - a.Position.Distance(b.Position)
	if overlap < 0 {
		return 0
	}
	return overlap
}
