package physics

import (
	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/geom"
)

func KineticEnergy(bodies []*body.Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += b.KineticEnergy()
	}
	return ke
}

// PotentialEnergy sums -G·mA·mB/d over all pairs. Coincident pairs are
// skipped, matching the force model.
func PotentialEnergy(bodies []*body.Body, g float64) float64 {
	pe := 0.0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			d := bodies[i].Position.Distance(bodies[j].Position)
			if d == 0 {
				continue
			}
			pe -= g * bodies[i].Mass * bodies[j].Mass / d
		}
	}
	return pe
}

func TotalEnergy(bodies []*body.Body, g float64) float64 {
	return KineticEnergy(bodies) + PotentialEnergy(bodies, g)
}

func Momentum(bodies []*body.Body) geom.Vec2 {
	var p geom.Vec2
	for _, b := range bodies {
		p = p.Add(b.Momentum())
	}
	return p
}

// AngularMomentum about the origin (z component).
func AngularMomentum(bodies []*body.Body) float64 {
	l := 0.0
	for _, b := range bodies {
		l += b.Mass * (b.Position.X*b.Velocity.Y - b.Position.Y*b.Velocity.X)
	}
	return l
}

func CenterOfMass(bodies []*body.Body) geom.Vec2 {
	var sum geom.Vec2
	total := 0.0
	for _, b := range bodies {
		sum = sum.Add(b.Position.Scale(b.Mass))
		total += b.Mass
	}
	if total == 0 {
		return geom.Vec2{}
	}
	return sum.Scale(1 / total)
}
