package integrators

import "github.com/san-kum/gravbox/internal/body"

// Integrator advances one body by dt from its accumulated NetForce.
type Integrator interface {
	Name() string
	Step(b *body.Body, dt float64)
}

// SemiImplicitEuler updates velocity first and then moves the body with the
// new velocity. It is symplectic and keeps orbits bounded far better than
// the explicit variant.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (SemiImplicitEuler) Name() string { return "symplectic" }

func (SemiImplicitEuler) Step(b *body.Body, dt float64) {
	acc := b.NetForce.Scale(1 / b.Mass)
	b.Velocity = b.Velocity.Add(acc.Scale(dt))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}

// Euler is the explicit forward Euler method: position moves with the old
// velocity. Kept for comparison runs.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (Euler) Name() string { return "euler" }

func (Euler) Step(b *body.Body, dt float64) {
	acc := b.NetForce.Scale(1 / b.Mass)
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Velocity = b.Velocity.Add(acc.Scale(dt))
}
