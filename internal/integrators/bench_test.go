package integrators

import (
	"testing"

	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/geom"
)

func benchStep(b *testing.B, integ Integrator) {
	bd := body.MustNew(1, geom.Vec2{X: 1})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bd.NetForce = bd.Position.Neg()
		integ.Step(bd, 0.01)
	}
}

func BenchmarkEuler(b *testing.B) {
	benchStep(b, NewEuler())
}

func BenchmarkSemiImplicitEuler(b *testing.B) {
	benchStep(b, NewSemiImplicitEuler())
}
