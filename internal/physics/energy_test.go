package physics

import (
	"math"
	"testing"

	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/geom"
)

func TestEnergyAndMomentum(t *testing.T) {
	a := newBody(t, 2, 0, 0, 0)
	b := newBody(t, 4, 10, 0, 0)
	a.Velocity = geom.Vec2{X: 1}
	b.Velocity = geom.Vec2{Y: -1}
	bodies := []*body.Body{a, b}

	if ke := KineticEnergy(bodies); ke != 3 {
		t.Errorf("ke = %v, want 3", ke)
	}

	g := 1.0
	if pe := PotentialEnergy(bodies, g); math.Abs(pe+0.8) > 1e-12 {
		t.Errorf("pe = %v, want -0.8", pe)
	}
	if e := TotalEnergy(bodies, g); math.Abs(e-2.2) > 1e-12 {
		t.Errorf("total = %v, want 2.2", e)
	}

	if p := Momentum(bodies); p != (geom.Vec2{X: 2, Y: -4}) {
		t.Errorf("momentum = %v", p)
	}
	if l := AngularMomentum(bodies); l != -40 {
		t.Errorf("angular momentum = %v, want -40", l)
	}

	com := CenterOfMass(bodies)
	if math.Abs(com.X-20.0/3) > 1e-12 || com.Y != 0 {
		t.Errorf("center of mass = %v", com)
	}
}

func TestPotentialEnergy_SkipsCoincident(t *testing.T) {
	a := newBody(t, 1, 3, 3, 0)
	b := newBody(t, 1, 3, 3, 0)
	if pe := PotentialEnergy([]*body.Body{a, b}, 1); pe != 0 {
		t.Errorf("pe = %v, want 0", pe)
	}
	if com := CenterOfMass(nil); com != (geom.Vec2{}) {
		t.Errorf("empty center of mass = %v", com)
	}
}
