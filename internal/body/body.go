// Package body defines the point mass simulated by the sandbox.
package body

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/san-kum/gravbox/internal/geom"
)

// ID identifies a body for its whole lifetime. IDs are never reused within a
// process.
type ID uint64

var nextID atomic.Uint64

// ErrInvalidMass is returned for a mass that is zero, negative or not finite.
var ErrInvalidMass = errors.New("body: mass must be positive and finite")

// ErrInvalidRadius is returned for a negative or non-finite radius.
var ErrInvalidRadius = errors.New("body: radius must be non-negative and finite")

// Body is a point mass with a collision radius.
//
// NetForce is owned by the force pass during a step and read by the
// integrator immediately after. Locked bodies are skipped by both.
type Body struct {
	id ID

	Mass     float64
	Position geom.Vec2
	Velocity geom.Vec2
	NetForce geom.Vec2
	Radius   float64
	Locked   bool

	Trail *Trail

	// Display payload, carried but never interpreted by the engine.
	Name           string
	Color          string
	Uninteractable bool
}

// Option configures a body at construction.
type Option func(*Body)

func WithVelocity(v geom.Vec2) Option { return func(b *Body) { b.Velocity = v } }
func WithRadius(r float64) Option     { return func(b *Body) { b.Radius = r } }
func WithName(name string) Option     { return func(b *Body) { b.Name = name } }
func WithColor(color string) Option   { return func(b *Body) { b.Color = color } }
func Uninteractable() Option          { return func(b *Body) { b.Uninteractable = true } }

func WithTrailCapacity(n int) Option {
	return func(b *Body) { b.Trail = NewTrail(n) }
}

// New creates a body with a fresh ID.
func New(mass float64, pos geom.Vec2, opts ...Option) (*Body, error) {
	b := &Body{
		id:       ID(nextID.Add(1)),
		Mass:     mass,
		Position: pos,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.Trail == nil {
		b.Trail = NewTrail(DefaultTrailCapacity)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// MustNew is New for static scene definitions; it panics on invalid input.
func MustNew(mass float64, pos geom.Vec2, opts ...Option) *Body {
	b, err := New(mass, pos, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Body) ID() ID { return b.id }

// Validate checks the numeric invariants the engine relies on.
func (b *Body) Validate() error {
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidMass, b.Mass)
	}
	if !(b.Radius >= 0) || math.IsInf(b.Radius, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidRadius, b.Radius)
	}
	return nil
}

// Bounds is the axis-aligned box enclosing the body's circle.
func (b *Body) Bounds() geom.Box {
	return geom.BoxAround(b.Position, 2*b.Radius, 2*b.Radius)
}

// Contains reports whether p lies strictly inside the body's circle.
func (b *Body) Contains(p geom.Vec2) bool {
	return b.Position.Distance(p) < b.Radius
}

// Overlaps reports whether the circles of b and o interpenetrate.
func (b *Body) Overlaps(o *Body) bool {
	return b.Position.Distance(o.Position) < b.Radius+o.Radius
}

func (b *Body) Momentum() geom.Vec2 {
	return b.Velocity.Scale(b.Mass)
}

func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
}

func (b *Body) String() string {
	name := b.Name
	if name == "" {
		name = "body"
	}
	return fmt.Sprintf("%s#%d", name, b.id)
}
