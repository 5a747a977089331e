package storage

import (
	"math"

	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/sim"
)

// BodyInfo is the static description of a recorded body.
type BodyInfo struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius"`
}

// Sample is the world state after one tick.
type Sample struct {
	Time      float64     `json:"time"`
	Kinetic   float64     `json:"kinetic"`
	Potential float64     `json:"potential"`
	Momentum  geom.Vec2   `json:"momentum"`
	Positions []geom.Vec2 `json:"positions"`
}

type Recording struct {
	Bodies  []BodyInfo `json:"bodies"`
	Samples []Sample   `json:"samples"`
}

func (r *Recording) Times() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Time
	}
	return out
}

// Series returns one coordinate ("x" or "y") of body i over time.
func (r *Recording) Series(i int, axis string) []float64 {
	out := make([]float64, len(r.Samples))
	for k, s := range r.Samples {
		if i < 0 || i >= len(s.Positions) {
			out[k] = math.NaN()
			continue
		}
		if axis == "y" {
			out[k] = s.Positions[i].Y
		} else {
			out[k] = s.Positions[i].X
		}
	}
	return out
}

func (r *Recording) TotalEnergy() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Kinetic + s.Potential
	}
	return out
}

// Recorder is a sim.Observer that samples the bodies present when it was
// created. Bodies removed later are recorded as NaN.
type Recorder struct {
	ids []body.ID
	rec Recording
}

func NewRecorder(bodies []*body.Body) *Recorder {
	r := &Recorder{}
	for _, b := range bodies {
		r.ids = append(r.ids, b.ID())
		r.rec.Bodies = append(r.rec.Bodies, BodyInfo{
			Name:   b.Name,
			Color:  b.Color,
			Mass:   b.Mass,
			Radius: b.Radius,
		})
	}
	return r
}

func (r *Recorder) OnTick(w *sim.World, steps int) {
	bodies := w.Bodies()
	s := Sample{
		Time:      w.Clock(),
		Kinetic:   physics.KineticEnergy(bodies),
		Potential: physics.PotentialEnergy(bodies, w.ForceModel().G),
		Momentum:  physics.Momentum(bodies),
		Positions: make([]geom.Vec2, len(r.ids)),
	}
	for i, id := range r.ids {
		if b, ok := w.Body(id); ok {
			s.Positions[i] = b.Position
		} else {
			s.Positions[i] = geom.Vec2{X: math.NaN(), Y: math.NaN()}
		}
	}
	r.rec.Samples = append(r.rec.Samples, s)
}

func (r *Recorder) Recording() *Recording { return &r.rec }
