package sim

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/integrators"
	"github.com/san-kum/gravbox/internal/physics"
)

// World owns the body set and advances it in fixed steps.
//
// A World is not safe for concurrent use. Ticks run synchronously; bodies
// added or removed between ticks are picked up by the next tick's snapshot.
type World struct {
	bodies []*body.Body
	index  map[body.ID]int

	forces     *physics.ForceModel
	integrator integrators.Integrator
	sched      *Scheduler

	timestep      float64
	maxFrameDelta float64
	clock         float64
	stepsTaken    uint64

	// Taken once per tick and reused for every step of the burst.
	snapshot   []*body.Body
	recipients []bool

	captureTrails bool

	metrics   []Metric
	observers []Observer
	logger    *zap.Logger
}

type Option func(*World)

func WithLogger(l *zap.Logger) Option {
	return func(w *World) { w.logger = l }
}

func WithForceModel(fm *physics.ForceModel) Option {
	return func(w *World) { w.forces = fm }
}

func WithIntegrator(integ integrators.Integrator) Option {
	return func(w *World) { w.integrator = integ }
}

func NewWorld(cfg Config, opts ...Option) (*World, error) {
	if !(cfg.UpdatesPerSecond > 0) || math.IsInf(cfg.UpdatesPerSecond, 0) {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidRate, cfg.UpdatesPerSecond)
	}
	dt := cfg.Timestep
	if dt == 0 {
		dt = 1 / cfg.UpdatesPerSecond
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidTimestep, dt)
	}
	maxDelta := cfg.MaxFrameDelta
	if maxDelta <= 0 {
		maxDelta = DefaultConfig().MaxFrameDelta
	}

	w := &World{
		index:         make(map[body.ID]int),
		forces:        physics.NewForceModel(),
		sched:         NewScheduler(cfg.UpdatesPerSecond),
		timestep:      dt,
		maxFrameDelta: maxDelta,
		captureTrails: true,
		logger:        zap.NewNop(),
	}
	if cfg.GravitationalConstant != 0 {
		w.forces.G = cfg.GravitationalConstant
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.integrator == nil {
		integ, err := integrators.Get(cfg.Integrator)
		if err != nil {
			return nil, err
		}
		w.integrator = integ
	}
	return w, nil
}

// AddBody appends b to the world. Adding a body whose ID is already present
// or whose mass is invalid is a programming error and returns an error.
func (w *World) AddBody(b *body.Body) error {
	if _, ok := w.index[b.ID()]; ok {
		w.logger.Error("duplicate body add", zap.Stringer("body", b))
		return fmt.Errorf("add %s: %w", b, ErrDuplicateBody)
	}
	if err := b.Validate(); err != nil {
		w.logger.Error("invalid body add", zap.Stringer("body", b), zap.Error(err))
		return fmt.Errorf("add %s: %w", b, err)
	}
	w.index[b.ID()] = len(w.bodies)
	w.bodies = append(w.bodies, b)
	w.logger.Debug("body added", zap.Stringer("body", b), zap.Int("count", len(w.bodies)))
	return nil
}

// RemoveBody removes the body with the given ID. Missing IDs are ignored.
func (w *World) RemoveBody(id body.ID) bool {
	i, ok := w.index[id]
	if !ok {
		return false
	}
	removed := w.bodies[i]
	w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
	delete(w.index, id)
	for j := i; j < len(w.bodies); j++ {
		w.index[w.bodies[j].ID()] = j
	}
	w.logger.Debug("body removed", zap.Stringer("body", removed), zap.Int("count", len(w.bodies)))
	return true
}

// Clear removes every body and resets the clock.
func (w *World) Clear() {
	w.bodies = nil
	w.index = make(map[body.ID]int)
	w.snapshot = nil
	w.recipients = nil
	w.clock = 0
	w.stepsTaken = 0
	w.sched.Reset()
}

func (w *World) Body(id body.ID) (*body.Body, bool) {
	i, ok := w.index[id]
	if !ok {
		return nil, false
	}
	return w.bodies[i], true
}

// Bodies returns the bodies in insertion order. The slice is a copy; the
// bodies are shared.
func (w *World) Bodies() []*body.Body {
	out := make([]*body.Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

func (w *World) Len() int { return len(w.bodies) }

// BodyAt returns the first body, in insertion order, whose circle contains p.
func (w *World) BodyAt(p geom.Vec2) (*body.Body, bool) {
	for _, b := range w.bodies {
		if b.Contains(p) {
			return b, true
		}
	}
	return nil, false
}

// WouldOverlap reports whether candidate interpenetrates any body in the
// world other than itself.
func (w *World) WouldOverlap(candidate *body.Body) bool {
	for _, b := range w.bodies {
		if b.ID() == candidate.ID() {
			continue
		}
		if b.Overlaps(candidate) {
			return true
		}
	}
	return false
}

// Tick advances the world by an elapsed wall-clock duration in seconds and
// returns the number of fixed steps executed.
func (w *World) Tick(elapsed float64) int {
	if elapsed > w.maxFrameDelta {
		elapsed = w.maxFrameDelta
	}
	steps := w.sched.Advance(elapsed)
	if steps == 0 {
		return 0
	}

	w.takeSnapshot()
	for i := 0; i < steps; i++ {
		w.step()
	}

	if w.captureTrails {
		for _, b := range w.snapshot {
			if b.Trail != nil {
				b.Trail.Push(b.Position, w.clock)
			}
		}
	}
	for _, m := range w.metrics {
		m.Observe(w.snapshot, w.clock)
	}
	for _, o := range w.observers {
		o.OnTick(w, steps)
	}
	return steps
}

// Step runs exactly one fixed step regardless of the accumulator.
func (w *World) Step() {
	w.takeSnapshot()
	w.step()
}

func (w *World) takeSnapshot() {
	w.snapshot = append(w.snapshot[:0], w.bodies...)
	w.recipients = w.recipients[:0]
	for _, b := range w.snapshot {
		w.recipients = append(w.recipients, !b.Locked)
	}
}

// step computes all forces before integrating any body.
func (w *World) step() {
	w.forces.Accumulate(w.snapshot, w.recipients)
	for i, b := range w.snapshot {
		if w.recipients[i] {
			w.integrator.Step(b, w.timestep)
		}
	}
	w.clock += w.timestep
	w.stepsTaken++
}

// SetRelativeSpeed selects timestep and update rate for a speed level.
func (w *World) SetRelativeSpeed(level int) {
	dt, ups := SpeedFor(level)
	w.timestep = dt
	w.sched.UpdatesPerSecond = ups
	w.logger.Debug("speed changed",
		zap.Int("level", level),
		zap.Float64("timestep", dt),
		zap.Float64("ups", ups),
	)
}

func (w *World) SetTimestep(dt float64) error {
	if dt == 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidTimestep, dt)
	}
	w.timestep = dt
	return nil
}

func (w *World) SetUpdatesPerSecond(ups float64) error {
	if !(ups > 0) || math.IsInf(ups, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidRate, ups)
	}
	w.sched.UpdatesPerSecond = ups
	return nil
}

// SetTrailCapture toggles trail recording, e.g. while the view is hidden.
func (w *World) SetTrailCapture(on bool) { w.captureTrails = on }

func (w *World) AddMetric(m Metric)     { w.metrics = append(w.metrics, m) }
func (w *World) AddObserver(o Observer) { w.observers = append(w.observers, o) }

// Metrics returns the current value of every registered metric.
func (w *World) Metrics() map[string]float64 {
	out := make(map[string]float64, len(w.metrics))
	for _, m := range w.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (w *World) Clock() float64                  { return w.clock }
func (w *World) Timestep() float64               { return w.timestep }
func (w *World) UpdatesPerSecond() float64       { return w.sched.UpdatesPerSecond }
func (w *World) RelativeSpeed() float64          { return w.timestep * w.sched.UpdatesPerSecond }
func (w *World) Accumulator() float64            { return w.sched.Accumulator() }
func (w *World) StepsTaken() uint64              { return w.stepsTaken }
func (w *World) ForceModel() *physics.ForceModel { return w.forces }

func (w *World) Integrator() integrators.Integrator { return w.integrator }

// Energy returns kinetic plus potential energy of the current body set.
func (w *World) Energy() float64 {
	return physics.TotalEnergy(w.bodies, w.forces.G)
}
