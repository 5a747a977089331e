// Package sandbox is the façade the rendering and input layers talk to. It
// owns a world, a camera and an interaction controller, and tracks the
// viewport, pause state and whether anything changed since the last frame.
package sandbox

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/camera"
	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/interaction"
	"github.com/san-kum/gravbox/internal/sim"
)

type Config struct {
	World       sim.Config
	Center      geom.Vec2
	Zoom        float64
	MinZoom     float64
	ZoomSpeed   float64
	FlingWindow time.Duration
	// Viewport is the initial surface size in screen units.
	Viewport   geom.Vec2
	SpeedLevel int
}

func DefaultConfig() Config {
	return Config{
		World:       sim.DefaultConfig(),
		Zoom:        1,
		MinZoom:     camera.DefaultMinZoom,
		ZoomSpeed:   camera.DefaultZoomSpeed,
		FlingWindow: interaction.DefaultFlingWindow,
		Viewport:    geom.Vec2{X: 800, Y: 600},
	}
}

type Sandbox struct {
	world *sim.World
	cam   *camera.Camera
	ctl   *interaction.Controller

	viewport   geom.Vec2
	running    bool
	dirty      bool
	speedLevel int

	following body.ID
	follow    bool

	logger *zap.Logger
}

type Option func(*options)

type options struct {
	logger *zap.Logger
	now    func() time.Time
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the clock used for fling tracking.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func New(cfg Config, opts ...Option) (*Sandbox, error) {
	o := options{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	world, err := sim.NewWorld(cfg.World, sim.WithLogger(o.logger.Named("world")))
	if err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}

	cam := camera.New(cfg.Center, 1)
	if cfg.MinZoom > 0 {
		cam.MinZoom = cfg.MinZoom
	}
	if cfg.ZoomSpeed > 0 {
		cam.ZoomSpeed = cfg.ZoomSpeed
	}
	if cfg.Zoom > 0 {
		cam.Zoom = max(cfg.Zoom, cam.MinZoom)
	}

	s := &Sandbox{
		world:    world,
		cam:      cam,
		viewport: cfg.Viewport,
		running:  true,
		dirty:    true,
		logger:   o.logger,
	}
	s.ctl = interaction.NewController(world, cam,
		interaction.WithFlingWindow(cfg.FlingWindow),
		interaction.WithClock(o.now),
	)
	if cfg.SpeedLevel != 0 {
		s.SetRelativeSpeed(cfg.SpeedLevel)
	}
	return s, nil
}

func (s *Sandbox) World() *sim.World        { return s.world }
func (s *Sandbox) Camera() *camera.Camera   { return s.cam }
func (s *Sandbox) Viewport() geom.Vec2      { return s.viewport }
func (s *Sandbox) State() interaction.State { return s.ctl.State() }

func (s *Sandbox) AddBody(b *body.Body) error {
	if err := s.world.AddBody(b); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// MustAddBody panics if b cannot be added. Scene loading uses it for bodies
// that are known to be valid.
func (s *Sandbox) MustAddBody(b *body.Body) {
	if err := s.AddBody(b); err != nil {
		panic(err)
	}
}

func (s *Sandbox) RemoveBody(id body.ID) bool {
	if !s.world.RemoveBody(id) {
		return false
	}
	if s.follow && s.following == id {
		s.follow = false
	}
	s.dirty = true
	return true
}

// Reset replaces the body set, clearing the clock and any gesture. The
// bodies are checked first; on error the current scene is left as it was.
func (s *Sandbox) Reset(bodies []*body.Body) error {
	seen := make(map[body.ID]struct{}, len(bodies))
	for _, b := range bodies {
		if _, dup := seen[b.ID()]; dup {
			return fmt.Errorf("reset %s: %w", b, sim.ErrDuplicateBody)
		}
		seen[b.ID()] = struct{}{}
		if err := b.Validate(); err != nil {
			return fmt.Errorf("reset %s: %w", b, err)
		}
	}

	s.ctl.EndDrag()
	s.world.Clear()
	s.follow = false
	s.dirty = true
	for _, b := range bodies {
		if err := s.world.AddBody(b); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sandbox) Bodies() []*body.Body { return s.world.Bodies() }

func (s *Sandbox) Body(id body.ID) (*body.Body, bool) { return s.world.Body(id) }

// Tick advances the world unless paused. It returns the number of steps run.
func (s *Sandbox) Tick(elapsed float64) int {
	if !s.running {
		return 0
	}
	steps := s.world.Tick(elapsed)
	if steps == 0 {
		return 0
	}
	if s.follow {
		if b, ok := s.world.Body(s.following); ok {
			s.cam.Focus(b.Position)
		}
	}
	s.dirty = true
	return steps
}

func (s *Sandbox) Dirty() bool { return s.dirty }
func (s *Sandbox) ClearDirty()  { s.dirty = false }

func (s *Sandbox) Pause() {
	s.running = false
	s.logger.Debug("paused")
}

func (s *Sandbox) Resume() {
	s.running = true
	s.logger.Debug("resumed")
}

func (s *Sandbox) IsRunning() bool { return s.running }

func (s *Sandbox) SetRelativeSpeed(level int) {
	s.speedLevel = level
	s.world.SetRelativeSpeed(level)
	s.dirty = true
}

func (s *Sandbox) SpeedLevel() int        { return s.speedLevel }
func (s *Sandbox) RelativeSpeed() float64 { return s.world.RelativeSpeed() }

// SetVisible stops trail capture while the host surface is hidden. Stepping
// continues either way.
func (s *Sandbox) SetVisible(visible bool) {
	s.world.SetTrailCapture(visible)
}

func (s *Sandbox) SetViewport(width, height float64) {
	s.viewport = geom.Vec2{X: width, Y: height}
	s.dirty = true
}

func (s *Sandbox) viewportCenter() geom.Vec2 {
	return s.viewport.Scale(0.5)
}

func (s *Sandbox) Pan(dx, dy float64) {
	s.cam.Pan(geom.Vec2{X: dx, Y: dy})
	s.dirty = true
}

func (s *Sandbox) ZoomAt(wheel, x, y float64) {
	s.cam.ZoomAt(wheel, geom.Vec2{X: x, Y: y}, s.viewportCenter())
	s.dirty = true
}

func (s *Sandbox) ScreenToSimulation(x, y float64) geom.Vec2 {
	return s.cam.ScreenToSimulation(geom.Vec2{X: x, Y: y}, s.viewportCenter())
}

func (s *Sandbox) SimulationToScreen(p geom.Vec2) geom.Vec2 {
	return s.cam.SimulationToScreen(p, s.viewportCenter())
}

func (s *Sandbox) VisibleRect() geom.Box {
	return s.cam.VisibleRect(s.viewport)
}

// VisibleBodies returns the bodies whose bounds intersect the visible rect,
// in insertion order.
func (s *Sandbox) VisibleBodies() []*body.Body {
	view := s.VisibleRect()
	var out []*body.Body
	for _, b := range s.world.Bodies() {
		if b.Bounds().Intersects(view) {
			out = append(out, b)
		}
	}
	return out
}

func (s *Sandbox) PickBodyAtScreenPoint(x, y float64) (body.ID, bool) {
	b, ok := s.ctl.Pick(geom.Vec2{X: x, Y: y}, s.viewportCenter())
	if !ok {
		return 0, false
	}
	return b.ID(), true
}

func (s *Sandbox) PointerDown(x, y float64) interaction.State {
	return s.ctl.PointerDown(geom.Vec2{X: x, Y: y}, s.viewportCenter())
}

func (s *Sandbox) BeginDrag(id body.ID) bool {
	return s.ctl.BeginDrag(id)
}

func (s *Sandbox) DragMove(dx, dy float64) {
	if s.ctl.State() == interaction.Idle {
		return
	}
	s.ctl.DragMove(geom.Vec2{X: dx, Y: dy})
	s.dirty = true
}

func (s *Sandbox) EndDrag() {
	rel, ok := s.ctl.EndDrag()
	if !ok {
		return
	}
	s.dirty = true
	s.logger.Debug("body released",
		zap.Stringer("body", rel.Body),
		zap.Float64("vx", rel.Velocity.X),
		zap.Float64("vy", rel.Velocity.Y),
	)
}

// Follow keeps the camera centered on a body after every tick.
func (s *Sandbox) Follow(id body.ID) bool {
	b, ok := s.world.Body(id)
	if !ok {
		return false
	}
	s.following, s.follow = id, true
	s.cam.Focus(b.Position)
	s.dirty = true
	return true
}

func (s *Sandbox) Unfollow() { s.follow = false }

func (s *Sandbox) Following() (body.ID, bool) { return s.following, s.follow }

func (s *Sandbox) WouldOverlap(candidate *body.Body) bool {
	return s.world.WouldOverlap(candidate)
}

func (s *Sandbox) Energy() float64 { return s.world.Energy() }
