// Package interaction turns pointer gestures into camera pans and body
// drags, including the fling velocity applied when a body is released.
package interaction

import (
	"time"

	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/camera"
	"github.com/san-kum/gravbox/internal/geom"
)

type State int

const (
	Idle State = iota
	DraggingViewport
	DraggingBody
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DraggingViewport:
		return "dragging-viewport"
	case DraggingBody:
		return "dragging-body"
	}
	return "unknown"
}

// BodySource is the part of a world the controller needs. Lookups by ID let
// the controller notice a body removed in the middle of a drag.
type BodySource interface {
	BodyAt(p geom.Vec2) (*body.Body, bool)
	Body(id body.ID) (*body.Body, bool)
}

// Release describes a finished body drag.
type Release struct {
	Body     *body.Body
	Velocity geom.Vec2
}

type Controller struct {
	src   BodySource
	cam   *camera.Camera
	fling *FlingTracker

	state   State
	dragged body.ID
}

type Option func(*controllerOptions)

type controllerOptions struct {
	window time.Duration
	now    func() time.Time
}

func WithFlingWindow(d time.Duration) Option {
	return func(o *controllerOptions) { o.window = d }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *controllerOptions) { o.now = now }
}

func NewController(src BodySource, cam *camera.Camera, opts ...Option) *Controller {
	o := controllerOptions{window: DefaultFlingWindow, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller{
		src:   src,
		cam:   cam,
		fling: NewFlingTracker(o.window, o.now),
	}
}

func (c *Controller) State() State { return c.state }

// Dragged returns the ID of the held body while in DraggingBody.
func (c *Controller) Dragged() (body.ID, bool) {
	if c.state != DraggingBody {
		return 0, false
	}
	return c.dragged, true
}

// Pick returns the first body, in insertion order, under a screen point.
func (c *Controller) Pick(screen, viewportCenter geom.Vec2) (*body.Body, bool) {
	return c.src.BodyAt(c.cam.ScreenToSimulation(screen, viewportCenter))
}

// PointerDown starts a body drag when an interactable body is under the
// pointer and a viewport drag otherwise.
func (c *Controller) PointerDown(screen, viewportCenter geom.Vec2) State {
	if b, ok := c.Pick(screen, viewportCenter); ok && !b.Uninteractable {
		c.BeginDrag(b.ID())
		return c.state
	}
	c.BeginPan()
	return c.state
}

// BeginDrag locks the body and starts tracking it. Unknown or
// uninteractable bodies are ignored.
func (c *Controller) BeginDrag(id body.ID) bool {
	b, ok := c.src.Body(id)
	if !ok || b.Uninteractable {
		return false
	}
	c.cancel()
	b.Locked = true
	c.dragged = id
	c.state = DraggingBody
	c.fling.Start()
	return true
}

func (c *Controller) BeginPan() {
	c.cancel()
	c.state = DraggingViewport
	c.fling.Start()
}

// DragMove applies a screen-space pointer delta to the current gesture.
func (c *Controller) DragMove(delta geom.Vec2) {
	switch c.state {
	case DraggingViewport:
		c.fling.Record(delta)
		c.cam.Pan(delta)
	case DraggingBody:
		b, ok := c.src.Body(c.dragged)
		if !ok {
			return
		}
		c.fling.Record(delta)
		b.Position = b.Position.Add(delta.Scale(1 / c.cam.Zoom))
	}
}

// EndDrag finishes the gesture. A released body gets the fling velocity in
// simulation units, a zero net force, and is unlocked.
func (c *Controller) EndDrag() (Release, bool) {
	state, id := c.state, c.dragged
	c.state = Idle
	c.dragged = 0
	if state != DraggingBody {
		return Release{}, false
	}
	b, ok := c.src.Body(id)
	if !ok {
		return Release{}, false
	}
	b.Velocity = c.fling.Velocity().Scale(1 / c.cam.Zoom)
	b.NetForce = geom.Vec2{}
	b.Locked = false
	return Release{Body: b, Velocity: b.Velocity}, true
}

// cancel drops a body drag without applying a fling, so a new gesture
// never leaves a stale lock behind.
func (c *Controller) cancel() {
	if c.state == DraggingBody {
		if b, ok := c.src.Body(c.dragged); ok {
			b.Locked = false
		}
	}
	c.state = Idle
	c.dragged = 0
}
