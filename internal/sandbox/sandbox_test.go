package sandbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/interaction"
	"github.com/san-kum/gravbox/internal/sim"
)

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time { return c.t }

func newSandbox(t *testing.T) (*Sandbox, *stepClock) {
	t.Helper()
	clock := &stepClock{t: time.Unix(0, 0)}
	cfg := DefaultConfig()
	cfg.Viewport = geom.Vec2{X: 200, Y: 100}
	s, err := New(cfg, WithClock(clock.now))
	require.NoError(t, err)
	return s, clock
}

func TestNew_RejectsBadWorldConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.World.UpdatesPerSecond = 0
	_, err := New(cfg)
	assert.ErrorIs(t, err, sim.ErrInvalidRate)
}

func TestNew_AppliesCameraAndSpeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Zoom = 4
	cfg.ZoomSpeed = 0.5
	cfg.SpeedLevel = 2
	s, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, 4.0, s.Camera().Zoom)
	assert.Equal(t, 0.5, s.Camera().ZoomSpeed)
	assert.Equal(t, 2, s.SpeedLevel())
	assert.InDelta(t, 2.25, s.RelativeSpeed(), 1e-9)
}

func TestAddRemove(t *testing.T) {
	s, _ := newSandbox(t)
	b := body.MustNew(1, geom.Vec2{}, body.WithRadius(1))

	require.NoError(t, s.AddBody(b))
	assert.ErrorIs(t, s.AddBody(b), sim.ErrDuplicateBody)
	assert.Len(t, s.Bodies(), 1)

	got, ok := s.Body(b.ID())
	require.True(t, ok)
	assert.Same(t, b, got)

	assert.True(t, s.RemoveBody(b.ID()))
	assert.False(t, s.RemoveBody(b.ID()))
	assert.Empty(t, s.Bodies())
}

func TestMustAddBody_PanicsOnDuplicate(t *testing.T) {
	s, _ := newSandbox(t)
	b := body.MustNew(1, geom.Vec2{})
	s.MustAddBody(b)
	assert.Panics(t, func() { s.MustAddBody(b) })
}

func TestTick_DirtyAndPause(t *testing.T) {
	s, _ := newSandbox(t)
	s.MustAddBody(body.MustNew(1, geom.Vec2{}, body.WithVelocity(geom.Vec2{X: 1})))
	s.ClearDirty()

	assert.Equal(t, 0, s.Tick(0.001))
	assert.False(t, s.Dirty(), "no step, nothing to redraw")

	assert.Equal(t, 3, s.Tick(0.03))
	assert.True(t, s.Dirty())
	s.ClearDirty()

	s.Pause()
	assert.False(t, s.IsRunning())
	assert.Equal(t, 0, s.Tick(0.03))
	assert.False(t, s.Dirty())

	s.Resume()
	assert.True(t, s.IsRunning())
	assert.Equal(t, 3, s.Tick(0.03))
}

func TestViewportMapping(t *testing.T) {
	s, _ := newSandbox(t)
	s.Camera().Zoom = 2

	assert.Equal(t, geom.Vec2{}, s.ScreenToSimulation(100, 50))
	assert.Equal(t, geom.Vec2{X: 5, Y: -5}, s.ScreenToSimulation(110, 40))

	r := s.VisibleRect()
	assert.InDelta(t, 100, r.Width(), 1e-9)
	assert.InDelta(t, 50, r.Height(), 1e-9)

	s.SetViewport(400, 400)
	assert.InDelta(t, 200, s.VisibleRect().Height(), 1e-9)
	assert.Equal(t, geom.Vec2{}, s.ScreenToSimulation(200, 200))
}

func TestPanAndZoom(t *testing.T) {
	s, _ := newSandbox(t)
	s.ClearDirty()

	s.Pan(10, 0)
	assert.Equal(t, geom.Vec2{X: -10}, s.Camera().Center)
	assert.True(t, s.Dirty())

	anchor := s.ScreenToSimulation(30, 70)
	s.ZoomAt(-300, 30, 70)
	assert.Greater(t, s.Camera().Zoom, 1.0)
	after := s.ScreenToSimulation(30, 70)
	assert.InDelta(t, anchor.X, after.X, 1e-9)
	assert.InDelta(t, anchor.Y, after.Y, 1e-9)
}

func TestVisibleBodies_Culls(t *testing.T) {
	s, _ := newSandbox(t)
	inside := body.MustNew(1, geom.Vec2{X: 10}, body.WithRadius(1))
	edge := body.MustNew(1, geom.Vec2{X: 104}, body.WithRadius(5))
	outside := body.MustNew(1, geom.Vec2{X: 500}, body.WithRadius(5))
	for _, b := range []*body.Body{inside, edge, outside} {
		s.MustAddBody(b)
	}

	visible := s.VisibleBodies()
	assert.Equal(t, []*body.Body{inside, edge}, visible)
}

func TestPickAndDrag(t *testing.T) {
	s, clock := newSandbox(t)
	b := body.MustNew(1, geom.Vec2{X: 20}, body.WithRadius(5))
	s.MustAddBody(b)

	id, ok := s.PickBodyAtScreenPoint(122, 50)
	require.True(t, ok)
	assert.Equal(t, b.ID(), id)
	_, ok = s.PickBodyAtScreenPoint(0, 0)
	assert.False(t, ok)

	assert.Equal(t, interaction.DraggingBody, s.PointerDown(120, 50))
	assert.True(t, b.Locked)

	clock.t = clock.t.Add(10 * time.Millisecond)
	s.DragMove(3, 4)
	assert.Equal(t, geom.Vec2{X: 23, Y: 4}, b.Position)

	s.EndDrag()
	assert.False(t, b.Locked)
	assert.InDelta(t, 300, b.Velocity.X, 1e-6)
	assert.InDelta(t, 400, b.Velocity.Y, 1e-6)
	assert.Equal(t, interaction.Idle, s.State())
}

func TestDragMove_IdleIsNoop(t *testing.T) {
	s, _ := newSandbox(t)
	s.ClearDirty()
	s.DragMove(10, 10)
	assert.Equal(t, geom.Vec2{}, s.Camera().Center)
	assert.False(t, s.Dirty())
}

func TestBeginDrag_ByID(t *testing.T) {
	s, _ := newSandbox(t)
	b := body.MustNew(1, geom.Vec2{X: 1000})
	s.MustAddBody(b)

	assert.True(t, s.BeginDrag(b.ID()))
	assert.True(t, b.Locked)
	s.RemoveBody(b.ID())
	s.DragMove(5, 5)
	s.EndDrag()
	assert.Equal(t, interaction.Idle, s.State())
}

func TestSetVisible_StopsTrails(t *testing.T) {
	s, _ := newSandbox(t)
	b := body.MustNew(1, geom.Vec2{}, body.WithVelocity(geom.Vec2{X: 1}))
	s.MustAddBody(b)

	s.SetVisible(false)
	assert.Equal(t, 3, s.Tick(0.03))
	assert.Zero(t, b.Trail.Len())

	s.SetVisible(true)
	s.Tick(0.03)
	assert.Equal(t, 1, b.Trail.Len())
}

func TestSetRelativeSpeed_Reverse(t *testing.T) {
	s, _ := newSandbox(t)
	s.SetRelativeSpeed(-1)
	assert.Equal(t, -1, s.SpeedLevel())
	assert.InDelta(t, -1.5, s.RelativeSpeed(), 1e-9)
}

func TestFollow(t *testing.T) {
	s, _ := newSandbox(t)
	b := body.MustNew(1, geom.Vec2{X: 50}, body.WithVelocity(geom.Vec2{X: 10}))
	s.MustAddBody(b)

	require.True(t, s.Follow(b.ID()))
	s.Tick(0.03)
	assert.Equal(t, b.Position, s.Camera().Center)

	s.RemoveBody(b.ID())
	_, following := s.Following()
	assert.False(t, following)
	assert.False(t, s.Follow(b.ID()))
}

func TestWouldOverlapAndReset(t *testing.T) {
	s, _ := newSandbox(t)
	s.MustAddBody(body.MustNew(1, geom.Vec2{}, body.WithRadius(10)))

	assert.True(t, s.WouldOverlap(body.MustNew(1, geom.Vec2{X: 15}, body.WithRadius(6))))
	assert.False(t, s.WouldOverlap(body.MustNew(1, geom.Vec2{X: 30}, body.WithRadius(6))))

	fresh := []*body.Body{body.MustNew(2, geom.Vec2{}), body.MustNew(3, geom.Vec2{X: 5})}
	require.NoError(t, s.Reset(fresh))
	assert.Equal(t, fresh, s.Bodies())
	assert.Zero(t, s.World().Clock())
}

func TestReset_RejectsBadSceneWithoutClearing(t *testing.T) {
	s, _ := newSandbox(t)
	old := body.MustNew(1, geom.Vec2{})
	s.MustAddBody(old)
	s.Tick(0.02)
	clock := s.World().Clock()

	bad := body.MustNew(1, geom.Vec2{X: 5})
	bad.Mass = 0
	err := s.Reset([]*body.Body{body.MustNew(2, geom.Vec2{X: 9}), bad})
	assert.ErrorIs(t, err, sim.ErrInvalidMass)

	dup := body.MustNew(2, geom.Vec2{X: 9})
	err = s.Reset([]*body.Body{dup, dup})
	assert.ErrorIs(t, err, sim.ErrDuplicateBody)

	assert.Equal(t, []*body.Body{old}, s.Bodies())
	assert.Equal(t, clock, s.World().Clock())
}
