package interaction_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/camera"
	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/interaction"
	"github.com/san-kum/gravbox/internal/sim"
)

var _ = Describe("Controller", func() {
	var (
		clock *fakeClock
		world *sim.World
		cam   *camera.Camera
		ctl   *interaction.Controller
		ball  *body.Body
		wall  *body.Body
		vc    geom.Vec2
	)

	BeforeEach(func() {
		var err error
		clock = newFakeClock()
		world, err = sim.NewWorld(sim.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())

		ball = body.MustNew(1, geom.Vec2{X: 0, Y: 0}, body.WithRadius(10), body.WithVelocity(geom.Vec2{X: 3}))
		wall = body.MustNew(1, geom.Vec2{X: 100, Y: 0}, body.WithRadius(10), body.Uninteractable())
		Expect(world.AddBody(ball)).To(Succeed())
		Expect(world.AddBody(wall)).To(Succeed())

		cam = camera.New(geom.Vec2{}, 2)
		vc = geom.Vec2{X: 400, Y: 300}
		ctl = interaction.NewController(world, cam, interaction.WithClock(clock.Now))
	})

	It("starts idle", func() {
		Expect(ctl.State()).To(Equal(interaction.Idle))
		_, ok := ctl.Dragged()
		Expect(ok).To(BeFalse())
	})

	Describe("pointer down", func() {
		It("grabs and locks a body under the pointer", func() {
			Expect(ctl.PointerDown(geom.Vec2{X: 410, Y: 300}, vc)).To(Equal(interaction.DraggingBody))
			Expect(ball.Locked).To(BeTrue())
			id, ok := ctl.Dragged()
			Expect(ok).To(BeTrue())
			Expect(id).To(Equal(ball.ID()))
		})

		It("pans on empty space", func() {
			Expect(ctl.PointerDown(geom.Vec2{X: 0, Y: 0}, vc)).To(Equal(interaction.DraggingViewport))
			Expect(ball.Locked).To(BeFalse())
		})

		It("pans when the body under the pointer is uninteractable", func() {
			Expect(ctl.PointerDown(geom.Vec2{X: 600, Y: 300}, vc)).To(Equal(interaction.DraggingViewport))
			Expect(wall.Locked).To(BeFalse())
		})

		It("uses a strict radius test", func() {
			// 10 units at zoom 2 is exactly 20 px from the center
			Expect(ctl.PointerDown(geom.Vec2{X: 420, Y: 300}, vc)).To(Equal(interaction.DraggingViewport))
		})
	})

	Describe("dragging the viewport", func() {
		It("pans the camera by delta over zoom", func() {
			ctl.BeginPan()
			ctl.DragMove(geom.Vec2{X: 20, Y: -10})
			Expect(cam.Center.X).To(BeNumerically("~", -10, 1e-12))
			Expect(cam.Center.Y).To(BeNumerically("~", 5, 1e-12))
		})

		It("does not fling anything on release", func() {
			ctl.BeginPan()
			clock.Advance(10 * time.Millisecond)
			ctl.DragMove(geom.Vec2{X: 20})
			_, ok := ctl.EndDrag()
			Expect(ok).To(BeFalse())
			Expect(ctl.State()).To(Equal(interaction.Idle))
			Expect(ball.Velocity).To(Equal(geom.Vec2{X: 3}))
		})
	})

	Describe("dragging a body", func() {
		BeforeEach(func() {
			Expect(ctl.BeginDrag(ball.ID())).To(BeTrue())
		})

		It("moves the body without touching its velocity", func() {
			clock.Advance(16 * time.Millisecond)
			ctl.DragMove(geom.Vec2{X: 8, Y: 4})
			Expect(ball.Position).To(Equal(geom.Vec2{X: 4, Y: 2}))
			Expect(ball.Velocity).To(Equal(geom.Vec2{X: 3}))
		})

		It("keeps the held body frozen while the world ticks", func() {
			ctl.DragMove(geom.Vec2{X: 8})
			pos := ball.Position
			world.Tick(0.03)
			Expect(ball.Position).To(Equal(pos))
		})

		It("releases with the windowed fling velocity scaled by zoom", func() {
			ball.NetForce = geom.Vec2{X: 9, Y: 9}
			clock.Advance(10 * time.Millisecond)
			ctl.DragMove(geom.Vec2{X: 10})
			clock.Advance(10 * time.Millisecond)
			ctl.DragMove(geom.Vec2{X: 10})

			rel, ok := ctl.EndDrag()
			Expect(ok).To(BeTrue())
			Expect(rel.Body).To(BeIdenticalTo(ball))
			// 20 px / 20 ms = 1000 px/s, over zoom 2
			Expect(ball.Velocity.X).To(BeNumerically("~", 500, 1e-6))
			Expect(ball.Velocity.Y).To(BeNumerically("~", 0, 1e-12))
			Expect(ball.NetForce).To(Equal(geom.Vec2{}))
			Expect(ball.Locked).To(BeFalse())
			Expect(ctl.State()).To(Equal(interaction.Idle))
		})

		It("releases at rest when the pointer paused", func() {
			clock.Advance(10 * time.Millisecond)
			ctl.DragMove(geom.Vec2{X: 10})
			clock.Advance(time.Second)

			_, ok := ctl.EndDrag()
			Expect(ok).To(BeTrue())
			Expect(ball.Velocity).To(Equal(geom.Vec2{}))
		})

		It("releases at rest without any motion", func() {
			_, ok := ctl.EndDrag()
			Expect(ok).To(BeTrue())
			Expect(ball.Velocity).To(Equal(geom.Vec2{}))
			Expect(ball.Locked).To(BeFalse())
		})

		It("ignores moves and release after the body is deleted", func() {
			Expect(world.RemoveBody(ball.ID())).To(BeTrue())
			pos := ball.Position

			ctl.DragMove(geom.Vec2{X: 50})
			Expect(ball.Position).To(Equal(pos))
			Expect(cam.Center).To(Equal(geom.Vec2{}))

			_, ok := ctl.EndDrag()
			Expect(ok).To(BeFalse())
			Expect(ctl.State()).To(Equal(interaction.Idle))
		})

		It("unlocks the previous body when a new gesture starts", func() {
			ctl.BeginPan()
			Expect(ball.Locked).To(BeFalse())
			Expect(ctl.State()).To(Equal(interaction.DraggingViewport))
		})
	})

	It("refuses to drag unknown or uninteractable bodies", func() {
		Expect(ctl.BeginDrag(wall.ID())).To(BeFalse())
		Expect(ctl.BeginDrag(body.ID(0))).To(BeFalse())
		Expect(ctl.State()).To(Equal(interaction.Idle))
	})

	It("names its states", func() {
		Expect(interaction.DraggingBody.String()).To(Equal("dragging-body"))
		Expect(interaction.State(42).String()).To(Equal("unknown"))
	})
})
