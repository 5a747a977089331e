package interaction_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/interaction"
)

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock { return &fakeClock{t: time.Unix(1700000000, 0)} }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var _ = Describe("FlingTracker", func() {
	var (
		clock *fakeClock
		ft    *interaction.FlingTracker
	)

	BeforeEach(func() {
		clock = newFakeClock()
		ft = interaction.NewFlingTracker(75*time.Millisecond, clock.Now)
		ft.Start()
	})

	It("is zero without samples", func() {
		Expect(ft.Velocity()).To(Equal(geom.Vec2{}))
	})

	It("is zero when all samples share the start instant", func() {
		ft.Record(geom.Vec2{X: 10})
		Expect(ft.Velocity()).To(Equal(geom.Vec2{}))
	})

	It("divides summed deltas by summed sample time", func() {
		clock.Advance(10 * time.Millisecond)
		ft.Record(geom.Vec2{X: 4, Y: -2})
		clock.Advance(10 * time.Millisecond)
		ft.Record(geom.Vec2{X: 6, Y: -2})

		v := ft.Velocity()
		Expect(v.X).To(BeNumerically("~", 500, 1e-6))
		Expect(v.Y).To(BeNumerically("~", -200, 1e-6))
	})

	It("forgets samples older than the window", func() {
		clock.Advance(10 * time.Millisecond)
		ft.Record(geom.Vec2{X: 1000})
		clock.Advance(100 * time.Millisecond)
		ft.Record(geom.Vec2{X: 5})
		clock.Advance(10 * time.Millisecond)
		ft.Record(geom.Vec2{X: 5})

		Expect(ft.Len()).To(Equal(2))
		// 10 px over the 75 ms window
		Expect(ft.Velocity().X).To(BeNumerically("~", 10/0.075, 1e-6))
	})

	It("does not let a long hold before a flick dilute the span", func() {
		clock.Advance(500 * time.Millisecond)
		ft.Record(geom.Vec2{X: 10})
		clock.Advance(10 * time.Millisecond)
		ft.Record(geom.Vec2{X: 10})

		// the first interval started 510 ms ago, only its last 65 ms count
		Expect(ft.Velocity().X).To(BeNumerically("~", 20/0.075, 1e-6))
	})

	It("keeps short gestures measured from Start", func() {
		clock.Advance(20 * time.Millisecond)
		ft.Record(geom.Vec2{Y: 4})

		Expect(ft.Velocity().Y).To(BeNumerically("~", 200, 1e-6))
	})

	It("drops everything when the pointer rests before release", func() {
		clock.Advance(10 * time.Millisecond)
		ft.Record(geom.Vec2{X: 50})
		clock.Advance(200 * time.Millisecond)

		Expect(ft.Velocity()).To(Equal(geom.Vec2{}))
		Expect(ft.Len()).To(BeZero())
	})

	It("starts fresh on Start", func() {
		clock.Advance(10 * time.Millisecond)
		ft.Record(geom.Vec2{X: 50})
		ft.Start()
		Expect(ft.Len()).To(BeZero())
	})

	It("falls back to the default window", func() {
		Expect(interaction.NewFlingTracker(0, nil).Window).To(Equal(interaction.DefaultFlingWindow))
	})
})
