package body

import "github.com/san-kum/gravbox/internal/geom"

const DefaultTrailCapacity = 150

// TrailPoint is a recorded position stamped with simulation time.
type TrailPoint struct {
	Position geom.Vec2
	Time     float64
}

// Trail is a fixed-capacity ring of recent positions. When full, the oldest
// point is overwritten.
type Trail struct {
	buf  []TrailPoint
	head int
	size int
}

func NewTrail(capacity int) *Trail {
	if capacity < 1 {
		capacity = 1
	}
	return &Trail{buf: make([]TrailPoint, capacity)}
}

func (t *Trail) Push(pos geom.Vec2, simTime float64) {
	t.buf[t.head] = TrailPoint{Position: pos, Time: simTime}
	t.head = (t.head + 1) % len(t.buf)
	if t.size < len(t.buf) {
		t.size++
	}
}

func (t *Trail) Len() int { return t.size }
func (t *Trail) Cap() int { return len(t.buf) }

// Points returns the stored points oldest first, newest last.
func (t *Trail) Points() []TrailPoint {
	out := make([]TrailPoint, t.size)
	start := (t.head - t.size + len(t.buf)) % len(t.buf)
	for i := 0; i < t.size; i++ {
		out[i] = t.buf[(start+i)%len(t.buf)]
	}
	return out
}

// Last returns the newest point.
func (t *Trail) Last() (TrailPoint, bool) {
	if t.size == 0 {
		return TrailPoint{}, false
	}
	return t.buf[(t.head-1+len(t.buf))%len(t.buf)], true
}

func (t *Trail) Clear() {
	t.head = 0
	t.size = 0
}
