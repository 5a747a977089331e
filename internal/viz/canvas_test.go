package viz

import (
	"strings"
	"testing"
)

// lit reports whether a sub-pixel is set.
func lit(c *Canvas, x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell 0 = %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("cell 1 = %U", c.Grid[0][1])
	}
	if !lit(c, 3, 3) || lit(c, 1, 1) {
		t.Error("wrong sub-pixels set")
	}
	c.Clear()
	if c.Grid[0][0] != 0x2800 || c.Grid[0][1] != 0x2800 {
		t.Error("clear failed")
	}

	// out of range writes are ignored
	c.Set(-1, 0)
	c.Set(100, 100)
}

func TestDrawCircle(t *testing.T) {
	c := NewCanvas(20, 10) // 40x40 sub-pixels
	c.DrawCircle(20, 20, 10)

	for _, p := range [][2]int{{30, 20}, {10, 20}, {20, 10}, {20, 30}} {
		if !lit(c, p[0], p[1]) {
			t.Errorf("expected outline at %v", p)
		}
	}
	if lit(c, 20, 20) {
		t.Error("circle should not be filled")
	}
}

func TestDrawCircle_TinyAndHuge(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawCircle(4.5, 6.2, 0.3)
	if !lit(c, 4, 6) {
		t.Error("sub-pixel body should mark its center")
	}

	c.Clear()
	// a planet whose surface crosses the canvas
	c.DrawCircle(10, 1e7+10, 1e7)
	if !lit(c, 10, 10) {
		t.Error("expected the visible arc")
	}

	c.Clear()
	c.DrawCircle(-1e6, -1e6, 10)
	if strings.ContainsFunc(c.String(), func(r rune) bool { return r > 0x2800 }) {
		t.Error("off-canvas circle drew pixels")
	}
}

func TestDrawSegment_SkipsFarPoints(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawSegment(0, 0, 19, 0)
	if !lit(c, 10, 0) {
		t.Error("segment not drawn")
	}
	c.Clear()
	c.DrawSegment(0, 0, 1e12, 0)
	if lit(c, 0, 0) {
		t.Error("far segment should be skipped")
	}
}

func TestResize(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(0, 0)
	c.Resize(5, 3)
	if c.Width != 5 || c.Height != 3 || lit(c, 0, 0) {
		t.Errorf("resize: %dx%d", c.Width, c.Height)
	}
	if lines := strings.Count(c.String(), "\n"); lines != 3 {
		t.Errorf("lines = %d", lines)
	}
}
