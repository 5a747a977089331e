package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// SetPixel sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle outlines a circle given in sub-pixel coordinates. Only the
// part that falls on the canvas is walked, so huge radii stay cheap.
func (c *Canvas) DrawCircle(cx, cy, r float64) {
	w, h := float64(c.Width*2), float64(c.Height*4)
	if r < 1 {
		if cx >= 0 && cy >= 0 && cx < w && cy < h {
			c.Set(int(cx), int(cy))
		}
		return
	}
	if cx+r < 0 || cx-r >= w || cy+r < 0 || cy-r >= h {
		return
	}
	r2 := r * r

	x0, x1 := math.Max(0, math.Ceil(cx-r)), math.Min(w-1, math.Floor(cx+r))
	for x := x0; x <= x1; x++ {
		dy := math.Sqrt(math.Max(0, r2-(x-cx)*(x-cx)))
		c.setF(x, cy-dy)
		c.setF(x, cy+dy)
	}
	y0, y1 := math.Max(0, math.Ceil(cy-r)), math.Min(h-1, math.Floor(cy+r))
	for y := y0; y <= y1; y++ {
		dx := math.Sqrt(math.Max(0, r2-(y-cy)*(y-cy)))
		c.setF(cx-dx, y)
		c.setF(cx+dx, y)
	}
}

// DrawSegment draws a line between float sub-pixel points, skipping
// segments with an endpoint far off the canvas.
func (c *Canvas) DrawSegment(x0, y0, x1, y1 float64) {
	w, h := float64(c.Width*2), float64(c.Height*4)
	far := func(x, y float64) bool {
		return x < -w || x > 2*w || y < -h || y > 2*h || math.IsNaN(x) || math.IsNaN(y)
	}
	if far(x0, y0) || far(x1, y1) {
		return
	}
	c.DrawLine(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)))
}

func (c *Canvas) setF(x, y float64) {
	if x < 0 || y < 0 || math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	c.Set(int(x), int(y))
}

// Resize reallocates the grid and clears it.
func (c *Canvas) Resize(w, h int) {
	*c = *NewCanvas(w, h)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
