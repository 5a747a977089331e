// Package camera maps between screen pixels and simulation coordinates.
package camera

import (
	"math"

	"github.com/san-kum/gravbox/internal/geom"
)

const (
	DefaultMinZoom   = 1e-6
	DefaultZoomSpeed = 0.001
)

// Camera is a 2D view onto the simulation plane. Zoom is pixels per
// simulation unit and is always at least MinZoom.
type Camera struct {
	Center    geom.Vec2
	Zoom      float64
	MinZoom   float64
	ZoomSpeed float64
}

func New(center geom.Vec2, zoom float64) *Camera {
	c := &Camera{
		Center:    center,
		Zoom:      zoom,
		MinZoom:   DefaultMinZoom,
		ZoomSpeed: DefaultZoomSpeed,
	}
	c.clampZoom()
	return c
}

// ScreenToSimulation converts a screen point given the viewport center in
// screen coordinates.
func (c *Camera) ScreenToSimulation(p, viewportCenter geom.Vec2) geom.Vec2 {
	return c.Center.Add(p.Sub(viewportCenter).Scale(1 / c.Zoom))
}

func (c *Camera) SimulationToScreen(p, viewportCenter geom.Vec2) geom.Vec2 {
	return viewportCenter.Add(p.Sub(c.Center).Scale(c.Zoom))
}

// Pan moves the view by a screen-space delta. Dragging right moves the
// scene right, so the center moves left.
func (c *Camera) Pan(delta geom.Vec2) {
	c.Center = c.Center.Sub(delta.Scale(1 / c.Zoom))
}

// ZoomAt scales the view by 2^(-wheel*ZoomSpeed), keeping the simulation
// point under anchor fixed on screen. Positive wheel values zoom out.
func (c *Camera) ZoomAt(wheel float64, anchor, viewportCenter geom.Vec2) {
	before := c.ScreenToSimulation(anchor, viewportCenter)
	c.Zoom *= math.Exp2(-wheel * c.ZoomSpeed)
	c.clampZoom()
	after := c.ScreenToSimulation(anchor, viewportCenter)
	c.Center = c.Center.Add(before.Sub(after))
}

// VisibleRect is the simulation-space box covered by a viewport of the
// given pixel size.
func (c *Camera) VisibleRect(viewportSize geom.Vec2) geom.Box {
	return geom.BoxAround(c.Center, viewportSize.X/c.Zoom, viewportSize.Y/c.Zoom)
}

func (c *Camera) Focus(p geom.Vec2) { c.Center = p }

func (c *Camera) clampZoom() {
	floor := c.MinZoom
	if !(floor > 0) {
		floor = DefaultMinZoom
	}
	if !(c.Zoom >= floor) {
		c.Zoom = floor
	}
}
