// Package export renders recorded runs as standalone SVG images.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/storage"
)

var palette = []string{"#00ff00", "#38bdf8", "#f97316", "#facc15", "#c084fc", "#ef4444"}

// Trajectory is a polyline in simulation coordinates.
type Trajectory struct {
	Name   string
	Color  string
	Radius float64
	Points []geom.Vec2
}

// TrajectoriesFromRecording splits a recording into one trajectory per body,
// skipping samples where the body was absent.
func TrajectoriesFromRecording(rec *storage.Recording) []Trajectory {
	out := make([]Trajectory, len(rec.Bodies))
	for i, b := range rec.Bodies {
		out[i] = Trajectory{Name: b.Name, Color: b.Color, Radius: b.Radius}
		if out[i].Color == "" {
			out[i].Color = palette[i%len(palette)]
		}
	}
	for _, s := range rec.Samples {
		for i, p := range s.Positions {
			if i < len(out) && p.IsFinite() {
				out[i].Points = append(out[i].Points, p)
			}
		}
	}
	return out
}

// TrajectoriesToSVG draws every trajectory into one image, scaled to fit
// with 10% padding and a shared aspect ratio. The y axis points down, as in
// the simulation.
func TrajectoriesToSVG(trajs []Trajectory, width, height int) string {
	bounds, ok := boundsOf(trajs)
	if !ok {
		return ""
	}

	rangeX := bounds.Width()
	rangeY := bounds.Height()
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	pad := 0.1 * math.Max(rangeX, rangeY)
	scale := math.Min(float64(width)/(rangeX+2*pad), float64(height)/(rangeY+2*pad))
	center := bounds.Center()

	project := func(p geom.Vec2) (float64, float64) {
		return float64(width)/2 + (p.X-center.X)*scale, float64(height)/2 + (p.Y-center.Y)*scale
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, t := range trajs {
		if len(t.Points) == 0 {
			continue
		}
		if len(t.Points) > 1 {
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" stroke-opacity="0.7" d="M`, t.Color))
			for i, p := range t.Points {
				x, y := project(p)
				if i == 0 {
					sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
				}
			}
			sb.WriteString("\"/>\n")
		}
		x, y := project(t.Points[len(t.Points)-1])
		r := math.Max(t.Radius*scale, 2)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"><title>%s</title></circle>
`, x, y, r, t.Color, t.Name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func boundsOf(trajs []Trajectory) (geom.Box, bool) {
	var b geom.Box
	found := false
	for _, t := range trajs {
		for _, p := range t.Points {
			if !found {
				b = geom.Box{Min: p, Max: p}
				found = true
				continue
			}
			b.Min.X = math.Min(b.Min.X, p.X)
			b.Min.Y = math.Min(b.Min.Y, p.Y)
			b.Max.X = math.Max(b.Max.X, p.X)
			b.Max.Y = math.Max(b.Max.Y, p.Y)
		}
	}
	return b, found
}
