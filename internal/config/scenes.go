package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/geom"
)

// Scene is a named starting layout. G overrides the gravitational constant
// when non-zero, for scenes laid out in scaled units.
type Scene struct {
	Name        string
	Description string
	G           float64
	Center      geom.Vec2
	Zoom        float64
	Bodies      []BodySpec
}

const (
	earthMass   = 5.972e24
	earthRadius = 6.371e6
)

var Scenes = map[string]*Scene{
	"earth-drop": {
		Name:        "earth-drop",
		Description: "a 1 kg probe thrown sideways 200 m above the earth",
		Center:      geom.Vec2{Y: -earthRadius - 150},
		Zoom:        1,
		Bodies: []BodySpec{
			{Name: "earth", Color: "#3b82f6", Mass: earthMass, Radius: earthRadius, Uninteractable: true},
			{Name: "probe", Color: "#f97316", Mass: 1, Radius: 10, Y: -earthRadius - 200, VX: 100},
		},
	},
	"binary": {
		Name:        "binary",
		Description: "two equal masses on a circular orbit",
		Zoom:        2,
		Bodies: []BodySpec{
			{Name: "alpha", Color: "#facc15", Mass: 1e12, Radius: 8, X: -50, VY: -0.578},
			{Name: "beta", Color: "#38bdf8", Mass: 1e12, Radius: 8, X: 50, VY: 0.578},
		},
	},
	"collision": {
		Name:        "collision",
		Description: "two bodies meeting head on",
		Zoom:        4,
		Bodies: []BodySpec{
			{Name: "left", Color: "#ef4444", Mass: 1000, Radius: 10, X: -40, VX: 5},
			{Name: "right", Color: "#22c55e", Mass: 1000, Radius: 10, X: 40, VX: -5},
		},
	},
	"solar": {
		Name:        "solar",
		Description: "a star with three planets, G = 1",
		G:           1,
		Zoom:        1,
		Bodies:      solarBodies(),
	},
	"pile": {
		Name:        "pile",
		Description: "a 3x3 grid collapsing into a clump",
		Zoom:        3,
		Bodies:      pileBodies(),
	},
}

func solarBodies() []BodySpec {
	const sun = 1000.0
	out := []BodySpec{{Name: "sun", Color: "#fde047", Mass: sun, Radius: 20}}
	orbits := []struct {
		name  string
		color string
		r     float64
	}{
		{"mercury", "#a8a29e", 100},
		{"venus", "#fb923c", 200},
		{"earth", "#60a5fa", 300},
	}
	for _, o := range orbits {
		out = append(out, BodySpec{
			Name:   o.name,
			Color:  o.color,
			Mass:   0.01,
			Radius: 5,
			X:      o.r,
			VY:     math.Sqrt(sun / o.r),
		})
	}
	return out
}

func pileBodies() []BodySpec {
	var out []BodySpec
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out = append(out, BodySpec{
				Name:   fmt.Sprintf("p%d%d", i, j),
				Color:  "#c084fc",
				Mass:   1e13,
				Radius: 8,
				X:      float64(i-1) * 30,
				Y:      float64(j-1) * 30,
			})
		}
	}
	return out
}

func GetScene(name string) (*Scene, bool) {
	sc, ok := Scenes[name]
	return sc, ok
}

func ListScenes() []string {
	names := make([]string, 0, len(Scenes))
	for name := range Scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scene) Build(trailCapacity int) ([]*body.Body, error) {
	out := make([]*body.Body, 0, len(s.Bodies))
	for _, spec := range s.Bodies {
		b, err := spec.Body(trailCapacity)
		if err != nil {
			return nil, fmt.Errorf("scene %s: %w", s.Name, err)
		}
		out = append(out, b)
	}
	return out, nil
}
