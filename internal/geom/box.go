package geom

// Box is an axis-aligned rectangle given by its min and max corners.
type Box struct {
	Min, Max Vec2
}

// BoxAround returns the box of the given size centered at c.
func BoxAround(c Vec2, width, height float64) Box {
	hw, hh := width/2, height/2
	return Box{
		Min: Vec2{c.X - hw, c.Y - hh},
		Max: Vec2{c.X + hw, c.Y + hh},
	}
}

func (b Box) Width() float64  { return b.Max.X - b.Min.X }
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

func (b Box) Center() Vec2 {
	return Vec2{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Intersects reports whether b and o overlap. Touching edges count.
func (b Box) Intersects(o Box) bool {
	return b.Min.X <= o.Max.X && o.Min.X <= b.Max.X &&
		b.Min.Y <= o.Max.Y && o.Min.Y <= b.Max.Y
}

func (b Box) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
