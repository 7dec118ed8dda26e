// Package geom holds the 2D primitives shared by perception, movement and
// world generation. Screen coordinates: +X right, +Y down.
package geom

import "math"

// Vec2 is a point or direction in world space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Finite reports whether both components are finite numbers.
func (v Vec2) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec2) float64 {
	return b.Sub(a).Len()
}

// Rotate turns v by deg degrees. Positive angles turn clockwise on screen
// (from -Y toward +X).
func Rotate(v Vec2, deg float64) Vec2 {
	rad := deg * math.Pi / 180.0
	sin, cos := math.Sincos(rad)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Heading returns the unit vector for a facing of deg degrees, where 0 faces
// up (-Y) and 90 faces right (+X).
func Heading(deg float64) Vec2 {
	return Rotate(Vec2{X: 0, Y: -1}, deg)
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Center returns the midpoint of r.
func (r Rect) Center() Vec2 { return Vec2{r.X + r.W/2, r.Y + r.H/2} }

// WithCenter returns r moved so that its midpoint is c.
func (r Rect) WithCenter(c Vec2) Rect {
	r.X = c.X - r.W/2
	r.Y = c.Y - r.H/2
	return r
}

// Translate returns r shifted by d.
func (r Rect) Translate(d Vec2) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Max returns the bottom-right corner.
func (r Rect) Max() Vec2 { return Vec2{r.X + r.W, r.Y + r.H} }

// Valid reports whether r has a strictly positive, finite size.
func (r Rect) Valid() bool {
	return r.W > 0 && r.H > 0 && !math.IsInf(r.W, 0) && !math.IsInf(r.H, 0)
}

// Overlaps reports whether r and o share interior area. Rectangles that only
// touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Contains reports whether p lies inside r or on its border.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Corners returns the four corners clockwise from the top-left.
func (r Rect) Corners() [4]Vec2 {
	return [4]Vec2{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X + r.W, r.Y + r.H},
		{r.X, r.Y + r.H},
	}
}

// Bounds is the playable world rectangle expressed by its extents.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Rect converts b to a Rect.
func (b Bounds) Rect() Rect {
	return Rect{X: b.MinX, Y: b.MinY, W: b.MaxX - b.MinX, H: b.MaxY - b.MinY}
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Valid reports whether b spans a positive area.
func (b Bounds) Valid() bool { return b.MaxX > b.MinX && b.MaxY > b.MinY }

// Clamp limits v to [lo, hi]. When the range is inverted the midpoint wins.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
