package geometry

import "math"

// ============================================================
// Vectors
// ============================================================

// Vec2 is a point on the floor plane. Coordinates are meters.
type Vec2 struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Vec3 is a point in space; Y is vertical.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Z: v.Z + o.Z}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Z: v.Z - o.Z}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Z: v.Z * f}
}

func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Z)
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Z*o.Z
}

// Cross returns the z component of the 3D cross product of v and o.
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Z - v.Z*o.X
}

// Normalize returns the unit vector of v, or the zero vector when v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Z: v.Z / l}
}

// Perp returns v rotated a quarter turn counterclockwise.
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Z, Z: v.X}
}

func (v Vec2) Equal(o Vec2) bool {
	return v.X == o.X && v.Z == o.Z
}

// ============================================================
// Helpers
// ============================================================

func Distance(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Z-b.Z)
}

func Midpoint(a, b Vec2) Vec2 {
	return Vec2{X: (a.X + b.X) / 2, Z: (a.Z + b.Z) / 2}
}

// Lerp returns the point at fraction t of the way from a to b.
func Lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{X: a.X + (b.X-a.X)*t, Z: a.Z + (b.Z-a.Z)*t}
}

// SnapToGrid quantizes both axes to the nearest multiple of gridSize.
// A non-positive grid size leaves the point untouched.
func SnapToGrid(p Vec2, gridSize float64) Vec2 {
	if gridSize <= 0 {
		return p
	}
	return Vec2{
		X: math.Round(p.X/gridSize) * gridSize,
		Z: math.Round(p.Z/gridSize) * gridSize,
	}
}

// PointSegmentDistance returns the distance from p to the segment a-b and the
// clamped fraction along a-b of the closest point.
func PointSegmentDistance(p, a, b Vec2) (float64, float64) {
	d := b.Sub(a)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return Distance(p, a), 0
	}

	t := p.Sub(a).Dot(d) / lenSq
	t = math.Max(0, math.Min(1, t))

	return Distance(p, Lerp(a, b, t)), t
}
