package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceAndMidpoint(t *testing.T) {
	a := Vec2{X: 0, Z: 0}
	b := Vec2{X: 3, Z: 4}

	assert.InDelta(t, 5.0, Distance(a, b), 1e-9)
	assert.Equal(t, Vec2{X: 1.5, Z: 2}, Midpoint(a, b))
	assert.Equal(t, Vec2{X: 0.75, Z: 1}, Lerp(a, b, 0.25))
}

func TestSnapToGrid(t *testing.T) {
	p := SnapToGrid(Vec2{X: 1.234, Z: -0.26}, 0.1)
	assert.InDelta(t, 1.2, p.X, 1e-9)
	assert.InDelta(t, -0.3, p.Z, 1e-9)

	p = SnapToGrid(Vec2{X: 0.74, Z: 0.76}, 0.5)
	assert.InDelta(t, 0.5, p.X, 1e-9)
	assert.InDelta(t, 1.0, p.Z, 1e-9)
}

func TestSnapToGridIgnoresNonPositiveSize(t *testing.T) {
	p := Vec2{X: 1.234, Z: 5.678}
	assert.Equal(t, p, SnapToGrid(p, 0))
}

func TestPointSegmentDistance(t *testing.T) {
	a := Vec2{X: 0, Z: 0}
	b := Vec2{X: 4, Z: 0}

	d, frac := PointSegmentDistance(Vec2{X: 1, Z: 2}, a, b)
	assert.InDelta(t, 2.0, d, 1e-9)
	assert.InDelta(t, 0.25, frac, 1e-9)

	d, frac = PointSegmentDistance(Vec2{X: 6, Z: 0}, a, b)
	assert.InDelta(t, 2.0, d, 1e-9)
	assert.InDelta(t, 1.0, frac, 1e-9)

	d, frac = PointSegmentDistance(Vec2{X: 1, Z: 1}, a, a)
	assert.InDelta(t, 1.4142135, d, 1e-6)
	assert.Zero(t, frac)
}

func TestCrossAndPerp(t *testing.T) {
	east := Vec2{X: 1}
	north := Vec2{Z: 1}

	assert.Equal(t, 1.0, east.Cross(north))
	assert.Equal(t, north, east.Perp())
	assert.Equal(t, Vec2{}, Vec2{}.Normalize())
}
