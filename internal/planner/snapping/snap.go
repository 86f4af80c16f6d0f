package snapping

import (
	"planner/internal/planner/geometry"
	"planner/internal/planner/models"
)

const (
	DefaultGridSize  = 0.1
	DefaultTolerance = 0.3
)

// Kind tells which feature a snapped point came from.
type Kind string

const (
	KindGrid     Kind = "grid"
	KindEndpoint Kind = "endpoint"
	KindMidpoint Kind = "midpoint"
)

// Result is a snapped point and the feature it snapped to.
type Result struct {
	Point  geometry.Vec2
	Kind   Kind
	WallID string
}

// Snapper quantizes cursor points. It has no state beyond its settings.
type Snapper struct {
	GridSize  float64
	Tolerance float64
}

func New() Snapper {
	return Snapper{GridSize: DefaultGridSize, Tolerance: DefaultTolerance}
}

// Snap rounds both axes to the grid.
func (s Snapper) Snap(p geometry.Vec2) geometry.Vec2 {
	return geometry.SnapToGrid(p, s.GridSize)
}

// SnapToFeatures returns the closest wall endpoint or midpoint within the
// tolerance, falling back to the grid. Ties keep the first candidate in wall
// order, endpoints before midpoints.
func (s Snapper) SnapToFeatures(p geometry.Vec2, walls []models.Wall) Result {
	best := Result{Point: s.Snap(p), Kind: KindGrid}
	bestDist := s.Tolerance
	found := false

	consider := func(candidate geometry.Vec2, kind Kind, wallID string) {
		d := geometry.Distance(p, candidate)
		if d > s.Tolerance {
			return
		}
		if found && d >= bestDist {
			return
		}
		found = true
		bestDist = d
		best = Result{Point: candidate, Kind: kind, WallID: wallID}
	}

	for _, w := range walls {
		consider(w.Start, KindEndpoint, w.ID)
		consider(w.End, KindEndpoint, w.ID)
	}
	for _, w := range walls {
		consider(geometry.Midpoint(w.Start, w.End), KindMidpoint, w.ID)
	}

	return best
}
