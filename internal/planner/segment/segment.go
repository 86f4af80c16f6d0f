package segment

import (
	"errors"
	"fmt"
	"sort"

	"planner/internal/planner/models"
)

const epsilon = 1e-9

var (
	ErrOutOfBounds = errors.New("opening extends past the wall")
	ErrOverlap     = errors.New("opening overlaps another opening")
)

// Kind labels a segment by the part of the wall it represents.
type Kind string

const (
	KindSolid  Kind = "solid"
	KindHeader Kind = "header"
	KindSill   Kind = "sill"
)

// Segment is an axis-aligned block in wall-local coordinates. OffsetAlongWall
// and VerticalCenter locate the block's center; Width runs along the wall.
type Segment struct {
	Kind            Kind    `json:"kind"`
	OffsetAlongWall float64 `json:"offsetAlongWall"`
	VerticalCenter  float64 `json:"verticalCenter"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
}

// Area returns the segment's face area.
func (s Segment) Area() float64 {
	return s.Width * s.Height
}

// Segments splits a wall around its openings into solid, header and sill
// blocks that tile the wall face. Openings for other walls are ignored.
func Segments(wall models.Wall, openings []models.Opening) []Segment {
	length := wall.Length()
	own := models.OpeningsOnWall(openings, wall.ID)

	if len(own) == 0 {
		return []Segment{solid(0, length, wall.Height)}
	}

	sort.SliceStable(own, func(i, j int) bool {
		return own[i].Position < own[j].Position
	})

	var out []Segment
	cursor := 0.0

	for _, o := range own {
		start, end := o.Span(length)
		start = clamp(start, cursor, length)
		end = clamp(end, start, length)
		if end-start <= epsilon {
			continue
		}

		if start-cursor > epsilon {
			out = append(out, solid(cursor, start, wall.Height))
		}

		width := end - start
		center := start + width/2
		top := o.SillHeight + o.Height

		if top < wall.Height {
			out = append(out, Segment{
				Kind:            KindHeader,
				OffsetAlongWall: center,
				VerticalCenter:  top + (wall.Height-top)/2,
				Width:           width,
				Height:          wall.Height - top,
			})
		}
		if o.SillHeight > 0 {
			out = append(out, Segment{
				Kind:            KindSill,
				OffsetAlongWall: center,
				VerticalCenter:  o.SillHeight / 2,
				Width:           width,
				Height:          o.SillHeight,
			})
		}

		cursor = end
	}

	if length-cursor > epsilon {
		out = append(out, solid(cursor, length, wall.Height))
	}

	return out
}

// NetArea returns the wall face area left after cutting out the openings.
func NetArea(wall models.Wall, openings []models.Opening) float64 {
	var total float64
	for _, s := range Segments(wall, openings) {
		total += s.Area()
	}
	return total
}

// CheckPlacement verifies that candidate fits inside wall and does not overlap
// any opening already on it. Existing openings on other walls and the
// candidate itself (matched by id) are ignored.
func CheckPlacement(wall models.Wall, existing []models.Opening, candidate models.Opening) error {
	length := wall.Length()
	start, end := candidate.Span(length)

	if start < -epsilon || end > length+epsilon {
		return fmt.Errorf("%w: span [%.3f, %.3f] on wall of length %.3f", ErrOutOfBounds, start, end, length)
	}

	for _, o := range models.OpeningsOnWall(existing, wall.ID) {
		if candidate.ID != "" && o.ID == candidate.ID {
			continue
		}
		os, oe := o.Span(length)
		if start < oe-epsilon && os < end-epsilon {
			return fmt.Errorf("%w: %s", ErrOverlap, o.ID)
		}
	}

	return nil
}

func solid(from, to, height float64) Segment {
	return Segment{
		Kind:            KindSolid,
		OffsetAlongWall: (from + to) / 2,
		VerticalCenter:  height / 2,
		Width:           to - from,
		Height:          height,
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
