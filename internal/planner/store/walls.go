package store

import (
	"fmt"
	"slices"

	"planner/internal/planner/geometry"
	"planner/internal/planner/graph"
	"planner/internal/planner/models"
	"planner/internal/planner/segment"
)

// ============================================================
// Walls
// ============================================================

// AddWall grid-snaps both endpoints and appends the wall. An empty ID is
// replaced with a generated one. The stored wall is returned.
func (s *Store) AddWall(w models.Wall) (models.Wall, error) {
	err := s.mutate(func() error {
		id, err := s.ensureID(w.ID)
		if err != nil {
			return err
		}
		if err := s.ensureUnlocked(w.Layer); err != nil {
			return err
		}
		w.ID = id
		w.Start = s.snapper.Snap(w.Start)
		w.End = s.snapper.Snap(w.End)
		w.Layer = copyPtr(w.Layer)
		if w.Start.Equal(w.End) {
			return fmt.Errorf("%w: wall %s has zero length", ErrInvalidEntity, w.ID)
		}
		s.doc.Walls = append(s.doc.Walls, w)
		return nil
	})
	if err != nil {
		return models.Wall{}, err
	}
	return w, nil
}

// UpdateWall applies patch to the wall. Changed endpoints are grid-snapped.
// Openings are not re-checked against the new length.
func (s *Store) UpdateWall(id string, patch models.WallPatch) (models.Wall, error) {
	var updated models.Wall
	err := s.mutate(func() error {
		i := findIndex(s.doc.Walls, id, wallID)
		if i < 0 {
			return notFound("wall", id)
		}
		if err := s.ensureUnlocked(s.doc.Walls[i].Layer); err != nil {
			return err
		}
		updated = patch.Apply(s.doc.Walls[i])
		updated.Start = s.snapper.Snap(updated.Start)
		updated.End = s.snapper.Snap(updated.End)
		updated.Layer = copyPtr(updated.Layer)
		if updated.Start.Equal(updated.End) {
			return fmt.Errorf("%w: wall %s has zero length", ErrInvalidEntity, id)
		}
		s.doc.Walls[i] = updated
		return nil
	})
	return updated, err
}

// DeleteWall removes the wall together with every opening hosted on it as a
// single undoable step.
func (s *Store) DeleteWall(id string) error {
	return s.mutate(func() error {
		i := findIndex(s.doc.Walls, id, wallID)
		if i < 0 {
			return notFound("wall", id)
		}
		if err := s.ensureUnlocked(s.doc.Walls[i].Layer); err != nil {
			return err
		}
		s.doc.Walls = slices.Delete(s.doc.Walls, i, i+1)

		removed := []string{id}
		s.doc.Openings = slices.DeleteFunc(s.doc.Openings, func(o models.Opening) bool {
			if o.WallID == id {
				removed = append(removed, o.ID)
				return true
			}
			return false
		})
		s.clearSelectionOf(removed...)
		return nil
	})
}

func (s *Store) Walls() []models.Wall {
	return slices.Clone(s.doc.Walls)
}

func (s *Store) Wall(id string) (models.Wall, bool) {
	i := findIndex(s.doc.Walls, id, wallID)
	if i < 0 {
		return models.Wall{}, false
	}
	return s.doc.Walls[i], true
}

// ============================================================
// Openings
// ============================================================

// AddOpening places a door or window on an existing wall. The opening must
// lie within the wall and must not overlap other openings on it.
func (s *Store) AddOpening(o models.Opening) (models.Opening, error) {
	err := s.mutate(func() error {
		id, err := s.ensureID(o.ID)
		if err != nil {
			return err
		}
		o.ID = id
		o.Layer = copyPtr(o.Layer)

		wall, ok := s.Wall(o.WallID)
		if !ok {
			return notFound("wall", o.WallID)
		}
		if err := s.ensureUnlocked(wall.Layer); err != nil {
			return err
		}
		if err := s.ensureUnlocked(o.Layer); err != nil {
			return err
		}
		if err := segment.CheckPlacement(wall, s.doc.Openings, o); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
		}
		s.doc.Openings = append(s.doc.Openings, o)
		return nil
	})
	if err != nil {
		return models.Opening{}, err
	}
	return o, nil
}

// UpdateOpening applies patch without re-checking placement on the wall.
func (s *Store) UpdateOpening(id string, patch models.OpeningPatch) (models.Opening, error) {
	var updated models.Opening
	err := s.mutate(func() error {
		i := findIndex(s.doc.Openings, id, openingID)
		if i < 0 {
			return notFound("opening", id)
		}
		if err := s.ensureUnlocked(s.doc.Openings[i].Layer); err != nil {
			return err
		}
		updated = patch.Apply(s.doc.Openings[i])
		updated.Layer = copyPtr(updated.Layer)
		s.doc.Openings[i] = updated
		return nil
	})
	return updated, err
}

func (s *Store) DeleteOpening(id string) error {
	return s.mutate(func() error {
		i := findIndex(s.doc.Openings, id, openingID)
		if i < 0 {
			return notFound("opening", id)
		}
		if err := s.ensureUnlocked(s.doc.Openings[i].Layer); err != nil {
			return err
		}
		s.doc.Openings = slices.Delete(s.doc.Openings, i, i+1)
		s.clearSelectionOf(id)
		return nil
	})
}

func (s *Store) Openings() []models.Opening {
	return slices.Clone(s.doc.Openings)
}

func (s *Store) OpeningsForWall(wallID string) []models.Opening {
	return models.OpeningsOnWall(s.doc.Openings, wallID)
}

// ============================================================
// Derived geometry
// ============================================================

// WallSegments splits the wall into solid, header and sill pieces around
// its openings.
func (s *Store) WallSegments(id string) ([]segment.Segment, error) {
	wall, ok := s.Wall(id)
	if !ok {
		return nil, notFound("wall", id)
	}
	return segment.Segments(wall, s.doc.Openings), nil
}

// DetectRoomAt returns the smallest closed room around p, or nil.
func (s *Store) DetectRoomAt(p geometry.Vec2) *graph.Room {
	return graph.DetectRoom(s.doc.Walls, p)
}

// DetectRooms returns every closed room formed by the current walls.
func (s *Store) DetectRooms() []*graph.Room {
	return graph.DetectRooms(s.doc.Walls)
}
