package store

import (
	"slices"

	"planner/internal/planner/geometry"
	"planner/internal/planner/graph"
	"planner/internal/planner/models"
)

// ============================================================
// Placed objects
// ============================================================

func (s *Store) AddObject(o models.PlacedObject) (models.PlacedObject, error) {
	err := s.mutate(func() error {
		id, err := s.ensureID(o.ID)
		if err != nil {
			return err
		}
		if err := s.ensureUnlocked(o.Layer); err != nil {
			return err
		}
		o.ID = id
		o.Layer = copyPtr(o.Layer)
		s.doc.Objects = append(s.doc.Objects, o)
		return nil
	})
	if err != nil {
		return models.PlacedObject{}, err
	}
	return o, nil
}

// PlaceFurniture drops an instance of the current furniture preset at
// position on the floor.
func (s *Store) PlaceFurniture(position geometry.Vec2) (models.PlacedObject, error) {
	if s.furniturePreset == "" {
		return models.PlacedObject{}, ErrNoPreset
	}
	return s.AddObject(models.NewPlacedObject(s.furniturePreset, position))
}

func (s *Store) UpdateObject(id string, patch models.PlacedObjectPatch) (models.PlacedObject, error) {
	var updated models.PlacedObject
	err := s.mutate(func() error {
		i := findIndex(s.doc.Objects, id, objectID)
		if i < 0 {
			return notFound("object", id)
		}
		if err := s.ensureUnlocked(s.doc.Objects[i].Layer); err != nil {
			return err
		}
		updated = patch.Apply(s.doc.Objects[i])
		updated.Layer = copyPtr(updated.Layer)
		s.doc.Objects[i] = updated
		return nil
	})
	return updated, err
}

func (s *Store) DeleteObject(id string) error {
	return s.mutate(func() error {
		i := findIndex(s.doc.Objects, id, objectID)
		if i < 0 {
			return notFound("object", id)
		}
		if err := s.ensureUnlocked(s.doc.Objects[i].Layer); err != nil {
			return err
		}
		s.doc.Objects = slices.Delete(s.doc.Objects, i, i+1)
		s.clearSelectionOf(id)
		return nil
	})
}

func (s *Store) Objects() []models.PlacedObject {
	return slices.Clone(s.doc.Objects)
}

// ============================================================
// Dimensions
// ============================================================

// AddDimension snaps both ends to wall endpoints or midpoints when close
// enough, otherwise to the grid.
func (s *Store) AddDimension(d models.Dimension) (models.Dimension, error) {
	err := s.mutate(func() error {
		id, err := s.ensureID(d.ID)
		if err != nil {
			return err
		}
		if err := s.ensureUnlocked(d.Layer); err != nil {
			return err
		}
		d.ID = id
		d.Start = s.snapper.SnapToFeatures(d.Start, s.doc.Walls).Point
		d.End = s.snapper.SnapToFeatures(d.End, s.doc.Walls).Point
		d.Label = copyPtr(d.Label)
		d.Layer = copyPtr(d.Layer)
		s.doc.Dimensions = append(s.doc.Dimensions, d)
		return nil
	})
	if err != nil {
		return models.Dimension{}, err
	}
	return d, nil
}

func (s *Store) UpdateDimension(id string, patch models.DimensionPatch) (models.Dimension, error) {
	var updated models.Dimension
	err := s.mutate(func() error {
		i := findIndex(s.doc.Dimensions, id, dimensionID)
		if i < 0 {
			return notFound("dimension", id)
		}
		if err := s.ensureUnlocked(s.doc.Dimensions[i].Layer); err != nil {
			return err
		}
		updated = patch.Apply(s.doc.Dimensions[i])
		updated.Label = copyPtr(updated.Label)
		updated.Layer = copyPtr(updated.Layer)
		s.doc.Dimensions[i] = updated
		return nil
	})
	return updated, err
}

func (s *Store) DeleteDimension(id string) error {
	return s.mutate(func() error {
		i := findIndex(s.doc.Dimensions, id, dimensionID)
		if i < 0 {
			return notFound("dimension", id)
		}
		if err := s.ensureUnlocked(s.doc.Dimensions[i].Layer); err != nil {
			return err
		}
		s.doc.Dimensions = slices.Delete(s.doc.Dimensions, i, i+1)
		s.clearSelectionOf(id)
		return nil
	})
}

func (s *Store) Dimensions() []models.Dimension {
	return slices.Clone(s.doc.Dimensions)
}

// ============================================================
// Room labels
// ============================================================

func (s *Store) AddRoomLabel(r models.RoomLabel) (models.RoomLabel, error) {
	err := s.mutate(func() error {
		id, err := s.ensureID(r.ID)
		if err != nil {
			return err
		}
		r.ID = id
		r.Position = s.snapper.Snap(r.Position)
		r.ManualArea = copyPtr(r.ManualArea)
		s.doc.RoomLabels = append(s.doc.RoomLabels, r)
		return nil
	})
	if err != nil {
		return models.RoomLabel{}, err
	}
	return r, nil
}

// PlaceRoomLabel adds a label at the grid-snapped position. When that point
// lies inside a closed room, the room's area is frozen into the label.
func (s *Store) PlaceRoomLabel(position geometry.Vec2, name string) (models.RoomLabel, error) {
	position = s.snapper.Snap(position)
	label := models.NewRoomLabel(position, name)
	if room := graph.DetectRoom(s.doc.Walls, position); room != nil {
		label.ManualArea = models.Ptr(room.Area)
	}
	return s.AddRoomLabel(label)
}

func (s *Store) UpdateRoomLabel(id string, patch models.RoomLabelPatch) (models.RoomLabel, error) {
	var updated models.RoomLabel
	err := s.mutate(func() error {
		i := findIndex(s.doc.RoomLabels, id, roomLabelID)
		if i < 0 {
			return notFound("room label", id)
		}
		updated = patch.Apply(s.doc.RoomLabels[i])
		updated.ManualArea = copyPtr(updated.ManualArea)
		s.doc.RoomLabels[i] = updated
		return nil
	})
	return updated, err
}

func (s *Store) DeleteRoomLabel(id string) error {
	return s.mutate(func() error {
		i := findIndex(s.doc.RoomLabels, id, roomLabelID)
		if i < 0 {
			return notFound("room label", id)
		}
		s.doc.RoomLabels = slices.Delete(s.doc.RoomLabels, i, i+1)
		s.clearSelectionOf(id)
		return nil
	})
}

func (s *Store) RoomLabels() []models.RoomLabel {
	return slices.Clone(s.doc.RoomLabels)
}

// ============================================================
// Text annotations
// ============================================================

func (s *Store) AddTextAnnotation(t models.TextAnnotation) (models.TextAnnotation, error) {
	err := s.mutate(func() error {
		id, err := s.ensureID(t.ID)
		if err != nil {
			return err
		}
		t.ID = id
		t.Position = s.snapper.Snap(t.Position)
		t.LeaderTarget = copyPtr(t.LeaderTarget)
		s.doc.TextAnnotations = append(s.doc.TextAnnotations, t)
		return nil
	})
	if err != nil {
		return models.TextAnnotation{}, err
	}
	return t, nil
}

func (s *Store) UpdateTextAnnotation(id string, patch models.TextAnnotationPatch) (models.TextAnnotation, error) {
	var updated models.TextAnnotation
	err := s.mutate(func() error {
		i := findIndex(s.doc.TextAnnotations, id, textAnnotationID)
		if i < 0 {
			return notFound("text annotation", id)
		}
		updated = patch.Apply(s.doc.TextAnnotations[i])
		updated.LeaderTarget = copyPtr(updated.LeaderTarget)
		s.doc.TextAnnotations[i] = updated
		return nil
	})
	return updated, err
}

func (s *Store) DeleteTextAnnotation(id string) error {
	return s.mutate(func() error {
		i := findIndex(s.doc.TextAnnotations, id, textAnnotationID)
		if i < 0 {
			return notFound("text annotation", id)
		}
		s.doc.TextAnnotations = slices.Delete(s.doc.TextAnnotations, i, i+1)
		s.clearSelectionOf(id)
		return nil
	})
}

func (s *Store) TextAnnotations() []models.TextAnnotation {
	return slices.Clone(s.doc.TextAnnotations)
}

// ============================================================
// Material assignments
// ============================================================

// AssignMaterial sets the material of one face of a target. An existing
// assignment for the same target and face is replaced in place.
func (s *Store) AssignMaterial(m models.MaterialAssignment) (models.MaterialAssignment, error) {
	err := s.mutate(func() error {
		i := slices.IndexFunc(s.doc.MaterialAssignments, func(a models.MaterialAssignment) bool {
			return a.TargetID == m.TargetID && a.TargetFace == m.TargetFace
		})
		if i >= 0 {
			m.ID = s.doc.MaterialAssignments[i].ID
			s.doc.MaterialAssignments[i] = m
			return nil
		}

		id, err := s.ensureID(m.ID)
		if err != nil {
			return err
		}
		m.ID = id
		s.doc.MaterialAssignments = append(s.doc.MaterialAssignments, m)
		return nil
	})
	if err != nil {
		return models.MaterialAssignment{}, err
	}
	return m, nil
}

func (s *Store) UpdateMaterialAssignment(id string, patch models.MaterialAssignmentPatch) (models.MaterialAssignment, error) {
	var updated models.MaterialAssignment
	err := s.mutate(func() error {
		i := findIndex(s.doc.MaterialAssignments, id, materialID)
		if i < 0 {
			return notFound("material assignment", id)
		}
		updated = patch.Apply(s.doc.MaterialAssignments[i])
		s.doc.MaterialAssignments[i] = updated
		return nil
	})
	return updated, err
}

func (s *Store) DeleteMaterialAssignment(id string) error {
	return s.mutate(func() error {
		i := findIndex(s.doc.MaterialAssignments, id, materialID)
		if i < 0 {
			return notFound("material assignment", id)
		}
		s.doc.MaterialAssignments = slices.Delete(s.doc.MaterialAssignments, i, i+1)
		return nil
	})
}

func (s *Store) MaterialAssignments() []models.MaterialAssignment {
	return slices.Clone(s.doc.MaterialAssignments)
}
