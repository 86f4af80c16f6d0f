package store

import (
	"fmt"
	"slices"

	"planner/internal/planner/geometry"
	"planner/internal/planner/models"
)

// ============================================================
// Layers
// ============================================================

func (s *Store) AddLayer(l models.Layer) error {
	return s.mutate(func() error {
		if l.Name == "" {
			return fmt.Errorf("%w: layer name is empty", ErrInvalidEntity)
		}
		if findIndex(s.doc.Layers, l.Name, layerName) >= 0 {
			return fmt.Errorf("%w: layer %s", ErrDuplicateID, l.Name)
		}
		s.doc.Layers = append(s.doc.Layers, l)
		return nil
	})
}

func (s *Store) UpdateLayer(name string, patch models.LayerPatch) (models.Layer, error) {
	var updated models.Layer
	err := s.mutate(func() error {
		i := findIndex(s.doc.Layers, name, layerName)
		if i < 0 {
			return notFound("layer", name)
		}
		updated = patch.Apply(s.doc.Layers[i])
		s.doc.Layers[i] = updated
		return nil
	})
	return updated, err
}

// DeleteLayer removes the layer definition. Entities referring to it stay
// and resolve as visible and unlocked.
func (s *Store) DeleteLayer(name string) error {
	return s.mutate(func() error {
		i := findIndex(s.doc.Layers, name, layerName)
		if i < 0 {
			return notFound("layer", name)
		}
		s.doc.Layers = slices.Delete(s.doc.Layers, i, i+1)
		return nil
	})
}

func (s *Store) Layers() []models.Layer {
	return slices.Clone(s.doc.Layers)
}

// ============================================================
// Units & camera
// ============================================================

func (s *Store) SetUnits(u models.Units) error {
	if u != models.UnitsMetric && u != models.UnitsImperial {
		return fmt.Errorf("%w: units %q", ErrInvalidEntity, u)
	}
	return s.mutate(func() error {
		s.doc.Units = u
		return nil
	})
}

func (s *Store) Units() models.Units {
	return s.doc.Units
}

// SetCameraMode switches between perspective and orthographic. The switch is
// undoable.
func (s *Store) SetCameraMode(m models.CameraMode) error {
	if m != models.CameraPerspective && m != models.CameraOrthographic {
		return fmt.Errorf("%w: camera mode %q", ErrInvalidEntity, m)
	}
	return s.mutate(func() error {
		s.doc.CameraMode = m
		return nil
	})
}

func (s *Store) ToggleCameraMode() error {
	next := models.CameraOrthographic
	if s.doc.CameraMode == models.CameraOrthographic {
		next = models.CameraPerspective
	}
	return s.SetCameraMode(next)
}

// SetCameraView records where the camera sits and looks. The view is saved
// with the document but orbiting never creates undo steps.
func (s *Store) SetCameraView(position, target geometry.Vec3) {
	s.cameraPosition = position
	s.cameraTarget = target
	s.changed()
}

func (s *Store) Camera() models.CameraState {
	return models.CameraState{
		Position: s.cameraPosition,
		Target:   s.cameraTarget,
		Mode:     s.doc.CameraMode,
	}
}
