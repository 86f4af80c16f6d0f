package store

import "planner/internal/planner/models"

// Tool is the active editing tool. It is UI state only.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolWall      Tool = "wall"
	ToolDoor      Tool = "door"
	ToolWindow    Tool = "window"
	ToolFurniture Tool = "furniture"
	ToolDimension Tool = "dimension"
	ToolRoomLabel Tool = "roomLabel"
	ToolText      Tool = "text"
)

// Select marks id as the current selection. Selection is not undoable and
// does not trigger a save.
func (s *Store) Select(id string) error {
	if !s.hasEntity(id) {
		return notFound("entity", id)
	}
	s.selectedID = id
	return nil
}

func (s *Store) ClearSelection() {
	s.selectedID = ""
}

// Selected returns the selected entity id, or "" when nothing is selected.
func (s *Store) Selected() string {
	return s.selectedID
}

func (s *Store) SetActiveTool(t Tool) {
	s.activeTool = t
}

func (s *Store) ActiveTool() Tool {
	return s.activeTool
}

// SetFurniturePreset picks the catalog item the furniture tool places.
func (s *Store) SetFurniturePreset(catalogID string) {
	s.furniturePreset = catalogID
}

func (s *Store) FurniturePreset() string {
	return s.furniturePreset
}

// DeleteSelected removes the selected entity. Collections are searched in
// a fixed order: walls, openings, objects, dimensions, room labels, text
// annotations. It reports false when nothing was deleted.
func (s *Store) DeleteSelected() (bool, error) {
	id := s.selectedID
	if id == "" {
		return false, nil
	}

	var err error
	switch {
	case findIndex(s.doc.Walls, id, wallID) >= 0:
		err = s.DeleteWall(id)
	case findIndex(s.doc.Openings, id, openingID) >= 0:
		err = s.DeleteOpening(id)
	case findIndex(s.doc.Objects, id, objectID) >= 0:
		err = s.DeleteObject(id)
	case findIndex(s.doc.Dimensions, id, dimensionID) >= 0:
		err = s.DeleteDimension(id)
	case findIndex(s.doc.RoomLabels, id, roomLabelID) >= 0:
		err = s.DeleteRoomLabel(id)
	case findIndex(s.doc.TextAnnotations, id, textAnnotationID) >= 0:
		err = s.DeleteTextAnnotation(id)
	default:
		s.selectedID = ""
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Clear replaces the document with an empty drawing as one undoable step.
func (s *Store) Clear() error {
	return s.mutate(func() error {
		empty := snapshotOf(models.NewDrawing())
		empty.Units = s.doc.Units
		empty.CameraMode = s.doc.CameraMode
		s.doc = empty
		s.selectedID = ""
		return nil
	})
}
