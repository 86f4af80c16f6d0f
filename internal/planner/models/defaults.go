package models

import "planner/internal/planner/geometry"

// ============================================================
// Creation defaults
// ============================================================

const (
	DefaultWallHeight    = 2.7
	DefaultWallThickness = 0.15

	DefaultDoorWidth  = 0.9
	DefaultDoorHeight = 2.1
	DefaultDoorSill   = 0.0

	DefaultWindowWidth  = 1.2
	DefaultWindowHeight = 1.2
	DefaultWindowSill   = 0.9

	DefaultFontSize        = 0.3
	DefaultDimensionOffset = 0.5

	DefaultLayerName = "default"
)

var (
	DefaultCameraPosition = geometry.Vec3{X: 10, Y: 8, Z: 10}
	DefaultCameraTarget   = geometry.Vec3{}
)

func NewWall(start, end geometry.Vec2) Wall {
	return Wall{
		Start:     start,
		End:       end,
		Height:    DefaultWallHeight,
		Thickness: DefaultWallThickness,
	}
}

func NewDoor(wallID string, position float64) Opening {
	return Opening{
		WallID:     wallID,
		Type:       OpeningDoor,
		Position:   position,
		Width:      DefaultDoorWidth,
		Height:     DefaultDoorHeight,
		SillHeight: DefaultDoorSill,
	}
}

func NewWindow(wallID string, position float64) Opening {
	return Opening{
		WallID:     wallID,
		Type:       OpeningWindow,
		Position:   position,
		Width:      DefaultWindowWidth,
		Height:     DefaultWindowHeight,
		SillHeight: DefaultWindowSill,
	}
}

// NewPlacedObject places a catalog item on the floor at position with the
// catalog's display name.
func NewPlacedObject(catalogID string, position geometry.Vec2) PlacedObject {
	item := ResolveCatalogItem(catalogID)
	return PlacedObject{
		CatalogID: catalogID,
		Name:      item.Name,
		Position:  geometry.Vec3{X: position.X, Y: 0, Z: position.Z},
		Scale:     geometry.Vec3{X: 1, Y: 1, Z: 1},
	}
}

func NewDimension(start, end geometry.Vec2) Dimension {
	return Dimension{Start: start, End: end, Offset: DefaultDimensionOffset}
}

func NewRoomLabel(position geometry.Vec2, name string) RoomLabel {
	return RoomLabel{Position: position, Name: name, ShowArea: true}
}

func NewTextAnnotation(position geometry.Vec2, text string) TextAnnotation {
	return TextAnnotation{Position: position, Text: text, FontSize: DefaultFontSize}
}

func DefaultCamera() CameraState {
	return CameraState{
		Position: DefaultCameraPosition,
		Target:   DefaultCameraTarget,
		Mode:     CameraPerspective,
	}
}

func DefaultLayers() []Layer {
	return []Layer{{Name: DefaultLayerName, Visible: true, Locked: false}}
}

// NewDrawing returns an empty metric document with the default camera and layer.
func NewDrawing() *DrawingData {
	return &DrawingData{
		Version:             CurrentVersion,
		Units:               UnitsMetric,
		Camera:              DefaultCamera(),
		Walls:               []Wall{},
		Openings:            []Opening{},
		Objects:             []PlacedObject{},
		Dimensions:          []Dimension{},
		RoomLabels:          []RoomLabel{},
		TextAnnotations:     []TextAnnotation{},
		MaterialAssignments: []MaterialAssignment{},
		Layers:              DefaultLayers(),
	}
}

// Ptr returns a pointer to a copy of v. Used for optional fields.
func Ptr[T any](v T) *T {
	return &v
}
