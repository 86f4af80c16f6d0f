package models

import "planner/internal/planner/geometry"

// CurrentVersion is the persisted document schema version.
const CurrentVersion = 1

// ============================================================
// Enums
// ============================================================

type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

type OpeningType string

const (
	OpeningDoor   OpeningType = "door"
	OpeningWindow OpeningType = "window"
)

type CameraMode string

const (
	CameraPerspective  CameraMode = "perspective"
	CameraOrthographic CameraMode = "orthographic"
)

// ============================================================
// Structural entities
// ============================================================

type Wall struct {
	ID        string        `json:"id"`
	Start     geometry.Vec2 `json:"start"`
	End       geometry.Vec2 `json:"end"`
	Height    float64       `json:"height"`
	Thickness float64       `json:"thickness"`
	Layer     *string       `json:"layer,omitempty"`
}

// Length returns the wall's centerline length.
func (w Wall) Length() float64 {
	return geometry.Distance(w.Start, w.End)
}

// Opening is a door or window cut into a wall. Position is the fractional
// distance of the opening's center along its parent wall.
type Opening struct {
	ID         string      `json:"id"`
	WallID     string      `json:"wallId"`
	Type       OpeningType `json:"type"`
	Position   float64     `json:"position"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	SillHeight float64     `json:"sillHeight"`
	Layer      *string     `json:"layer,omitempty"`
}

// Span returns the opening's extent along a wall of length wallLength.
func (o Opening) Span(wallLength float64) (float64, float64) {
	center := o.Position * wallLength
	return center - o.Width/2, center + o.Width/2
}

// ============================================================
// Furnishing & annotation entities
// ============================================================

type PlacedObject struct {
	ID        string        `json:"id"`
	CatalogID string        `json:"catalogId"`
	Name      string        `json:"name"`
	Position  geometry.Vec3 `json:"position"`
	Rotation  geometry.Vec3 `json:"rotation"`
	Scale     geometry.Vec3 `json:"scale"`
	Layer     *string       `json:"layer,omitempty"`
}

type Dimension struct {
	ID     string        `json:"id"`
	Start  geometry.Vec2 `json:"start"`
	End    geometry.Vec2 `json:"end"`
	Offset float64       `json:"offset"`
	Label  *string       `json:"label,omitempty"`
	Layer  *string       `json:"layer,omitempty"`
}

// RoomLabel names a room. ManualArea is frozen when the label is placed and
// is not recomputed when walls move.
type RoomLabel struct {
	ID         string        `json:"id"`
	Position   geometry.Vec2 `json:"position"`
	Name       string        `json:"name"`
	ShowArea   bool          `json:"showArea"`
	ManualArea *float64      `json:"manualArea,omitempty"`
}

type TextAnnotation struct {
	ID           string         `json:"id"`
	Position     geometry.Vec2  `json:"position"`
	Text         string         `json:"text"`
	FontSize     float64        `json:"fontSize"`
	HasLeader    bool           `json:"hasLeader"`
	LeaderTarget *geometry.Vec2 `json:"leaderTarget,omitempty"`
}

type MaterialAssignment struct {
	ID         string `json:"id"`
	TargetID   string `json:"targetId"`
	TargetFace string `json:"targetFace"`
	MaterialID string `json:"materialId"`
}

// ============================================================
// Document
// ============================================================

// Layer is identified by its name.
type Layer struct {
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
}

type CameraState struct {
	Position geometry.Vec3 `json:"position"`
	Target   geometry.Vec3 `json:"target"`
	Mode     CameraMode    `json:"mode"`
}

// DrawingData is the aggregate root: the unit of persistence.
type DrawingData struct {
	Version             int                  `json:"version"`
	Units               Units                `json:"units"`
	Camera              CameraState          `json:"camera"`
	Walls               []Wall               `json:"walls"`
	Openings            []Opening            `json:"openings"`
	Objects             []PlacedObject       `json:"objects"`
	Dimensions          []Dimension          `json:"dimensions"`
	RoomLabels          []RoomLabel          `json:"roomLabels"`
	TextAnnotations     []TextAnnotation     `json:"textAnnotations"`
	MaterialAssignments []MaterialAssignment `json:"materialAssignments"`
	Layers              []Layer              `json:"layers"`
}
