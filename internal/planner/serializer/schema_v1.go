package serializer

import (
	"planner/internal/planner/geometry"
	"planner/internal/planner/models"

	"github.com/go-playground/validator/v10"
)

// ============================================================
// Version 1 wire schema
// ============================================================

// Pointer fields tell a missing value apart from a zero one so that
// "required" rejects absent fields without rejecting legitimate zeros.

type vec2V1 struct {
	X *float64 `json:"x" validate:"required"`
	Z *float64 `json:"z" validate:"required"`
}

type vec3V1 struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
	Z *float64 `json:"z" validate:"required"`
}

type cameraV1 struct {
	Position *vec3V1 `json:"position" validate:"required"`
	Target   *vec3V1 `json:"target" validate:"required"`
	Mode     *string `json:"mode" validate:"required,oneof=perspective orthographic"`
}

type wallV1 struct {
	ID        string   `json:"id" validate:"required"`
	Start     *vec2V1  `json:"start" validate:"required"`
	End       *vec2V1  `json:"end" validate:"required"`
	Height    *float64 `json:"height" validate:"required,gt=0"`
	Thickness *float64 `json:"thickness" validate:"required,gt=0"`
	Layer     *string  `json:"layer"`
}

type openingV1 struct {
	ID         string   `json:"id" validate:"required"`
	WallID     string   `json:"wallId" validate:"required"`
	Type       *string  `json:"type" validate:"required,oneof=door window"`
	Position   *float64 `json:"position" validate:"required,gte=0,lte=1"`
	Width      *float64 `json:"width" validate:"required,gt=0"`
	Height     *float64 `json:"height" validate:"required,gt=0"`
	SillHeight *float64 `json:"sillHeight" validate:"required,gte=0"`
	Layer      *string  `json:"layer"`
}

type objectV1 struct {
	ID        string  `json:"id" validate:"required"`
	CatalogID string  `json:"catalogId" validate:"required"`
	Name      *string `json:"name" validate:"required"`
	Position  *vec3V1 `json:"position" validate:"required"`
	Rotation  *vec3V1 `json:"rotation" validate:"required"`
	Scale     *vec3V1 `json:"scale" validate:"required"`
	Layer     *string `json:"layer"`
}

type dimensionV1 struct {
	ID     string   `json:"id" validate:"required"`
	Start  *vec2V1  `json:"start" validate:"required"`
	End    *vec2V1  `json:"end" validate:"required"`
	Offset *float64 `json:"offset" validate:"required"`
	Label  *string  `json:"label"`
	Layer  *string  `json:"layer"`
}

type roomLabelV1 struct {
	ID         string   `json:"id" validate:"required"`
	Position   *vec2V1  `json:"position" validate:"required"`
	Name       *string  `json:"name" validate:"required"`
	ShowArea   *bool    `json:"showArea" validate:"required"`
	ManualArea *float64 `json:"manualArea" validate:"omitempty,gte=0"`
}

type textAnnotationV1 struct {
	ID           string   `json:"id" validate:"required"`
	Position     *vec2V1  `json:"position" validate:"required"`
	Text         *string  `json:"text" validate:"required"`
	FontSize     *float64 `json:"fontSize" validate:"required,gt=0"`
	HasLeader    *bool    `json:"hasLeader" validate:"required"`
	LeaderTarget *vec2V1  `json:"leaderTarget" validate:"omitempty"`
}

type materialAssignmentV1 struct {
	ID         string `json:"id" validate:"required"`
	TargetID   string `json:"targetId" validate:"required"`
	TargetFace string `json:"targetFace" validate:"required"`
	MaterialID string `json:"materialId" validate:"required"`
}

type layerV1 struct {
	Name    string `json:"name" validate:"required"`
	Visible *bool  `json:"visible" validate:"required"`
	Locked  *bool  `json:"locked" validate:"required"`
}

type documentV1 struct {
	Version             *int                   `json:"version" validate:"required,eq=1"`
	Units               *string                `json:"units" validate:"required,oneof=metric imperial"`
	Camera              *cameraV1              `json:"camera" validate:"required"`
	Walls               []wallV1               `json:"walls" validate:"required,dive"`
	Openings            []openingV1            `json:"openings" validate:"required,dive"`
	Objects             []objectV1             `json:"objects" validate:"required,dive"`
	Dimensions          []dimensionV1          `json:"dimensions" validate:"required,dive"`
	RoomLabels          []roomLabelV1          `json:"roomLabels" validate:"omitempty,dive"`
	TextAnnotations     []textAnnotationV1     `json:"textAnnotations" validate:"omitempty,dive"`
	MaterialAssignments []materialAssignmentV1 `json:"materialAssignments" validate:"required,dive"`
	Layers              []layerV1              `json:"layers" validate:"required,dive"`
}

// wallHasLength rejects walls whose endpoints coincide.
func wallHasLength(sl validator.StructLevel) {
	w := sl.Current().Interface().(wallV1)
	if w.Start == nil || w.End == nil || w.Start.X == nil || w.Start.Z == nil || w.End.X == nil || w.End.Z == nil {
		return
	}
	if *w.Start.X == *w.End.X && *w.Start.Z == *w.End.Z {
		sl.ReportError(w.End, "end", "End", "ne_start", "")
	}
}

// ============================================================
// Conversion
// ============================================================

func (d *documentV1) toModel() *models.DrawingData {
	out := &models.DrawingData{
		Version: *d.Version,
		Units:   models.Units(*d.Units),
		Camera: models.CameraState{
			Position: d.Camera.Position.toModel(),
			Target:   d.Camera.Target.toModel(),
			Mode:     models.CameraMode(*d.Camera.Mode),
		},
		Walls:               make([]models.Wall, 0, len(d.Walls)),
		Openings:            make([]models.Opening, 0, len(d.Openings)),
		Objects:             make([]models.PlacedObject, 0, len(d.Objects)),
		Dimensions:          make([]models.Dimension, 0, len(d.Dimensions)),
		RoomLabels:          make([]models.RoomLabel, 0, len(d.RoomLabels)),
		TextAnnotations:     make([]models.TextAnnotation, 0, len(d.TextAnnotations)),
		MaterialAssignments: make([]models.MaterialAssignment, 0, len(d.MaterialAssignments)),
		Layers:              make([]models.Layer, 0, len(d.Layers)),
	}

	for _, w := range d.Walls {
		out.Walls = append(out.Walls, models.Wall{
			ID:        w.ID,
			Start:     w.Start.toModel(),
			End:       w.End.toModel(),
			Height:    *w.Height,
			Thickness: *w.Thickness,
			Layer:     w.Layer,
		})
	}
	for _, o := range d.Openings {
		out.Openings = append(out.Openings, models.Opening{
			ID:         o.ID,
			WallID:     o.WallID,
			Type:       models.OpeningType(*o.Type),
			Position:   *o.Position,
			Width:      *o.Width,
			Height:     *o.Height,
			SillHeight: *o.SillHeight,
			Layer:      o.Layer,
		})
	}
	for _, o := range d.Objects {
		out.Objects = append(out.Objects, models.PlacedObject{
			ID:        o.ID,
			CatalogID: o.CatalogID,
			Name:      *o.Name,
			Position:  o.Position.toModel(),
			Rotation:  o.Rotation.toModel(),
			Scale:     o.Scale.toModel(),
			Layer:     o.Layer,
		})
	}
	for _, dm := range d.Dimensions {
		out.Dimensions = append(out.Dimensions, models.Dimension{
			ID:     dm.ID,
			Start:  dm.Start.toModel(),
			End:    dm.End.toModel(),
			Offset: *dm.Offset,
			Label:  dm.Label,
			Layer:  dm.Layer,
		})
	}
	for _, r := range d.RoomLabels {
		out.RoomLabels = append(out.RoomLabels, models.RoomLabel{
			ID:         r.ID,
			Position:   r.Position.toModel(),
			Name:       *r.Name,
			ShowArea:   *r.ShowArea,
			ManualArea: r.ManualArea,
		})
	}
	for _, t := range d.TextAnnotations {
		ta := models.TextAnnotation{
			ID:        t.ID,
			Position:  t.Position.toModel(),
			Text:      *t.Text,
			FontSize:  *t.FontSize,
			HasLeader: *t.HasLeader,
		}
		if t.LeaderTarget != nil {
			target := t.LeaderTarget.toModel()
			ta.LeaderTarget = &target
		}
		out.TextAnnotations = append(out.TextAnnotations, ta)
	}
	for _, m := range d.MaterialAssignments {
		out.MaterialAssignments = append(out.MaterialAssignments, models.MaterialAssignment{
			ID:         m.ID,
			TargetID:   m.TargetID,
			TargetFace: m.TargetFace,
			MaterialID: m.MaterialID,
		})
	}
	for _, l := range d.Layers {
		out.Layers = append(out.Layers, models.Layer{
			Name:    l.Name,
			Visible: *l.Visible,
			Locked:  *l.Locked,
		})
	}

	return out
}

func (v *vec2V1) toModel() geometry.Vec2 {
	return geometry.Vec2{X: *v.X, Z: *v.Z}
}

func (v *vec3V1) toModel() geometry.Vec3 {
	return geometry.Vec3{X: *v.X, Y: *v.Y, Z: *v.Z}
}
