package models

import "planner/internal/planner/geometry"

// ============================================================
// Partial updates
// ============================================================

// Patches carry only the fields to change; nil fields are left as they are.
// Optional entity fields use a double pointer so they can be cleared:
// a non-nil patch field holding nil removes the value.

type WallPatch struct {
	Start     *geometry.Vec2
	End       *geometry.Vec2
	Height    *float64
	Thickness *float64
	Layer     **string
}

func (p WallPatch) Apply(w Wall) Wall {
	if p.Start != nil {
		w.Start = *p.Start
	}
	if p.End != nil {
		w.End = *p.End
	}
	if p.Height != nil {
		w.Height = *p.Height
	}
	if p.Thickness != nil {
		w.Thickness = *p.Thickness
	}
	if p.Layer != nil {
		w.Layer = *p.Layer
	}
	return w
}

type OpeningPatch struct {
	Type       *OpeningType
	Position   *float64
	Width      *float64
	Height     *float64
	SillHeight *float64
	Layer      **string
}

func (p OpeningPatch) Apply(o Opening) Opening {
	if p.Type != nil {
		o.Type = *p.Type
	}
	if p.Position != nil {
		o.Position = *p.Position
	}
	if p.Width != nil {
		o.Width = *p.Width
	}
	if p.Height != nil {
		o.Height = *p.Height
	}
	if p.SillHeight != nil {
		o.SillHeight = *p.SillHeight
	}
	if p.Layer != nil {
		o.Layer = *p.Layer
	}
	return o
}

type PlacedObjectPatch struct {
	CatalogID *string
	Name      *string
	Position  *geometry.Vec3
	Rotation  *geometry.Vec3
	Scale     *geometry.Vec3
	Layer     **string
}

func (p PlacedObjectPatch) Apply(o PlacedObject) PlacedObject {
	if p.CatalogID != nil {
		o.CatalogID = *p.CatalogID
	}
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Position != nil {
		o.Position = *p.Position
	}
	if p.Rotation != nil {
		o.Rotation = *p.Rotation
	}
	if p.Scale != nil {
		o.Scale = *p.Scale
	}
	if p.Layer != nil {
		o.Layer = *p.Layer
	}
	return o
}

type DimensionPatch struct {
	Start  *geometry.Vec2
	End    *geometry.Vec2
	Offset *float64
	Label  **string
	Layer  **string
}

func (p DimensionPatch) Apply(d Dimension) Dimension {
	if p.Start != nil {
		d.Start = *p.Start
	}
	if p.End != nil {
		d.End = *p.End
	}
	if p.Offset != nil {
		d.Offset = *p.Offset
	}
	if p.Label != nil {
		d.Label = *p.Label
	}
	if p.Layer != nil {
		d.Layer = *p.Layer
	}
	return d
}

type RoomLabelPatch struct {
	Position   *geometry.Vec2
	Name       *string
	ShowArea   *bool
	ManualArea **float64
}

func (p RoomLabelPatch) Apply(r RoomLabel) RoomLabel {
	if p.Position != nil {
		r.Position = *p.Position
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.ShowArea != nil {
		r.ShowArea = *p.ShowArea
	}
	if p.ManualArea != nil {
		r.ManualArea = *p.ManualArea
	}
	return r
}

type TextAnnotationPatch struct {
	Position     *geometry.Vec2
	Text         *string
	FontSize     *float64
	HasLeader    *bool
	LeaderTarget **geometry.Vec2
}

func (p TextAnnotationPatch) Apply(t TextAnnotation) TextAnnotation {
	if p.Position != nil {
		t.Position = *p.Position
	}
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.FontSize != nil {
		t.FontSize = *p.FontSize
	}
	if p.HasLeader != nil {
		t.HasLeader = *p.HasLeader
	}
	if p.LeaderTarget != nil {
		t.LeaderTarget = *p.LeaderTarget
	}
	return t
}

type MaterialAssignmentPatch struct {
	TargetID   *string
	TargetFace *string
	MaterialID *string
}

func (p MaterialAssignmentPatch) Apply(m MaterialAssignment) MaterialAssignment {
	if p.TargetID != nil {
		m.TargetID = *p.TargetID
	}
	if p.TargetFace != nil {
		m.TargetFace = *p.TargetFace
	}
	if p.MaterialID != nil {
		m.MaterialID = *p.MaterialID
	}
	return m
}

type LayerPatch struct {
	Visible *bool
	Locked  *bool
}

func (p LayerPatch) Apply(l Layer) Layer {
	if p.Visible != nil {
		l.Visible = *p.Visible
	}
	if p.Locked != nil {
		l.Locked = *p.Locked
	}
	return l
}
