package models

// ============================================================
// Weak reference resolution
// ============================================================

// FindWall resolves a wall id.
func (d *DrawingData) FindWall(id string) (Wall, bool) {
	for _, w := range d.Walls {
		if w.ID == id {
			return w, true
		}
	}
	return Wall{}, false
}

// OpeningsOf returns the openings whose WallID references wallID.
func (d *DrawingData) OpeningsOf(wallID string) []Opening {
	return OpeningsOnWall(d.Openings, wallID)
}

// OpeningsOnWall filters openings by parent wall id.
func OpeningsOnWall(openings []Opening, wallID string) []Opening {
	var out []Opening
	for _, o := range openings {
		if o.WallID == wallID {
			out = append(out, o)
		}
	}
	return out
}

// ResolveLayer returns the layer named name. Unknown or empty names resolve
// to a visible, unlocked layer.
func (d *DrawingData) ResolveLayer(name *string) Layer {
	if name == nil {
		return Layer{Name: DefaultLayerName, Visible: true}
	}
	for _, l := range d.Layers {
		if l.Name == *name {
			return l
		}
	}
	return Layer{Name: *name, Visible: true}
}

// LayerVisible reports whether entities on the named layer should be drawn.
func (d *DrawingData) LayerVisible(name *string) bool {
	return d.ResolveLayer(name).Visible
}

// MaterialFor returns the material assigned to targetID's face, if any.
// Assignments pointing at missing targets are kept and simply never match.
func (d *DrawingData) MaterialFor(targetID, face string) (string, bool) {
	for _, m := range d.MaterialAssignments {
		if m.TargetID == targetID && m.TargetFace == face {
			return m.MaterialID, true
		}
	}
	return "", false
}

// HasEntity reports whether any entity collection holds id.
func (d *DrawingData) HasEntity(id string) bool {
	if _, ok := d.FindWall(id); ok {
		return true
	}
	for _, o := range d.Openings {
		if o.ID == id {
			return true
		}
	}
	for _, o := range d.Objects {
		if o.ID == id {
			return true
		}
	}
	for _, dm := range d.Dimensions {
		if dm.ID == id {
			return true
		}
	}
	for _, r := range d.RoomLabels {
		if r.ID == id {
			return true
		}
	}
	for _, t := range d.TextAnnotations {
		if t.ID == id {
			return true
		}
	}
	return false
}
