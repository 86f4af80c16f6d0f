package takeoff

import (
	"planner/internal/planner/graph"
	"planner/internal/planner/models"
	"planner/internal/planner/segment"
)

// WallQuantity is the measured surface of one wall face. Areas are square
// meters.
type WallQuantity struct {
	WallID      string  `json:"wallId"`
	Length      float64 `json:"length"`
	Height      float64 `json:"height"`
	GrossArea   float64 `json:"grossArea"`
	OpeningArea float64 `json:"openingArea"`
	NetArea     float64 `json:"netArea"`
	Doors       int     `json:"doors"`
	Windows     int     `json:"windows"`
}

// RoomQuantity is a labeled room. Area is the frozen label area, or the
// detected area when the label has none. It is nil when neither exists.
type RoomQuantity struct {
	LabelID string   `json:"labelId"`
	Name    string   `json:"name"`
	Area    *float64 `json:"area,omitempty"`
}

type Summary struct {
	Walls       int     `json:"walls"`
	Doors       int     `json:"doors"`
	Windows     int     `json:"windows"`
	WallLength  float64 `json:"wallLength"`
	GrossArea   float64 `json:"grossArea"`
	OpeningArea float64 `json:"openingArea"`
	NetArea     float64 `json:"netArea"`
	RoomArea    float64 `json:"roomArea"`
}

type Takeoff struct {
	Units   models.Units   `json:"units"`
	Walls   []WallQuantity `json:"walls"`
	Rooms   []RoomQuantity `json:"rooms"`
	Summary Summary        `json:"summary"`
}

// Compute measures every wall and room label in doc. Net wall area is the
// sum of the wall's segments, so openings that overhang the wall only count
// for the part inside it.
func Compute(doc *models.DrawingData) *Takeoff {
	t := &Takeoff{
		Units: doc.Units,
		Walls: make([]WallQuantity, 0, len(doc.Walls)),
		Rooms: make([]RoomQuantity, 0, len(doc.RoomLabels)),
	}

	for _, w := range doc.Walls {
		q := WallQuantity{
			WallID:    w.ID,
			Length:    w.Length(),
			Height:    w.Height,
			GrossArea: w.Length() * w.Height,
			NetArea:   segment.NetArea(w, doc.Openings),
		}
		q.OpeningArea = q.GrossArea - q.NetArea
		for _, o := range doc.OpeningsOf(w.ID) {
			if o.Type == models.OpeningDoor {
				q.Doors++
			} else {
				q.Windows++
			}
		}
		t.Walls = append(t.Walls, q)

		t.Summary.Walls++
		t.Summary.Doors += q.Doors
		t.Summary.Windows += q.Windows
		t.Summary.WallLength += q.Length
		t.Summary.GrossArea += q.GrossArea
		t.Summary.OpeningArea += q.OpeningArea
		t.Summary.NetArea += q.NetArea
	}

	for _, l := range doc.RoomLabels {
		q := RoomQuantity{LabelID: l.ID, Name: l.Name, Area: l.ManualArea}
		if q.Area == nil {
			if room := graph.DetectRoom(doc.Walls, l.Position); room != nil {
				q.Area = models.Ptr(room.Area)
			}
		}
		if q.Area != nil {
			t.Summary.RoomArea += *q.Area
		}
		t.Rooms = append(t.Rooms, q)
	}

	return t
}
