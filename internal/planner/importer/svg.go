package importer

import (
	"encoding/xml"
	"io"
	"strings"
)

// ============================================================
// XML Structures
// ============================================================

type svgDoc struct {
	XMLName xml.Name   `xml:"svg"`
	Rects   []svgRect  `xml:"rect"`
	Paths   []svgPath  `xml:"path"`
	Groups  []svgGroup `xml:"g"`
}

type svgGroup struct {
	Rects  []svgRect  `xml:"rect"`
	Paths  []svgPath  `xml:"path"`
	Groups []svgGroup `xml:"g"`
}

type svgRect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type svgPath struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

// ============================================================
// Elements
// ============================================================

type ElementKind string

const (
	KindWall   ElementKind = "wall"
	KindDoor   ElementKind = "door"
	KindWindow ElementKind = "window"
	KindRoom   ElementKind = "room"
)

// Element is a classified SVG shape. Exactly one of Rect or Path is set.
type Element struct {
	ID   string
	Kind ElementKind
	Rect *Rect
	Path string
}

type Rect struct {
	X, Y, Width, Height float64
}

// ParseSVG decodes r and returns the shapes whose ids mark them as plan
// elements. Nested groups are searched as well. Unclassified shapes are
// skipped.
func ParseSVG(r io.Reader) ([]Element, error) {
	var doc svgDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	var elements []Element
	collect(&elements, doc.Rects, doc.Paths, doc.Groups)
	return elements, nil
}

func collect(out *[]Element, rects []svgRect, paths []svgPath, groups []svgGroup) {
	for _, rect := range rects {
		kind := classifyElementByID(rect.ID)
		if kind == "" {
			continue
		}
		*out = append(*out, Element{
			ID:   rect.ID,
			Kind: kind,
			Rect: &Rect{X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height},
		})
	}

	for _, path := range paths {
		kind := classifyElementByID(path.ID)
		if kind == "" {
			continue
		}
		*out = append(*out, Element{ID: path.ID, Kind: kind, Path: path.D})
	}

	for _, g := range groups {
		collect(out, g.Rects, g.Paths, g.Groups)
	}
}

func classifyElementByID(id string) ElementKind {
	switch {
	case strings.HasPrefix(id, "Wall_"):
		return KindWall
	case strings.HasPrefix(id, "Door_"):
		return KindDoor
	case strings.HasPrefix(id, "Window_"):
		return KindWindow
	case strings.HasPrefix(id, "Room_"),
		strings.HasSuffix(id, "_room"),
		strings.HasSuffix(id, "_Room"):
		return KindRoom
	}
	return ""
}

// roomName turns "Room_Kitchen" or "Hall_room" into a display name.
func roomName(id string) string {
	name := strings.TrimPrefix(id, "Room_")
	name = strings.TrimSuffix(name, "_room")
	name = strings.TrimSuffix(name, "_Room")
	name = strings.ReplaceAll(name, "_", " ")
	if name == "" {
		return "Room"
	}
	return name
}
