package render

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"planner/internal/planner/geometry"
	"planner/internal/planner/models"
)

const (
	DefaultPxPerMeter = 50.0
	margin            = 1.0
)

const (
	doorStroke   = "#d62728"
	windowStroke = "#1f77b4"
	objectStroke = "#2ca02c"
	labelFill    = "#555"
)

// ============================================================
// Renderer
// ============================================================

// Renderer draws a top-down SVG plan. Drawing coordinates stay in meters;
// the outer width and height are scaled by pxPerMeter.
type Renderer struct {
	pxPerMeter float64
}

func NewRenderer(pxPerMeter float64) *Renderer {
	if pxPerMeter <= 0 {
		pxPerMeter = DefaultPxPerMeter
	}
	return &Renderer{pxPerMeter: pxPerMeter}
}

// Render returns the plan as a standalone SVG document. Entities on hidden
// layers are left out.
func (r *Renderer) Render(doc *models.DrawingData) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("drawing is nil")
	}

	minX, minZ, width, height := r.viewBox(doc)

	var elements []string
	elements = append(elements, r.renderWalls(doc)...)
	elements = append(elements, r.renderOpenings(doc)...)
	elements = append(elements, r.renderObjects(doc)...)
	elements = append(elements, r.renderDimensions(doc)...)
	elements = append(elements, r.renderRoomLabels(doc)...)
	elements = append(elements, r.renderAnnotations(doc)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(width*r.pxPerMeter), formatFloat(height*r.pxPerMeter),
		formatFloat(minX), formatFloat(minZ), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// viewBox fits every drawn point plus a margin. An empty plan gets a 10 m
// square around the origin.
func (r *Renderer) viewBox(doc *models.DrawingData) (float64, float64, float64, float64) {
	minX, minZ := math.MaxFloat64, math.MaxFloat64
	maxX, maxZ := -math.MaxFloat64, -math.MaxFloat64

	add := func(p geometry.Vec2) {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minZ, maxZ = math.Min(minZ, p.Z), math.Max(maxZ, p.Z)
	}

	for _, w := range doc.Walls {
		add(w.Start)
		add(w.End)
	}
	for _, d := range doc.Dimensions {
		add(d.Start)
		add(d.End)
	}
	for _, o := range doc.Objects {
		add(geometry.Vec2{X: o.Position.X, Z: o.Position.Z})
	}
	for _, l := range doc.RoomLabels {
		add(l.Position)
	}
	for _, t := range doc.TextAnnotations {
		add(t.Position)
	}

	if minX == math.MaxFloat64 {
		return -5, -5, 10, 10
	}
	return minX - margin, minZ - margin, maxX - minX + 2*margin, maxZ - minZ + 2*margin
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderWalls(doc *models.DrawingData) []string {
	var out []string

	for _, w := range doc.Walls {
		if !doc.LayerVisible(w.Layer) || w.Length() == 0 {
			continue
		}
		quad := band(w.Start, w.End, 0, w.Length(), w.Thickness)
		out = append(out, polygon(w.ID, quad, "#ddd", "#000"))
	}

	return out
}

func (r *Renderer) renderOpenings(doc *models.DrawingData) []string {
	var out []string

	for _, o := range doc.Openings {
		if !doc.LayerVisible(o.Layer) {
			continue
		}
		w, ok := doc.FindWall(o.WallID)
		if !ok || !doc.LayerVisible(w.Layer) || w.Length() == 0 {
			continue
		}

		start, end := o.Span(w.Length())
		start = clamp(start, 0, w.Length())
		end = clamp(end, 0, w.Length())

		stroke := windowStroke
		if o.Type == models.OpeningDoor {
			stroke = doorStroke
		}
		out = append(out, polygon(o.ID, band(w.Start, w.End, start, end, w.Thickness), "#fff", stroke))
	}

	return out
}

func (r *Renderer) renderObjects(doc *models.DrawingData) []string {
	var out []string

	for _, o := range doc.Objects {
		if !doc.LayerVisible(o.Layer) {
			continue
		}
		item := models.ResolveCatalogItem(o.CatalogID)
		center := geometry.Vec2{X: o.Position.X, Z: o.Position.Z}
		points := rectanglePoints(center, item.Width*o.Scale.X, item.Depth*o.Scale.Z, o.Rotation.Y)
		out = append(out, polygon(o.ID, points, "none", objectStroke))
	}

	return out
}

func (r *Renderer) renderDimensions(doc *models.DrawingData) []string {
	var out []string

	for _, d := range doc.Dimensions {
		if !doc.LayerVisible(d.Layer) {
			continue
		}

		shift := d.End.Sub(d.Start).Perp().Normalize().Scale(d.Offset)
		a, b := d.Start.Add(shift), d.End.Add(shift)
		mid := geometry.Midpoint(a, b)

		text := FormatLength(geometry.Distance(d.Start, d.End), doc.Units)
		if d.Label != nil && *d.Label != "" {
			text = *d.Label
		}

		out = append(out,
			fmt.Sprintf(`<g id="%s" stroke="#000" stroke-width="0.01">`, escape(d.ID))+
				line(d.Start, a)+line(d.End, b)+line(a, b)+
				textAt(mid, 0.2, "#000", text)+
				`</g>`)
	}

	return out
}

func (r *Renderer) renderRoomLabels(doc *models.DrawingData) []string {
	var out []string

	for _, l := range doc.RoomLabels {
		body := textAt(l.Position, 0.3, labelFill, l.Name)
		if l.ShowArea && l.ManualArea != nil {
			below := l.Position.Add(geometry.Vec2{Z: 0.35})
			body += textAt(below, 0.22, labelFill, FormatArea(*l.ManualArea, doc.Units))
		}
		out = append(out, fmt.Sprintf(`<g id="%s">%s</g>`, escape(l.ID), body))
	}

	return out
}

func (r *Renderer) renderAnnotations(doc *models.DrawingData) []string {
	var out []string

	for _, t := range doc.TextAnnotations {
		body := textAt(t.Position, t.FontSize, "#000", t.Text)
		if t.HasLeader && t.LeaderTarget != nil {
			body = `<g stroke="#000" stroke-width="0.01">` + line(t.Position, *t.LeaderTarget) + `</g>` + body
		}
		out = append(out, fmt.Sprintf(`<g id="%s">%s</g>`, escape(t.ID), body))
	}

	return out
}

// ============================================================
// Geometry helpers
// ============================================================

// band returns the quad covering [from, to] meters along a-b with the given
// thickness centered on the line.
func band(a, b geometry.Vec2, from, to, thickness float64) []geometry.Vec2 {
	dir := b.Sub(a).Normalize()
	n := dir.Perp().Scale(thickness / 2)
	p0 := a.Add(dir.Scale(from))
	p1 := a.Add(dir.Scale(to))
	return []geometry.Vec2{p0.Add(n), p1.Add(n), p1.Sub(n), p0.Sub(n)}
}

// rectanglePoints returns the footprint corners rotated by yaw radians about
// the vertical axis.
func rectanglePoints(center geometry.Vec2, width, depth, yaw float64) []geometry.Vec2 {
	halfW, halfD := width/2, depth/2
	corners := []geometry.Vec2{
		{X: -halfW, Z: -halfD},
		{X: halfW, Z: -halfD},
		{X: halfW, Z: halfD},
		{X: -halfW, Z: halfD},
	}

	sin, cos := math.Sin(yaw), math.Cos(yaw)
	for i, c := range corners {
		corners[i] = geometry.Vec2{
			X: center.X + c.X*cos + c.Z*sin,
			Z: center.Z - c.X*sin + c.Z*cos,
		}
	}
	return corners
}

func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ============================================================
// Formatting helpers
// ============================================================

func polygon(id string, points []geometry.Vec2, fill, stroke string) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = formatPoint(p)
	}
	return fmt.Sprintf(`<polygon id="%s" points="%s" fill="%s" stroke="%s" stroke-width="0.01" />`,
		escape(id), strings.Join(parts, " "), fill, stroke)
}

func line(a, b geometry.Vec2) string {
	return fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" />`,
		formatFloat(a.X), formatFloat(a.Z), formatFloat(b.X), formatFloat(b.Z))
}

func textAt(p geometry.Vec2, size float64, fill, text string) string {
	return fmt.Sprintf(`<text x="%s" y="%s" font-size="%s" fill="%s" text-anchor="middle">%s</text>`,
		formatFloat(p.X), formatFloat(p.Z), formatFloat(size), fill, escape(text))
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(math.Round(val*1e4)/1e4, 'f', -1, 64)
}

func formatPoint(p geometry.Vec2) string {
	return formatFloat(p.X) + "," + formatFloat(p.Z)
}
