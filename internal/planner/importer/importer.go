package importer

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"planner/internal/planner/geometry"
	"planner/internal/planner/graph"
	"planner/internal/planner/models"
	"planner/internal/planner/segment"
	"planner/internal/planner/serializer"
)

// DefaultScale reads one SVG unit as one centimeter.
const DefaultScale = 0.01

// ============================================================
// Importer
// ============================================================

// Importer turns an SVG floor plan into a drawing. Walls come from rects
// or paths reduced to their long-side centerline, openings are attached to
// the nearest wall and rooms become labels with their polygon area.
type Importer struct {
	scale  float64
	newID  func() string
	logger *slog.Logger
}

type Option func(*Importer)

// WithScale sets meters per SVG unit.
func WithScale(metersPerUnit float64) Option {
	return func(im *Importer) {
		if metersPerUnit > 0 {
			im.scale = metersPerUnit
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(im *Importer) { im.newID = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) { im.logger = logger }
}

func New(opts ...Option) *Importer {
	im := &Importer{
		scale:  DefaultScale,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Report counts what an import produced. Skipped lists element ids that
// could not be placed.
type Report struct {
	Walls    int      `json:"walls"`
	Openings int      `json:"openings"`
	Rooms    int      `json:"rooms"`
	Skipped  []string `json:"skipped"`
}

func (im *Importer) Import(r io.Reader) (*models.DrawingData, Report, error) {
	report := Report{Skipped: []string{}}

	elements, err := ParseSVG(r)
	if err != nil {
		return nil, report, fmt.Errorf("parse svg: %w", err)
	}

	var walls, openings, rooms []Element
	for _, elem := range elements {
		switch elem.Kind {
		case KindWall:
			walls = append(walls, elem)
		case KindDoor, KindWindow:
			openings = append(openings, elem)
		case KindRoom:
			rooms = append(rooms, elem)
		}
	}

	doc := models.NewDrawing()

	for _, elem := range walls {
		w, ok := im.wallFrom(elem)
		if !ok {
			report.Skipped = append(report.Skipped, elem.ID)
			continue
		}
		doc.Walls = append(doc.Walls, w)
	}
	connectEndpoints(doc.Walls)

	for _, elem := range openings {
		o, ok := im.openingFrom(elem, doc.Walls, doc.Openings)
		if !ok {
			report.Skipped = append(report.Skipped, elem.ID)
			continue
		}
		doc.Openings = append(doc.Openings, o)
	}

	for _, elem := range rooms {
		label, ok := im.roomFrom(elem)
		if !ok {
			report.Skipped = append(report.Skipped, elem.ID)
			continue
		}
		doc.RoomLabels = append(doc.RoomLabels, label)
	}

	if err := serializer.Validate(doc); err != nil {
		return nil, report, fmt.Errorf("imported plan: %w", err)
	}

	report.Walls = len(doc.Walls)
	report.Openings = len(doc.Openings)
	report.Rooms = len(doc.RoomLabels)
	im.logger.Info("svg imported",
		"walls", report.Walls,
		"openings", report.Openings,
		"rooms", report.Rooms,
		"skipped", len(report.Skipped),
	)
	return doc, report, nil
}

// ============================================================
// Element conversion
// ============================================================

func (im *Importer) wallFrom(elem Element) (models.Wall, bool) {
	points, err := elementPoints(elem)
	if err != nil || len(points) < 2 {
		return models.Wall{}, false
	}

	p1, p2, thickness := centerline(points)
	w := models.NewWall(p1.Scale(im.scale), p2.Scale(im.scale))
	w.ID = im.newID()
	if t := thickness * im.scale; t > 0 {
		w.Thickness = t
	}
	if w.Start.Equal(w.End) {
		return models.Wall{}, false
	}
	return w, true
}

func (im *Importer) openingFrom(elem Element, walls []models.Wall, placed []models.Opening) (models.Opening, bool) {
	points, err := elementPoints(elem)
	if err != nil || len(points) == 0 {
		return models.Opening{}, false
	}
	center := average(points).Scale(im.scale)

	wall, frac, ok := nearestWall(center, walls)
	if !ok {
		return models.Opening{}, false
	}

	var o models.Opening
	if elem.Kind == KindDoor {
		o = models.NewDoor(wall.ID, frac)
	} else {
		o = models.NewWindow(wall.ID, frac)
	}
	o.ID = im.newID()

	b := bounds(points)
	if long := math.Max(b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]) * im.scale; long > 0 {
		o.Width = long
	}

	length := wall.Length()
	if o.Width > length {
		return models.Opening{}, false
	}
	half := o.Width / 2 / length
	o.Position = math.Max(half, math.Min(1-half, o.Position))

	if err := segment.CheckPlacement(wall, placed, o); err != nil {
		im.logger.Warn("opening skipped", "element", elem.ID, "error", err)
		return models.Opening{}, false
	}
	return o, true
}

func (im *Importer) roomFrom(elem Element) (models.RoomLabel, bool) {
	points, err := elementPoints(elem)
	if err != nil {
		return models.RoomLabel{}, false
	}
	if len(points) > 1 && points[0].Equal(points[len(points)-1]) {
		points = points[:len(points)-1]
	}
	if len(points) < 3 {
		return models.RoomLabel{}, false
	}

	scaled := make([]geometry.Vec2, len(points))
	for i, p := range points {
		scaled[i] = p.Scale(im.scale)
	}

	label := models.NewRoomLabel(graph.PolygonCentroid(scaled), roomName(elem.ID))
	label.ID = im.newID()
	label.ManualArea = models.Ptr(graph.PolygonArea(scaled))
	return label, true
}

// ============================================================
// Geometry helpers
// ============================================================

func elementPoints(elem Element) ([]geometry.Vec2, error) {
	if elem.Rect != nil {
		r := elem.Rect
		return []geometry.Vec2{
			{X: r.X, Z: r.Y},
			{X: r.X + r.Width, Z: r.Y},
			{X: r.X + r.Width, Z: r.Y + r.Height},
			{X: r.X, Z: r.Y + r.Height},
		}, nil
	}
	return ParsePath(elem.Path)
}

// centerline reduces a wall outline to the centerline of its bounding box's
// long side. The short side becomes the thickness.
func centerline(points []geometry.Vec2) (geometry.Vec2, geometry.Vec2, float64) {
	b := bounds(points)
	width := b.Max[0] - b.Min[0]
	height := b.Max[1] - b.Min[1]

	switch {
	case width == 0 && height == 0:
		return points[0], points[len(points)-1], 0
	case width >= height:
		mid := b.Min[1] + height/2
		return geometry.Vec2{X: b.Min[0], Z: mid}, geometry.Vec2{X: b.Max[0], Z: mid}, height
	default:
		mid := b.Min[0] + width/2
		return geometry.Vec2{X: mid, Z: b.Min[1]}, geometry.Vec2{X: mid, Z: b.Max[1]}, width
	}
}

func bounds(points []geometry.Vec2) orb.Bound {
	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = orb.Point{p.X, p.Z}
	}
	return mp.Bound()
}

func average(points []geometry.Vec2) geometry.Vec2 {
	var sum geometry.Vec2
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(points)))
}

func nearestWall(p geometry.Vec2, walls []models.Wall) (models.Wall, float64, bool) {
	best := -1
	bestDist, bestFrac := math.MaxFloat64, 0.0
	for i, w := range walls {
		d, frac := geometry.PointSegmentDistance(p, w.Start, w.End)
		if d < bestDist {
			best, bestDist, bestFrac = i, d, frac
		}
	}
	if best < 0 {
		return models.Wall{}, 0, false
	}
	return walls[best], bestFrac, true
}

// connectEndpoints pulls each wall endpoint onto the centerline of the
// closest other wall when it lies within their combined half thicknesses.
// Rect-drawn walls otherwise stop short of the walls they butt into and
// never form closed rooms.
func connectEndpoints(walls []models.Wall) {
	for i := range walls {
		walls[i].Start = connectPoint(walls, i, walls[i].Start)
		walls[i].End = connectPoint(walls, i, walls[i].End)
	}
}

func connectPoint(walls []models.Wall, self int, p geometry.Vec2) geometry.Vec2 {
	best := p
	bestDist := math.MaxFloat64
	for j, w := range walls {
		if j == self {
			continue
		}
		tol := (walls[self].Thickness+w.Thickness)/2 + 1e-9
		d, frac := geometry.PointSegmentDistance(p, w.Start, w.End)
		if d <= tol && d < bestDist {
			best = geometry.Lerp(w.Start, w.End, frac)
			bestDist = d
		}
	}
	return best
}
