package graph

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"planner/internal/planner/geometry"
	"planner/internal/planner/models"
)

// ============================================================
// Room detection
// ============================================================

const (
	MergeTolerance = 0.15 // Endpoints closer than this share a node
	MaxHops        = 20   // Longest boundary a trace will follow
	MinRoomArea    = 0.1  // Smaller cycles are treated as noise
)

// Room is an enclosed polygon found in the wall graph.
type Room struct {
	Vertices []geometry.Vec2 `json:"vertices"`
	Area     float64         `json:"area"`
}

// Contains reports whether p lies inside the room polygon.
func (r *Room) Contains(p geometry.Vec2) bool {
	return planar.RingContains(ring(r.Vertices), toPoint(p))
}

// DetectRoom returns the smallest room enclosing probe, or nil when no closed
// wall loop around it can be traced.
func DetectRoom(walls []models.Wall, probe geometry.Vec2) *Room {
	var best *Room
	for _, room := range DetectRooms(walls) {
		if !room.Contains(probe) {
			continue
		}
		if best == nil || room.Area < best.Area {
			best = room
		}
	}
	return best
}

// DetectRooms traces every closed cycle in the wall graph and returns the
// distinct polygons above the noise threshold, smallest first.
func DetectRooms(walls []models.Wall) []*Room {
	g := NewGraphBuilder()
	g.BuildFromWalls(walls)

	seen := make(map[string]bool)
	var rooms []*Room

	for start := range g.nodes {
		for _, next := range g.nodes[start].edges {
			cycle := g.trace(start, next)
			if cycle == nil {
				continue
			}

			key := cycleKey(cycle)
			if seen[key] {
				continue
			}
			seen[key] = true

			vertices := make([]geometry.Vec2, len(cycle))
			for i, idx := range cycle {
				vertices[i] = g.nodes[idx].pos
			}

			area := shoelace(vertices)
			if area < MinRoomArea {
				continue
			}
			rooms = append(rooms, &Room{Vertices: vertices, Area: area})
		}
	}

	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].Area < rooms[j].Area
	})
	return rooms
}

// ============================================================
// Graph Builder
// ============================================================

type node struct {
	pos   geometry.Vec2
	edges []int
}

type GraphBuilder struct {
	nodes     []node
	tolerance float64
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{tolerance: MergeTolerance}
}

// BuildFromWalls adds one edge per wall between its (merged) endpoint nodes.
func (g *GraphBuilder) BuildFromWalls(walls []models.Wall) {
	g.nodes = g.nodes[:0]

	for _, w := range walls {
		a := g.findOrCreateNode(w.Start)
		b := g.findOrCreateNode(w.End)
		if a == b {
			continue
		}
		g.nodes[a].edges = append(g.nodes[a].edges, b)
		g.nodes[b].edges = append(g.nodes[b].edges, a)
	}
}

// NodeCount returns the number of distinct nodes after merging.
func (g *GraphBuilder) NodeCount() int {
	return len(g.nodes)
}

func (g *GraphBuilder) findOrCreateNode(p geometry.Vec2) int {
	// Linear scan keeps the first node within tolerance
	for i, n := range g.nodes {
		if geometry.Distance(p, n.pos) <= g.tolerance {
			return i
		}
	}

	g.nodes = append(g.nodes, node{pos: p})
	return len(g.nodes) - 1
}

// trace walks from start towards next, always taking the rightmost turn,
// until it returns to start. It gives up on revisits, dead ends and after
// MaxHops steps.
func (g *GraphBuilder) trace(start, next int) []int {
	path := []int{start}
	visited := map[int]bool{start: true}
	prev, cur := start, next

	for hop := 0; hop < MaxHops; hop++ {
		if cur == start {
			return path
		}
		if visited[cur] {
			return nil
		}
		visited[cur] = true
		path = append(path, cur)

		following, ok := g.rightmostTurn(prev, cur)
		if !ok {
			return nil
		}
		prev, cur = cur, following
	}

	return nil
}

// rightmostTurn picks the neighbor of cur reached by the sharpest clockwise
// turn relative to the direction prev->cur. Going back to prev is excluded.
func (g *GraphBuilder) rightmostTurn(prev, cur int) (int, bool) {
	incoming := g.nodes[cur].pos.Sub(g.nodes[prev].pos)

	best := -1
	bestTurn := math.Inf(1)

	for _, cand := range g.nodes[cur].edges {
		if cand == prev {
			continue
		}
		outgoing := g.nodes[cand].pos.Sub(g.nodes[cur].pos)
		// Counterclockwise positive, so the most negative angle is the
		// tightest clockwise turn.
		turn := math.Atan2(incoming.Cross(outgoing), incoming.Dot(outgoing))
		if turn < bestTurn {
			bestTurn = turn
			best = cand
		}
	}

	return best, best >= 0
}

// ============================================================
// Polygon helpers
// ============================================================

// shoelace returns the unsigned polygon area.
func shoelace(vertices []geometry.Vec2) float64 {
	if len(vertices) < 3 {
		return 0
	}
	return math.Abs(planar.Area(ring(vertices)))
}

// PolygonArea returns the unsigned area of a closed or open vertex loop.
func PolygonArea(vertices []geometry.Vec2) float64 {
	return shoelace(vertices)
}

// PolygonCentroid returns the area centroid of the polygon, falling back to
// the vertex average for degenerate input.
func PolygonCentroid(vertices []geometry.Vec2) geometry.Vec2 {
	if len(vertices) == 0 {
		return geometry.Vec2{}
	}
	if len(vertices) >= 3 {
		c, area := planar.CentroidArea(ring(vertices))
		if area != 0 {
			return geometry.Vec2{X: c[0], Z: c[1]}
		}
	}
	var sum geometry.Vec2
	for _, v := range vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(vertices)))
}

func ring(vertices []geometry.Vec2) orb.Ring {
	r := make(orb.Ring, 0, len(vertices)+1)
	for _, v := range vertices {
		r = append(r, toPoint(v))
	}
	if len(r) > 0 && !r[0].Equal(r[len(r)-1]) {
		r = append(r, r[0])
	}
	return r
}

func toPoint(v geometry.Vec2) orb.Point {
	return orb.Point{v.X, v.Z}
}

// cycleKey identifies a cycle regardless of start node and direction.
func cycleKey(cycle []int) string {
	nodes := append([]int(nil), cycle...)
	sort.Ints(nodes)
	return fmt.Sprint(nodes)
}
