package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/planner/geometry"
	"planner/internal/planner/models"
)

func wall(id string, x1, z1, x2, z2 float64) models.Wall {
	w := models.NewWall(geometry.Vec2{X: x1, Z: z1}, geometry.Vec2{X: x2, Z: z2})
	w.ID = id
	return w
}

func rectangle(w, d float64) []models.Wall {
	return []models.Wall{
		wall("w1", 0, 0, w, 0),
		wall("w2", w, 0, w, d),
		wall("w3", w, d, 0, d),
		wall("w4", 0, d, 0, 0),
	}
}

func TestDetectRoomRectangle(t *testing.T) {
	room := DetectRoom(rectangle(5, 4), geometry.Vec2{X: 2.5, Z: 2})

	require.NotNil(t, room)
	assert.InDelta(t, 20.0, room.Area, 1e-9)
	assert.Len(t, room.Vertices, 4)
}

func TestDetectRoomOutsideReturnsNil(t *testing.T) {
	assert.Nil(t, DetectRoom(rectangle(5, 4), geometry.Vec2{X: 10, Z: 10}))
	assert.Nil(t, DetectRoom(rectangle(5, 4), geometry.Vec2{X: -1, Z: 2}))
}

func TestDetectRoomOpenLayoutReturnsNil(t *testing.T) {
	walls := rectangle(5, 4)[:3]

	assert.Nil(t, DetectRoom(walls, geometry.Vec2{X: 2.5, Z: 2}))
	assert.Nil(t, DetectRoom(nil, geometry.Vec2{X: 2.5, Z: 2}))
}

func TestDetectRoomMergesNearbyEndpoints(t *testing.T) {
	walls := []models.Wall{
		wall("w1", 0, 0, 4, 0),
		wall("w2", 4.1, 0.05, 4, 3),
		wall("w3", 4, 3, 0, 3),
		wall("w4", 0.08, 3, 0, 0.1),
	}

	room := DetectRoom(walls, geometry.Vec2{X: 2, Z: 1.5})

	require.NotNil(t, room)
	assert.InDelta(t, 12.0, room.Area, 0.5)
}

func TestDetectRoomPicksTightestEnclosure(t *testing.T) {
	walls := []models.Wall{
		wall("a", 0, 0, 2.5, 0),
		wall("b", 2.5, 0, 5, 0),
		wall("c", 5, 0, 5, 4),
		wall("d", 5, 4, 2.5, 4),
		wall("e", 2.5, 4, 0, 4),
		wall("f", 0, 4, 0, 0),
		wall("split", 2.5, 0, 2.5, 4),
	}

	left := DetectRoom(walls, geometry.Vec2{X: 1, Z: 2})
	require.NotNil(t, left)
	assert.InDelta(t, 10.0, left.Area, 1e-9)

	right := DetectRoom(walls, geometry.Vec2{X: 4, Z: 2})
	require.NotNil(t, right)
	assert.InDelta(t, 10.0, right.Area, 1e-9)
	assert.True(t, right.Contains(geometry.Vec2{X: 4, Z: 2}))
	assert.False(t, right.Contains(geometry.Vec2{X: 1, Z: 2}))
}

func TestDetectRoomsDiscardsNoise(t *testing.T) {
	walls := []models.Wall{
		wall("w1", 0, 0, 0.5, 0),
		wall("w2", 0.5, 0, 0.5, 0.16),
		wall("w3", 0.5, 0.16, 0, 0.16),
		wall("w4", 0, 0.16, 0, 0),
	}

	assert.Empty(t, DetectRooms(walls))
}

func TestDetectRoomGivesUpOnLongBoundaries(t *testing.T) {
	const sides = 25
	var walls []models.Wall
	for i := 0; i < sides; i++ {
		a := 2 * math.Pi * float64(i) / sides
		b := 2 * math.Pi * float64(i+1) / sides
		walls = append(walls, wall("w", 10*math.Cos(a), 10*math.Sin(a), 10*math.Cos(b), 10*math.Sin(b)))
	}

	assert.Nil(t, DetectRoom(walls, geometry.Vec2{}))
}

func TestGraphBuilderMergesEndpoints(t *testing.T) {
	g := NewGraphBuilder()
	g.BuildFromWalls(rectangle(5, 4))

	assert.Equal(t, 4, g.NodeCount())
}

func TestPolygonHelpers(t *testing.T) {
	square := []geometry.Vec2{{X: 0, Z: 0}, {X: 2, Z: 0}, {X: 2, Z: 2}, {X: 0, Z: 2}}

	assert.InDelta(t, 4.0, PolygonArea(square), 1e-9)
	c := PolygonCentroid(square)
	assert.InDelta(t, 1.0, c.X, 1e-9)
	assert.InDelta(t, 1.0, c.Z, 1e-9)
	assert.Zero(t, PolygonArea(square[:2]))
}
