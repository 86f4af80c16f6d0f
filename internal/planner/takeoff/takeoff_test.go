package takeoff

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"planner/internal/planner/geometry"
	"planner/internal/planner/models"
)

func roomDoc() *models.DrawingData {
	doc := models.NewDrawing()
	corners := []geometry.Vec2{{X: 0, Z: 0}, {X: 5, Z: 0}, {X: 5, Z: 4}, {X: 0, Z: 4}}
	for i, id := range []string{"w1", "w2", "w3", "w4"} {
		doc.Walls = append(doc.Walls, models.Wall{
			ID:        id,
			Start:     corners[i],
			End:       corners[(i+1)%4],
			Height:    2.5,
			Thickness: 0.15,
		})
	}
	door := models.NewDoor("w1", 0.5)
	door.ID = "d1"
	window := models.NewWindow("w2", 0.5)
	window.ID = "win1"
	doc.Openings = []models.Opening{door, window}
	doc.RoomLabels = []models.RoomLabel{
		{ID: "r1", Position: geometry.Vec2{X: 2.5, Z: 2}, Name: "Living", ShowArea: true},
		{ID: "r2", Position: geometry.Vec2{X: 9, Z: 9}, Name: "Garden", ShowArea: true},
		{ID: "r3", Position: geometry.Vec2{X: 1, Z: 1}, Name: "Nook", ShowArea: true, ManualArea: models.Ptr(3.5)},
	}
	return doc
}

func TestComputeWallQuantities(t *testing.T) {
	tk := Compute(roomDoc())

	require.Len(t, tk.Walls, 4)
	w1 := tk.Walls[0]
	assert.InDelta(t, 5.0, w1.Length, 1e-9)
	assert.InDelta(t, 12.5, w1.GrossArea, 1e-9)
	// door 0.9 x 2.1 is capped by the 2.5 m wall
	assert.InDelta(t, 0.9*2.1, w1.OpeningArea, 1e-9)
	assert.InDelta(t, 12.5-0.9*2.1, w1.NetArea, 1e-9)
	assert.Equal(t, 1, w1.Doors)

	w2 := tk.Walls[1]
	assert.InDelta(t, 1.2*1.2, w2.OpeningArea, 1e-9)
	assert.Equal(t, 1, w2.Windows)

	s := tk.Summary
	assert.Equal(t, 4, s.Walls)
	assert.Equal(t, 1, s.Doors)
	assert.Equal(t, 1, s.Windows)
	assert.InDelta(t, 18.0, s.WallLength, 1e-9)
	assert.InDelta(t, 45.0, s.GrossArea, 1e-9)
	assert.InDelta(t, s.GrossArea-s.OpeningArea, s.NetArea, 1e-9)
}

func TestComputeRoomAreas(t *testing.T) {
	tk := Compute(roomDoc())

	require.Len(t, tk.Rooms, 3)
	require.NotNil(t, tk.Rooms[0].Area)
	assert.InDelta(t, 20.0, *tk.Rooms[0].Area, 1e-6)
	assert.Nil(t, tk.Rooms[1].Area)
	assert.InDelta(t, 3.5, *tk.Rooms[2].Area, 1e-9)
	assert.InDelta(t, 23.5, tk.Summary.RoomArea, 1e-6)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Compute(roomDoc()).WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetWalls, SheetRooms, SheetSummary}, f.GetSheetList())

	walls, err := f.GetRows(SheetWalls)
	require.NoError(t, err)
	require.Len(t, walls, 5)
	assert.Equal(t, "Wall", walls[0][0])
	assert.Equal(t, "w1", walls[1][0])
	assert.Equal(t, "12.5", walls[1][3])

	rooms, err := f.GetRows(SheetRooms)
	require.NoError(t, err)
	require.Len(t, rooms, 4)
	assert.Equal(t, "Living", rooms[1][1])
	assert.Equal(t, "20", rooms[1][2])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Units", "metric"}, summary[1])
	assert.Equal(t, []string{"Walls", "4"}, summary[2])
}
