package importer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/planner/geometry"
	"planner/internal/planner/graph"
	"planner/internal/planner/models"
	"planner/internal/planner/serializer"
)

const planSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="500" height="400">
  <g id="walls">
    <rect id="Wall_top" x="0" y="0" width="500" height="10"/>
    <rect id="Wall_left" x="0" y="0" width="10" height="400"/>
    <path id="Wall_bottom" d="M 0 390 H 500 V 400 H 0 Z"/>
    <rect id="Wall_right" x="490" y="0" width="10" height="400"/>
  </g>
  <rect id="Door_main" x="200" y="0" width="90" height="10"/>
  <rect id="Window_south" x="100" y="390" width="120" height="10"/>
  <rect id="Room_Guest_Bath" x="10" y="10" width="480" height="380"/>
  <rect id="decoration" x="0" y="0" width="5" height="5"/>
</svg>`

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("imp-%d", n)
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want []geometry.Vec2
	}{
		{
			name: "absolute",
			d:    "M 0 0 L 10 0 L 10 5 Z",
			want: []geometry.Vec2{{X: 0, Z: 0}, {X: 10, Z: 0}, {X: 10, Z: 5}, {X: 0, Z: 0}},
		},
		{
			name: "relative",
			d:    "m1,1 h4 v2 h-4 z",
			want: []geometry.Vec2{{X: 1, Z: 1}, {X: 5, Z: 1}, {X: 5, Z: 3}, {X: 1, Z: 3}, {X: 1, Z: 1}},
		},
		{
			name: "implicit line-to",
			d:    "M 0 0 10 0 10 10",
			want: []geometry.Vec2{{X: 0, Z: 0}, {X: 10, Z: 0}, {X: 10, Z: 10}},
		},
		{
			name: "compact signs",
			d:    "M10-5L20-5",
			want: []geometry.Vec2{{X: 10, Z: -5}, {X: 20, Z: -5}},
		},
		{
			name: "compact decimals and exponents",
			d:    "M0 0L.5.5l1e1-2E-1",
			want: []geometry.Vec2{{X: 0, Z: 0}, {X: 0.5, Z: 0.5}, {X: 10.5, Z: 0.3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParsePath("  ")
	assert.Error(t, err)

	_, err = ParsePath("M 0 0 L 10 x 5")
	assert.ErrorContains(t, err, `unexpected "x"`)
}

func TestParseSVGClassifiesByID(t *testing.T) {
	elements, err := ParseSVG(strings.NewReader(planSVG))
	require.NoError(t, err)

	kinds := map[ElementKind]int{}
	for _, e := range elements {
		kinds[e.Kind]++
	}
	assert.Equal(t, 4, kinds[KindWall])
	assert.Equal(t, 1, kinds[KindDoor])
	assert.Equal(t, 1, kinds[KindWindow])
	assert.Equal(t, 1, kinds[KindRoom])
	assert.Len(t, elements, 7)
}

func TestImportBuildsClosedPlan(t *testing.T) {
	im := New(WithIDGenerator(sequentialIDs()))

	doc, report, err := im.Import(strings.NewReader(planSVG))
	require.NoError(t, err)
	require.NoError(t, serializer.Validate(doc))

	assert.Equal(t, 4, report.Walls)
	assert.Equal(t, 2, report.Openings)
	assert.Equal(t, 1, report.Rooms)
	assert.Empty(t, report.Skipped)

	for _, w := range doc.Walls {
		assert.InDelta(t, 0.1, w.Thickness, 1e-9)
		assert.Equal(t, models.DefaultWallHeight, w.Height)
	}

	room := graph.DetectRoom(doc.Walls, geometry.Vec2{X: 2.5, Z: 2})
	require.NotNil(t, room)
	assert.InDelta(t, 4.9*3.9, room.Area, 1e-6)

	door := doc.Openings[0]
	assert.Equal(t, models.OpeningDoor, door.Type)
	assert.InDelta(t, 0.9, door.Width, 1e-9)
	assert.InDelta(t, (2.45-0.05)/4.9, door.Position, 1e-6)
	top, ok := doc.FindWall(door.WallID)
	require.True(t, ok)
	assert.InDelta(t, 0.05, top.Start.Z, 1e-9)

	window := doc.Openings[1]
	assert.Equal(t, models.OpeningWindow, window.Type)
	assert.Equal(t, models.DefaultWindowSill, window.SillHeight)

	label := doc.RoomLabels[0]
	assert.Equal(t, "Guest Bath", label.Name)
	require.NotNil(t, label.ManualArea)
	assert.InDelta(t, 4.8*3.8, *label.ManualArea, 1e-6)
	assert.InDelta(t, 2.5, label.Position.X, 1e-9)
	assert.InDelta(t, 2.0, label.Position.Z, 1e-9)
}

func TestImportSkipsUnplaceableOpenings(t *testing.T) {
	svg := `<svg>
  <rect id="Wall_a" x="0" y="0" width="100" height="10"/>
  <rect id="Door_wide" x="0" y="0" width="300" height="10"/>
  <rect id="Door_one" x="20" y="0" width="40" height="10"/>
  <rect id="Door_two" x="30" y="0" width="40" height="10"/>
</svg>`

	doc, report, err := New().Import(strings.NewReader(svg))
	require.NoError(t, err)

	assert.Len(t, doc.Openings, 1)
	assert.ElementsMatch(t, []string{"Door_wide", "Door_two"}, report.Skipped)
}

func TestImportScale(t *testing.T) {
	svg := `<svg><rect id="Wall_a" x="0" y="0" width="4" height="0.2"/></svg>`

	doc, _, err := New(WithScale(1)).Import(strings.NewReader(svg))
	require.NoError(t, err)
	require.Len(t, doc.Walls, 1)
	assert.InDelta(t, 4.0, doc.Walls[0].Length(), 1e-9)
	assert.InDelta(t, 0.2, doc.Walls[0].Thickness, 1e-9)
}

func TestImportRejectsMalformedXML(t *testing.T) {
	_, _, err := New().Import(strings.NewReader("<svg><rect"))
	assert.Error(t, err)
}

func TestRoomName(t *testing.T) {
	assert.Equal(t, "Kitchen", roomName("Room_Kitchen"))
	assert.Equal(t, "Hall", roomName("Hall_room"))
	assert.Equal(t, "Room", roomName("Room_"))
}
