package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/planner/geometry"
	"planner/internal/planner/models"
	"planner/internal/planner/store"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		ev     Event
		action Action
		tool   store.Tool
	}{
		{"ctrl z", Event{Key: "z", Ctrl: true}, ActionUndo, ""},
		{"cmd z", Event{Key: "Z", Meta: true}, ActionUndo, ""},
		{"ctrl shift z", Event{Key: "Z", Ctrl: true, Shift: true}, ActionRedo, ""},
		{"ctrl y", Event{Key: "y", Ctrl: true}, ActionRedo, ""},
		{"delete", Event{Key: "Delete"}, ActionDeleteSelected, ""},
		{"backspace", Event{Key: "Backspace"}, ActionDeleteSelected, ""},
		{"escape", Event{Key: "Escape"}, ActionCancel, ""},
		{"camera", Event{Key: "c"}, ActionToggleCamera, ""},
		{"wall", Event{Key: "W"}, ActionSelectTool, store.ToolWall},
		{"window", Event{Key: "n"}, ActionSelectTool, store.ToolWindow},
		{"dimension", Event{Key: "m"}, ActionSelectTool, store.ToolDimension},
		{"label", Event{Key: "l"}, ActionSelectTool, store.ToolRoomLabel},
		{"ctrl w is not a tool", Event{Key: "w", Ctrl: true}, ActionNone, ""},
		{"alt d", Event{Key: "d", Alt: true}, ActionNone, ""},
		{"unbound", Event{Key: "q"}, ActionNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, tool := Resolve(tt.ev)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.tool, tool)
		})
	}
}

func TestDispatchDrivesStore(t *testing.T) {
	s := store.New()
	wall, err := s.AddWall(models.NewWall(geometry.Vec2{}, geometry.Vec2{X: 3}))
	require.NoError(t, err)

	handled, err := Dispatch(s, Event{Key: "z", Ctrl: true})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Empty(t, s.Walls())

	_, err = Dispatch(s, Event{Key: "z", Meta: true, Shift: true})
	require.NoError(t, err)
	require.Len(t, s.Walls(), 1)

	require.NoError(t, s.Select(wall.ID))
	_, err = Dispatch(s, Event{Key: "Delete"})
	require.NoError(t, err)
	assert.Empty(t, s.Walls())

	_, err = Dispatch(s, Event{Key: "d"})
	require.NoError(t, err)
	assert.Equal(t, store.ToolDoor, s.ActiveTool())

	_, err = Dispatch(s, Event{Key: "Escape"})
	require.NoError(t, err)
	assert.Equal(t, store.ToolSelect, s.ActiveTool())

	_, err = Dispatch(s, Event{Key: "c"})
	require.NoError(t, err)
	assert.Equal(t, models.CameraOrthographic, s.Camera().Mode)

	handled, err = Dispatch(s, Event{Key: "q"})
	require.NoError(t, err)
	assert.False(t, handled)
}
