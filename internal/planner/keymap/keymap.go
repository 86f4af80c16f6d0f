package keymap

import (
	"strings"

	"planner/internal/planner/store"
)

// Event is a key press as reported by the input layer. Key is the printed
// character ("z", "W") or a named key ("Delete", "Escape").
type Event struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Meta  bool   `json:"meta"`
	Shift bool   `json:"shift"`
	Alt   bool   `json:"alt"`
}

type Action int

const (
	ActionNone Action = iota
	ActionUndo
	ActionRedo
	ActionDeleteSelected
	ActionCancel
	ActionSelectTool
	ActionToggleCamera
)

// Target is the subset of the drawing store driven by the keyboard.
type Target interface {
	Undo() (bool, error)
	Redo() (bool, error)
	DeleteSelected() (bool, error)
	ClearSelection()
	SetActiveTool(t store.Tool)
	ToggleCameraMode() error
}

var toolKeys = []struct {
	key  string
	tool store.Tool
}{
	{"v", store.ToolSelect},
	{"w", store.ToolWall},
	{"d", store.ToolDoor},
	{"n", store.ToolWindow},
	{"f", store.ToolFurniture},
	{"m", store.ToolDimension},
	{"l", store.ToolRoomLabel},
	{"t", store.ToolText},
}

// Resolve maps a key event to an action. For ActionSelectTool the tool is
// returned as well.
func Resolve(ev Event) (Action, store.Tool) {
	key := strings.ToLower(ev.Key)
	mod := ev.Ctrl || ev.Meta

	if mod {
		switch {
		case key == "z" && ev.Shift:
			return ActionRedo, ""
		case key == "z":
			return ActionUndo, ""
		case key == "y":
			return ActionRedo, ""
		}
		return ActionNone, ""
	}
	if ev.Alt {
		return ActionNone, ""
	}

	switch key {
	case "delete", "backspace":
		return ActionDeleteSelected, ""
	case "escape":
		return ActionCancel, ""
	case "c":
		return ActionToggleCamera, ""
	}
	for _, tk := range toolKeys {
		if tk.key == key {
			return ActionSelectTool, tk.tool
		}
	}
	return ActionNone, ""
}

// Dispatch resolves ev and applies it to t. It reports whether the key was
// bound to anything.
func Dispatch(t Target, ev Event) (bool, error) {
	action, tool := Resolve(ev)

	var err error
	switch action {
	case ActionUndo:
		_, err = t.Undo()
	case ActionRedo:
		_, err = t.Redo()
	case ActionDeleteSelected:
		_, err = t.DeleteSelected()
	case ActionCancel:
		t.ClearSelection()
		t.SetActiveTool(store.ToolSelect)
	case ActionSelectTool:
		t.SetActiveTool(tool)
	case ActionToggleCamera:
		err = t.ToggleCameraMode()
	default:
		return false, nil
	}
	return true, err
}
