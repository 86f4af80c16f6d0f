package history

import "slices"

// DefaultLimit is the undo depth kept by New when limit is not positive.
const DefaultLimit = 50

// RestoreFunc applies a snapshot to the live document. A non-nil error aborts
// the undo or redo and leaves both stacks untouched.
type RestoreFunc[T any] func(T) error

// Manager is a bounded linear undo/redo history over document snapshots.
// It is not safe for concurrent use; the editor mutates it from one goroutine.
type Manager[T any] struct {
	undo  []T
	redo  []T
	limit int
}

func New[T any](limit int) *Manager[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager[T]{limit: limit}
}

// Push records the state before a change. The oldest entry is dropped once
// the limit is exceeded, and any redo history is discarded.
func (m *Manager[T]) Push(snapshot T) {
	m.undo = append(m.undo, snapshot)
	if len(m.undo) > m.limit {
		m.undo = slices.Delete(m.undo, 0, len(m.undo)-m.limit)
	}
	clear(m.redo)
	m.redo = m.redo[:0]
}

// Undo restores the most recent snapshot through restore and moves current
// onto the redo stack. It reports false when there is nothing to undo.
func (m *Manager[T]) Undo(current T, restore RestoreFunc[T]) (bool, error) {
	return step(&m.undo, &m.redo, current, restore)
}

// Redo is the inverse of Undo.
func (m *Manager[T]) Redo(current T, restore RestoreFunc[T]) (bool, error) {
	return step(&m.redo, &m.undo, current, restore)
}

func step[T any](from, to *[]T, current T, restore RestoreFunc[T]) (bool, error) {
	if len(*from) == 0 {
		return false, nil
	}

	top := (*from)[len(*from)-1]
	if err := restore(top); err != nil {
		return false, err
	}

	var zero T
	(*from)[len(*from)-1] = zero
	*from = (*from)[:len(*from)-1]
	*to = append(*to, current)
	return true, nil
}

// Reset drops all history.
func (m *Manager[T]) Reset() {
	m.undo = nil
	m.redo = nil
}

func (m *Manager[T]) CanUndo() bool { return len(m.undo) > 0 }
func (m *Manager[T]) CanRedo() bool { return len(m.redo) > 0 }
func (m *Manager[T]) UndoLen() int  { return len(m.undo) }
func (m *Manager[T]) RedoLen() int  { return len(m.redo) }
func (m *Manager[T]) Limit() int    { return m.limit }
