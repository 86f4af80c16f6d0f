package history

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures the snapshot passed to restore.
type recorder struct {
	got int
	err error
}

func (r *recorder) restore(v int) error {
	if r.err != nil {
		return r.err
	}
	r.got = v
	return nil
}

func TestUndoRedoRoundTrip(t *testing.T) {
	m := New[int](0)
	rec := &recorder{}

	m.Push(0)
	m.Push(1)

	ok, err := m.Undo(2, rec.restore)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, rec.got)
	assert.True(t, m.CanRedo())

	ok, err = m.Redo(1, rec.restore)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, rec.got)
	assert.Equal(t, 2, m.UndoLen())
	assert.Zero(t, m.RedoLen())
}

func TestUndoOnEmptyIsNoop(t *testing.T) {
	m := New[int](0)
	rec := &recorder{got: -1}

	ok, err := m.Undo(5, rec.restore)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, -1, rec.got)

	ok, err = m.Redo(5, rec.restore)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}

func TestPushClearsRedo(t *testing.T) {
	m := New[int](0)
	rec := &recorder{}

	m.Push(0)
	_, err := m.Undo(1, rec.restore)
	require.NoError(t, err)
	require.True(t, m.CanRedo())

	m.Push(7)
	assert.False(t, m.CanRedo())
	assert.Equal(t, 1, m.UndoLen())
}

func TestPushEvictsOldest(t *testing.T) {
	m := New[int](50)
	for i := 0; i < 60; i++ {
		m.Push(i)
		assert.LessOrEqual(t, m.UndoLen(), 50)
	}
	assert.Equal(t, 50, m.UndoLen())

	rec := &recorder{}
	for i := 0; i < 50; i++ {
		ok, err := m.Undo(100, rec.restore)
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, 10, rec.got)

	ok, err := m.Undo(100, rec.restore)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestFailedRestoreLeavesStacksUntouched(t *testing.T) {
	m := New[int](0)
	m.Push(1)
	m.Push(2)

	rec := &recorder{err: errors.New("corrupt")}
	ok, err := m.Undo(3, rec.restore)

	assert.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, m.UndoLen())
	assert.Zero(t, m.RedoLen())

	rec.err = nil
	ok, err = m.Undo(3, rec.restore)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, rec.got)
}

func TestResetDropsEverything(t *testing.T) {
	m := New[string](3)
	m.Push("a")
	m.Push("b")
	m.Reset()

	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
	assert.Equal(t, 3, m.Limit())
}
