package store

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"planner/internal/planner/geometry"
	"planner/internal/planner/history"
	"planner/internal/planner/models"
	"planner/internal/planner/serializer"
	"planner/internal/planner/snapping"
)

var (
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidEntity   = errors.New("invalid entity")
	ErrDuplicateID     = errors.New("duplicate entity id")
	ErrLayerLocked     = errors.New("layer is locked")
	ErrCorruptSnapshot = errors.New("history snapshot failed validation")
	ErrNoPreset        = errors.New("no furniture preset selected")
)

// Scheduler receives the full document after every data change.
// autosave.Autosaver implements it.
type Scheduler interface {
	Schedule(doc *models.DrawingData)
}

// ============================================================
// Snapshot
// ============================================================

// Snapshot holds the persisted, undoable part of the document. Selection,
// active tool, furniture preset and camera placement are not part of it.
type Snapshot struct {
	Units               models.Units
	CameraMode          models.CameraMode
	Walls               []models.Wall
	Openings            []models.Opening
	Objects             []models.PlacedObject
	Dimensions          []models.Dimension
	RoomLabels          []models.RoomLabel
	TextAnnotations     []models.TextAnnotation
	MaterialAssignments []models.MaterialAssignment
	Layers              []models.Layer
}

// clone copies every collection. Entities are values and their optional
// pointer fields are replaced, never written through, so sharing the
// pointees is safe.
func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Units:               s.Units,
		CameraMode:          s.CameraMode,
		Walls:               slices.Clone(s.Walls),
		Openings:            slices.Clone(s.Openings),
		Objects:             slices.Clone(s.Objects),
		Dimensions:          slices.Clone(s.Dimensions),
		RoomLabels:          slices.Clone(s.RoomLabels),
		TextAnnotations:     slices.Clone(s.TextAnnotations),
		MaterialAssignments: slices.Clone(s.MaterialAssignments),
		Layers:              slices.Clone(s.Layers),
	}
}

func snapshotOf(d *models.DrawingData) Snapshot {
	return Snapshot{
		Units:               d.Units,
		CameraMode:          d.Camera.Mode,
		Walls:               d.Walls,
		Openings:            d.Openings,
		Objects:             d.Objects,
		Dimensions:          d.Dimensions,
		RoomLabels:          d.RoomLabels,
		TextAnnotations:     d.TextAnnotations,
		MaterialAssignments: d.MaterialAssignments,
		Layers:              d.Layers,
	}.clone()
}

// ============================================================
// Store
// ============================================================

// Store is the single mutable drawing document plus editor UI state.
// It is not safe for concurrent use: one goroutine (the editor's event loop)
// owns it. Other goroutines only ever see copies handed to the Scheduler.
type Store struct {
	doc            Snapshot
	cameraPosition geometry.Vec3
	cameraTarget   geometry.Vec3

	selectedID      string
	activeTool      Tool
	furniturePreset string

	history   *history.Manager[Snapshot]
	snapper   snapping.Snapper
	scheduler Scheduler
	newID     func() string
	logger    *slog.Logger
}

type Option func(*Store)

// WithScheduler forwards every data change to sch, typically an autosaver.
func WithScheduler(sch Scheduler) Option {
	return func(s *Store) { s.scheduler = sch }
}

func WithSnapper(sn snapping.Snapper) Option {
	return func(s *Store) { s.snapper = sn }
}

func WithHistoryLimit(limit int) Option {
	return func(s *Store) { s.history = history.New[Snapshot](limit) }
}

// WithIDGenerator replaces uuid-based ids, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New returns a store holding an empty document.
func New(opts ...Option) *Store {
	empty := models.NewDrawing()
	s := &Store{
		doc:            snapshotOf(empty),
		cameraPosition: empty.Camera.Position,
		cameraTarget:   empty.Camera.Target,
		activeTool:     ToolSelect,
		history:        history.New[Snapshot](history.DefaultLimit),
		snapper:        snapping.New(),
		newID:          uuid.NewString,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Document returns a complete copy of the persisted document.
func (s *Store) Document() *models.DrawingData {
	return s.serialize(s.doc)
}

func (s *Store) serialize(snap Snapshot) *models.DrawingData {
	pos, target := s.cameraPosition, s.cameraTarget
	return serializer.Serialize(serializer.State{
		Units:               snap.Units,
		CameraPosition:      &pos,
		CameraTarget:        &target,
		CameraMode:          snap.CameraMode,
		Walls:               snap.Walls,
		Openings:            snap.Openings,
		Objects:             snap.Objects,
		Dimensions:          snap.Dimensions,
		RoomLabels:          snap.RoomLabels,
		TextAnnotations:     snap.TextAnnotations,
		MaterialAssignments: snap.MaterialAssignments,
		Layers:              snap.Layers,
	})
}

// LoadDrawing replaces the whole document, resets the UI state and drops the
// undo history. Invalid documents are rejected without touching the store.
func (s *Store) LoadDrawing(d *models.DrawingData) error {
	if err := serializer.Validate(d); err != nil {
		return err
	}

	s.doc = snapshotOf(d)
	s.cameraPosition = d.Camera.Position
	s.cameraTarget = d.Camera.Target
	s.selectedID = ""
	s.activeTool = ToolSelect
	s.furniturePreset = ""
	s.history.Reset()
	return nil
}

// ============================================================
// Mutation & history
// ============================================================

// mutate applies fn as one undoable step. The pre-change snapshot is pushed
// only when fn succeeds and the result still satisfies the document schema;
// otherwise the document and selection are rolled back.
func (s *Store) mutate(fn func() error) error {
	before := s.doc.clone()
	selected := s.selectedID

	rollback := func() {
		s.doc = before.clone()
		s.selectedID = selected
	}

	if err := fn(); err != nil {
		rollback()
		return err
	}
	if err := serializer.Validate(s.Document()); err != nil {
		rollback()
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	s.history.Push(before)
	s.changed()
	return nil
}

func (s *Store) changed() {
	if s.scheduler != nil {
		s.scheduler.Schedule(s.Document())
	}
}

// Undo restores the state before the most recent change. It reports false
// when there is nothing to undo.
func (s *Store) Undo() (bool, error) {
	ok, err := s.history.Undo(s.doc.clone(), s.restore)
	if err != nil {
		s.logger.Error("undo aborted", "error", err)
		return false, err
	}
	if ok {
		s.changed()
	}
	return ok, nil
}

// Redo reapplies the most recently undone change.
func (s *Store) Redo() (bool, error) {
	ok, err := s.history.Redo(s.doc.clone(), s.restore)
	if err != nil {
		s.logger.Error("redo aborted", "error", err)
		return false, err
	}
	if ok {
		s.changed()
	}
	return ok, nil
}

func (s *Store) restore(snap Snapshot) error {
	if err := serializer.Validate(s.serialize(snap)); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	s.doc = snap.clone()
	if s.selectedID != "" && !s.hasEntity(s.selectedID) {
		s.selectedID = ""
	}
	return nil
}

func (s *Store) CanUndo() bool  { return s.history.CanUndo() }
func (s *Store) CanRedo() bool  { return s.history.CanRedo() }
func (s *Store) UndoDepth() int { return s.history.UndoLen() }
func (s *Store) RedoDepth() int { return s.history.RedoLen() }

// ============================================================
// Helpers
// ============================================================

func (s *Store) ensureID(id string) (string, error) {
	if id == "" {
		return s.newID(), nil
	}
	if s.hasEntity(id) {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	return id, nil
}

func (s *Store) hasEntity(id string) bool {
	return findIndex(s.doc.Walls, id, wallID) >= 0 ||
		findIndex(s.doc.Openings, id, openingID) >= 0 ||
		findIndex(s.doc.Objects, id, objectID) >= 0 ||
		findIndex(s.doc.Dimensions, id, dimensionID) >= 0 ||
		findIndex(s.doc.RoomLabels, id, roomLabelID) >= 0 ||
		findIndex(s.doc.TextAnnotations, id, textAnnotationID) >= 0 ||
		findIndex(s.doc.MaterialAssignments, id, materialID) >= 0
}

// ensureUnlocked rejects edits to entities on a locked layer. Unknown layer
// names count as unlocked.
func (s *Store) ensureUnlocked(layer *string) error {
	if layer == nil {
		return nil
	}
	i := findIndex(s.doc.Layers, *layer, layerName)
	if i >= 0 && s.doc.Layers[i].Locked {
		return fmt.Errorf("%w: %s", ErrLayerLocked, *layer)
	}
	return nil
}

func (s *Store) clearSelectionOf(ids ...string) {
	if slices.Contains(ids, s.selectedID) {
		s.selectedID = ""
	}
}

func findIndex[T any](items []T, id string, idOf func(T) string) int {
	return slices.IndexFunc(items, func(item T) bool { return idOf(item) == id })
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func wallID(w models.Wall) string                     { return w.ID }
func openingID(o models.Opening) string               { return o.ID }
func objectID(o models.PlacedObject) string           { return o.ID }
func dimensionID(d models.Dimension) string           { return d.ID }
func roomLabelID(r models.RoomLabel) string           { return r.ID }
func textAnnotationID(t models.TextAnnotation) string { return t.ID }
func materialID(m models.MaterialAssignment) string   { return m.ID }
func layerName(l models.Layer) string                 { return l.Name }
