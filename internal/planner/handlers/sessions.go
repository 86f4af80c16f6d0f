package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"

	"planner/internal/planner/autosave"
	"planner/internal/planner/geometry"
	"planner/internal/planner/keymap"
	"planner/internal/planner/models"
	"planner/internal/planner/repository"
	"planner/internal/planner/serializer"
	"planner/internal/planner/store"
)

// ============================================================
// Editing Sessions
// ============================================================

// session is one open drawing. Every edit goes through the store so it is
// validated, undoable and autosaved.
type session struct {
	mu    sync.Mutex
	store *store.Store
	saver *autosave.Autosaver
}

type SessionHandler struct {
	repo        repository.Repository
	delay       time.Duration
	saveTimeout time.Duration
	logger      *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionHandler(repo repository.Repository, delay, saveTimeout time.Duration, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		repo:        repo,
		delay:       delay,
		saveTimeout: saveTimeout,
		logger:      logger.With("component", "sessions"),
		sessions:    make(map[string]*session),
	}
}

func (h *SessionHandler) Register(router fiber.Router) {
	router.Post("/sessions/:id", h.Open)
	router.Get("/sessions/:id", h.State)
	router.Delete("/sessions/:id", h.CloseSession)
	router.Post("/sessions/:id/flush", h.Flush)
	router.Post("/sessions/:id/walls", h.AddWall)
	router.Post("/sessions/:id/openings", h.AddOpening)
	router.Post("/sessions/:id/rooms", h.PlaceRoomLabel)
	router.Post("/sessions/:id/select", h.Select)
	router.Post("/sessions/:id/keys", h.Key)
	router.Post("/sessions/:id/undo", h.Undo)
	router.Post("/sessions/:id/redo", h.Redo)
}

// Open loads the stored document, or starts an empty one, and keeps it in
// memory until the session is closed. Opening an open session is a no-op.
func (h *SessionHandler) Open(c fiber.Ctx) error {
	id := c.Params("id")

	h.mu.Lock()
	s, ok := h.sessions[id]
	h.mu.Unlock()
	if ok {
		return h.sendLocked(c, fiber.StatusOK, id, s)
	}

	doc, err := h.repo.Load(c.Context(), id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return writeError(c, h.logger, err)
	}

	logger := h.logger.With("document_id", id)
	saver := autosave.New(repository.SaverFor(h.repo, id), h.delay,
		autosave.WithTimeout(h.saveTimeout),
		autosave.WithLogger(logger),
	)
	s = &session{
		store: store.New(store.WithScheduler(saver), store.WithLogger(logger)),
		saver: saver,
	}
	if doc != nil {
		if err := s.store.LoadDrawing(doc); err != nil {
			return writeError(c, h.logger, err)
		}
	}

	h.mu.Lock()
	if existing, ok := h.sessions[id]; ok {
		h.mu.Unlock()
		return h.sendLocked(c, fiber.StatusOK, id, existing)
	}
	h.sessions[id] = s
	h.mu.Unlock()

	logger.Info("session opened")
	return h.sendLocked(c, fiber.StatusCreated, id, s)
}

func (h *SessionHandler) State(c fiber.Ctx) error {
	return h.with(c, func(s *session) error {
		return h.sendState(c, fiber.StatusOK, c.Params("id"), s)
	})
}

// CloseSession writes any pending change and forgets the session.
func (h *SessionHandler) CloseSession(c fiber.Ctx) error {
	id := c.Params("id")
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not open"})
	}
	if err := s.saver.Close(c.Context()); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SessionHandler) Flush(c fiber.Ctx) error {
	return h.with(c, func(s *session) error {
		if err := s.saver.Flush(c.Context()); err != nil {
			return writeError(c, h.logger, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

type wallRequest struct {
	Start     geometry.Vec2 `json:"start"`
	End       geometry.Vec2 `json:"end"`
	Height    float64       `json:"height"`
	Thickness float64       `json:"thickness"`
	Layer     *string       `json:"layer"`
}

func (h *SessionHandler) AddWall(c fiber.Ctx) error {
	var req wallRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON payload"})
	}
	return h.with(c, func(s *session) error {
		w := models.NewWall(req.Start, req.End)
		if req.Height > 0 {
			w.Height = req.Height
		}
		if req.Thickness > 0 {
			w.Thickness = req.Thickness
		}
		w.Layer = req.Layer
		added, err := s.store.AddWall(w)
		if err != nil {
			return writeError(c, h.logger, err)
		}
		return c.Status(fiber.StatusCreated).JSON(added)
	})
}

type openingRequest struct {
	WallID     string             `json:"wallId"`
	Type       models.OpeningType `json:"type"`
	Position   float64            `json:"position"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	SillHeight *float64           `json:"sillHeight"`
}

func (h *SessionHandler) AddOpening(c fiber.Ctx) error {
	var req openingRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON payload"})
	}
	var o models.Opening
	switch req.Type {
	case models.OpeningDoor:
		o = models.NewDoor(req.WallID, req.Position)
	case models.OpeningWindow:
		o = models.NewWindow(req.WallID, req.Position)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "type must be door or window"})
	}
	if req.Width > 0 {
		o.Width = req.Width
	}
	if req.Height > 0 {
		o.Height = req.Height
	}
	if req.SillHeight != nil {
		o.SillHeight = *req.SillHeight
	}
	return h.with(c, func(s *session) error {
		added, err := s.store.AddOpening(o)
		if err != nil {
			return writeError(c, h.logger, err)
		}
		return c.Status(fiber.StatusCreated).JSON(added)
	})
}

func (h *SessionHandler) PlaceRoomLabel(c fiber.Ctx) error {
	var req struct {
		X    float64 `json:"x"`
		Z    float64 `json:"z"`
		Name string  `json:"name"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "x, z and name required"})
	}
	return h.with(c, func(s *session) error {
		label, err := s.store.PlaceRoomLabel(geometry.Vec2{X: req.X, Z: req.Z}, req.Name)
		if err != nil {
			return writeError(c, h.logger, err)
		}
		return c.Status(fiber.StatusCreated).JSON(label)
	})
}

func (h *SessionHandler) Select(c fiber.Ctx) error {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON payload"})
	}
	return h.with(c, func(s *session) error {
		if req.ID == "" {
			s.store.ClearSelection()
		} else if err := s.store.Select(req.ID); err != nil {
			return writeError(c, h.logger, err)
		}
		return h.sendState(c, fiber.StatusOK, c.Params("id"), s)
	})
}

// Key feeds one keyboard event through the editor shortcuts.
func (h *SessionHandler) Key(c fiber.Ctx) error {
	var ev keymap.Event
	if err := json.Unmarshal(c.Body(), &ev); err != nil || ev.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "key required"})
	}
	return h.with(c, func(s *session) error {
		handled, err := keymap.Dispatch(s.store, ev)
		if err != nil {
			return writeError(c, h.logger, err)
		}
		c.Set("X-Key-Handled", strconv.FormatBool(handled))
		return h.sendState(c, fiber.StatusOK, c.Params("id"), s)
	})
}

func (h *SessionHandler) Undo(c fiber.Ctx) error {
	return h.with(c, func(s *session) error {
		if _, err := s.store.Undo(); err != nil {
			return writeError(c, h.logger, err)
		}
		return h.sendState(c, fiber.StatusOK, c.Params("id"), s)
	})
}

func (h *SessionHandler) Redo(c fiber.Ctx) error {
	return h.with(c, func(s *session) error {
		if _, err := s.store.Redo(); err != nil {
			return writeError(c, h.logger, err)
		}
		return h.sendState(c, fiber.StatusOK, c.Params("id"), s)
	})
}

// Close flushes and drops every open session. Used on shutdown.
func (h *SessionHandler) Close(ctx context.Context) error {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*session)
	h.mu.Unlock()

	var errs []error
	for id, s := range sessions {
		if err := s.saver.Close(ctx); err != nil {
			h.logger.Error("final save failed", "document_id", id, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *SessionHandler) with(c fiber.Ctx, fn func(s *session) error) error {
	h.mu.Lock()
	s, ok := h.sessions[c.Params("id")]
	h.mu.Unlock()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not open"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// sendLocked is sendState for callers that do not already hold s.mu.
func (h *SessionHandler) sendLocked(c fiber.Ctx, status int, id string, s *session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return h.sendState(c, status, id, s)
}

// sendState reads the store; s.mu must be held.
func (h *SessionHandler) sendState(c fiber.Ctx, status int, id string, s *session) error {
	data, err := serializer.Marshal(s.store.Document())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"id":         id,
		"document":   json.RawMessage(data),
		"selected":   s.store.Selected(),
		"activeTool": s.store.ActiveTool(),
		"canUndo":    s.store.CanUndo(),
		"canRedo":    s.store.CanRedo(),
	})
}
