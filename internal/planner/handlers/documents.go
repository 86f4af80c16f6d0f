package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"planner/internal/planner/geometry"
	"planner/internal/planner/graph"
	"planner/internal/planner/importer"
	"planner/internal/planner/models"
	"planner/internal/planner/render"
	"planner/internal/planner/repository"
	"planner/internal/planner/segment"
	"planner/internal/planner/serializer"
	"planner/internal/planner/takeoff"
)

// ============================================================
// Document Handler
// ============================================================

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Lister is implemented by repositories that can enumerate documents.
type Lister interface {
	List(ctx context.Context) ([]repository.DocumentInfo, error)
}

// Deleter is implemented by repositories that can remove documents.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

type DocumentHandler struct {
	repo     repository.Repository
	importer *importer.Importer
	renderer *render.Renderer
	logger   *slog.Logger
}

func NewDocumentHandler(repo repository.Repository, im *importer.Importer, renderer *render.Renderer, logger *slog.Logger) *DocumentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentHandler{
		repo:     repo,
		importer: im,
		renderer: renderer,
		logger:   logger.With("component", "documents"),
	}
}

// Register mounts the document routes on router.
func (h *DocumentHandler) Register(router fiber.Router) {
	router.Get("/documents", h.ListDocuments)
	router.Get("/documents/:id", h.GetDocument)
	router.Put("/documents/:id", h.PutDocument)
	router.Delete("/documents/:id", h.DeleteDocument)
	router.Get("/documents/:id/rooms", h.ListRooms)
	router.Post("/documents/:id/rooms/detect", h.DetectRoom)
	router.Get("/documents/:id/walls/:wallId/segments", h.WallSegments)
	router.Get("/documents/:id/plan.svg", h.RenderPlan)
	router.Get("/documents/:id/takeoff", h.GetTakeoff)
	router.Get("/documents/:id/takeoff.xlsx", h.ExportTakeoff)
	router.Post("/import/svg", h.ImportSVG)
}

func (h *DocumentHandler) load(c fiber.Ctx) (*models.DrawingData, error) {
	return h.repo.Load(c.Context(), c.Params("id"))
}

func (h *DocumentHandler) sendDocument(c fiber.Ctx, status int, doc *models.DrawingData) error {
	data, err := serializer.Marshal(doc)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(data)
}

func (h *DocumentHandler) ListDocuments(c fiber.Ctx) error {
	lister, ok := h.repo.(Lister)
	if !ok {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "listing not supported by storage backend"})
	}
	docs, err := lister.List(c.Context())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if docs == nil {
		docs = []repository.DocumentInfo{}
	}
	return c.JSON(fiber.Map{"documents": docs})
}

func (h *DocumentHandler) GetDocument(c fiber.Ctx) error {
	doc, err := h.load(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return h.sendDocument(c, fiber.StatusOK, doc)
}

// PutDocument replaces the stored document after full validation.
func (h *DocumentHandler) PutDocument(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body required"})
	}
	doc, err := serializer.Deserialize(c.Body())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	id := c.Params("id")
	if err := h.repo.Save(c.Context(), id, doc); err != nil {
		return writeError(c, h.logger, err)
	}
	h.logger.Info("document saved", "document_id", id, "walls", len(doc.Walls))
	return c.JSON(fiber.Map{"id": id, "version": doc.Version})
}

func (h *DocumentHandler) DeleteDocument(c fiber.Ctx) error {
	deleter, ok := h.repo.(Deleter)
	if !ok {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "delete not supported by storage backend"})
	}
	if err := deleter.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DocumentHandler) ListRooms(c fiber.Ctx) error {
	doc, err := h.load(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	rooms := graph.DetectRooms(doc.Walls)
	if rooms == nil {
		rooms = []*graph.Room{}
	}
	return c.JSON(fiber.Map{"rooms": rooms})
}

// DetectRoom finds the smallest wall loop around the posted point.
func (h *DocumentHandler) DetectRoom(c fiber.Ctx) error {
	var probe struct {
		X *float64 `json:"x"`
		Z *float64 `json:"z"`
	}
	if err := json.Unmarshal(c.Body(), &probe); err != nil || probe.X == nil || probe.Z == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "x and z required"})
	}
	doc, err := h.load(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	room := graph.DetectRoom(doc.Walls, geometry.Vec2{X: *probe.X, Z: *probe.Z})
	if room == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no enclosed room at point"})
	}
	return c.JSON(room)
}

func (h *DocumentHandler) WallSegments(c fiber.Ctx) error {
	doc, err := h.load(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	wall, ok := doc.FindWall(c.Params("wallId"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "wall not found"})
	}
	openings := doc.OpeningsOf(wall.ID)
	return c.JSON(fiber.Map{
		"wallId":   wall.ID,
		"segments": segment.Segments(wall, openings),
		"netArea":  segment.NetArea(wall, openings),
	})
}

func (h *DocumentHandler) RenderPlan(c fiber.Ctx) error {
	doc, err := h.load(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	svg, err := h.renderer.Render(doc)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.SendString(svg)
}

func (h *DocumentHandler) GetTakeoff(c fiber.Ctx) error {
	doc, err := h.load(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(takeoff.Compute(doc))
}

func (h *DocumentHandler) ExportTakeoff(c fiber.Ctx) error {
	doc, err := h.load(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	var buf bytes.Buffer
	if err := takeoff.Compute(doc).WriteXLSX(&buf); err != nil {
		return writeError(c, h.logger, fmt.Errorf("write takeoff: %w", err))
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s-takeoff.xlsx"`, c.Params("id")))
	return c.Send(buf.Bytes())
}

// ImportSVG converts an uploaded plan. With ?id= the result is also stored.
func (h *DocumentHandler) ImportSVG(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body required"})
	}
	doc, report, err := h.importer.Import(bytes.NewReader(c.Body()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	data, err := serializer.Marshal(doc)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	status := fiber.StatusOK
	id := c.Query("id")
	if id != "" {
		if err := h.repo.Save(c.Context(), id, doc); err != nil {
			return writeError(c, h.logger, err)
		}
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"id":       id,
		"report":   report,
		"document": json.RawMessage(data),
	})
}
