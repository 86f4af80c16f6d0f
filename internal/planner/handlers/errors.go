package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"planner/internal/planner/repository"
	"planner/internal/planner/serializer"
	"planner/internal/planner/store"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrLayerLocked):
		return fiber.StatusConflict
	case errors.Is(err, repository.ErrInvalidID),
		errors.Is(err, serializer.ErrInvalidDocument),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, store.ErrDuplicateID),
		errors.Is(err, store.ErrNoPreset):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c fiber.Ctx, logger *slog.Logger, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
