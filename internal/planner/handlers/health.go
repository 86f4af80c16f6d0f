package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// Pinger is implemented by backends that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LivenessProbe reports that the process is up.
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// ReadinessProbe reports ready once the storage backend answers. Backends
// without a Ping are always ready.
func ReadinessProbe(backend any) fiber.Handler {
	return func(c fiber.Ctx) error {
		p, ok := backend.(Pinger)
		if !ok {
			return c.JSON(fiber.Map{"status": "ready"})
		}
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	}
}
