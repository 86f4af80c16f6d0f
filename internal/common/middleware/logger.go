package middleware

import (
	"io"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger writes one access line per request to out.
func Logger(out io.Writer) fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} | ${bytesSent}B\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
		Stream:     out,
	})
}
