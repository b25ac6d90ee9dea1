package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// AccessLogMiddleware emits one structured slog line per request.
// Client errors log at warn, server errors at error.
func AccessLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		rid, _ := c.Locals("requestid").(string)
		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes_out", len(c.Response().Body()),
			"ip", c.IP(),
			"request_id", rid,
		}
		if err != nil {
			attrs = append(attrs, "error", err.Error())
		}

		msg := c.Method() + " " + c.Path()
		switch {
		case status >= fiber.StatusInternalServerError:
			slog.Error(msg, attrs...)
		case status >= fiber.StatusBadRequest:
			slog.Warn(msg, attrs...)
		default:
			slog.Info(msg, attrs...)
		}

		return err
	}
}
