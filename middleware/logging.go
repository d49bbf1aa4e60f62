package middleware

import (
	"time"

	"molding-inventory/logger"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs one line per request after the handler returns.
func RequestLogger(log *logger.Logger) fiber.Handler {
	httpLog := log.With("component", "http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()

		kv := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if actor := Actor(c); actor.Username != "" {
			kv = append(kv, "user", actor.Username)
		}
		switch {
		case err != nil || status >= fiber.StatusInternalServerError:
			httpLog.Error("Request failed", append(kv, "error", err)...)
		case status >= fiber.StatusBadRequest:
			httpLog.Warn("Request rejected", kv...)
		default:
			httpLog.Info("Request handled", kv...)
		}
		return err
	}
}
