package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers readiness probes for the storefront API.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new HealthHandler backed by the given database.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check pings the database and reports service health.
// Returns 200 {"status": "healthy"} when the database answers and
// 503 {"status": "unhealthy"} when it does not.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.db.Ping(c.Context()); err != nil {
		log.Error().Err(err).Str("check", "postgres").Msg("health check failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "unhealthy",
			"service": "storefront-api",
			"error":   "database unreachable",
		})
	}
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "storefront-api",
	})
}
