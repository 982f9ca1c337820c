package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"quickscan/internal/model"
)

// HealthCheck reports service status. There is no database behind this
// service, so the check has no dependencies to probe.
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(model.HealthResponse{
			Status:    "healthy",
			Message:   "quickscan backend is running",
			Timestamp: time.Now().UTC(),
		})
	}
}

// LivenessProbe is a bare liveness endpoint for orchestration probes.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
