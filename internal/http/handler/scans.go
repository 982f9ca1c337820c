package handler

// Scan records are mock, non-persistent data: create runs a best-effort AI
// analysis, reads return fabricated records, delete is simulated. A real
// deployment would back these with a database.

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"quickscan/internal/llm"
	"quickscan/internal/model"
)

// CreateScan validates the payload and runs an AI analysis over it. An
// analysis failure is not fatal; the scan is still accepted.
func CreateScan(completer llm.Completer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.CreateScanRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
		}
		if errs := req.Validate(); len(errs) > 0 {
			return c.JSON(model.ValidationFail("Validation failed", errs))
		}

		format := req.Format
		if format == "" {
			format = "text"
		}

		status := "analyzed"
		if _, err := completer.AnalyzeScan(c.UserContext(), req.Data, format); err != nil {
			status = "processed"
		}

		return c.JSON(model.OK(model.ScanResponse{
			ID:        uuid.NewString(),
			Data:      req.Data,
			Format:    format,
			Timestamp: time.Now().UTC(),
			Status:    status,
		}, "Scan created and analyzed successfully"))
	}
}

// GetScan returns a mock scan record for the given id.
func GetScan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "bad_request", "invalid scan id")
		}

		return c.JSON(model.OK(model.ScanResponse{
			ID:        id,
			Data:      "Sample scan data",
			Format:    "text",
			Timestamp: time.Now().UTC(),
			Status:    "processed",
		}, "Scan retrieved successfully"))
	}
}

// ListScans returns mock scan records.
func ListScans() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scans := []model.ScanResponse{
			{
				ID:        uuid.NewString(),
				Data:      "Sample scan 1",
				Format:    "text",
				Timestamp: time.Now().UTC(),
				Status:    "processed",
			},
			{
				ID:        uuid.NewString(),
				Data:      "Sample scan 2",
				Format:    "qr",
				Timestamp: time.Now().UTC(),
				Status:    "analyzed",
			},
		}
		return c.JSON(model.OK(scans, "Scans retrieved successfully"))
	}
}

// DeleteScan simulates deleting a scan record.
func DeleteScan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "bad_request", "invalid scan id")
		}
		return c.JSON(model.OK("Scan "+id+" deleted", "Scan deleted successfully"))
	}
}
