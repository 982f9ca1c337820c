package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"quickscan/internal/auth"
	"quickscan/internal/http/middleware"
	"quickscan/internal/llm"
	"quickscan/internal/service"
	"quickscan/internal/storage"
)

// errorInfo is the machine-readable part of an error response.
type errorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// errorPayload is the standardized error response body.
type errorPayload struct {
	Success   bool      `json:"success"`
	RequestID string    `json:"request_id,omitempty"`
	Error     errorInfo `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response.
func writeError(c *fiber.Ctx, status int, errType, message string) error {
	return c.Status(status).JSON(errorPayload{
		Success:   false,
		RequestID: requestIDFromCtx(c),
		Error: errorInfo{
			Type:    errType,
			Message: message,
			Status:  status,
		},
		Timestamp: time.Now().UTC(),
	})
}

// writeMappedError translates a domain error into its fixed status and
// type string. Unrecognized errors become opaque internal errors so that
// internal details do not leak.
func writeMappedError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, auth.ErrUserNotFound):
		return writeError(c, fiber.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, auth.ErrUserExists):
		return writeError(c, fiber.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, service.ErrFileTooLarge), errors.Is(err, service.ErrEmptyUpload):
		return writeError(c, fiber.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return writeError(c, fiber.StatusUnauthorized, "authentication_error", err.Error())
	case errors.Is(err, llm.ErrTimeout):
		return writeError(c, fiber.StatusRequestTimeout, "timeout_error", "request timed out")
	case errors.Is(err, llm.ErrUpstream), errors.Is(err, storage.ErrExternal):
		return writeError(c, fiber.StatusBadGateway, "external_service_error", err.Error())
	case errors.Is(err, storage.ErrNotConfigured):
		return writeError(c, fiber.StatusInternalServerError, "configuration_error", err.Error())
	case errors.Is(err, storage.ErrStorage):
		return writeError(c, fiber.StatusInternalServerError, "storage_error", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes
// responses for errors escaping handlers (unmatched routes, middleware
// rejections, panics recovered by fiber).
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "internal server error"
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
			message = e.Message
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "bad_request", message)
		case fiber.StatusUnauthorized:
			return writeError(c, status, "authentication_error", message)
		case fiber.StatusForbidden:
			return writeError(c, status, "authorization_error", message)
		case fiber.StatusNotFound:
			return writeError(c, status, "not_found", "resource not found")
		case fiber.StatusRequestTimeout:
			return writeError(c, status, "timeout_error", message)
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "rate_limit_error", message)
		default:
			return writeError(c, status, "internal_error", "internal server error")
		}
	}
}
