package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"quickscan/internal/llm"
	"quickscan/internal/model"
)

// Summarize condenses the submitted content via the chat-completion API.
func Summarize(completer llm.Completer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.SummarizeRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
		}
		if errs := req.Validate(); len(errs) > 0 {
			return c.JSON(model.ValidationFail("Validation failed", errs))
		}

		maxLength := req.MaxLength
		if maxLength == 0 {
			maxLength = 200
		}

		summary, err := completer.Summarize(c.UserContext(), req.Content, maxLength)
		if err != nil {
			return writeMappedError(c, err)
		}

		return c.JSON(model.OK(model.SummarizeResponse{
			ID:              uuid.NewString(),
			OriginalContent: req.Content,
			Summary:         summary,
			OriginalLength:  len(req.Content),
			SummaryLength:   len(summary),
			Timestamp:       time.Now().UTC(),
		}, "Document summarized successfully"))
	}
}

// ChatCompletion proxies a completion request to the upstream API.
func ChatCompletion(completer llm.Completer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.ChatCompletionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
		}
		if errs := req.Validate(); len(errs) > 0 {
			return c.JSON(model.ValidationFail("Validation failed", errs))
		}

		res, err := completer.ChatCompletion(c.UserContext(), req)
		if err != nil {
			return writeMappedError(c, err)
		}

		return c.JSON(model.OK(model.ChatCompletionResponse{
			ID:        uuid.NewString(),
			Content:   res.Content,
			Model:     res.Model,
			Usage:     res.Usage,
			Timestamp: time.Now().UTC(),
		}, "Chat completion generated successfully"))
	}
}
