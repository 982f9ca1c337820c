package handler

import (
	"github.com/gofiber/fiber/v2"

	"quickscan/internal/auth"
	"quickscan/internal/http/middleware"
	"quickscan/internal/llm"
	"quickscan/internal/service"
)

// RegisterRoutes attaches all API routes to the provided Fiber app.
// Handlers stay thin; business rules live in the injected services.
func RegisterRoutes(
	app *fiber.App,
	users *auth.UserStore,
	tokens *auth.TokenService,
	files service.FileService,
	completer llm.Completer,
) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	api := app.Group("/api")

	api.Get("/health", HealthCheck())

	// Authentication
	api.Post("/auth/register", Register(users, tokens))
	api.Post("/auth/login", Login(users, tokens))
	api.Post("/auth/token", TokenLogin(tokens))
	api.Post("/auth/verify", VerifyToken(users, tokens))
	api.Get("/auth/me", middleware.BearerAuth(tokens), CurrentUser(users))

	// Scans (mock, non-persistent)
	api.Post("/scans", CreateScan(completer))
	api.Get("/scans", ListScans())
	api.Get("/scans/:id", GetScan())
	api.Delete("/scans/:id", DeleteScan())

	// File storage
	api.Post("/upload", UploadFile(files))
	api.Get("/files", ListFiles(files))
	api.Get("/files/:id/download", DownloadFile(files))
	api.Get("/files/:id/url", FileURL(files))
	api.Delete("/files/:id", DeleteFile(files))
	api.Post("/files/cleanup", CleanupFiles(files))

	// AI
	api.Post("/summarize", Summarize(completer))
	api.Post("/chat/completion", ChatCompletion(completer))

	// Liveness probe for orchestration
	app.Get("/healthz", LivenessProbe())
}
