package main

import (
	"context"
	"log"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quickscan/internal/auth"
	"quickscan/internal/config"
	handlers "quickscan/internal/http/handler"
	"quickscan/internal/http/middleware"
	"quickscan/internal/llm"
	"quickscan/internal/otel"
	"quickscan/internal/registry"
	"quickscan/internal/service"
	"quickscan/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Initialize OpenTelemetry tracing (no-op when OTEL_SDK_DISABLED=true)
	shutdown, err := otel.Init(context.Background())
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("tracing shutdown error: %v", err)
		}
	}()

	// Initialize the storage backend (local filesystem or MinIO)
	store, err := storage.New(cfg.Storage, cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	// Wire in-memory state and services
	users := auth.NewUserStore()
	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpirationHours)
	files := service.NewFileService(store, registry.New())
	completer := llm.NewClient(cfg.OpenAI)

	app := fiber.New(fiber.Config{
		BodyLimit:    service.MaxUploadSize + 1024*1024,
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())

	promMw, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMw.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, users, tokens, files, completer)

	addr := cfg.AppHost + ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
