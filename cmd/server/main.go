package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/recapd/recapd/internal/api"
	"github.com/recapd/recapd/internal/api/handlers"
	"github.com/recapd/recapd/internal/config"
	"github.com/recapd/recapd/internal/database"
	"github.com/recapd/recapd/internal/models"
	"github.com/recapd/recapd/internal/providers"
	"github.com/recapd/recapd/internal/providers/factory"
	"github.com/recapd/recapd/internal/repository/postgres"
	"github.com/recapd/recapd/internal/summarizer"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	appLogger := logrus.New()
	appLogger.SetLevel(logrus.InfoLevel)

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.Migrate(cfg.Database); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize provider registry from configuration
	registry := providers.NewRegistry()
	for id, providerCfg := range cfg.Providers {
		provider, err := factory.CreateProvider(id, providerCfg)
		if err != nil {
			appLogger.WithError(err).WithField("provider", id).Warn("skipping provider")
			continue
		}
		registry.Register(id, provider)
	}

	// Build the summarization engine
	providerCfg, ok := cfg.Providers[cfg.Summarizer.Provider]
	if !ok && models.Strategy(cfg.Summarizer.Strategy) != models.StrategyExtractive {
		log.Fatalf("Summarizer provider %q is not configured", cfg.Summarizer.Provider)
	}

	engine, err := summarizer.New(summarizer.Config{
		Strategy:       models.Strategy(cfg.Summarizer.Strategy),
		Level:          models.CompressionLevel(cfg.Summarizer.CompressionLevel),
		Provider:       cfg.Summarizer.Provider,
		ProviderConfig: providerCfg,
		ChunkSize:      cfg.Summarizer.ChunkSize,
		CustomPrompt:   cfg.Summarizer.CustomPrompt,
		EnableCache:    cfg.Summarizer.EnableCache,
	}, appLogger)
	if err != nil {
		log.Fatal("Failed to build summarizer:", err)
	}

	// Initialize repositories
	messageRepo := postgres.NewMessageRepository(db.DB)
	summaryRepo := postgres.NewSummaryRepository(db.DB)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "recapd",
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Routes
	summaryHandler := handlers.NewSummaryHandler(engine, messageRepo, summaryRepo, appLogger)
	providerHandler := handlers.NewProviderHandler(registry)
	api.SetupRoutes(app, summaryHandler, providerHandler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.WithField("addr", addr).Info("starting server")
	if err := app.Listen(addr); err != nil {
		log.Fatal("Server failed:", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
