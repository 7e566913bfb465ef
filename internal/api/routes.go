package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recapd/recapd/internal/api/handlers"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, summaryHandler *handlers.SummaryHandler, providerHandler *handlers.ProviderHandler) {
	api := app.Group("/api/v1")

	// Summarization
	api.Post("/conversations/:id/summarize", summaryHandler.Summarize)
	api.Post("/conversations/:id/summarize/incremental", summaryHandler.SummarizeIncremental)
	api.Get("/conversations/:id/summaries", summaryHandler.ListSummaries)

	// Engine statistics and cache control
	api.Get("/summarizer/stats", summaryHandler.GetStats)
	api.Post("/summarizer/stats/reset", summaryHandler.ResetStats)
	api.Post("/summarizer/cache/clear", summaryHandler.ClearCache)

	// Provider management
	api.Get("/providers", providerHandler.ListProviders)

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "recapd",
		})
	})
}
