package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/recapd/recapd/internal/repository/postgres"
	"github.com/recapd/recapd/internal/summarizer"
	"github.com/recapd/recapd/internal/tokens"
)

// SummaryHandler exposes the summarization engine over HTTP
type SummaryHandler struct {
	engine      *summarizer.Summarizer
	messageRepo *postgres.MessageRepository
	summaryRepo *postgres.SummaryRepository
	logger      *logrus.Logger
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(engine *summarizer.Summarizer, messageRepo *postgres.MessageRepository, summaryRepo *postgres.SummaryRepository, logger *logrus.Logger) *SummaryHandler {
	return &SummaryHandler{
		engine:      engine,
		messageRepo: messageRepo,
		summaryRepo: summaryRepo,
		logger:      logger,
	}
}

// Summarize handles POST /api/v1/conversations/:id/summarize
func (h *SummaryHandler) Summarize(c *fiber.Ctx) error {
	conversationID := c.Params("id")
	if conversationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Conversation ID is required",
		})
	}

	var req struct {
		StartIndex      *int              `json:"start_index"`
		EndIndex        *int              `json:"end_index"`
		ForceRegenerate bool              `json:"force_regenerate"`
		Metadata        map[string]string `json:"metadata"`
	}
	// An empty or absent body means default options
	_ = c.BodyParser(&req)

	messages, err := h.messageRepo.ListByConversation(c.Context(), conversationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to load conversation",
			"details": err.Error(),
		})
	}

	result, err := h.engine.Summarize(c.Context(), conversationID, messages, &summarizer.Options{
		StartIndex:      req.StartIndex,
		EndIndex:        req.EndIndex,
		ForceRegenerate: req.ForceRegenerate,
		Metadata:        req.Metadata,
	})
	if err != nil {
		if errors.Is(err, summarizer.ErrNoMessages) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to generate summary",
			"details": err.Error(),
		})
	}

	// Cache hits were already persisted on first production
	if !result.Cached {
		for _, leaf := range result.Additional {
			if err := h.summaryRepo.Create(c.Context(), leaf); err != nil {
				h.logger.WithError(err).Warn("failed to persist leaf summary")
			}
		}
		if err := h.summaryRepo.Create(c.Context(), result.Summary); err != nil {
			h.logger.WithError(err).Warn("failed to persist summary")
		}
	}

	return c.JSON(fiber.Map{
		"summary":              result.Summary,
		"additional_summaries": result.Additional,
		"cached":               result.Cached,
		"duration_ms":          result.DurationMs,
		"estimated_tokens":     tokens.Count(result.Summary.Content).Total,
	})
}

// SummarizeIncremental handles POST /api/v1/conversations/:id/summarize/incremental
func (h *SummaryHandler) SummarizeIncremental(c *fiber.Ctx) error {
	conversationID := c.Params("id")
	if conversationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Conversation ID is required",
		})
	}

	var req struct {
		SummaryID string `json:"summary_id"`
		Mode      string `json:"mode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.SummaryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "summary_id is required",
		})
	}

	existing, err := h.summaryRepo.Get(c.Context(), req.SummaryID)
	if err != nil {
		if errors.Is(err, postgres.ErrSummaryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Summary not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to load summary",
			"details": err.Error(),
		})
	}

	messages, err := h.messageRepo.ListByConversation(c.Context(), conversationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to load conversation",
			"details": err.Error(),
		})
	}

	// Everything past the summary's covered range is new
	if existing.Range.End > len(messages) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Summary covers more messages than the conversation holds",
		})
	}
	newMessages := messages[existing.Range.End:]

	result, err := h.engine.SummarizeIncremental(c.Context(), summarizer.IncrementalRequest{
		Existing:    existing,
		NewMessages: newMessages,
		Mode:        summarizer.IncrementalMode(req.Mode),
	})
	if err != nil {
		if errors.Is(err, summarizer.ErrNoMessages) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No new messages to summarize",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to update summary",
			"details": err.Error(),
		})
	}

	if err := h.summaryRepo.Update(c.Context(), result.Summary); err != nil {
		h.logger.WithError(err).Warn("failed to persist updated summary")
	}

	return c.JSON(fiber.Map{
		"summary":          result.Summary,
		"cached":           result.Cached,
		"duration_ms":      result.DurationMs,
		"estimated_tokens": tokens.Count(result.Summary.Content).Total,
	})
}

// ListSummaries handles GET /api/v1/conversations/:id/summaries
func (h *SummaryHandler) ListSummaries(c *fiber.Ctx) error {
	conversationID := c.Params("id")
	if conversationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Conversation ID is required",
		})
	}

	summaries, err := h.summaryRepo.ListByConversation(c.Context(), conversationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to fetch summaries",
			"details": err.Error(),
		})
	}

	return c.JSON(summaries)
}

// GetStats handles GET /api/v1/summarizer/stats
func (h *SummaryHandler) GetStats(c *fiber.Ctx) error {
	return c.JSON(h.engine.Stats())
}

// ResetStats handles POST /api/v1/summarizer/stats/reset
func (h *SummaryHandler) ResetStats(c *fiber.Ctx) error {
	h.engine.ResetStats()
	return c.JSON(fiber.Map{"status": "reset"})
}

// ClearCache handles POST /api/v1/summarizer/cache/clear
func (h *SummaryHandler) ClearCache(c *fiber.Ctx) error {
	h.engine.ClearCache()
	return c.JSON(fiber.Map{"status": "cleared"})
}
