package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recapd/recapd/internal/providers"
)

// ProviderHandler exposes the configured generation providers
type ProviderHandler struct {
	registry *providers.Registry
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(registry *providers.Registry) *ProviderHandler {
	return &ProviderHandler{registry: registry}
}

// ListProviders handles GET /api/v1/providers
func (h *ProviderHandler) ListProviders(c *fiber.Ctx) error {
	ids := h.registry.List()

	result := make([]fiber.Map, 0, len(ids))
	for _, id := range ids {
		p := h.registry.Get(id)
		if p == nil {
			continue
		}
		result = append(result, fiber.Map{
			"id":   id,
			"name": p.Name(),
		})
	}

	return c.JSON(result)
}
