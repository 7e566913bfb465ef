package factory

import (
	"fmt"

	"github.com/recapd/recapd/internal/config"
	"github.com/recapd/recapd/internal/providers"
	"github.com/recapd/recapd/internal/providers/anthropic"
	"github.com/recapd/recapd/internal/providers/local"
	"github.com/recapd/recapd/internal/providers/openai"
)

// CreateProvider creates a provider instance based on configuration.
// An unrecognized type is a construction-time error; it is never deferred
// to the first completion call.
func CreateProvider(id string, cfg config.ProviderConfig) (providers.Provider, error) {
	switch cfg.Type {
	case "openai":
		return openai.NewProvider(id, cfg)
	case "anthropic":
		return anthropic.NewProvider(id, cfg)
	case "openai-compatible", "ollama":
		return local.NewOpenAICompatibleProvider(id, cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Type)
	}
}
