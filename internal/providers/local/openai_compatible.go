package local

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/recapd/recapd/internal/config"
	"github.com/recapd/recapd/internal/providers"
)

// OpenAICompatibleProvider talks to any server exposing the OpenAI chat
// completions API (Ollama, LM Studio, vLLM).
type OpenAICompatibleProvider struct {
	id     string
	config config.ProviderConfig
	client *openai.Client
}

// NewOpenAICompatibleProvider creates a provider for a local or self-hosted endpoint
func NewOpenAICompatibleProvider(id string, cfg config.ProviderConfig) (*OpenAICompatibleProvider, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required for openai-compatible providers")
	}

	// Local servers usually accept any key but the client requires one
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "not-needed"
	}

	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/") + "/v1"

	return &OpenAICompatibleProvider{
		id:     id,
		config: cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Name returns the provider name
func (p *OpenAICompatibleProvider) Name() string {
	return p.config.Name
}

// Complete performs a non-streaming completion
func (p *OpenAICompatibleProvider) Complete(ctx context.Context, req providers.CompletionRequest) (*providers.CompletionResponse, error) {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}
	if req.Temperature != nil {
		chatReq.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		chatReq.MaxTokens = *req.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("completion against %s failed: %w", p.config.BaseURL, err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("endpoint returned no choices")
	}

	return &providers.CompletionResponse{
		ID:      resp.ID,
		Model:   resp.Model,
		Content: resp.Choices[0].Message.Content,
		Usage: providers.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// ValidateConfig validates the provider configuration
func (p *OpenAICompatibleProvider) ValidateConfig() error {
	if p.config.BaseURL == "" {
		return errors.New("base URL is required")
	}
	return nil
}
