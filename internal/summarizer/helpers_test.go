package summarizer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/recapd/recapd/internal/models"
	"github.com/recapd/recapd/internal/providers"
)

// mockProvider is a scripted generation provider that records every
// prompt it receives.
type mockProvider struct {
	mu       sync.Mutex
	calls    []providers.CompletionRequest
	response string
	err      error
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(_ context.Context, req providers.CompletionRequest) (*providers.CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	m.calls = append(m.calls, req)
	content := m.response
	if content == "" {
		content = fmt.Sprintf("summary %d", len(m.calls))
	}
	return &providers.CompletionResponse{
		ID:      fmt.Sprintf("mock-%d", len(m.calls)),
		Model:   "mock-model",
		Content: content,
		Usage: providers.Usage{
			PromptTokens:     10,
			CompletionTokens: 5,
			TotalTokens:      15,
		},
	}, nil
}

func (m *mockProvider) ValidateConfig() error { return nil }

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// techSupportExchange builds a deterministic six-turn conversation with
// sentences long enough to survive extractive filtering.
func techSupportExchange() []models.Message {
	contents := []struct {
		role models.Role
		text string
	}{
		{models.RoleUser, "My application crashes whenever I upload a file larger than ten megabytes."},
		{models.RoleAssistant, "That usually means the request body limit is set too low on the server."},
		{models.RoleUser, "Where would I change the request body limit for the upload endpoint?"},
		{models.RoleAssistant, "The body limit lives in the server configuration under the upload section."},
		{models.RoleUser, "Raising the body limit to fifty megabytes fixed the upload crashes."},
		{models.RoleAssistant, "Glad the larger body limit resolved the upload problem for you."},
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	messages := make([]models.Message, len(contents))
	for i, c := range contents {
		messages[i] = models.Message{
			ID:        fmt.Sprintf("m-%02d", i),
			Role:      c.role,
			Content:   c.text,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return messages
}

func newTestSummarizer(cfg Config, provider providers.Provider) *Summarizer {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	s, err := NewWithProvider(cfg, provider, logger)
	if err != nil {
		panic(err)
	}
	return s
}
