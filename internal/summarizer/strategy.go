package summarizer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/recapd/recapd/internal/models"
	"github.com/recapd/recapd/internal/providers"
)

// Request carries one range-resolved summarization job to an executor.
// Messages is the already-sliced transcript; Range records where the
// slice sits in the full conversation.
type Request struct {
	ConversationID string
	Messages       []models.Message
	Range          models.MessageRange
	Level          models.CompressionLevel
	ChunkSize      int
	CustomPrompt   string
	Metadata       map[string]string
}

// ExecResult is what an executor hands back: the primary summary plus
// any additional summaries it produced along the way (hierarchical
// leaves).
type ExecResult struct {
	Summary    *models.Summary
	Additional []*models.Summary
}

// Executor is one summarization algorithm. Implementations must be safe
// for concurrent use; they hold no per-request state.
type Executor interface {
	Strategy() models.Strategy
	Execute(ctx context.Context, req Request) (*ExecResult, error)
}

// newSummary builds the common Summary envelope for an executor result.
func newSummary(req Request, strategy models.Strategy) *models.Summary {
	now := time.Now().UTC()
	return &models.Summary{
		ID:             uuid.New().String(),
		ConversationID: req.ConversationID,
		Strategy:       strategy,
		Level:          req.Level,
		MessageCount:   len(req.Messages),
		Range:          req.Range,
		Metadata:       req.Metadata,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// complete issues one generation call and maps the usage counts.
func complete(ctx context.Context, provider providers.Provider, prompt string, level models.CompressionLevel) (string, *models.TokenUsage, error) {
	maxTokens := maxTokensFor(level)
	temperature := float32(0.7)

	resp, err := provider.Complete(ctx, providers.CompletionRequest{
		Messages: []providers.Message{
			{Role: "user", Content: prompt},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", nil, err
	}

	usage := &models.TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	return resp.Content, usage, nil
}

// chunkMessages partitions messages into consecutive chunks of size.
// The final chunk may be shorter; a chunk may split a user/assistant
// turn pair.
func chunkMessages(messages []models.Message, size int) [][]models.Message {
	if size <= 0 {
		size = defaultChunkSize
	}
	var chunks [][]models.Message
	for start := 0; start < len(messages); start += size {
		end := start + size
		if end > len(messages) {
			end = len(messages)
		}
		chunks = append(chunks, messages[start:end])
	}
	return chunks
}
