package summarizer

import (
	"context"
	"fmt"

	"github.com/recapd/recapd/internal/models"
	"github.com/recapd/recapd/internal/providers"
)

// rollingExecutor summarizes the transcript chunk by chunk, folding each
// chunk into the running summary so the final result covers the full
// range with bounded prompt sizes.
type rollingExecutor struct {
	provider providers.Provider
}

func (e *rollingExecutor) Strategy() models.Strategy {
	return models.StrategyRolling
}

func (e *rollingExecutor) Execute(ctx context.Context, req Request) (*ExecResult, error) {
	chunks := chunkMessages(req.Messages, req.ChunkSize)

	var running string
	total := models.TokenUsage{}
	for i, chunk := range chunks {
		prompt := buildRollingPrompt(running, chunk, req.Level, req.CustomPrompt)

		content, usage, err := complete(ctx, e.provider, prompt, req.Level)
		if err != nil {
			return nil, fmt.Errorf("rolling generation failed at chunk %d/%d: %w", i+1, len(chunks), err)
		}

		running = content
		total.PromptTokens += usage.PromptTokens
		total.CompletionTokens += usage.CompletionTokens
		total.TotalTokens += usage.TotalTokens
	}

	summary := newSummary(req, models.StrategyRolling)
	summary.Content = running
	summary.Usage = &total

	return &ExecResult{Summary: summary}, nil
}
