package summarizer

import (
	"context"
	"fmt"

	"github.com/recapd/recapd/internal/models"
	"github.com/recapd/recapd/internal/providers"
)

// singlePassExecutor summarizes the whole transcript with one generation
// call.
type singlePassExecutor struct {
	provider providers.Provider
}

func (e *singlePassExecutor) Strategy() models.Strategy {
	return models.StrategySinglePass
}

func (e *singlePassExecutor) Execute(ctx context.Context, req Request) (*ExecResult, error) {
	prompt := buildSummaryPrompt(req.Messages, req.Level, req.CustomPrompt)

	content, usage, err := complete(ctx, e.provider, prompt, req.Level)
	if err != nil {
		return nil, fmt.Errorf("single-pass generation failed: %w", err)
	}

	summary := newSummary(req, models.StrategySinglePass)
	summary.Content = content
	summary.Usage = usage

	return &ExecResult{Summary: summary}, nil
}
