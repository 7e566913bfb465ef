package summarizer

import (
	"context"
	"fmt"

	"github.com/recapd/recapd/internal/extractive"
	"github.com/recapd/recapd/internal/models"
	"github.com/recapd/recapd/internal/providers"
)

// hybridExecutor pre-filters the transcript down to its key sentences,
// then makes a single generation call over that condensed input. The
// prompt stays small while the summary is still model-authored.
type hybridExecutor struct {
	provider providers.Provider
}

func (e *hybridExecutor) Strategy() models.Strategy {
	return models.StrategyHybrid
}

func (e *hybridExecutor) Execute(ctx context.Context, req Request) (*ExecResult, error) {
	keySentences := extractive.ExtractKeySentences(req.Messages, sentenceCountFor(req.Level)*2)
	if len(keySentences) == 0 {
		// Nothing survived sentence filtering; fall back to the raw
		// transcript so short conversations still get summarized.
		return (&singlePassExecutor{provider: e.provider}).executeAs(ctx, req, models.StrategyHybrid)
	}

	prompt := buildCondensedPrompt(keySentences, req.Level, req.CustomPrompt)

	content, usage, err := complete(ctx, e.provider, prompt, req.Level)
	if err != nil {
		return nil, fmt.Errorf("hybrid generation failed: %w", err)
	}

	summary := newSummary(req, models.StrategyHybrid)
	summary.Content = content
	summary.Usage = usage
	summary.KeyPoints = extractive.ExtractKeyPoints(req.Messages, keyPointCountFor(req.Level))

	return &ExecResult{Summary: summary}, nil
}

// executeAs runs the single-pass flow but tags the result with the given
// strategy, used by the hybrid fallback.
func (e *singlePassExecutor) executeAs(ctx context.Context, req Request, strategy models.Strategy) (*ExecResult, error) {
	res, err := e.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	res.Summary.Strategy = strategy
	return res, nil
}
