package summarizer

import (
	"context"

	"github.com/recapd/recapd/internal/extractive"
	"github.com/recapd/recapd/internal/models"
)

// extractiveExecutor delegates entirely to the extractive analyzer. It
// makes no generation call, so its summaries never carry token usage.
type extractiveExecutor struct{}

func (e *extractiveExecutor) Strategy() models.Strategy {
	return models.StrategyExtractive
}

func (e *extractiveExecutor) Execute(_ context.Context, req Request) (*ExecResult, error) {
	summary := newSummary(req, models.StrategyExtractive)
	summary.Content = extractive.CreateExtractiveSummary(req.Messages, sentenceCountFor(req.Level))
	summary.KeyPoints = extractive.ExtractKeyPoints(req.Messages, keyPointCountFor(req.Level))

	return &ExecResult{Summary: summary}, nil
}

// sentenceCountFor maps a compression level to how many key sentences
// the extractive summary keeps.
func sentenceCountFor(level models.CompressionLevel) int {
	switch level {
	case models.CompressionBrief:
		return 3
	case models.CompressionDetailed:
		return 8
	default:
		return 5
	}
}

// keyPointCountFor maps a compression level to how many key points are
// attached to a summary.
func keyPointCountFor(level models.CompressionLevel) int {
	switch level {
	case models.CompressionBrief:
		return 3
	case models.CompressionDetailed:
		return 7
	default:
		return 5
	}
}
