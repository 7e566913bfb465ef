package summarizer

import (
	"context"
	"fmt"
	"time"

	"github.com/recapd/recapd/internal/models"
)

// IncrementalMode selects how new messages extend an existing summary.
type IncrementalMode string

const (
	// ModeAppend summarizes only the new messages and concatenates the
	// result after the existing content.
	ModeAppend IncrementalMode = "append"

	// ModeMerge issues a generation call over the prior summary plus the
	// new messages, producing one rewritten summary.
	ModeMerge IncrementalMode = "merge"
)

// IncrementalRequest extends an existing summary with newly arrived
// messages without resummarizing the already-covered range.
type IncrementalRequest struct {
	Existing    *models.Summary
	NewMessages []models.Message
	Mode        IncrementalMode
}

// SummarizeIncremental applies an append or merge update. The returned
// summary keeps the existing identifier and creation time; only
// UpdatedAt, content, counts, and range move forward. Concurrent updates
// against the same summary are not ordered; the last cache write wins.
func (s *Summarizer) SummarizeIncremental(ctx context.Context, req IncrementalRequest) (*Result, error) {
	if req.Existing == nil {
		return nil, ErrMissingSummary
	}
	if len(req.NewMessages) == 0 {
		return nil, ErrNoMessages
	}

	started := time.Now()

	var updated *models.Summary
	var err error
	switch req.Mode {
	case ModeMerge:
		updated, err = s.mergeUpdate(ctx, req.Existing, req.NewMessages)
	case ModeAppend, "":
		updated, err = s.appendUpdate(ctx, req.Existing, req.NewMessages)
	default:
		return nil, fmt.Errorf("unknown incremental mode %q", req.Mode)
	}
	if err != nil {
		return nil, err
	}

	durationMs := time.Since(started).Milliseconds()

	if s.cfg.EnableCache {
		key := incrementalCacheKey(s.cfg, updated, req.NewMessages)
		s.cache.Set(key, updated)
	}

	tokens := 0
	if updated.Usage != nil {
		tokens = updated.Usage.TotalTokens
	}
	s.stats.recordSummary(tokens, durationMs)

	return &Result{
		Summary:    updated,
		Cached:     false,
		DurationMs: durationMs,
	}, nil
}

// appendUpdate summarizes only the new messages through the configured
// strategy and concatenates the new content after the old. The prior
// content always survives verbatim as a substring.
func (s *Summarizer) appendUpdate(ctx context.Context, existing *models.Summary, newMessages []models.Message) (*models.Summary, error) {
	execReq := Request{
		ConversationID: existing.ConversationID,
		Messages:       newMessages,
		Range:          models.MessageRange{Start: existing.Range.End, End: existing.Range.End + len(newMessages)},
		Level:          s.cfg.Level,
		ChunkSize:      s.cfg.ChunkSize,
		CustomPrompt:   s.cfg.CustomPrompt,
		Metadata:       existing.Metadata,
	}

	res, err := s.executor.Execute(ctx, execReq)
	if err != nil {
		return nil, fmt.Errorf("append update failed: %w", err)
	}

	updated := cloneForUpdate(existing, newMessages)
	updated.Content = existing.Content + "\n\n" + res.Summary.Content
	updated.KeyPoints = append(updated.KeyPoints, res.Summary.KeyPoints...)
	updated.Usage = combineUsage(existing.Usage, res.Summary.Usage)
	return updated, nil
}

// mergeUpdate rewrites the summary in one generation call over the prior
// content and the new messages. Unlike append, the old content need not
// survive verbatim.
func (s *Summarizer) mergeUpdate(ctx context.Context, existing *models.Summary, newMessages []models.Message) (*models.Summary, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("merge mode requires a generation provider")
	}

	prompt := buildMergePrompt(existing.Content, newMessages, s.cfg.Level)
	content, usage, err := complete(ctx, s.provider, prompt, s.cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("merge update failed: %w", err)
	}

	updated := cloneForUpdate(existing, newMessages)
	updated.Content = content
	updated.Usage = combineUsage(existing.Usage, usage)
	return updated, nil
}

// cloneForUpdate copies the summary envelope forward: same ID and
// CreatedAt, extended range and count, fresh UpdatedAt.
func cloneForUpdate(existing *models.Summary, newMessages []models.Message) *models.Summary {
	updated := *existing
	updated.MessageCount = existing.MessageCount + len(newMessages)
	updated.Range = models.MessageRange{Start: existing.Range.Start, End: existing.Range.End + len(newMessages)}
	updated.UpdatedAt = time.Now().UTC()
	updated.KeyPoints = append([]string(nil), existing.KeyPoints...)
	return &updated
}

// combineUsage sums token usage across the original and the update;
// either side may be absent.
func combineUsage(a, b *models.TokenUsage) *models.TokenUsage {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &models.TokenUsage{
		PromptTokens:     a.PromptTokens + b.PromptTokens,
		CompletionTokens: a.CompletionTokens + b.CompletionTokens,
		TotalTokens:      a.TotalTokens + b.TotalTokens,
	}
}

// incrementalCacheKey keys the updated summary by its new full range.
// The existing summary stands in for the messages it already covered.
func incrementalCacheKey(cfg Config, updated *models.Summary, newMessages []models.Message) string {
	synthetic := append([]models.Message{{ID: updated.ID, Content: updated.Content}}, newMessages...)
	return cacheKey(updated.ConversationID, updated.Range, cfg.Strategy, cfg.Level, synthetic)
}
