package summarizer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recapd/recapd/internal/models"
)

func followUpMessages(startIndex, n int) []models.Message {
	base := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
	messages := make([]models.Message, n)
	for i := 0; i < n; i++ {
		role := models.RoleUser
		if (startIndex+i)%2 == 1 {
			role = models.RoleAssistant
		}
		messages[i] = models.Message{
			ID:        fmt.Sprintf("m-%02d", startIndex+i),
			Role:      role,
			Content:   fmt.Sprintf("Follow-up message number %d about the upload limit change.", startIndex+i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return messages
}

func TestIncremental_AppendPreservesExistingContent(t *testing.T) {
	messages := techSupportExchange()
	s := newTestSummarizer(Config{
		Strategy: models.StrategySinglePass,
		Level:    models.CompressionModerate,
	}, &mockProvider{response: "initial recap"})

	first, err := s.Summarize(context.Background(), "conv-1", messages, nil)
	require.NoError(t, err)

	newMessages := followUpMessages(6, 2)
	result, err := s.SummarizeIncremental(context.Background(), IncrementalRequest{
		Existing:    first.Summary,
		NewMessages: newMessages,
		Mode:        ModeAppend,
	})
	require.NoError(t, err)

	updated := result.Summary
	assert.True(t, strings.Contains(updated.Content, first.Summary.Content),
		"append must keep the prior content verbatim")
	assert.Greater(t, len(updated.Content), len(first.Summary.Content))
}

func TestIncremental_UpdateKeepsIdentity(t *testing.T) {
	messages := techSupportExchange()
	s := newTestSummarizer(Config{
		Strategy: models.StrategySinglePass,
		Level:    models.CompressionModerate,
	}, &mockProvider{})

	first, err := s.Summarize(context.Background(), "conv-1", messages, nil)
	require.NoError(t, err)

	newMessages := followUpMessages(6, 3)
	result, err := s.SummarizeIncremental(context.Background(), IncrementalRequest{
		Existing:    first.Summary,
		NewMessages: newMessages,
	})
	require.NoError(t, err)

	updated := result.Summary
	assert.Equal(t, first.Summary.ID, updated.ID)
	assert.Equal(t, first.Summary.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(first.Summary.UpdatedAt))
	assert.Equal(t, 9, updated.MessageCount)
	assert.Equal(t, models.MessageRange{Start: 0, End: 9}, updated.Range)
	assert.False(t, result.Cached)
}

func TestIncremental_AppendSumsUsage(t *testing.T) {
	messages := techSupportExchange()
	s := newTestSummarizer(Config{
		Strategy: models.StrategySinglePass,
		Level:    models.CompressionModerate,
	}, &mockProvider{})

	first, err := s.Summarize(context.Background(), "conv-1", messages, nil)
	require.NoError(t, err)
	require.NotNil(t, first.Summary.Usage)

	result, err := s.SummarizeIncremental(context.Background(), IncrementalRequest{
		Existing:    first.Summary,
		NewMessages: followUpMessages(6, 2),
		Mode:        ModeAppend,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Summary.Usage)
	assert.Equal(t, 30, result.Summary.Usage.TotalTokens)
}

func TestIncremental_MergeRewritesContent(t *testing.T) {
	messages := techSupportExchange()
	provider := &mockProvider{response: "first pass"}
	s := newTestSummarizer(Config{
		Strategy: models.StrategySinglePass,
		Level:    models.CompressionModerate,
	}, provider)

	first, err := s.Summarize(context.Background(), "conv-1", messages, nil)
	require.NoError(t, err)

	provider.response = "merged recap of everything so far"
	result, err := s.SummarizeIncremental(context.Background(), IncrementalRequest{
		Existing:    first.Summary,
		NewMessages: followUpMessages(6, 2),
		Mode:        ModeMerge,
	})
	require.NoError(t, err)

	assert.Equal(t, "merged recap of everything so far", result.Summary.Content)
	assert.Equal(t, first.Summary.ID, result.Summary.ID)
	assert.Equal(t, 8, result.Summary.MessageCount)

	// the merge prompt carried the prior summary and the new messages
	last := provider.calls[len(provider.calls)-1]
	assert.Contains(t, last.Messages[0].Content, "first pass")
	assert.Contains(t, last.Messages[0].Content, "Follow-up message number 6")
}

func TestIncremental_MergeRequiresProvider(t *testing.T) {
	messages := techSupportExchange()
	s := newTestSummarizer(Config{
		Strategy: models.StrategyExtractive,
		Level:    models.CompressionModerate,
	}, nil)

	first, err := s.Summarize(context.Background(), "conv-1", messages, nil)
	require.NoError(t, err)

	_, err = s.SummarizeIncremental(context.Background(), IncrementalRequest{
		Existing:    first.Summary,
		NewMessages: followUpMessages(6, 2),
		Mode:        ModeMerge,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a generation provider")
}

func TestIncremental_ExtractiveAppend(t *testing.T) {
	messages := techSupportExchange()
	s := newTestSummarizer(Config{
		Strategy: models.StrategyExtractive,
		Level:    models.CompressionModerate,
	}, nil)

	first, err := s.Summarize(context.Background(), "conv-1", messages, nil)
	require.NoError(t, err)

	result, err := s.SummarizeIncremental(context.Background(), IncrementalRequest{
		Existing:    first.Summary,
		NewMessages: followUpMessages(6, 2),
		Mode:        ModeAppend,
	})
	require.NoError(t, err)

	assert.Contains(t, result.Summary.Content, first.Summary.Content)
	assert.Nil(t, result.Summary.Usage)
}

func TestIncremental_Validation(t *testing.T) {
	s := newTestSummarizer(Config{
		Strategy: models.StrategySinglePass,
		Level:    models.CompressionModerate,
	}, &mockProvider{})

	_, err := s.SummarizeIncremental(context.Background(), IncrementalRequest{
		Existing:    nil,
		NewMessages: followUpMessages(0, 2),
	})
	require.ErrorIs(t, err, ErrMissingSummary)

	existing := &models.Summary{ID: "sum-1", Range: models.MessageRange{Start: 0, End: 6}}
	_, err = s.SummarizeIncremental(context.Background(), IncrementalRequest{
		Existing:    existing,
		NewMessages: nil,
	})
	require.ErrorIs(t, err, ErrNoMessages)

	_, err = s.SummarizeIncremental(context.Background(), IncrementalRequest{
		Existing:    existing,
		NewMessages: followUpMessages(6, 2),
		Mode:        "sideways",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown incremental mode")
}

func TestIncremental_CountedInStats(t *testing.T) {
	messages := techSupportExchange()
	s := newTestSummarizer(Config{
		Strategy: models.StrategySinglePass,
		Level:    models.CompressionModerate,
	}, &mockProvider{})

	first, err := s.Summarize(context.Background(), "conv-1", messages, nil)
	require.NoError(t, err)

	_, err = s.SummarizeIncremental(context.Background(), IncrementalRequest{
		Existing:    first.Summary,
		NewMessages: followUpMessages(6, 2),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), s.Stats().TotalSummaries)
}
