package summarizer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recapd/recapd/internal/models"
)

func intPtr(v int) *int { return &v }

func TestNew_UnsupportedProvider(t *testing.T) {
	_, err := New(Config{
		Strategy: models.StrategySinglePass,
		Level:    models.CompressionModerate,
		Provider: "quantum-oracle",
	}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestNew_UnknownStrategy(t *testing.T) {
	_, err := NewWithProvider(Config{
		Strategy: "psychic",
		Level:    models.CompressionModerate,
	}, &mockProvider{}, nil)

	require.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := NewWithProvider(Config{
		Strategy: models.StrategySinglePass,
		Level:    "microscopic",
	}, &mockProvider{}, nil)

	require.ErrorIs(t, err, ErrUnknownLevel)
}

func TestNew_LLMStrategyRequiresProvider(t *testing.T) {
	_, err := NewWithProvider(Config{
		Strategy: models.StrategyRolling,
		Level:    models.CompressionModerate,
	}, nil, nil)

	require.Error(t, err)
}

func TestNew_ExtractiveNeedsNoProvider(t *testing.T) {
	s, err := NewWithProvider(Config{
		Strategy: models.StrategyExtractive,
		Level:    models.CompressionModerate,
	}, nil, nil)

	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestSummarize_MessageCountAllStrategies(t *testing.T) {
	messages := techSupportExchange()

	for _, strategy := range []models.Strategy{
		models.StrategySinglePass,
		models.StrategyRolling,
		models.StrategyHierarchical,
		models.StrategyExtractive,
		models.StrategyHybrid,
	} {
		t.Run(string(strategy), func(t *testing.T) {
			s := newTestSummarizer(Config{
				Strategy:  strategy,
				Level:     models.CompressionModerate,
				ChunkSize: 2,
			}, &mockProvider{})

			result, err := s.Summarize(context.Background(), "conv-1", messages, nil)
			require.NoError(t, err)
			assert.Equal(t, len(messages), result.Summary.MessageCount)
			assert.Equal(t, models.MessageRange{Start: 0, End: len(messages)}, result.Summary.Range)
			assert.Equal(t, strategy, result.Summary.Strategy)
			assert.False(t, result.Cached)
		})
	}
}

func TestSummarize_UsagePresence(t *testing.T) {
	messages := techSupportExchange()

	llmBacked := []models.Strategy{
		models.StrategySinglePass,
		models.StrategyRolling,
		models.StrategyHierarchical,
		models.StrategyHybrid,
	}
	for _, strategy := range llmBacked {
		t.Run(string(strategy), func(t *testing.T) {
			s := newTestSummarizer(Config{
				Strategy:  strategy,
				Level:     models.CompressionModerate,
				ChunkSize: 2,
			}, &mockProvider{})

			result, err := s.Summarize(context.Background(), "conv-1", messages, nil)
			require.NoError(t, err)
			require.NotNil(t, result.Summary.Usage)
			assert.Positive(t, result.Summary.Usage.TotalTokens)
		})
	}

	t.Run("extractive never carries usage", func(t *testing.T) {
		s := newTestSummarizer(Config{
			Strategy: models.StrategyExtractive,
			Level:    models.CompressionModerate,
		}, nil)

		result, err := s.Summarize(context.Background(), "conv-1", messages, nil)
		require.NoError(t, err)
		assert.Nil(t, result.Summary.Usage)
		assert.NotEmpty(t, result.Summary.Content)
		assert.NotEmpty(t, result.Summary.KeyPoints)
	})
}

func TestSummarize_EmptyRange(t *testing.T) {
	messages := techSupportExchange()

	for _, strategy := range []models.Strategy{
		models.StrategySinglePass,
		models.StrategyRolling,
		models.StrategyHierarchical,
		models.StrategyExtractive,
		models.StrategyHybrid,
	} {
		t.Run(string(strategy), func(t *testing.T) {
			s := newTestSummarizer(Config{
				Strategy:  strategy,
				Level:     models.CompressionModerate,
				ChunkSize: 2,
			}, &mockProvider{})

			_, err := s.Summarize(context.Background(), "conv-1", messages, &Options{
				StartIndex: intPtr(3),
				EndIndex:   intPtr(3),
			})
			require.ErrorIs(t, err, ErrNoMessages)

			_, err = s.Summarize(context.Background(), "conv-1", nil, nil)
			require.ErrorIs(t, err, ErrNoMessages)
		})
	}
}

func TestSummarize_RangeSelection(t *testing.T) {
	messages := techSupportExchange()
	provider := &mockProvider{}
	s := newTestSummarizer(Config{
		Strategy: models.StrategySinglePass,
		Level:    models.CompressionModerate,
	}, provider)

	result, err := s.Summarize(context.Background(), "conv-1", messages, &Options{
		StartIndex: intPtr(2),
		EndIndex:   intPtr(5),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Summary.MessageCount)
	assert.Equal(t, models.MessageRange{Start: 2, End: 5}, result.Summary.Range)

	// Only the selected messages reach the prompt
	prompt := provider.calls[0].Messages[0].Content
	assert.Contains(t, prompt, messages[2].Content)
	assert.NotContains(t, prompt, messages[0].Content)
	assert.NotContains(t, prompt, messages[5].Content)
}

func TestSummarize_RangeClamping(t *testing.T) {
	messages := techSupportExchange()
	s := newTestSummarizer(Config{
		Strategy: models.StrategySinglePass,
		Level:    models.CompressionModerate,
	}, &mockProvider{})

	result, err := s.Summarize(context.Background(), "conv-1", messages, &Options{
		StartIndex: intPtr(-10),
		EndIndex:   intPtr(100),
	})
	require.NoError(t, err)
	assert.Equal(t, len(messages), result.Summary.MessageCount)
}

func TestSummarize_CacheIdempotence(t *testing.T) {
	messages := techSupportExchange()
	provider := &mockProvider{}
	s := newTestSummarizer(Config{
		Strategy:    models.StrategySinglePass,
		Level:       models.CompressionModerate,
		EnableCache: true,
	}, provider)

	first, err := s.Summarize(context.Background(), "conv-x", messages, nil)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := s.Summarize(context.Background(), "conv-x", messages, nil)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Summary.ID, second.Summary.ID)
	assert.Equal(t, 1, provider.callCount())

	// forceRegenerate bypasses the cache and mints a new identifier
	third, err := s.Summarize(context.Background(), "conv-x", messages, &Options{ForceRegenerate: true})
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.NotEqual(t, first.Summary.ID, third.Summary.ID)
	assert.Equal(t, 2, provider.callCount())
}

func TestSummarize_CacheKeyedByRangeAndConversation(t *testing.T) {
	messages := techSupportExchange()
	provider := &mockProvider{}
	s := newTestSummarizer(Config{
		Strategy:    models.StrategySinglePass,
		Level:       models.CompressionModerate,
		EnableCache: true,
	}, provider)

	_, err := s.Summarize(context.Background(), "conv-a", messages, nil)
	require.NoError(t, err)

	// Different conversation: miss
	r2, err := s.Summarize(context.Background(), "conv-b", messages, nil)
	require.NoError(t, err)
	assert.False(t, r2.Cached)

	// Different range: miss
	r3, err := s.Summarize(context.Background(), "conv-a", messages, &Options{EndIndex: intPtr(4)})
	require.NoError(t, err)
	assert.False(t, r3.Cached)

	assert.Equal(t, 3, provider.callCount())
}

func TestSummarize_CacheDisabled(t *testing.T) {
	messages := techSupportExchange()
	provider := &mockProvider{}
	s := newTestSummarizer(Config{
		Strategy:    models.StrategySinglePass,
		Level:       models.CompressionModerate,
		EnableCache: false,
	}, provider)

	r1, err := s.Summarize(context.Background(), "conv-1", messages, nil)
	require.NoError(t, err)
	r2, err := s.Summarize(context.Background(), "conv-1", messages, nil)
	require.NoError(t, err)

	assert.False(t, r1.Cached)
	assert.False(t, r2.Cached)
	assert.Equal(t, 2, provider.callCount())
}

func TestSummarize_ClearCache(t *testing.T) {
	messages := techSupportExchange()
	provider := &mockProvider{}
	s := newTestSummarizer(Config{
		Strategy:    models.StrategySinglePass,
		Level:       models.CompressionModerate,
		EnableCache: true,
	}, provider)

	_, err := s.Summarize(context.Background(), "conv-1", messages, nil)
	require.NoError(t, err)

	s.ClearCache()

	r, err := s.Summarize(context.Background(), "conv-1", messages, nil)
	require.NoError(t, err)
	assert.False(t, r.Cached)
}

func TestSummarize_ProviderErrorPropagates(t *testing.T) {
	messages := techSupportExchange()
	provider := &mockProvider{err: errors.New("rate limited")}
	s := newTestSummarizer(Config{
		Strategy:    models.StrategySinglePass,
		Level:       models.CompressionModerate,
		EnableCache: true,
	}, provider)

	_, err := s.Summarize(context.Background(), "conv-1", messages, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")

	// No partial summary is cached on failure
	assert.Equal(t, 0, s.cache.Len())
}

func TestSummarize_Metadata(t *testing.T) {
	messages := techSupportExchange()
	s := newTestSummarizer(Config{
		Strategy: models.StrategyExtractive,
		Level:    models.CompressionBrief,
	}, nil)

	meta := map[string]string{"tenant": "acme", "source": "webchat"}
	result, err := s.Summarize(context.Background(), "conv-1", messages, &Options{Metadata: meta})
	require.NoError(t, err)
	assert.Equal(t, meta, result.Summary.Metadata)
}

func TestStats(t *testing.T) {
	messages := techSupportExchange()
	s := newTestSummarizer(Config{
		Strategy:    models.StrategySinglePass,
		Level:       models.CompressionModerate,
		EnableCache: true,
	}, &mockProvider{})

	_, err := s.Summarize(context.Background(), "conv-1", messages, nil)
	require.NoError(t, err)
	_, err = s.Summarize(context.Background(), "conv-1", messages, nil)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, int64(1), stats.TotalSummaries)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.Equal(t, int64(15), stats.TotalTokens)

	s.ResetStats()
	assert.Equal(t, Stats{}, s.Stats())
}

func TestStats_ExtractiveAddsNoTokens(t *testing.T) {
	messages := techSupportExchange()
	s := newTestSummarizer(Config{
		Strategy: models.StrategyExtractive,
		Level:    models.CompressionModerate,
	}, nil)

	_, err := s.Summarize(context.Background(), "conv-1", messages, nil)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, int64(1), stats.TotalSummaries)
	assert.Equal(t, int64(0), stats.TotalTokens)
}

func TestSummarize_ConcurrentSameConversation(t *testing.T) {
	messages := techSupportExchange()
	provider := &mockProvider{}
	s := newTestSummarizer(Config{
		Strategy:    models.StrategySinglePass,
		Level:       models.CompressionModerate,
		EnableCache: true,
	}, provider)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Summarize(context.Background(), "conv-1", messages, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	stats := s.Stats()
	assert.Equal(t, int64(workers), stats.CacheHits+stats.CacheMisses)
}
