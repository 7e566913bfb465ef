// Package summarizer condenses long conversation transcripts into
// compact summaries using one of five interchangeable strategies, with
// caching and running statistics per instance.
package summarizer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/recapd/recapd/internal/config"
	"github.com/recapd/recapd/internal/models"
	"github.com/recapd/recapd/internal/providers"
	"github.com/recapd/recapd/internal/providers/factory"
)

const defaultChunkSize = 10

// Config selects the strategy, compression level, and generation
// provider for one Summarizer instance.
type Config struct {
	Strategy       models.Strategy
	Level          models.CompressionLevel
	Provider       string
	ProviderConfig config.ProviderConfig
	ChunkSize      int
	CustomPrompt   string
	EnableCache    bool
}

// Options tune a single Summarize call. StartIndex/EndIndex select a
// half-open sub-range [start, end) of the transcript; nil means the
// respective end of the sequence.
type Options struct {
	StartIndex      *int
	EndIndex        *int
	ForceRegenerate bool
	Metadata        map[string]string
}

// Result is the outcome of one summarization call.
type Result struct {
	Summary    *models.Summary   `json:"summary"`
	Additional []*models.Summary `json:"additional_summaries,omitempty"`
	Cached     bool              `json:"cached"`
	DurationMs int64             `json:"duration_ms"`
}

// Summarizer is the engine facade. It owns its cache and statistics;
// two instances never share state unless wired to the same Cache
// explicitly. Safe for concurrent use.
type Summarizer struct {
	cfg      Config
	provider providers.Provider
	executor Executor
	cache    *Cache
	stats    statsCollector
	logger   *logrus.Logger
}

// New constructs a Summarizer from configuration. The provider is built
// by name through the factory; an unsupported name fails here, never at
// summarization time.
func New(cfg Config, logger *logrus.Logger) (*Summarizer, error) {
	applyDefaults(&cfg)

	if !cfg.Strategy.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy)
	}
	if !cfg.Level.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, cfg.Level)
	}

	var provider providers.Provider
	if cfg.Strategy != models.StrategyExtractive {
		pc := cfg.ProviderConfig
		if pc.Type == "" {
			pc.Type = cfg.Provider
		}
		p, err := factory.CreateProvider(cfg.Provider, pc)
		if err != nil {
			return nil, err
		}
		provider = p
	}

	return newWithProvider(cfg, provider, logger)
}

// NewWithProvider constructs a Summarizer around an already-built
// provider. Used by tests and by callers embedding the engine.
func NewWithProvider(cfg Config, provider providers.Provider, logger *logrus.Logger) (*Summarizer, error) {
	applyDefaults(&cfg)

	if !cfg.Strategy.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy)
	}
	if !cfg.Level.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, cfg.Level)
	}
	if provider == nil && cfg.Strategy != models.StrategyExtractive {
		return nil, fmt.Errorf("strategy %q requires a generation provider", cfg.Strategy)
	}

	return newWithProvider(cfg, provider, logger)
}

func newWithProvider(cfg Config, provider providers.Provider, logger *logrus.Logger) (*Summarizer, error) {
	if logger == nil {
		logger = logrus.New()
	}

	s := &Summarizer{
		cfg:      cfg,
		provider: provider,
		cache:    NewCache(),
		logger:   logger,
	}
	s.executor = s.buildExecutor(cfg.Strategy)
	return s, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Strategy == "" {
		cfg.Strategy = models.StrategySinglePass
	}
	if cfg.Level == "" {
		cfg.Level = models.CompressionModerate
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
}

func (s *Summarizer) buildExecutor(strategy models.Strategy) Executor {
	switch strategy {
	case models.StrategyRolling:
		return &rollingExecutor{provider: s.provider}
	case models.StrategyHierarchical:
		return &hierarchicalExecutor{provider: s.provider}
	case models.StrategyExtractive:
		return &extractiveExecutor{}
	case models.StrategyHybrid:
		return &hybridExecutor{provider: s.provider}
	default:
		return &singlePassExecutor{provider: s.provider}
	}
}

// Summarize condenses the selected range of messages into one summary.
// The cache is consulted unless the instance disables it or the caller
// forces regeneration; a hit returns the stored summary unchanged.
func (s *Summarizer) Summarize(ctx context.Context, conversationID string, messages []models.Message, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	started := time.Now()

	ranged, rng, err := resolveRange(messages, opts.StartIndex, opts.EndIndex)
	if err != nil {
		return nil, err
	}

	key := cacheKey(conversationID, rng, s.cfg.Strategy, s.cfg.Level, ranged)

	if s.cfg.EnableCache && !opts.ForceRegenerate {
		if cached, ok := s.cache.Get(key); ok {
			s.stats.recordHit()
			return &Result{
				Summary:    cached,
				Cached:     true,
				DurationMs: time.Since(started).Milliseconds(),
			}, nil
		}
		s.stats.recordMiss()
	}

	req := Request{
		ConversationID: conversationID,
		Messages:       ranged,
		Range:          rng,
		Level:          s.cfg.Level,
		ChunkSize:      s.cfg.ChunkSize,
		CustomPrompt:   s.cfg.CustomPrompt,
		Metadata:       opts.Metadata,
	}

	res, err := s.executor.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	durationMs := time.Since(started).Milliseconds()

	if s.cfg.EnableCache {
		s.cache.Set(key, res.Summary)
	}

	tokens := 0
	if res.Summary.Usage != nil {
		tokens = res.Summary.Usage.TotalTokens
	}
	s.stats.recordSummary(tokens, durationMs)

	s.logger.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"strategy":        s.cfg.Strategy,
		"messages":        len(ranged),
		"duration_ms":     durationMs,
	}).Debug("summary generated")

	return &Result{
		Summary:    res.Summary,
		Additional: res.Additional,
		Cached:     false,
		DurationMs: durationMs,
	}, nil
}

// Stats returns a snapshot of the running counters.
func (s *Summarizer) Stats() Stats {
	return s.stats.snapshot()
}

// ResetStats zeroes all counters.
func (s *Summarizer) ResetStats() {
	s.stats.reset()
}

// ClearCache drops every cached summary.
func (s *Summarizer) ClearCache() {
	s.cache.Clear()
}

// InvalidateConversation drops cached summaries for one conversation.
func (s *Summarizer) InvalidateConversation(conversationID string) {
	s.cache.Invalidate(conversationID)
}

// resolveRange slices messages to the half-open range [start, end),
// defaulting to the full sequence. Out-of-bounds indices are clamped; an
// empty result is an error before any strategy runs.
func resolveRange(messages []models.Message, startIndex, endIndex *int) ([]models.Message, models.MessageRange, error) {
	start := 0
	end := len(messages)

	if startIndex != nil {
		start = *startIndex
	}
	if endIndex != nil {
		end = *endIndex
	}

	if start < 0 {
		start = 0
	}
	if end > len(messages) {
		end = len(messages)
	}

	if start >= end {
		return nil, models.MessageRange{}, ErrNoMessages
	}

	return messages[start:end], models.MessageRange{Start: start, End: end}, nil
}
