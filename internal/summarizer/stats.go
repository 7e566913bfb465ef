package summarizer

import "sync"

// Stats is a snapshot of the running counters for one Summarizer
// instance. TotalSummaries counts freshly produced summaries only;
// cache hits do not add to it.
type Stats struct {
	TotalSummaries  int64   `json:"total_summaries"`
	CacheHits       int64   `json:"cache_hits"`
	CacheMisses     int64   `json:"cache_misses"`
	TotalTokens     int64   `json:"total_tokens"`
	TotalDurationMs int64   `json:"total_duration_ms"`
	AvgDurationMs   float64 `json:"avg_duration_ms"`
}

// statsCollector accumulates counters behind a mutex; increments are
// read-modify-write and must not race under concurrent summarization.
type statsCollector struct {
	mu              sync.Mutex
	totalSummaries  int64
	cacheHits       int64
	cacheMisses     int64
	totalTokens     int64
	totalDurationMs int64
}

func (s *statsCollector) recordHit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheHits++
}

func (s *statsCollector) recordMiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheMisses++
}

func (s *statsCollector) recordSummary(tokens int, durationMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalSummaries++
	s.totalTokens += int64(tokens)
	s.totalDurationMs += durationMs
}

func (s *statsCollector) snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Stats{
		TotalSummaries:  s.totalSummaries,
		CacheHits:       s.cacheHits,
		CacheMisses:     s.cacheMisses,
		TotalTokens:     s.totalTokens,
		TotalDurationMs: s.totalDurationMs,
	}
	if s.totalSummaries > 0 {
		snap.AvgDurationMs = float64(s.totalDurationMs) / float64(s.totalSummaries)
	}
	return snap
}

func (s *statsCollector) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalSummaries = 0
	s.cacheHits = 0
	s.cacheMisses = 0
	s.totalTokens = 0
	s.totalDurationMs = 0
}
