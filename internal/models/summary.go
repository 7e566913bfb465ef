package models

import "time"

// Strategy selects the summarization algorithm.
type Strategy string

const (
	StrategySinglePass   Strategy = "single-pass"
	StrategyRolling      Strategy = "rolling"
	StrategyHierarchical Strategy = "hierarchical"
	StrategyExtractive   Strategy = "extractive"
	StrategyHybrid       Strategy = "hybrid"
)

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	switch s {
	case StrategySinglePass, StrategyRolling, StrategyHierarchical, StrategyExtractive, StrategyHybrid:
		return true
	}
	return false
}

// CompressionLevel controls the target length of a summary, not which
// algorithm produces it.
type CompressionLevel string

const (
	CompressionBrief    CompressionLevel = "brief"
	CompressionModerate CompressionLevel = "moderate"
	CompressionDetailed CompressionLevel = "detailed"
)

// Valid reports whether l is one of the known compression levels.
func (l CompressionLevel) Valid() bool {
	switch l {
	case CompressionBrief, CompressionModerate, CompressionDetailed:
		return true
	}
	return false
}

// TokenUsage records the token counts of a single generation call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// MessageRange is the half-open index range [Start, End) of the transcript
// slice a summary covers.
type MessageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Summary is the artifact produced by the summarization engine.
//
// Usage is only set when a generation call was made; extractive summaries
// never carry it. ParentSummaryID and ChildSummaryIDs form a strict tree:
// a hierarchical root lists its leaf IDs, each leaf points back at the
// root, and leaves never have children of their own.
type Summary struct {
	ID             string            `json:"id"`
	ConversationID string            `json:"conversation_id"`
	Strategy       Strategy          `json:"strategy"`
	Level          CompressionLevel  `json:"compression_level"`
	Content        string            `json:"content"`
	KeyPoints      []string          `json:"key_points,omitempty"`
	Usage          *TokenUsage       `json:"usage,omitempty"`
	MessageCount   int               `json:"message_count"`
	Range          MessageRange      `json:"message_range"`
	ParentID       string            `json:"parent_summary_id,omitempty"`
	ChildIDs       []string          `json:"child_summary_ids,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
