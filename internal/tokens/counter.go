// Package tokens provides a cheap token-count estimate for prompt text.
// It is a stand-in for a model-specific tokenizer: callers only need a
// stable approximation to budget prompts and report savings.
package tokens

import (
	"strings"
	"unicode"
)

// charsPerToken matches the rough 4-chars-per-token rule used for
// English text by common BPE tokenizers.
const charsPerToken = 4

// Result holds a token estimate for a piece of text.
type Result struct {
	Total  int      `json:"total"`
	Tokens []string `json:"tokens"`
}

// Count estimates the token count of text and returns the word-level
// tokens the estimate was derived from. Empty or whitespace-only text
// yields a zero Result.
func Count(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{}
	}

	words := strings.FieldsFunc(trimmed, func(r rune) bool {
		return unicode.IsSpace(r)
	})

	total := (len(trimmed) + charsPerToken - 1) / charsPerToken
	if total < len(words) {
		// A token is never longer than a word boundary split suggests
		total = len(words)
	}

	return Result{
		Total:  total,
		Tokens: words,
	}
}
