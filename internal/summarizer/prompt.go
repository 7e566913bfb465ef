package summarizer

import (
	"fmt"
	"strings"

	"github.com/recapd/recapd/internal/models"
)

// roleLabel renders a message role as a transcript speaker label.
func roleLabel(role models.Role) string {
	switch role {
	case models.RoleUser:
		return "User"
	case models.RoleAssistant:
		return "Assistant"
	case models.RoleSystem:
		return "System"
	case models.RoleTool:
		return "Tool"
	}
	return string(role)
}

// levelInstruction describes the target length for each compression level.
func levelInstruction(level models.CompressionLevel) string {
	switch level {
	case models.CompressionBrief:
		return "Be extremely concise: 2-3 sentences, at most 100 words."
	case models.CompressionDetailed:
		return "Be thorough: preserve decisions, technical details, and open questions, up to 400 words."
	default:
		return "Format as a brief narrative of at most 200 words."
	}
}

// maxTokensFor bounds the completion size per compression level.
func maxTokensFor(level models.CompressionLevel) int {
	switch level {
	case models.CompressionBrief:
		return 300
	case models.CompressionDetailed:
		return 900
	default:
		return 500
	}
}

// buildTranscript renders messages as "Role: content" blocks, the same
// shape the summarization prompts expect.
func buildTranscript(messages []models.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(fmt.Sprintf("%s: %s\n\n", roleLabel(msg.Role), msg.Content))
	}
	return b.String()
}

// buildSummaryPrompt is the single-pass prompt over a full transcript.
func buildSummaryPrompt(messages []models.Message, level models.CompressionLevel, custom string) string {
	if custom != "" {
		return fmt.Sprintf("%s\n\nConversation to summarize:\n%s\n\nSummary:", custom, buildTranscript(messages))
	}
	return fmt.Sprintf(`Create a concise summary of this conversation that can replace the full messages in an LLM context.

Include ONLY the essential information needed for context continuity:
- Key facts established
- Important decisions made
- Critical technical details (errors, code snippets if crucial)
- Current task/question being worked on
- User preferences discovered

%s

Conversation to summarize:
%s

Summary:`, levelInstruction(level), buildTranscript(messages))
}

// buildRollingPrompt folds the summary-so-far into the prompt for the
// next chunk.
func buildRollingPrompt(previous string, chunk []models.Message, level models.CompressionLevel, custom string) string {
	if previous == "" {
		return buildSummaryPrompt(chunk, level, custom)
	}
	return fmt.Sprintf(`You are maintaining a running summary of a long conversation.

Summary of the conversation so far:
%s

New messages:
%s

Produce one updated summary covering everything so far. %s

Updated summary:`, previous, buildTranscript(chunk), levelInstruction(level))
}

// buildRootPrompt combines leaf summaries into the hierarchical root.
func buildRootPrompt(leafContents []string, level models.CompressionLevel, custom string) string {
	var b strings.Builder
	for i, content := range leafContents {
		b.WriteString(fmt.Sprintf("Part %d: %s\n\n", i+1, content))
	}
	if custom != "" {
		return fmt.Sprintf("%s\n\nPartial summaries:\n%s\nCombined summary:", custom, b.String())
	}
	return fmt.Sprintf(`The following are summaries of consecutive parts of one conversation.
Combine them into a single coherent summary. %s

%s
Combined summary:`, levelInstruction(level), b.String())
}

// buildCondensedPrompt is the hybrid prompt over pre-filtered key sentences.
func buildCondensedPrompt(keySentences []string, level models.CompressionLevel, custom string) string {
	condensed := strings.Join(keySentences, "\n")
	if custom != "" {
		return fmt.Sprintf("%s\n\nKey excerpts from the conversation:\n%s\n\nSummary:", custom, condensed)
	}
	return fmt.Sprintf(`The following are the most important sentences extracted from a conversation.
Write a coherent summary based on them. %s

Key excerpts:
%s

Summary:`, levelInstruction(level), condensed)
}

// buildMergePrompt merges an existing summary with newly arrived messages
// into one cohesive summary, not a concatenation.
func buildMergePrompt(existing string, newMessages []models.Message, level models.CompressionLevel) string {
	return fmt.Sprintf(`An earlier part of this conversation was already summarized:
%s

The conversation then continued:
%s

Write ONE cohesive summary covering both the earlier summary and the new messages. %s

Merged summary:`, existing, buildTranscript(newMessages), levelInstruction(level))
}
