package summarizer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/recapd/recapd/internal/models"
	"github.com/recapd/recapd/internal/providers"
)

// hierarchicalExecutor summarizes each chunk into a leaf summary, then
// summarizes the concatenated leaves into one root. The root and its
// leaves are linked by plain identifiers: the root lists every leaf ID
// and each leaf points back at the root.
type hierarchicalExecutor struct {
	provider providers.Provider
}

func (e *hierarchicalExecutor) Strategy() models.Strategy {
	return models.StrategyHierarchical
}

func (e *hierarchicalExecutor) Execute(ctx context.Context, req Request) (*ExecResult, error) {
	chunks := chunkMessages(req.Messages, req.ChunkSize)

	// The root ID is minted up front so leaves can reference it.
	rootID := uuid.New().String()

	leaves := make([]*models.Summary, 0, len(chunks))
	leafContents := make([]string, 0, len(chunks))
	total := models.TokenUsage{}
	offset := req.Range.Start
	for i, chunk := range chunks {
		prompt := buildSummaryPrompt(chunk, req.Level, req.CustomPrompt)

		content, usage, err := complete(ctx, e.provider, prompt, req.Level)
		if err != nil {
			return nil, fmt.Errorf("hierarchical leaf %d/%d failed: %w", i+1, len(chunks), err)
		}

		leafReq := req
		leafReq.Messages = chunk
		leafReq.Range = models.MessageRange{Start: offset, End: offset + len(chunk)}
		leaf := newSummary(leafReq, models.StrategyHierarchical)
		leaf.Content = content
		leaf.Usage = usage
		leaf.ParentID = rootID

		leaves = append(leaves, leaf)
		leafContents = append(leafContents, content)
		total.PromptTokens += usage.PromptTokens
		total.CompletionTokens += usage.CompletionTokens
		total.TotalTokens += usage.TotalTokens
		offset += len(chunk)
	}

	rootPrompt := buildRootPrompt(leafContents, req.Level, req.CustomPrompt)
	rootContent, rootUsage, err := complete(ctx, e.provider, rootPrompt, req.Level)
	if err != nil {
		return nil, fmt.Errorf("hierarchical root generation failed: %w", err)
	}

	// The root's usage covers the whole run, leaf calls included, so
	// statistics see every generation call. Leaves keep their own
	// per-call counts.
	total.PromptTokens += rootUsage.PromptTokens
	total.CompletionTokens += rootUsage.CompletionTokens
	total.TotalTokens += rootUsage.TotalTokens

	root := newSummary(req, models.StrategyHierarchical)
	root.ID = rootID
	root.Content = rootContent
	root.Usage = &total
	root.ChildIDs = make([]string, len(leaves))
	for i, leaf := range leaves {
		root.ChildIDs[i] = leaf.ID
	}

	return &ExecResult{Summary: root, Additional: leaves}, nil
}
