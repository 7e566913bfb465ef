package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/recapd/recapd/internal/models"
)

// ErrSummaryNotFound is returned when no summary row matches.
var ErrSummaryNotFound = errors.New("summary not found")

// summaryRow mirrors the summaries table.
type summaryRow struct {
	ID               string          `db:"id"`
	ConversationID   string          `db:"conversation_id"`
	Strategy         string          `db:"strategy"`
	CompressionLevel string          `db:"compression_level"`
	Content          string          `db:"content"`
	KeyPoints        json.RawMessage `db:"key_points"`
	PromptTokens     sql.NullInt64   `db:"prompt_tokens"`
	CompletionTokens sql.NullInt64   `db:"completion_tokens"`
	TotalTokens      sql.NullInt64   `db:"total_tokens"`
	MessageCount     int             `db:"message_count"`
	RangeStart       int             `db:"range_start"`
	RangeEnd         int             `db:"range_end"`
	ParentSummaryID  sql.NullString  `db:"parent_summary_id"`
	ChildSummaryIDs  json.RawMessage `db:"child_summary_ids"`
	Metadata         json.RawMessage `db:"metadata"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// SummaryRepository persists produced summaries
type SummaryRepository struct {
	db *sqlx.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Create stores a summary
func (r *SummaryRepository) Create(ctx context.Context, summary *models.Summary) error {
	row, err := toRow(summary)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO summaries (id, conversation_id, strategy, compression_level, content,
			key_points, prompt_tokens, completion_tokens, total_tokens, message_count,
			range_start, range_end, parent_summary_id, child_summary_ids, metadata,
			created_at, updated_at)
		VALUES (:id, :conversation_id, :strategy, :compression_level, :content,
			:key_points, :prompt_tokens, :completion_tokens, :total_tokens, :message_count,
			:range_start, :range_end, :parent_summary_id, :child_summary_ids, :metadata,
			:created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to create summary: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of an existing summary (content,
// key points, usage, counts, range, updated_at).
func (r *SummaryRepository) Update(ctx context.Context, summary *models.Summary) error {
	row, err := toRow(summary)
	if err != nil {
		return err
	}

	query := `
		UPDATE summaries
		SET content = :content, key_points = :key_points,
			prompt_tokens = :prompt_tokens, completion_tokens = :completion_tokens,
			total_tokens = :total_tokens, message_count = :message_count,
			range_start = :range_start, range_end = :range_end, updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("failed to update summary: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrSummaryNotFound
	}
	return nil
}

// Get fetches one summary by ID
func (r *SummaryRepository) Get(ctx context.Context, id string) (*models.Summary, error) {
	var row summaryRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM summaries WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSummaryNotFound
		}
		return nil, fmt.Errorf("failed to fetch summary: %w", err)
	}
	return fromRow(&row)
}

// ListByConversation returns a conversation's summaries, newest first
func (r *SummaryRepository) ListByConversation(ctx context.Context, conversationID string) ([]*models.Summary, error) {
	var rows []summaryRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM summaries WHERE conversation_id = $1 ORDER BY created_at DESC`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch summaries: %w", err)
	}

	summaries := make([]*models.Summary, 0, len(rows))
	for i := range rows {
		s, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// DeleteByConversation removes all summaries for a conversation
func (r *SummaryRepository) DeleteByConversation(ctx context.Context, conversationID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM summaries WHERE conversation_id = $1`, conversationID); err != nil {
		return fmt.Errorf("failed to delete summaries: %w", err)
	}
	return nil
}

func toRow(s *models.Summary) (*summaryRow, error) {
	row := &summaryRow{
		ID:               s.ID,
		ConversationID:   s.ConversationID,
		Strategy:         string(s.Strategy),
		CompressionLevel: string(s.Level),
		Content:          s.Content,
		MessageCount:     s.MessageCount,
		RangeStart:       s.Range.Start,
		RangeEnd:         s.Range.End,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}

	if len(s.KeyPoints) > 0 {
		data, err := json.Marshal(s.KeyPoints)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal key points: %w", err)
		}
		row.KeyPoints = data
	}

	if s.Usage != nil {
		row.PromptTokens = sql.NullInt64{Int64: int64(s.Usage.PromptTokens), Valid: true}
		row.CompletionTokens = sql.NullInt64{Int64: int64(s.Usage.CompletionTokens), Valid: true}
		row.TotalTokens = sql.NullInt64{Int64: int64(s.Usage.TotalTokens), Valid: true}
	}

	if s.ParentID != "" {
		row.ParentSummaryID = sql.NullString{String: s.ParentID, Valid: true}
	}

	if len(s.ChildIDs) > 0 {
		data, err := json.Marshal(s.ChildIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal child ids: %w", err)
		}
		row.ChildSummaryIDs = data
	}

	if len(s.Metadata) > 0 {
		data, err := json.Marshal(s.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		row.Metadata = data
	}

	return row, nil
}

func fromRow(row *summaryRow) (*models.Summary, error) {
	s := &models.Summary{
		ID:             row.ID,
		ConversationID: row.ConversationID,
		Strategy:       models.Strategy(row.Strategy),
		Level:          models.CompressionLevel(row.CompressionLevel),
		Content:        row.Content,
		MessageCount:   row.MessageCount,
		Range:          models.MessageRange{Start: row.RangeStart, End: row.RangeEnd},
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}

	if len(row.KeyPoints) > 0 {
		if err := json.Unmarshal(row.KeyPoints, &s.KeyPoints); err != nil {
			return nil, fmt.Errorf("failed to unmarshal key points: %w", err)
		}
	}

	if row.TotalTokens.Valid {
		s.Usage = &models.TokenUsage{
			PromptTokens:     int(row.PromptTokens.Int64),
			CompletionTokens: int(row.CompletionTokens.Int64),
			TotalTokens:      int(row.TotalTokens.Int64),
		}
	}

	if row.ParentSummaryID.Valid {
		s.ParentID = row.ParentSummaryID.String
	}

	if len(row.ChildSummaryIDs) > 0 {
		if err := json.Unmarshal(row.ChildSummaryIDs, &s.ChildIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal child ids: %w", err)
		}
	}

	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &s.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return s, nil
}
