package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"devops-gateway/internal/domain"
)

// ConversationRepository holds ordered message history keyed by conversation id.
// An unknown id is simply a fresh conversation, never an error.
type ConversationRepository interface {
	NewConversationID() string
	// GetHistory returns the last limit messages in chronological order.
	// limit <= 0 returns the full history.
	GetHistory(ctx context.Context, conversationID string, limit int) ([]domain.ChatMessage, error)
	// AppendTurnPair persists a user turn and its assistant turn as one atomic
	// write. Appends on the same conversation id are serialized against each
	// other; distinct ids do not contend.
	AppendTurnPair(ctx context.Context, conversationID string, user, assistant domain.ChatMessage) error
}

type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

func (r *PgConversationRepository) NewConversationID() string {
	return uuid.NewString()
}

func (r *PgConversationRepository) GetHistory(ctx context.Context, conversationID string, limit int) ([]domain.ChatMessage, error) {
	const query = `
		SELECT role, content, created_at
		FROM (
			SELECT role, content, created_at, seq
			FROM conversation_messages
			WHERE conversation_id = $1
			ORDER BY seq DESC
			LIMIT CASE WHEN $2 > 0 THEN $2 ELSE NULL END
		) recent
		ORDER BY seq ASC
	`

	rows, err := r.pool.Query(ctx, query, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(&msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *PgConversationRepository) AppendTurnPair(ctx context.Context, conversationID string, user, assistant domain.ChatMessage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin append pair: %w", err)
	}
	defer tx.Rollback(ctx)

	// Transaction-scoped advisory lock serializes appends per conversation id.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, conversationID); err != nil {
		return fmt.Errorf("lock conversation: %w", err)
	}

	const insert = `
		INSERT INTO conversation_messages (id, conversation_id, seq, role, content, created_at)
		VALUES ($1, $2, (
			SELECT COALESCE(MAX(seq), 0) + 1
			FROM conversation_messages
			WHERE conversation_id = $2
		), $3, $4, $5)
	`

	if _, err := tx.Exec(ctx, insert, uuid.NewString(), conversationID, user.Role, user.Content, user.CreatedAt); err != nil {
		return fmt.Errorf("append user turn: %w", err)
	}
	if _, err := tx.Exec(ctx, insert, uuid.NewString(), conversationID, assistant.Role, assistant.Content, assistant.CreatedAt); err != nil {
		return fmt.Errorf("append assistant turn: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit append pair: %w", err)
	}
	return nil
}
