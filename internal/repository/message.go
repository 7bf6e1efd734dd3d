package repository

import (
	"context"
	"errors"
	"fmt"

	"matchup-backend/internal/apperrors"
	"matchup-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Message containers partition the inbox listing.
const (
	ContainerUnread = "Unread"
	ContainerInbox  = "Inbox"
	ContainerOutbox = "Outbox"
)

// MessageRepository handles database operations for messages
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	ListForUser(ctx context.Context, userID int64, container string, limit, offset int) ([]*models.Message, int, error)
	Thread(ctx context.Context, userID, otherID int64) ([]*models.Message, error)
	MarkThreadRead(ctx context.Context, readerID, senderID int64) error
	MarkDeleted(ctx context.Context, id int64, bySender bool) error
	Delete(ctx context.Context, id int64) error
}

type messageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) MessageRepository {
	return &messageRepository{db: db}
}

const messageColumns = `id, sender_id, recipient_id, content, is_read, date_read,
		date_sent, sender_deleted, recipient_deleted`

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	err := row.Scan(
		&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.IsRead,
		&m.DateRead, &m.DateSent, &m.SenderDeleted, &m.RecipientDeleted,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create creates a new message
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (sender_id, recipient_id, content, is_read, date_sent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		message.SenderID, message.RecipientID, message.Content,
		message.IsRead, message.DateSent,
	).Scan(&message.ID)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetByID retrieves a message by ID
func (r *messageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	m, err := scanMessage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("message not found")
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return m, nil
}

// ListForUser retrieves one page of the user's messages for a container,
// with the total count. Unknown containers fall back to Unread.
func (r *messageRepository) ListForUser(ctx context.Context, userID int64, container string, limit, offset int) ([]*models.Message, int, error) {
	var where string
	switch container {
	case ContainerInbox:
		where = `recipient_id = $1 AND NOT recipient_deleted`
	case ContainerOutbox:
		where = `sender_id = $1 AND NOT sender_deleted`
	default:
		where = `recipient_id = $1 AND NOT recipient_deleted AND NOT is_read`
	}

	countQuery := `SELECT COUNT(*) FROM messages WHERE ` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM messages WHERE %s ORDER BY date_sent DESC LIMIT $2 OFFSET $3`,
		messageColumns, where)
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, total, nil
}

// Thread retrieves the conversation between two users, oldest first,
// hiding messages the requesting user has deleted.
func (r *messageRepository) Thread(ctx context.Context, userID, otherID int64) ([]*models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE (recipient_id = $1 AND NOT recipient_deleted AND sender_id = $2)
		   OR (sender_id = $1 AND NOT sender_deleted AND recipient_id = $2)
		ORDER BY date_sent
	`
	rows, err := r.db.Query(ctx, query, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating thread: %w", err)
	}
	return messages, nil
}

// MarkThreadRead marks all unread messages from sender to reader as read
func (r *messageRepository) MarkThreadRead(ctx context.Context, readerID, senderID int64) error {
	query := `
		UPDATE messages
		SET is_read = TRUE, date_read = NOW()
		WHERE recipient_id = $1 AND sender_id = $2 AND NOT is_read
	`
	if _, err := r.db.Exec(ctx, query, readerID, senderID); err != nil {
		return fmt.Errorf("failed to mark thread read: %w", err)
	}
	return nil
}

// MarkDeleted flags one side's deletion of a message
func (r *messageRepository) MarkDeleted(ctx context.Context, id int64, bySender bool) error {
	column := "recipient_deleted"
	if bySender {
		column = "sender_deleted"
	}
	query := fmt.Sprintf(`UPDATE messages SET %s = TRUE WHERE id = $1`, column)
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark message deleted: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("message not found")
	}
	return nil
}

// Delete removes a message row
func (r *messageRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
