package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flastal/flastal-backend/internal/models"
)

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	var created models.Notification
	err := r.db.GetContext(ctx, &created, `
		INSERT INTO notifications (recipient_id, recipient_kind, type, message, project_id, link_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, recipient_id, recipient_kind, type, message, project_id, link_url, is_read, created_at
	`, n.RecipientID, n.RecipientKind, n.Type, n.Message, n.ProjectID, n.LinkURL)
	if err != nil {
		return nil, fmt.Errorf("notification repository: create %w", err)
	}
	return &created, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, kind string, limit, offset int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT id, recipient_id, recipient_kind, type, message, project_id, link_url, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1 AND recipient_kind = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4
	`, recipientID, kind, limit, offset)
	return notifications, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID, kind string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM notifications
		WHERE recipient_id = $1 AND recipient_kind = $2 AND is_read = FALSE
	`, recipientID, kind)
	return count, err
}

// MarkRead marks a single notification read. The recipient filter keeps
// accounts from touching each other's rows.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2
	`, id, recipientID)
	if err != nil {
		return fmt.Errorf("notification repository: mark read %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID, kind string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE recipient_id = $1 AND recipient_kind = $2 AND is_read = FALSE
	`, recipientID, kind)
	if err != nil {
		return 0, fmt.Errorf("notification repository: mark all read %w", err)
	}
	return res.RowsAffected()
}
