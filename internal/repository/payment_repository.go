package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flastal/flastal-backend/internal/models"
)

// PaymentRepository handles credits originating from the external
// payment gateway.
type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// RecordPurchase credits purchased points exactly once per gateway
// event. The insert into payment_events is the dedup gate: ON CONFLICT
// DO NOTHING inserts zero rows for a redelivered event, and the credit
// is skipped entirely.
func (r *PaymentRepository) RecordPurchase(ctx context.Context, eventID string, userID uuid.UUID, points int64) (*models.PointTransaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO payment_events (event_id, user_id, points)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO NOTHING
	`, eventID, userID, points)
	if err != nil {
		return nil, fmt.Errorf("payment repository: record event %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrDuplicateEvent
	}

	if err := creditUserTx(ctx, tx, userID, points); err != nil {
		return nil, err
	}

	entry, err := insertTransactionTx(ctx, tx, models.AccountKindUser, userID, nil,
		models.TransactionTypePurchase, points, "points purchased via payment gateway")
	if err != nil {
		return nil, err
	}

	return entry, tx.Commit()
}
