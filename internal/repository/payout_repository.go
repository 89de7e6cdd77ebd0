package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flastal/flastal-backend/internal/models"
)

type PayoutRepository struct {
	db *sqlx.DB
}

func NewPayoutRepository(db *sqlx.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

const payoutColumns = `id, florist_id, amount, status, account_info, admin_comment, created_at, processed_at`

// Create files a payout request and reserves the amount immediately:
// the florist balance is debited in the same transaction that inserts
// the PENDING request, before any human review.
func (r *PayoutRepository) Create(ctx context.Context, floristID uuid.UUID, amount int64, accountInfo string) (*models.PayoutRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := debitFloristTx(ctx, tx, floristID, amount); err != nil {
		return nil, err
	}

	var payout models.PayoutRequest
	err = tx.GetContext(ctx, &payout, `
		INSERT INTO payout_requests (florist_id, amount, status, account_info)
		VALUES ($1, $2, $3, $4)
		RETURNING `+payoutColumns+`
	`, floristID, amount, models.PayoutStatusPending, accountInfo)
	if err != nil {
		return nil, fmt.Errorf("payout repository: insert %w", err)
	}

	if _, err := insertTransactionTx(ctx, tx, models.AccountKindFlorist, floristID, nil,
		models.TransactionTypePayoutHold, -amount, "payout requested, balance reserved"); err != nil {
		return nil, err
	}

	return &payout, tx.Commit()
}

// Resolve finalizes a PENDING request. COMPLETED has no further ledger
// effect (the reservation already removed the funds); REJECTED credits
// the reservation back in the same transaction, which is what keeps the
// ledger conserved. Resolving twice fails with ErrAlreadyResolved.
func (r *PayoutRepository) Resolve(ctx context.Context, payoutID uuid.UUID, newStatus string, adminComment *string) (*models.PayoutRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var payout models.PayoutRequest
	err = tx.GetContext(ctx, &payout, `SELECT `+payoutColumns+` FROM payout_requests WHERE id = $1 FOR UPDATE`, payoutID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("payout repository: lock payout %w", err)
	}
	if payout.Status != models.PayoutStatusPending {
		return nil, ErrAlreadyResolved
	}

	err = tx.GetContext(ctx, &payout, `
		UPDATE payout_requests SET status = $2, admin_comment = $3, processed_at = NOW()
		WHERE id = $1
		RETURNING `+payoutColumns+`
	`, payoutID, newStatus, adminComment)
	if err != nil {
		return nil, fmt.Errorf("payout repository: update %w", err)
	}

	if newStatus == models.PayoutStatusRejected {
		if err := creditFloristTx(ctx, tx, payout.FloristID, payout.Amount); err != nil {
			return nil, err
		}
		if _, err := insertTransactionTx(ctx, tx, models.AccountKindFlorist, payout.FloristID, nil,
			models.TransactionTypePayoutRefund, payout.Amount, "payout rejected, reservation returned"); err != nil {
			return nil, err
		}
	}

	return &payout, tx.Commit()
}

func (r *PayoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PayoutRequest, error) {
	var payout models.PayoutRequest
	err := r.db.GetContext(ctx, &payout, `SELECT `+payoutColumns+` FROM payout_requests WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &payout, err
}

func (r *PayoutRepository) ListByFlorist(ctx context.Context, floristID uuid.UUID, limit, offset int) ([]models.PayoutRequest, error) {
	var payouts []models.PayoutRequest
	err := r.db.SelectContext(ctx, &payouts, `
		SELECT `+payoutColumns+` FROM payout_requests
		WHERE florist_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, floristID, limit, offset)
	return payouts, err
}

// ListPending returns unresolved requests, oldest first.
func (r *PayoutRepository) ListPending(ctx context.Context) ([]models.PayoutRequest, error) {
	var payouts []models.PayoutRequest
	err := r.db.SelectContext(ctx, &payouts, `
		SELECT `+payoutColumns+` FROM payout_requests
		WHERE status = $1 ORDER BY created_at ASC
	`, models.PayoutStatusPending)
	return payouts, err
}
