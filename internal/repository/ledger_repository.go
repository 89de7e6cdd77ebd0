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

// LedgerRepository owns the point balances. Every balance column in the
// schema (users.points, florists.balance) is written exclusively through
// the functions in this file; composite transactions in the sibling
// repositories reuse the *Tx helpers so each movement happens under the
// same row lock discipline and leaves an audit row behind.
type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// GetUserBalance returns the current spendable points of a fan.
func (r *LedgerRepository) GetUserBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var points int64
	err := r.db.GetContext(ctx, &points, `SELECT points FROM users WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrAccountNotFound
	}
	return points, err
}

// GetFloristBalance returns the settled balance of a florist.
func (r *LedgerRepository) GetFloristBalance(ctx context.Context, floristID uuid.UUID) (int64, error) {
	var balance int64
	err := r.db.GetContext(ctx, &balance, `SELECT balance FROM florists WHERE id = $1`, floristID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrAccountNotFound
	}
	return balance, err
}

// ListTransactions returns the audit trail for one account, newest first.
func (r *LedgerRepository) ListTransactions(ctx context.Context, accountKind string, accountID uuid.UUID, limit, offset int) ([]models.PointTransaction, error) {
	var entries []models.PointTransaction
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, account_kind, account_id, project_id, type, amount, description, created_at
		FROM point_transactions
		WHERE account_kind = $1 AND account_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4
	`, accountKind, accountID, limit, offset)
	return entries, err
}

// creditUserTx increments a locked fan balance inside tx.
func creditUserTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE users SET points = points + $2, updated_at = NOW() WHERE id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("ledger: credit user %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// debitUserTx locks the fan row, checks cover and decrements. Two
// concurrent debits serialize on the row lock, so they can never both
// succeed past the balance.
func debitUserTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64) error {
	var points int64
	err := tx.GetContext(ctx, &points, `SELECT points FROM users WHERE id = $1 FOR UPDATE`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("ledger: lock user %w", err)
	}
	if points < amount {
		return ErrInsufficientFunds
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE users SET points = points - $2, updated_at = NOW() WHERE id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("ledger: debit user %w", err)
	}
	return nil
}

func creditFloristTx(ctx context.Context, tx *sqlx.Tx, floristID uuid.UUID, amount int64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE florists SET balance = balance + $2, updated_at = NOW() WHERE id = $1
	`, floristID, amount)
	if err != nil {
		return fmt.Errorf("ledger: credit florist %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func debitFloristTx(ctx context.Context, tx *sqlx.Tx, floristID uuid.UUID, amount int64) error {
	var balance int64
	err := tx.GetContext(ctx, &balance, `SELECT balance FROM florists WHERE id = $1 FOR UPDATE`, floristID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("ledger: lock florist %w", err)
	}
	if balance < amount {
		return ErrInsufficientFunds
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE florists SET balance = balance - $2, updated_at = NOW() WHERE id = $1
	`, floristID, amount)
	if err != nil {
		return fmt.Errorf("ledger: debit florist %w", err)
	}
	return nil
}

// insertTransactionTx appends one audit row. Amount is signed: credits
// positive, debits negative.
func insertTransactionTx(ctx context.Context, tx *sqlx.Tx, accountKind string, accountID uuid.UUID, projectID *uuid.UUID, txType string, amount int64, description string) (*models.PointTransaction, error) {
	var entry models.PointTransaction
	err := tx.GetContext(ctx, &entry, `
		INSERT INTO point_transactions (account_kind, account_id, project_id, type, amount, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, account_kind, account_id, project_id, type, amount, description, created_at
	`, accountKind, accountID, projectID, txType, amount, description)
	if err != nil {
		return nil, fmt.Errorf("ledger: insert transaction %w", err)
	}
	return &entry, nil
}
