package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/flastal/flastal-backend/internal/models"
	"github.com/flastal/flastal-backend/internal/pkg/apperror"
	"github.com/flastal/flastal-backend/internal/repository"
	"github.com/flastal/flastal-backend/internal/validation"
)

type PaymentRepo interface {
	RecordPurchase(ctx context.Context, eventID string, userID uuid.UUID, points int64) (*models.PointTransaction, error)
}

type LedgerRepo interface {
	GetUserBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	GetFloristBalance(ctx context.Context, floristID uuid.UUID) (int64, error)
	ListTransactions(ctx context.Context, accountKind string, accountID uuid.UUID, limit, offset int) ([]models.PointTransaction, error)
}

// PaymentService turns gateway completion events into point credits and
// exposes balances and the transaction history.
type PaymentService struct {
	payments PaymentRepo
	ledger   LedgerRepo
}

func NewPaymentService(payments PaymentRepo, ledger LedgerRepo) *PaymentService {
	return &PaymentService{payments: payments, ledger: ledger}
}

// PurchaseResult reports a processed gateway event. Duplicate means the
// event was seen before and nothing was credited this time.
type PurchaseResult struct {
	Transaction *models.PointTransaction
	Duplicate   bool
}

// HandlePurchase credits points for a completed gateway payment. The
// event ID makes redelivery harmless: the first delivery credits, every
// later one reports Duplicate and changes nothing.
func (s *PaymentService) HandlePurchase(ctx context.Context, eventID string, userID uuid.UUID, points int64) (*PurchaseResult, error) {
	if eventID == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "event id is required")
	}
	if err := validation.ValidateAmount("points", points, 1); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	tx, err := s.payments.RecordPurchase(ctx, eventID, userID, points)
	switch {
	case errors.Is(err, repository.ErrDuplicateEvent):
		return &PurchaseResult{Duplicate: true}, nil
	case errors.Is(err, repository.ErrAccountNotFound):
		return nil, apperror.ErrAccountNotFound
	case err != nil:
		return nil, err
	}
	return &PurchaseResult{Transaction: tx}, nil
}

// Balance returns the caller's spendable balance.
func (s *PaymentService) Balance(ctx context.Context, actor models.Actor) (int64, error) {
	var (
		balance int64
		err     error
	)
	if actor.Role == models.RoleFlorist {
		balance, err = s.ledger.GetFloristBalance(ctx, actor.ID)
	} else {
		balance, err = s.ledger.GetUserBalance(ctx, actor.ID)
	}
	if errors.Is(err, repository.ErrAccountNotFound) {
		return 0, apperror.ErrAccountNotFound
	}
	return balance, err
}

// ListTransactions returns the caller's ledger history, newest first.
func (s *PaymentService) ListTransactions(ctx context.Context, actor models.Actor, limit, offset int) ([]models.PointTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	kind := models.AccountKindUser
	if actor.Role == models.RoleFlorist {
		kind = models.AccountKindFlorist
	}
	return s.ledger.ListTransactions(ctx, kind, actor.ID, limit, offset)
}
