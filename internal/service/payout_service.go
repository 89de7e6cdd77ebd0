package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/flastal/flastal-backend/internal/models"
	"github.com/flastal/flastal-backend/internal/pkg/apperror"
	"github.com/flastal/flastal-backend/internal/repository"
	"github.com/flastal/flastal-backend/internal/validation"
)

type PayoutRepo interface {
	Create(ctx context.Context, floristID uuid.UUID, amount int64, accountInfo string) (*models.PayoutRequest, error)
	Resolve(ctx context.Context, payoutID uuid.UUID, newStatus string, adminComment *string) (*models.PayoutRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.PayoutRequest, error)
	ListByFlorist(ctx context.Context, floristID uuid.UUID, limit, offset int) ([]models.PayoutRequest, error)
	ListPending(ctx context.Context) ([]models.PayoutRequest, error)
}

// PayoutService moves settled florist balance out of the platform.
// Filing a request debits the balance immediately; a rejection credits
// it back.
type PayoutService struct {
	repo      PayoutRepo
	notifier  Notifier
	minAmount int64
}

func NewPayoutService(repo PayoutRepo, notifier Notifier, minAmount int64) *PayoutService {
	return &PayoutService{repo: repo, notifier: notifier, minAmount: minAmount}
}

// Create files a payout request and reserves the amount.
func (s *PayoutService) Create(ctx context.Context, actor models.Actor, amount int64, accountInfo string) (*models.PayoutRequest, error) {
	if amount < s.minAmount {
		return nil, apperror.New(apperror.ErrCodeBelowMinimum,
			fmt.Sprintf("payout amount must be at least %d points", s.minAmount))
	}
	if err := validation.ValidateAmount("payout amount", amount, s.minAmount); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if accountInfo == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "bank account info is required")
	}
	if err := validation.ValidateLength("bank account info", accountInfo, 0, validation.MaxAccountInfoLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	payout, err := s.repo.Create(ctx, actor.ID, amount, accountInfo)
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		return nil, apperror.ErrAccountNotFound
	case errors.Is(err, repository.ErrInsufficientFunds):
		return nil, apperror.New(apperror.ErrCodeInsufficientFunds, "balance does not cover the requested amount")
	case err != nil:
		return nil, err
	}
	return payout, nil
}

// Resolve completes or rejects a pending payout request. Rejection
// returns the reserved amount to the florist's balance in the same
// transaction.
func (s *PayoutService) Resolve(ctx context.Context, payoutID uuid.UUID, decision string, adminComment *string) (*models.PayoutRequest, error) {
	var newStatus string
	switch decision {
	case models.DecisionApproved:
		newStatus = models.PayoutStatusCompleted
	case models.DecisionRejected:
		newStatus = models.PayoutStatusRejected
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "decision must be APPROVED or REJECTED")
	}

	payout, err := s.repo.Resolve(ctx, payoutID, newStatus, adminComment)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperror.ErrPayoutNotFound
	case errors.Is(err, repository.ErrAlreadyResolved):
		return nil, apperror.New(apperror.ErrCodeConflict, "payout request was already resolved")
	case err != nil:
		return nil, err
	}

	notificationType := models.NotificationPayoutCompleted
	message := fmt.Sprintf("Your payout of %d points was completed", payout.Amount)
	if newStatus == models.PayoutStatusRejected {
		notificationType = models.NotificationPayoutRejected
		message = fmt.Sprintf("Your payout of %d points was rejected, the amount was returned to your balance", payout.Amount)
	}
	s.notifier.Notify(models.Notification{
		RecipientID:   payout.FloristID,
		RecipientKind: models.AccountKindFlorist,
		Type:          notificationType,
		Message:       message,
	})

	return payout, nil
}

func (s *PayoutService) ListMine(ctx context.Context, actor models.Actor, limit, offset int) ([]models.PayoutRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByFlorist(ctx, actor.ID, limit, offset)
}

func (s *PayoutService) ListPending(ctx context.Context) ([]models.PayoutRequest, error) {
	return s.repo.ListPending(ctx)
}
