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

type QuotationRepo interface {
	Submit(ctx context.Context, projectID, floristID uuid.UUID, items []repository.SubmitItem) (*models.Quotation, error)
	Approve(ctx context.Context, quotationID, requesterID uuid.UUID) (*repository.ApprovalResult, error)
	Finalize(ctx context.Context, quotationID, floristID uuid.UUID) (*models.Quotation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error)
	GetByProject(ctx context.Context, projectID uuid.UUID) (*models.Quotation, error)
}

// QuotationService handles the itemized final price and its approval,
// which is the settlement event of the whole platform.
type QuotationService struct {
	repo     QuotationRepo
	projects ProjectGetter
	notifier Notifier
}

func NewQuotationService(repo QuotationRepo, projects ProjectGetter, notifier Notifier) *QuotationService {
	return &QuotationService{repo: repo, projects: projects, notifier: notifier}
}

type QuotationItemInput struct {
	ItemName string
	Amount   int64
}

// Submit stores a quotation draft for the project the florist is bound
// to. Resubmitting replaces any earlier unapproved draft.
func (s *QuotationService) Submit(ctx context.Context, actor models.Actor, projectID uuid.UUID, items []QuotationItemInput) (*models.Quotation, error) {
	if len(items) == 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "quotation needs at least one item")
	}
	submitItems := make([]repository.SubmitItem, 0, len(items))
	var total int64
	for _, item := range items {
		if err := validation.ValidateLength("item name", item.ItemName, 1, validation.MaxItemNameLength); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
		if err := validation.ValidateAmount("item amount", item.Amount, 1); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
		total += item.Amount
		if total > validation.MaxAmount {
			return nil, apperror.New(apperror.ErrCodeValidation, "quotation total is too large")
		}
		submitItems = append(submitItems, repository.SubmitItem{ItemName: item.ItemName, Amount: item.Amount})
	}

	quotation, err := s.repo.Submit(ctx, projectID, actor.ID, submitItems)
	switch {
	case errors.Is(err, repository.ErrOfferNotAccepted):
		return nil, apperror.New(apperror.ErrCodeConflict, "no accepted offer binds you to this project")
	case errors.Is(err, repository.ErrAlreadyApproved):
		return nil, apperror.New(apperror.ErrCodeConflict, "an approved quotation already exists")
	case err != nil:
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project for quotation: %w", err)
	}
	s.notifier.Notify(models.Notification{
		RecipientID:   project.PlannerID,
		RecipientKind: models.AccountKindUser,
		Type:          models.NotificationQuotationReceived,
		Message:       fmt.Sprintf("The florist quoted %d points for %q", quotation.TotalAmount, project.Title),
		ProjectID:     &projectID,
	})

	return quotation, nil
}

// Approve settles the quotation: the florist is credited the total net
// of commission, exactly once. A second approval attempt reports a
// conflict instead of moving money again.
func (s *QuotationService) Approve(ctx context.Context, actor models.Actor, quotationID uuid.UUID) (*repository.ApprovalResult, error) {
	result, err := s.repo.Approve(ctx, quotationID, actor.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperror.ErrQuotationNotFound
	case errors.Is(err, repository.ErrNotOwner):
		return nil, apperror.ErrForbidden
	case errors.Is(err, repository.ErrAlreadyApproved):
		return nil, apperror.New(apperror.ErrCodeConflict, "quotation is already approved")
	case errors.Is(err, repository.ErrInsufficientFunds):
		return nil, apperror.New(apperror.ErrCodeInsufficientFunds, "collected amount does not cover the quotation")
	case err != nil:
		return nil, err
	}

	s.notifier.Notify(models.Notification{
		RecipientID:   result.FloristID,
		RecipientKind: models.AccountKindFlorist,
		Type:          models.NotificationQuotationApproved,
		Message:       fmt.Sprintf("Quotation approved, %d points were credited to your balance", result.NetPayout),
		ProjectID:     &result.ProjectID,
	})

	return result, nil
}

// Finalize marks an approved quotation as delivered on the florist's
// side.
func (s *QuotationService) Finalize(ctx context.Context, actor models.Actor, quotationID uuid.UUID) (*models.Quotation, error) {
	quotation, err := s.repo.Finalize(ctx, quotationID, actor.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperror.ErrQuotationNotFound
	case errors.Is(err, repository.ErrNotOwner):
		return nil, apperror.ErrForbidden
	case errors.Is(err, repository.ErrNotApproved):
		return nil, apperror.New(apperror.ErrCodeConflict, "quotation is not approved yet")
	case err != nil:
		return nil, err
	}
	return quotation, nil
}

// GetByProject returns the project's quotation with items, visible to
// the planner, the bound florist and admins.
func (s *QuotationService) GetByProject(ctx context.Context, actor models.Actor, projectID uuid.UUID) (*models.Quotation, error) {
	quotation, err := s.repo.GetByProject(ctx, projectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.ErrQuotationNotFound
	}
	if err != nil {
		return nil, err
	}

	if actor.IsAdmin() || quotation.FloristID == actor.ID {
		return quotation, nil
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project for quotation: %w", err)
	}
	if project.PlannerID != actor.ID {
		return nil, apperror.ErrForbidden
	}
	return quotation, nil
}
