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

type PledgeRepo interface {
	Create(ctx context.Context, p repository.CreatePledgeParams) (*repository.CreatePledgeResult, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Pledge, error)
	SetTiers(ctx context.Context, projectID uuid.UUID, tiers []models.PledgeTier) ([]models.PledgeTier, error)
	ListTiers(ctx context.Context, projectID uuid.UUID) ([]models.PledgeTier, error)
}

type ProjectGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// PledgeService accepts pledges from fans and guests and manages the
// planner's support tiers.
type PledgeService struct {
	repo     PledgeRepo
	projects ProjectGetter
	notifier Notifier
}

func NewPledgeService(repo PledgeRepo, projects ProjectGetter, notifier Notifier) *PledgeService {
	return &PledgeService{repo: repo, projects: projects, notifier: notifier}
}

type CreatePledgeInput struct {
	ProjectID  uuid.UUID
	Actor      models.Actor
	GuestName  string
	GuestEmail string
	TierID     *uuid.UUID
	Amount     int64
	Comment    *string
}

// Create places a pledge. Registered fans are debited from their point
// balance; guests pledge with name and email only, their payment is
// captured by the gateway outside the ledger.
func (s *PledgeService) Create(ctx context.Context, in CreatePledgeInput) (*repository.CreatePledgeResult, error) {
	params := repository.CreatePledgeParams{
		ProjectID: in.ProjectID,
		TierID:    in.TierID,
		Amount:    in.Amount,
		Comment:   in.Comment,
	}

	if in.Actor.IsGuest() {
		if in.GuestName == "" {
			return nil, apperror.New(apperror.ErrCodeValidation, "guest name is required")
		}
		if err := validation.ValidateEmail(in.GuestEmail); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
		params.GuestName = &in.GuestName
		params.GuestEmail = &in.GuestEmail
	} else {
		id := in.Actor.ID
		params.UserID = &id
	}

	// A tier overrides the amount inside the transaction, so the bound
	// check only applies to free-amount pledges.
	if in.TierID == nil {
		if err := validation.ValidateAmount("pledge amount", in.Amount, validation.MinPledgeAmount); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}
	if in.Comment != nil {
		if err := validation.ValidateLength("comment", *in.Comment, 0, validation.MaxCommentLength); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}

	result, err := s.repo.Create(ctx, params)
	switch {
	case errors.Is(err, repository.ErrProjectNotFound):
		return nil, apperror.ErrProjectNotFound
	case errors.Is(err, repository.ErrProjectNotFunding):
		return nil, apperror.New(apperror.ErrCodeProjectClosed, "project is not accepting pledges")
	case errors.Is(err, repository.ErrTierNotFound):
		return nil, apperror.New(apperror.ErrCodeValidation, "pledge tier does not belong to this project")
	case errors.Is(err, repository.ErrInsufficientFunds):
		return nil, apperror.New(apperror.ErrCodeInsufficientFunds, "not enough points")
	case err != nil:
		return nil, err
	}

	s.notifier.Notify(models.Notification{
		RecipientID:   result.PlannerID,
		RecipientKind: models.AccountKindUser,
		Type:          models.NotificationNewPledge,
		Message:       fmt.Sprintf("New pledge of %d points for %q", result.Pledge.Amount, result.ProjectTitle),
		ProjectID:     &result.Pledge.ProjectID,
	})
	if result.GoalReached {
		s.notifier.Notify(models.Notification{
			RecipientID:   result.PlannerID,
			RecipientKind: models.AccountKindUser,
			Type:          models.NotificationGoalReached,
			Message:       fmt.Sprintf("%q reached its funding goal", result.ProjectTitle),
			ProjectID:     &result.Pledge.ProjectID,
		})
	}

	return result, nil
}

func (s *PledgeService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Pledge, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, apperror.ErrProjectNotFound
		}
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}

// SetTiers replaces the project's support tiers. Only the planner may
// do this, and only before the campaign closes.
func (s *PledgeService) SetTiers(ctx context.Context, actor models.Actor, projectID uuid.UUID, tiers []models.PledgeTier) ([]models.PledgeTier, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if errors.Is(err, repository.ErrProjectNotFound) {
		return nil, apperror.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	if project.PlannerID != actor.ID {
		return nil, apperror.ErrForbidden
	}
	if project.Status != models.ProjectStatusPendingApproval && project.Status != models.ProjectStatusFundraising {
		return nil, apperror.New(apperror.ErrCodeConflict, "tiers can no longer be changed")
	}

	for _, tier := range tiers {
		if err := validation.ValidateLength("tier title", tier.Title, 1, validation.MaxItemNameLength); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
		if err := validation.ValidateAmount("tier amount", tier.Amount, validation.MinPledgeAmount); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}

	return s.repo.SetTiers(ctx, projectID, tiers)
}

func (s *PledgeService) ListTiers(ctx context.Context, projectID uuid.UUID) ([]models.PledgeTier, error) {
	return s.repo.ListTiers(ctx, projectID)
}
