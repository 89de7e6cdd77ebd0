package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/flastal/flastal-backend/internal/models"
	"github.com/flastal/flastal-backend/internal/pkg/apperror"
	"github.com/flastal/flastal-backend/internal/repository"
)

type OfferRepo interface {
	Create(ctx context.Context, projectID, floristID, plannerID uuid.UUID) (*models.Offer, error)
	Respond(ctx context.Context, offerID, floristID uuid.UUID, accept bool) (*repository.RespondResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	GetAcceptedByProject(ctx context.Context, projectID uuid.UUID) (*models.Offer, error)
	ListByFlorist(ctx context.Context, floristID uuid.UUID) ([]models.Offer, error)
}

// OfferService runs the planner-to-florist handshake. A planner offers
// their project to a shop; the shop accepts or declines; acceptance
// binds the project to exactly one florist and opens the chat channel.
type OfferService struct {
	repo     OfferRepo
	florists FloristRepo
	projects ProjectGetter
	notifier Notifier
}

func NewOfferService(repo OfferRepo, florists FloristRepo, projects ProjectGetter, notifier Notifier) *OfferService {
	return &OfferService{repo: repo, florists: florists, projects: projects, notifier: notifier}
}

// Create sends an offer to an approved florist.
func (s *OfferService) Create(ctx context.Context, actor models.Actor, projectID, floristID uuid.UUID) (*models.Offer, error) {
	florist, err := s.florists.GetByID(ctx, floristID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, apperror.New(apperror.ErrCodeNotFound, "florist not found")
	}
	if err != nil {
		return nil, err
	}
	if florist.Status != models.AccountStatusApproved {
		return nil, apperror.New(apperror.ErrCodeConflict, "florist is not accepting offers")
	}

	offer, err := s.repo.Create(ctx, projectID, floristID, actor.ID)
	switch {
	case errors.Is(err, repository.ErrProjectNotFound):
		return nil, apperror.ErrProjectNotFound
	case errors.Is(err, repository.ErrNotOwner):
		return nil, apperror.ErrForbidden
	case errors.Is(err, repository.ErrOfferExists):
		return nil, apperror.New(apperror.ErrCodeConflict, "this florist was already offered this project")
	case err != nil:
		return nil, err
	}

	s.notifier.Notify(models.Notification{
		RecipientID:   floristID,
		RecipientKind: models.AccountKindFlorist,
		Type:          models.NotificationNewOffer,
		Message:       "You received a new flower stand offer",
		ProjectID:     &offer.ProjectID,
	})
	return offer, nil
}

// Respond lets the florist accept or decline a pending offer.
func (s *OfferService) Respond(ctx context.Context, actor models.Actor, offerID uuid.UUID, accept bool) (*repository.RespondResult, error) {
	result, err := s.repo.Respond(ctx, offerID, actor.ID, accept)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperror.ErrOfferNotFound
	case errors.Is(err, repository.ErrNotOwner):
		return nil, apperror.ErrForbidden
	case errors.Is(err, repository.ErrOfferAlreadyAnswered):
		return nil, apperror.New(apperror.ErrCodeConflict, "offer was already answered")
	case errors.Is(err, repository.ErrProjectAlreadyBound):
		return nil, apperror.New(apperror.ErrCodeConflict, "project already has an accepted offer")
	case err != nil:
		return nil, err
	}

	notificationType := models.NotificationOfferRejected
	message := "Your offer was declined"
	if accept {
		notificationType = models.NotificationOfferAccepted
		message = "Your offer was accepted, the project chat is open"
	}
	s.notifier.Notify(models.Notification{
		RecipientID:   result.PlannerID,
		RecipientKind: models.AccountKindUser,
		Type:          notificationType,
		Message:       message,
		ProjectID:     &result.Offer.ProjectID,
	})

	return result, nil
}

func (s *OfferService) ListMine(ctx context.Context, actor models.Actor) ([]models.Offer, error) {
	return s.repo.ListByFlorist(ctx, actor.ID)
}

// GetAcceptedByProject returns the accepted offer of a project, visible
// to the planner, the bound florist and admins.
func (s *OfferService) GetAcceptedByProject(ctx context.Context, actor models.Actor, projectID uuid.UUID) (*models.Offer, error) {
	offer, err := s.repo.GetAcceptedByProject(ctx, projectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}

	if actor.IsAdmin() || offer.FloristID == actor.ID {
		return offer, nil
	}
	project, err := s.projects.GetByID(ctx, offer.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("load project for offer: %w", err)
	}
	if project.PlannerID != actor.ID {
		return nil, apperror.ErrForbidden
	}
	return offer, nil
}
