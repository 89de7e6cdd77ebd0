package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/flastal/flastal-backend/internal/models"
	"github.com/flastal/flastal-backend/internal/pkg/apperror"
	"github.com/flastal/flastal-backend/internal/repository"
)

type FloristDirectoryRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Florist, error)
	ListApproved(ctx context.Context) ([]models.Florist, error)
}

// FloristService is the public directory of approved flower shops.
type FloristService struct {
	repo FloristDirectoryRepo
}

func NewFloristService(repo FloristDirectoryRepo) *FloristService {
	return &FloristService{repo: repo}
}

func (s *FloristService) List(ctx context.Context) ([]models.Florist, error) {
	return s.repo.ListApproved(ctx)
}

// Get returns a florist profile. Unapproved shops are visible only to
// themselves and admins.
func (s *FloristService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Florist, error) {
	florist, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, apperror.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	if florist.Status != models.AccountStatusApproved && !actor.IsAdmin() && actor.ID != florist.ID {
		return nil, apperror.ErrAccountNotFound
	}
	return florist, nil
}
