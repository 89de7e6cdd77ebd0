package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flastal/flastal-backend/internal/models"
	"github.com/flastal/flastal-backend/internal/pkg/apperror"
	"github.com/flastal/flastal-backend/internal/repository"
	"github.com/flastal/flastal-backend/internal/validation"
)

type ProjectRepo interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListByPlanner(ctx context.Context, plannerID uuid.UUID) ([]models.Project, error)
	ListFundraising(ctx context.Context, limit, offset int) ([]models.Project, error)
	Complete(ctx context.Context, id, plannerID uuid.UUID, comment string, imageURLs []string) (*models.Project, error)
	Cancel(ctx context.Context, id, plannerID uuid.UUID) (*repository.CancelResult, error)
}

// ProjectService covers the planner-facing project lifecycle. Admin
// review lives in AdminService.
type ProjectService struct {
	repo     ProjectRepo
	notifier Notifier
}

func NewProjectService(repo ProjectRepo, notifier Notifier) *ProjectService {
	return &ProjectService{repo: repo, notifier: notifier}
}

type CreateProjectInput struct {
	Title            string
	Description      string
	TargetAmount     int64
	DeliveryAddress  string
	DeliveryDateTime time.Time
}

// Create files a new project for admin review.
func (s *ProjectService) Create(ctx context.Context, actor models.Actor, in CreateProjectInput) (*models.Project, error) {
	if err := validation.ValidateLength("title", in.Title, validation.MinProjectTitleLength, validation.MaxProjectTitleLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("description", in.Description, 0, validation.MaxDescriptionLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateAmount("target amount", in.TargetAmount, validation.MinPledgeAmount); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if in.DeliveryAddress == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "delivery address is required")
	}
	if !in.DeliveryDateTime.After(time.Now()) {
		return nil, apperror.New(apperror.ErrCodeValidation, "delivery date must be in the future")
	}

	return s.repo.Create(ctx, &models.Project{
		Title:            in.Title,
		Description:      in.Description,
		TargetAmount:     in.TargetAmount,
		PlannerID:        actor.ID,
		DeliveryAddress:  in.DeliveryAddress,
		DeliveryDateTime: in.DeliveryDateTime,
	})
}

// Get returns a project. Projects awaiting review are visible only to
// their planner and admins.
func (s *ProjectService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrProjectNotFound) {
		return nil, apperror.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	hidden := project.Status == models.ProjectStatusPendingApproval || project.Status == models.ProjectStatusRejected
	if hidden && !actor.IsAdmin() && project.PlannerID != actor.ID {
		return nil, apperror.ErrProjectNotFound
	}
	return project, nil
}

func (s *ProjectService) ListFundraising(ctx context.Context, limit, offset int) ([]models.Project, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListFundraising(ctx, limit, offset)
}

func (s *ProjectService) ListMine(ctx context.Context, actor models.Actor) ([]models.Project, error) {
	return s.repo.ListByPlanner(ctx, actor.ID)
}

type CompleteProjectInput struct {
	Comment   string
	ImageURLs []string
}

// Complete records the delivery report and closes a successful project.
func (s *ProjectService) Complete(ctx context.Context, actor models.Actor, id uuid.UUID, in CompleteProjectInput) (*models.Project, error) {
	if err := validation.ValidateLength("completion comment", in.Comment, 0, validation.MaxDescriptionLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	project, err := s.repo.Complete(ctx, id, actor.ID, in.Comment, in.ImageURLs)
	switch {
	case errors.Is(err, repository.ErrProjectNotFound):
		return nil, apperror.ErrProjectNotFound
	case errors.Is(err, repository.ErrNotOwner):
		return nil, apperror.ErrForbidden
	case errors.Is(err, repository.ErrProjectNotCancelable):
		return nil, apperror.New(apperror.ErrCodeConflict, "only successful projects can be completed")
	case err != nil:
		return nil, err
	}
	return project, nil
}

// Cancel aborts a project and refunds every registered pledger in one
// transaction. Each refunded fan is notified after commit.
func (s *ProjectService) Cancel(ctx context.Context, actor models.Actor, id uuid.UUID) (*repository.CancelResult, error) {
	result, err := s.repo.Cancel(ctx, id, actor.ID)
	switch {
	case errors.Is(err, repository.ErrProjectNotFound):
		return nil, apperror.ErrProjectNotFound
	case errors.Is(err, repository.ErrNotOwner):
		return nil, apperror.ErrForbidden
	case errors.Is(err, repository.ErrProjectNotCancelable):
		return nil, apperror.New(apperror.ErrCodeConflict, "project can no longer be canceled")
	case err != nil:
		return nil, err
	}

	projectID := result.Project.ID
	for _, refunded := range result.Refunded {
		s.notifier.Notify(models.Notification{
			RecipientID:   refunded.UserID,
			RecipientKind: models.AccountKindUser,
			Type:          models.NotificationProjectCanceled,
			Message:       fmt.Sprintf("%q was canceled, %d points were returned to your balance", result.Project.Title, refunded.Amount),
			ProjectID:     &projectID,
		})
	}

	return result, nil
}
