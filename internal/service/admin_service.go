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

type ProjectReviewRepo interface {
	ListPending(ctx context.Context) ([]models.Project, error)
	Review(ctx context.Context, id uuid.UUID, newStatus string) (*models.Project, error)
}

type FloristAdminRepo interface {
	ListPending(ctx context.Context) ([]models.Florist, error)
	ListAll(ctx context.Context) ([]models.Florist, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Florist, error)
	UpdateFeeRate(ctx context.Context, id uuid.UUID, rate *float64) (*models.Florist, error)
}

type AdminRepo interface {
	ListPendingVenues(ctx context.Context) ([]models.Venue, error)
	ListPendingOrganizers(ctx context.Context) ([]models.Organizer, error)
	UpdateVenueStatus(ctx context.Context, id uuid.UUID, status string) (*models.Venue, error)
	UpdateOrganizerStatus(ctx context.Context, id uuid.UUID, status string) (*models.Organizer, error)
	ListCommissions(ctx context.Context, limit, offset int) ([]models.Commission, error)
	GetSettings(ctx context.Context, defaultFeeRate float64) (*models.SystemSettings, error)
	UpdateSettings(ctx context.Context, platformFeeRate float64) (*models.SystemSettings, error)
}

// Account types accepted by the review gate.
const (
	AccountTypeFlorist   = "florist"
	AccountTypeVenue     = "venue"
	AccountTypeOrganizer = "organizer"
)

// AdminService is the moderation surface: the review gate for projects
// and business accounts, fee rate management and the revenue report.
type AdminService struct {
	projects       ProjectReviewRepo
	florists       FloristAdminRepo
	admin          AdminRepo
	notifier       Notifier
	defaultFeeRate float64
}

func NewAdminService(projects ProjectReviewRepo, florists FloristAdminRepo, admin AdminRepo, notifier Notifier, defaultFeeRate float64) *AdminService {
	return &AdminService{
		projects:       projects,
		florists:       florists,
		admin:          admin,
		notifier:       notifier,
		defaultFeeRate: defaultFeeRate,
	}
}

func decisionToProjectStatus(decision string) (string, error) {
	switch decision {
	case models.DecisionApproved:
		return models.ProjectStatusFundraising, nil
	case models.DecisionRejected:
		return models.ProjectStatusRejected, nil
	default:
		return "", apperror.New(apperror.ErrCodeValidation, "decision must be APPROVED or REJECTED")
	}
}

// ReviewProject opens a project for fundraising or rejects it. Only
// projects still awaiting review can be decided.
func (s *AdminService) ReviewProject(ctx context.Context, projectID uuid.UUID, decision string) (*models.Project, error) {
	newStatus, err := decisionToProjectStatus(decision)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.Review(ctx, projectID, newStatus)
	switch {
	case errors.Is(err, repository.ErrProjectNotFound):
		return nil, apperror.ErrProjectNotFound
	case errors.Is(err, repository.ErrProjectNotReviewable):
		return nil, apperror.New(apperror.ErrCodeConflict, "project is not awaiting review")
	case err != nil:
		return nil, err
	}

	notificationType := models.NotificationProjectApproved
	message := fmt.Sprintf("%q was approved and is now fundraising", project.Title)
	if newStatus == models.ProjectStatusRejected {
		notificationType = models.NotificationProjectRejected
		message = fmt.Sprintf("%q was rejected", project.Title)
	}
	s.notifier.Notify(models.Notification{
		RecipientID:   project.PlannerID,
		RecipientKind: models.AccountKindUser,
		Type:          notificationType,
		Message:       message,
		ProjectID:     &project.ID,
	})

	return project, nil
}

func (s *AdminService) ListPendingProjects(ctx context.Context) ([]models.Project, error) {
	return s.projects.ListPending(ctx)
}

// ReviewAccount decides a pending business account. The account type
// picks the table; an unknown type is a validation error, not a 500.
func (s *AdminService) ReviewAccount(ctx context.Context, accountType string, id uuid.UUID, decision string) (interface{}, error) {
	var status string
	switch decision {
	case models.DecisionApproved:
		status = models.AccountStatusApproved
	case models.DecisionRejected:
		status = models.AccountStatusRejected
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "decision must be APPROVED or REJECTED")
	}

	var (
		account interface{}
		err     error
	)
	switch accountType {
	case AccountTypeFlorist:
		account, err = s.florists.UpdateStatus(ctx, id, status)
	case AccountTypeVenue:
		account, err = s.admin.UpdateVenueStatus(ctx, id, status)
	case AccountTypeOrganizer:
		account, err = s.admin.UpdateOrganizerStatus(ctx, id, status)
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("unknown account type %q", accountType))
	}

	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrAccountNotFound) {
		return nil, apperror.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AdminService) ListPendingAccounts(ctx context.Context, accountType string) (interface{}, error) {
	switch accountType {
	case AccountTypeFlorist:
		return s.florists.ListPending(ctx)
	case AccountTypeVenue:
		return s.admin.ListPendingVenues(ctx)
	case AccountTypeOrganizer:
		return s.admin.ListPendingOrganizers(ctx)
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("unknown account type %q", accountType))
	}
}

// ListFlorists returns every florist regardless of status, for the fee
// override screen.
func (s *AdminService) ListFlorists(ctx context.Context) ([]models.Florist, error) {
	return s.florists.ListAll(ctx)
}

// SetFloristFeeRate sets or clears a per-florist commission override.
func (s *AdminService) SetFloristFeeRate(ctx context.Context, floristID uuid.UUID, rate *float64) (*models.Florist, error) {
	if rate != nil && (*rate < 0 || *rate >= 1) {
		return nil, apperror.New(apperror.ErrCodeValidation, "fee rate must be in [0, 1)")
	}

	florist, err := s.florists.UpdateFeeRate(ctx, floristID, rate)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, apperror.ErrAccountNotFound
	}
	return florist, err
}

func (s *AdminService) GetSettings(ctx context.Context) (*models.SystemSettings, error) {
	return s.admin.GetSettings(ctx, s.defaultFeeRate)
}

// UpdateSettings changes the platform-wide commission rate. Florist
// overrides still win over it.
func (s *AdminService) UpdateSettings(ctx context.Context, platformFeeRate float64) (*models.SystemSettings, error) {
	if platformFeeRate < 0 || platformFeeRate >= 1 {
		return nil, apperror.New(apperror.ErrCodeValidation, "fee rate must be in [0, 1)")
	}
	return s.admin.UpdateSettings(ctx, platformFeeRate)
}

// ListCommissions returns the platform revenue report.
func (s *AdminService) ListCommissions(ctx context.Context, limit, offset int) ([]models.Commission, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.admin.ListCommissions(ctx, limit, offset)
}
