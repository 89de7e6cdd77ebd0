package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/flastal/flastal-backend/internal/models"
	"github.com/flastal/flastal-backend/internal/pkg/apperror"
	"github.com/flastal/flastal-backend/internal/repository"
)

type mockProjectReviewRepo struct {
	mock.Mock
}

func (m *mockProjectReviewRepo) ListPending(ctx context.Context) ([]models.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *mockProjectReviewRepo) Review(ctx context.Context, id uuid.UUID, newStatus string) (*models.Project, error) {
	args := m.Called(ctx, id, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

type mockFloristAdminRepo struct {
	mock.Mock
}

func (m *mockFloristAdminRepo) ListPending(ctx context.Context) ([]models.Florist, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Florist), args.Error(1)
}

func (m *mockFloristAdminRepo) ListAll(ctx context.Context) ([]models.Florist, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Florist), args.Error(1)
}

func (m *mockFloristAdminRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Florist, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Florist), args.Error(1)
}

func (m *mockFloristAdminRepo) UpdateFeeRate(ctx context.Context, id uuid.UUID, rate *float64) (*models.Florist, error) {
	args := m.Called(ctx, id, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Florist), args.Error(1)
}

type mockAdminRepo struct {
	mock.Mock
}

func (m *mockAdminRepo) ListPendingVenues(ctx context.Context) ([]models.Venue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Venue), args.Error(1)
}

func (m *mockAdminRepo) ListPendingOrganizers(ctx context.Context) ([]models.Organizer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Organizer), args.Error(1)
}

func (m *mockAdminRepo) UpdateVenueStatus(ctx context.Context, id uuid.UUID, status string) (*models.Venue, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venue), args.Error(1)
}

func (m *mockAdminRepo) UpdateOrganizerStatus(ctx context.Context, id uuid.UUID, status string) (*models.Organizer, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organizer), args.Error(1)
}

func (m *mockAdminRepo) ListCommissions(ctx context.Context, limit, offset int) ([]models.Commission, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Commission), args.Error(1)
}

func (m *mockAdminRepo) GetSettings(ctx context.Context, defaultFeeRate float64) (*models.SystemSettings, error) {
	args := m.Called(ctx, defaultFeeRate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SystemSettings), args.Error(1)
}

func (m *mockAdminRepo) UpdateSettings(ctx context.Context, platformFeeRate float64) (*models.SystemSettings, error) {
	args := m.Called(ctx, platformFeeRate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SystemSettings), args.Error(1)
}

func newAdminService(projects *mockProjectReviewRepo, florists *mockFloristAdminRepo, admin *mockAdminRepo, notifier Notifier) *AdminService {
	return NewAdminService(projects, florists, admin, notifier, 0.10)
}

func TestAdminService_ReviewProject_ApproveOpensFundraising(t *testing.T) {
	projects := new(mockProjectReviewRepo)
	notifier := &recordingNotifier{}
	svc := newAdminService(projects, new(mockFloristAdminRepo), new(mockAdminRepo), notifier)

	projectID := uuid.New()
	plannerID := uuid.New()
	projects.On("Review", mock.Anything, projectID, models.ProjectStatusFundraising).Return(&models.Project{
		ID: projectID, PlannerID: plannerID, Title: "Stand for the final show", Status: models.ProjectStatusFundraising,
	}, nil)

	project, err := svc.ReviewProject(context.Background(), projectID, models.DecisionApproved)

	assert.NoError(t, err)
	assert.Equal(t, models.ProjectStatusFundraising, project.Status)
	assert.Equal(t, []string{models.NotificationProjectApproved}, notifier.types())
	assert.Equal(t, plannerID, notifier.all()[0].RecipientID)
	projects.AssertExpectations(t)
}

func TestAdminService_ReviewProject_RejectNotifiesPlanner(t *testing.T) {
	projects := new(mockProjectReviewRepo)
	notifier := &recordingNotifier{}
	svc := newAdminService(projects, new(mockFloristAdminRepo), new(mockAdminRepo), notifier)

	projectID := uuid.New()
	projects.On("Review", mock.Anything, projectID, models.ProjectStatusRejected).Return(&models.Project{
		ID: projectID, PlannerID: uuid.New(), Status: models.ProjectStatusRejected,
	}, nil)

	_, err := svc.ReviewProject(context.Background(), projectID, models.DecisionRejected)

	assert.NoError(t, err)
	assert.Equal(t, []string{models.NotificationProjectRejected}, notifier.types())
}

func TestAdminService_ReviewProject_InvalidDecision(t *testing.T) {
	projects := new(mockProjectReviewRepo)
	svc := newAdminService(projects, new(mockFloristAdminRepo), new(mockAdminRepo), &recordingNotifier{})

	_, err := svc.ReviewProject(context.Background(), uuid.New(), "MAYBE")

	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
	projects.AssertNotCalled(t, "Review", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminService_ReviewProject_NotAwaitingReview(t *testing.T) {
	projects := new(mockProjectReviewRepo)
	notifier := &recordingNotifier{}
	svc := newAdminService(projects, new(mockFloristAdminRepo), new(mockAdminRepo), notifier)

	projects.On("Review", mock.Anything, mock.Anything, mock.Anything).Return(nil, repository.ErrProjectNotReviewable)

	_, err := svc.ReviewProject(context.Background(), uuid.New(), models.DecisionApproved)

	assert.True(t, apperror.Is(err, apperror.ErrCodeConflict))
	assert.Empty(t, notifier.all())
}

func TestAdminService_ReviewAccount_FloristApproval(t *testing.T) {
	florists := new(mockFloristAdminRepo)
	svc := newAdminService(new(mockProjectReviewRepo), florists, new(mockAdminRepo), &recordingNotifier{})

	floristID := uuid.New()
	florists.On("UpdateStatus", mock.Anything, floristID, models.AccountStatusApproved).Return(&models.Florist{
		ID: floristID, Status: models.AccountStatusApproved,
	}, nil)

	account, err := svc.ReviewAccount(context.Background(), AccountTypeFlorist, floristID, models.DecisionApproved)

	assert.NoError(t, err)
	florist, ok := account.(*models.Florist)
	assert.True(t, ok)
	assert.Equal(t, models.AccountStatusApproved, florist.Status)
	florists.AssertExpectations(t)
}

func TestAdminService_ReviewAccount_VenueRejection(t *testing.T) {
	admin := new(mockAdminRepo)
	svc := newAdminService(new(mockProjectReviewRepo), new(mockFloristAdminRepo), admin, &recordingNotifier{})

	venueID := uuid.New()
	admin.On("UpdateVenueStatus", mock.Anything, venueID, models.AccountStatusRejected).Return(&models.Venue{
		ID: venueID, Status: models.AccountStatusRejected,
	}, nil)

	_, err := svc.ReviewAccount(context.Background(), AccountTypeVenue, venueID, models.DecisionRejected)

	assert.NoError(t, err)
	admin.AssertExpectations(t)
}

func TestAdminService_ReviewAccount_UnknownType(t *testing.T) {
	svc := newAdminService(new(mockProjectReviewRepo), new(mockFloristAdminRepo), new(mockAdminRepo), &recordingNotifier{})

	_, err := svc.ReviewAccount(context.Background(), "wholesaler", uuid.New(), models.DecisionApproved)

	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
}

func TestAdminService_SetFloristFeeRate_RejectsOutOfRange(t *testing.T) {
	florists := new(mockFloristAdminRepo)
	svc := newAdminService(new(mockProjectReviewRepo), florists, new(mockAdminRepo), &recordingNotifier{})

	rate := 1.0
	_, err := svc.SetFloristFeeRate(context.Background(), uuid.New(), &rate)

	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
	florists.AssertNotCalled(t, "UpdateFeeRate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminService_SetFloristFeeRate_NilClearsOverride(t *testing.T) {
	florists := new(mockFloristAdminRepo)
	svc := newAdminService(new(mockProjectReviewRepo), florists, new(mockAdminRepo), &recordingNotifier{})

	floristID := uuid.New()
	florists.On("UpdateFeeRate", mock.Anything, floristID, (*float64)(nil)).Return(&models.Florist{ID: floristID}, nil)

	florist, err := svc.SetFloristFeeRate(context.Background(), floristID, nil)

	assert.NoError(t, err)
	assert.Nil(t, florist.CustomFeeRate)
	florists.AssertExpectations(t)
}

func TestAdminService_UpdateSettings_RejectsOutOfRange(t *testing.T) {
	admin := new(mockAdminRepo)
	svc := newAdminService(new(mockProjectReviewRepo), new(mockFloristAdminRepo), admin, &recordingNotifier{})

	_, err := svc.UpdateSettings(context.Background(), -0.1)

	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
	admin.AssertNotCalled(t, "UpdateSettings", mock.Anything, mock.Anything)
}

func TestAdminService_GetSettings_SeedsDefaultRate(t *testing.T) {
	admin := new(mockAdminRepo)
	svc := newAdminService(new(mockProjectReviewRepo), new(mockFloristAdminRepo), admin, &recordingNotifier{})

	admin.On("GetSettings", mock.Anything, 0.10).Return(&models.SystemSettings{PlatformFeeRate: 0.10}, nil)

	settings, err := svc.GetSettings(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0.10, settings.PlatformFeeRate)
	admin.AssertExpectations(t)
}

func TestAdminService_ListCommissions_ClampsPagination(t *testing.T) {
	admin := new(mockAdminRepo)
	svc := newAdminService(new(mockProjectReviewRepo), new(mockFloristAdminRepo), admin, &recordingNotifier{})

	admin.On("ListCommissions", mock.Anything, 50, 0).Return([]models.Commission{}, nil)

	_, err := svc.ListCommissions(context.Background(), 0, -10)

	assert.NoError(t, err)
	admin.AssertExpectations(t)
}
