package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/flastal/flastal-backend/internal/models"
	"github.com/flastal/flastal-backend/internal/pkg/apperror"
	"github.com/flastal/flastal-backend/internal/repository"
)

type mockProjectRepo struct {
	mock.Mock
}

func (m *mockProjectRepo) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *mockProjectRepo) ListByPlanner(ctx context.Context, plannerID uuid.UUID) ([]models.Project, error) {
	args := m.Called(ctx, plannerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *mockProjectRepo) ListFundraising(ctx context.Context, limit, offset int) ([]models.Project, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *mockProjectRepo) Complete(ctx context.Context, id, plannerID uuid.UUID, comment string, imageURLs []string) (*models.Project, error) {
	args := m.Called(ctx, id, plannerID, comment, imageURLs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *mockProjectRepo) Cancel(ctx context.Context, id, plannerID uuid.UUID) (*repository.CancelResult, error) {
	args := m.Called(ctx, id, plannerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CancelResult), args.Error(1)
}

func validProjectInput() CreateProjectInput {
	return CreateProjectInput{
		Title:            "Flower stand for the anniversary live",
		Description:      "A big stand at the venue entrance.",
		TargetAmount:     50000,
		DeliveryAddress:  "1-2-3 Sakura, Shibuya, Tokyo",
		DeliveryDateTime: time.Now().Add(30 * 24 * time.Hour),
	}
}

func TestProjectService_Create_StartsPendingApproval(t *testing.T) {
	repo := new(mockProjectRepo)
	svc := NewProjectService(repo, &recordingNotifier{})

	actor := fanActor()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Project) bool {
		return p.PlannerID == actor.ID && p.TargetAmount == 50000
	})).Return(&models.Project{ID: uuid.New(), PlannerID: actor.ID, Status: models.ProjectStatusPendingApproval}, nil)

	project, err := svc.Create(context.Background(), actor, validProjectInput())

	assert.NoError(t, err)
	assert.Equal(t, models.ProjectStatusPendingApproval, project.Status)
	repo.AssertExpectations(t)
}

func TestProjectService_Create_RejectsPastDeliveryDate(t *testing.T) {
	repo := new(mockProjectRepo)
	svc := NewProjectService(repo, &recordingNotifier{})

	in := validProjectInput()
	in.DeliveryDateTime = time.Now().Add(-time.Hour)

	_, err := svc.Create(context.Background(), fanActor(), in)

	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProjectService_Create_RequiresDeliveryAddress(t *testing.T) {
	svc := NewProjectService(new(mockProjectRepo), &recordingNotifier{})

	in := validProjectInput()
	in.DeliveryAddress = ""

	_, err := svc.Create(context.Background(), fanActor(), in)

	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
}

func TestProjectService_Get_PendingHiddenFromStrangers(t *testing.T) {
	repo := new(mockProjectRepo)
	svc := NewProjectService(repo, &recordingNotifier{})

	projectID := uuid.New()
	repo.On("GetByID", mock.Anything, projectID).Return(&models.Project{
		ID:        projectID,
		PlannerID: uuid.New(),
		Status:    models.ProjectStatusPendingApproval,
	}, nil)

	_, err := svc.Get(context.Background(), fanActor(), projectID)

	// Hidden projects read as missing, not as forbidden.
	assert.True(t, apperror.Is(err, apperror.ErrCodeNotFound))
}

func TestProjectService_Get_PlannerSeesOwnPendingProject(t *testing.T) {
	repo := new(mockProjectRepo)
	svc := NewProjectService(repo, &recordingNotifier{})

	actor := fanActor()
	projectID := uuid.New()
	repo.On("GetByID", mock.Anything, projectID).Return(&models.Project{
		ID:        projectID,
		PlannerID: actor.ID,
		Status:    models.ProjectStatusPendingApproval,
	}, nil)

	project, err := svc.Get(context.Background(), actor, projectID)

	assert.NoError(t, err)
	assert.Equal(t, projectID, project.ID)
}

func TestProjectService_Get_AdminSeesEverything(t *testing.T) {
	repo := new(mockProjectRepo)
	svc := NewProjectService(repo, &recordingNotifier{})

	projectID := uuid.New()
	repo.On("GetByID", mock.Anything, projectID).Return(&models.Project{
		ID:        projectID,
		PlannerID: uuid.New(),
		Status:    models.ProjectStatusRejected,
	}, nil)

	_, err := svc.Get(context.Background(), models.Actor{ID: uuid.New(), Role: models.RoleAdmin}, projectID)

	assert.NoError(t, err)
}

func TestProjectService_Complete_OnlySuccessfulProjects(t *testing.T) {
	repo := new(mockProjectRepo)
	svc := NewProjectService(repo, &recordingNotifier{})

	repo.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repository.ErrProjectNotCancelable)

	_, err := svc.Complete(context.Background(), fanActor(), uuid.New(), CompleteProjectInput{Comment: "Delivered!"})

	assert.True(t, apperror.Is(err, apperror.ErrCodeConflict))
}

func TestProjectService_Cancel_NotifiesEveryRefundedPledger(t *testing.T) {
	repo := new(mockProjectRepo)
	notifier := &recordingNotifier{}
	svc := NewProjectService(repo, notifier)

	actor := fanActor()
	projectID := uuid.New()
	pledgerA := uuid.New()
	pledgerB := uuid.New()
	repo.On("Cancel", mock.Anything, projectID, actor.ID).Return(&repository.CancelResult{
		Project:       models.Project{ID: projectID, Title: "Stand for the final show", Status: models.ProjectStatusCanceled},
		RefundedCount: 2,
		TotalRefunded: 800,
		GuestVoided:   1,
		Refunded: []repository.RefundedPledger{
			{UserID: pledgerA, Amount: 500},
			{UserID: pledgerB, Amount: 300},
		},
	}, nil)

	result, err := svc.Cancel(context.Background(), actor, projectID)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.RefundedCount)
	sent := notifier.all()
	assert.Len(t, sent, 2)
	assert.Equal(t, models.NotificationProjectCanceled, sent[0].Type)
	assert.Equal(t, pledgerA, sent[0].RecipientID)
	assert.Equal(t, pledgerB, sent[1].RecipientID)
	repo.AssertExpectations(t)
}

func TestProjectService_Cancel_NotOwner(t *testing.T) {
	repo := new(mockProjectRepo)
	svc := NewProjectService(repo, &recordingNotifier{})

	repo.On("Cancel", mock.Anything, mock.Anything, mock.Anything).Return(nil, repository.ErrNotOwner)

	_, err := svc.Cancel(context.Background(), fanActor(), uuid.New())

	assert.True(t, apperror.Is(err, apperror.ErrCodeForbidden))
}

func TestProjectService_Cancel_TooLateAfterSettlement(t *testing.T) {
	repo := new(mockProjectRepo)
	notifier := &recordingNotifier{}
	svc := NewProjectService(repo, notifier)

	repo.On("Cancel", mock.Anything, mock.Anything, mock.Anything).Return(nil, repository.ErrProjectNotCancelable)

	_, err := svc.Cancel(context.Background(), fanActor(), uuid.New())

	assert.True(t, apperror.Is(err, apperror.ErrCodeConflict))
	assert.Empty(t, notifier.all())
}
