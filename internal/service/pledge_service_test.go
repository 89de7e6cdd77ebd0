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

type mockPledgeRepo struct {
	mock.Mock
}

func (m *mockPledgeRepo) Create(ctx context.Context, p repository.CreatePledgeParams) (*repository.CreatePledgeResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CreatePledgeResult), args.Error(1)
}

func (m *mockPledgeRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Pledge, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Pledge), args.Error(1)
}

func (m *mockPledgeRepo) SetTiers(ctx context.Context, projectID uuid.UUID, tiers []models.PledgeTier) ([]models.PledgeTier, error) {
	args := m.Called(ctx, projectID, tiers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PledgeTier), args.Error(1)
}

func (m *mockPledgeRepo) ListTiers(ctx context.Context, projectID uuid.UUID) ([]models.PledgeTier, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PledgeTier), args.Error(1)
}

type mockProjectGetter struct {
	mock.Mock
}

func (m *mockProjectGetter) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func fanActor() models.Actor {
	return models.Actor{ID: uuid.New(), Role: models.RoleFan}
}

func guestActor() models.Actor {
	return models.Actor{Role: models.RoleGuest}
}

func TestPledgeService_Create_DebitsFanAndNotifiesPlanner(t *testing.T) {
	repo := new(mockPledgeRepo)
	projects := new(mockProjectGetter)
	notifier := &recordingNotifier{}
	svc := NewPledgeService(repo, projects, notifier)

	actor := fanActor()
	projectID := uuid.New()
	plannerID := uuid.New()
	result := &repository.CreatePledgeResult{
		Pledge:             models.Pledge{ID: uuid.New(), ProjectID: projectID, UserID: &actor.ID, Amount: 500},
		NewCollectedAmount: 500,
		PlannerID:          plannerID,
		ProjectTitle:       "Stand for the final show",
	}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p repository.CreatePledgeParams) bool {
		return p.UserID != nil && *p.UserID == actor.ID && p.GuestName == nil
	})).Return(result, nil)

	got, err := svc.Create(context.Background(), CreatePledgeInput{
		ProjectID: projectID,
		Actor:     actor,
		Amount:    500,
	})

	assert.NoError(t, err)
	assert.Equal(t, result, got)
	assert.Equal(t, []string{models.NotificationNewPledge}, notifier.types())
	sent := notifier.all()
	assert.Equal(t, plannerID, sent[0].RecipientID)
	assert.Equal(t, models.AccountKindUser, sent[0].RecipientKind)
	repo.AssertExpectations(t)
}

func TestPledgeService_Create_GoalReachedNotifiesTwice(t *testing.T) {
	repo := new(mockPledgeRepo)
	notifier := &recordingNotifier{}
	svc := NewPledgeService(repo, new(mockProjectGetter), notifier)

	actor := fanActor()
	repo.On("Create", mock.Anything, mock.Anything).Return(&repository.CreatePledgeResult{
		Pledge:      models.Pledge{ID: uuid.New(), ProjectID: uuid.New(), Amount: 10000},
		GoalReached: true,
		PlannerID:   uuid.New(),
	}, nil)

	_, err := svc.Create(context.Background(), CreatePledgeInput{ProjectID: uuid.New(), Actor: actor, Amount: 10000})

	assert.NoError(t, err)
	assert.Equal(t, []string{models.NotificationNewPledge, models.NotificationGoalReached}, notifier.types())
}

func TestPledgeService_Create_GuestRequiresName(t *testing.T) {
	repo := new(mockPledgeRepo)
	svc := NewPledgeService(repo, new(mockProjectGetter), &recordingNotifier{})

	_, err := svc.Create(context.Background(), CreatePledgeInput{
		ProjectID:  uuid.New(),
		Actor:      guestActor(),
		GuestEmail: "guest@example.com",
		Amount:     500,
	})

	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPledgeService_Create_GuestRequiresValidEmail(t *testing.T) {
	svc := NewPledgeService(new(mockPledgeRepo), new(mockProjectGetter), &recordingNotifier{})

	_, err := svc.Create(context.Background(), CreatePledgeInput{
		ProjectID: uuid.New(),
		Actor:     guestActor(),
		GuestName: "Aoi",
		GuestEmail: "not-an-email",
		Amount:    500,
	})

	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
}

func TestPledgeService_Create_GuestPassesNameAndEmailThrough(t *testing.T) {
	repo := new(mockPledgeRepo)
	svc := NewPledgeService(repo, new(mockProjectGetter), &recordingNotifier{})

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p repository.CreatePledgeParams) bool {
		return p.UserID == nil && p.GuestName != nil && *p.GuestName == "Aoi" &&
			p.GuestEmail != nil && *p.GuestEmail == "aoi@example.com"
	})).Return(&repository.CreatePledgeResult{
		Pledge:    models.Pledge{ID: uuid.New(), ProjectID: uuid.New(), Amount: 300},
		PlannerID: uuid.New(),
	}, nil)

	_, err := svc.Create(context.Background(), CreatePledgeInput{
		ProjectID:  uuid.New(),
		Actor:      guestActor(),
		GuestName:  "Aoi",
		GuestEmail: "aoi@example.com",
		Amount:     300,
	})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPledgeService_Create_BelowMinimumAmount(t *testing.T) {
	repo := new(mockPledgeRepo)
	svc := NewPledgeService(repo, new(mockProjectGetter), &recordingNotifier{})

	_, err := svc.Create(context.Background(), CreatePledgeInput{ProjectID: uuid.New(), Actor: fanActor(), Amount: 50})

	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPledgeService_Create_TierSkipsAmountBound(t *testing.T) {
	repo := new(mockPledgeRepo)
	svc := NewPledgeService(repo, new(mockProjectGetter), &recordingNotifier{})

	tierID := uuid.New()
	repo.On("Create", mock.Anything, mock.Anything).Return(&repository.CreatePledgeResult{
		Pledge:    models.Pledge{ID: uuid.New(), ProjectID: uuid.New(), TierID: &tierID, Amount: 3000},
		PlannerID: uuid.New(),
	}, nil)

	// The tier amount wins inside the transaction, so a zero here is fine.
	_, err := svc.Create(context.Background(), CreatePledgeInput{ProjectID: uuid.New(), Actor: fanActor(), TierID: &tierID})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPledgeService_Create_ProjectNotAcceptingPledges(t *testing.T) {
	repo := new(mockPledgeRepo)
	notifier := &recordingNotifier{}
	svc := NewPledgeService(repo, new(mockProjectGetter), notifier)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrProjectNotFunding)

	_, err := svc.Create(context.Background(), CreatePledgeInput{ProjectID: uuid.New(), Actor: fanActor(), Amount: 500})

	assert.True(t, apperror.Is(err, apperror.ErrCodeProjectClosed))
	assert.Empty(t, notifier.all())
}

func TestPledgeService_Create_InsufficientFunds(t *testing.T) {
	repo := new(mockPledgeRepo)
	svc := NewPledgeService(repo, new(mockProjectGetter), &recordingNotifier{})

	repo.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrInsufficientFunds)

	_, err := svc.Create(context.Background(), CreatePledgeInput{ProjectID: uuid.New(), Actor: fanActor(), Amount: 500})

	assert.True(t, apperror.Is(err, apperror.ErrCodeInsufficientFunds))
}

func TestPledgeService_Create_ForeignTierRejected(t *testing.T) {
	repo := new(mockPledgeRepo)
	svc := NewPledgeService(repo, new(mockProjectGetter), &recordingNotifier{})

	repo.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrTierNotFound)

	tierID := uuid.New()
	_, err := svc.Create(context.Background(), CreatePledgeInput{ProjectID: uuid.New(), Actor: fanActor(), TierID: &tierID})

	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
}

func TestPledgeService_SetTiers_OnlyPlanner(t *testing.T) {
	repo := new(mockPledgeRepo)
	projects := new(mockProjectGetter)
	svc := NewPledgeService(repo, projects, &recordingNotifier{})

	projectID := uuid.New()
	projects.On("GetByID", mock.Anything, projectID).Return(&models.Project{
		ID:        projectID,
		PlannerID: uuid.New(),
		Status:    models.ProjectStatusFundraising,
	}, nil)

	_, err := svc.SetTiers(context.Background(), fanActor(), projectID, []models.PledgeTier{{Title: "Silver", Amount: 1000}})

	assert.True(t, apperror.Is(err, apperror.ErrCodeForbidden))
	repo.AssertNotCalled(t, "SetTiers", mock.Anything, mock.Anything, mock.Anything)
}

func TestPledgeService_SetTiers_LockedAfterCampaignCloses(t *testing.T) {
	projects := new(mockProjectGetter)
	svc := NewPledgeService(new(mockPledgeRepo), projects, &recordingNotifier{})

	actor := fanActor()
	projectID := uuid.New()
	projects.On("GetByID", mock.Anything, projectID).Return(&models.Project{
		ID:        projectID,
		PlannerID: actor.ID,
		Status:    models.ProjectStatusSuccessful,
	}, nil)

	_, err := svc.SetTiers(context.Background(), actor, projectID, []models.PledgeTier{{Title: "Silver", Amount: 1000}})

	assert.True(t, apperror.Is(err, apperror.ErrCodeConflict))
}

func TestPledgeService_SetTiers_ValidatesTierAmount(t *testing.T) {
	projects := new(mockProjectGetter)
	svc := NewPledgeService(new(mockPledgeRepo), projects, &recordingNotifier{})

	actor := fanActor()
	projectID := uuid.New()
	projects.On("GetByID", mock.Anything, projectID).Return(&models.Project{
		ID:        projectID,
		PlannerID: actor.ID,
		Status:    models.ProjectStatusFundraising,
	}, nil)

	_, err := svc.SetTiers(context.Background(), actor, projectID, []models.PledgeTier{{Title: "Silver", Amount: 10}})

	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
}
