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

type mockOfferRepo struct {
	mock.Mock
}

func (m *mockOfferRepo) Create(ctx context.Context, projectID, floristID, plannerID uuid.UUID) (*models.Offer, error) {
	args := m.Called(ctx, projectID, floristID, plannerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *mockOfferRepo) Respond(ctx context.Context, offerID, floristID uuid.UUID, accept bool) (*repository.RespondResult, error) {
	args := m.Called(ctx, offerID, floristID, accept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.RespondResult), args.Error(1)
}

func (m *mockOfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *mockOfferRepo) GetAcceptedByProject(ctx context.Context, projectID uuid.UUID) (*models.Offer, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *mockOfferRepo) ListByFlorist(ctx context.Context, floristID uuid.UUID) ([]models.Offer, error) {
	args := m.Called(ctx, floristID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offer), args.Error(1)
}

func TestOfferService_Create_NotifiesFlorist(t *testing.T) {
	repo := new(mockOfferRepo)
	florists := new(mockFloristRepo)
	notifier := &recordingNotifier{}
	svc := NewOfferService(repo, florists, new(mockProjectGetter), notifier)

	actor := fanActor()
	projectID := uuid.New()
	floristID := uuid.New()
	florists.On("GetByID", mock.Anything, floristID).Return(&models.Florist{
		ID: floristID, Status: models.AccountStatusApproved,
	}, nil)
	repo.On("Create", mock.Anything, projectID, floristID, actor.ID).Return(&models.Offer{
		ID: uuid.New(), ProjectID: projectID, FloristID: floristID, Status: models.OfferStatusPending,
	}, nil)

	offer, err := svc.Create(context.Background(), actor, projectID, floristID)

	assert.NoError(t, err)
	assert.Equal(t, models.OfferStatusPending, offer.Status)
	assert.Equal(t, []string{models.NotificationNewOffer}, notifier.types())
	assert.Equal(t, floristID, notifier.all()[0].RecipientID)
	repo.AssertExpectations(t)
}

func TestOfferService_Create_UnapprovedFloristRejected(t *testing.T) {
	repo := new(mockOfferRepo)
	florists := new(mockFloristRepo)
	svc := NewOfferService(repo, florists, new(mockProjectGetter), &recordingNotifier{})

	floristID := uuid.New()
	florists.On("GetByID", mock.Anything, floristID).Return(&models.Florist{
		ID: floristID, Status: models.AccountStatusPending,
	}, nil)

	_, err := svc.Create(context.Background(), fanActor(), uuid.New(), floristID)

	assert.True(t, apperror.Is(err, apperror.ErrCodeConflict))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOfferService_Create_DuplicateOffer(t *testing.T) {
	repo := new(mockOfferRepo)
	florists := new(mockFloristRepo)
	svc := NewOfferService(repo, florists, new(mockProjectGetter), &recordingNotifier{})

	florists.On("GetByID", mock.Anything, mock.Anything).Return(&models.Florist{
		ID: uuid.New(), Status: models.AccountStatusApproved,
	}, nil)
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, repository.ErrOfferExists)

	_, err := svc.Create(context.Background(), fanActor(), uuid.New(), uuid.New())

	assert.True(t, apperror.Is(err, apperror.ErrCodeConflict))
}

func TestOfferService_Respond_AcceptNotifiesPlannerWithChat(t *testing.T) {
	repo := new(mockOfferRepo)
	notifier := &recordingNotifier{}
	svc := NewOfferService(repo, new(mockFloristRepo), new(mockProjectGetter), notifier)

	actor := floristActor()
	offerID := uuid.New()
	plannerID := uuid.New()
	chatRoomID := uuid.New()
	repo.On("Respond", mock.Anything, offerID, actor.ID, true).Return(&repository.RespondResult{
		Offer:      models.Offer{ID: offerID, ProjectID: uuid.New(), FloristID: actor.ID, Status: models.OfferStatusAccepted},
		PlannerID:  plannerID,
		ChatRoomID: &chatRoomID,
	}, nil)

	result, err := svc.Respond(context.Background(), actor, offerID, true)

	assert.NoError(t, err)
	assert.NotNil(t, result.ChatRoomID)
	assert.Equal(t, []string{models.NotificationOfferAccepted}, notifier.types())
	assert.Equal(t, plannerID, notifier.all()[0].RecipientID)
}

func TestOfferService_Respond_DeclineNotifiesPlanner(t *testing.T) {
	repo := new(mockOfferRepo)
	notifier := &recordingNotifier{}
	svc := NewOfferService(repo, new(mockFloristRepo), new(mockProjectGetter), notifier)

	actor := floristActor()
	repo.On("Respond", mock.Anything, mock.Anything, actor.ID, false).Return(&repository.RespondResult{
		Offer:     models.Offer{ID: uuid.New(), ProjectID: uuid.New(), Status: models.OfferStatusRejected},
		PlannerID: uuid.New(),
	}, nil)

	result, err := svc.Respond(context.Background(), actor, uuid.New(), false)

	assert.NoError(t, err)
	assert.Nil(t, result.ChatRoomID)
	assert.Equal(t, []string{models.NotificationOfferRejected}, notifier.types())
}

func TestOfferService_Respond_AlreadyAnswered(t *testing.T) {
	repo := new(mockOfferRepo)
	svc := NewOfferService(repo, new(mockFloristRepo), new(mockProjectGetter), &recordingNotifier{})

	repo.On("Respond", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repository.ErrOfferAlreadyAnswered)

	_, err := svc.Respond(context.Background(), floristActor(), uuid.New(), true)

	assert.True(t, apperror.Is(err, apperror.ErrCodeConflict))
}

func TestOfferService_Respond_ProjectAlreadyBound(t *testing.T) {
	repo := new(mockOfferRepo)
	svc := NewOfferService(repo, new(mockFloristRepo), new(mockProjectGetter), &recordingNotifier{})

	repo.On("Respond", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repository.ErrProjectAlreadyBound)

	_, err := svc.Respond(context.Background(), floristActor(), uuid.New(), true)

	assert.True(t, apperror.Is(err, apperror.ErrCodeConflict))
}

func TestOfferService_GetAcceptedByProject_VisibleToBoundFlorist(t *testing.T) {
	repo := new(mockOfferRepo)
	svc := NewOfferService(repo, new(mockFloristRepo), new(mockProjectGetter), &recordingNotifier{})

	actor := floristActor()
	projectID := uuid.New()
	repo.On("GetAcceptedByProject", mock.Anything, projectID).Return(&models.Offer{
		ID: uuid.New(), ProjectID: projectID, FloristID: actor.ID, Status: models.OfferStatusAccepted,
	}, nil)

	offer, err := svc.GetAcceptedByProject(context.Background(), actor, projectID)

	assert.NoError(t, err)
	assert.Equal(t, actor.ID, offer.FloristID)
}

func TestOfferService_GetAcceptedByProject_HiddenFromStrangers(t *testing.T) {
	repo := new(mockOfferRepo)
	projects := new(mockProjectGetter)
	svc := NewOfferService(repo, new(mockFloristRepo), projects, &recordingNotifier{})

	projectID := uuid.New()
	repo.On("GetAcceptedByProject", mock.Anything, projectID).Return(&models.Offer{
		ID: uuid.New(), ProjectID: projectID, FloristID: uuid.New(),
	}, nil)
	projects.On("GetByID", mock.Anything, projectID).Return(&models.Project{
		ID: projectID, PlannerID: uuid.New(),
	}, nil)

	_, err := svc.GetAcceptedByProject(context.Background(), fanActor(), projectID)

	assert.True(t, apperror.Is(err, apperror.ErrCodeForbidden))
}
