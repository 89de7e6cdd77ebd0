package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/flastal/flastal-backend/internal/logger"
	"github.com/flastal/flastal-backend/internal/models"
	"github.com/flastal/flastal-backend/internal/pkg/apperror"
	"github.com/flastal/flastal-backend/internal/repository"
)

func init() {
	logger.Init("error")
}

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *mockNotificationRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID, kind string, limit, offset int) ([]models.Notification, error) {
	args := m.Called(ctx, recipientID, kind, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, recipientID uuid.UUID, kind string) (int64, error) {
	args := m.Called(ctx, recipientID, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	args := m.Called(ctx, id, recipientID)
	return args.Error(0)
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID, kind string) (int64, error) {
	args := m.Called(ctx, recipientID, kind)
	return args.Get(0).(int64), args.Error(1)
}

// recordingPusher collects pushed notifications for assertions.
type recordingPusher struct {
	mu     sync.Mutex
	pushed []models.Notification
}

func (p *recordingPusher) Push(recipientKind string, recipientID uuid.UUID, n *models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushed = append(p.pushed, *n)
}

func (p *recordingPusher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pushed)
}

func TestNotificationService_Notify_StoresThenPushes(t *testing.T) {
	repo := new(mockNotificationRepo)
	pusher := &recordingPusher{}
	svc := NewNotificationService(repo, pusher)

	recipientID := uuid.New()
	stored := &models.Notification{
		ID:            uuid.New(),
		RecipientID:   recipientID,
		RecipientKind: models.AccountKindUser,
		Type:          models.NotificationNewPledge,
	}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.RecipientID == recipientID && n.Type == models.NotificationNewPledge
	})).Return(stored, nil)

	svc.Notify(models.Notification{
		RecipientID:   recipientID,
		RecipientKind: models.AccountKindUser,
		Type:          models.NotificationNewPledge,
		Message:       "New pledge of 500 points",
	})

	assert.Eventually(t, func() bool { return pusher.count() == 1 }, time.Second, 10*time.Millisecond)
	repo.AssertExpectations(t)
}

func TestNotificationService_Notify_StoreFailureIsSwallowed(t *testing.T) {
	repo := new(mockNotificationRepo)
	pusher := &recordingPusher{}
	svc := NewNotificationService(repo, pusher)

	done := make(chan struct{})
	repo.On("Create", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(done) }).
		Return(nil, context.DeadlineExceeded)

	svc.Notify(models.Notification{RecipientID: uuid.New(), Type: models.NotificationNewPledge})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notification store was never attempted")
	}
	// Nothing reaches the pusher when persistence fails.
	assert.Never(t, func() bool { return pusher.count() > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestNotificationService_List_UsesFloristKind(t *testing.T) {
	repo := new(mockNotificationRepo)
	svc := NewNotificationService(repo, nil)

	actor := floristActor()
	repo.On("ListByRecipient", mock.Anything, actor.ID, models.AccountKindFlorist, 20, 0).
		Return([]models.Notification{}, nil)

	_, err := svc.List(context.Background(), actor, 0, 0)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestNotificationService_MarkRead_ScopedToRecipient(t *testing.T) {
	repo := new(mockNotificationRepo)
	svc := NewNotificationService(repo, nil)

	actor := fanActor()
	notificationID := uuid.New()
	repo.On("MarkRead", mock.Anything, notificationID, actor.ID).Return(repository.ErrNotFound)

	err := svc.MarkRead(context.Background(), actor, notificationID)

	assert.True(t, apperror.Is(err, apperror.ErrCodeNotFound))
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	repo := new(mockNotificationRepo)
	svc := NewNotificationService(repo, nil)

	actor := fanActor()
	repo.On("MarkAllRead", mock.Anything, actor.ID, models.AccountKindUser).Return(int64(3), nil)

	count, err := svc.MarkAllRead(context.Background(), actor)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
