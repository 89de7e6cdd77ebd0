package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/flastal/flastal-backend/internal/goroutine"
	"github.com/flastal/flastal-backend/internal/logger"
	"github.com/flastal/flastal-backend/internal/models"
	"github.com/flastal/flastal-backend/internal/pkg/apperror"
	"github.com/flastal/flastal-backend/internal/repository"
)

// Notifier delivers a notification after the transaction that caused it
// has committed. Delivery is best effort: a failure is logged and never
// propagated back to the caller.
type Notifier interface {
	Notify(n models.Notification)
}

type NotificationRepo interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, kind string, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID, kind string) (int64, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID, kind string) (int64, error)
}

// Pusher sends a stored notification to a live connection, if any.
type Pusher interface {
	Push(recipientKind string, recipientID uuid.UUID, n *models.Notification)
}

// NotificationService persists notifications and pushes them to
// connected clients.
type NotificationService struct {
	repo   NotificationRepo
	pusher Pusher
}

func NewNotificationService(repo NotificationRepo, pusher Pusher) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher}
}

// Notify stores and pushes a notification in the background. It returns
// immediately; the caller's transaction has already committed and must
// not be held hostage by delivery.
func (s *NotificationService) Notify(n models.Notification) {
	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := s.repo.Create(ctx, &n)
		if err != nil {
			logger.Log.WithError(err).WithField("type", n.Type).Error("failed to store notification")
			return
		}
		if s.pusher != nil {
			s.pusher.Push(created.RecipientKind, created.RecipientID, created)
		}
	})
}

func (s *NotificationService) List(ctx context.Context, actor models.Actor, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByRecipient(ctx, actor.ID, recipientKind(actor), limit, offset)
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor models.Actor) (int64, error) {
	return s.repo.CountUnread(ctx, actor.ID, recipientKind(actor))
}

func (s *NotificationService) MarkRead(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	err := s.repo.MarkRead(ctx, id, actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.New(apperror.ErrCodeNotFound, "notification not found")
	}
	return err
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor models.Actor) (int64, error) {
	return s.repo.MarkAllRead(ctx, actor.ID, recipientKind(actor))
}

func recipientKind(actor models.Actor) string {
	if actor.Role == models.RoleFlorist {
		return models.AccountKindFlorist
	}
	return models.AccountKindUser
}
