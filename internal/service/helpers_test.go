package service

import (
	"sync"

	"github.com/flastal/flastal-backend/internal/models"
)

// recordingNotifier captures notifications for assertions instead of
// delivering them.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (n *recordingNotifier) Notify(notification models.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func (n *recordingNotifier) all() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]models.Notification, len(n.sent))
	copy(out, n.sent)
	return out
}

func (n *recordingNotifier) types() []string {
	notifications := n.all()
	types := make([]string, 0, len(notifications))
	for _, notification := range notifications {
		types = append(types, notification.Type)
	}
	return types
}
