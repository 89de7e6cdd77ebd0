package models

import (
	"time"

	"github.com/google/uuid"
)

// PointTransaction is the append-only audit trail of balance movements.
// AccountKind tells whether AccountID references a user or a florist.
type PointTransaction struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	AccountKind string     `db:"account_kind" json:"account_kind"`
	AccountID   uuid.UUID  `db:"account_id" json:"account_id"`
	ProjectID   *uuid.UUID `db:"project_id" json:"project_id,omitempty"`
	Type        string     `db:"type" json:"type"`
	Amount      int64      `db:"amount" json:"amount"`
	Description string     `db:"description" json:"description"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// PaymentEvent records a processed payment-gateway completion event.
// The primary key on EventID is what makes webhook delivery idempotent:
// a duplicate insert changes nothing and credits nothing.
type PaymentEvent struct {
	EventID   string    `db:"event_id" json:"event_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Points    int64     `db:"points" json:"points"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Notification is a post-commit message to an account. RecipientKind
// mirrors PointTransaction.AccountKind.
type Notification struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	RecipientID   uuid.UUID  `db:"recipient_id" json:"recipient_id"`
	RecipientKind string     `db:"recipient_kind" json:"recipient_kind"`
	Type          string     `db:"type" json:"type"`
	Message       string     `db:"message" json:"message"`
	ProjectID     *uuid.UUID `db:"project_id" json:"project_id,omitempty"`
	LinkURL       *string    `db:"link_url" json:"link_url,omitempty"`
	IsRead        bool       `db:"is_read" json:"is_read"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
