package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Project is a flower-stand campaign. CollectedAmount always equals the
// sum of its non-refunded pledges; both are updated in the same
// transaction.
type Project struct {
	ID                  uuid.UUID      `db:"id" json:"id"`
	Title               string         `db:"title" json:"title"`
	Description         string         `db:"description" json:"description"`
	Status              string         `db:"status" json:"status"`
	TargetAmount        int64          `db:"target_amount" json:"target_amount"`
	CollectedAmount     int64          `db:"collected_amount" json:"collected_amount"`
	PlannerID           uuid.UUID      `db:"planner_id" json:"planner_id"`
	DeliveryAddress     string         `db:"delivery_address" json:"delivery_address"`
	DeliveryDateTime    time.Time      `db:"delivery_date_time" json:"delivery_date_time"`
	CompletionComment   *string        `db:"completion_comment" json:"completion_comment,omitempty"`
	CompletionImageURLs pq.StringArray `db:"completion_image_urls" json:"completion_image_urls"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}

// Pledge is an immutable commitment of points. Either UserID is set
// (registered pledger, ledger-debited) or GuestName/GuestEmail are set
// (guest, captured externally). Refunded pledges stay on record but no
// longer count toward the project total.
type Pledge struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ProjectID  uuid.UUID  `db:"project_id" json:"project_id"`
	UserID     *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	GuestName  *string    `db:"guest_name" json:"guest_name,omitempty"`
	GuestEmail *string    `db:"guest_email" json:"guest_email,omitempty"`
	TierID     *uuid.UUID `db:"tier_id" json:"tier_id,omitempty"`
	Amount     int64      `db:"amount" json:"amount"`
	Comment    *string    `db:"comment" json:"comment,omitempty"`
	Refunded   bool       `db:"refunded" json:"refunded"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// PledgeTier is a planner-defined support course with a fixed amount.
// When a pledge references a tier, the tier amount wins over the
// caller-supplied one.
type PledgeTier struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ProjectID   uuid.UUID `db:"project_id" json:"project_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Amount      int64     `db:"amount" json:"amount"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
