package models

import (
	"time"

	"github.com/google/uuid"
)

// Offer binds one florist to one project. At most one ACCEPTED offer
// may exist per project (enforced by a partial unique index).
type Offer struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ProjectID   uuid.UUID  `db:"project_id" json:"project_id"`
	FloristID   uuid.UUID  `db:"florist_id" json:"florist_id"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	RespondedAt *time.Time `db:"responded_at" json:"responded_at,omitempty"`
}

// Quotation is the florist's itemized final price. TotalAmount is
// always computed from the items, never caller-supplied. IsApproved
// flips to true exactly once; that flip is the settlement trigger.
type Quotation struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ProjectID   uuid.UUID  `db:"project_id" json:"project_id"`
	FloristID   uuid.UUID  `db:"florist_id" json:"florist_id"`
	TotalAmount int64      `db:"total_amount" json:"total_amount"`
	IsApproved  bool       `db:"is_approved" json:"is_approved"`
	IsFinalized bool       `db:"is_finalized" json:"is_finalized"`
	ApprovedAt  *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	FinalizedAt *time.Time `db:"finalized_at" json:"finalized_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`

	Items []QuotationItem `db:"-" json:"items,omitempty"`
}

type QuotationItem struct {
	ID          uuid.UUID `db:"id" json:"id"`
	QuotationID uuid.UUID `db:"quotation_id" json:"quotation_id"`
	ItemName    string    `db:"item_name" json:"item_name"`
	Amount      int64     `db:"amount" json:"amount"`
	Position    int       `db:"position" json:"position"`
}

// Commission is the immutable audit record of platform revenue, created
// exactly once per approved quotation.
type Commission struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ProjectID uuid.UUID `db:"project_id" json:"project_id"`
	Amount    int64     `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PayoutRequest reserves florist balance the moment it is filed; a
// rejection credits the reservation back.
type PayoutRequest struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	FloristID    uuid.UUID  `db:"florist_id" json:"florist_id"`
	Amount       int64      `db:"amount" json:"amount"`
	Status       string     `db:"status" json:"status"`
	AccountInfo  string     `db:"account_info" json:"account_info"`
	AdminComment *string    `db:"admin_comment" json:"admin_comment,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time `db:"processed_at" json:"processed_at,omitempty"`
}

// ChatRoom is the private project channel opened when an offer is
// accepted. The ledger never reads it; message transport lives outside
// this service.
type ChatRoom struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OfferID   uuid.UUID `db:"offer_id" json:"offer_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SystemSettings holds the platform-wide defaults an admin may tune.
type SystemSettings struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PlatformFeeRate float64   `db:"platform_fee_rate" json:"platform_fee_rate"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
