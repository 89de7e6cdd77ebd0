package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a fan account. Points is the spendable balance, mutated only
// by the ledger; TotalPledgedAmount accumulates lifetime support for
// supporter-level badges and never decreases.
type User struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	Email              string    `db:"email" json:"email"`
	PasswordHash       string    `db:"password_hash" json:"-"`
	HandleName         string    `db:"handle_name" json:"handle_name"`
	Role               Role      `db:"role" json:"role"`
	Points             int64     `db:"points" json:"points"`
	TotalPledgedAmount int64     `db:"total_pledged_amount" json:"total_pledged_amount"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// Florist is a flower-shop account. Balance holds settled, not yet
// paid-out points. CustomFeeRate overrides the platform commission
// rate when set.
type Florist struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	ShopName      string    `db:"shop_name" json:"shop_name"`
	PlatformName  string    `db:"platform_name" json:"platform_name"`
	Status        string    `db:"status" json:"status"`
	Balance       int64     `db:"balance" json:"balance"`
	CustomFeeRate *float64  `db:"custom_fee_rate" json:"custom_fee_rate,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Venue and Organizer are review-gated accounts with no ledger balance.
// They exist here only as resources of the admin approval gate.
type Venue struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	VenueName string    `db:"venue_name" json:"venue_name"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Organizer struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
