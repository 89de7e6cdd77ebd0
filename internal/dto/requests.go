package dto

import (
	"time"

	"github.com/google/uuid"
)

// RegisterFanRequest is the fan sign-up payload.
type RegisterFanRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	HandleName string `json:"handle_name" binding:"required"`
}

// RegisterFloristRequest is the flower shop sign-up payload. The
// account waits in PENDING until an admin approves it.
type RegisterFloristRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	ShopName     string `json:"shop_name" binding:"required"`
	PlatformName string `json:"platform_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateProjectRequest files a new flower stand project for review.
type CreateProjectRequest struct {
	Title            string    `json:"title" binding:"required"`
	Description      string    `json:"description"`
	TargetAmount     int64     `json:"target_amount" binding:"required"`
	DeliveryAddress  string    `json:"delivery_address" binding:"required"`
	DeliveryDateTime time.Time `json:"delivery_date_time" binding:"required"`
}

// CompleteProjectRequest closes a successful project with the delivery
// report.
type CompleteProjectRequest struct {
	Comment   string   `json:"comment"`
	ImageURLs []string `json:"image_urls"`
}

// CreatePledgeRequest places a pledge. Guest fields are required only
// for unauthenticated pledges; tier_id overrides amount when set.
type CreatePledgeRequest struct {
	Amount     int64      `json:"amount"`
	TierID     *uuid.UUID `json:"tier_id"`
	Comment    *string    `json:"comment"`
	GuestName  string     `json:"guest_name"`
	GuestEmail string     `json:"guest_email"`
}

type PledgeTierRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Amount      int64  `json:"amount" binding:"required"`
}

type SetTiersRequest struct {
	Tiers []PledgeTierRequest `json:"tiers" binding:"required"`
}

// CreateOfferRequest sends a project to a florist.
type CreateOfferRequest struct {
	FloristID uuid.UUID `json:"florist_id" binding:"required"`
}

// RespondOfferRequest accepts or declines a pending offer.
type RespondOfferRequest struct {
	Accept bool `json:"accept"`
}

type QuotationItemRequest struct {
	ItemName string `json:"item_name" binding:"required"`
	Amount   int64  `json:"amount" binding:"required"`
}

// SubmitQuotationRequest stores the florist's itemized price. The total
// is computed server-side from the items.
type SubmitQuotationRequest struct {
	Items []QuotationItemRequest `json:"items" binding:"required"`
}

// CreatePayoutRequest files a withdrawal of settled balance.
type CreatePayoutRequest struct {
	Amount      int64  `json:"amount" binding:"required"`
	AccountInfo string `json:"account_info" binding:"required"`
}

// ReviewRequest carries an admin decision, APPROVED or REJECTED.
type ReviewRequest struct {
	Decision string  `json:"decision" binding:"required"`
	Comment  *string `json:"comment"`
}

// SetFeeRateRequest sets or clears a florist's commission override.
type SetFeeRateRequest struct {
	FeeRate *float64 `json:"fee_rate"`
}

// UpdateSettingsRequest changes the platform-wide commission rate.
type UpdateSettingsRequest struct {
	PlatformFeeRate float64 `json:"platform_fee_rate" binding:"required"`
}

// PaymentWebhookRequest is the gateway's completion event. EventID is
// the idempotency key; redelivered events are acknowledged without a
// second credit.
type PaymentWebhookRequest struct {
	EventID string    `json:"event_id" binding:"required"`
	UserID  uuid.UUID `json:"user_id" binding:"required"`
	Points  int64     `json:"points" binding:"required"`
}
