package dto

import (
	"github.com/google/uuid"

	"github.com/flastal/flastal-backend/internal/models"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// AuthResponse returns the signed-in account with its tokens.
type AuthResponse struct {
	Account   interface{} `json:"account"`
	TokenPair interface{} `json:"tokens"`
}

// PledgeResponse reports a placed pledge together with the project's
// updated total.
type PledgeResponse struct {
	Pledge          models.Pledge `json:"pledge"`
	CollectedAmount int64         `json:"collected_amount"`
	GoalReached     bool          `json:"goal_reached"`
}

// CancelProjectResponse summarizes a cancellation: how many pledges
// were refunded to balances and how many guest pledges were voided for
// off-platform refunding.
type CancelProjectResponse struct {
	Project       models.Project `json:"project"`
	RefundedCount int            `json:"refunded_count"`
	TotalRefunded int64          `json:"total_refunded"`
	GuestVoided   int            `json:"guest_voided"`
}

// OfferResponse carries an offer and, on acceptance, the chat room it
// opened.
type OfferResponse struct {
	Offer      models.Offer `json:"offer"`
	ChatRoomID *uuid.UUID   `json:"chat_room_id,omitempty"`
}

// ApprovalResponse reports the settlement of an approved quotation.
type ApprovalResponse struct {
	Quotation  models.Quotation `json:"quotation"`
	NetPayout  int64            `json:"net_payout"`
	Commission int64            `json:"commission"`
	FeeRate    float64          `json:"fee_rate"`
}

// BalanceResponse is the caller's spendable balance.
type BalanceResponse struct {
	Balance int64 `json:"balance"`
}

// WebhookResponse acknowledges a gateway event.
type WebhookResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// UploadResponse returns the stored path of an uploaded image.
type UploadResponse struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// UnreadCountResponse is the number of unread notifications.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
