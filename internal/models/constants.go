package models

// Project statuses. PENDING_APPROVAL projects are invisible until an
// admin reviews them; CANCELED, COMPLETED and REJECTED are terminal.
const (
	ProjectStatusPendingApproval = "PENDING_APPROVAL"
	ProjectStatusFundraising     = "FUNDRAISING"
	ProjectStatusSuccessful      = "SUCCESSFUL"
	ProjectStatusCompleted       = "COMPLETED"
	ProjectStatusCanceled        = "CANCELED"
	ProjectStatusRejected        = "REJECTED"
)

// Offer statuses. PENDING may go to ACCEPTED or REJECTED, both terminal.
const (
	OfferStatusPending  = "PENDING"
	OfferStatusAccepted = "ACCEPTED"
	OfferStatusRejected = "REJECTED"
)

// Account review statuses (florists, venues, organizers).
const (
	AccountStatusPending  = "PENDING"
	AccountStatusApproved = "APPROVED"
	AccountStatusRejected = "REJECTED"
)

// Payout request statuses.
const (
	PayoutStatusPending   = "PENDING"
	PayoutStatusCompleted = "COMPLETED"
	PayoutStatusRejected  = "REJECTED"
)

// Admin review decisions.
const (
	DecisionApproved = "APPROVED"
	DecisionRejected = "REJECTED"
)

// Point transaction types, the audit trail of every balance movement.
const (
	TransactionTypePurchase     = "purchase"
	TransactionTypePledge       = "pledge"
	TransactionTypePledgeRefund = "pledge_refund"
	TransactionTypeSettlement   = "settlement"
	TransactionTypePayoutHold   = "payout_hold"
	TransactionTypePayoutRefund = "payout_refund"
)

// Account kinds referenced by point transactions.
const (
	AccountKindUser    = "user"
	AccountKindFlorist = "florist"
)

// Notification types dispatched after ledger transactions commit.
const (
	NotificationNewPledge         = "NEW_PLEDGE"
	NotificationGoalReached       = "GOAL_REACHED"
	NotificationProjectApproved   = "PROJECT_APPROVED"
	NotificationProjectRejected   = "PROJECT_REJECTED"
	NotificationProjectCanceled   = "PROJECT_CANCELED"
	NotificationNewOffer          = "NEW_OFFER"
	NotificationOfferAccepted     = "OFFER_ACCEPTED"
	NotificationOfferRejected     = "OFFER_REJECTED"
	NotificationQuotationReceived = "QUOTATION_RECEIVED"
	NotificationQuotationApproved = "QUOTATION_APPROVED"
	NotificationPayoutCompleted   = "PAYOUT_COMPLETED"
	NotificationPayoutRejected    = "PAYOUT_REJECTED"
)

// ValidProjectStatuses is the set of statuses a project may hold.
var ValidProjectStatuses = map[string]struct{}{
	ProjectStatusPendingApproval: {},
	ProjectStatusFundraising:     {},
	ProjectStatusSuccessful:      {},
	ProjectStatusCompleted:       {},
	ProjectStatusCanceled:        {},
	ProjectStatusRejected:        {},
}

// ValidAccountStatuses is the set of statuses a reviewed account may hold.
var ValidAccountStatuses = map[string]struct{}{
	AccountStatusPending:  {},
	AccountStatusApproved: {},
	AccountStatusRejected: {},
}
