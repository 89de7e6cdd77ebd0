package repository

import "errors"

// Sentinel errors returned by repositories. Services translate these
// into apperror codes; repositories stay free of HTTP concerns.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrAccountNotFound   = errors.New("account not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrTierNotFound      = errors.New("pledge tier not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrProjectNotFunding    = errors.New("project is not accepting pledges")
	ErrProjectNotCancelable = errors.New("project can no longer be canceled")
	ErrProjectNotReviewable = errors.New("project is not awaiting review")
	ErrNotOwner             = errors.New("caller does not own this resource")

	ErrOfferExists          = errors.New("offer already exists for this florist")
	ErrOfferAlreadyAnswered = errors.New("offer has already been answered")
	ErrOfferNotAccepted     = errors.New("no accepted offer for this florist and project")
	ErrProjectAlreadyBound  = errors.New("project already has an accepted offer")

	ErrAlreadyApproved = errors.New("quotation already approved")
	ErrNotApproved     = errors.New("quotation is not approved")
	ErrAlreadyResolved = errors.New("payout request already resolved")
	ErrDuplicateEvent  = errors.New("payment event already processed")
)
