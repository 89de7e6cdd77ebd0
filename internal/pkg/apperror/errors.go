package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden         ErrorCode = "FORBIDDEN"
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeConflict          ErrorCode = "CONFLICT"
	ErrCodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	ErrCodeProjectClosed     ErrorCode = "PROJECT_NOT_ACCEPTING_PLEDGES"
	ErrCodeBelowMinimum      ErrorCode = "BELOW_MINIMUM"
	ErrCodeExternal          ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// AppError is the stable, machine-checkable error shape surfaced to
// API clients. Code identifies the business outcome; Cause keeps the
// underlying error for logs only.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeValidation, ErrCodeBelowMinimum:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeProjectClosed:
		return http.StatusConflict
	case ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	case ErrCodeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf returns the business code of err, or ErrCodeInternal for
// unclassified failures, which stay masked from clients.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool  { return Is(err, ErrCodeNotFound) }
func IsForbidden(err error) bool { return Is(err, ErrCodeForbidden) }
func IsConflict(err error) bool  { return Is(err, ErrCodeConflict) }

var (
	ErrProjectNotFound   = New(ErrCodeNotFound, "project not found")
	ErrPledgeNotFound    = New(ErrCodeNotFound, "pledge not found")
	ErrOfferNotFound     = New(ErrCodeNotFound, "offer not found")
	ErrQuotationNotFound = New(ErrCodeNotFound, "quotation not found")
	ErrPayoutNotFound    = New(ErrCodeNotFound, "payout request not found")
	ErrAccountNotFound   = New(ErrCodeNotFound, "account not found")
	ErrUnauthorized      = New(ErrCodeUnauthorized, "authentication required")
	ErrForbidden         = New(ErrCodeForbidden, "insufficient permissions")
)
