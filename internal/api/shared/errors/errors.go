package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/feral-file/ff-observations/internal/domain"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeValidationFailed ErrorCode = "validation_failed"
	ErrCodeUnauthorized     ErrorCode = "unauthorized"
	ErrCodeForbidden        ErrorCode = "forbidden"

	// Ledger rejections (4xx), one per rejected-call condition
	ErrCodeInvalidParent          ErrorCode = "invalid_parent"
	ErrCodeUpdateRequiresParent   ErrorCode = "update_requires_parent"
	ErrCodeInvalidRecipient       ErrorCode = "invalid_recipient"
	ErrCodeNotAuthorized          ErrorCode = "not_authorized"
	ErrCodeNoTipsToClaim          ErrorCode = "no_tips_to_claim"
	ErrCodeTipsNotYetClaimable    ErrorCode = "tips_not_yet_claimable"
	ErrCodeTransferFailed         ErrorCode = "transfer_failed"
	ErrCodeInsufficientFunds      ErrorCode = "insufficient_funds"
	ErrCodeInvalidInput           ErrorCode = "invalid_input"
	ErrCodeCallerIdentityRequired ErrorCode = "caller_identity_required"

	// Server errors (5xx)
	ErrCodeInternalError ErrorCode = "internal_error"
	ErrCodeDatabaseError ErrorCode = "database_error"
	ErrCodeServiceError  ErrorCode = "service_error"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// StatusCode returns the HTTP status an error code is served with
func (e *APIError) StatusCode() int {
	switch e.Code {
	case ErrCodeBadRequest,
		ErrCodeValidationFailed,
		ErrCodeInvalidParent,
		ErrCodeUpdateRequiresParent,
		ErrCodeInvalidRecipient,
		ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized, ErrCodeCallerIdentityRequired:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeNotAuthorized:
		return http.StatusForbidden
	case ErrCodeNoTipsToClaim, ErrCodeTipsNotYetClaimable:
		return http.StatusConflict
	case ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	case ErrCodeTransferFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeServiceError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ledgerErrors maps each ledger rejection to its error code and message
var ledgerErrors = []struct {
	err     error
	code    ErrorCode
	message string
}{
	{domain.ErrUpdateRequiresParent, ErrCodeUpdateRequiresParent, "An update must name the observation it updates"},
	{domain.ErrInvalidParent, ErrCodeInvalidParent, "Parent observation does not exist on this artifact"},
	{domain.ErrInvalidRecipient, ErrCodeInvalidRecipient, "A tip requires a tip recipient"},
	{domain.ErrNotAuthorized, ErrCodeNotAuthorized, "Caller may not claim these tips"},
	{domain.ErrNoTipsToClaim, ErrCodeNoTipsToClaim, "No tips to claim"},
	{domain.ErrTipsNotYetClaimable, ErrCodeTipsNotYetClaimable, "Tips are not yet claimable by the sweep recipient"},
	{domain.ErrTransferFailed, ErrCodeTransferFailed, "Paying out the tips failed"},
	{domain.ErrInsufficientFunds, ErrCodeInsufficientFunds, "Caller cannot cover the attached value"},
	{domain.ErrInvalidInput, ErrCodeInvalidInput, "Invalid input"},
}

// FromLedgerError converts a rejected ledger call into an APIError.
// Unknown errors become internal errors.
func FromLedgerError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	for _, le := range ledgerErrors {
		if errors.Is(err, le.err) {
			return &APIError{Code: le.code, Message: le.message, Details: err.Error()}
		}
	}

	return NewInternalError("Ledger call failed", err.Error())
}

// Error constructors for common error types
func NewBadRequestError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewNotFoundError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewValidationError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Details: strings.Join(details, ", "),
	}
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewForbiddenError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeForbidden,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewCallerIdentityRequiredError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeCallerIdentityRequired,
		Message: "A JWT whose subject is the caller's address is required",
		Details: strings.Join(details, ", "),
	}
}

func NewInternalError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeInternalError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewDatabaseError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewServiceError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeServiceError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}
