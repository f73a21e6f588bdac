package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeUpload            = "UPLOAD_ERROR"
	ErrCodePersistence       = "PERSISTENCE_ERROR"
	ErrCodeFetch             = "FETCH_ERROR"
	ErrCodeMissingPaymentRef = "MISSING_PAYMENT_REFERENCE"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrMissingTrackingNumber   = NewDomainError(ErrCodeValidation, "Tracking number is required")
	ErrMissingPackagePhoto     = NewDomainError(ErrCodeValidation, "Package photo is required")
	ErrMissingRefundReason     = NewDomainError(ErrCodeValidation, "Refund reason is required")
	ErrMalformedItems          = NewDomainError(ErrCodeValidation, "Order items could not be parsed")
	ErrMalformedShippingOption = NewDomainError(ErrCodeValidation, "Shipping option could not be parsed")
	ErrInvalidState            = NewDomainError(ErrCodeInvalidState, "Order state does not permit this operation")
	ErrUploadFailed            = NewDomainError(ErrCodeUpload, "Package photo upload failed")
	ErrPersistenceFailed       = NewDomainError(ErrCodePersistence, "Order update failed")
	ErrAnalyticsUnavailable    = NewDomainError(ErrCodeFetch, "Failed to load analytics")
	ErrMissingPaymentReference = NewDomainError(ErrCodeMissingPaymentRef, "Order has no payment reference")
	ErrOrderNotFound           = NewDomainError(ErrCodeOrderNotFound, "Order not found")
)
