package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Request error codes
const (
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeInvalidID       = "ERR_INVALID_ID"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeLinkNotFound        = "ERR_LINK_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeDuplicateReference  = "ERR_DUPLICATE_REFERENCE"
)

// Ledger rule error codes
const (
	ErrCodeInvalidState       = "ERR_INVALID_STATE"
	ErrCodeDirectionMismatch  = "ERR_DIRECTION_MISMATCH"
	ErrCodeExceedsAvailable   = "ERR_EXCEEDS_AVAILABLE"
	ErrCodeExceedsRemaining   = "ERR_EXCEEDS_REMAINING"
	ErrCodeInvalidAmount      = "ERR_INVALID_AMOUNT"
	ErrCodeInvoicePosted      = "ERR_INVOICE_POSTED"
	ErrCodeNotSettled         = "ERR_NOT_SETTLED"
	ErrCodeAlreadyPosted      = "ERR_ALREADY_POSTED"
	ErrCodeCreditNotAvailable = "ERR_CREDIT_NOT_AVAILABLE"
	ErrCodeDataIntegrity      = "ERR_DATA_INTEGRITY_VIOLATION"
)

// Availability error codes
const (
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeInvalidID:       http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeLinkNotFound:        http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateReference:  http.StatusConflict,

	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeDirectionMismatch:  http.StatusUnprocessableEntity,
	ErrCodeExceedsAvailable:   http.StatusUnprocessableEntity,
	ErrCodeExceedsRemaining:   http.StatusUnprocessableEntity,
	ErrCodeInvalidAmount:      http.StatusUnprocessableEntity,
	ErrCodeInvoicePosted:      http.StatusConflict,
	ErrCodeNotSettled:         http.StatusUnprocessableEntity,
	ErrCodeAlreadyPosted:      http.StatusConflict,
	ErrCodeCreditNotAvailable: http.StatusUnprocessableEntity,
	ErrCodeDataIntegrity:      http.StatusInternalServerError,

	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted ERR_INVALID_* codes are field-level input errors and map to 400;
// anything else unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "ERR_INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// domainCodeAliases folds domain codes that share a meaning into one API code
var domainCodeAliases = map[string]string{
	"VALIDATION_ERROR": ErrCodeValidation,
	"INTERNAL_ERROR":   ErrCodeInternal,
	"VERSION_CONFLICT": ErrCodeConcurrencyConflict,
}

// NormalizeErrorCode converts a domain error code to the ERR_ form.
// Codes already in that form are returned as-is.
func NormalizeErrorCode(code string) string {
	if code == "" {
		return ErrCodeUnknown
	}
	if alias, ok := domainCodeAliases[code]; ok {
		return alias
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}
