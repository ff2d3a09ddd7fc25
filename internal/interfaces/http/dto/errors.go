package dto

import (
	"net/http"

	"github.com/sharadhiadiga/Elint/internal/domain/shared"
)

// Codes the HTTP layer produces itself. Domain errors with specific codes
// (ITEM_NOT_FOUND, ORDER_DELETED, ...) reach clients unchanged.
const (
	ErrCodeInternal    = "ERR_INTERNAL"
	ErrCodeConsistency = "ERR_CONSISTENCY"

	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	// ErrCodePayloadTooLarge is returned when a body exceeds the size limit
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConcurrencyConflict means the expected version was stale
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodeDuplicateRequest means the Idempotency-Key was already used
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus is the status for each code above
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:            http.StatusInternalServerError,
	ErrCodeConsistency:         http.StatusInternalServerError,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeInvalidInput:        http.StatusBadRequest,
	ErrCodeInvalidJSON:         http.StatusBadRequest,
	ErrCodePayloadTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeTokenInvalid:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,
	ErrCodeRateLimited:         http.StatusTooManyRequests,
}

// KindHTTPStatus is the status for domain errors whose code has no entry
// in ErrorCodeHTTPStatus. Domain validation failures are well-formed
// requests the ledger refuses, hence 422.
var KindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindNotFound:    http.StatusNotFound,
	shared.KindValidation:  http.StatusUnprocessableEntity,
	shared.KindConflict:    http.StatusConflict,
	shared.KindConsistency: http.StatusInternalServerError,
	shared.KindInternal:    http.StatusInternalServerError,
}

// StatusForDomainError picks the status for a domain error: its code first,
// then its kind
func StatusForDomainError(err *shared.DomainError) int {
	if status, ok := ErrorCodeHTTPStatus[NormalizeErrorCode(err.Code)]; ok {
		return status
	}
	if status, ok := KindHTTPStatus[err.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// genericCodes are the catch-all domain codes and their ERR_ forms
var genericCodes = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"DUPLICATE_REQUEST":    ErrCodeDuplicateRequest,
	"CONSISTENCY_ERROR":    ErrCodeConsistency,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode rewrites a catch-all domain code to its ERR_ form and
// returns every other code unchanged
func NormalizeErrorCode(code string) string {
	if c, ok := genericCodes[code]; ok {
		return c
	}
	return code
}
