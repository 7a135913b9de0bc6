package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidDates is used when a membership period is inconsistent
	ErrCodeInvalidDates = "ERR_INVALID_DATES"
)

// Tenant error codes
const (
	// ErrCodeTenantRequired is used when the X-Tenant-ID header is missing or malformed
	ErrCodeTenantRequired = "ERR_TENANT_REQUIRED"
	// ErrCodeTenantSuspended is used when the organization is suspended
	ErrCodeTenantSuspended = "ERR_TENANT_SUSPENDED"
	// ErrCodeForbidden is used when the caller lacks access
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeAlreadyCheckedIn is used when the member already checked in today
	ErrCodeAlreadyCheckedIn = "ERR_ALREADY_CHECKED_IN"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeMemberInactive is used when an inactive member is used
	ErrCodeMemberInactive = "ERR_MEMBER_INACTIVE"
	// ErrCodeNoActiveMembership is used when a member has nothing to check in with
	ErrCodeNoActiveMembership = "ERR_NO_ACTIVE_MEMBERSHIP"
	// ErrCodeSweepInProgress is used when a sweep is already running
	ErrCodeSweepInProgress = "ERR_SWEEP_IN_PROGRESS"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidDates: http.StatusBadRequest,

	// Tenant errors
	ErrCodeTenantRequired:  http.StatusBadRequest,
	ErrCodeTenantSuspended: http.StatusForbidden,
	ErrCodeForbidden:       http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeConflict:         http.StatusConflict,
	ErrCodeAlreadyCheckedIn: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeMemberInactive:     http.StatusUnprocessableEntity,
	ErrCodeNoActiveMembership: http.StatusUnprocessableEntity,
	ErrCodeSweepInProgress:    http.StatusConflict,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"CONFLICT":             ErrCodeConflict,
	"FORBIDDEN":            ErrCodeForbidden,
	"INTERNAL_ERROR":       ErrCodeInternal,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_DATES":        ErrCodeInvalidDates,
	"INVALID_STATE":        ErrCodeInvalidState,
	"ALREADY_ACTIVE":       ErrCodeInvalidState,
	"ALREADY_INACTIVE":     ErrCodeInvalidState,
	"ALREADY_SUSPENDED":    ErrCodeInvalidState,
	"MEMBER_INACTIVE":      ErrCodeMemberInactive,
	"NO_ACTIVE_MEMBERSHIP": ErrCodeNoActiveMembership,
	"TENANT_SUSPENDED":     ErrCodeTenantSuspended,

	// Field-level rule violations raised by the domain constructors
	"INVALID_AMOUNT":         ErrCodeValidation,
	"INVALID_CODE":           ErrCodeValidation,
	"INVALID_DISCIPLINE":     ErrCodeValidation,
	"INVALID_MEMBER":         ErrCodeValidation,
	"INVALID_MESSAGING":      ErrCodeValidation,
	"INVALID_MONTHS":         ErrCodeValidation,
	"INVALID_NAME":           ErrCodeValidation,
	"INVALID_PAYMENT_METHOD": ErrCodeValidation,
	"INVALID_RECIPIENT":      ErrCodeValidation,
	"INVALID_TENANT":         ErrCodeValidation,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
