package dto

import "time"

// Response represents a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
	// CheckIn is set for ERR_ALREADY_CHECKED_IN
	CheckIn *AlreadyCheckedInDetail `json:"check_in,omitempty"`
}

// ValidationDetail describes one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AlreadyCheckedInDetail tells the front desk when the earlier scan happened
type AlreadyCheckedInDetail struct {
	RegisteredAt time.Time `json:"registered_at"`
	MemberID     string    `json:"member_id"`
	MemberCode   string    `json:"member_code"`
	MemberName   string    `json:"member_name"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithRequestID creates an error response carrying the request ID
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	resp := NewErrorResponse(code, message)
	resp.Error.RequestID = requestID
	return resp
}

// NewValidationErrorResponse creates a 400 response body listing the rejected fields
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	resp := NewErrorResponseWithRequestID(ErrCodeValidation, message, requestID)
	resp.Error.Details = details
	return resp
}

// IDRequest represents a request with an ID path parameter
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// SweepRequest holds the query parameters of a manual sweep trigger
type SweepRequest struct {
	Manual bool `form:"manual"`
}

// SweepAccepted acknowledges a sweep started in the background
type SweepAccepted struct {
	Manual    bool      `json:"manual"`
	StartedAt time.Time `json:"started_at"`
}
