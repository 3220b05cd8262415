package errors

import (
	stderrors "errors"
)

// ErrorResponse is the JSON body of every failed relay request and of each
// failed item in a batch publish result.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the code clients switch on. Retryable is set for
// RATE_LIMITED, UNAVAILABLE and TIMEOUT so publishers know when to back off
// and try again.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse drops the cause and HTTP status, which stay server side.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:      e.Code,
			Message:   e.Message,
			Retryable: e.Retryable,
			Details:   e.Details,
		},
	}
}

// IsAppError reports whether err wraps an *AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError unwraps the first *AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
