package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
}

func TestAppError_ProtocolViolation_Success(t *testing.T) {
	err := ProtocolViolation("OnReceive", "already subscribed")
	if err.Code != ErrCodeProtocolViolation {
		t.Errorf("expected PROTOCOL_VIOLATION, got %s", err.Code)
	}
	if err.Details["operation"] != "OnReceive" {
		t.Errorf("expected operation=OnReceive, got %v", err.Details["operation"])
	}
	if !strings.Contains(err.Message, "already subscribed") {
		t.Errorf("expected reason in message, got %q", err.Message)
	}
	if err.Retryable {
		t.Error("protocol violations should not be retryable")
	}
}

func TestAppError_NotFound_Success(t *testing.T) {
	err := NotFound("channel", "prices")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Details["resource"] != "channel" {
		t.Errorf("expected resource=channel, got %v", err.Details["resource"])
	}
	if err.Details["id"] != "prices" {
		t.Errorf("expected id=prices, got %v", err.Details["id"])
	}
}

func TestAppError_NotFound_EmptyID(t *testing.T) {
	err := NotFound("channel", "")
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
}

func TestAppError_Internal_Success(t *testing.T) {
	cause := fmt.Errorf("db down")
	err := Internal(cause)
	if err.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", err.Code)
	}
	if err.Cause != cause {
		t.Error("expected cause to be set")
	}
	if err.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", err.HTTPStatus)
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Unavailable("loop").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find cause")
	}
}

func TestAppError_Is_MatchesCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Closed("channel"))
	if !stderrors.Is(err, Closed("other")) {
		t.Error("expected errors.Is to match on code")
	}
	if stderrors.Is(err, Timeout("x")) {
		t.Error("expected errors.Is to reject a different code")
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := NotFound("channel", "1")
	err.WithDetails(map[string]any{"extra": "value"})
	if err.Details["extra"] != "value" {
		t.Error("expected extra detail")
	}
	if err.Details["resource"] != "channel" {
		t.Error("expected original detail to survive")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := Validation("bad")
	err.WithDetail("field", "name")
	if err.Details["field"] != "name" {
		t.Error("expected detail on nil map")
	}
}

func TestAppError_Error_Format(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad input", http.StatusBadRequest)
	if got := err.Error(); got != "INVALID_INPUT: bad input" {
		t.Errorf("unexpected format: %q", got)
	}
	err.WithCause(fmt.Errorf("boom"))
	if got := err.Error(); !strings.Contains(got, "(cause: boom)") {
		t.Errorf("expected cause in message: %q", got)
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   ErrorCode
		wantStatus int
		retryable  bool
	}{
		{"Closed", Closed("channel"), ErrCodeClosed, http.StatusGone, false},
		{"Unavailable", Unavailable("loop"), ErrCodeUnavailable, http.StatusServiceUnavailable, true},
		{"Timeout", Timeout("collect"), ErrCodeTimeout, http.StatusGatewayTimeout, true},
		{"Canceled", Canceled("collect"), ErrCodeCanceled, 499, false},
		{"LimitExceeded", LimitExceeded("channels", 4), ErrCodeLimitExceeded, http.StatusTooManyRequests, false},
		{"RateLimited", RateLimited("channel prices", 5), ErrCodeRateLimited, http.StatusTooManyRequests, true},
		{"InvalidInput", InvalidInput("name", "empty"), ErrCodeInvalidInput, http.StatusBadRequest, false},
		{"MissingField", MissingField("name"), ErrCodeMissingField, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.HTTPStatus)
			}
			if tt.err.Retryable != tt.retryable {
				t.Errorf("expected retryable=%v, got %v", tt.retryable, tt.err.Retryable)
			}
		})
	}
}

func TestFromContext_Table(t *testing.T) {
	plain := fmt.Errorf("plain")
	tests := []struct {
		name     string
		in       error
		wantCode ErrorCode
		same     bool
	}{
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout, false},
		{"canceled", context.Canceled, ErrCodeCanceled, false},
		{"plain", plain, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromContext("collect", tt.in)
			if tt.same {
				if got != tt.in {
					t.Errorf("expected error to pass through, got %v", got)
				}
				return
			}
			appErr, ok := AsAppError(got)
			if !ok {
				t.Fatalf("expected AppError, got %T", got)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("expected %s, got %s", tt.wantCode, appErr.Code)
			}
			if !stderrors.Is(got, tt.in) {
				t.Error("expected the context error to remain in the chain")
			}
		})
	}
	if FromContext("collect", nil) != nil {
		t.Error("expected nil for nil input")
	}
}

func TestErrorCode_IsRetryableCode_Table(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrCodeUnavailable, true},
		{ErrCodeTimeout, true},
		{ErrCodeInternal, false},
		{ErrCodeProtocolViolation, false},
		{ErrCodeNotFound, false},
	}
	for _, tt := range tests {
		if got := IsRetryableCode(tt.code); got != tt.want {
			t.Errorf("IsRetryableCode(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestAppError_ToResponse_Success(t *testing.T) {
	err := NotFound("channel", "prices")
	resp := err.ToResponse()
	if resp.Error.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", resp.Error.Code)
	}
	if resp.Error.Details["id"] != "prices" {
		t.Error("expected details in response")
	}
}

func TestAppError_ToResponse_RetryableForBackoff(t *testing.T) {
	tests := []struct {
		err  *AppError
		want bool
	}{
		{RateLimited("channel prices", 5), true},
		{Unavailable("rx-loop"), true},
		{Timeout("loop.do"), true},
		{NotFound("channel", "prices"), false},
		{Internal(fmt.Errorf("boom")), false},
	}
	for _, tt := range tests {
		body := tt.err.ToResponse().Error
		if body.Retryable != tt.want {
			t.Errorf("%s: Retryable = %v, want %v", body.Code, body.Retryable, tt.want)
		}
		if body.Message == "" {
			t.Errorf("%s: empty message", body.Code)
		}
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", MissingField("name"))
	if !IsAppError(wrapped) {
		t.Error("expected IsAppError to be true")
	}
	appErr, ok := AsAppError(wrapped)
	if !ok || appErr.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %v", appErr)
	}
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("expected plain error not to convert")
	}
}

func TestAppError_ImplementsErrorInterface(t *testing.T) {
	var _ error = (*AppError)(nil)
}
