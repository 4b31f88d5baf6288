package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  &Error{Message: "something failed"},
			want: "something failed",
		},
		{
			name: "with op",
			err:  &Error{Op: "lead.Create", Message: "something failed"},
			want: "lead.Create: something failed",
		},
		{
			name: "with op and cause",
			err:  &Error{Op: "lead.Create", Message: "something failed", Err: fmt.Errorf("boom")},
			want: "lead.Create: something failed: boom",
		},
		{
			name: "with cause only",
			err:  &Error{Message: "something failed", Err: fmt.Errorf("boom")},
			want: "something failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(cause, "lead.Create", CodeDatabase, "insert failed")

	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped error to match cause")
	}
}

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeMissingField, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeWebhookInvalid, http.StatusForbidden},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeProviderError, http.StatusBadGateway},
		{CodeCircuitOpen, http.StatusBadGateway},
		{CodeNotification, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := New(tt.code, "x").HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKindClassification(t *testing.T) {
	if !MissingField("email").IsUserError() {
		t.Error("missing field should be a user error")
	}
	if ProviderError(fmt.Errorf("x")).Kind != KindTransient {
		t.Error("provider error should be transient")
	}
	if NotificationError("mail.Send", fmt.Errorf("x")).Kind != KindSystem {
		t.Error("notification error should be a system error")
	}
}

func TestIsNotConfigured(t *testing.T) {
	if !IsNotConfigured(ErrNotConfigured) {
		t.Error("expected sentinel to match")
	}
	wrapped := Wrap(ErrNotConfigured, "ai.Complete", CodeNotConfigured, "no credential")
	if !IsNotConfigured(wrapped) {
		t.Error("expected wrapped not-configured to match")
	}
	if IsNotConfigured(fmt.Errorf("plain")) {
		t.Error("plain error should not match")
	}
}

func TestGetHTTPStatus_NonAppError(t *testing.T) {
	if got := GetHTTPStatus(fmt.Errorf("plain")); got != http.StatusInternalServerError {
		t.Errorf("expected 500 for plain error, got %d", got)
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(MissingField("email")); got != CodeMissingField {
		t.Errorf("GetCode() = %q, want %q", got, CodeMissingField)
	}
	if got := GetCode(fmt.Errorf("plain")); got != CodeInternal {
		t.Errorf("GetCode() = %q, want %q", got, CodeInternal)
	}
}
