package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindInvalidInput, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindAccessDenied, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindInvalidState, http.StatusConflict},
		{KindConflict, http.StatusConflict},
		{KindUpstreamFormat, http.StatusInternalServerError},
		{KindUpstreamFailure, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.HTTPStatus(); got != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, got)
			}
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	base := NotFound("Resume not found")
	wrapped := fmt.Errorf("start interview: %w", base)

	if KindOf(wrapped) != KindNotFound {
		t.Errorf("Expected NotFound, got %s", KindOf(wrapped))
	}
	if !Is(wrapped, KindNotFound) {
		t.Error("Expected Is to match wrapped kind")
	}
	if Message(wrapped) != "Resume not found" {
		t.Errorf("Expected message 'Resume not found', got '%s'", Message(wrapped))
	}
}

func TestPlainErrorIsInternal(t *testing.T) {
	err := errors.New("boom")
	if KindOf(err) != KindInternal {
		t.Errorf("Expected InternalError, got %s", KindOf(err))
	}
	if Message(err) == "boom" {
		t.Error("Internal error details must not leak into the client message")
	}
	if Is(nil, KindInternal) {
		t.Error("nil error must not match any kind")
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := UpstreamFailure("AI completion failed", cause)
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to reach the cause")
	}
}

func TestDefault(t *testing.T) {
	if Default(nil, KindUpstreamFailure, "x") != nil {
		t.Error("Expected nil for nil error")
	}

	classified := NotFound("Resume not found")
	if got := Default(classified, KindUpstreamFailure, "x"); got != error(classified) {
		t.Errorf("Expected classified error to pass through, got %v", got)
	}

	plain := errors.New("socket closed")
	got := Default(plain, KindUpstreamFailure, "AI completion failed")
	if KindOf(got) != KindUpstreamFailure {
		t.Errorf("Expected UpstreamFailure, got %s", KindOf(got))
	}
	if !errors.Is(got, plain) {
		t.Error("Expected cause to be kept")
	}
}
