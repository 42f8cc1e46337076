package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fmuoria/career-coach/internal/apperr"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"valid", "Bearer abc.def", "abc.def", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"extra spaces", "  Bearer   abc  ", "abc", true},
		{"missing", "", "", false},
		{"basic scheme", "Basic dXNlcg==", "", false},
		{"no token", "Bearer", "", false},
		{"blank token", "Bearer    ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := BearerToken(tt.header)
			if ok != tt.ok || token != tt.token {
				t.Errorf("BearerToken(%q) = %q, %v; expected %q, %v", tt.header, token, ok, tt.token, tt.ok)
			}
		})
	}
}

func TestIdentityContext(t *testing.T) {
	if _, ok := IdentityFrom(context.Background()); ok {
		t.Error("Expected no identity on empty context")
	}

	ctx := WithIdentity(context.Background(), &Identity{SubjectID: "u1", Email: "a@b.c"})
	id, ok := IdentityFrom(ctx)
	if !ok || id.SubjectID != "u1" {
		t.Errorf("Expected identity u1, got %+v", id)
	}
}

func TestClaimEmail(t *testing.T) {
	tests := []struct {
		name     string
		claims   map[string]interface{}
		expected string
	}{
		{"email", map[string]interface{}{"email": "a@b.c", "phone_number": "+1"}, "a@b.c"},
		{"phone fallback", map[string]interface{}{"phone_number": "+254700000000"}, "+254700000000"},
		{"empty email falls back", map[string]interface{}{"email": "", "phone_number": "+1"}, "+1"},
		{"nothing", map[string]interface{}{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := claimEmail(tt.claims); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestStaticVerifier(t *testing.T) {
	v := &Static{Tokens: map[string]Identity{"good": {SubjectID: "u1"}}}

	id, err := v.Verify(context.Background(), "good")
	if err != nil || id.SubjectID != "u1" {
		t.Errorf("Expected u1, got %+v, %v", id, err)
	}
	if _, err := v.Verify(context.Background(), "bad"); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("Expected Unauthorized, got %v", err)
	}

	v.Err = errors.New("certificate fetch failed")
	if _, err := v.Verify(context.Background(), "good"); !apperr.Is(err, apperr.KindInternal) {
		t.Errorf("Expected Internal, got %v", err)
	}
}

func TestLoadCredentials(t *testing.T) {
	if got, err := LoadCredentials(`{"type":"service_account"}`, "ignored.json"); err != nil || string(got) != `{"type":"service_account"}` {
		t.Errorf("Expected inline credentials, got %q, %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "key.json")
	if err := os.WriteFile(path, []byte(`{"from":"file"}`), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if got, err := LoadCredentials("", path); err != nil || string(got) != `{"from":"file"}` {
		t.Errorf("Expected file credentials, got %q, %v", got, err)
	}

	if _, err := LoadCredentials("", ""); err == nil {
		t.Error("Expected error without credentials")
	}
	if _, err := LoadCredentials("", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestNewFirebaseRejectsBadCredentials(t *testing.T) {
	if _, err := NewFirebase(context.Background(), []byte("not json")); err == nil {
		t.Error("Expected error for malformed credentials")
	}
}
