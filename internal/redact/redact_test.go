package redact

import (
	"strings"
	"testing"
)

func TestRedactBearerToken(t *testing.T) {
	input := "Authorization: Bearer abc.def-ghi_123"
	got := Redact(input)
	if strings.Contains(got, "abc.def-ghi_123") {
		t.Error("Bearer token should be redacted")
	}
}

func TestRedactJWT(t *testing.T) {
	input := `{"detail":"token eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig expired"}`
	got := Redact(input)
	if strings.Contains(got, "eyJhbGciOiJIUzI1NiJ9") {
		t.Errorf("JWT should be redacted, got: %s", got)
	}
}

func TestRedactDSNPassword(t *testing.T) {
	input := "dial postgres://qa:hunter2@db:5432/quality failed"
	got := Redact(input)
	if strings.Contains(got, "hunter2") {
		t.Errorf("DSN password should be redacted, got: %s", got)
	}
}

func TestRedactGenericSecrets(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"access_token", `{"access_token": "s3cr3t"}`},
		{"token", "token: ghp_abcdef1234567890"},
		{"password", "host=db password=hunter2 dbname=q"},
		{"api-key", "api-key=mysecretvalue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Redact(tt.input)
			if !strings.Contains(got, "[REDACTED]") {
				t.Errorf("expected redaction for %q, got: %s", tt.name, got)
			}
		})
	}
}

func TestRedactPreservesNonSecrets(t *testing.T) {
	input := `{"detail":"criteria_id 4 does not exist"}`
	got := Redact(input)
	if got != input {
		t.Errorf("non-secret text was modified: %s", got)
	}
}
