package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

type stubVerifier struct {
	tokens map[string]string // token -> email
}

func (s stubVerifier) Verify(_ context.Context, token string) (*ports.VerifiedToken, error) {
	email, ok := s.tokens[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &ports.VerifiedToken{UID: "uid-" + token, Email: email}, nil
}

var verifier = stubVerifier{tokens: map[string]string{
	"teacher": "TeacherOne@tdsb.on.ca",
	"student": "kid@student.tdsb.on.ca",
	"outside": "someone@gmail.com",
}}

func runAuth(t *testing.T, header, apiKeyHash string) (domain.Principal, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var (
		got    domain.Principal
		called bool
	)
	h := Authenticate(verifier, domain.DefaultEmailPolicy, apiKeyHash)(func(c echo.Context) error {
		called = true
		got, _ = domain.PrincipalFrom(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	return got, called, err
}

func errName(err error) string {
	if de, ok := domain.AsError(err); ok {
		return de.Name
	}
	return ""
}

func TestAuthenticate_BearerRoles(t *testing.T) {
	tests := []struct {
		token string
		email string
		role  domain.Role
	}{
		{"teacher", "teacherone@tdsb.on.ca", domain.RoleTeacher},
		{"student", "kid@student.tdsb.on.ca", domain.RoleStudent},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			p, called, err := runAuth(t, "Bearer "+tt.token, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !called {
				t.Fatal("next not called")
			}
			if p.Role != tt.role || p.Email != tt.email || p.UID != "uid-"+tt.token {
				t.Fatalf("unexpected principal: %+v", p)
			}
		})
	}
}

func TestAuthenticate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		status int
	}{
		{"missing header", "", "access_token_required", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", "access_token_required", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", "access_token_invalid", http.StatusUnauthorized},
		{"other scheme", "Token teacher", "access_token_invalid", http.StatusUnauthorized},
		{"foreign domain", "Bearer outside", "email_domain_not_allowed", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, called, err := runAuth(t, tt.header, "")
			if called {
				t.Fatal("next should not be called")
			}
			de, ok := domain.AsError(err)
			if !ok {
				t.Fatalf("expected domain error, got %v", err)
			}
			if de.Name != tt.want || de.Kind.Status() != tt.status {
				t.Fatalf("got %s/%d, want %s/%d", de.Name, de.Kind.Status(), tt.want, tt.status)
			}
		})
	}
}

func TestAuthenticate_APIKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-key"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	p, called, err := runAuth(t, "s3cret-key", string(hash))
	if err != nil || !called {
		t.Fatalf("expected pass, got called=%v err=%v", called, err)
	}
	if !p.IsService() {
		t.Fatalf("expected service principal, got %+v", p)
	}

	_, called, err = runAuth(t, "wrong-key", string(hash))
	if called || errName(err) != "access_token_invalid" {
		t.Fatalf("expected access_token_invalid, got called=%v err=%v", called, err)
	}
}

func TestAuthenticate_APIKeyDisabledWithoutHash(t *testing.T) {
	_, called, err := runAuth(t, "s3cret-key", "")
	if called || errName(err) != "access_token_invalid" {
		t.Fatalf("expected access_token_invalid, got called=%v err=%v", called, err)
	}
}
