package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clubhub/clubhub-api/internal/core/ports"
)

type stubLimiter struct {
	res  ports.RateLimitResult
	err  error
	keys []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (ports.RateLimitResult, error) {
	s.keys = append(s.keys, key)
	return s.res, s.err
}

func runLimited(t *testing.T, limiter ports.RateLimiter) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := RateLimit(limiter, zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	return rec, called, err
}

func TestRateLimit_Allows(t *testing.T) {
	limiter := &stubLimiter{res: ports.RateLimitResult{Allowed: true, Limit: 50, Remaining: 49, ResetIn: 90 * time.Second}}

	rec, called, err := runLimited(t, limiter)
	if err != nil || !called {
		t.Fatalf("expected pass, called=%v err=%v", called, err)
	}
	if len(limiter.keys) != 1 || limiter.keys[0] != "10.0.0.7" {
		t.Fatalf("expected key by real ip, got %v", limiter.keys)
	}
	if rec.Header().Get(headerLimit) != "50" || rec.Header().Get(headerRemaining) != "49" || rec.Header().Get(headerReset) != "90" {
		t.Fatalf("unexpected headers: %v", rec.Header())
	}
}

func TestRateLimit_Rejects(t *testing.T) {
	limiter := &stubLimiter{res: ports.RateLimitResult{Allowed: false, Limit: 50, ResetIn: time.Minute}}

	rec, called, err := runLimited(t, limiter)
	if called {
		t.Fatal("next should not be called")
	}
	if errName(err) != "too_many_requests" {
		t.Fatalf("expected too_many_requests, got %v", err)
	}
	if rec.Header().Get(headerRemaining) != "0" {
		t.Fatalf("expected remaining 0, got %q", rec.Header().Get(headerRemaining))
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis down")}

	_, called, err := runLimited(t, limiter)
	if err != nil || !called {
		t.Fatalf("expected pass on limiter error, called=%v err=%v", called, err)
	}
}

func TestRateLimit_NilLimiter(t *testing.T) {
	_, called, err := runLimited(t, nil)
	if err != nil || !called {
		t.Fatalf("expected pass-through, called=%v err=%v", called, err)
	}
}
