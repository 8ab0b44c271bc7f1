package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beedatatech/teamflow/internal/app/services/users"
	"github.com/beedatatech/teamflow/internal/app/storage/memory"
)

func TestRateLimiterKeysByIP(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	handler := rl.Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/issues", nil)
	req.RemoteAddr = "10.0.0.1:4000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("burst exceeded: expected 429, got %d", rec.Code)
	}

	// A different client IP has its own bucket.
	other := httptest.NewRequest(http.MethodGet, "/api/issues", nil)
	other.RemoteAddr = "10.0.0.2:4000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Fatalf("other client: expected 200, got %d", rec.Code)
	}
}

func TestRateLimiterKeysAuthenticatedRequestsByUser(t *testing.T) {
	svc := users.New(memory.New(), "middleware-secret", time.Hour, nil)
	tokens := make(map[string]string, 2)
	for _, email := range []string{"one@example.com", "two@example.com"} {
		if _, err := svc.Signup(context.Background(), "User", email, "secret123"); err != nil {
			t.Fatalf("signup %s: %v", email, err)
		}
		token, _, err := svc.Login(context.Background(), email, "secret123")
		if err != nil {
			t.Fatalf("login %s: %v", email, err)
		}
		tokens[email] = token
	}

	// Chain ordered the way the runtime wires it: auth outside the limiter.
	rl := NewRateLimiter(1, 1, nil)
	auth := NewAuthMiddleware(svc, nil, nil, nil)
	handler := auth.Handler(rl.Handler(okHandler()))

	do := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/issues", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(tokens["one@example.com"]); code != http.StatusOK {
		t.Fatalf("first user, first request: expected 200, got %d", code)
	}
	if code := do(tokens["one@example.com"]); code != http.StatusTooManyRequests {
		t.Fatalf("first user, second request: expected 429, got %d", code)
	}
	// The second user shares the IP but must not share the bucket.
	if code := do(tokens["two@example.com"]); code != http.StatusOK {
		t.Fatalf("second user: expected 200, got %d", code)
	}
}
