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

func newVerifier(t *testing.T) (*users.Service, string) {
	t.Helper()
	svc := users.New(memory.New(), "middleware-secret", time.Hour, nil)
	if _, err := svc.Signup(context.Background(), "Tester", "tester@example.com", "secret123"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	token, _, err := svc.Login(context.Background(), "tester@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return svc, token
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthSkipPaths(t *testing.T) {
	svc, _ := newVerifier(t)
	mw := NewAuthMiddleware(svc, nil, []string{"/api/login"}, []string{"/uploads/"})
	handler := mw.Handler(okHandler())

	for _, path := range []string{"/api/login", "/uploads/logo.png"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200 without credentials, got %d", path, rec.Code)
		}
	}
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	svc, _ := newVerifier(t)
	mw := NewAuthMiddleware(svc, nil, nil, nil)
	handler := mw.Handler(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/issues", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing credentials: expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/issues", nil)
	req.Header.Set("Authorization", "Token abc")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong scheme: expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/issues", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: expected 401, got %d", rec.Code)
	}
}

func TestAuthAcceptsValidToken(t *testing.T) {
	svc, token := newVerifier(t)
	mw := NewAuthMiddleware(svc, nil, nil, nil)

	var gotEmail string
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := ClaimsFromContext(r.Context()); ok {
			gotEmail = claims.Email
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/issues", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotEmail != "tester@example.com" {
		t.Fatalf("claims not propagated, got %q", gotEmail)
	}
}

func TestAuthAcceptsQueryToken(t *testing.T) {
	svc, token := newVerifier(t)
	mw := NewAuthMiddleware(svc, nil, nil, nil)
	handler := mw.Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/projects/1/chat/ws?token="+token, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("query token: expected 200, got %d", rec.Code)
	}
}
