package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beedatatech/teamflow/internal/app/services"
	"github.com/beedatatech/teamflow/internal/app/storage"
	"github.com/beedatatech/teamflow/internal/app/storage/memory"
)

func newService() *Service {
	return New(memory.New(), "unit-test-secret", time.Hour, nil)
}

func TestSignupAndLogin(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Grace Hopper", "grace@example.com", "compiler1")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned user id")
	}
	if created.Role != DefaultRole {
		t.Errorf("role = %q, want %q", created.Role, DefaultRole)
	}
	if created.Password == "compiler1" {
		t.Fatal("password stored in plain text")
	}

	token, u, err := svc.Login(ctx, "grace@example.com", "compiler1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if u.ID != created.ID {
		t.Errorf("login user id = %d, want %d", u.ID, created.ID)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != created.ID || claims.Email != "grace@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.FullName != "Grace Hopper" {
		t.Errorf("claims fullName = %q", claims.FullName)
	}
}

func TestSignupValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "", "a@b.c", "secret123"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error without name, got %v", err)
	}
	if _, err := svc.Signup(ctx, "A", "", "secret123"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error without email, got %v", err)
	}
	if _, err := svc.Signup(ctx, "A", "a@b.c", ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error without password, got %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "First", "dup@example.com", "secret123"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, err := svc.Signup(ctx, "Second", "dup@example.com", "secret456")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for duplicate email, got %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "User", "user@example.com", "correct-horse"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, err := svc.Login(ctx, "user@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	svc := newService()
	other := New(memory.New(), "different-secret", time.Hour, nil)
	ctx := context.Background()

	if _, err := other.Signup(ctx, "Mallory", "mallory@example.com", "sneaky123"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	token, _, err := other.Login(ctx, "mallory@example.com", "sneaky123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.VerifyToken(token); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}
	if _, err := svc.VerifyToken("not-a-token"); err == nil {
		t.Fatal("malformed token was accepted")
	}
}

func TestUpdateProfileKeepsPasswordWhenEmpty(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Old Name", "rename@example.com", "original1")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if err := svc.UpdateProfile(ctx, created.ID, "New Name", ""); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	// The original password must still work.
	if _, _, err := svc.Login(ctx, "rename@example.com", "original1"); err != nil {
		t.Fatalf("login after rename: %v", err)
	}
	u, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.FullName != "New Name" {
		t.Errorf("fullName = %q, want New Name", u.FullName)
	}

	// Changing the password invalidates the old one.
	if err := svc.UpdateProfile(ctx, created.ID, "New Name", "changed99"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "rename@example.com", "original1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still valid after change: %v", err)
	}
	if _, _, err := svc.Login(ctx, "rename@example.com", "changed99"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestUpdateRole(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Role User", "role@example.com", "secret123")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if err := svc.UpdateRole(ctx, created.ID, "admin"); err != nil {
		t.Fatalf("update role: %v", err)
	}
	u, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Role != "admin" {
		t.Errorf("role = %q, want admin", u.Role)
	}

	if err := svc.UpdateRole(ctx, 9999, "admin"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
}
