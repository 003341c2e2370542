package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"recall/internal/domain"
	"recall/internal/domain/models"
)

func TestEnsureUser(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, fakeTxManager{}, slog.Default())

	// First provisioned user becomes admin
	first, err := svc.EnsureUser(context.Background(), "u1", "first@example.com", "First")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Role != models.RoleAdmin {
		t.Errorf("expected first user to be admin, got %s", first.Role)
	}
	// The count check must run under the provisioning lock, or two
	// concurrent first registrations could both become admin
	if userRepo.lockCalls != 1 {
		t.Errorf("expected 1 provisioning lock, got %d", userRepo.lockCalls)
	}

	second, err := svc.EnsureUser(context.Background(), "u2", "second@example.com", "Second")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Role != models.RoleUser {
		t.Errorf("expected second user to be regular, got %s", second.Role)
	}

	// Re-provisioning with unchanged claims is a read-only fast path
	again, err := svc.EnsureUser(context.Background(), "u1", "first@example.com", "First")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Role != models.RoleAdmin {
		t.Errorf("expected role to survive re-provisioning, got %s", again.Role)
	}
	if userRepo.lockCalls != 2 {
		t.Errorf("expected no extra lock on the fast path, got %d calls", userRepo.lockCalls)
	}

	// Changed email refreshes the row without touching the role
	renamed, err := svc.EnsureUser(context.Background(), "u2", "renamed@example.com", "Second")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if renamed.Email != "renamed@example.com" {
		t.Errorf("expected refreshed email, got %s", renamed.Email)
	}
	if renamed.Role != models.RoleUser {
		t.Errorf("expected role to survive refresh, got %s", renamed.Role)
	}
}

func TestGetUser(t *testing.T) {
	userRepo := newFakeUserRepo(&models.User{ID: "u1", Email: "u1@example.com"})
	svc := NewUserService(userRepo, fakeTxManager{}, slog.Default())

	user, err := svc.GetUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("expected u1, got %s", user.ID)
	}

	if _, err := svc.GetUser(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
