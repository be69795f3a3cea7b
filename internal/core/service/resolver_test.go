package service

import (
	"context"
	"errors"
	"testing"

	"github.com/accessdesk/user-portal/internal/core/domain"
)

func TestResolver_LoadPrincipal(t *testing.T) {
	dir := newStubDirectory()
	_, err := dir.Save(context.Background(), &domain.Account{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "$argon2id$...",
		Roles:        []domain.Role{{ID: 1, Name: domain.RoleUser}},
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}

	view, err := NewResolver(dir).LoadPrincipal(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("LoadPrincipal: %v", err)
	}
	if view.Email != "ada@example.com" {
		t.Fatalf("unexpected email %q", view.Email)
	}
	if view.PasswordHash != "$argon2id$..." {
		t.Fatal("view must expose the stored hash for verification")
	}
	if len(view.Roles) != 1 || view.Roles[0] != domain.RoleUser {
		t.Fatalf("unexpected roles %v", view.Roles)
	}
	if !view.Enabled {
		t.Fatal("accounts are always enabled in this system")
	}
}

func TestResolver_PrincipalNotFound(t *testing.T) {
	_, err := NewResolver(newStubDirectory()).LoadPrincipal(context.Background(), "ghost@example.com")
	if !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestResolver_StoreFailureSurfaces(t *testing.T) {
	dir := newStubDirectory()
	storeErr := errors.New("connection reset")
	dir.failWith = storeErr

	_, err := NewResolver(dir).LoadPrincipal(context.Background(), "ada@example.com")
	if !errors.Is(err, storeErr) {
		t.Fatalf("a store failure must surface, not become not-found: %v", err)
	}
	if errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatal("store failure must be distinguishable from an unknown principal")
	}
}
