package service

import (
	"context"
	"testing"

	"github.com/identra/identity-service/internal/core/domain"
)

func TestRegistrationService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	hasher := testHasher()
	svc := NewRegistrationService(repo, hasher)

	user, err := svc.Register(context.Background(), "", "alice", "pw1", domain.RoleUser)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if user.PasswordHash == "pw1" {
		t.Fatalf("expected password to be hashed")
	}
	if !hasher.Verify("pw1", user.PasswordHash) {
		t.Fatalf("stored hash does not match password")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestRegistrationService_Register_ClientSuppliedID(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewRegistrationService(repo, testHasher())

	user, err := svc.Register(context.Background(), "user-42", "bob", "pw", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID != "user-42" {
		t.Fatalf("expected client-supplied id to be kept, got %s", user.ID)
	}

	// Reusing the id is rejected before the username check.
	if _, err := svc.Register(context.Background(), "user-42", "someone-else", "pw", domain.RoleUser); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists for duplicate id, got %v", err)
	}
}

func TestRegistrationService_Register_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewRegistrationService(repo, testHasher())

	if _, err := svc.Register(context.Background(), "", "carol", "pw", domain.RoleUser); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "", "carol", "pw2", domain.RoleUser); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(repo.byUsername) != 1 {
		t.Fatalf("store must retain exactly one record, has %d", len(repo.byUsername))
	}
}

func TestRegistrationService_Register_Validation(t *testing.T) {
	svc := NewRegistrationService(newStubUserRepo(), testHasher())

	cases := []struct {
		name     string
		username string
		password string
		role     domain.Role
	}{
		{"empty username", "", "pw", domain.RoleUser},
		{"empty password", "dave", "", domain.RoleUser},
		{"unknown role", "dave", "pw", domain.Role("SUPERUSER")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), "", tc.username, tc.password, tc.role); err != domain.ErrInvalidInput {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
