package ports

import (
	"context"

	"github.com/identra/identity-service/internal/core/domain"
)

// AuthService verifies a username/password pair against the credential store.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Identity, error)
}

// RegistrationService validates and persists new accounts.
type RegistrationService interface {
	Register(ctx context.Context, id, username, password string, role domain.Role) (*domain.User, error)
}

// SessionService issues, resolves, and revokes opaque session tokens.
type SessionService interface {
	Issue(ctx context.Context, identity *domain.Identity, persistent bool) (string, error)
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
	Revoke(ctx context.Context, token string) error
}
