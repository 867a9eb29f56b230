package ports

import (
	"context"

	"github.com/identra/identity-service/internal/core/domain"
)

// SessionStore persists sessions keyed by their opaque token.
// Find on an unknown or expired token returns domain.ErrSessionInvalid.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	Find(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}
