package ports

import (
	"context"

	"github.com/identra/identity-service/internal/core/domain"
)

// UserRepository defines the interface for credential persistence.
// Create must be atomic per username: of two racing inserts with the same
// username, exactly one succeeds and the other returns domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}
