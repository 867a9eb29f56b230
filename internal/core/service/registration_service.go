package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/core/ports"
	"github.com/identra/identity-service/internal/pkg/hash"
)

// RegistrationService validates and persists new accounts. Plaintext
// passwords are hashed before they reach the repository and are never logged.
type RegistrationService struct {
	repo   ports.UserRepository
	hasher hash.Hasher
}

func NewRegistrationService(repo ports.UserRepository, hasher hash.Hasher) *RegistrationService {
	return &RegistrationService{repo: repo, hasher: hasher}
}

// Register creates a new user. A client-supplied id that already exists is
// rejected before the username uniqueness check; when no id is supplied a
// fresh UUID is assigned.
func (s *RegistrationService) Register(ctx context.Context, id, username, password string, role domain.Role) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}

	if id != "" {
		exists, err := s.repo.ExistsByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrUserExists
		}
	} else {
		id = uuid.NewString()
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           id,
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	return s.repo.Create(ctx, user)
}
