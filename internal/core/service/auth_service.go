package service

import (
	"context"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/core/ports"
	"github.com/identra/identity-service/internal/pkg/hash"
)

// AuthService validates username/password pairs against the user repository.
type AuthService struct {
	repo   ports.UserRepository
	hasher hash.Hasher

	// dummyHash is compared against when the username does not exist, so the
	// unknown-user path pays roughly the same bcrypt cost as the wrong-password
	// path and cannot be told apart by response timing.
	dummyHash string
}

func NewAuthService(repo ports.UserRepository, hasher hash.Hasher) *AuthService {
	dummy, err := hasher.Hash("anti-enumeration-filler")
	if err != nil {
		dummy = ""
	}
	return &AuthService{repo: repo, hasher: hasher, dummyHash: dummy}
}

// Authenticate verifies the pair and returns the caller's identity.
// Unknown username and wrong password both return ErrInvalidCredentials;
// the two failures are indistinguishable to the client.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		s.hasher.Verify(password, s.dummyHash)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}
