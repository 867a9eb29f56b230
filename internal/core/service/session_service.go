package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/core/ports"
)

const tokenBytes = 32

// SessionService issues opaque session tokens and resolves them back to
// identities. Tokens index server-side state only; they carry no decodable
// meaning themselves.
type SessionService struct {
	store ports.SessionStore
	users ports.UserRepository

	sessionTTL    time.Duration
	persistentTTL time.Duration

	now func() time.Time
}

// NewSessionService wires a session store and the user repository (used to
// invalidate sessions whose owner no longer exists). Non-positive TTLs fall
// back to 30 minutes for plain sessions and 120 seconds for persistent
// remember-me tokens.
func NewSessionService(store ports.SessionStore, users ports.UserRepository, sessionTTL, persistentTTL time.Duration) *SessionService {
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	if persistentTTL <= 0 {
		persistentTTL = 120 * time.Second
	}
	return &SessionService{
		store:         store,
		users:         users,
		sessionTTL:    sessionTTL,
		persistentTTL: persistentTTL,
		now:           time.Now,
	}
}

// Issue creates a session bound to identity and returns its token. A
// persistent session uses the remember-me TTL; issuing never invalidates the
// caller's other sessions (multi-session is allowed).
func (s *SessionService) Issue(ctx context.Context, identity *domain.Identity, persistent bool) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	ttl := s.sessionTTL
	if persistent {
		ttl = s.persistentTTL
	}

	now := s.now().UTC()
	session := &domain.Session{
		Token:      token,
		UserID:     identity.UserID,
		Username:   identity.Username,
		Role:       identity.Role,
		Persistent: persistent,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}

	if err := s.store.Save(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

// Resolve maps a token back to the identity it was issued for. Expired,
// revoked, and unknown tokens all return ErrSessionInvalid, as does a
// session whose owner has since been deleted; an invalid session is never
// resurrected.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrSessionInvalid
	}

	session, err := s.store.Find(ctx, token)
	if err != nil {
		return nil, domain.ErrSessionInvalid
	}

	if session.Expired(s.now().UTC()) {
		_ = s.store.Delete(ctx, token)
		return nil, domain.ErrSessionInvalid
	}

	exists, err := s.users.ExistsByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("check session owner: %w", err)
	}
	if !exists {
		// Dangling owner: the user was deleted after issuance.
		_ = s.store.Delete(ctx, token)
		return nil, domain.ErrSessionInvalid
	}

	return session.Identity(), nil
}

// Revoke deletes the session. Revoking an unknown token is a no-op.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.Delete(ctx, token)
}

// newToken returns a fixed-length opaque token from crypto/rand.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
