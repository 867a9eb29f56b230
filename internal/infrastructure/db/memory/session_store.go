package memory

import (
	"context"
	"sync"
	"time"

	"github.com/identra/identity-service/internal/core/domain"
)

// SessionStore is an RWMutex-guarded in-memory session table. Reads never
// observe a half-written session; Find applies expiry itself so callers see
// the same semantics as a TTL-backed store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.Session),
		now:      time.Now,
	}
}

func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *session
	s.sessions[stored.Token] = &stored
	return nil
}

func (s *SessionStore) Find(_ context.Context, token string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok || session.Expired(s.now().UTC()) {
		return nil, domain.ErrSessionInvalid
	}
	out := *session
	return &out, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

// Sweep launches a background goroutine that periodically drops expired
// sessions so the table does not grow without bound. It stops when ctx is
// cancelled and never blocks request-serving paths.
func (s *SessionStore) Sweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.dropExpired()
			}
		}
	}()
}

func (s *SessionStore) dropExpired() {
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, token)
		}
	}
}
