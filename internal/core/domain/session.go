package domain

import "time"

// Session is the server-side state a token points at. The token itself is
// opaque to clients and carries no decodable meaning.
type Session struct {
	Token      string    `json:"token"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Role       Role      `json:"role"`
	Persistent bool      `json:"persistent"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Identity returns the identity the session was issued for.
func (s *Session) Identity() *Identity {
	return &Identity{UserID: s.UserID, Username: s.Username, Role: s.Role}
}
