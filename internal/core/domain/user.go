package domain

import "time"

// Role is the closed set of authorities a user can hold.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ValidRole reports whether r belongs to the closed role set.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAdmin
}

// User models a registered account. The password hash is never serialized
// to clients.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the resolved, authenticated representation of a caller,
// derived from a valid session token. Handlers receive it explicitly; there
// is no implicit ambient principal.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
