package domain

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so the error shape cannot be used for username enumeration.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotAuthenticated means no identity could be resolved for the request.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrForbidden means the caller is authenticated but lacks the required role.
	ErrForbidden = errors.New("access forbidden")

	// ErrUserExists is returned when a registration collides on id or username.
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound is an internal lookup miss; it is never surfaced to
	// clients on the login path.
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionInvalid covers unknown, expired, and revoked tokens alike.
	ErrSessionInvalid = errors.New("session invalid")

	// ErrInvalidInput is returned for structurally invalid registration or
	// login arguments.
	ErrInvalidInput = errors.New("invalid input")
)
