// Package memory provides in-process implementations of the persistence
// ports. They survive for the lifetime of the process and are the default
// backends for local runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/identra/identity-service/internal/core/domain"
)

// UserRepository is a mutex-guarded in-memory credential store. Create is an
// atomic check-and-insert, so two racing registrations with the same
// username resolve to exactly one winner.
type UserRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*domain.User
	byID       map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byUsername: make(map[string]*domain.User),
		byID:       make(map[string]*domain.User),
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	if _, exists := r.byID[user.ID]; exists {
		return nil, domain.ErrUserExists
	}

	stored := *user
	r.byUsername[stored.Username] = &stored
	r.byID[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (r *UserRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byID[id]
	return ok, nil
}

// Delete removes a user by id. Sessions issued to the user dangle until
// their next resolution, at which point they are invalidated.
func (r *UserRepository) Delete(_ context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.byID[id]; ok {
		delete(r.byUsername, user.Username)
		delete(r.byID, id)
	}
}
