// Package memory holds process-local adapters for every storage port. They
// back the server when STORE_BACKEND=memory and the router integration tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/snakegame/snake-api/internal/core/domain"
	"github.com/snakegame/snake-api/internal/core/ports"
)

// UserRepository is an in-memory implementation of ports.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

// Create enforces the same uniqueness rules as the Mongo indexes.
func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		switch {
		case u.Email == user.Email:
			return nil, domain.ErrEmailTaken
		case u.Username == user.Username:
			return nil, domain.ErrUsernameTaken
		case user.GoogleID != "" && u.GoogleID == user.GoogleID:
			return nil, domain.NewConflictError("Google account already linked")
		}
	}

	stored := cloneUser(user)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *UserRepository) FindByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	if googleID == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.find(func(u *domain.User) bool { return u.GoogleID == googleID })
}

func (r *UserRepository) update(id string, fn func(*domain.User)) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	fn(u)
	return cloneUser(u), nil
}

func (r *UserRepository) LinkGoogleID(_ context.Context, id, googleID string) error {
	_, err := r.update(id, func(u *domain.User) {
		u.GoogleID = googleID
		u.UpdatedAt = time.Now().UTC()
	})
	return err
}

func (r *UserRepository) RecordLogin(_ context.Context, id string, at time.Time) error {
	_, err := r.update(id, func(u *domain.User) { u.RecordLogin(at) })
	return err
}

func (r *UserRepository) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	return r.update(id, func(u *domain.User) {
		u.IsActive = active
		u.UpdatedAt = time.Now().UTC()
	})
}

func (r *UserRepository) RaiseBestScore(_ context.Context, id string, score int) (int, error) {
	var previous int
	_, err := r.update(id, func(u *domain.User) {
		previous = u.BestScore
		u.ApplyScore(score)
	})
	if err != nil {
		return 0, err
	}
	return previous, nil
}

func (r *UserRepository) TopByBestScore(_ context.Context, limit int) ([]*domain.User, error) {
	r.mu.RLock()
	active := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		if u.IsActive {
			active = append(active, cloneUser(u))
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(active, func(a, b *domain.User) int {
		if c := cmp.Compare(b.BestScore, a.BestScore); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if limit > 0 && len(active) > limit {
		active = active[:limit]
	}
	return active, nil
}

func (r *UserRepository) CountActiveAbove(_ context.Context, score int) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, u := range r.users {
		if u.IsActive && u.BestScore > score {
			n++
		}
	}
	return n, nil
}
