package memory

import (
	"context"
	"strings"
	"sync"

	domainuser "stayhub/internal/domain/user"
)

// ProfileRepository holds accounts keyed by id. Emails are unique after
// normalisation, as the Mongo email_key index enforces.
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[domainuser.ID]domainuser.User
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[domainuser.ID]domainuser.User)}
}

func (r *ProfileRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.profiles[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *ProfileRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	key := domainuser.NormalizeEmail(email)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.profiles {
		if domainuser.NormalizeEmail(u.Email) == key {
			return copyUser(u), nil
		}
	}
	return nil, domainuser.ErrNotFound
}

func (r *ProfileRepository) Save(ctx context.Context, user *domainuser.User) error {
	switch {
	case user == nil || strings.TrimSpace(string(user.ID)) == "":
		return domainuser.ErrIDRequired
	case domainuser.NormalizeEmail(user.Email) == "":
		return domainuser.ErrEmailRequired
	}
	key := domainuser.NormalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.profiles {
		if id != user.ID && domainuser.NormalizeEmail(existing.Email) == key {
			return domainuser.ErrEmailAlreadyUsed
		}
	}
	r.profiles[user.ID] = *copyUser(*user)
	return nil
}

func copyUser(u domainuser.User) *domainuser.User {
	u.Roles = append([]domainuser.Role(nil), u.Roles...)
	return &u
}

var _ domainuser.Repository = (*ProfileRepository)(nil)
