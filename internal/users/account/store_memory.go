// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/platform/apperr"
)

// MemoryUserRepository is a process-local [UserRepository] used when no
// database is configured and in tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryUserRepository creates a repository holding copies of seed.
func NewMemoryUserRepository(seed ...*User) *MemoryUserRepository {
	repository := &MemoryUserRepository{users: make(map[string]*User, len(seed))}
	for _, user := range seed {
		repository.users[user.ID] = user.Clone()
	}
	return repository
}

// FindByID implements [UserRepository].
func (repository *MemoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user.Clone(), nil
}

// FindByEmail implements [UserRepository]. Emails compare case-insensitively.
func (repository *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	return repository.findBy(func(user *User) bool { return strings.EqualFold(user.Email, email) })
}

// FindByUsername implements [UserRepository].
func (repository *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	return repository.findBy(func(user *User) bool { return user.Username == username })
}

func (repository *MemoryUserRepository) findBy(match func(*User) bool) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	for _, user := range repository.users {
		if match(user) {
			return user.Clone(), nil
		}
	}
	return nil, apperr.NotFound("User")
}

// Create implements [UserRepository].
func (repository *MemoryUserRepository) Create(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.users {
		if existing.ID == user.ID || strings.EqualFold(existing.Email, user.Email) || existing.Username == user.Username {
			return apperr.Conflict("User already exists")
		}
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	repository.users[user.ID] = user.Clone()
	return nil
}

// UpdateRole implements [UserRepository].
func (repository *MemoryUserRepository) UpdateRole(_ context.Context, id string, role access.Role) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	return nil
}

// List implements [UserRepository].
func (repository *MemoryUserRepository) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	all := make([]*User, 0, len(repository.users))
	for _, user := range repository.users {
		all = append(all, user.Clone())
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	total := len(all)
	if offset >= total {
		return []*User{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}
