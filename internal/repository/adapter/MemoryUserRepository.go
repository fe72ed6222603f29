package adapter

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	repository "github.com/yashodhank/tincanz/internal/repository/port"

	"github.com/google/uuid"
)

// MemoryUserRepository is the in-process user table used by the memory driver.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]inbox.User
}

func NewMemoryUserRepository(seed ...inbox.User) *MemoryUserRepository {
	r := &MemoryUserRepository{users: make(map[string]inbox.User)}
	for i := range seed {
		_ = r.Create(context.Background(), &seed[i])
	}
	return r
}

var _ repository.UserRepository = (*MemoryUserRepository)(nil)

func (r *MemoryUserRepository) Create(_ context.Context, user *inbox.User) error {
	if strings.TrimSpace(user.Email) == "" {
		return errors.New("MemoryUserRepository: email is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return errors.New("MemoryUserRepository: email already taken")
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*inbox.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, inbox.ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*inbox.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, inbox.ErrUserNotFound
}

func (r *MemoryUserRepository) FindByIDs(_ context.Context, ids []string) ([]inbox.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]inbox.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *MemoryUserRepository) List(_ context.Context) ([]inbox.User, error) {
	r.mu.RLock()
	out := make([]inbox.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
