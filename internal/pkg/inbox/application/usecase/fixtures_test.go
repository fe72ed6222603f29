package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	cacheport "github.com/yashodhank/tincanz/internal/infrastructure/cache/port"
	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	"github.com/yashodhank/tincanz/internal/pkg/inbox/persistence/repository/adapter"
	useradapter "github.com/yashodhank/tincanz/internal/repository/adapter"

	"github.com/stretchr/testify/require"
)

var (
	alice = inbox.User{ID: "11111111-1111-4111-8111-111111111111", Email: "alice@example.com", Admin: true}
	bob   = inbox.User{ID: "22222222-2222-4222-8222-222222222222", Email: "bob@example.com", Admin: true}
	carol = inbox.User{ID: "33333333-3333-4333-8333-333333333333", Email: "carol@example.com"}
	dave  = inbox.User{ID: "44444444-4444-4444-8444-444444444444", Email: "dave@example.com"}

	unknownID = "99999999-9999-4999-8999-999999999999"
)

type env struct {
	users  *useradapter.MemoryUserRepository
	repo   *adapter.MemoryInboxRepository
	cache  *fakeCache
	counts *ConversationCountsUseCase
	create *CreateMessageUseCase
	clock  *fakeClock
}

func newEnv(t *testing.T) *env {
	t.Helper()
	users := useradapter.NewMemoryUserRepository(alice, bob, carol, dave)
	repo := adapter.NewMemoryInboxRepository(users)
	cache := newFakeCache()
	counts := NewConversationCountsUseCase(repo, cache)
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

	create := NewCreateMessageUseCase(repo, users, counts)
	create.Now = clock.Now
	create.Resolver.Now = clock.Now

	return &env{users: users, repo: repo, cache: cache, counts: counts, create: create, clock: clock}
}

// send stores a message and fails the test on any error.
func (e *env) send(t *testing.T, admin inbox.User, conversationID *string, p inbox.ComposeParams) CreateMessageResult {
	t.Helper()
	res, err := e.create.Execute(context.Background(), CreateMessageInput{Admin: admin, ConversationID: conversationID, Params: p})
	require.NoError(t, err)
	return res
}

func strPtr(s string) *string { return &s }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// Now advances one second per call so stored messages get distinct timestamps.
func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	fail bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

var _ cacheport.Cache = (*fakeCache)(nil)

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("cache down")
	}
	v, ok := f.data[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("cache down")
	}
	f.data[key] = value
	return nil
}

func (f *fakeCache) Ping(context.Context) error { return nil }
func (f *fakeCache) Close() error               { return nil }

// failingRepo wraps the memory repository and fails writes.
type failingRepo struct {
	*adapter.MemoryInboxRepository
}

func (failingRepo) SaveMessage(context.Context, *inbox.Conversation, *inbox.Message) error {
	return errors.New("connection reset")
}

func (failingRepo) SetOwner(context.Context, string, *string) error {
	return errors.New("connection reset")
}
