package adapter

import (
	"context"
	"errors"
	"sort"
	"sync"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	repository "github.com/yashodhank/tincanz/internal/pkg/inbox/persistence/repository/port"
	userport "github.com/yashodhank/tincanz/internal/repository/port"
)

// MemoryInboxRepository keeps the inbox in process memory.
// It backs the "memory" storage driver and the HTTP tests.
type MemoryInboxRepository struct {
	mu            sync.RWMutex
	users         userport.UserRepository
	conversations map[string]inbox.Conversation
	messages      map[string]inbox.Message
	order         []string // conversation ids in insertion order
}

func NewMemoryInboxRepository(users userport.UserRepository) *MemoryInboxRepository {
	return &MemoryInboxRepository{
		users:         users,
		conversations: make(map[string]inbox.Conversation),
		messages:      make(map[string]inbox.Message),
	}
}

var _ repository.InboxRepository = (*MemoryInboxRepository)(nil)

func (r *MemoryInboxRepository) FindConversation(_ context.Context, id string) (*inbox.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conversations[id]
	if !ok {
		return nil, inbox.ErrConversationNotFound
	}
	return &c, nil
}

func (r *MemoryInboxRepository) ListConversations(ctx context.Context) ([]inbox.Conversation, error) {
	r.mu.RLock()
	convs := make([]inbox.Conversation, 0, len(r.order))
	for _, id := range r.order {
		c := r.conversations[id]
		msgs := r.messagesLocked(id)
		c.MessageCount = len(msgs)
		if len(msgs) > 0 {
			c.Preview = msgs[0].Content
		}
		convs = append(convs, c)
	}
	r.mu.RUnlock()

	sort.SliceStable(convs, func(i, j int) bool {
		if convs[i].CreatedAt.Equal(convs[j].CreatedAt) {
			return convs[i].ID < convs[j].ID
		}
		return convs[i].CreatedAt.Before(convs[j].CreatedAt)
	})

	for i := range convs {
		if convs[i].OwnerID == nil {
			continue
		}
		owner, err := r.users.FindByID(ctx, *convs[i].OwnerID)
		if err != nil && !errors.Is(err, inbox.ErrUserNotFound) {
			return nil, err
		}
		convs[i].Owner = owner
	}
	return convs, nil
}

func (r *MemoryInboxRepository) SaveMessage(_ context.Context, c *inbox.Conversation, m *inbox.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.IsNew {
		if _, exists := r.conversations[c.ID]; exists {
			return errors.New("MemoryInboxRepository: duplicate conversation id")
		}
	} else if _, exists := r.conversations[c.ID]; !exists {
		return inbox.ErrConversationNotFound
	}
	if _, exists := r.messages[m.ID]; exists {
		return errors.New("MemoryInboxRepository: duplicate message id")
	}

	if c.IsNew {
		stored := *c
		stored.IsNew = false
		stored.Owner, stored.Preview, stored.MessageCount = nil, "", 0
		r.conversations[c.ID] = stored
		r.order = append(r.order, c.ID)
	}
	stored := *m
	stored.RecipientIDs = append([]string(nil), m.RecipientIDs...)
	stored.Author, stored.Recipients = nil, nil
	r.messages[m.ID] = stored

	c.IsNew = false
	return nil
}

func (r *MemoryInboxRepository) FindMessage(_ context.Context, id string) (*inbox.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, inbox.ErrMessageNotFound
	}
	return &m, nil
}

func (r *MemoryInboxRepository) ListMessages(ctx context.Context, conversationID string) ([]inbox.Message, error) {
	r.mu.RLock()
	msgs := r.messagesLocked(conversationID)
	r.mu.RUnlock()

	for i := range msgs {
		author, err := r.users.FindByID(ctx, msgs[i].AuthorID)
		if err != nil && !errors.Is(err, inbox.ErrUserNotFound) {
			return nil, err
		}
		msgs[i].Author = author

		recipients, err := r.users.FindByIDs(ctx, msgs[i].RecipientIDs)
		if err != nil {
			return nil, err
		}
		msgs[i].Recipients = recipients
	}
	return msgs, nil
}

func (r *MemoryInboxRepository) SetOwner(_ context.Context, conversationID string, ownerID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[conversationID]
	if !ok {
		return inbox.ErrConversationNotFound
	}
	if ownerID != nil {
		id := *ownerID
		c.OwnerID = &id
	} else {
		c.OwnerID = nil
	}
	r.conversations[conversationID] = c
	return nil
}

// messagesLocked copies the conversation's messages in display order. Caller holds mu.
func (r *MemoryInboxRepository) messagesLocked(conversationID string) []inbox.Message {
	var out []inbox.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			m.RecipientIDs = append([]string(nil), m.RecipientIDs...)
			out = append(out, m)
		}
	}
	inbox.SortMessages(out)
	return out
}
