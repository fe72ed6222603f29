package repository

import (
	"context"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
)

// InboxRepository defines persistence operations for conversations and their messages.
// Lookups that find nothing return inbox.ErrConversationNotFound / inbox.ErrMessageNotFound.
type InboxRepository interface {
	FindConversation(ctx context.Context, id string) (*inbox.Conversation, error)
	// ListConversations returns every conversation in storage order (created_at, id)
	// with Owner, Preview and MessageCount filled in.
	ListConversations(ctx context.Context) ([]inbox.Conversation, error)
	// SaveMessage stores m and its recipients. When c.IsNew the conversation is
	// inserted in the same transaction, so either both exist afterwards or neither.
	SaveMessage(ctx context.Context, c *inbox.Conversation, m *inbox.Message) error
	FindMessage(ctx context.Context, id string) (*inbox.Message, error)
	// ListMessages returns the conversation's messages with Author and Recipients hydrated.
	ListMessages(ctx context.Context, conversationID string) ([]inbox.Message, error)
	SetOwner(ctx context.Context, conversationID string, ownerID *string) error
}
