package inbox

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is one authored piece of content in a conversation.
type Message struct {
	ID             string    `db:"id"`
	ConversationID string    `db:"conversation_id"`
	AuthorID       string    `db:"author_id"`
	Content        string    `db:"content"`
	ReplyToID      *string   `db:"reply_to_id"`
	RecipientIDs   []string  `db:"-"`
	CreatedAt      time.Time `db:"created_at"`

	// Hydrated on read.
	Author     *User  `db:"-"`
	Recipients []User `db:"-"`
}

// ComposeParams is the allow-list of fields a caller may set on a new message.
// Conversation linkage is deliberately absent; it is decided by the resolver.
type ComposeParams struct {
	AuthorID     string
	Content      string
	ReplyToID    *string
	RecipientIDs []string
}

// Compose builds an unsaved message from the allowed fields only.
func Compose(p ComposeParams) *Message {
	m := &Message{
		ID:       uuid.NewString(),
		AuthorID: CanonicalID(p.AuthorID),
		Content:  p.Content,
	}
	if p.ReplyToID != nil {
		if id := CanonicalID(*p.ReplyToID); id != "" {
			m.ReplyToID = &id
		}
	}

	seen := make(map[string]struct{}, len(p.RecipientIDs))
	for _, id := range p.RecipientIDs {
		id = CanonicalID(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		m.RecipientIDs = append(m.RecipientIDs, id)
	}
	return m
}

// AttachTo links the message to its conversation.
func (m *Message) AttachTo(c *Conversation) {
	m.ConversationID = c.ID
}

// Validate checks the invariants that do not need storage lookups.
func (m *Message) Validate() error {
	ve := &ValidationError{}
	if strings.TrimSpace(m.Content) == "" {
		ve.Add("content", "can't be blank")
	}
	if m.AuthorID == "" {
		ve.Add("user_id", "can't be blank")
	}
	if m.ConversationID == "" {
		ve.Add("conversation_id", "can't be blank")
	}
	if m.ReplyToID != nil && *m.ReplyToID == m.ID {
		ve.Add("reply_to_id", "can't reference itself")
	}
	return ve.OrNil()
}

// Stamp sets CreatedAt when the caller left it empty.
func (m *Message) Stamp(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now.UTC()
	}
}

// RecipientEmails lists the hydrated recipients' emails in stored order.
func (m *Message) RecipientEmails() []string {
	out := make([]string, 0, len(m.Recipients))
	for _, u := range m.Recipients {
		out = append(out, u.Email)
	}
	return out
}
