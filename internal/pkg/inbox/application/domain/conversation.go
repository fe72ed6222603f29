package inbox

import (
	"time"

	"github.com/google/uuid"
)

// Conversation groups the messages exchanged about one topic.
// OwnerID is the admin currently handling it; nil means unassigned.
type Conversation struct {
	ID        string    `db:"id"`
	OwnerID   *string   `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`

	// Listing projections, filled by repositories when reading.
	Owner        *User  `db:"-"`
	Preview      string `db:"-"`
	MessageCount int    `db:"-"`

	// IsNew marks a conversation that has been resolved but not stored yet.
	// It is persisted together with its first message.
	IsNew bool `db:"-"`
}

// NewConversation drafts an unsaved conversation owned by owner.
func NewConversation(owner User, now time.Time) *Conversation {
	ownerID := owner.ID
	return &Conversation{
		ID:        uuid.NewString(),
		OwnerID:   &ownerID,
		CreatedAt: now.UTC(),
		IsNew:     true,
	}
}

// IsOwnedBy reports whether userID is the assigned owner.
func (c *Conversation) IsOwnedBy(userID string) bool {
	return c.OwnerID != nil && *c.OwnerID == userID
}

// IsUnassigned reports whether nobody owns the conversation.
func (c *Conversation) IsUnassigned() bool {
	return c.OwnerID == nil
}
