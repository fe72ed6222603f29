package usecase

import (
	"context"
	"testing"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConversationReturnsThreadInCreationOrder(t *testing.T) {
	e := newEnv(t)
	first := e.send(t, alice, nil, inbox.ComposeParams{Content: "first", RecipientIDs: []string{carol.ID, dave.ID}})
	convID := strPtr(first.Conversation.ID)
	second := e.send(t, alice, convID, contentFrom(carol, "second"))
	// replies to the first message but is written last
	third := e.send(t, alice, convID, inbox.ComposeParams{Content: "third", ReplyToID: strPtr(first.Message.ID)})

	thread, err := NewGetConversationUseCase(e.repo, e.users).Execute(context.Background(), GetConversationInput{ConversationID: first.Conversation.ID})
	require.NoError(t, err)

	require.NotNil(t, thread.First)
	assert.Equal(t, first.Message.ID, thread.First.ID)
	assert.Equal(t, []string{"carol@example.com", "dave@example.com"}, thread.First.RecipientEmails())
	require.Len(t, thread.Replies, 2)
	assert.Equal(t, second.Message.ID, thread.Replies[0].ID)
	assert.Equal(t, third.Message.ID, thread.Replies[1].ID)
	require.NotNil(t, thread.Replies[0].Author)
	assert.Equal(t, carol.Email, thread.Replies[0].Author.Email)
	assert.Equal(t, first.Message.ID, thread.ReplyTarget(thread.Replies[1]).ID)

	require.NotNil(t, thread.Conversation.Owner)
	assert.Equal(t, alice.Email, thread.Conversation.Owner.Email)
	assert.Equal(t, 3, thread.Conversation.MessageCount)
}

func TestGetConversationNotFound(t *testing.T) {
	e := newEnv(t)
	uc := NewGetConversationUseCase(e.repo, e.users)
	for _, id := range []string{"", "abc", unknownID} {
		_, err := uc.Execute(context.Background(), GetConversationInput{ConversationID: id})
		assert.ErrorIs(t, err, inbox.ErrConversationNotFound, id)
	}
}
