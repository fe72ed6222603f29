package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contentFrom(u inbox.User, text string) inbox.ComposeParams {
	return inbox.ComposeParams{AuthorID: u.ID, Content: text}
}

func TestCreateMessageStartsConversationOwnedByAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res := e.send(t, alice, nil, inbox.ComposeParams{Content: "Welcome aboard", RecipientIDs: []string{carol.ID}})

	assert.True(t, res.ConversationCreated)
	assert.False(t, res.Conversation.IsNew)
	assert.True(t, res.Conversation.IsOwnedBy(alice.ID))
	assert.Equal(t, alice.ID, res.Message.AuthorID, "author defaults to the acting admin")
	assert.Equal(t, res.Conversation.ID, res.Message.ConversationID)
	assert.Equal(t, res.Conversation.CreatedAt, res.Message.CreatedAt)

	stored, err := e.repo.FindConversation(ctx, res.Conversation.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsOwnedBy(alice.ID))

	msgs, err := e.repo.ListMessages(ctx, res.Conversation.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Welcome aboard", msgs[0].Content)
	assert.Equal(t, []string{"carol@example.com"}, msgs[0].RecipientEmails())
}

func TestCreateMessageJoinsExistingConversation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first := e.send(t, bob, nil, contentFrom(bob, "hello"))

	reply := e.send(t, alice, strPtr(first.Conversation.ID), inbox.ComposeParams{
		AuthorID:  carol.ID,
		Content:   "thanks",
		ReplyToID: strPtr(first.Message.ID),
	})

	assert.False(t, reply.ConversationCreated)
	assert.Equal(t, first.Conversation.ID, reply.Message.ConversationID)
	assert.Equal(t, carol.ID, reply.Message.AuthorID, "explicit author is kept")
	assert.True(t, reply.Conversation.IsOwnedBy(bob.ID))

	all, err := e.repo.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].MessageCount)
	assert.Equal(t, "hello", all[0].Preview)
}

func TestCreateMessageAcceptsAnyUUIDSpelling(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first := e.send(t, alice, nil, contentFrom(alice, "hello"))

	reply := e.send(t, bob, strPtr(strings.ToUpper(first.Conversation.ID)), inbox.ComposeParams{
		AuthorID:     "{" + carol.ID + "}",
		Content:      "thanks",
		ReplyToID:    strPtr(strings.ToUpper(first.Message.ID)),
		RecipientIDs: []string{strings.ReplaceAll(dave.ID, "-", "")},
	})

	assert.False(t, reply.ConversationCreated)
	assert.Equal(t, first.Conversation.ID, reply.Message.ConversationID)
	assert.Equal(t, carol.ID, reply.Message.AuthorID)
	assert.Equal(t, []string{dave.ID}, reply.Message.RecipientIDs)

	all, err := e.repo.ListConversations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateMessageUnknownConversationStartsNewOne(t *testing.T) {
	e := newEnv(t)
	res := e.send(t, alice, strPtr(unknownID), contentFrom(alice, "hi"))
	assert.True(t, res.ConversationCreated)
	assert.NotEqual(t, unknownID, res.Conversation.ID)
}

func TestCreateMessageValidationStoresNothing(t *testing.T) {
	cases := []struct {
		name   string
		convID func(e *env) *string
		params func(e *env) inbox.ComposeParams
		field  string
	}{
		{
			name:   "blank content",
			params: func(*env) inbox.ComposeParams { return inbox.ComposeParams{Content: "   "} },
			field:  "content",
		},
		{
			name:   "malformed author",
			params: func(*env) inbox.ComposeParams { return inbox.ComposeParams{AuthorID: "nobody", Content: "x"} },
			field:  "user_id",
		},
		{
			name:   "unknown author",
			params: func(*env) inbox.ComposeParams { return inbox.ComposeParams{AuthorID: unknownID, Content: "x"} },
			field:  "user_id",
		},
		{
			name: "unknown recipient",
			params: func(*env) inbox.ComposeParams {
				return inbox.ComposeParams{Content: "x", RecipientIDs: []string{carol.ID, unknownID}}
			},
			field: "recipient_ids",
		},
		{
			name: "malformed recipient",
			params: func(*env) inbox.ComposeParams {
				return inbox.ComposeParams{Content: "x", RecipientIDs: []string{"carol"}}
			},
			field: "recipient_ids",
		},
		{
			name:   "reply target unknown",
			params: func(*env) inbox.ComposeParams { return inbox.ComposeParams{Content: "x", ReplyToID: strPtr(unknownID)} },
			field:  "reply_to_id",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)
			var convID *string
			if tc.convID != nil {
				convID = tc.convID(e)
			}
			res, err := e.create.Execute(context.Background(), CreateMessageInput{Admin: alice, ConversationID: convID, Params: tc.params(e)})

			var ve *inbox.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Contains(t, ve.Fields, tc.field)
			assert.NotNil(t, res.Message, "the rejected message is returned for redisplay")
			assert.False(t, res.ConversationCreated)

			all, err := e.repo.ListConversations(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all, "a failed first message leaves no conversation behind")
		})
	}
}

func TestCreateMessageRejectsReplyAcrossConversations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	one := e.send(t, alice, nil, contentFrom(alice, "one"))
	two := e.send(t, alice, nil, contentFrom(alice, "two"))

	_, err := e.create.Execute(ctx, CreateMessageInput{
		Admin:          alice,
		ConversationID: strPtr(two.Conversation.ID),
		Params:         inbox.ComposeParams{Content: "reply", ReplyToID: strPtr(one.Message.ID)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reply_to_id must belong to the same conversation")

	// a draft conversation cannot contain the target either
	_, err = e.create.Execute(ctx, CreateMessageInput{
		Admin:  alice,
		Params: inbox.ComposeParams{Content: "reply", ReplyToID: strPtr(one.Message.ID)},
	})
	require.Error(t, err)
	assert.True(t, inbox.IsValidationError(err))

	msgs, err := e.repo.ListMessages(ctx, two.Conversation.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestCreateMessageWrapsPersistenceFailures(t *testing.T) {
	e := newEnv(t)
	e.create.Repo = failingRepo{e.repo}

	_, err := e.create.Execute(context.Background(), CreateMessageInput{Admin: alice, Params: contentFrom(alice, "hi")})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.False(t, inbox.IsValidationError(err))
}

func TestCreateMessageInvalidatesCounts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	counts, err := e.counts.Execute(ctx, ConversationCountsInput{Admin: alice})
	require.NoError(t, err)
	assert.Equal(t, 0, counts[inbox.FilterAll])

	e.send(t, alice, nil, contentFrom(alice, "hi"))

	counts, err = e.counts.Execute(ctx, ConversationCountsInput{Admin: bob})
	require.NoError(t, err)
	assert.Equal(t, 1, counts[inbox.FilterAll])

	counts, err = e.counts.Execute(ctx, ConversationCountsInput{Admin: alice})
	require.NoError(t, err)
	assert.Equal(t, 1, counts[inbox.FilterAll])
	assert.Equal(t, 1, counts[inbox.FilterYours])
}
