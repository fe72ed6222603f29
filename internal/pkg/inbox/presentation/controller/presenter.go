package controller

import (
	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"

	"github.com/gin-gonic/gin"
)

func userJSON(u *inbox.User) gin.H {
	if u == nil {
		return nil
	}
	return gin.H{"id": u.ID, "email": u.Email, "admin": u.Admin}
}

func messageJSON(m inbox.Message) gin.H {
	recipients := make([]gin.H, 0, len(m.Recipients))
	for i := range m.Recipients {
		recipients = append(recipients, userJSON(&m.Recipients[i]))
	}
	recipientIDs := m.RecipientIDs
	if recipientIDs == nil {
		recipientIDs = []string{}
	}
	return gin.H{
		"id":              m.ID,
		"conversation_id": m.ConversationID,
		"author_id":       m.AuthorID,
		"author":          userJSON(m.Author),
		"content":         m.Content,
		"reply_to_id":     m.ReplyToID,
		"recipient_ids":   recipientIDs,
		"recipients":      recipients,
		"created_at":      m.CreatedAt,
	}
}

func conversationJSON(c inbox.Conversation) gin.H {
	return gin.H{
		"id":            c.ID,
		"owner_id":      c.OwnerID,
		"owner":         userJSON(c.Owner),
		"created_at":    c.CreatedAt,
		"preview":       c.Preview,
		"message_count": c.MessageCount,
	}
}

func threadJSON(t inbox.Thread) gin.H {
	var first gin.H
	if t.First != nil {
		first = messageJSON(*t.First)
	}
	replies := make([]gin.H, 0, len(t.Replies))
	for _, m := range t.Replies {
		replies = append(replies, messageJSON(m))
	}
	return gin.H{
		"conversation":  conversationJSON(t.Conversation),
		"first_message": first,
		"replies":       replies,
	}
}

func countsJSON(counts map[inbox.FilterMode]int) gin.H {
	out := gin.H{}
	for _, mode := range inbox.FilterModes {
		out[string(mode)] = counts[mode]
	}
	return out
}
