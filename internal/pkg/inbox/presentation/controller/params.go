package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	"github.com/yashodhank/tincanz/internal/pkg/inbox/presentation/view"

	"github.com/gin-gonic/gin"
)

// MessageParams is everything a caller may submit for a new message.
// ConversationID selects the target; the rest is the composer allow-list.
type MessageParams struct {
	ConversationID *string  `json:"conversation_id"`
	UserID         string   `json:"user_id"`
	Content        string   `json:"content"`
	ReplyToID      *string  `json:"reply_to_id"`
	RecipientIDs   []string `json:"recipient_ids"`
}

// ComposeParams drops the conversation selector; it never reaches the message.
func (p MessageParams) ComposeParams() inbox.ComposeParams {
	return inbox.ComposeParams{
		AuthorID:     p.UserID,
		Content:      p.Content,
		ReplyToID:    p.ReplyToID,
		RecipientIDs: p.RecipientIDs,
	}
}

// Form echoes the submission for redisplay.
func (p MessageParams) Form() view.MessageForm {
	f := view.MessageForm{
		UserID:       p.UserID,
		Content:      p.Content,
		RecipientIDs: p.RecipientIDs,
	}
	if p.ConversationID != nil {
		f.ConversationID = *p.ConversationID
	}
	if p.ReplyToID != nil {
		f.ReplyToID = *p.ReplyToID
	}
	return f
}

type messageRequest struct {
	Message *MessageParams `json:"message"`
}

// bindMessageJSON decodes {"message": {...}} and rejects any field outside MessageParams.
func bindMessageJSON(c *gin.Context) (MessageParams, error) {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	var req messageRequest
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return MessageParams{}, fmt.Errorf("%w: empty body", errBadParams)
		}
		return MessageParams{}, fmt.Errorf("%w: %v", errBadParams, err)
	}
	if req.Message == nil {
		return MessageParams{}, fmt.Errorf("%w: message is required", errBadParams)
	}
	return *req.Message, nil
}

// bindMessageForm reads message[...] keys from a url-encoded or multipart body.
// Keys outside the message namespace (submit buttons and the like) are ignored;
// unknown keys inside it are rejected.
func bindMessageForm(c *gin.Context) (MessageParams, error) {
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		if _, err := c.MultipartForm(); err != nil {
			return MessageParams{}, fmt.Errorf("%w: %v", errBadParams, err)
		}
	}
	if err := c.Request.ParseForm(); err != nil {
		return MessageParams{}, fmt.Errorf("%w: %v", errBadParams, err)
	}

	var p MessageParams
	for key, values := range c.Request.PostForm {
		if !strings.HasPrefix(key, "message[") || len(values) == 0 {
			continue
		}
		switch key {
		case "message[conversation_id]":
			id := values[0]
			p.ConversationID = &id
		case "message[user_id]":
			p.UserID = values[0]
		case "message[content]":
			p.Content = values[0]
		case "message[reply_to_id]":
			id := values[0]
			p.ReplyToID = &id
		case "message[recipient_ids][]", "message[recipient_ids]":
			p.RecipientIDs = append(p.RecipientIDs, values...)
		default:
			return MessageParams{}, fmt.Errorf("%w: unknown field %s", errBadParams, key)
		}
	}
	return p, nil
}
