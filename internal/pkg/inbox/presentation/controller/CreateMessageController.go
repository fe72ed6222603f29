package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/yashodhank/tincanz/internal/infrastructure/auth"
	"github.com/yashodhank/tincanz/internal/infrastructure/metrics"
	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	"github.com/yashodhank/tincanz/internal/pkg/inbox/application/usecase"
	"github.com/yashodhank/tincanz/internal/pkg/inbox/presentation/view"

	"github.com/gin-gonic/gin"
)

// CreateMessageController handles message submission from the admin form and the JSON API.
type CreateMessageController struct {
	UC      *usecase.CreateMessageUseCase
	Users   *usecase.ListUsersUseCase
	Metrics *metrics.Metrics
}

func NewCreateMessageController(uc *usecase.CreateMessageUseCase, users *usecase.ListUsersUseCase, m *metrics.Metrics) *CreateMessageController {
	return &CreateMessageController{UC: uc, Users: users, Metrics: m}
}

// Create runs one submission for admin. The returned error is set only for
// infrastructure failures; rejected input comes back as Rerender.
func (h *CreateMessageController) Create(ctx context.Context, p MessageParams, admin inbox.User) (Outcome, error) {
	res, err := h.UC.Execute(ctx, usecase.CreateMessageInput{
		Admin:          admin,
		ConversationID: p.ConversationID,
		Params:         p.ComposeParams(),
	})

	var ve *inbox.ValidationError
	switch {
	case errors.As(err, &ve):
		h.Metrics.ValidationFailed()
		return Rerender{Form: p.Form(), Errors: ve.Fields, Alert: AlertNotCreated, Message: res.Message}, nil
	case err != nil:
		return nil, err
	}

	h.Metrics.MessageCreated(res.ConversationCreated)
	return Redirect{
		Target:  view.ConversationPath(res.Conversation.ID),
		Notice:  NoticeDelivered,
		Message: res.Message,
	}, nil
}

// Handle serves POST /admin/messages.
func (h *CreateMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, _ := auth.CurrentUser(c)

		p, err := bindMessageForm(c)
		if err != nil {
			renderHTMLError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.Create(ctx, p, admin)
		if err != nil {
			renderHTMLError(c, err)
			return
		}

		switch o := out.(type) {
		case Redirect:
			view.SetNotice(c, o.Notice)
			c.Redirect(http.StatusSeeOther, o.Target)
		case Rerender:
			users, err := h.Users.Execute(ctx)
			if err != nil {
				// the form still works without the recipient picker
				_ = c.Error(err)
			}
			c.HTML(http.StatusUnprocessableEntity, view.MessageFormTemplate, view.MessageFormPage{
				Admin:  admin,
				Flash:  view.Flash{Alert: o.Alert},
				Form:   o.Form,
				Errors: o.Errors,
				Users:  users,
			})
		}
	}
}

// HandleAPI serves POST /api/v1/admin/messages.
func (h *CreateMessageController) HandleAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, _ := auth.CurrentUser(c)

		p, err := bindMessageJSON(c)
		if err != nil {
			renderJSONError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.Create(ctx, p, admin)
		if err != nil {
			renderJSONError(c, err)
			return
		}

		switch o := out.(type) {
		case Redirect:
			c.Header("Location", o.Target)
			c.JSON(http.StatusCreated, gin.H{
				"notice":  o.Notice,
				"message": messageJSON(*o.Message),
			})
		case Rerender:
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"alert":  o.Alert,
				"errors": o.Errors,
				"message": gin.H{
					"conversation_id": p.ConversationID,
					"user_id":         p.UserID,
					"content":         p.Content,
					"reply_to_id":     p.ReplyToID,
					"recipient_ids":   p.RecipientIDs,
				},
			})
		}
	}
}
