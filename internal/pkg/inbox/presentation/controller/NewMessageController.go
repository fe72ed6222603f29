package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/yashodhank/tincanz/internal/infrastructure/auth"
	"github.com/yashodhank/tincanz/internal/pkg/inbox/application/usecase"
	"github.com/yashodhank/tincanz/internal/pkg/inbox/presentation/view"

	"github.com/gin-gonic/gin"
)

// NewMessageController renders the compose form. Query parameters conversation_id,
// reply_to_id and recipient_ids prefill it.
type NewMessageController struct {
	Users *usecase.ListUsersUseCase
}

func NewNewMessageController(users *usecase.ListUsersUseCase) *NewMessageController {
	return &NewMessageController{Users: users}
}

func (h *NewMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, _ := auth.CurrentUser(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		users, err := h.Users.Execute(ctx)
		if err != nil {
			renderHTMLError(c, err)
			return
		}

		c.HTML(http.StatusOK, view.MessageFormTemplate, view.MessageFormPage{
			Admin: admin,
			Flash: view.PopFlash(c),
			Form: view.MessageForm{
				ConversationID: c.Query("conversation_id"),
				ReplyToID:      c.Query("reply_to_id"),
				UserID:         admin.ID,
				RecipientIDs:   c.QueryArray("recipient_ids"),
			},
			Users: users,
		})
	}
}
