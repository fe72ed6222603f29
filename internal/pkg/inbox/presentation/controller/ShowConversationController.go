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

// ShowConversationController renders one conversation as a thread.
type ShowConversationController struct {
	UC *usecase.GetConversationUseCase
}

func NewShowConversationController(uc *usecase.GetConversationUseCase) *ShowConversationController {
	return &ShowConversationController{UC: uc}
}

func (h *ShowConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, _ := auth.CurrentUser(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		thread, err := h.UC.Execute(ctx, usecase.GetConversationInput{ConversationID: c.Param("id")})
		if err != nil {
			renderHTMLError(c, err)
			return
		}

		c.HTML(http.StatusOK, view.ConversationTemplate, view.ConversationPage{
			Admin:  admin,
			Flash:  view.PopFlash(c),
			Thread: thread,
			Reply:  view.MessageForm{ConversationID: thread.Conversation.ID, ReplyToID: c.Query("reply_to_id")},
		})
	}
}

func (h *ShowConversationController) HandleAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		thread, err := h.UC.Execute(ctx, usecase.GetConversationInput{ConversationID: c.Param("id")})
		if err != nil {
			renderJSONError(c, err)
			return
		}
		c.JSON(http.StatusOK, threadJSON(thread))
	}
}
