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

// AssignConversationController claims a conversation for the acting admin,
// or releases it when built with release set.
type AssignConversationController struct {
	UC      *usecase.AssignConversationUseCase
	release bool
}

func NewAssignConversationController(uc *usecase.AssignConversationUseCase, release bool) *AssignConversationController {
	return &AssignConversationController{UC: uc, release: release}
}

func (h *AssignConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, _ := auth.CurrentUser(c)
		id := c.Param("id")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.AssignConversationInput{ConversationID: id, Admin: admin, Release: h.release})
		if err != nil {
			renderHTMLError(c, err)
			return
		}

		if h.release {
			view.SetNotice(c, "Conversation unassigned.")
		} else {
			view.SetNotice(c, "Conversation assigned to you.")
		}
		c.Redirect(http.StatusSeeOther, view.ConversationPath(id))
	}
}
