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

// ListConversationsController serves the inbox listing for one filter tab.
type ListConversationsController struct {
	UC     *usecase.ListConversationsUseCase
	Counts *usecase.ConversationCountsUseCase
}

func NewListConversationsController(uc *usecase.ListConversationsUseCase, counts *usecase.ConversationCountsUseCase) *ListConversationsController {
	return &ListConversationsController{UC: uc, Counts: counts}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, _ := auth.CurrentUser(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.ListConversationsInput{Admin: admin, Filter: c.Query("filter")})
		if err != nil {
			renderHTMLError(c, err)
			return
		}
		counts, err := h.Counts.Execute(ctx, usecase.ConversationCountsInput{Admin: admin})
		if err != nil {
			renderHTMLError(c, err)
			return
		}

		c.HTML(http.StatusOK, view.ConversationsTemplate, view.ConversationsPage{
			Admin:         admin,
			Flash:         view.PopFlash(c),
			Tabs:          view.NewTabs(out.Mode, counts),
			Mode:          out.Mode,
			Conversations: out.Conversations,
		})
	}
}

func (h *ListConversationsController) HandleAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, _ := auth.CurrentUser(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.ListConversationsInput{Admin: admin, Filter: c.Query("filter")})
		if err != nil {
			renderJSONError(c, err)
			return
		}

		convs := make([]gin.H, 0, len(out.Conversations))
		for _, conv := range out.Conversations {
			convs = append(convs, conversationJSON(conv))
		}
		c.JSON(http.StatusOK, gin.H{
			"filter":        out.Mode,
			"conversations": convs,
			"count":         len(convs),
		})
	}
}
