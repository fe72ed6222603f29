package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/yashodhank/tincanz/internal/infrastructure/auth"
	"github.com/yashodhank/tincanz/internal/pkg/inbox/application/usecase"

	"github.com/gin-gonic/gin"
)

// ConversationCountsController reports the listing tab counters.
type ConversationCountsController struct {
	UC *usecase.ConversationCountsUseCase
}

func NewConversationCountsController(uc *usecase.ConversationCountsUseCase) *ConversationCountsController {
	return &ConversationCountsController{UC: uc}
}

func (h *ConversationCountsController) HandleAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, _ := auth.CurrentUser(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		counts, err := h.UC.Execute(ctx, usecase.ConversationCountsInput{Admin: admin})
		if err != nil {
			renderJSONError(c, err)
			return
		}
		c.JSON(http.StatusOK, countsJSON(counts))
	}
}
