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

type ListUsersController struct {
	UC *usecase.ListUsersUseCase
}

func NewListUsersController(uc *usecase.ListUsersUseCase) *ListUsersController {
	return &ListUsersController{UC: uc}
}

func (h *ListUsersController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, _ := auth.CurrentUser(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		users, err := h.UC.Execute(ctx)
		if err != nil {
			renderHTMLError(c, err)
			return
		}
		c.HTML(http.StatusOK, view.UsersTemplate, view.UsersPage{Admin: admin, Flash: view.PopFlash(c), Users: users})
	}
}
