package controller

import (
	"errors"
	"net/http"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	"github.com/yashodhank/tincanz/internal/pkg/inbox/presentation/view"

	"github.com/gin-gonic/gin"
)

var errBadParams = errors.New("invalid message params")

// statusFor maps use case errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, inbox.ErrInvalidFilter), errors.Is(err, errBadParams):
		return http.StatusBadRequest
	case errors.Is(err, inbox.ErrConversationNotFound), errors.Is(err, inbox.ErrMessageNotFound):
		return http.StatusNotFound
	}
	// usecase.ErrPersistence and anything unexpected
	return http.StatusInternalServerError
}

// publicMessage hides infrastructure details from responses; they still reach the request log.
func publicMessage(status int, err error) string {
	if status >= http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

func renderJSONError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": publicMessage(status, err)})
}

// AlertSignIn is shown on the sign-in page after an unauthenticated page request.
const AlertSignIn = "Please sign in to continue."

// RejectHTML answers gate failures on the admin pages: anonymous browsers are sent
// to the sign-in page, everyone else gets the error page.
func RejectHTML(c *gin.Context, status int, err error) {
	if status == http.StatusUnauthorized {
		view.SetAlert(c, AlertSignIn)
		c.Redirect(http.StatusSeeOther, view.SessionPath)
		return
	}
	c.HTML(status, view.ErrorTemplate, view.ErrorPage{Status: status, Message: publicMessage(status, err)})
}

func renderHTMLError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	c.HTML(status, view.ErrorTemplate, view.ErrorPage{Status: status, Message: publicMessage(status, err)})
}
