package controller

import (
	"net/http"
	"strings"
	"time"

	"github.com/yashodhank/tincanz/internal/infrastructure/auth"
	"github.com/yashodhank/tincanz/internal/pkg/inbox/presentation/view"

	"github.com/gin-gonic/gin"
)

// SessionController turns a bearer token into a browser session cookie.
type SessionController struct {
	Tokens *auth.Tokens
}

func NewSessionController(tokens *auth.Tokens) *SessionController {
	return &SessionController{Tokens: tokens}
}

// AlertBadToken is shown when a submitted session token does not verify.
const AlertBadToken = "That token is invalid or has expired."

// New serves GET /admin/session.
func (h *SessionController) New() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, view.SignInTemplate, view.SignInPage{Flash: view.PopFlash(c)})
	}
}

// Handle serves POST /admin/session.
func (h *SessionController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.PostForm("token"))
		claims, err := h.Tokens.Parse(raw)
		if err != nil {
			_ = c.Error(err)
			view.SetAlert(c, AlertBadToken)
			c.Redirect(http.StatusSeeOther, view.SessionPath)
			return
		}

		maxAge := 0
		if claims.ExpiresAt != nil {
			maxAge = int(time.Until(claims.ExpiresAt.Time).Seconds())
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(auth.SessionCookie, raw, maxAge, "/", "", c.Request.TLS != nil, true)
		c.Redirect(http.StatusSeeOther, view.ConversationsPath)
	}
}
