package auth

import (
	"errors"
	"net/http"
	"strings"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	userport "github.com/yashodhank/tincanz/internal/repository/port"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie carries the token for browser sessions.
	SessionCookie = "tincanz_session"

	userKey    = "tincanz.user"
	failureKey = "tincanz.auth_failure"
)

var errLoadUser = errors.New("failed to load session user")

// FailureFunc answers a request the gate rejected. status is 401, 403 or 500.
type FailureFunc func(c *gin.Context, status int, err error)

// OnFailure makes Authenticate and RequireAdmin answer through fn instead of a
// JSON error body. It must run before them.
func OnFailure(fn FailureFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(failureKey, fn)
		c.Next()
	}
}

// Authenticate resolves the session token (Bearer header first, then cookie) to a stored user.
// The user is reloaded on every request so a revoked admin flag takes effect immediately.
func Authenticate(tokens *Tokens, users userport.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				raw = cookie
			}
		}
		if raw == "" {
			abort(c, http.StatusUnauthorized, ErrUnauthenticated)
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			abort(c, http.StatusUnauthorized, ErrUnauthenticated)
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.Subject)
		if errors.Is(err, inbox.ErrUserNotFound) {
			abort(c, http.StatusUnauthorized, ErrUnauthenticated)
			return
		}
		if err != nil {
			_ = c.Error(err)
			abort(c, http.StatusInternalServerError, errLoadUser)
			return
		}

		c.Set(userKey, *user)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abort(c, http.StatusUnauthorized, ErrUnauthenticated)
			return
		}
		if !user.IsAdmin() {
			abort(c, http.StatusForbidden, ErrForbidden)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user Authenticate stored on the context.
func CurrentUser(c *gin.Context) (inbox.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return inbox.User{}, false
	}
	u, ok := v.(inbox.User)
	return u, ok
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func abort(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	if v, ok := c.Get(failureKey); ok {
		if fn, ok := v.(FailureFunc); ok {
			c.Abort()
			fn(c, status, err)
			return
		}
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
