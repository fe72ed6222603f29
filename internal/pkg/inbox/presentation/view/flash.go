package view

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookie = "tincanz_flash"

// SetNotice stores a success message for the next page view.
func SetNotice(c *gin.Context, msg string) {
	setFlash(c, "notice", msg)
}

// SetAlert stores a failure message for the next page view.
func SetAlert(c *gin.Context, msg string) {
	setFlash(c, "alert", msg)
}

func setFlash(c *gin.Context, kind, msg string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, kind+":"+msg, 60, "/", "", false, true)
}

// PopFlash reads and clears the pending flash. gin escapes cookie values on write
// and unescapes them on read.
func PopFlash(c *gin.Context) Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return Flash{}
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	kind, msg, _ := strings.Cut(raw, ":")
	switch kind {
	case "notice":
		return Flash{Notice: msg}
	case "alert":
		return Flash{Alert: msg}
	}
	return Flash{}
}
