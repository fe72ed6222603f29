package v1

import (
	inboxhttp "github.com/yashodhank/tincanz/internal/pkg/inbox/presentation/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, d inboxhttp.Deps) {
	v1 := r.Group("/api/v1")
	inboxhttp.RegisterAPIRoutes(v1, d)
}
