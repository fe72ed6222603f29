package router

import (
	"context"
	"net/http"
	"time"

	v1 "github.com/yashodhank/tincanz/cmd/api/router/v1"
	"github.com/yashodhank/tincanz/internal/infrastructure/logging"
	inboxhttp "github.com/yashodhank/tincanz/internal/pkg/inbox/presentation/http"
	"github.com/yashodhank/tincanz/internal/pkg/inbox/presentation/view"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck reports whether a backing service is reachable.
type HealthCheck func(ctx context.Context) error

// New builds the engine with middleware, ops endpoints, the admin pages and the v1 API.
func New(d inboxhttp.Deps, log *zap.Logger, checks map[string]HealthCheck) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(log), d.Metrics.Middleware())
	inboxhttp.SetupViews(r)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, view.ConversationsPath)
	})

	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		report := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				report[name] = err.Error()
				continue
			}
			report[name] = "ok"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": report})
	})

	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	inboxhttp.RegisterAdminRoutes(r.Group("/admin"), d)
	v1.RegisterRoutes(r, d)
	return r
}
