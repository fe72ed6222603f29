package http

import (
	"net/http"

	"github.com/yashodhank/tincanz/internal/infrastructure/auth"
	cacheport "github.com/yashodhank/tincanz/internal/infrastructure/cache/port"
	"github.com/yashodhank/tincanz/internal/infrastructure/metrics"
	"github.com/yashodhank/tincanz/internal/pkg/inbox/application/usecase"
	repository "github.com/yashodhank/tincanz/internal/pkg/inbox/persistence/repository/port"
	"github.com/yashodhank/tincanz/internal/pkg/inbox/presentation/controller"
	"github.com/yashodhank/tincanz/internal/pkg/inbox/presentation/view"
	userport "github.com/yashodhank/tincanz/internal/repository/port"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the inbox endpoints are built from.
// Cache and Metrics may be nil.
type Deps struct {
	Inbox   repository.InboxRepository
	Users   userport.UserRepository
	Cache   cacheport.Cache
	Tokens  *auth.Tokens
	Metrics *metrics.Metrics
}

type controllers struct {
	createMsg *controller.CreateMessageController
	newMsg    *controller.NewMessageController
	list      *controller.ListConversationsController
	show      *controller.ShowConversationController
	assign    *controller.AssignConversationController
	unassign  *controller.AssignConversationController
	counts    *controller.ConversationCountsController
	users     *controller.ListUsersController
	session   *controller.SessionController
}

func newControllers(d Deps) controllers {
	counts := usecase.NewConversationCountsUseCase(d.Inbox, d.Cache)
	listUsers := usecase.NewListUsersUseCase(d.Users)
	assign := usecase.NewAssignConversationUseCase(d.Inbox, counts)

	return controllers{
		createMsg: controller.NewCreateMessageController(usecase.NewCreateMessageUseCase(d.Inbox, d.Users, counts), listUsers, d.Metrics),
		newMsg:    controller.NewNewMessageController(listUsers),
		list:      controller.NewListConversationsController(usecase.NewListConversationsUseCase(d.Inbox), counts),
		show:      controller.NewShowConversationController(usecase.NewGetConversationUseCase(d.Inbox, d.Users)),
		assign:    controller.NewAssignConversationController(assign, false),
		unassign:  controller.NewAssignConversationController(assign, true),
		counts:    controller.NewConversationCountsController(counts),
		users:     controller.NewListUsersController(listUsers),
		session:   controller.NewSessionController(d.Tokens),
	}
}

// SetupViews installs the admin page templates on r.
func SetupViews(r *gin.Engine) {
	r.SetHTMLTemplate(view.Templates())
}

// RegisterAdminRoutes mounts the HTML admin surface on g (normally "/admin").
// Everything except the session endpoint requires an authenticated admin.
func RegisterAdminRoutes(g *gin.RouterGroup, d Deps) {
	ctl := newControllers(d)

	// GET /admin/session -> sign-in form; POST -> exchange a token for a session cookie
	g.GET("/session", ctl.session.New())
	g.POST("/session", ctl.session.Handle())

	admin := g.Group("", auth.OnFailure(controller.RejectHTML), auth.Authenticate(d.Tokens, d.Users), auth.RequireAdmin())

	admin.GET("", func(c *gin.Context) { c.Redirect(http.StatusFound, view.ConversationsPath) })

	// GET /admin/conversations?filter=all|yours|unassigned
	admin.GET("/conversations", ctl.list.Handle())
	admin.GET("/conversations/:id", ctl.show.Handle())
	admin.POST("/conversations/:id/assign", ctl.assign.Handle())
	admin.POST("/conversations/:id/unassign", ctl.unassign.Handle())

	// GET /admin/messages/new -> compose form; POST /admin/messages -> submit
	admin.GET("/messages/new", ctl.newMsg.Handle())
	admin.POST("/messages", ctl.createMsg.Handle())

	admin.GET("/users", ctl.users.Handle())
}

// RegisterAPIRoutes mounts the JSON admin API on g (normally "/api/v1").
func RegisterAPIRoutes(g *gin.RouterGroup, d Deps) {
	ctl := newControllers(d)

	admin := g.Group("/admin", auth.Authenticate(d.Tokens, d.Users), auth.RequireAdmin())

	admin.POST("/messages", ctl.createMsg.HandleAPI())
	admin.GET("/conversations", ctl.list.HandleAPI())
	admin.GET("/conversations/counts", ctl.counts.HandleAPI())
	admin.GET("/conversations/:id", ctl.show.HandleAPI())
}
