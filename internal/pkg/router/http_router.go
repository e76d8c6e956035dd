package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"

	"github.com/ManuelReschke/ReviewDesk/app/controllers"
	"github.com/ManuelReschke/ReviewDesk/app/models"
	"github.com/ManuelReschke/ReviewDesk/app/repository"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/account"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/middleware"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/workflow"
)

// Dependencies are the services the HTTP routes are built from.
type Dependencies struct {
	Repos    *repository.Factory
	Engine   *workflow.Engine
	Accounts *account.Service
	Sessions *fibersession.Store
	// AuthLimit caps login and registration attempts per client and minute.
	// Zero disables the limiter.
	AuthLimit int
}

type HttpRouter struct {
	deps Dependencies
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware(h.deps.Sessions, h.deps.Repos.GetUserRepository()))

	auth := controllers.NewAuthController(h.deps.Accounts, h.deps.Sessions)
	reports := controllers.NewReportController(h.deps.Engine)
	inspections := controllers.NewInspectorController(h.deps.Engine)
	admin := controllers.NewAdminController(h.deps.Accounts)

	base := app.Group("/app")

	accounts := base.Group("/accounts")
	if h.deps.AuthLimit > 0 {
		accounts.Use(limiter.New(limiter.Config{
			Max:        h.deps.AuthLimit,
			Expiration: time.Minute,
		}))
	}
	accounts.Post("/registration", auth.HandleRegistration)
	accounts.Post("/login", auth.HandleLogin)
	accounts.Post("/logout", middleware.RequireAuth, auth.HandleLogout)

	owner := base.Group("/userHome", middleware.RequireRole(models.RoleOwner, models.RoleAdmin))
	owner.Get("/", reports.HandleOwnerHome)
	owner.Post("/add", reports.HandleAdd)
	owner.Post("/update/:id", reports.HandleUpdate)
	owner.Post("/change/:id", reports.HandleChangeInspectors)
	owner.Post("/delete/:id", reports.HandleDelete)
	owner.Get("/archive/:id", reports.HandleArchive)

	insp := base.Group("/inspHome", middleware.RequireRole(models.RoleInspector))
	insp.Get("/", inspections.HandleInspectorHome)
	insp.Post("/accept/:id", inspections.HandleAccept)
	insp.Post("/decline/:id", inspections.HandleDecline)
	insp.Get("/archive/:id", reports.HandleArchive)

	base.Get("/inspectors", middleware.RequireAuth, inspections.HandleInspectors)

	adm := base.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	adm.Get("/users", admin.HandleUsers)
	adm.Post("/users/:id/delete", admin.HandleUserDelete)
}

func NewHttpRouter(deps Dependencies) *HttpRouter {
	return &HttpRouter{deps: deps}
}
