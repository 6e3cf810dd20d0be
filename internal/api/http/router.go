package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campus-transit/grievance-service/internal/api/http/handlers"
	"github.com/campus-transit/grievance-service/internal/auth"
	"github.com/campus-transit/grievance-service/internal/domain"
	"github.com/campus-transit/grievance-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Assignments    *handlers.AssignmentHandler
	AuthMiddleware fiber.Handler
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if reg := cfg.Metrics.Registry(); reg != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/staff/login", cfg.Auth.Login)

	admin := app.Group("/admin", cfg.AuthMiddleware, auth.RequireStaffRole())

	grievances := admin.Group("/grievances")
	grievances.Get("/unassigned", cfg.Assignments.ListUnassigned)
	grievances.Get("/recommendations", cfg.Assignments.Recommendations)
	grievances.Post("/distribution/preview", auth.RequireStaffRole(auth.AssignerRoles...), cfg.Assignments.Preview)
	grievances.Post("/assign", auth.RequireStaffRole(auth.AssignerRoles...), cfg.Assignments.Assign)
	grievances.Get("/:id/history", cfg.Assignments.History)

	admin.Get("/staff/workload", auth.RequireStaffRole(domain.StaffRoleSuperAdmin, domain.StaffRoleOperationsAdmin, domain.StaffRoleTransportManager), cfg.Assignments.Workload)
}

// NewApp builds a fiber app with the service's middlewares and routes.
func NewApp(appName string, deps AppDependencies, cfg RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, deps.Logger, cfg.Metrics, deps.RequestTimeout)
	RegisterRoutes(app, cfg)
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	return app
}
