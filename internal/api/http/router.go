package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-portal/internal/api/http/handlers"
	"github.com/spec-kit/support-portal/internal/auth"
	"github.com/spec-kit/support-portal/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health           *handlers.HealthHandler
	Users            *handlers.UsersHandler
	Attendants       *handlers.AttendantsHandler
	Tickets          *handlers.TicketsHandler
	AttendantTickets *handlers.AttendantTicketsHandler
	Notifications    *handlers.NotificationsHandler
	AuthMiddleware   *auth.AuthMiddleware
	MetricsHandler   fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.MetricsHandler != nil {
		app.Get("/metrics", cfg.MetricsHandler)
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)
	authGroup.Post("/attendants/login", cfg.Attendants.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets", auth.RequireUser())
	tickets.Post("/:domain", cfg.Tickets.Create)
	tickets.Get("/:domain", cfg.Tickets.ListMine)
	tickets.Get("/:domain/:id", cfg.Tickets.GetMine)

	queue := api.Group("/queue", auth.RequireAttendantRole())
	queue.Get("/:domain", cfg.AttendantTickets.List)
	queue.Get("/:domain/:id/history", cfg.AttendantTickets.History)
	queue.Patch("/:domain/:id/status", cfg.AttendantTickets.ChangeStatus)
	queue.Patch("/:domain/:id/assignee", cfg.AttendantTickets.Reassign)
	queue.Patch("/collections/:id/return", cfg.AttendantTickets.SetReturn)

	notifications := api.Group("/notifications", auth.RequireAnyRole())
	notifications.Get("/", cfg.Notifications.Feed)
	notifications.Post("/:domain/:id/dismiss", cfg.Notifications.Dismiss)

	admin := api.Group("/attendants")
	admin.Post("/", auth.RequireAttendantRole(domain.RoleManager, domain.RoleDirector), cfg.Attendants.Create)
	admin.Get("/", auth.RequireAttendantRole(), cfg.Attendants.List)
	admin.Patch("/:id/queue", auth.RequireAttendantRole(domain.RoleManager, domain.RoleDirector), cfg.Attendants.ToggleQueue)
	admin.Get("/reason-assignments", auth.RequireAttendantRole(), cfg.Attendants.ListReasonAssignments)
	admin.Put("/reason-assignments", auth.RequireAttendantRole(domain.RoleManager, domain.RoleDirector), cfg.Attendants.SetReasonAssignment)
}
