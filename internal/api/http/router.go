package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tutorwave/lms-support/internal/api/http/handlers"
	"github.com/tutorwave/lms-support/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Users.Login)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Post("/teacher-change", cfg.Tickets.CreateTeacherChange)
	tickets.Post("/timezone-change", cfg.Tickets.CreateTimezoneChange)
	tickets.Post("/class-pause", cfg.Tickets.CreateClassPause)
	tickets.Post("/subject-change", cfg.Tickets.CreateSubjectChange)
	tickets.Post("/:id/rating", cfg.Tickets.RateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)

	notifications := app.Group("/notifications", cfg.AuthMiddleware.Handle)
	notifications.Get("/", cfg.Notifications.ListNotifications)
}
