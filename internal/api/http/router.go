package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studiokit/portal/internal/api/http/handlers"
	"github.com/studiokit/portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Portal         *handlers.PortalHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	// Public marketing surfaces.
	app.Get("/portfolio", cfg.Portal.ListPortfolio)
	app.Get("/portfolio/:id", cfg.Portal.GetPortfolioItem)
	app.Get("/blog", cfg.Portal.ListPosts)
	app.Get("/blog/:slug", cfg.Portal.GetPost)
	app.Get("/billing/plans", cfg.Portal.ListPlans)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuth())
	protected.Get("/billing/invoices", cfg.Portal.ListInvoices)

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", auth.RequireStaff(), cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/transition", auth.RequireStaff(), cfg.Tickets.Transition)
	tickets.Get("/:id/transitions", cfg.Tickets.ListTransitions)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Post("/:id/attachments", cfg.Tickets.AddAttachment)
	tickets.Delete("/:id/attachments/:attachmentID", cfg.Tickets.DeleteAttachment)
}
