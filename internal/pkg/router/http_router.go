package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ADAMSmugwe/adakev-isp/app/controllers"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/middleware"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerProtectedRoutes(app)
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/", controllers.HandleHome)

	// Auth
	app.Get("/login", controllers.HandleAuthLogin)
	app.Post("/login", controllers.HandleAuthLogin)
	app.Get("/register", controllers.HandleAuthRegister)
	app.Post("/register", controllers.HandleAuthRegister)
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Payment gateway webhook (no session; correlation-token matched in the service)
	app.Post("/billing/mpesa/callback", controllers.HandleMpesaCallback)
}

func (h HttpRouter) registerProtectedRoutes(app *fiber.App) {
	app.Get("/dashboard", middleware.RequireAuth, controllers.HandleDashboard)

	// Plans and subscriptions
	app.Get("/plans", middleware.RequireAuth, controllers.HandlePlanList)
	app.Post("/plans/:id/subscribe", middleware.RequireAuth, controllers.HandlePlanSubscribe)

	// Invoices and payment initiation
	app.Get("/invoices", middleware.RequireAuth, controllers.HandleInvoiceList)
	app.Get("/invoices/:id", middleware.RequireAuth, controllers.HandleInvoiceDetail)
	app.Get("/invoices/:id/pay", middleware.RequireAuth, controllers.HandleMpesaPaymentForm)
	app.Post("/invoices/:id/pay", middleware.RequireAuth, controllers.HandleInitiateMpesaPayment)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
