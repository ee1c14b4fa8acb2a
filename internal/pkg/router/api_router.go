package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	apiv1 "github.com/ADAMSmugwe/adakev-isp/internal/api/v1"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes, session-authenticated except ping
	v1 := api.Group("/v1")
	apiServer := apiv1.NewAPIServer()
	v1.Get("/ping", apiServer.GetPing)

	authed := v1.Group("", middleware.RequireAPISessionAuth)
	apiv1.RegisterHandlers(authed, apiServer)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
