package module

import (
	"go-chms/internal/features/access"
	"go-chms/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type ModuleApi struct {
	controller *ModuleController
	guard      *access.Guard
}

func NewModuleApi(controller *ModuleController, guard *access.Guard) *ModuleApi {
	return &ModuleApi{controller: controller, guard: guard}
}

func (h *ModuleApi) Setup(app *fiber.App) {
	admin := middleware.RequireAdmin(h.guard)

	modules := app.Group("/api/modules")
	modules.Get("/", h.controller.ListModules)
	modules.Get("/enabled", h.controller.ListEnabledModules)
	modules.Post("/refresh", h.controller.RefreshModules)
	modules.Put("/", admin, h.controller.UpdateModules)
	modules.Put("/:id", admin, h.controller.UpdateModule)

	app.Use("/ws/modules", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/modules", websocket.New(h.controller.StreamModules))
}
