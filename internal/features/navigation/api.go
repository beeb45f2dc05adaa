package navigation

import (
	"github.com/gofiber/fiber/v2"
)

type NavigationApi struct {
	controller *NavigationController
}

func NewNavigationApi(controller *NavigationController) *NavigationApi {
	return &NavigationApi{controller: controller}
}

func (h *NavigationApi) Setup(app *fiber.App) {
	nav := app.Group("/api/navigation")
	nav.Get("/", h.controller.GetNavigation)
	nav.Get("/breadcrumb", h.controller.GetBreadcrumb)
	nav.Get("/accessible", h.controller.CheckAccessible)
}
