package access

import (
	"go-chms/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type AccessApi struct {
	controller *AccessController
	guard      *Guard
}

func NewAccessApi(controller *AccessController, guard *Guard) *AccessApi {
	return &AccessApi{controller: controller, guard: guard}
}

func (h *AccessApi) Setup(app *fiber.App) {
	group := app.Group("/api/access")
	group.Post("/check", h.controller.Check)
	group.Post("/visible", h.controller.Visible)
	group.Get("/capabilities", h.controller.Capabilities)
	group.Get("/actions", h.controller.Actions)

	exportAccess := h.guard.Require("", Requirement{
		Roles: []string{models.RoleSuperAdmin, models.RoleGodMode, models.RoleSystemAdmin, models.RoleAdmin},
	})
	group.Get("/matrix.xlsx", exportAccess, h.controller.ExportMatrix)
}
