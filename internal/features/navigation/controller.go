package navigation

import (
	"go-chms/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

// ModuleSource provides the current module list.
type ModuleSource interface {
	Modules() []models.Module
}

// UserSource provides the signed-in user, or nil.
type UserSource interface {
	CurrentUser() *models.User
}

type NavigationController struct {
	modules ModuleSource
	users   UserSource
}

func NewNavigationController(modules ModuleSource, users UserSource) *NavigationController {
	return &NavigationController{modules: modules, users: users}
}

// GetNavigation builds the sidebar. Branch administrators get the reduced
// menu unless ?variant= says otherwise.
//
// @Summary      Sidebar navigation
// @Tags         navigation
// @Produce      json
// @Param        variant query string false "sidebar or branch-admin"
// @Success      200  {array}  map[string]interface{}
// @Failure      400  {object} map[string]string "Unknown variant"
// @Router       /api/navigation [get]
func (ctrl *NavigationController) GetNavigation(c *fiber.Ctx) error {
	variant := c.Query("variant")
	if variant == "" {
		if u := ctrl.users.CurrentUser(); u != nil && u.PrimaryRole == models.RoleBranchAdmin {
			variant = "branch-admin"
		}
	}

	modules := ctrl.modules.Modules()
	switch variant {
	case "", "sidebar":
		return c.JSON(BuildSidebarNavigation(modules))
	case "branch-admin":
		return c.JSON(BuildBranchAdminNavigation(modules))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown navigation variant"})
	}
}

// GetBreadcrumb godoc
// @Summary      Breadcrumb for a path
// @Tags         navigation
// @Produce      json
// @Param        path query string true "Route path"
// @Success      200  {array}  map[string]interface{}
// @Router       /api/navigation/breadcrumb [get]
func (ctrl *NavigationController) GetBreadcrumb(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}
	return c.JSON(GetBreadcrumb(path, ctrl.modules.Modules()))
}

// CheckAccessible godoc
// @Summary      Whether an enabled module serves a path
// @Tags         navigation
// @Produce      json
// @Param        path query string true "Route path"
// @Success      200  {object} map[string]interface{}
// @Router       /api/navigation/accessible [get]
func (ctrl *NavigationController) CheckAccessible(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}

	modules := ctrl.modules.Modules()
	resp := fiber.Map{
		"path":       path,
		"accessible": IsRouteAccessible(path, modules),
	}
	if m, ok := GetModuleForRoute(path, modules); ok {
		resp["module"] = m
	}
	return c.JSON(resp)
}
