package rbac

import (
	"go-chms/internal/features/access"
	"go-chms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RoleApi struct {
	controller *RoleController
	guard      *access.Guard
}

func NewRoleApi(controller *RoleController, guard *access.Guard) *RoleApi {
	return &RoleApi{controller: controller, guard: guard}
}

// Setup registers role, permission and assignment routes. Reads are open to
// any signed-in user; changes need an administration role.
func (h *RoleApi) Setup(app *fiber.App) {
	signedIn := middleware.RequireAccess(h.guard, "", access.Requirement{})
	admin := middleware.RequireAdmin(h.guard)

	rbac := app.Group("/api/rbac", signedIn)

	roles := rbac.Group("/roles")
	roles.Get("/", h.controller.ListRoles)
	roles.Get("/:id", h.controller.GetRole)
	roles.Get("/:id/permissions", h.controller.GetRolePermissions)
	roles.Get("/:id/modules", h.controller.GetRoleModules)
	roles.Post("/", admin, h.controller.CreateRole)
	roles.Put("/:id", admin, h.controller.UpdateRole)
	roles.Delete("/:id", admin, h.controller.DeleteRole)

	permissions := rbac.Group("/permissions")
	permissions.Get("/", h.controller.ListPermissions)
	permissions.Post("/", admin, h.controller.CreatePermission)
	permissions.Put("/:id", admin, h.controller.UpdatePermission)
	permissions.Delete("/:id", admin, h.controller.DeletePermission)

	rbac.Get("/modules", h.controller.ListModules)

	assignments := rbac.Group("/assignments", admin)
	assignments.Post("/user-roles", h.controller.AssignRoleToUser)
	assignments.Delete("/user-roles", h.controller.RemoveRoleFromUser)
	assignments.Post("/role-permissions", h.controller.AssignPermissionToRole)
	assignments.Delete("/role-permissions", h.controller.RemovePermissionFromRole)

	cache := rbac.Group("/cache", admin)
	cache.Post("/clear", h.controller.ClearCache)
	cache.Post("/refresh", h.controller.RefreshCache)
}
