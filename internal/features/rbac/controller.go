package rbac

import (
	"go-chms/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type RoleController struct {
	Service RoleService
}

func NewRoleController(service RoleService) *RoleController {
	return &RoleController{Service: service}
}

// ListRoles godoc
// @Summary      List roles
// @Tags         rbac
// @Produce      json
// @Success      200  {array}  map[string]interface{}
// @Failure      502  {object} map[string]string "Fetch failed"
// @Router       /api/rbac/roles [get]
func (ctrl *RoleController) ListRoles(c *fiber.Ctx) error {
	roles, err := ctrl.Service.GetAllRoles(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(roles)
}

// GetRole godoc
// @Summary      Get a role
// @Tags         rbac
// @Produce      json
// @Param        id path string true "Role ID"
// @Success      200  {object} map[string]interface{}
// @Failure      404  {object} map[string]string "Role not found"
// @Router       /api/rbac/roles/{id} [get]
func (ctrl *RoleController) GetRole(c *fiber.Ctx) error {
	role, err := ctrl.Service.GetRole(c.Context(), models.RoleID(c.Params("id")))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	if role == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Role not found"})
	}
	return c.JSON(role)
}

// GetRolePermissions godoc
// @Summary      Permissions of a role
// @Tags         rbac
// @Produce      json
// @Param        id path string true "Role ID"
// @Success      200  {array}  map[string]interface{}
// @Failure      502  {object} map[string]string "Fetch failed"
// @Router       /api/rbac/roles/{id}/permissions [get]
func (ctrl *RoleController) GetRolePermissions(c *fiber.Ctx) error {
	perms, err := ctrl.Service.GetRolePermissions(c.Context(), models.RoleID(c.Params("id")))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(perms)
}

// GetRoleModules godoc
// @Summary      Modules of a role
// @Tags         rbac
// @Produce      json
// @Param        id path string true "Role ID"
// @Success      200  {array}  map[string]interface{}
// @Failure      502  {object} map[string]string "Fetch failed"
// @Router       /api/rbac/roles/{id}/modules [get]
func (ctrl *RoleController) GetRoleModules(c *fiber.Ctx) error {
	modules, err := ctrl.Service.GetRoleModules(c.Context(), models.RoleID(c.Params("id")))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(modules)
}

// ListPermissions returns all permissions, or one category when ?category= is set.
//
// @Summary      List permissions
// @Tags         rbac
// @Produce      json
// @Param        category query string false "Permission category"
// @Success      200  {array}  map[string]interface{}
// @Failure      502  {object} map[string]string "Fetch failed"
// @Router       /api/rbac/permissions [get]
func (ctrl *RoleController) ListPermissions(c *fiber.Ctx) error {
	var (
		perms []models.Permission
		err   error
	)
	if category := c.Query("category"); category != "" {
		perms, err = ctrl.Service.GetPermissionsByCategory(c.Context(), category)
	} else {
		perms, err = ctrl.Service.GetAllPermissions(c.Context())
	}
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(perms)
}

// ListModules returns all modules, or the one registered at ?path=.
//
// @Summary      List modules from the data service
// @Tags         rbac
// @Produce      json
// @Param        path query string false "Module path"
// @Success      200  {array}  map[string]interface{}
// @Failure      502  {object} map[string]string "Fetch failed"
// @Router       /api/rbac/modules [get]
func (ctrl *RoleController) ListModules(c *fiber.Ctx) error {
	if path := c.Query("path"); path != "" {
		m, err := ctrl.Service.GetModuleByPath(c.Context(), path)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
		if m == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Module not found"})
		}
		return c.JSON(m)
	}

	modules, err := ctrl.Service.GetAllModules(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(modules)
}

// ClearCache godoc
// @Summary      Clear the data service caches
// @Tags         rbac
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Failure      403  {object} map[string]string "Not an administrator"
// @Router       /api/rbac/cache/clear [post]
func (ctrl *RoleController) ClearCache(c *fiber.Ctx) error {
	ctrl.Service.ClearCache()
	return c.JSON(fiber.Map{"message": "Cache cleared"})
}

// RefreshCache godoc
// @Summary      Reload the data service caches
// @Tags         rbac
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Failure      403  {object} map[string]string "Not an administrator"
// @Failure      502  {object} map[string]string "Fetch failed"
// @Router       /api/rbac/cache/refresh [post]
func (ctrl *RoleController) RefreshCache(c *fiber.Ctx) error {
	if err := ctrl.Service.RefreshCache(c.Context()); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Cache refreshed"})
}

// CreateRole godoc
// @Summary      Create a role
// @Tags         rbac
// @Accept       json
// @Produce      json
// @Param        input body RoleInput true "Role"
// @Success      201  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Invalid request"
// @Failure      403  {object} map[string]string "Not an administrator"
// @Router       /api/rbac/roles [post]
func (ctrl *RoleController) CreateRole(c *fiber.Ctx) error {
	var input RoleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	role, err := ctrl.Service.CreateRole(c.Context(), input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(role)
}

// UpdateRole godoc
// @Summary      Update a role
// @Tags         rbac
// @Accept       json
// @Produce      json
// @Param        id path string true "Role ID"
// @Param        input body RoleInput true "Role"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Invalid request"
// @Failure      403  {object} map[string]string "Not an administrator"
// @Router       /api/rbac/roles/{id} [put]
func (ctrl *RoleController) UpdateRole(c *fiber.Ctx) error {
	var input RoleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	role, err := ctrl.Service.UpdateRole(c.Context(), models.RoleID(c.Params("id")), input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(role)
}

// DeleteRole godoc
// @Summary      Delete a role
// @Tags         rbac
// @Produce      json
// @Param        id path string true "Role ID"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Delete failed"
// @Failure      403  {object} map[string]string "Not an administrator"
// @Router       /api/rbac/roles/{id} [delete]
func (ctrl *RoleController) DeleteRole(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteRole(c.Context(), models.RoleID(c.Params("id"))); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Role deleted successfully"})
}

// AssignRoleToUser godoc
// @Summary      Assign a role to a user
// @Tags         rbac
// @Accept       json
// @Produce      json
// @Param        input body UserRoleInput true "Assignment"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Invalid request"
// @Failure      403  {object} map[string]string "Not an administrator"
// @Router       /api/rbac/assignments/user-roles [post]
func (ctrl *RoleController) AssignRoleToUser(c *fiber.Ctx) error {
	var input UserRoleInput
	if err := c.BodyParser(&input); err != nil || input.UserID == "" || input.RoleID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "userId and roleId are required"})
	}
	if err := ctrl.Service.AssignRoleToUser(c.Context(), input.UserID, input.RoleID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Role assigned"})
}

// RemoveRoleFromUser godoc
// @Summary      Remove a role from a user
// @Tags         rbac
// @Accept       json
// @Produce      json
// @Param        input body UserRoleInput true "Assignment"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Invalid request"
// @Failure      403  {object} map[string]string "Not an administrator"
// @Router       /api/rbac/assignments/user-roles [delete]
func (ctrl *RoleController) RemoveRoleFromUser(c *fiber.Ctx) error {
	var input UserRoleInput
	if err := c.BodyParser(&input); err != nil || input.UserID == "" || input.RoleID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "userId and roleId are required"})
	}
	if err := ctrl.Service.RemoveRoleFromUser(c.Context(), input.UserID, input.RoleID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Role removed"})
}

// CreatePermission godoc
// @Summary      Create a permission
// @Tags         rbac
// @Accept       json
// @Produce      json
// @Param        input body PermissionInput true "Permission"
// @Success      201  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Invalid request"
// @Failure      403  {object} map[string]string "Not an administrator"
// @Router       /api/rbac/permissions [post]
func (ctrl *RoleController) CreatePermission(c *fiber.Ctx) error {
	var input PermissionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	perm, err := ctrl.Service.CreatePermission(c.Context(), input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(perm)
}

// UpdatePermission godoc
// @Summary      Update a permission
// @Tags         rbac
// @Accept       json
// @Produce      json
// @Param        id path string true "Permission ID"
// @Param        input body PermissionInput true "Permission"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Invalid request"
// @Failure      403  {object} map[string]string "Not an administrator"
// @Router       /api/rbac/permissions/{id} [put]
func (ctrl *RoleController) UpdatePermission(c *fiber.Ctx) error {
	var input PermissionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	perm, err := ctrl.Service.UpdatePermission(c.Context(), models.PermissionID(c.Params("id")), input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(perm)
}

// DeletePermission godoc
// @Summary      Delete a permission
// @Tags         rbac
// @Produce      json
// @Param        id path string true "Permission ID"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Delete failed"
// @Failure      403  {object} map[string]string "Not an administrator"
// @Router       /api/rbac/permissions/{id} [delete]
func (ctrl *RoleController) DeletePermission(c *fiber.Ctx) error {
	if err := ctrl.Service.DeletePermission(c.Context(), models.PermissionID(c.Params("id"))); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Permission deleted successfully"})
}

// AssignPermissionToRole godoc
// @Summary      Grant a permission to a role
// @Tags         rbac
// @Accept       json
// @Produce      json
// @Param        input body RolePermissionInput true "Assignment"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Invalid request"
// @Failure      403  {object} map[string]string "Not an administrator"
// @Router       /api/rbac/assignments/role-permissions [post]
func (ctrl *RoleController) AssignPermissionToRole(c *fiber.Ctx) error {
	var input RolePermissionInput
	if err := c.BodyParser(&input); err != nil || input.RoleID == "" || input.PermissionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "roleId and permissionId are required"})
	}
	if err := ctrl.Service.AssignPermissionToRole(c.Context(), input.RoleID, input.PermissionID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Permission assigned"})
}

// RemovePermissionFromRole godoc
// @Summary      Revoke a permission from a role
// @Tags         rbac
// @Accept       json
// @Produce      json
// @Param        input body RolePermissionInput true "Assignment"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Invalid request"
// @Failure      403  {object} map[string]string "Not an administrator"
// @Router       /api/rbac/assignments/role-permissions [delete]
func (ctrl *RoleController) RemovePermissionFromRole(c *fiber.Ctx) error {
	var input RolePermissionInput
	if err := c.BodyParser(&input); err != nil || input.RoleID == "" || input.PermissionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "roleId and permissionId are required"})
	}
	if err := ctrl.Service.RemovePermissionFromRole(c.Context(), input.RoleID, input.PermissionID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Permission removed"})
}
