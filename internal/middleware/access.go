package middleware

import (
	"go-chms/internal/common/models"
	"go-chms/internal/features/access"

	"github.com/gofiber/fiber/v2"
)

// AdminRoles may call the role, permission and module administration endpoints.
var AdminRoles = []string{models.RoleSuperAdmin, models.RoleGodMode, models.RoleSystemAdmin}

// RequireAccess protects an API route. An empty route skips the module check.
func RequireAccess(guard *access.Guard, route string, req access.Requirement) fiber.Handler {
	return guard.Require(route, req)
}

func RequireAdmin(guard *access.Guard) fiber.Handler {
	return RequireAccess(guard, "", access.Requirement{Roles: AdminRoles})
}
