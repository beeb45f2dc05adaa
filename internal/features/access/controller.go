package access

import (
	"sort"

	"go-chms/internal/common/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserSource interface {
	CurrentUser() *models.User
}

type AccessController struct {
	guard   *Guard
	users   UserSource
	modules ModuleSource
	logger  *zap.Logger
}

func NewAccessController(guard *Guard, users UserSource, modules ModuleSource, logger *zap.Logger) *AccessController {
	return &AccessController{guard: guard, users: users, modules: modules, logger: logger}
}

type CheckRequest struct {
	Path        string                `json:"path"`
	Roles       []string              `json:"roles"`
	Permissions []models.PermissionID `json:"permissions"`
	Mode        Mode                  `json:"mode"`
}

type VisibleRequest struct {
	Wrapper     string                `json:"wrapper"`
	Permissions []models.PermissionID `json:"permissions"`
	Modules     []models.ModuleID     `json:"modules"`
	RequireAll  bool                  `json:"requireAll"`
	Action      string                `json:"action"`
	Entity      string                `json:"entity"`
}

// Check runs the route guard. Denials are normal responses, not HTTP errors.
//
// @Summary      Run the route guard
// @Tags         access
// @Accept       json
// @Produce      json
// @Param        input body CheckRequest true "Route requirement"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Invalid request"
// @Router       /api/access/check [post]
func (ctrl *AccessController) Check(c *fiber.Ctx) error {
	var req CheckRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Mode == "" {
		req.Mode = ModeAny
	}
	if req.Mode != ModeAny && req.Mode != ModeAll {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mode must be ANY or ALL"})
	}

	decision := ctrl.guard.Evaluate(c.Context(), req.Path, Requirement{
		Roles:       req.Roles,
		Permissions: req.Permissions,
		Mode:        req.Mode,
	})
	return c.JSON(decision)
}

// Visible godoc
// @Summary      Evaluate a named visibility wrapper
// @Tags         access
// @Accept       json
// @Produce      json
// @Param        input body VisibleRequest true "Wrapper and requirements"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Invalid request"
// @Router       /api/access/visible [post]
func (ctrl *AccessController) Visible(c *fiber.Ctx) error {
	var req VisibleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	rule, ok := NamedRule(req.Wrapper, req.Permissions, req.Modules, req.RequireAll, req.Action, req.Entity)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown wrapper"})
	}

	caps := CapabilitiesFor(ctrl.users.CurrentUser(), ctrl.modules.Modules())
	return c.JSON(fiber.Map{"visible": Visible(caps, rule)})
}

// Capabilities godoc
// @Summary      Capabilities of the signed-in user
// @Tags         access
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/access/capabilities [get]
func (ctrl *AccessController) Capabilities(c *fiber.Ctx) error {
	caps := CapabilitiesFor(ctrl.users.CurrentUser(), ctrl.modules.Modules())
	return c.JSON(fiber.Map{
		"roles":               sortedStrings(caps.Roles.ToSlice()),
		"permissions":         sortedStrings(caps.Permissions.ToSlice()),
		"modules":             sortedStrings(caps.Modules.ToSlice()),
		"features":            sortedStrings(caps.Features.ToSlice()),
		"hasAdminFeatures":    caps.HasAdminFeatures(),
		"hasFinanceFeatures":  caps.HasFinanceFeatures(),
		"hasPastoralFeatures": caps.HasPastoralFeatures(),
	})
}

// Actions godoc
// @Summary      Action map of the signed-in user
// @Tags         access
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/access/actions [get]
func (ctrl *AccessController) Actions(c *fiber.Ctx) error {
	caps := CapabilitiesFor(ctrl.users.CurrentUser(), ctrl.modules.Modules())
	return c.JSON(caps.Actions)
}

// ExportMatrix godoc
// @Summary      Export the role access matrix
// @Tags         access
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}   file
// @Failure      401  {object} map[string]string "No session"
// @Failure      403  {object} map[string]string "Not an administrator"
// @Router       /api/access/matrix.xlsx [get]
func (ctrl *AccessController) ExportMatrix(c *fiber.Ctx) error {
	data, err := ExportAccessMatrix(ctrl.modules.Modules())
	if err != nil {
		ctrl.logger.Error("Failed to export access matrix", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export access matrix"})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="access-matrix.xlsx"`)
	return c.Send(data)
}

func sortedStrings[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	sort.Strings(out)
	return out
}
