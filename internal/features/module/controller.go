package module

import (
	"context"

	"go-chms/internal/common/models"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ModuleController struct {
	Registry *Registry
	logger   *zap.Logger
}

func NewModuleController(registry *Registry, logger *zap.Logger) *ModuleController {
	return &ModuleController{Registry: registry, logger: logger}
}

func (ctrl *ModuleController) stateResponse() fiber.Map {
	var lastErr any
	if e := ctrl.Registry.LastError(); e != "" {
		lastErr = e
	}
	return fiber.Map{
		"modules": ctrl.Registry.Modules(),
		"loading": ctrl.Registry.Loading(),
		"error":   lastErr,
		"state":   ctrl.Registry.State(),
	}
}

// ListModules godoc
// @Summary      List modules with registry state
// @Tags         modules
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/modules [get]
func (ctrl *ModuleController) ListModules(c *fiber.Ctx) error {
	return c.JSON(ctrl.stateResponse())
}

// ListEnabledModules godoc
// @Summary      List enabled modules
// @Tags         modules
// @Produce      json
// @Success      200  {array}  map[string]interface{}
// @Router       /api/modules/enabled [get]
func (ctrl *ModuleController) ListEnabledModules(c *fiber.Ctx) error {
	return c.JSON(ctrl.Registry.GetEnabledModules())
}

// UpdateModule godoc
// @Summary      Enable or disable a module
// @Tags         modules
// @Accept       json
// @Produce      json
// @Param        id path string true "Module ID"
// @Param        input body map[string]interface{} true "Enabled flag"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Invalid request"
// @Failure      502  {object} map[string]string "Update rejected"
// @Router       /api/modules/{id} [put]
func (ctrl *ModuleController) UpdateModule(c *fiber.Ctx) error {
	var body struct {
		Enabled *bool `json:"enabled"`
	}
	if err := c.BodyParser(&body); err != nil || body.Enabled == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "enabled is required"})
	}

	id := models.ModuleID(c.Params("id"))
	if err := ctrl.Registry.UpdateModule(c.Context(), id, *body.Enabled); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ctrl.stateResponse())
}

// UpdateModules godoc
// @Summary      Replace the module list
// @Tags         modules
// @Accept       json
// @Produce      json
// @Param        input body map[string]interface{} true "Module list"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Invalid request"
// @Failure      502  {object} map[string]string "Update rejected"
// @Router       /api/modules [put]
func (ctrl *ModuleController) UpdateModules(c *fiber.Ctx) error {
	var body struct {
		Modules []models.Module `json:"modules"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(body.Modules) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "modules must not be empty"})
	}

	if err := ctrl.Registry.UpdateModules(c.Context(), body.Modules); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ctrl.stateResponse())
}

// RefreshModules never fails the request: a degraded fetch is reported as a warning.
//
// @Summary      Reload modules from the server
// @Tags         modules
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/modules/refresh [post]
func (ctrl *ModuleController) RefreshModules(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), resyncTimeout)
	defer cancel()

	err := ctrl.Registry.Refresh(ctx)
	resp := ctrl.stateResponse()
	if err != nil {
		resp["warning"] = err.Error()
	}
	return c.JSON(resp)
}

// StreamModules pushes the module list on connect and after every change.
func (ctrl *ModuleController) StreamModules(c *websocket.Conn) {
	updates, unsubscribe := ctrl.Registry.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := c.WriteJSON(ctrl.Registry.Modules()); err != nil {
		ctrl.logger.Debug("websocket write failed", zap.Error(err))
		return
	}

	for {
		select {
		case <-done:
			return
		case modules, ok := <-updates:
			if !ok {
				return
			}
			if err := c.WriteJSON(modules); err != nil {
				ctrl.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}
