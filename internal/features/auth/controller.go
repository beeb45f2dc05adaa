package auth

import (
	"errors"

	"go-chms/internal/graphql"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	AuthService AuthService
}

func NewAuthController(authService AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginRequest true "Credentials"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Invalid request"
// @Failure      401  {object} map[string]string "Rejected credentials"
// @Failure      502  {object} map[string]string "Server unreachable"
// @Router       /api/auth/login [post]
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := ctrl.AuthService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		status := fiber.StatusBadGateway
		var gqlErr *graphql.Error
		if errors.As(err, &gqlErr) {
			status = fiber.StatusUnauthorized
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(result)
}

// Logout godoc
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/auth/logout [post]
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	redirect := ctrl.AuthService.Logout(c.Context())
	return c.JSON(fiber.Map{"redirect": redirect})
}

// Session godoc
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/auth/session [get]
func (ctrl *AuthController) Session(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": ctrl.AuthService.Status(),
		"user":   ctrl.AuthService.CurrentUser(),
	})
}

// CheckRoute godoc
// @Summary      Check a route against the role table
// @Tags         auth
// @Produce      json
// @Param        route query string true "Route path"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Missing route"
// @Router       /api/auth/routes/check [get]
func (ctrl *AuthController) CheckRoute(c *fiber.Ctx) error {
	route := c.Query("route")
	if route == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "route is required"})
	}
	return c.JSON(fiber.Map{"route": route, "allowed": ctrl.AuthService.CanAccessRoute(route)})
}

// CheckDashboard godoc
// @Summary      Check a dashboard against the role table
// @Tags         auth
// @Produce      json
// @Param        dashboard query string true "Dashboard name"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string "Missing dashboard"
// @Router       /api/auth/dashboards/check [get]
func (ctrl *AuthController) CheckDashboard(c *fiber.Ctx) error {
	dashboard := c.Query("dashboard")
	if dashboard == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "dashboard is required"})
	}
	return c.JSON(fiber.Map{"dashboard": dashboard, "allowed": ctrl.AuthService.CanAccessDashboard(dashboard)})
}
