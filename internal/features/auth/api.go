package auth

import (
	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
}

func NewAuthApi(controller *AuthController) *AuthApi {
	return &AuthApi{controller: controller}
}

// Setup registers session routes
func (h *AuthApi) Setup(app *fiber.App) {
	auth := app.Group("/api/auth")
	auth.Post("/login", h.controller.Login)
	auth.Post("/logout", h.controller.Logout)
	auth.Get("/session", h.controller.Session)
	auth.Get("/routes/check", h.controller.CheckRoute)
	auth.Get("/dashboards/check", h.controller.CheckDashboard)
}
