package access

import (
	"github.com/gofiber/fiber/v2"
)

// Require runs Evaluate for route before the next handler. Loading answers
// 503, a missing session 401 and every other denial 403.
func (g *Guard) Require(route string, req Requirement) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := g.Evaluate(c.Context(), route, req)

		switch {
		case decision.Allowed():
			c.Locals("accessDecision", decision)
			return c.Next()
		case decision.State == StateLoading:
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":    "Sign-in in progress, try again shortly",
				"decision": decision,
			})
		case decision.Reason == ReasonSessionNotFound:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":    decision.Message,
				"decision": decision,
			})
		default:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":    decision.Message,
				"decision": decision,
			})
		}
	}
}
