package access

import (
	"net/http/httptest"
	"testing"

	"go-chms/internal/common/models"
	"go-chms/internal/features/auth"
	"go-chms/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequireStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		guard  func(t *testing.T) *Guard
		req    Requirement
		status int
	}{
		{
			name:   "authorized",
			guard:  func(t *testing.T) *Guard { return newTestGuard(t, &models.User{ID: "u1", Roles: []string{"ADMIN"}}, testModules) },
			req:    Requirement{Roles: []string{"ADMIN"}},
			status: fiber.StatusOK,
		},
		{
			name:   "missing role",
			guard:  func(t *testing.T) *Guard { return newTestGuard(t, &models.User{ID: "u1", Roles: []string{"MEMBER"}}, testModules) },
			req:    Requirement{Roles: []string{"ADMIN"}},
			status: fiber.StatusForbidden,
		},
		{
			name:   "no session",
			guard:  func(t *testing.T) *Guard { return newTestGuard(t, nil, testModules) },
			status: fiber.StatusUnauthorized,
		},
		{
			name: "signing in",
			guard: func(t *testing.T) *Guard {
				sessions := auth.NewSessionStore(storage.NewMemoryStore())
				return newGuard(sessions, testModules, staticStatus(auth.StatusAuthenticating), false, zap.NewNop())
			},
			status: fiber.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/protected", tt.guard(t).Require("", tt.req), func(c *fiber.Ctx) error {
				return c.SendString("ok")
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
