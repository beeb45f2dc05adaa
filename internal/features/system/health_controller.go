package system

import (
	"context"
	"time"

	"go-chms/internal/config"
	"go-chms/internal/database"
	"go-chms/internal/features/module"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const pingTimeout = 2 * time.Second

type RegistryStatus interface {
	State() module.State
	LastError() string
}

type HealthController struct {
	cfg      *config.Config
	mongodb  *database.MongodbDB
	redis    *database.RedisDB
	registry RegistryStatus
}

func NewHealthController(cfg *config.Config, mongodb *database.MongodbDB, redis *database.RedisDB, registry *module.Registry) *HealthController {
	return &HealthController{cfg: cfg, mongodb: mongodb, redis: redis, registry: registry}
}

// HealthCheck answers 503 when a configured backing store is unreachable.
// A registry running on fallback modules is reported but stays healthy.
//
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Failure      503  {object} map[string]string "Backing store unreachable"
// @Router       /health [get]
func (ctrl *HealthController) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), pingTimeout)
	defer cancel()

	checks := fiber.Map{"store": ctrl.cfg.StoreDriver}
	healthy := true

	if ctrl.mongodb != nil && ctrl.mongodb.DB != nil {
		if err := ctrl.mongodb.DB.Client().Ping(ctx, readpref.Primary()); err != nil {
			checks["mongo"] = err.Error()
			healthy = false
		} else {
			checks["mongo"] = "ok"
		}
	}
	if ctrl.redis != nil && ctrl.redis.Client != nil {
		if err := database.PingRedis(ctx, ctrl.redis.Client); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	modules := fiber.Map{"state": ctrl.registry.State()}
	if e := ctrl.registry.LastError(); e != "" {
		modules["error"] = e
	}
	checks["modules"] = modules

	status, code := "ok", fiber.StatusOK
	if !healthy {
		status, code = "degraded", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{"status": status, "checks": checks})
}
