package main

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "go-chms/docs"
	common_api "go-chms/internal/common/api"
	"go-chms/internal/config"
	"go-chms/internal/database"
	"go-chms/internal/features/access"
	"go-chms/internal/features/auth"
	"go-chms/internal/features/module"
	"go-chms/internal/features/navigation"
	"go-chms/internal/features/rbac"
	"go-chms/internal/features/system"
	"go-chms/internal/graphql"
	"go-chms/internal/logger"
	"go-chms/internal/middleware"
	"go-chms/internal/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const startupTimeout = 30 * time.Second

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg))

	return app
}

// AsRoute tags the constructor so Fx adds it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes calls Setup() on every member of the "routes" group.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, log *zap.Logger) {
	log.Info("Registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		log.Debug("Setting up route", zap.String("api", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer starts Fiber in a goroutine and shuts it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeSession restores the stored session and loads the module list.
// Neither step blocks startup: a failed fetch leaves the registry on its
// fallback list.
func InitializeSession(lc fx.Lifecycle, authService auth.AuthService, registry *module.Registry, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
				defer cancel()

				status := authService.Restore(ctx)
				log.Info("Session restored", zap.String("status", string(status)))

				if err := registry.Refresh(ctx); err != nil {
					log.Warn("Module registry started on fallback modules", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

func StartResync(lc fx.Lifecycle, resync *module.Resync) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return resync.Start()
		},
		OnStop: func(ctx context.Context) error {
			resync.Stop()
			return nil
		},
	})
}

// @title           go-chms access API
// @version         1.0
// @description     Session, module registry, navigation and access checks for the church dashboard.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			database.NewDatabase,
			database.NewRedis,
			logger.NewLogger,
			NewFiberServer,

			// Storage and transport
			storage.NewStore,
			graphql.NewClient,

			// Repositories
			rbac.NewRoleRepository,
			module.NewModuleRepository,

			// Services
			rbac.NewRoleService,
			fx.Annotate(
				module.NewRegistry,
				fx.As(fx.Self()),
				fx.As(new(navigation.ModuleSource)),
				fx.As(new(access.ModuleSource)),
			),
			module.NewResync,
			auth.NewSessionStore,
			auth.NewAuthService,
			access.NewGuard,

			// Interface adapters
			func(s auth.AuthService) navigation.UserSource { return s },
			func(s auth.AuthService) access.UserSource { return s },

			// Controllers
			rbac.NewRoleController,
			module.NewModuleController,
			navigation.NewNavigationController,
			auth.NewAuthController,
			access.NewAccessController,
			system.NewHealthController,

			// API routes
			AsRoute(rbac.NewRoleApi),
			AsRoute(module.NewModuleApi),
			AsRoute(navigation.NewNavigationApi),
			AsRoute(auth.NewAuthApi),
			AsRoute(access.NewAccessApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			InitializeSession,
			StartResync,
			StartServer,
		),
	)

	app.Run()
}
