package api

import (
	"insightx/docs"
	"insightx/internal/api/handlers"
	"insightx/pkg/auth"
	"insightx/pkg/config"
	"insightx/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func SetupRouter(
	cfg *config.ServerConfig,
	queryHandler *handlers.QueryHandler,
	knowledgeHandler *handlers.KnowledgeHandler,
	authHandler *handlers.AuthHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    cfg.BodyLimit,
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

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))

	// Importing docs registers the swagger spec.
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/api/health", knowledgeHandler.Health)

	v1 := app.Group("/api/v1")
	v1.Get("/health", knowledgeHandler.Health)
	v1.Post("/query", queryHandler.Query)
	v1.Get("/overview", queryHandler.Overview)
	v1.Get("/intents", queryHandler.Intents)
	v1.Get("/knowledge", knowledgeHandler.Export)
	v1.Get("/knowledge/:dimension/:value", knowledgeHandler.Lookup)

	admin := v1.Group("/admin")
	admin.Post("/login", authHandler.Login)
	admin.Post("/rebuild", middleware.AdminOnly(jwtManager, appLogger), knowledgeHandler.Rebuild)

	appLogger.Info("Routes registered", zap.Int("handlers", int(app.HandlersCount())))
	return app
}
