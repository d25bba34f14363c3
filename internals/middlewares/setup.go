package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"eventhub_backend/internals/configs"
	"eventhub_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the global chain. The access logger wraps recovery so
// a panicking request still gets its log line and request id.
func SetupMiddlewares(app *fiber.App, cfg *configs.AppConfig) {
	app.Use(logger.LoggerMiddleware())
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware(cfg.CorsOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(GlobalRateLimiter())
}
