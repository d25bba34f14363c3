package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"eventhub_backend/internals/caches"
	"eventhub_backend/internals/configs"
	database "eventhub_backend/internals/databases"
	"eventhub_backend/internals/features/events/scheduler"
	helper "eventhub_backend/internals/helpers"
	middlewares "eventhub_backend/internals/middlewares"
	authMw "eventhub_backend/internals/middlewares/auth"
	routes "eventhub_backend/internals/route"
	"eventhub_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	cfg, err := configs.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	configs.InitLogger(cfg.LogLevel, cfg.LogPretty)

	fiberCfg := fiber.Config{
		ErrorHandler:          helper.ErrorHandler,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		BodyLimit:             1 << 20,
	}
	cfg.ApplyProxy(&fiberCfg)
	app := fiber.New(fiberCfg)
	middlewares.SetupMiddlewares(app, cfg)

	// DB connect + pool + schema
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	database.TunePool(db)
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	if err := seeds.RunAllSeeds(db, cfg.SeedFile); err != nil {
		log.Error().Err(err).Msg("seeding failed")
	}

	// Redis is optional; without it the capacity endpoint reads live.
	var cache *caches.CapacityCache
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, capacity cache disabled")
			_ = rdb.Close()
			rdb = nil
		} else {
			cache = caches.NewCapacityCache(rdb, cfg.CapacityCacheTTL)
		}
		cancel()
	}

	// scheduler after DB is ready
	var purger scheduler.Purger
	if cache != nil {
		purger = cache
	}
	sched := scheduler.New(db, purger, cfg.CompletionCron)
	sched.RunOnce(context.Background())
	if err := sched.Add("@every 6h", "purge revoked tokens", func(ctx context.Context) (int64, error) {
		return authMw.PurgeExpired(ctx, db, time.Now())
	}); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.CompletionCron).Msg("scheduler")
	}

	routes.SetupRoutes(app, routes.Deps{DB: db, Cfg: cfg, Cache: cache})

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown: HTTP, cron, redis, DB pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	sched.Stop(ctx)
	if rdb != nil {
		_ = rdb.Close()
	}
	database.Close(db)
}
