package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interior-planner/internal/common/config"
	"interior-planner/internal/common/logging"
	"interior-planner/internal/common/middleware"
	"interior-planner/internal/common/token"
	"interior-planner/internal/planner/handlers"
	"interior-planner/internal/planner/metrics"
	"interior-planner/internal/planner/repository"
	"interior-planner/internal/planner/service"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"
)

// ============================================================
// Planner Service
// ============================================================

func main() {
	cfg := config.Load("3001")
	logger := logging.New("planner", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open store", "driver", cfg.StoreDriver, "err", err)
	}
	defer store.Close()

	sessions := service.NewSessionManager(cfg.SessionIdle)
	defer sessions.CloseAll()
	go sweepSessions(ctx, sessions, logger)

	m := metrics.New(func() float64 { return float64(sessions.Len()) })
	media := service.NewMediaStorage(cfg.MediaRoot)
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	h := handlers.NewHandler(store, sessions, media, m, logger)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    50 * 1024 * 1024,
		AppName:      "Planner Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("planner"))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready", "sessions": sessions.Len()})
	})

	// ============================================================
	// Planner Routes
	// ============================================================

	handlers.Register(app, h, middleware.Auth(tokens))

	// ============================================================
	// Server Start
	// ============================================================

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting Planner Service", "addr", addr, "env", cfg.Environment, "store", cfg.StoreDriver)

	if err := app.Listen(addr); err != nil {
		logger.Error("failed to start server", "err", err)
	}
}

// openStore выбирает хранилище по STORE_DRIVER и оборачивает его кэшем каталога, если задан REDIS_ADDR.
func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (repository.Store, error) {
	var (
		store repository.Store
		err   error
	)
	switch cfg.StoreDriver {
	case "sqlite":
		store, err = repository.OpenSQLite(ctx, cfg.PlannerDBPath)
	case "mongo":
		store, err = repository.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RedisAddr == "" {
		return store, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, catalog cache disabled", "addr", cfg.RedisAddr, "err", err)
		rdb.Close()
		return store, nil
	}
	return repository.NewCachedStore(store, rdb, cfg.CatalogTTL, logger), nil
}

func sweepSessions(ctx context.Context, sessions *service.SessionManager, logger *log.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				logger.Info("idle sessions closed", "count", n)
			}
		}
	}
}
