package main

import (
	"fmt"
	"os"
	"time"

	"interior-planner/internal/common/config"
	"interior-planner/internal/common/logging"
	"interior-planner/internal/common/middleware"
	"interior-planner/internal/gateway/handlers"
	"interior-planner/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load("3000")
	logger := logging.New("gateway", cfg.LogLevel)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    50 * 1024 * 1024,
		AppName:      "API Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.CORS(cfg.CORSOrigins))
	app.Use(middleware.Logger("gateway"))

	// ============================================================
	// Health Check Routes
	// ============================================================

	health := handlers.NewHealth(map[string]string{
		"auth":    cfg.AuthURL,
		"planner": cfg.PlannerURL,
	})
	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe)
	app.Get("/health/startup", health.StartupProbe)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Interior Planner API v1",
			"status":  "ok",
		})
	})

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	p := proxy.New(time.Duration(cfg.WriteTimeout)*time.Second, logger)
	api.All("/auth/*", p.Mount(cfg.AuthURL))
	api.All("/planner/*", p.Mount(cfg.PlannerURL))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting API Gateway", "addr", addr, "env", cfg.Environment, "auth", cfg.AuthURL, "planner", cfg.PlannerURL)

	if err := app.Listen(addr); err != nil {
		logger.Error("failed to start server", "err", err)
		os.Exit(1)
	}
}
