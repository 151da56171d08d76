package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"interior-planner/internal/auth/handlers"
	"interior-planner/internal/auth/repository"
	"interior-planner/internal/auth/service"
	"interior-planner/internal/common/config"
	"interior-planner/internal/common/logging"
	"interior-planner/internal/common/middleware"
	"interior-planner/internal/common/token"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Auth Service
// ============================================================

func main() {
	cfg := config.Load("3002")
	logger := logging.New("auth", cfg.LogLevel)

	db, err := repository.OpenSQLite(cfg.AuthDBPath)
	if err != nil {
		logger.Fatal("open db", "err", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		logger.Fatal("init db", "err", err)
	}

	accounts := service.NewAccounts(repo)
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		if _, err := accounts.EnsureAdmin(context.Background(), "Admin", email, os.Getenv("ADMIN_PASSWORD")); err != nil {
			logger.Fatal("ensure admin", "err", err)
		}
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	authHandler := handlers.NewAuthHandler(repo, accounts, tokens, logger)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Auth Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("auth"))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		if err := db.PingContext(context.Background()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Auth Routes
	// ============================================================

	authHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting Auth Service", "addr", addr, "env", cfg.Environment)

	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", "err", err)
	}
}
