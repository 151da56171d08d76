package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"interior-planner/internal/common/middleware"
	"interior-planner/internal/planner/metrics"
	"interior-planner/internal/planner/repository"
	"interior-planner/internal/planner/service"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Planner Handler
// ============================================================

type Handler struct {
	store    repository.Store
	sessions *service.SessionManager
	media    *service.MediaStorage
	metrics  *metrics.Metrics
	logger   *log.Logger
	timeout  time.Duration
}

func NewHandler(store repository.Store, sessions *service.SessionManager, media *service.MediaStorage, m *metrics.Metrics, logger *log.Logger) *Handler {
	return &Handler{
		store:    store,
		sessions: sessions,
		media:    media,
		metrics:  m,
		logger:   logger,
		timeout:  15 * time.Second,
	}
}

func (h *Handler) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.timeout)
}

var (
	errEmptyBody   = errors.New("empty body")
	errInvalidJSON = errors.New("invalid json")
)

func decode(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return errInvalidJSON
	}
	return nil
}

func badRequest(c fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func userID(c fiber.Ctx) string {
	if claims := middleware.Claims(c); claims != nil {
		return claims.UserID
	}
	return ""
}

func isAdmin(c fiber.Ctx) bool {
	claims := middleware.Claims(c)
	return claims != nil && claims.IsAdmin()
}
