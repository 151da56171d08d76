package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/sync/errgroup"
)

// ============================================================
// Health Check Handlers
// ============================================================

// Health проверяет gateway и его upstream-сервисы.
type Health struct {
	upstreams map[string]string // name -> base URL
	client    *http.Client
}

func NewHealth(upstreams map[string]string) *Health {
	return &Health{
		upstreams: upstreams,
		client:    &http.Client{Timeout: 2 * time.Second},
	}
}

// LivenessProbe проверяет, что приложение работает
func (h *Health) LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe опрашивает /health/live всех upstream-сервисов параллельно.
func (h *Health) ReadinessProbe(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.upstreams))
	for name := range h.upstreams {
		names = append(names, name)
	}
	statuses := make([]string, len(names))

	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			statuses[i] = h.probe(ctx, h.upstreams[name])
			return nil
		})
	}
	_ = g.Wait()

	report := fiber.Map{}
	ready := true
	for i, name := range names {
		report[name] = statuses[i]
		if statuses[i] != "alive" {
			ready = false
		}
	}

	if !ready {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "upstreams": report})
	}
	return c.JSON(fiber.Map{"status": "ready", "upstreams": report})
}

// StartupProbe проверяет, что приложение успешно запустилось
func (h *Health) StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}

func (h *Health) probe(ctx context.Context, baseURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health/live", nil)
	if err != nil {
		return "invalid"
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return "unreachable"
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "unhealthy"
	}
	return "alive"
}
