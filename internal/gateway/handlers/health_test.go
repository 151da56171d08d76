package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upstream(t *testing.T, status int) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health/live" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func readiness(t *testing.T, upstreams map[string]string) (int, map[string]any) {
	t.Helper()
	h := NewHealth(upstreams)
	app := fiber.New()
	app.Get("/health/ready", h.ReadinessProbe)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestReadinessAllAlive(t *testing.T) {
	status, body := readiness(t, map[string]string{
		"auth":    upstream(t, http.StatusOK),
		"planner": upstream(t, http.StatusOK),
	})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
}

func TestReadinessDegraded(t *testing.T) {
	status, body := readiness(t, map[string]string{
		"auth":    upstream(t, http.StatusOK),
		"planner": upstream(t, http.StatusInternalServerError),
		"down":    "http://127.0.0.1:1",
	})

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", body["status"])
	report := body["upstreams"].(map[string]any)
	assert.Equal(t, "alive", report["auth"])
	assert.Equal(t, "unhealthy", report["planner"])
	assert.Equal(t, "unreachable", report["down"])
}

func TestLivenessAndStartup(t *testing.T) {
	h := NewHealth(nil)
	app := fiber.New()
	app.Get("/live", h.LivenessProbe)
	app.Get("/startup", h.StartupProbe)

	for _, path := range []string{"/live", "/startup"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
