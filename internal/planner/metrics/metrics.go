package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ============================================================
// Planner Metrics
// ============================================================

const (
	OutcomeOK       = "ok"
	OutcomeFailed   = "failed"
	OutcomeDegraded = "degraded"
)

type Metrics struct {
	registry       *prometheus.Registry
	SessionsOpened prometheus.Counter
	SessionsActive prometheus.GaugeFunc
	Loads          *prometheus.CounterVec
	Saves          *prometheus.CounterVec
}

// New регистрирует счётчики в отдельном реестре. active — число открытых сессий.
func New(active func() float64) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		SessionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "sessions_opened_total",
			Help:      "Editing sessions opened.",
		}),
		SessionsActive: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "planner",
			Name:      "sessions_active",
			Help:      "Editing sessions currently held in memory.",
		}, active),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "session_loads_total",
			Help:      "Session loads by outcome (degraded = project could not be recovered).",
		}, []string{"outcome"}),
		Saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "project_saves_total",
			Help:      "Project saves by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.SessionsOpened, m.SessionsActive, m.Loads, m.Saves)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
