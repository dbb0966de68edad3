// Package metrics exposes Prometheus collectors for game sessions and the
// HTTP surface. Collectors are registered on a private registry so several
// instances can coexist in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/neonsnake/internal/snake"
)

const namespace = "neonsnake"

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	gamesStarted   prometheus.Counter
	gamesOver      prometheus.Counter
	foodEaten      prometheus.Counter
	levelUps       prometheus.Counter
	collisions     *prometheus.CounterVec // bounded: "wall", "self"
	finalScore     prometheus.Histogram
	tickDuration   prometheus.Histogram
	renderDuration prometheus.Histogram
	particles      prometheus.Gauge
	sessions       prometheus.Gauge
	spectators     prometheus.Gauge
	wsMessages     prometheus.Counter
	requestLatency *prometheus.HistogramVec
	requestTotal   *prometheus.CounterVec
}

// New creates a Metrics with its own registry, including the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		gamesStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games started or restarted",
		}),
		gamesOver: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_over_total",
			Help:      "Games that ended in a collision",
		}),
		foodEaten: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "food_eaten_total",
			Help:      "Food items consumed",
		}),
		levelUps: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "level_ups_total",
			Help:      "Level transitions",
		}),
		collisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collisions_total",
			Help:      "Collisions by kind",
		}, []string{"kind"}),
		finalScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_score",
			Help:      "Score at game over",
			Buckets:   []float64{0, 50, 100, 250, 500, 1000, 2500, 5000},
		}),
		tickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent in a logic tick",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.005, 0.01},
		}),
		renderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent drawing a frame",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.016, 0.033, 0.05, 0.1},
		}),
		particles: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "particles",
			Help:      "Live effect particles in the most recent frame",
		}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Open game sessions",
		}),
		spectators: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "spectators_active",
			Help:      "Connected live spectators",
		}),
		wsMessages: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spectator_messages_total",
			Help:      "Messages broadcast to spectators",
		}),
		requestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		requestTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "endpoint", "status"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveEvent counts a simulation event.
func (m *Metrics) ObserveEvent(ev snake.Event) {
	if m == nil {
		return
	}
	switch e := ev.(type) {
	case snake.Started, snake.Restarted:
		m.gamesStarted.Inc()
	case snake.AteFood:
		m.foodEaten.Inc()
	case snake.LeveledUp:
		m.levelUps.Inc()
	case snake.Collided:
		m.collisions.WithLabelValues(e.Kind.String()).Inc()
	case snake.GameOver:
		m.gamesOver.Inc()
		m.finalScore.Observe(float64(e.Result.Score))
	}
}

// RecordTick records logic tick timing.
func (m *Metrics) RecordTick(d time.Duration) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(d.Seconds())
}

// RecordRender records frame draw timing.
func (m *Metrics) RecordRender(d time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(d.Seconds())
}

// SetParticles updates the particle gauge.
func (m *Metrics) SetParticles(n int) {
	if m == nil {
		return
	}
	m.particles.Set(float64(n))
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}

// SetSpectators updates the spectator gauge.
func (m *Metrics) SetSpectators(n int) {
	if m == nil {
		return
	}
	m.spectators.Set(float64(n))
}

// IncSpectatorMessages counts one broadcast.
func (m *Metrics) IncSpectatorMessages() {
	if m == nil {
		return
	}
	m.wsMessages.Inc()
}

// RecordRequest records HTTP request metrics. endpoint must be a route
// pattern, never a raw URL.
func (m *Metrics) RecordRequest(method, endpoint string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(method, endpoint).Observe(d.Seconds())
	m.requestTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
}
