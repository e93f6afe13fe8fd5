package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// Tree metrics
	TreeLoads      prometheus.Counter
	TreeLoadErrors prometheus.Counter

	// Favorites metrics
	FavoritesCount      prometheus.Gauge
	FavoritesSaves      prometheus.Counter
	FavoritesSaveErrors prometheus.Counter
	FavoritesLoadResets prometheus.Counter

	// Session metrics
	SessionsActive   prometheus.Gauge
	SessionsSpawned  prometheus.Counter
	SessionRestarts  prometheus.Counter
	SpawnFailures    prometheus.Counter
	SessionExits     *prometheus.CounterVec
	DirectoryChanges prometheus.Counter
	SpawnDuration    prometheus.Histogram
	EventsDropped    prometheus.Counter

	// Status listener metrics
	StatusRequests *prometheus.CounterVec
	StatusDuration *prometheus.HistogramVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time
}

// NewMetrics creates a new metrics collector on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	factory := promauto.With(reg)
	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		TreeLoads: factory.NewCounter(prometheus.CounterOpts{
			Name: "tami_tree_loads_total",
			Help: "Directories listed by the folder tree",
		}),
		TreeLoadErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "tami_tree_load_errors_total",
			Help: "Directory listings that failed and degraded to empty",
		}),

		FavoritesCount: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tami_favorites",
			Help: "Number of favorites in the store",
		}),
		FavoritesSaves: factory.NewCounter(prometheus.CounterOpts{
			Name: "tami_favorites_saves_total",
			Help: "Favorites persisted to disk",
		}),
		FavoritesSaveErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "tami_favorites_save_errors_total",
			Help: "Favorites saves that failed",
		}),
		FavoritesLoadResets: factory.NewCounter(prometheus.CounterOpts{
			Name: "tami_favorites_load_resets_total",
			Help: "Loads that found a missing or unreadable file and started empty",
		}),

		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tami_sessions_active",
			Help: "Sessions whose shell is running",
		}),
		SessionsSpawned: factory.NewCounter(prometheus.CounterOpts{
			Name: "tami_sessions_spawned_total",
			Help: "Shell processes started, including restarts",
		}),
		SessionRestarts: factory.NewCounter(prometheus.CounterOpts{
			Name: "tami_session_restarts_total",
			Help: "Terminated sessions restarted in place",
		}),
		SpawnFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "tami_session_spawn_failures_total",
			Help: "Shell spawns that failed",
		}),
		SessionExits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tami_session_exits_total",
			Help: "Session terminations by cause",
		}, []string{"cause"}),
		DirectoryChanges: factory.NewCounter(prometheus.CounterOpts{
			Name: "tami_session_directory_changes_total",
			Help: "Live directory updates reported by shell integration",
		}),
		SpawnDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tami_session_spawn_duration_seconds",
			Help:    "Time to start a shell process",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "tami_session_events_stale_total",
			Help: "Session events discarded because their process was replaced",
		}),

		StatusRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tami_status_requests_total",
			Help: "Requests served by the status listener",
		}, []string{"method", "path", "status"}),
		StatusDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tami_status_request_duration_seconds",
			Help:    "Status listener request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	m.Uptime = factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "tami_uptime_seconds",
		Help: "Seconds since the workspace started",
	}, func() float64 {
		return time.Since(m.startTime).Seconds()
	})

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the exposition handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
