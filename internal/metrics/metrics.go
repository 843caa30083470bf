package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for one server instance.
type Metrics struct {
	registry *prometheus.Registry

	slices         *prometheus.CounterVec
	framesProduced prometheus.Counter
	sliceDuration  prometheus.Histogram
	gridMoves      *prometheus.CounterVec
	generations    *prometheus.CounterVec
	exports        *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

// New registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		slices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spritekit",
			Name:      "slices_total",
			Help:      "Slice operations by topology and result.",
		}, []string{"topology", "result"}),
		framesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spritekit",
			Name:      "frames_produced_total",
			Help:      "Frames cut from source images.",
		}),
		sliceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spritekit",
			Name:      "slice_duration_seconds",
			Help:      "Time spent slicing and encoding frames.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		gridMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spritekit",
			Name:      "grid_moves_total",
			Help:      "Grid line moves by axis.",
		}, []string{"axis"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spritekit",
			Name:      "generation_requests_total",
			Help:      "Image generation requests by provider and result.",
		}, []string{"provider", "result"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spritekit",
			Name:      "exports_total",
			Help:      "Exports by format.",
		}, []string{"format"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spritekit",
			Name:      "editor_sessions",
			Help:      "Open editor sessions.",
		}),
	}
	m.registry.MustRegister(
		m.slices,
		m.framesProduced,
		m.sliceDuration,
		m.gridMoves,
		m.generations,
		m.exports,
		m.activeSessions,
		prometheus.NewGoCollector(),
	)
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveSlice records one slice call.
func (m *Metrics) ObserveSlice(topology string, frames int, took time.Duration, err error) {
	m.slices.WithLabelValues(topology, result(err)).Inc()
	if err == nil {
		m.framesProduced.Add(float64(frames))
	}
	m.sliceDuration.Observe(took.Seconds())
}

func (m *Metrics) GridMove(axis string) { m.gridMoves.WithLabelValues(axis).Inc() }

func (m *Metrics) Generation(provider string, err error) {
	m.generations.WithLabelValues(provider, result(err)).Inc()
}

func (m *Metrics) Export(format string) { m.exports.WithLabelValues(format).Inc() }

func (m *Metrics) SetActiveSessions(n int) { m.activeSessions.Set(float64(n)) }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
