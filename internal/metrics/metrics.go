package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Draw results used as the "result" label.
const (
	DrawOK           = "ok"
	DrawInsufficient = "insufficient"
	DrawInfeasible   = "infeasible"
	DrawInvalidInput = "invalid_input"
)

// Metrics holds all Prometheus metrics for the application.
// Its methods are no-ops on a nil *Metrics.
type Metrics struct {
	Draws          *prometheus.CounterVec
	DrawDuration   prometheus.Histogram
	Reveals        *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Draws: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "santa_draws_total",
			Help: "Total number of assignment draws by result",
		}, []string{"result"}),
		DrawDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "santa_draw_duration_seconds",
			Help:    "Time spent solving an assignment draw",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		Reveals: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "santa_reveals_total",
			Help: "Total number of reveal token lookups by outcome",
		}, []string{"result"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "santa_active_sessions",
			Help: "Number of tenant sessions held in memory",
		}),
	}
}

// ObserveDraw records one draw outcome and how long it took.
func (m *Metrics) ObserveDraw(result string, took time.Duration) {
	if m == nil {
		return
	}
	m.Draws.WithLabelValues(result).Inc()
	m.DrawDuration.Observe(took.Seconds())
}

// ObserveReveal records whether a reveal token decoded.
func (m *Metrics) ObserveReveal(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.Reveals.WithLabelValues("valid").Inc()
		return
	}
	m.Reveals.WithLabelValues("invalid").Inc()
}

// SetActiveSessions sets the number of live sessions.
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}
