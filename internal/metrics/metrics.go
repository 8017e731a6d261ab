// Package metrics exposes Prometheus collectors for button and heartbeat activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/mode-button/internal/events"
	"github.com/sweeney/mode-button/internal/logic"
)

const namespace = "mode_button"

// Metrics holds the daemon's collectors.
type Metrics struct {
	registry *prometheus.Registry

	Presses        prometheus.Counter
	Actions        *prometheus.CounterVec
	DispatchErrors *prometheus.CounterVec
	HoldBlinks     prometheus.Histogram
	Probes         *prometheus.CounterVec
	Connected      prometheus.Gauge
	Renders        *prometheus.CounterVec
	Skips          prometheus.Counter
}

// New creates the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Presses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presses_total",
			Help:      "Button presses detected.",
		}),
		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Decisions taken on release, by action.",
		}, []string{"action"}),
		DispatchErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_errors_total",
			Help:      "Action commands that failed, by action.",
		}, []string{"action"}),
		HoldBlinks: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "hold_blinks",
			Help:      "Blink cycles counted per hold.",
			Buckets:   []float64{1, 5, 10, 15, 20, 30},
		}),
		Probes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Connectivity probes, by result.",
		}, []string{"state"}),
		Connected: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "network_connected",
			Help:      "1 if the last probe found the wireless interface connected.",
		}),
		Renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_renders_total",
			Help:      "Heartbeat status blinks, by state.",
		}, []string{"state"}),
		Skips: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_skips_total",
			Help:      "Heartbeat cycles skipped because the LED was in use.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Attach subscribes the collectors to bus and returns a function that detaches them.
func (m *Metrics) Attach(bus *events.Bus) func() {
	unsubs := []func(){
		events.Subscribe(bus, func(e events.PhaseChanged) {
			if e.Phase == logic.PhaseHolding {
				m.Presses.Inc()
			}
		}),
		events.Subscribe(bus, func(e events.ActionDecided) {
			action := string(e.Decision.Action)
			m.Actions.WithLabelValues(action).Inc()
			m.HoldBlinks.Observe(float64(e.Decision.BlinkCount))
			if e.Err != "" {
				m.DispatchErrors.WithLabelValues(action).Inc()
			}
		}),
		events.Subscribe(bus, func(e events.ConnectivityProbed) {
			m.Probes.WithLabelValues(string(e.State)).Inc()
			if e.State == logic.Connected {
				m.Connected.Set(1)
			} else {
				m.Connected.Set(0)
			}
		}),
		events.Subscribe(bus, func(e events.StatusRendered) {
			m.Renders.WithLabelValues(string(e.State)).Inc()
		}),
		events.Subscribe(bus, func(e events.RenderSkipped) {
			m.Skips.Inc()
		}),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
