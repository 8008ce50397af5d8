// Package telemetry exports transition and frame counters to Prometheus
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lixenwraith/stagefx/transition"
)

const namespace = "stagefx"

// Metrics observes the orchestrator and the frame loop
// Collectors live in a private registry so tests and multiple stages never collide
type Metrics struct {
	registry *prometheus.Registry

	requested  prometheus.Counter
	started    *prometheus.CounterVec
	retargeted prometheus.Counter
	completed  prometheus.Counter
	stale      prometheus.Counter
	phases     *prometheus.CounterVec

	transitioning prometheus.Gauge
	phase         prometheus.Gauge

	frames      prometheus.Counter
	scroll      prometheus.Gauge
	dustWraps   prometheus.Gauge
	transitionS prometheus.Histogram
}

// New creates the collectors; withRuntime adds Go process collectors
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "transition", Name: "requests_total",
			Help: "Accepted page transition requests.",
		}),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "transition", Name: "started_total",
			Help: "Transitions started from idle, by motion profile.",
		}, []string{"profile"}),
		retargeted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "transition", Name: "retargeted_total",
			Help: "In-flight transitions whose target page was replaced.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "transition", Name: "completed_total",
			Help: "Transitions that returned to idle.",
		}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "transition", Name: "stale_ticks_total",
			Help: "Phase timer callbacks ignored because a newer schedule superseded them.",
		}),
		phases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "transition", Name: "phases_total",
			Help: "Phases entered.",
		}, []string{"phase"}),
		transitioning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "transition", Name: "active",
			Help: "1 while a transition is in flight.",
		}),
		phase: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "transition", Name: "phase",
			Help: "Current phase (0 idle, 1 hiding, 2 swapping, 3 revealing).",
		}),
		transitionS: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "transition", Name: "duration_seconds",
			Help:    "Wall time from start to completion, including retargets.",
			Buckets: []float64{0.5, 1, 1.5, 2, 2.5, 3, 5, 10},
		}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "render", Name: "frames_total",
			Help: "Frames advanced by the background field.",
		}),
		scroll: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "scroll", Name: "progress",
			Help: "Eased scroll progress in [0,1].",
		}),
		dustWraps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "particle", Name: "dust_wraps",
			Help: "Dust particles repositioned at the bound since the last reset.",
		}),
	}

	reg.MustRegister(
		m.requested, m.started, m.retargeted, m.completed, m.stale, m.phases,
		m.transitioning, m.phase, m.transitionS,
		m.frames, m.scroll, m.dustWraps,
	)
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// OnTransitionEvent implements transition.Observer
func (m *Metrics) OnTransitionEvent(ev transition.Event) {
	switch ev.Kind {
	case transition.EventRequested:
		m.requested.Inc()
	case transition.EventStarted:
		m.started.WithLabelValues(ev.Profile.String()).Inc()
		m.transitioning.Set(1)
	case transition.EventRetargeted:
		m.retargeted.Inc()
	case transition.EventPhase:
		m.phases.WithLabelValues(ev.Phase.String()).Inc()
		m.phase.Set(float64(ev.Phase))
	case transition.EventCompleted:
		m.completed.Inc()
		m.transitioning.Set(0)
	case transition.EventStale:
		m.stale.Inc()
	}
}

// ObserveDuration records a completed transition's wall time in seconds
func (m *Metrics) ObserveDuration(seconds float64) {
	m.transitionS.Observe(seconds)
}

// ObserveFrame records one advanced frame
func (m *Metrics) ObserveFrame(scrollProgress float64, dustWraps uint64) {
	m.frames.Inc()
	m.scroll.Set(scrollProgress)
	m.dustWraps.Set(float64(dustWraps))
}

// Registry exposes the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
