package observability

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

// Metrics holds the collectors describing transitions, lifecycle phases and
// reconciler passes.
type Metrics struct {
	Transitions     *prometheus.CounterVec
	TransitionStart *prometheus.CounterVec
	Lifecycle       *prometheus.CounterVec
	Instantiations  prometheus.Histogram
	Running         prometheus.GaugeFunc

	runningSource *atomic.Int32
}

// NewMetrics creates the collectors and registers them on reg. running is the
// shared in-flight transition gauge; nil reports zero.
func NewMetrics(reg prometheus.Registerer, running *atomic.Int32) *Metrics {
	if running == nil {
		running = atomic.NewInt32(0)
	}
	m := &Metrics{
		runningSource: running,
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wayfinder_transitions_total",
				Help: "Settled transitions by operation, strategy and outcome",
			},
			[]string{"operation", "strategy", "outcome"},
		),
		TransitionStart: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wayfinder_transitions_started_total",
				Help: "Started transitions by operation and strategy",
			},
			[]string{"operation", "strategy"},
		),
		Lifecycle: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wayfinder_lifecycle_events_total",
				Help: "Lifecycle callbacks fired by phase",
			},
			[]string{"phase"},
		),
		Instantiations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wayfinder_reconcile_instantiations",
				Help:    "Destinations instantiated per reconciler pass",
				Buckets: []float64{0, 1, 2, 4, 8, 16},
			},
		),
	}
	m.Running = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "wayfinder_running_transitions",
			Help: "Transition animations currently in flight",
		},
		func() float64 { return float64(m.runningSource.Load()) },
	)
	if reg != nil {
		reg.MustRegister(m.Transitions, m.TransitionStart, m.Lifecycle, m.Instantiations, m.Running)
	}
	return m
}

// RunningSource returns the gauge the metrics read, to be shared with containers.
func (m *Metrics) RunningSource() *atomic.Int32 {
	return m.runningSource
}

// Hooks returns lifecycle hooks updating the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLifecycle: func(_ context.Context, e *domain.LifecycleEvent) {
			m.Lifecycle.WithLabelValues(string(e.Phase)).Inc()
		},
		OnTransitionStart: func(_ context.Context, e *domain.TransitionEvent) {
			m.TransitionStart.WithLabelValues(string(e.Operation), string(e.Strategy)).Inc()
		},
		OnTransitionFinish: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(string(e.Operation), string(e.Strategy), string(e.State)).Inc()
		},
		OnReconcile: func(_ context.Context, e *domain.ReconcileEvent) {
			m.Instantiations.Observe(float64(e.Instantiated))
		},
	}
}
