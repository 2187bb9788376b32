package sim

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Trace records lifecycle and transition events as they happen.
type Trace struct {
	Lifecycle   []domain.LifecycleEvent
	Transitions []domain.TransitionEvent
	Reconciles  []domain.ReconcileEvent
}

// Hooks returns hooks that append to the trace.
func (t *Trace) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLifecycle: func(_ context.Context, e *domain.LifecycleEvent) {
			t.Lifecycle = append(t.Lifecycle, *e)
		},
		OnTransitionFinish: func(_ context.Context, e *domain.TransitionEvent) {
			t.Transitions = append(t.Transitions, *e)
		},
		OnReconcile: func(_ context.Context, e *domain.ReconcileEvent) {
			t.Reconciles = append(t.Reconciles, *e)
		},
	}
}

// Calls returns the lifecycle trace as "Name.PHASE" strings.
func (t *Trace) Calls() []string {
	out := make([]string, len(t.Lifecycle))
	for i, e := range t.Lifecycle {
		out[i] = e.Name + "." + string(e.Phase)
	}
	return out
}

// CallsFor returns the phases fired on name, in order.
func (t *Trace) CallsFor(name string) []domain.Phase {
	var out []domain.Phase
	for _, e := range t.Lifecycle {
		if e.Name == name {
			out = append(out, e.Phase)
		}
	}
	return out
}

// Reset clears the trace.
func (t *Trace) Reset() {
	t.Lifecycle = nil
	t.Transitions = nil
	t.Reconciles = nil
}
