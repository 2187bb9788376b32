package domain

import (
	"context"
	"time"
)

// Phase is a lifecycle phase fired on a destination or the navigation bar.
type Phase string

const (
	PhaseWillShow      Phase = "ON_WILL_SHOW"
	PhaseShow          Phase = "ON_SHOW"
	PhaseActive        Phase = "ON_ACTIVE"
	PhaseInactive      Phase = "ON_INACTIVE"
	PhaseWillHide      Phase = "ON_WILL_HIDE"
	PhaseHide          Phase = "ON_HIDE"
	PhaseWillDisappear Phase = "ON_WILL_DISAPPEAR"
	PhaseDisappear     Phase = "ON_DISAPPEAR"
)

// ActiveReason tells listeners why an ON_ACTIVE/ON_INACTIVE fired.
type ActiveReason string

const (
	ReasonTransition     ActiveReason = "TRANSITION"
	ReasonAppStateChange ActiveReason = "APP_STATE_CHANGE"
)

// LifecycleEvent is emitted for every phase the dispatcher fires.
type LifecycleEvent struct {
	Timestamp   time.Time    `json:"timestamp"`
	ContainerID string       `json:"container_id"`
	Phase       Phase        `json:"phase"`
	Node        NodeRef      `json:"node"`
	Name        string       `json:"name"`
	Reason      ActiveReason `json:"reason,omitempty"`
}

// TransitionEvent is emitted when a transition starts and when it settles.
type TransitionEvent struct {
	Timestamp   time.Time       `json:"timestamp"`
	ContainerID string          `json:"container_id"`
	Operation   Operation       `json:"operation"`
	Strategy    Strategy        `json:"strategy"`
	State       TransitionState `json:"state"`
	From        NodeRef         `json:"from"`
	To          NodeRef         `json:"to"`
}

// ReconcileEvent summarises one reconciler pass.
type ReconcileEvent struct {
	ContainerID       string `json:"container_id"`
	StackSize         int    `json:"stack_size"`
	Instantiated      int    `json:"instantiated"`
	Dropped           int    `json:"dropped"`
	LastStandardIndex int    `json:"last_standard_index"`
	ForceSet          bool   `json:"force_set"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnLifecycle        func(context.Context, *LifecycleEvent)
	OnTransitionStart  func(context.Context, *TransitionEvent)
	OnTransitionFinish func(context.Context, *TransitionEvent)
	OnReconcile        func(context.Context, *ReconcileEvent)
}

// Merge returns hooks that call h first and then o for every callback.
func (h LifecycleHooks) Merge(o LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnLifecycle:        chain(h.OnLifecycle, o.OnLifecycle),
		OnTransitionStart:  chain(h.OnTransitionStart, o.OnTransitionStart),
		OnTransitionFinish: chain(h.OnTransitionFinish, o.OnTransitionFinish),
		OnReconcile:        chain(h.OnReconcile, o.OnReconcile),
	}
}

func chain[T any](a, b func(context.Context, T)) func(context.Context, T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, v T) {
		a(ctx, v)
		b(ctx, v)
	}
}
