package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
)

// NavBarState is the lifecycle state of the navigation bar / home surface.
type NavBarState struct {
	IsOnShow bool
}

// lifecycleHost is what the dispatcher needs from its container.
type lifecycleHost interface {
	destination(id domain.DestID) *domain.Destination
	navBarState() *NavBarState
	parentDestinationIsOnHide() bool
	nestedContainer(id string) (*Container, bool)
}

// Dispatcher fires lifecycle phases on destinations, the navigation bar and
// nested navigation containers. Every phase is idempotent per node.
type Dispatcher struct {
	containerID string
	host        lifecycleHost
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	now         func() time.Time
}

// NewDispatcher creates a dispatcher for one container.
func NewDispatcher(containerID string, host lifecycleHost, hooks domain.LifecycleHooks, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{
		containerID: containerID,
		host:        host,
		hooks:       hooks,
		logger:      logger,
		now:         time.Now,
	}
}

func isShowSide(phase domain.Phase) bool {
	return phase == domain.PhaseWillShow || phase == domain.PhaseShow || phase == domain.PhaseActive
}

// Fire runs one phase on one node. It reports whether the phase actually fired.
func (d *Dispatcher) Fire(ctx context.Context, ref domain.NodeRef, phase domain.Phase, reason domain.ActiveReason) bool {
	if isShowSide(phase) && d.host.parentDestinationIsOnHide() {
		d.logger.DebugContext(ctx, "parent destination hidden, skipping", "container", d.containerID, "phase", phase, "node", ref)
		return false
	}

	switch ref.Kind {
	case domain.KindNavBar:
		return d.fireNavBar(ctx, phase)
	case domain.KindStack, domain.KindHome:
		dest := d.host.destination(ref.ID)
		if dest == nil {
			return false
		}
		if !d.applyGuard(dest, phase) {
			return false
		}
		d.emit(ctx, ref, dest.Name, phase, reason)
		d.recurse(ctx, dest, phase, reason)
		return true
	}
	return false
}

// applyGuard checks and updates the per-destination flags for phase.
func (d *Dispatcher) applyGuard(dest *domain.Destination, phase domain.Phase) bool {
	switch phase {
	case domain.PhaseWillShow:
		return !dest.IsOnShow
	case domain.PhaseShow:
		if dest.IsOnShow {
			return false
		}
		dest.IsOnShow = true
	case domain.PhaseActive:
		if dest.IsActive || !dest.IsOnShow {
			return false
		}
		dest.IsActive = true
	case domain.PhaseInactive:
		if !dest.IsActive {
			return false
		}
		dest.IsActive = false
	case domain.PhaseWillHide:
		return dest.IsOnShow
	case domain.PhaseHide:
		if !dest.IsOnShow {
			return false
		}
		dest.IsOnShow = false
	case domain.PhaseWillDisappear:
		if dest.Disappearing {
			return false
		}
		dest.Disappearing = true
	}
	return true
}

func (d *Dispatcher) fireNavBar(ctx context.Context, phase domain.Phase) bool {
	nb := d.host.navBarState()
	switch phase {
	case domain.PhaseWillShow:
		if nb.IsOnShow {
			return false
		}
	case domain.PhaseShow:
		if nb.IsOnShow {
			return false
		}
		nb.IsOnShow = true
	case domain.PhaseWillHide:
		if !nb.IsOnShow {
			return false
		}
	case domain.PhaseHide:
		if !nb.IsOnShow {
			return false
		}
		nb.IsOnShow = false
	default:
		// The navigation bar has no active or disappear phases.
		return false
	}
	d.emit(ctx, domain.NavBarRef(), "navBar", phase, "")
	return true
}

// recurse forwards visibility phases into navigation containers hosted by dest.
func (d *Dispatcher) recurse(ctx context.Context, dest *domain.Destination, phase domain.Phase, reason domain.ActiveReason) {
	if phase == domain.PhaseWillDisappear || phase == domain.PhaseDisappear {
		return
	}
	for _, id := range dest.Nested {
		child, ok := d.host.nestedContainer(id)
		if !ok {
			continue
		}
		child.propagate(ctx, phase, reason)
	}
}

func (d *Dispatcher) emit(ctx context.Context, ref domain.NodeRef, name string, phase domain.Phase, reason domain.ActiveReason) {
	if phase != domain.PhaseActive && phase != domain.PhaseInactive {
		reason = ""
	}
	d.logger.DebugContext(ctx, "lifecycle", "container", d.containerID, "phase", phase, "name", name, "reason", reason)
	if d.hooks.OnLifecycle == nil {
		return
	}
	d.hooks.OnLifecycle(ctx, &domain.LifecycleEvent{
		Timestamp:   d.now(),
		ContainerID: d.containerID,
		Phase:       phase,
		Node:        ref,
		Name:        name,
		Reason:      reason,
	})
}

// Plan is the lifecycle work for one top change.
type Plan struct {
	Operation domain.Operation
	PreTop    domain.NodeRef
	NewTop    domain.NodeRef

	// Hide holds nodes leaving the visible set, top-down.
	Hide []domain.NodeRef
	// Show holds nodes entering the visible set, bottom-up.
	Show []domain.NodeRef

	Deactivate []domain.NodeRef
	Activate   []domain.NodeRef

	// Released destinations are destroyed once the transition settles.
	Released []domain.DestID
}

// Begin fires the phases that precede the animation: the outgoing side loses
// focus and is told it will hide.
func (d *Dispatcher) Begin(ctx context.Context, plan *Plan, reason domain.ActiveReason) {
	for _, ref := range plan.Deactivate {
		d.Fire(ctx, ref, domain.PhaseInactive, reason)
	}
	for _, ref := range plan.Hide {
		d.Fire(ctx, ref, domain.PhaseWillHide, reason)
	}
}

// Finish fires the phases that follow the animation. The outgoing side is
// processed completely before the incoming side.
func (d *Dispatcher) Finish(ctx context.Context, plan *Plan, reason domain.ActiveReason) {
	for _, ref := range plan.Hide {
		d.Fire(ctx, ref, domain.PhaseHide, reason)
	}
	for _, id := range plan.Released {
		d.Fire(ctx, domain.StackRef(id, -1), domain.PhaseWillDisappear, reason)
	}
	for _, ref := range plan.Show {
		d.Fire(ctx, ref, domain.PhaseWillShow, reason)
		d.Fire(ctx, ref, domain.PhaseShow, reason)
	}
	for _, ref := range plan.Activate {
		d.Fire(ctx, ref, domain.PhaseActive, reason)
	}
}

// Rollback undoes Begin after a canceled interactive transition. Nodes that
// were told they would hide are still on show; only focus is given back.
func (d *Dispatcher) Rollback(ctx context.Context, plan *Plan, reason domain.ActiveReason) {
	for _, ref := range plan.Deactivate {
		d.Fire(ctx, ref, domain.PhaseActive, reason)
	}
}

// Disappear fires the terminal phase of a released destination.
func (d *Dispatcher) Disappear(ctx context.Context, id domain.DestID) {
	dest := d.host.destination(id)
	if dest == nil {
		return
	}
	if !dest.Disappearing {
		d.Fire(ctx, domain.StackRef(id, dest.Index), domain.PhaseWillDisappear, domain.ReasonTransition)
	}
	d.emit(ctx, domain.StackRef(id, dest.Index), dest.Name, domain.PhaseDisappear, "")
}
