package runtime

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// TransitionProxy is handed to custom transitions. The custom code drives its
// own animation and reports completion through FinishTransition.
type TransitionProxy struct {
	o *Orchestrator
	t *Transition

	From      domain.NavContext
	To        domain.NavContext
	Operation domain.Operation

	interactive   bool
	success       bool
	finished      bool
	progress      float64
	cancelTimeout ports.CancelFunc
}

// IsInteractive reports whether the transition is gesture driven.
func (p *TransitionProxy) IsInteractive() bool {
	return p.interactive
}

// SetIsSuccess records whether the gesture committed. Only interactive
// transitions can be reported as unsuccessful.
func (p *TransitionProxy) SetIsSuccess(success bool) {
	if !p.interactive {
		return
	}
	p.success = success
}

// UpdateTransition records gesture progress in [0, 1].
func (p *TransitionProxy) UpdateTransition(progress float64) {
	if p.finished || !p.interactive {
		return
	}
	switch {
	case progress < 0:
		progress = 0
	case progress > 1:
		progress = 1
	}
	p.progress = progress
}

// Progress returns the last reported gesture progress.
func (p *TransitionProxy) Progress() float64 {
	return p.progress
}

// CancelTransition finishes an interactive transition as unsuccessful.
func (p *TransitionProxy) CancelTransition() {
	p.SetIsSuccess(false)
	p.FinishTransition()
}

// FinishTransition completes the transition. Subsequent calls are no-ops.
func (p *TransitionProxy) FinishTransition() {
	state := domain.StateFinished
	if p.interactive && !p.success {
		state = domain.StateCanceled
	}
	p.complete(p.o.ctx, state)
}

// Finished reports whether the proxy has completed.
func (p *TransitionProxy) Finished() bool {
	return p.finished
}

func (p *TransitionProxy) abort(ctx context.Context) {
	p.complete(ctx, domain.StateAborted)
}

func (p *TransitionProxy) complete(ctx context.Context, state domain.TransitionState) {
	if p.finished {
		return
	}
	p.finished = true
	if p.cancelTimeout != nil {
		p.cancelTimeout()
	}
	if p.o.proxy == p {
		p.o.proxy = nil
	}
	for i, x := range p.o.proxies {
		if x == p {
			p.o.proxies = append(p.o.proxies[:i], p.o.proxies[i+1:]...)
			break
		}
	}
	p.o.settle(ctx, p.t, state)
	p.o.OnFinishOneTransitionAnimation()
}
