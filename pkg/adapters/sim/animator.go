package sim

import (
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// Animator implements ports.AnimationDriver on a FrameLoop. The body runs
// immediately; the finish callback fires once the duration elapsed.
type Animator struct {
	loop    *FrameLoop
	next    ports.AnimationHandle
	running map[ports.AnimationHandle]ports.CancelFunc

	Started []domain.AnimationOptions
	Stopped int
}

// NewAnimator creates a driver bound to loop.
func NewAnimator(loop *FrameLoop) *Animator {
	return &Animator{
		loop:    loop,
		running: make(map[ports.AnimationHandle]ports.CancelFunc),
	}
}

// Animate starts an animation.
func (a *Animator) Animate(opts domain.AnimationOptions, body func(), onFinish func()) ports.AnimationHandle {
	a.next++
	h := a.next
	a.Started = append(a.Started, opts)
	if body != nil {
		body()
	}
	a.running[h] = a.loop.PostDelayed(opts.Delay+opts.Duration, func() {
		delete(a.running, h)
		if onFinish != nil {
			onFinish()
		}
	})
	return h
}

// Stop halts h without calling its finish callback.
func (a *Animator) Stop(h ports.AnimationHandle) {
	cancel, ok := a.running[h]
	if !ok {
		return
	}
	cancel()
	delete(a.running, h)
	a.Stopped++
}

// Active returns the number of animations still running.
func (a *Animator) Active() int {
	return len(a.running)
}
