package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/wayfinder/internal/runtime"
	"github.com/aretw0/wayfinder/pkg/adapters/sim"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	a := domain.StackRef(1, 0)
	b := domain.StackRef(2, 1)
	tests := []struct {
		name        string
		pre, next   domain.NodeRef
		replace     int
		preTopInNew bool
		want        domain.Operation
	}{
		{"same identity", a, domain.HomeRef(1, 0), 0, true, domain.OpNone},
		{"both absent", domain.NodeRef{}, domain.NavBarRef(), 0, false, domain.OpNone},
		{"replace counter", a, b, 1, false, domain.OpReplace},
		{"from nav bar", domain.NavBarRef(), b, 0, false, domain.OpPush},
		{"from empty", domain.NodeRef{}, a, 0, false, domain.OpPush},
		{"to nav bar", a, domain.NavBarRef(), 0, false, domain.OpPop},
		{"previous top removed", b, a, 0, false, domain.OpPop},
		{"previous top kept", a, b, 0, true, domain.OpPush},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runtime.Classify(tt.pre, tt.next, tt.replace, tt.preTopInNew))
		})
	}
}

func TestOrchestrator_CounterNeverNegative(t *testing.T) {
	o := runtime.NewOrchestrator("c", nil, nil, runtime.DefaultTransitionConfig())

	o.OnFinishOneTransitionAnimation()
	assert.Zero(t, o.Running())

	idle := 0
	o.OnStartOneTransitionAnimation()
	o.OnStartOneTransitionAnimation()
	o.OnIdle(func() { idle++ })
	o.OnFinishOneTransitionAnimation()
	assert.Zero(t, idle)
	o.OnFinishOneTransitionAnimation()
	o.OnFinishOneTransitionAnimation()

	assert.Equal(t, 1, idle)
	assert.Zero(t, o.Running())
	assert.Equal(t, int32(0), o.RunningGauge().Load())

	o.OnIdle(func() { idle++ })
	assert.Equal(t, 2, idle, "runs immediately when idle")
}

func TestOrchestrator_NoAnimationWhenPinnedOrDisabled(t *testing.T) {
	loop := sim.NewFrameLoop()
	anim := sim.NewAnimator(loop)
	o := runtime.NewOrchestrator("c", anim, loop, runtime.DefaultTransitionConfig())
	ctx := context.Background()

	for _, tr := range []*runtime.Transition{
		{Operation: domain.OpPush, Animated: false},
		{Operation: domain.OpPush, Animated: true, PinnedToPrimary: true},
	} {
		o.Start(ctx, tr)
		assert.Equal(t, domain.StrategyNone, tr.Strategy)
		assert.Equal(t, domain.StateFinished, tr.State)
	}
	assert.Empty(t, anim.Started)
}

func TestOrchestrator_AbortAll(t *testing.T) {
	loop := sim.NewFrameLoop()
	anim := sim.NewAnimator(loop)
	o := runtime.NewOrchestrator("c", anim, loop, runtime.DefaultTransitionConfig())
	ctx := context.Background()

	var states []domain.TransitionState
	settle := func(_ context.Context, s domain.TransitionState) { states = append(states, s) }
	first := &runtime.Transition{Operation: domain.OpPush, Animated: true, Settle: settle}
	second := &runtime.Transition{Operation: domain.OpPop, Animated: true, Settle: settle}
	o.Start(ctx, first)
	o.Start(ctx, second)
	require.Equal(t, 4, o.Running())

	abortedInIdle := false
	o.OnIdle(func() { abortedInIdle = o.Aborted() })
	o.AbortAll(ctx)

	assert.Zero(t, o.Running())
	assert.Equal(t, 4, anim.Stopped)
	assert.Equal(t, []domain.TransitionState{domain.StateAborted, domain.StateAborted}, states)
	assert.True(t, abortedInIdle, "idle callbacks can tell an abort from a natural finish")
	assert.False(t, o.Aborted())

	loop.Drain()
	assert.Len(t, states, 2, "stopped animations never finish")
}

// syncDriver finishes every animation before Animate returns.
type syncDriver struct{ stops int }

func (d *syncDriver) Animate(_ domain.AnimationOptions, body func(), onFinish func()) ports.AnimationHandle {
	body()
	onFinish()
	return 1
}

func (d *syncDriver) Stop(ports.AnimationHandle) { d.stops++ }

func TestOrchestrator_SynchronousFinish(t *testing.T) {
	d := &syncDriver{}
	o := runtime.NewOrchestrator("c", d, nil, runtime.DefaultTransitionConfig())

	settled := 0
	tr := &runtime.Transition{
		Operation: domain.OpPush,
		Animated:  true,
		Settle:    func(context.Context, domain.TransitionState) { settled++ },
	}
	o.Start(context.Background(), tr)

	assert.Equal(t, 1, settled)
	assert.Zero(t, o.Running())
	o.AbortAll(context.Background())
	assert.Zero(t, d.stops)
}

func TestOrchestrator_Hooks(t *testing.T) {
	trace := &sim.Trace{}
	started := 0
	hooks := trace.Hooks().Merge(domain.LifecycleHooks{
		OnTransitionStart: func(context.Context, *domain.TransitionEvent) { started++ },
	})
	o := runtime.NewOrchestrator("c", nil, nil, runtime.DefaultTransitionConfig(), runtime.WithTransitionHooks(hooks))

	o.Start(context.Background(), &runtime.Transition{Operation: domain.OpPush, Animated: true})

	assert.Equal(t, 1, started)
	require.Len(t, trace.Transitions, 1)
	assert.Equal(t, domain.StrategyNone, trace.Transitions[0].Strategy, "no driver, no animation")
}

func TestTransitionProxy(t *testing.T) {
	var proxy *runtime.TransitionProxy
	custom := func(_, _ domain.NavContext, _ domain.Operation) *runtime.CustomAnimation {
		return &runtime.CustomAnimation{Transition: func(p *runtime.TransitionProxy) { proxy = p }}
	}
	loop := sim.NewFrameLoop()
	o := runtime.NewOrchestrator("c", sim.NewAnimator(loop), loop, runtime.DefaultTransitionConfig(),
		runtime.WithCustomTransition(custom))

	tr := &runtime.Transition{Operation: domain.OpPush, Animated: true}
	o.Start(context.Background(), tr)
	require.NotNil(t, proxy)
	assert.False(t, proxy.IsInteractive())
	_, ok := o.Current()
	assert.False(t, ok, "only interactive proxies are current")

	proxy.SetIsSuccess(false)
	proxy.UpdateTransition(0.5)
	assert.Zero(t, proxy.Progress())
	proxy.FinishTransition()
	proxy.FinishTransition()

	assert.Equal(t, domain.StateFinished, tr.State, "non-interactive transitions always succeed")
	assert.Zero(t, o.Running())
	assert.True(t, proxy.Finished())
}

func TestTransitionProxy_InteractiveReplacesCurrent(t *testing.T) {
	var proxies []*runtime.TransitionProxy
	custom := func(_, _ domain.NavContext, _ domain.Operation) *runtime.CustomAnimation {
		return &runtime.CustomAnimation{
			Interactive: true,
			Transition:  func(p *runtime.TransitionProxy) { proxies = append(proxies, p) },
		}
	}
	loop := sim.NewFrameLoop()
	o := runtime.NewOrchestrator("c", sim.NewAnimator(loop), loop, runtime.DefaultTransitionConfig(),
		runtime.WithCustomTransition(custom))
	ctx := context.Background()

	first := &runtime.Transition{Operation: domain.OpPush, Animated: true}
	second := &runtime.Transition{Operation: domain.OpPush, Animated: true}
	o.Start(ctx, first)
	o.Start(ctx, second)

	require.Len(t, proxies, 2)
	assert.Equal(t, domain.StateAborted, first.State)
	cur, ok := o.Current()
	require.True(t, ok)
	assert.Same(t, proxies[1], cur)
	assert.Equal(t, 1, o.Running())

	proxies[1].UpdateTransition(2)
	assert.Equal(t, 1.0, proxies[1].Progress())
	proxies[1].CancelTransition()
	assert.Equal(t, domain.StateCanceled, second.State)
	assert.Zero(t, o.Running())
}
