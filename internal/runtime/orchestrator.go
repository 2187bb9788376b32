package runtime

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/atomic"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// TransitionConfig parameterises the built-in strategies.
type TransitionConfig struct {
	// Duration of the default and dialog animations.
	Duration time.Duration
	// DialogCrossfade selects the crossfade-with-mask dialog path. When false,
	// dialogs appear without animation.
	DialogCrossfade bool
	// Timeout force-finishes custom transitions that never complete. Zero disables it.
	Timeout time.Duration
}

// DefaultTransitionConfig returns the engine defaults.
func DefaultTransitionConfig() TransitionConfig {
	return TransitionConfig{
		Duration:        300 * time.Millisecond,
		DialogCrossfade: true,
	}
}

// CustomAnimation is the descriptor a custom transition callback returns.
type CustomAnimation struct {
	// Timeout overrides TransitionConfig.Timeout when positive.
	Timeout     time.Duration
	Interactive bool
	// Transition receives the proxy and must eventually finish it.
	Transition func(*TransitionProxy)
}

func (c *CustomAnimation) valid() bool {
	return c != nil && c.Transition != nil
}

// CustomTransition is registered by the application. Returning nil means "use
// the built-in strategy for this change".
type CustomTransition func(from, to domain.NavContext, op domain.Operation) *CustomAnimation

// Transition is one classified top change being driven by the orchestrator.
type Transition struct {
	Operation domain.Operation
	Strategy  domain.Strategy
	State     domain.TransitionState
	From      domain.NavContext
	To        domain.NavContext

	// Animated is false when the path operation asked for no animation.
	Animated bool
	// PinnedToPrimary is set when an endpoint lives in the primary partition.
	PinnedToPrimary bool

	// Settle is invoked exactly once when the transition reaches a terminal state.
	Settle func(ctx context.Context, state domain.TransitionState)

	pending int
	proxy   *TransitionProxy
}

// Terminal reports whether the transition has settled.
func (t *Transition) Terminal() bool {
	switch t.State {
	case domain.StateFinished, domain.StateAborted, domain.StateCanceled:
		return true
	}
	return false
}

type animation struct {
	t      *Transition
	handle ports.AnimationHandle
	done   bool
}

// Orchestrator classifies top changes, selects a strategy and tracks every
// in-flight animation of one container.
type Orchestrator struct {
	containerID string
	driver      ports.AnimationDriver
	scheduler   ports.Scheduler
	cfg         TransitionConfig
	custom      CustomTransition
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	now         func() time.Time

	running int
	gauge   *atomic.Int32
	aborted bool

	active  []*animation
	proxies []*TransitionProxy
	proxy   *TransitionProxy
	onIdle  []func()
	ctx     context.Context
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithCustomTransition registers the application's custom transition callback.
func WithCustomTransition(fn CustomTransition) OrchestratorOption {
	return func(o *Orchestrator) {
		o.custom = fn
	}
}

// WithTransitionHooks sets the hooks notified on transition start and finish.
func WithTransitionHooks(h domain.LifecycleHooks) OrchestratorOption {
	return func(o *Orchestrator) {
		o.hooks = h
	}
}

// WithOrchestratorLogger sets the logger.
func WithOrchestratorLogger(l *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRunningGauge shares the running counter mirror with an outside reader.
// Several orchestrators may share one gauge; it then holds their sum.
func WithRunningGauge(g *atomic.Int32) OrchestratorOption {
	return func(o *Orchestrator) {
		if g != nil {
			o.gauge = g
		}
	}
}

// NewOrchestrator creates an orchestrator. A nil driver disables animations.
func NewOrchestrator(containerID string, driver ports.AnimationDriver, scheduler ports.Scheduler, cfg TransitionConfig, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		containerID: containerID,
		driver:      driver,
		scheduler:   scheduler,
		cfg:         cfg,
		logger:      logging.NewNop(),
		now:         time.Now,
		gauge:       atomic.NewInt32(0),
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Classify maps a top change onto an operation. The navigation bar counts as
// an absent endpoint.
func Classify(preTop, newTop domain.NodeRef, replace int, preTopInNew bool) domain.Operation {
	preAbsent := preTop.IsAbsent() || preTop.Kind == domain.KindNavBar
	newAbsent := newTop.IsAbsent() || newTop.Kind == domain.KindNavBar
	switch {
	case preAbsent && newAbsent, preTop.Same(newTop):
		return domain.OpNone
	case replace != 0:
		return domain.OpReplace
	case preAbsent:
		return domain.OpPush
	case newAbsent, !preTopInNew:
		return domain.OpPop
	default:
		return domain.OpPush
	}
}

// Running returns the number of in-flight animations.
func (o *Orchestrator) Running() int {
	return o.running
}

// RunningGauge returns the counter mirror, safe to read from any goroutine.
func (o *Orchestrator) RunningGauge() *atomic.Int32 {
	return o.gauge
}

// Aborted reports whether the in-flight transitions are being torn down by an abort.
func (o *Orchestrator) Aborted() bool {
	return o.aborted
}

// Current returns the interactive proxy waiting for the gesture to complete.
func (o *Orchestrator) Current() (*TransitionProxy, bool) {
	if o.proxy == nil || o.proxy.finished {
		return nil, false
	}
	return o.proxy, true
}

// OnStartOneTransitionAnimation must be called once per animation started.
func (o *Orchestrator) OnStartOneTransitionAnimation() {
	o.running++
	o.gauge.Inc()
}

// OnFinishOneTransitionAnimation must be called once per logical completion,
// aborts included. When the counter reaches zero the idle callbacks run.
func (o *Orchestrator) OnFinishOneTransitionAnimation() {
	if o.running == 0 {
		o.logger.Warn("transition counter underflow ignored", "container", o.containerID)
		return
	}
	o.running--
	o.gauge.Dec()
	if o.running == 0 {
		o.drainIdle()
	}
}

// OnIdle runs fn once no transition is in flight; immediately if already idle.
func (o *Orchestrator) OnIdle(fn func()) {
	if o.running == 0 {
		fn()
		return
	}
	o.onIdle = append(o.onIdle, fn)
}

func (o *Orchestrator) drainIdle() {
	for len(o.onIdle) > 0 && o.running == 0 {
		fns := o.onIdle
		o.onIdle = nil
		for _, fn := range fns {
			fn()
		}
	}
	o.aborted = false
}

// Start selects the strategy for t and drives it. Settle may run before Start returns.
func (o *Orchestrator) Start(ctx context.Context, t *Transition) {
	o.ctx = ctx
	t.State = domain.StateClassified
	strategy, custom := o.selectStrategy(ctx, t)
	t.Strategy = strategy

	o.logger.DebugContext(ctx, "transition start",
		"container", o.containerID, "operation", t.Operation, "strategy", strategy,
		"from", t.From.Name, "to", t.To.Name)
	o.emit(ctx, o.hooks.OnTransitionStart, t)

	switch strategy {
	case domain.StrategyDefault:
		t.State = domain.StateAnimating
		o.animate(t, domain.AnimationOptions{Name: "content-" + string(t.Operation), Duration: o.cfg.Duration, Curve: "friction"})
		o.animate(t, domain.AnimationOptions{Name: "titlebar-" + string(t.Operation), Duration: o.cfg.Duration, Curve: "friction"})
	case domain.StrategyDialog:
		if o.cfg.DialogCrossfade {
			t.State = domain.StateAnimating
			o.animate(t, domain.AnimationOptions{Name: "dialog-crossfade", Duration: o.cfg.Duration, Curve: "linear"})
			return
		}
		o.settle(ctx, t, domain.StateFinished)
	case domain.StrategyCustom:
		o.startCustom(ctx, t, custom)
	default:
		o.settle(ctx, t, domain.StateFinished)
	}
}

func (o *Orchestrator) selectStrategy(ctx context.Context, t *Transition) (domain.Strategy, *CustomAnimation) {
	if !t.Animated || t.Operation == domain.OpNone || o.driver == nil {
		return domain.StrategyNone, nil
	}
	if t.From.Mode == domain.ModeDialog || t.To.Mode == domain.ModeDialog {
		return domain.StrategyDialog, nil
	}
	if o.custom != nil {
		desc := o.custom(t.From, t.To, t.Operation)
		if desc.valid() {
			return domain.StrategyCustom, desc
		}
		if desc != nil {
			o.logger.WarnContext(ctx, "custom transition returned an invalid descriptor, using default",
				"container", o.containerID, "operation", t.Operation)
		}
	}
	if t.PinnedToPrimary {
		return domain.StrategyNone, nil
	}
	return domain.StrategyDefault, nil
}

func (o *Orchestrator) animate(t *Transition, opts domain.AnimationOptions) {
	a := &animation{t: t}
	t.pending++
	o.active = append(o.active, a)
	o.OnStartOneTransitionAnimation()
	a.handle = o.driver.Animate(opts, func() {}, func() {
		o.finishAnimation(a)
	})
}

func (o *Orchestrator) finishAnimation(a *animation) {
	if a.done {
		return
	}
	a.done = true
	o.forget(a)
	a.t.pending--
	if a.t.pending == 0 {
		o.settle(o.ctx, a.t, domain.StateFinished)
	}
	o.OnFinishOneTransitionAnimation()
}

func (o *Orchestrator) forget(a *animation) {
	for i, x := range o.active {
		if x == a {
			o.active = append(o.active[:i], o.active[i+1:]...)
			return
		}
	}
}

func (o *Orchestrator) startCustom(ctx context.Context, t *Transition, desc *CustomAnimation) {
	p := &TransitionProxy{
		o:           o,
		t:           t,
		From:        t.From,
		To:          t.To,
		Operation:   t.Operation,
		interactive: desc.Interactive,
		success:     true,
	}
	t.proxy = p
	t.State = domain.StateAnimating
	if desc.Interactive {
		if cur, ok := o.Current(); ok {
			o.logger.WarnContext(ctx, "replacing current interactive transition",
				"container", o.containerID, "err", domain.ErrTransitionInProgress)
			cur.abort(ctx)
		}
		o.proxy = p
	}
	o.proxies = append(o.proxies, p)
	o.OnStartOneTransitionAnimation()

	timeout := o.cfg.Timeout
	if desc.Timeout > 0 {
		timeout = desc.Timeout
	}
	if timeout > 0 && o.scheduler != nil {
		p.cancelTimeout = o.scheduler.PostDelayed(timeout, func() {
			if p.finished {
				return
			}
			o.logger.WarnContext(ctx, "custom transition timed out, forcing finish",
				"container", o.containerID, "timeout", timeout)
			p.FinishTransition()
		})
	}
	desc.Transition(p)
}

// AbortAll stops every in-flight animation synchronously. Each stopped
// transition settles as ABORTED.
func (o *Orchestrator) AbortAll(ctx context.Context) {
	if o.running == 0 && len(o.active) == 0 && len(o.proxies) == 0 {
		return
	}
	o.ctx = ctx
	o.aborted = true
	o.logger.DebugContext(ctx, "aborting transitions", "container", o.containerID, "running", o.running)

	active := o.active
	o.active = nil
	for _, a := range active {
		if a.done {
			continue
		}
		a.done = true
		if o.driver != nil {
			o.driver.Stop(a.handle)
		}
		a.t.pending--
		if a.t.pending == 0 {
			o.settle(ctx, a.t, domain.StateAborted)
		}
		o.OnFinishOneTransitionAnimation()
	}
	for _, p := range append([]*TransitionProxy(nil), o.proxies...) {
		p.abort(ctx)
	}
	if o.running == 0 {
		o.aborted = false
	}
}

func (o *Orchestrator) settle(ctx context.Context, t *Transition, state domain.TransitionState) {
	if t.Terminal() {
		return
	}
	t.State = state
	o.logger.DebugContext(ctx, "transition settled",
		"container", o.containerID, "operation", t.Operation, "strategy", t.Strategy, "state", state)
	if t.Settle != nil {
		t.Settle(ctx, state)
	}
	o.emit(ctx, o.hooks.OnTransitionFinish, t)
}

func (o *Orchestrator) emit(ctx context.Context, hook func(context.Context, *domain.TransitionEvent), t *Transition) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.TransitionEvent{
		Timestamp:   o.now(),
		ContainerID: o.containerID,
		Operation:   t.Operation,
		Strategy:    t.Strategy,
		State:       t.State,
		From:        t.From.Node,
		To:          t.To.Node,
	})
}
