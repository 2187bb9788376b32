package runtime

import (
	"context"
	"log/slog"

	"go.uber.org/atomic"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/registry"
)

// DefaultCacheCapacity is the number of reusable destinations kept per container.
const DefaultCacheCapacity = 4

// Container is one navigation container: a path list, the mounted stack and
// the components that keep them in sync.
type Container struct {
	id        string
	parent    *ParentRef
	hierarchy *Hierarchy

	path       *PathStack
	reg        *registry.Registry
	reconciler *Reconciler
	orch       *Orchestrator
	dispatcher *Dispatcher
	split      *SplitManager

	builder   ports.ContentBuilder
	scheduler ports.Scheduler
	sysbar    ports.SystemBarController
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	ctx       context.Context

	stack     []domain.DestID
	committed []domain.PathEntry
	lsi       int
	navBar    NavBarState
	visible   []domain.NodeRef
	active    []domain.NodeRef
	releasing map[domain.DestID]bool

	attached    bool
	background  bool
	needSync    bool
	syncPosted  bool
	inSync      bool
	propagating bool

	geometry domain.Geometry
}

type containerOptions struct {
	parent     *ParentRef
	capacity   int
	transition TransitionConfig
	threshold  float64
	home       string
	surface    domain.Surface
	builder    ports.ContentBuilder
	driver     ports.AnimationDriver
	scheduler  ports.Scheduler
	sysbar     ports.SystemBarController
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	custom     CustomTransition
	gauge      *atomic.Int32
}

// ContainerOption configures a Container.
type ContainerOption func(*containerOptions)

// WithParent nests the container inside destination dest of container parentID.
func WithParent(parentID string, dest domain.DestID) ContainerOption {
	return func(o *containerOptions) {
		o.parent = &ParentRef{ContainerID: parentID, Dest: dest}
	}
}

// WithCacheCapacity sets how many reusable destinations are kept after removal.
func WithCacheCapacity(n int) ContainerOption {
	return func(o *containerOptions) {
		o.capacity = n
	}
}

// WithTransitionConfig sets durations and timeouts of the built-in strategies.
func WithTransitionConfig(cfg TransitionConfig) ContainerOption {
	return func(o *containerOptions) {
		o.transition = cfg
	}
}

// WithSplit configures force-split: the width threshold and the home destination name.
func WithSplit(threshold float64, home string) ContainerOption {
	return func(o *containerOptions) {
		o.threshold = threshold
		o.home = home
	}
}

// WithSurface describes where the container is hosted.
func WithSurface(s domain.Surface) ContainerOption {
	return func(o *containerOptions) {
		o.surface = s
	}
}

// WithContentBuilder sets the builder used to instantiate destinations.
func WithContentBuilder(b ports.ContentBuilder) ContainerOption {
	return func(o *containerOptions) {
		o.builder = b
	}
}

// WithAnimationDriver sets the animation driver. Without one, transitions settle immediately.
func WithAnimationDriver(d ports.AnimationDriver) ContainerOption {
	return func(o *containerOptions) {
		o.driver = d
	}
}

// WithScheduler sets the frame scheduler used for deferred syncs and timeouts.
func WithScheduler(s ports.Scheduler) ContainerOption {
	return func(o *containerOptions) {
		o.scheduler = s
	}
}

// WithSystemBar sets the system bar controller.
func WithSystemBar(s ports.SystemBarController) ContainerOption {
	return func(o *containerOptions) {
		o.sysbar = s
	}
}

// WithLifecycleHooks sets the observability hooks.
func WithLifecycleHooks(h domain.LifecycleHooks) ContainerOption {
	return func(o *containerOptions) {
		o.hooks = h
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ContainerOption {
	return func(o *containerOptions) {
		o.logger = l
	}
}

// WithCustomAnimation registers a custom transition callback.
func WithCustomAnimation(fn CustomTransition) ContainerOption {
	return func(o *containerOptions) {
		o.custom = fn
	}
}

// WithGauge shares the running transition counter with an outside reader.
func WithGauge(g *atomic.Int32) ContainerOption {
	return func(o *containerOptions) {
		o.gauge = g
	}
}

// NewContainer creates a container and registers it in h.
func NewContainer(id string, h *Hierarchy, opts ...ContainerOption) (*Container, error) {
	o := containerOptions{
		capacity:   DefaultCacheCapacity,
		transition: DefaultTransitionConfig(),
		threshold:  DefaultSplitThreshold,
		surface:    domain.Surface{MainWindow: true, PrimaryPage: true},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.parent != nil {
		if _, err := h.Get(o.parent.ContainerID); err != nil {
			return nil, err
		}
	}

	c := &Container{
		id:        id,
		parent:    o.parent,
		hierarchy: h,
		path:      NewPathStack(),
		reg:       registry.New(o.capacity),
		builder:   o.builder,
		scheduler: o.scheduler,
		sysbar:    o.sysbar,
		hooks:     o.hooks,
		logger:    o.logger.With("container", id),
		ctx:       context.Background(),
		lsi:       -1,
		releasing: make(map[domain.DestID]bool),
	}
	c.path.onChange = c.markDirty
	c.reconciler = NewReconciler(id, c.reg, o.builder, c.logger)
	c.reconciler.CanReuse = func(d *domain.Destination) bool {
		return !c.releasing[d.ID] && !d.Disappearing
	}
	c.orch = NewOrchestrator(id, o.driver, o.scheduler, o.transition,
		WithCustomTransition(o.custom),
		WithTransitionHooks(o.hooks),
		WithOrchestratorLogger(c.logger),
		WithRunningGauge(o.gauge),
	)
	c.dispatcher = NewDispatcher(id, c, o.hooks, c.logger)
	c.split = NewSplitManager(o.threshold, o.surface, o.parent == nil, o.home)

	if err := h.register(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ID returns the container id.
func (c *Container) ID() string { return c.id }

// Parent returns the hosting destination link, or nil for an outermost container.
func (c *Container) Parent() *ParentRef { return c.parent }

// Path returns the declarative path list.
func (c *Container) Path() *PathStack { return c.path }

// Orchestrator returns the transition orchestrator.
func (c *Container) Orchestrator() *Orchestrator { return c.orch }

// Split returns the adaptive split manager.
func (c *Container) Split() *SplitManager { return c.split }

// Registry returns the destination arena.
func (c *Container) Registry() *registry.Registry { return c.reg }

// Stack returns the mounted stack ids in order.
func (c *Container) Stack() []domain.DestID {
	return append([]domain.DestID(nil), c.stack...)
}

// Names returns the mounted stack names in order.
func (c *Container) Names() []string {
	names := make([]string, len(c.stack))
	for i, id := range c.stack {
		names[i] = c.reg.Get(id).Name
	}
	return names
}

// LastStandardIndex returns the index of the topmost standard destination, or -1.
func (c *Container) LastStandardIndex() int { return c.lsi }

// Destination returns the destination at stack index i.
func (c *Container) Destination(i int) (*domain.Destination, bool) {
	if i < 0 || i >= len(c.stack) {
		return nil, false
	}
	return c.reg.Get(c.stack[i]), true
}

// Visible returns the nodes currently on screen, bottom-up.
func (c *Container) Visible() []domain.NodeRef {
	return append([]domain.NodeRef(nil), c.visible...)
}

// Attach shows the navigation bar and runs the first sync. ctx is kept for
// work posted on the scheduler.
func (c *Container) Attach(ctx context.Context) {
	c.ctx = ctx
	c.attached = true
	c.dispatcher.Fire(ctx, domain.NavBarRef(), domain.PhaseWillShow, domain.ReasonTransition)
	c.dispatcher.Fire(ctx, domain.NavBarRef(), domain.PhaseShow, domain.ReasonTransition)
	c.visible = []domain.NodeRef{domain.NavBarRef()}
	if c.needSync {
		c.sync(ctx)
	}
}

// Detach tears the container down and unregisters it.
func (c *Container) Detach(ctx context.Context) {
	c.orch.AbortAll(ctx)
	for i := len(c.active) - 1; i >= 0; i-- {
		c.dispatcher.Fire(ctx, c.active[i], domain.PhaseInactive, domain.ReasonTransition)
	}
	for i := len(c.visible) - 1; i >= 0; i-- {
		c.dispatcher.Fire(ctx, c.visible[i], domain.PhaseWillHide, domain.ReasonTransition)
		c.dispatcher.Fire(ctx, c.visible[i], domain.PhaseHide, domain.ReasonTransition)
	}
	for i := len(c.stack) - 1; i >= 0; i-- {
		c.destroy(ctx, c.stack[i])
	}
	for _, id := range c.reg.Cached() {
		c.destroy(ctx, id)
	}
	c.stack, c.visible, c.active = nil, nil, nil
	c.attached = false
	c.hierarchy.unregister(c.id)
}

func (c *Container) markDirty() {
	c.needSync = true
	if !c.attached || c.syncPosted || c.scheduler == nil {
		return
	}
	c.syncPosted = true
	c.scheduler.Post(func() {
		c.syncPosted = false
		if c.needSync {
			c.sync(c.ctx)
		}
	})
}

// Flush runs a pending sync now. Outside a sync it is the explicit flush request
// of the frame pipeline.
func (c *Container) Flush(ctx context.Context) {
	if !c.attached || !c.needSync {
		return
	}
	if c.inSync {
		c.markDirty()
		return
	}
	c.sync(ctx)
}

func (c *Container) sync(ctx context.Context) {
	if c.inSync {
		c.markDirty()
		return
	}
	c.inSync = true
	defer func() {
		c.inSync = false
		if c.needSync {
			c.markDirty()
		}
	}()
	c.needSync = false

	// In-flight transitions settle before the stack may change again.
	if c.orch.Running() > 0 {
		c.orch.AbortAll(ctx)
	}

	replace, animated := c.path.consume()
	prevStack := c.stack
	prevEntries := c.committed
	preTop := c.topRef()
	preCtx := c.navContext(preTop)
	prePinned := c.pinned(preTop)

	res := c.reconciler.Reconcile(ctx, ReconcileInput{Prev: prevStack, Entries: c.path.entries, Home: c.splitHome()})
	c.commit(res)
	c.emitReconcile(ctx, res)

	newTop := c.topRef()
	op := Classify(preTop, newTop, replace, preTop.IsDestination() && contains(c.stack, preTop.ID))

	// A replaced page is always torn down; other reusable pages go back to the cache.
	var cacheable, released []domain.DestID
	for _, id := range res.Removed {
		d := c.reg.Get(id)
		if op != domain.OpReplace && d.Reusable && d.Built() {
			cacheable = append(cacheable, id)
		} else {
			released = append(released, id)
		}
		c.releasing[id] = true
	}

	oldVisible, oldActive := c.visible, c.active
	c.visible, c.active = c.computeVisible()
	plan := &Plan{
		Operation:  op,
		PreTop:     preTop,
		NewTop:     newTop,
		Hide:       reversed(diffRefs(oldVisible, c.visible)),
		Show:       diffRefs(c.visible, oldVisible),
		Deactivate: diffRefs(oldActive, c.active),
		Activate:   c.active,
		Released:   released,
	}

	snap := &snapshot{
		stack:   prevStack,
		entries: prevEntries,
		visible: oldVisible,
		active:  oldActive,
		res:     res,
	}
	if op == domain.OpReplace {
		snap = nil
	}

	c.dispatcher.Begin(ctx, plan, domain.ReasonTransition)

	settle := func(ctx context.Context, state domain.TransitionState) {
		if state == domain.StateCanceled {
			if snap != nil {
				c.rollback(ctx, plan, snap)
				return
			}
			c.logger.WarnContext(ctx, "replace transition canceled, keeping new top")
		}
		c.finish(ctx, plan, cacheable)
	}

	if op == domain.OpNone {
		settle(ctx, domain.StateFinished)
		return
	}
	c.orch.Start(ctx, &Transition{
		Operation:       op,
		From:            preCtx,
		To:              c.navContext(newTop),
		Animated:        animated,
		PinnedToPrimary: prePinned || c.pinned(newTop),
		Settle:          settle,
	})
}

type snapshot struct {
	stack   []domain.DestID
	entries []domain.PathEntry
	visible []domain.NodeRef
	active  []domain.NodeRef
	res     ReconcileResult
}

func (c *Container) commit(res ReconcileResult) {
	for _, id := range res.Removed {
		if d := c.reg.Get(id); d != nil {
			d.InCurrentStack = false
		}
	}
	for _, id := range res.Stack {
		c.reg.Get(id).InCurrentStack = true
	}
	c.stack = res.Stack
	c.lsi = res.LastStandardIndex
	c.committed = append([]domain.PathEntry(nil), res.Entries...)
	c.path.commit(res.Entries)
	c.split.Apply(c.reg, c.stack, c.lsi)
}

func (c *Container) finish(ctx context.Context, plan *Plan, cacheable []domain.DestID) {
	c.dispatcher.Finish(ctx, plan, domain.ReasonTransition)
	for _, id := range plan.Released {
		c.destroy(ctx, id)
	}
	for _, id := range cacheable {
		delete(c.releasing, id)
		c.reg.Get(id).InCurrentStack = false
		for _, ev := range c.reg.Insert(c.reg.Get(id).Name, id) {
			c.destroy(ctx, ev)
		}
	}
	if !plan.PreTop.Same(plan.NewTop) {
		c.applySystemBar(plan.NewTop)
	}
}

// rollback restores the pre-transition path list after a canceled gesture.
func (c *Container) rollback(ctx context.Context, plan *Plan, snap *snapshot) {
	c.logger.InfoContext(ctx, "interactive transition canceled, restoring stack", "size", len(snap.stack))
	c.dispatcher.Rollback(ctx, plan, domain.ReasonTransition)

	for _, id := range snap.res.Removed {
		delete(c.releasing, id)
	}
	for _, id := range snap.res.FromCache {
		for _, ev := range c.reg.Insert(c.reg.Get(id).Name, id) {
			c.destroy(ctx, ev)
		}
	}
	for _, id := range snap.res.Created {
		c.releaseQuietly(ctx, id)
	}

	c.visible, c.active = snap.visible, snap.active
	res := c.reconciler.Reconcile(ctx, ReconcileInput{Prev: snap.stack, Entries: snap.entries, Home: c.splitHome()})
	c.commit(res)
}

func (c *Container) releaseQuietly(ctx context.Context, id domain.DestID) {
	d := c.reg.Get(id)
	if d == nil {
		return
	}
	if r, ok := c.builder.(ports.Releaser); ok && d.Built() {
		r.Release(ctx, d.Handle)
	}
	c.reg.Evict(id)
}

func (c *Container) destroy(ctx context.Context, id domain.DestID) {
	d := c.reg.Get(id)
	if d == nil {
		return
	}
	delete(c.releasing, id)
	if d.Built() {
		c.dispatcher.Disappear(ctx, id)
	}
	c.releaseQuietly(ctx, id)
}

func (c *Container) applySystemBar(top domain.NodeRef) {
	if c.sysbar == nil {
		return
	}
	if top.IsDestination() {
		if d := c.reg.Get(top.ID); d != nil && d.SystemBarStyle != "" {
			c.sysbar.SetStyle(d.SystemBarStyle)
			return
		}
	}
	c.sysbar.RestoreStyle()
}

func (c *Container) emitReconcile(ctx context.Context, res ReconcileResult) {
	c.logger.DebugContext(ctx, "reconciled",
		"size", len(res.Stack), "instantiated", res.Instantiated, "dropped", res.Dropped, "lsi", res.LastStandardIndex)
	if c.hooks.OnReconcile == nil {
		return
	}
	c.hooks.OnReconcile(ctx, &domain.ReconcileEvent{
		ContainerID:       c.id,
		StackSize:         len(res.Stack),
		Instantiated:      res.Instantiated,
		Dropped:           res.Dropped,
		LastStandardIndex: res.LastStandardIndex,
		ForceSet:          res.IsCurForceSetList,
	})
}

// ref builds the node reference for stack index i. A destination without a
// render handle is not on screen yet, so the navigation bar stands in for it.
func (c *Container) ref(i int) domain.NodeRef {
	d := c.reg.Get(c.stack[i])
	if !d.Built() {
		return domain.NavBarRef()
	}
	if home := c.split.Home(); home != "" && d.Name == home {
		return domain.HomeRef(d.ID, i)
	}
	return domain.StackRef(d.ID, i)
}

func (c *Container) topRef() domain.NodeRef {
	if len(c.stack) == 0 {
		return domain.NodeRef{}
	}
	return c.ref(len(c.stack) - 1)
}

func (c *Container) navContext(ref domain.NodeRef) domain.NavContext {
	if !ref.IsDestination() {
		return domain.NavContext{Node: ref, Name: "navBar"}
	}
	d := c.reg.Get(ref.ID)
	return domain.NavContext{Node: ref, Name: d.Name, Param: d.Param, Mode: d.Mode}
}

func (c *Container) pinned(ref domain.NodeRef) bool {
	if !ref.IsDestination() {
		return false
	}
	d := c.reg.Get(ref.ID)
	return d != nil && d.IsShowInPrimaryPartition
}

// computeVisible derives the on-screen and focused node sets from the stack
// and the split state.
func (c *Container) computeVisible() (visible, active []domain.NodeRef) {
	primary := c.split.Primary()
	if len(primary) > 0 {
		last := -1
		for i, id := range c.stack {
			if c.split.IsPrimary(id) {
				visible = append(visible, c.ref(i))
				last = i
			}
		}
		active = append(active, visible[len(visible)-1])

		start := -1
		for i := len(c.stack) - 1; i > last; i-- {
			start = i
			if c.reg.Get(c.stack[i]).Mode == domain.ModeStandard {
				break
			}
		}
		if start >= 0 {
			for i := start; i < len(c.stack); i++ {
				visible = append(visible, c.ref(i))
			}
			active = append(active, c.ref(len(c.stack)-1))
		}
		return dedupe(visible), dedupe(active)
	}

	from := c.lsi
	if from < 0 {
		visible = append(visible, domain.NavBarRef())
		from = 0
	}
	for i := from; i < len(c.stack); i++ {
		visible = append(visible, c.ref(i))
	}
	if top := c.topRef(); top.IsDestination() {
		active = append(active, top)
	}
	return dedupe(visible), active
}

// OnGeometryChange re-evaluates force-split. In-flight transitions are aborted
// and the new layout is applied once the counter is back to zero.
func (c *Container) OnGeometryChange(ctx context.Context, g domain.Geometry) {
	c.geometry = g
	want := c.split.Decide(g)
	apply := func() {
		if !c.split.SetEnabled(want) {
			return
		}
		c.logger.InfoContext(ctx, "split mode changed", "enabled", want, "width", g.Width, "height", g.Height)
		if want && c.attached && c.homeUnbuilt() {
			// The primary partition needs pages the last sync left lazy.
			c.needSync = true
			c.sync(ctx)
			return
		}
		c.relayout(ctx)
	}
	if c.orch.Running() > 0 {
		c.orch.OnIdle(apply)
		c.orch.AbortAll(ctx)
		return
	}
	apply()
}

func (c *Container) splitHome() string {
	if !c.split.Enabled() {
		return ""
	}
	return c.split.Home()
}

// homeUnbuilt reports whether a destination between home and the tail still
// waits to be built.
func (c *Container) homeUnbuilt() bool {
	home := c.split.HomeIndex(c.reg, c.stack)
	if home < 0 {
		return false
	}
	for _, id := range c.stack[home:] {
		if !c.reg.Get(id).Built() {
			return true
		}
	}
	return false
}

// Geometry returns the last geometry seen.
func (c *Container) Geometry() domain.Geometry { return c.geometry }

func (c *Container) relayout(ctx context.Context) {
	c.split.Apply(c.reg, c.stack, c.lsi)
	oldVisible, oldActive := c.visible, c.active
	c.visible, c.active = c.computeVisible()
	plan := &Plan{
		Operation:  domain.OpNone,
		Hide:       reversed(diffRefs(oldVisible, c.visible)),
		Show:       diffRefs(c.visible, oldVisible),
		Deactivate: diffRefs(oldActive, c.active),
		Activate:   c.active,
	}
	c.dispatcher.Begin(ctx, plan, domain.ReasonTransition)
	c.dispatcher.Finish(ctx, plan, domain.ReasonTransition)
}

// OnAppState forwards foreground and background changes to the visible nodes.
func (c *Container) OnAppState(ctx context.Context, foreground bool) {
	if foreground == !c.background {
		return
	}
	c.background = !foreground
	if foreground {
		c.propagate(ctx, domain.PhaseWillShow, domain.ReasonAppStateChange)
		c.propagate(ctx, domain.PhaseShow, domain.ReasonAppStateChange)
		c.propagate(ctx, domain.PhaseActive, domain.ReasonAppStateChange)
		return
	}
	c.propagate(ctx, domain.PhaseInactive, domain.ReasonAppStateChange)
	c.propagate(ctx, domain.PhaseWillHide, domain.ReasonAppStateChange)
	c.propagate(ctx, domain.PhaseHide, domain.ReasonAppStateChange)
}

// propagate fires phase on the container's own visible or focused nodes. It is
// driven by the hosting destination, so the hidden-parent guard is lifted.
func (c *Container) propagate(ctx context.Context, phase domain.Phase, reason domain.ActiveReason) {
	prev := c.propagating
	c.propagating = true
	defer func() { c.propagating = prev }()

	switch phase {
	case domain.PhaseActive, domain.PhaseInactive:
		for _, ref := range c.active {
			c.dispatcher.Fire(ctx, ref, phase, reason)
		}
	case domain.PhaseWillHide, domain.PhaseHide:
		for i := len(c.visible) - 1; i >= 0; i-- {
			c.dispatcher.Fire(ctx, c.visible[i], phase, reason)
		}
	case domain.PhaseWillShow, domain.PhaseShow:
		for _, ref := range c.visible {
			c.dispatcher.Fire(ctx, ref, phase, reason)
		}
	}
}

// Records serialises the path list for persistence.
func (c *Container) Records() []domain.RecoveryRecord {
	records := make([]domain.RecoveryRecord, 0, len(c.stack))
	for i, id := range c.stack {
		d := c.reg.Get(id)
		rec := domain.RecoveryRecord{Name: d.Name, Param: d.Param, Mode: int(d.Mode)}
		if i < len(c.committed) {
			rec.IsReplaced = c.committed[i].IsReplaced
		}
		records = append(records, rec)
	}
	return records
}

// Restore loads persisted records when the path list is still empty. It
// reports whether the records were taken.
func (c *Container) Restore(ctx context.Context, records []domain.RecoveryRecord) bool {
	if c.path.Size() > 0 || len(c.stack) > 0 {
		c.logger.DebugContext(ctx, "path not empty, skipping restore")
		return false
	}
	if len(records) == 0 {
		return false
	}
	c.path.restoreRecords(records)
	return true
}

// Running returns the number of in-flight transition animations.
func (c *Container) Running() int { return c.orch.Running() }

func (c *Container) destination(id domain.DestID) *domain.Destination {
	return c.reg.Get(id)
}

func (c *Container) navBarState() *NavBarState {
	return &c.navBar
}

func (c *Container) parentDestinationIsOnHide() bool {
	if c.propagating || c.parent == nil {
		return false
	}
	pc, err := c.hierarchy.Get(c.parent.ContainerID)
	if err != nil {
		return true
	}
	d := pc.reg.Get(c.parent.Dest)
	if d == nil || !d.IsOnShow {
		return true
	}
	return pc.parentDestinationIsOnHide()
}

func (c *Container) nestedContainer(id string) (*Container, bool) {
	child, err := c.hierarchy.Get(id)
	if err != nil || child.parent == nil || child.parent.ContainerID != c.id {
		return nil, false
	}
	return child, true
}

func contains(ids []domain.DestID, id domain.DestID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func refKey(r domain.NodeRef) domain.DestID {
	if r.IsDestination() {
		return r.ID
	}
	return 0
}

// diffRefs returns the refs of a missing from b, keeping a's order.
func diffRefs(a, b []domain.NodeRef) []domain.NodeRef {
	in := make(map[domain.DestID]bool, len(b))
	for _, r := range b {
		in[refKey(r)] = true
	}
	var out []domain.NodeRef
	for _, r := range a {
		if !in[refKey(r)] {
			out = append(out, r)
		}
	}
	return out
}

func dedupe(refs []domain.NodeRef) []domain.NodeRef {
	seen := make(map[domain.DestID]bool, len(refs))
	out := refs[:0]
	for _, r := range refs {
		if seen[refKey(r)] {
			continue
		}
		seen[refKey(r)] = true
		out = append(out, r)
	}
	return out
}

func reversed(refs []domain.NodeRef) []domain.NodeRef {
	out := make([]domain.NodeRef, len(refs))
	for i, r := range refs {
		out[len(refs)-1-i] = r
	}
	return out
}
