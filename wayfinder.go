package wayfinder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/internal/runtime"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/observability"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/session"
	"go.uber.org/atomic"
)

// Re-exported runtime types, so applications can name them.
type (
	Container        = runtime.Container
	ContainerOption  = runtime.ContainerOption
	PathStack        = runtime.PathStack
	TransitionConfig = runtime.TransitionConfig
	TransitionProxy  = runtime.TransitionProxy
	CustomTransition = runtime.CustomTransition
	CustomAnimation  = runtime.CustomAnimation
)

// Container options usable with Navigator.NewContainer.
var (
	WithParent  = runtime.WithParent
	WithSurface = runtime.WithSurface
)

// DefaultTransitionConfig returns the built-in strategy durations.
func DefaultTransitionConfig() TransitionConfig {
	return runtime.DefaultTransitionConfig()
}

// ErrNoStore is returned by persistence calls on a Navigator built without WithStore.
var ErrNoStore = errors.New("no stack store configured")

// Navigator owns a hierarchy of navigation containers sharing collaborators,
// configuration and observability.
type Navigator struct {
	hierarchy *runtime.Hierarchy

	builder   ports.ContentBuilder
	driver    ports.AnimationDriver
	scheduler ports.Scheduler
	sysbar    ports.SystemBarController
	geometry  ports.GeometrySource

	capacity   int
	transition runtime.TransitionConfig
	threshold  float64
	home       string
	custom     runtime.CustomTransition

	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	gauge    *atomic.Int32
	sessions *session.Manager
}

// Option defines a functional option for configuring the Navigator.
type Option func(*Navigator)

// WithContentBuilder sets the builder instantiating destinations.
func WithContentBuilder(b ports.ContentBuilder) Option {
	return func(n *Navigator) {
		n.builder = b
	}
}

// WithAnimationDriver sets the driver running transition animations.
func WithAnimationDriver(d ports.AnimationDriver) Option {
	return func(n *Navigator) {
		n.driver = d
	}
}

// WithScheduler sets the frame scheduler used for deferred work.
func WithScheduler(s ports.Scheduler) Option {
	return func(n *Navigator) {
		n.scheduler = s
	}
}

// WithSystemBar sets the system bar controller.
func WithSystemBar(s ports.SystemBarController) Option {
	return func(n *Navigator) {
		n.sysbar = s
	}
}

// WithGeometrySource subscribes every container to window geometry changes.
func WithGeometrySource(g ports.GeometrySource) Option {
	return func(n *Navigator) {
		n.geometry = g
	}
}

// WithCacheCapacity sets how many reusable destinations each container keeps.
func WithCacheCapacity(capacity int) Option {
	return func(n *Navigator) {
		n.capacity = capacity
	}
}

// WithTransitionConfig sets the built-in strategies' durations and timeouts.
func WithTransitionConfig(cfg TransitionConfig) Option {
	return func(n *Navigator) {
		n.transition = cfg
	}
}

// WithSplit configures force-split for outermost containers.
func WithSplit(threshold float64, home string) Option {
	return func(n *Navigator) {
		n.threshold = threshold
		n.home = home
	}
}

// WithCustomTransition registers the application's custom transition callback.
func WithCustomTransition(fn CustomTransition) Option {
	return func(n *Navigator) {
		n.custom = fn
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls merge.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(n *Navigator) {
		n.hooks = n.hooks.Merge(hooks)
	}
}

// WithMetrics feeds the Prometheus collectors from every container.
func WithMetrics(m *observability.Metrics) Option {
	return func(n *Navigator) {
		n.hooks = n.hooks.Merge(m.Hooks())
		n.gauge = m.RunningSource()
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// WithStore enables Persist and Restore through a session.Manager.
func WithStore(store ports.StackStore, opts ...session.Option) Option {
	return func(n *Navigator) {
		n.sessions = session.NewManager(store, opts...)
	}
}

// New creates a Navigator.
func New(opts ...Option) *Navigator {
	n := &Navigator{
		hierarchy:  runtime.NewHierarchy(),
		capacity:   runtime.DefaultCacheCapacity,
		transition: runtime.DefaultTransitionConfig(),
		threshold:  runtime.DefaultSplitThreshold,
		gauge:      atomic.NewInt32(0),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = logging.NewNop()
	}
	if n.geometry != nil {
		n.geometry.OnChange(func(g domain.Geometry) {
			n.OnGeometryChange(context.Background(), g)
		})
	}
	return n
}

// NewContainer creates, registers and attaches a container. Per-container
// options override the Navigator defaults. With a store configured, the
// records persisted under id are consumed before the first sync.
func (n *Navigator) NewContainer(ctx context.Context, id string, opts ...ContainerOption) (*Container, error) {
	base := []runtime.ContainerOption{
		runtime.WithContentBuilder(n.builder),
		runtime.WithAnimationDriver(n.driver),
		runtime.WithScheduler(n.scheduler),
		runtime.WithSystemBar(n.sysbar),
		runtime.WithCacheCapacity(n.capacity),
		runtime.WithTransitionConfig(n.transition),
		runtime.WithSplit(n.threshold, n.home),
		runtime.WithCustomAnimation(n.custom),
		runtime.WithLifecycleHooks(n.hooks),
		runtime.WithLogger(n.logger),
		runtime.WithGauge(n.gauge),
	}
	c, err := runtime.NewContainer(id, n.hierarchy, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}
	if n.sessions != nil {
		n.restoreOnAttach(ctx, c)
	}
	c.Attach(ctx)
	if n.geometry != nil {
		c.OnGeometryChange(ctx, n.geometry.Current())
	}
	return c, nil
}

// Container returns a registered container.
func (n *Navigator) Container(id string) (*Container, error) {
	return n.hierarchy.Get(id)
}

// ContainerIDs lists registered containers, sorted.
func (n *Navigator) ContainerIDs() []string {
	return n.hierarchy.IDs()
}

// RemoveContainer detaches a container, releasing every destination it owns.
func (n *Navigator) RemoveContainer(ctx context.Context, id string) error {
	c, err := n.hierarchy.Get(id)
	if err != nil {
		return err
	}
	c.Detach(ctx)
	return nil
}

// Flush runs pending syncs of every container now.
func (n *Navigator) Flush(ctx context.Context) {
	for _, id := range n.hierarchy.IDs() {
		if c, err := n.hierarchy.Get(id); err == nil {
			c.Flush(ctx)
		}
	}
}

// OnGeometryChange forwards a window change to every container.
func (n *Navigator) OnGeometryChange(ctx context.Context, g domain.Geometry) {
	for _, id := range n.hierarchy.IDs() {
		if c, err := n.hierarchy.Get(id); err == nil {
			c.OnGeometryChange(ctx, g)
		}
	}
}

// OnAppState forwards foreground and background changes. Nested containers
// are reached through their hosting destinations.
func (n *Navigator) OnAppState(ctx context.Context, foreground bool) {
	for _, c := range n.hierarchy.Roots() {
		c.OnAppState(ctx, foreground)
	}
}

// RunningTransitions returns the number of in-flight animations across all
// containers. Safe to call from any goroutine.
func (n *Navigator) RunningTransitions() int32 {
	return n.gauge.Load()
}

// Persist saves the recovery records of a container.
func (n *Navigator) Persist(ctx context.Context, id string) error {
	if n.sessions == nil {
		return ErrNoStore
	}
	c, err := n.hierarchy.Get(id)
	if err != nil {
		return err
	}
	if err := n.sessions.Save(ctx, id, c.Records()); err != nil {
		return fmt.Errorf("failed to persist %s: %w", id, err)
	}
	return nil
}

// Restore loads the persisted records of a container into its still empty
// path list. It reports whether a stack was restored; a missing stack is not
// an error.
func (n *Navigator) Restore(ctx context.Context, id string) (bool, error) {
	if n.sessions == nil {
		return false, ErrNoStore
	}
	c, err := n.hierarchy.Get(id)
	if err != nil {
		return false, err
	}
	records, err := n.sessions.Load(ctx, id)
	if errors.Is(err, domain.ErrStackNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to restore %s: %w", id, err)
	}
	return c.Restore(ctx, records), nil
}

func (n *Navigator) restoreOnAttach(ctx context.Context, c *Container) {
	records, err := n.sessions.Load(ctx, c.ID())
	switch {
	case errors.Is(err, domain.ErrStackNotFound):
	case err != nil:
		n.logger.WarnContext(ctx, "failed to load persisted stack, starting empty", "container", c.ID(), "err", err)
	case c.Restore(ctx, records):
		n.logger.InfoContext(ctx, "restored persisted stack", "container", c.ID(), "size", len(records))
	}
}

// Sessions returns the persistence manager, or nil without WithStore.
func (n *Navigator) Sessions() *session.Manager {
	return n.sessions
}

// Close detaches every container, innermost first.
func (n *Navigator) Close(ctx context.Context) {
	ids := n.hierarchy.IDs()
	depth := make(map[string]int, len(ids))
	for _, id := range ids {
		depth[id] = n.depth(id)
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return depth[ids[i]] > depth[ids[j]]
	})
	for _, id := range ids {
		if c, err := n.hierarchy.Get(id); err == nil {
			c.Detach(ctx)
		}
	}
}

// depth counts the parent links above container id.
func (n *Navigator) depth(id string) int {
	d := 0
	for {
		c, err := n.hierarchy.Get(id)
		if err != nil || c.Parent() == nil {
			return d
		}
		id = c.Parent().ContainerID
		d++
	}
}
