package scenario

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/pkg/adapters/sim"
	"github.com/aretw0/wayfinder/pkg/domain"
)

// World is a Navigator wired to simulated collaborators. It is not safe for
// concurrent use; callers serialise access.
type World struct {
	Loop     *sim.FrameLoop
	Animator *sim.Animator
	Routes   *sim.RouteTable
	Window   *sim.Window
	Bar      *sim.SystemBar
	Trace    *sim.Trace
	Nav      *wayfinder.Navigator

	root string
}

// NewWorld creates a world with the given routes and window, and attaches the
// root container. extra options are applied after the simulated collaborators.
func NewWorld(ctx context.Context, root string, routes map[string]sim.Route, window Window, extra ...wayfinder.Option) (*World, error) {
	if window.Width <= 0 || window.Height <= 0 {
		window = Window{Width: 400, Height: 800, Orientation: domain.OrientationPortrait}
	}
	if root == "" {
		root = "main"
	}
	loop := sim.NewFrameLoop()
	w := &World{
		Loop:     loop,
		Animator: sim.NewAnimator(loop),
		Routes:   sim.NewRouteTable(routes),
		Window:   sim.NewWindow(window.Geometry()),
		Bar:      &sim.SystemBar{},
		Trace:    &sim.Trace{},
		root:     root,
	}
	opts := []wayfinder.Option{
		wayfinder.WithContentBuilder(w.Routes),
		wayfinder.WithAnimationDriver(w.Animator),
		wayfinder.WithScheduler(w.Loop),
		wayfinder.WithGeometrySource(w.Window),
		wayfinder.WithSystemBar(w.Bar),
		wayfinder.WithLifecycleHooks(w.Trace.Hooks()),
	}
	w.Nav = wayfinder.New(append(opts, extra...)...)
	if _, err := w.Nav.NewContainer(ctx, root); err != nil {
		return nil, err
	}
	w.Loop.Drain()
	w.Trace.Reset()
	return w, nil
}

// Root returns the id of the outermost container.
func (w *World) Root() string {
	return w.root
}

// StepResult is what one step produced.
type StepResult struct {
	Index       int                      `json:"index"`
	Op          string                   `json:"op"`
	Container   string                   `json:"container"`
	Detail      string                   `json:"detail,omitempty"`
	Calls       []string                 `json:"calls"`
	Transitions []domain.TransitionEvent `json:"transitions,omitempty"`
	Stack       []string                 `json:"stack"`
	Running     int32                    `json:"running"`
	Failure     string                   `json:"failure,omitempty"`
}

// Apply runs one step and flushes the frame. Virtual time only moves on
// advance and drain steps. A failed expectation is reported in the result;
// errors are reserved for steps that cannot run at all.
func (w *World) Apply(ctx context.Context, st Step) (StepResult, error) {
	id := st.Container
	if id == "" || st.Op == OpNest {
		id = w.root
	}
	res := StepResult{Op: st.Op, Container: id}
	if st.Op == OpNest {
		res.Container = st.Container
	}

	w.Trace.Reset()
	if err := w.apply(ctx, id, st, &res); err != nil {
		return res, err
	}
	w.Loop.Flush()

	res.Calls = w.Trace.Calls()
	res.Transitions = append([]domain.TransitionEvent(nil), w.Trace.Transitions...)
	res.Running = w.Nav.RunningTransitions()
	if c, err := w.Nav.Container(res.Container); err == nil {
		res.Stack = c.Names()
	}
	return res, nil
}

func (w *World) apply(ctx context.Context, id string, st Step, res *StepResult) error {
	switch st.Op {
	case OpResize:
		w.Window.Resize(st.Window.Geometry())
		res.Detail = fmt.Sprintf("%gx%g", st.Window.Width, st.Window.Height)
		return nil
	case OpAppState:
		w.Nav.OnAppState(ctx, st.Foreground)
		res.Detail = map[bool]string{true: "foreground", false: "background"}[st.Foreground]
		return nil
	case OpAdvance:
		w.Loop.Advance(st.Duration)
		res.Detail = st.Duration.String()
		return nil
	case OpDrain:
		w.Loop.Drain()
		return nil
	case OpNest:
		return w.nest(ctx, st, res)
	}

	c, err := w.Nav.Container(id)
	if err != nil {
		return err
	}
	path := c.Path()
	if st.Animated != nil && !*st.Animated {
		path.DisableAnimation(true)
		defer path.DisableAnimation(false)
	}

	switch st.Op {
	case OpPush:
		path.PushWithLaunchMode(st.Name, st.Param, st.Launch)
		res.Detail = st.Name
	case OpPop:
		if e, ok := path.Pop(); ok {
			res.Detail = e.Name
		}
	case OpPopTo:
		res.Detail = fmt.Sprintf("%s (%d)", st.Name, path.PopTo(st.Name))
	case OpReplace:
		path.Replace(st.Name, st.Param)
		res.Detail = st.Name
	case OpSet:
		entries := make([]domain.PathEntry, len(st.Names))
		for i, n := range st.Names {
			entries[i] = domain.NewPathEntry(n, "")
		}
		path.SetPathArray(entries)
		res.Detail = strings.Join(st.Names, ",")
	case OpMoveToTop:
		res.Detail = fmt.Sprintf("%s (%t)", st.Name, path.MoveToTop(st.Name))
	case OpRemove:
		res.Detail = fmt.Sprintf("%s (%d)", st.Name, path.RemoveByName(st.Name))
	case OpClear:
		path.Clear()
	case OpPersist:
		return w.Nav.Persist(ctx, id)
	case OpRestore:
		ok, err := w.Nav.Restore(ctx, id)
		res.Detail = fmt.Sprintf("restored=%t", ok)
		return err
	case OpExpect:
		c.Flush(ctx)
		if got := c.Names(); !slices.Equal(got, st.Names) {
			res.Failure = fmt.Sprintf("expected stack %v, got %v", st.Names, got)
		}
	}
	return nil
}

// nest attaches container st.Container inside the newest destination named
// st.Name of st.Parent.
func (w *World) nest(ctx context.Context, st Step, res *StepResult) error {
	parent, err := w.Nav.Container(st.Parent)
	if err != nil {
		return err
	}
	parent.Flush(ctx)
	stack := parent.Stack()
	for i := len(stack) - 1; i >= 0; i-- {
		d, ok := parent.Destination(i)
		if !ok || d.Name != st.Name {
			continue
		}
		if _, err := w.Nav.NewContainer(ctx, st.Container, wayfinder.WithParent(st.Parent, d.ID)); err != nil {
			return err
		}
		res.Detail = fmt.Sprintf("%s in %s/%s", st.Container, st.Parent, st.Name)
		return nil
	}
	return fmt.Errorf("nest %s: no destination %q in %s", st.Container, st.Name, st.Parent)
}

// Stacks returns the destination names of every container.
func (w *World) Stacks() map[string][]string {
	out := make(map[string][]string)
	for _, id := range w.Nav.ContainerIDs() {
		if c, err := w.Nav.Container(id); err == nil {
			out[id] = c.Names()
		}
	}
	return out
}
