package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/wayfinder/internal/runtime"
	"github.com/aretw0/wayfinder/pkg/adapters/sim"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t      *testing.T
	ctx    context.Context
	loop   *sim.FrameLoop
	anim   *sim.Animator
	routes *sim.RouteTable
	trace  *sim.Trace
	bar    *sim.SystemBar
	h      *runtime.Hierarchy
	c      *runtime.Container
}

func testRoutes() *sim.RouteTable {
	return sim.NewRouteTable(map[string]sim.Route{
		"Home":     {},
		"Detail":   {},
		"PageA":    {},
		"PageB":    {},
		"PageC":    {},
		"Dialog":   {Mode: domain.ModeDialog},
		"Reusable": {Reusable: true},
		"Dark":     {SystemBarStyle: "dark"},
		"Tabs":     {Nested: []string{"inner"}},
		"Broken":   {Fail: true},
	})
}

func newHarness(t *testing.T, opts ...runtime.ContainerOption) *harness {
	t.Helper()
	loop := sim.NewFrameLoop()
	h := &harness{
		t:      t,
		ctx:    context.Background(),
		loop:   loop,
		anim:   sim.NewAnimator(loop),
		routes: testRoutes(),
		trace:  &sim.Trace{},
		bar:    &sim.SystemBar{},
		h:      runtime.NewHierarchy(),
	}
	h.c = h.container("root", opts...)
	return h
}

func (h *harness) container(id string, opts ...runtime.ContainerOption) *runtime.Container {
	h.t.Helper()
	base := []runtime.ContainerOption{
		runtime.WithContentBuilder(h.routes),
		runtime.WithAnimationDriver(h.anim),
		runtime.WithScheduler(h.loop),
		runtime.WithSystemBar(h.bar),
		runtime.WithLifecycleHooks(h.trace.Hooks()),
	}
	c, err := runtime.NewContainer(id, h.h, append(base, opts...)...)
	require.NoError(h.t, err)
	c.Attach(h.ctx)
	h.loop.Drain()
	h.trace.Reset()
	return c
}

func (h *harness) push(names ...string) {
	for _, n := range names {
		h.c.Path().Push(n, "")
	}
	h.loop.Drain()
}

func (h *harness) destination(i int) *domain.Destination {
	h.t.Helper()
	d, ok := h.c.Destination(i)
	require.True(h.t, ok, "no destination at %d", i)
	return d
}

func (h *harness) lastTransition() domain.TransitionEvent {
	h.t.Helper()
	require.NotEmpty(h.t, h.trace.Transitions)
	return h.trace.Transitions[len(h.trace.Transitions)-1]
}
