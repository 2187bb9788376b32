package observability_test

import (
	"context"
	"testing"

	"github.com/aretw0/wayfinder/internal/runtime"
	"github.com/aretw0/wayfinder/pkg/adapters/sim"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg, nil)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnLifecycle(ctx, &domain.LifecycleEvent{Phase: domain.PhaseShow})
	hooks.OnLifecycle(ctx, &domain.LifecycleEvent{Phase: domain.PhaseShow})
	hooks.OnTransitionFinish(ctx, &domain.TransitionEvent{
		Operation: domain.OpPush, Strategy: domain.StrategyDefault, State: domain.StateFinished,
	})
	hooks.OnReconcile(ctx, &domain.ReconcileEvent{Instantiated: 3})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Lifecycle.WithLabelValues("ON_SHOW")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("PUSH", "default", "FINISHED")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Instantiations))

	count, err := testutil.GatherAndCount(reg, "wayfinder_reconcile_instantiations")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_DrivenByContainer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg, nil)

	loop := sim.NewFrameLoop()
	routes := sim.NewRouteTable(map[string]sim.Route{"Home": {}, "Detail": {}})
	h := runtime.NewHierarchy()
	c, err := runtime.NewContainer("root", h,
		runtime.WithContentBuilder(routes),
		runtime.WithAnimationDriver(sim.NewAnimator(loop)),
		runtime.WithScheduler(loop),
		runtime.WithLifecycleHooks(m.Hooks()),
		runtime.WithGauge(m.RunningSource()),
	)
	require.NoError(t, err)
	ctx := context.Background()
	c.Attach(ctx)
	loop.Drain()

	c.Path().Push("Home", "")
	c.Path().Push("Detail", "")
	loop.Flush()

	// Both default-strategy animations are in flight.
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Running))

	loop.Drain()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Running))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("PUSH", "default", "FINISHED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lifecycle.WithLabelValues("ON_ACTIVE")))
}
