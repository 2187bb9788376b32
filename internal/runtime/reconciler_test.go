package runtime_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/wayfinder/internal/runtime"
	"github.com/aretw0/wayfinder/pkg/adapters/sim"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(names ...string) []domain.PathEntry {
	out := make([]domain.PathEntry, len(names))
	for i, n := range names {
		out[i] = domain.NewPathEntry(n, "")
	}
	return out
}

func newReconciler(routes *sim.RouteTable) (*runtime.Reconciler, *registry.Registry) {
	reg := registry.New(4)
	return runtime.NewReconciler("test", reg, routes, nil), reg
}

func TestReconciler_Idempotent(t *testing.T) {
	ctx := context.Background()
	routes := testRoutes()
	r, _ := newReconciler(routes)

	first := r.Reconcile(ctx, runtime.ReconcileInput{Entries: entries("PageA", "PageB", "Dialog")})
	require.Len(t, first.Stack, 3)
	assert.Equal(t, 3, first.Instantiated)

	second := r.Reconcile(ctx, runtime.ReconcileInput{Prev: first.Stack, Entries: first.Entries})

	assert.Equal(t, first.Stack, second.Stack)
	assert.Equal(t, first.Entries, second.Entries)
	assert.Zero(t, second.Instantiated)
	assert.Empty(t, second.Created)
	assert.Empty(t, second.FromCache)
	assert.Empty(t, second.Removed)
	assert.Equal(t, 3, routes.TotalBuilds())
}

func TestReconciler_LastStandardIndex(t *testing.T) {
	ctx := context.Background()
	const n = 5
	for mask := 0; mask < 1<<n; mask++ {
		names := make([]string, n)
		want := -1
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				names[i] = "Dialog"
			} else {
				names[i] = "PageA"
				want = i
			}
		}
		t.Run(fmt.Sprintf("mask=%05b", mask), func(t *testing.T) {
			r, _ := newReconciler(testRoutes())
			res := r.Reconcile(ctx, runtime.ReconcileInput{Entries: entries(names...)})
			assert.Equal(t, want, res.LastStandardIndex)
		})
	}
}

func TestReconciler_DropsUnresolvable(t *testing.T) {
	ctx := context.Background()
	r, reg := newReconciler(testRoutes())

	res := r.Reconcile(ctx, runtime.ReconcileInput{Entries: entries("PageA", "Broken", "Missing", "PageB")})

	require.Len(t, res.Stack, 2)
	assert.Equal(t, 2, res.Dropped)
	assert.Equal(t, 1, res.Entries[1].Index, "indices shift over dropped entries")
	assert.Equal(t, "PageB", reg.Get(res.Stack[1]).Name)
	assert.Equal(t, 1, reg.Get(res.Stack[1]).Index)
}

func TestReconciler_ReplaceFallback(t *testing.T) {
	ctx := context.Background()
	r, reg := newReconciler(testRoutes())
	first := r.Reconcile(ctx, runtime.ReconcileInput{Entries: entries("PageA")})

	e := domain.NewPathEntry("Broken", "")
	e.IsReplaced = true
	e.ReplacedFrom = &domain.PathRef{Name: "PageA", Index: 0}
	res := r.Reconcile(ctx, runtime.ReconcileInput{Prev: first.Stack, Entries: []domain.PathEntry{e}})

	assert.Equal(t, first.Stack, res.Stack, "the replaced page keeps its slot")
	assert.Equal(t, "PageA", res.Entries[0].Name)
	assert.Zero(t, res.Dropped)
	assert.Equal(t, "PageA", reg.Get(res.Stack[0]).Name)
}

func TestReconciler_ForceSetByIdentity(t *testing.T) {
	ctx := context.Background()
	routes := testRoutes()
	r, _ := newReconciler(routes)
	first := r.Reconcile(ctx, runtime.ReconcileInput{Entries: entries("PageA", "PageB", "PageC")})

	var forced []domain.PathEntry
	for i := len(first.Entries) - 1; i >= 0; i-- {
		e := first.Entries[i]
		e.ForceSet = true
		e.Index = -1
		forced = append(forced, e)
	}
	res := r.Reconcile(ctx, runtime.ReconcileInput{Prev: first.Stack, Entries: forced})

	assert.True(t, res.IsCurForceSetList)
	assert.Equal(t, []domain.DestID{first.Stack[2], first.Stack[1], first.Stack[0]}, res.Stack)
	assert.Zero(t, res.Instantiated)
	assert.Equal(t, 3, routes.TotalBuilds())
}

func TestReconciler_ForceSetBuildsOnlyTopRange(t *testing.T) {
	ctx := context.Background()
	routes := testRoutes()
	r, reg := newReconciler(routes)

	list := entries("PageA", "PageB", "Dialog")
	for i := range list {
		list[i].ForceSet = true
	}
	res := r.Reconcile(ctx, runtime.ReconcileInput{Entries: list})

	require.Len(t, res.Stack, 3)
	assert.Equal(t, 1, res.LastStandardIndex)
	assert.False(t, reg.Get(res.Stack[0]).Built(), "below the last standard page stays lazy")
	assert.True(t, reg.Get(res.Stack[1]).Built())
	assert.True(t, reg.Get(res.Stack[2]).Built())
	assert.Zero(t, routes.Builds("PageA"))
}

func TestReconciler_ForceSetWithoutStandard(t *testing.T) {
	ctx := context.Background()
	r, reg := newReconciler(testRoutes())

	list := entries("Dialog", "Dialog")
	for i := range list {
		list[i].ForceSet = true
	}
	res := r.Reconcile(ctx, runtime.ReconcileInput{Entries: list})

	require.Len(t, res.Stack, 2)
	assert.Equal(t, -1, res.LastStandardIndex)
	for _, id := range res.Stack {
		assert.True(t, reg.Get(id).Built())
	}
}

func TestReconciler_ForceSetFailureRestartsWalk(t *testing.T) {
	ctx := context.Background()
	r, reg := newReconciler(testRoutes())

	list := entries("PageA", "Broken")
	for i := range list {
		list[i].ForceSet = true
	}
	res := r.Reconcile(ctx, runtime.ReconcileInput{Entries: list})

	require.Len(t, res.Stack, 1)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 0, res.LastStandardIndex)
	assert.Equal(t, 1, reg.Len(), "the failed record is freed")
}

func TestReconciler_Recovery(t *testing.T) {
	ctx := context.Background()
	routes := testRoutes()
	r, _ := newReconciler(routes)

	records := []domain.RecoveryRecord{
		{Name: "PageA", Mode: int(domain.ModeStandard)},
		{Name: "PageB", Mode: int(domain.ModeStandard)},
		{Name: "Dialog", Mode: int(domain.ModeDialog)},
	}
	res := r.Reconcile(ctx, runtime.ReconcileInput{Entries: domain.EntriesFromRecords(records)})

	require.Len(t, res.Stack, 3)
	assert.Equal(t, 2, res.Instantiated)
	assert.Zero(t, routes.Builds("PageA"))
	assert.True(t, res.Entries[0].FromRecovery)
	assert.False(t, res.Entries[1].FromRecovery)

	again := r.Reconcile(ctx, runtime.ReconcileInput{Prev: res.Stack, Entries: res.Entries})
	assert.Equal(t, res.Stack, again.Stack)
	assert.Zero(t, again.Instantiated)

	popped := r.Reconcile(ctx, runtime.ReconcileInput{Prev: res.Stack, Entries: res.Entries[:1]})
	assert.Equal(t, res.Stack[:1], popped.Stack)
	assert.Equal(t, 1, routes.Builds("PageA"))
	assert.Equal(t, res.Stack[1:], popped.Removed)
}

func TestReconciler_NewInstance(t *testing.T) {
	ctx := context.Background()
	routes := testRoutes()
	r, _ := newReconciler(routes)
	first := r.Reconcile(ctx, runtime.ReconcileInput{Entries: entries("PageA")})

	e := first.Entries[0]
	e.NeedBuildNewInstance = true
	res := r.Reconcile(ctx, runtime.ReconcileInput{Prev: first.Stack, Entries: []domain.PathEntry{e}})

	assert.NotEqual(t, first.Stack, res.Stack)
	assert.Equal(t, first.Stack, res.Removed)
	assert.False(t, res.Entries[0].NeedBuildNewInstance)
	assert.Equal(t, 2, routes.Builds("PageA"))
}

func TestReconciler_CanReuseVeto(t *testing.T) {
	ctx := context.Background()
	routes := testRoutes()
	r, _ := newReconciler(routes)
	first := r.Reconcile(ctx, runtime.ReconcileInput{Entries: entries("PageA")})

	r.CanReuse = func(*domain.Destination) bool { return false }
	res := r.Reconcile(ctx, runtime.ReconcileInput{Prev: first.Stack, Entries: first.Entries})

	assert.NotEqual(t, first.Stack, res.Stack)
	assert.Equal(t, 2, routes.Builds("PageA"))
}
