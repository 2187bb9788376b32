package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/wayfinder/internal/runtime"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitManager_Decide(t *testing.T) {
	main := domain.Surface{MainWindow: true, PrimaryPage: true}
	wide := domain.Geometry{Width: 900, Height: 400, Orientation: domain.OrientationLandscape}

	tests := []struct {
		name      string
		surface   domain.Surface
		outermost bool
		g         domain.Geometry
		want      bool
	}{
		{"all conditions hold", main, true, wide, true},
		{"aspect ratio fallback", main, true, domain.Geometry{Width: 900, Height: 400}, true},
		{"embedded surface", domain.Surface{PrimaryPage: true}, true, wide, false},
		{"secondary page", domain.Surface{MainWindow: true}, true, wide, false},
		{"nested navigation", main, false, wide, false},
		{"portrait", main, true, domain.Geometry{Width: 900, Height: 400, Orientation: domain.OrientationPortrait}, false},
		{"narrow", main, true, domain.Geometry{Width: 600, Height: 300, Orientation: domain.OrientationLandscape}, false},
		{"os split screen", main, true, domain.Geometry{Width: 900, Height: 400, Orientation: domain.OrientationLandscape, WindowMode: domain.WindowSplitScreen}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := runtime.NewSplitManager(600, tt.surface, tt.outermost, "Home")
			assert.Equal(t, tt.want, s.Decide(tt.g))
		})
	}
}

func buildStack(t *testing.T, names ...string) (*registry.Registry, []domain.DestID, int) {
	t.Helper()
	r, reg := newReconciler(testRoutes())
	res := r.Reconcile(context.Background(), runtime.ReconcileInput{Entries: entries(names...)})
	require.Len(t, res.Stack, len(names))
	return reg, res.Stack, res.LastStandardIndex
}

func TestSplitManager_Apply(t *testing.T) {
	t.Run("home below top", func(t *testing.T) {
		reg, stack, lsi := buildStack(t, "Home", "Dialog", "PageA", "PageB")
		s := runtime.NewSplitManager(0, domain.Surface{}, true, "Home")
		s.SetEnabled(true)

		s.Apply(reg, stack, lsi)

		assert.Equal(t, stack[:2], s.Primary(), "home up to the next standard page")
		assertContainment(t, reg, s, stack, lsi)
	})

	t.Run("home is last standard", func(t *testing.T) {
		reg, stack, lsi := buildStack(t, "PageA", "Home")
		s := runtime.NewSplitManager(0, domain.Surface{}, true, "Home")
		s.SetEnabled(true)

		s.Apply(reg, stack, lsi)

		assert.Equal(t, stack[1:], s.Primary())
		assertContainment(t, reg, s, stack, lsi)
	})

	t.Run("no home", func(t *testing.T) {
		reg, stack, lsi := buildStack(t, "PageA", "PageB")
		s := runtime.NewSplitManager(0, domain.Surface{}, true, "")
		s.SetEnabled(true)

		s.Apply(reg, stack, lsi)
		assert.Equal(t, stack[1:], s.Primary())
	})

	t.Run("only dialogs", func(t *testing.T) {
		reg, stack, lsi := buildStack(t, "Dialog")
		s := runtime.NewSplitManager(0, domain.Surface{}, true, "")
		s.SetEnabled(true)

		s.Apply(reg, stack, lsi)
		assert.Empty(t, s.Primary())
	})

	t.Run("content keeps placeholders", func(t *testing.T) {
		reg, stack, lsi := buildStack(t, "Home", "PageA", "PageB")
		s := runtime.NewSplitManager(0, domain.Surface{}, true, "Home")
		s.SetEnabled(true)
		s.Apply(reg, stack, lsi)

		content := s.Content()
		require.Len(t, content, 3)
		assert.True(t, content[0].Placeholder)
		assert.Equal(t, 0, content[0].Index)
		assert.False(t, content[1].Placeholder)

		s.SetEnabled(false)
		s.Apply(reg, stack, lsi)

		assert.Empty(t, s.Primary())
		for i, slot := range s.Content() {
			assert.Equal(t, stack[i], slot.ID)
			assert.False(t, slot.Placeholder)
		}
		for _, id := range stack {
			assert.False(t, reg.Get(id).IsShowInPrimaryPartition)
		}
	})
}

// assertContainment checks that the primary set is a contiguous run of the
// stack and that exactly its members are flagged.
func assertContainment(t *testing.T, reg *registry.Registry, s *runtime.SplitManager, stack []domain.DestID, lsi int) {
	t.Helper()
	primary := s.Primary()
	require.NotEmpty(t, primary)
	start := -1
	for i, id := range stack {
		if id == primary[0] {
			start = i
		}
	}
	require.GreaterOrEqual(t, start, 0)
	assert.Equal(t, stack[start:start+len(primary)], primary)
	assert.LessOrEqual(t, start, lsi)
	for _, id := range stack {
		assert.Equal(t, s.IsPrimary(id), reg.Get(id).IsShowInPrimaryPartition)
	}
}
