package runtime_test

import (
	"testing"

	"github.com/aretw0/wayfinder/internal/runtime"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathStack_Operations(t *testing.T) {
	p := runtime.NewPathStack()
	p.Push("A", "")
	p.Push("B", "")
	p.Push("C", "")
	p.Push("B", "2")

	assert.Equal(t, 3, p.PopTo("B"))
	assert.Equal(t, -1, p.PopTo("Z"))
	assert.Equal(t, []string{"A", "B", "C", "B"}, p.Names())

	require.True(t, p.MoveToTop("A"))
	assert.Equal(t, []string{"B", "C", "B", "A"}, p.Names())
	assert.False(t, p.MoveToTop("Z"))

	assert.Equal(t, 2, p.RemoveByName("B"))
	assert.Equal(t, []string{"C", "A"}, p.Names())

	assert.ErrorIs(t, p.PopToIndex(5), domain.ErrInvalidIndex)
	require.NoError(t, p.PopToIndex(0))
	assert.Equal(t, []string{"C"}, p.Names())

	top, ok := p.Pop()
	require.True(t, ok)
	assert.Equal(t, "C", top.Name)
	_, ok = p.Pop()
	assert.False(t, ok)
}

func TestPathStack_LaunchModes(t *testing.T) {
	p := runtime.NewPathStack()
	p.Push("A", "1")
	p.Push("B", "1")
	p.Push("C", "1")

	p.PushWithLaunchMode("A", "2", domain.LaunchMoveToTopSingleton)
	assert.Equal(t, []string{"B", "C", "A"}, p.Names())
	assert.Equal(t, "2", p.Entries()[2].Param)

	p.PushWithLaunchMode("B", "3", domain.LaunchPopToSingleton)
	assert.Equal(t, []string{"B"}, p.Names())
	assert.Equal(t, "3", p.Entries()[0].Param)

	p.PushWithLaunchMode("B", "4", domain.LaunchNewInstance)
	require.Equal(t, 2, p.Size())
	assert.True(t, p.Entries()[1].NeedBuildNewInstance)

	p.PushWithLaunchMode("D", "", domain.LaunchPopToSingleton)
	assert.Equal(t, []string{"B", "B", "D"}, p.Names())
}

func TestPathStack_ReplaceAndSet(t *testing.T) {
	p := runtime.NewPathStack()
	p.Replace("A", "")
	require.Equal(t, 1, p.Size())
	assert.True(t, p.Entries()[0].IsReplaced)
	assert.Nil(t, p.Entries()[0].ReplacedFrom, "nothing was mounted yet")

	p.SetPathArray([]domain.PathEntry{domain.NewPathEntry("X", ""), domain.NewPathEntry("Y", "")})
	for _, e := range p.Entries() {
		assert.True(t, e.ForceSet)
		assert.Equal(t, -1, e.Index)
	}

	p.Clear()
	assert.Zero(t, p.Size())
}
