package registry

import (
	"testing"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateAssignsIdentity(t *testing.T) {
	r := New(2)
	a := r.Create(domain.Destination{Name: "A"})
	b := r.Create(domain.Destination{Name: "B"})

	assert.NotZero(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEmpty(t, a.UniqueID)
	assert.NotEqual(t, a.UniqueID, b.UniqueID)
	assert.Same(t, a, r.Get(a.ID))
}

func TestRegistry_DuplicateUniqueIDPanics(t *testing.T) {
	r := New(2)
	r.Create(domain.Destination{Name: "A", UniqueID: "fixed"})

	assert.PanicsWithError(t, "duplicate destination unique id: fixed", func() {
		r.Create(domain.Destination{Name: "B", UniqueID: "fixed"})
	})
}

func TestRegistry_FindByUniqueIDRestrictedToCandidates(t *testing.T) {
	r := New(2)
	a := r.Create(domain.Destination{Name: "A"})
	b := r.Create(domain.Destination{Name: "B"})

	assert.Same(t, a, r.FindByUniqueID(a.UniqueID, []domain.DestID{a.ID, b.ID}))
	assert.Nil(t, r.FindByUniqueID(a.UniqueID, []domain.DestID{b.ID}))
	assert.Nil(t, r.FindByUniqueID("", []domain.DestID{a.ID}))
}

func TestRegistry_CacheFIFO(t *testing.T) {
	r := New(2)
	a := r.Create(domain.Destination{Name: "A"})
	b := r.Create(domain.Destination{Name: "B"})
	c := r.Create(domain.Destination{Name: "A"})

	assert.Empty(t, r.Insert("A", a.ID))
	assert.Empty(t, r.Insert("B", b.ID))
	evicted := r.Insert("A", c.ID)
	require.Equal(t, []domain.DestID{a.ID}, evicted)

	// Most recent wins on name lookup.
	assert.Same(t, c, r.Find("A"))
	assert.Same(t, b, r.Find("B"))
	assert.Nil(t, r.Find("Z"))
}

func TestRegistry_RemoveAndEvict(t *testing.T) {
	r := New(4)
	a := r.Create(domain.Destination{Name: "A"})
	r.Insert("A", a.ID)

	assert.False(t, r.Remove("B", a.ID), "name mismatch must not remove")
	assert.True(t, r.Remove("A", a.ID))
	assert.False(t, r.IsCached(a.ID))

	r.Insert("A", a.ID)
	r.Evict(a.ID)
	assert.Nil(t, r.Get(a.ID))
	assert.Empty(t, r.Cached())
	assert.Equal(t, 0, r.Len())

	// The unique id is free again once evicted.
	assert.NotPanics(t, func() { r.Create(domain.Destination{Name: "A", UniqueID: a.UniqueID}) })
}

func TestRegistry_ZeroCapacityRejects(t *testing.T) {
	r := New(0)
	a := r.Create(domain.Destination{Name: "A"})
	assert.Equal(t, []domain.DestID{a.ID}, r.Insert("A", a.ID))
	assert.False(t, r.IsCached(a.ID))
}
