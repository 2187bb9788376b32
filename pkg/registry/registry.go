// Package registry owns the destination records of one navigation container.
//
// Records live in an arena addressed by stable ids. The stack, the cache and
// the pending-release list hold ids only, so moving a destination between them
// never copies the record.
package registry

import (
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/google/uuid"
)

// Registry is the destination arena plus the name-keyed cache.
// It is not safe for concurrent use; callers run on the UI thread.
type Registry struct {
	nextID   domain.DestID
	records  map[domain.DestID]*domain.Destination
	byUnique map[string]domain.DestID

	cache    []domain.DestID // insertion order, oldest first
	capacity int
}

// New creates an empty registry whose cache holds at most capacity destinations.
func New(capacity int) *Registry {
	if capacity < 0 {
		capacity = 0
	}
	return &Registry{
		records:  make(map[domain.DestID]*domain.Destination),
		byUnique: make(map[string]domain.DestID),
		capacity: capacity,
	}
}

// Create allocates a record for d and returns it. A unique id is generated when
// d has none. Reusing a unique id that is still allocated is a programming error.
func (r *Registry) Create(d domain.Destination) *domain.Destination {
	if d.UniqueID == "" {
		d.UniqueID = uuid.NewString()
	}
	if _, exists := r.byUnique[d.UniqueID]; exists {
		panic(fmt.Errorf("%w: %s", domain.ErrDuplicateUniqueID, d.UniqueID))
	}
	r.nextID++
	d.ID = r.nextID
	rec := &d
	r.records[rec.ID] = rec
	r.byUnique[rec.UniqueID] = rec.ID
	return rec
}

// Get returns the record for id, or nil.
func (r *Registry) Get(id domain.DestID) *domain.Destination {
	return r.records[id]
}

// Len returns the number of allocated records.
func (r *Registry) Len() int {
	return len(r.records)
}

// FindByUniqueID returns the record with the given unique id if it is one of candidates.
// Candidates is the previous stack snapshot; forced-set entries resolve by identity against it.
func (r *Registry) FindByUniqueID(uniqueID string, candidates []domain.DestID) *domain.Destination {
	if uniqueID == "" {
		return nil
	}
	id, ok := r.byUnique[uniqueID]
	if !ok {
		return nil
	}
	for _, c := range candidates {
		if c == id {
			return r.records[id]
		}
	}
	return nil
}

// Find returns the most recently cached destination with the given name, or nil.
func (r *Registry) Find(name string) *domain.Destination {
	for i := len(r.cache) - 1; i >= 0; i-- {
		if d := r.records[r.cache[i]]; d != nil && d.Name == name {
			return d
		}
	}
	return nil
}

// Insert moves the destination into the cache. When the cache is full the oldest
// entries are pushed out and returned so the caller can release them.
func (r *Registry) Insert(name string, id domain.DestID) (evicted []domain.DestID) {
	d := r.records[id]
	if d == nil || d.Name != name || r.capacity == 0 {
		if d != nil {
			return []domain.DestID{id}
		}
		return nil
	}
	r.Remove(name, id)
	r.cache = append(r.cache, id)
	for len(r.cache) > r.capacity {
		evicted = append(evicted, r.cache[0])
		r.cache = r.cache[1:]
	}
	return evicted
}

// Remove takes the destination out of the cache. It reports whether it was cached.
func (r *Registry) Remove(name string, id domain.DestID) bool {
	for i, c := range r.cache {
		if c != id {
			continue
		}
		if d := r.records[c]; d != nil && d.Name != name {
			return false
		}
		r.cache = append(r.cache[:i], r.cache[i+1:]...)
		return true
	}
	return false
}

// Cached returns a copy of the cached ids, oldest first.
func (r *Registry) Cached() []domain.DestID {
	return append([]domain.DestID(nil), r.cache...)
}

// IsCached reports whether id is currently held by the cache.
func (r *Registry) IsCached(id domain.DestID) bool {
	for _, c := range r.cache {
		if c == id {
			return true
		}
	}
	return false
}

// Evict frees the record. It must not be referenced by the stack or the cache anymore.
func (r *Registry) Evict(id domain.DestID) {
	d, ok := r.records[id]
	if !ok {
		return
	}
	r.Remove(d.Name, id)
	delete(r.byUnique, d.UniqueID)
	delete(r.records, id)
}
