package runtime

import (
	"fmt"
	"sort"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// ParentRef is a non-owning link from a nested container to the destination hosting it.
type ParentRef struct {
	ContainerID string
	Dest        domain.DestID
}

// Hierarchy resolves navigation containers by id. Containers never hold
// pointers to their parents; they look them up here.
type Hierarchy struct {
	containers map[string]*Container
}

// NewHierarchy creates an empty hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{containers: make(map[string]*Container)}
}

func (h *Hierarchy) register(c *Container) error {
	if _, ok := h.containers[c.id]; ok {
		return fmt.Errorf("%w: %s", domain.ErrContainerExists, c.id)
	}
	h.containers[c.id] = c
	return nil
}

func (h *Hierarchy) unregister(id string) {
	delete(h.containers, id)
}

// Get returns the container registered under id.
func (h *Hierarchy) Get(id string) (*Container, error) {
	c, ok := h.containers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrContainerNotFound, id)
	}
	return c, nil
}

// IDs returns the registered container ids, sorted.
func (h *Hierarchy) IDs() []string {
	ids := make([]string, 0, len(h.containers))
	for id := range h.containers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Roots returns the outermost containers, sorted by id.
func (h *Hierarchy) Roots() []*Container {
	var roots []*Container
	for _, id := range h.IDs() {
		if c := h.containers[id]; c.parent == nil {
			roots = append(roots, c)
		}
	}
	return roots
}
