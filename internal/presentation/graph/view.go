package graph

import (
	"github.com/aretw0/wayfinder"
)

// DestinationView is a read-only description of one stack entry.
type DestinationView struct {
	ID       uint64   `json:"id"`
	Name     string   `json:"name"`
	Param    string   `json:"param,omitempty"`
	Mode     string   `json:"mode"`
	Built    bool     `json:"built"`
	Shown    bool     `json:"shown"`
	Active   bool     `json:"active"`
	Primary  bool     `json:"primary"`
	InStack  bool     `json:"in_stack"`
	Reusable bool     `json:"reusable,omitempty"`
	Nested   []string `json:"nested,omitempty"`
}

// SlotView is one position of the secondary partition while split is active.
type SlotView struct {
	ID          uint64 `json:"id"`
	Index       int    `json:"index"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// ContainerView is a read-only description of one navigation container.
type ContainerView struct {
	ID                string            `json:"id"`
	Parent            string            `json:"parent,omitempty"`
	Host              uint64            `json:"host,omitempty"`
	Split             bool              `json:"split"`
	LastStandardIndex int               `json:"last_standard_index"`
	Running           int               `json:"running"`
	Stack             []DestinationView `json:"stack"`
	Content           []SlotView        `json:"content,omitempty"`
}

// Describe captures the current state of c.
func Describe(c *wayfinder.Container) ContainerView {
	v := ContainerView{
		ID:                c.ID(),
		Split:             c.Split().Enabled(),
		LastStandardIndex: c.LastStandardIndex(),
		Running:           c.Running(),
		Stack:             []DestinationView{},
	}
	if p := c.Parent(); p != nil {
		v.Parent = p.ContainerID
		v.Host = uint64(p.Dest)
	}
	for i := range c.Stack() {
		d, ok := c.Destination(i)
		if !ok {
			continue
		}
		v.Stack = append(v.Stack, DestinationView{
			ID:       uint64(d.ID),
			Name:     d.Name,
			Param:    d.Param,
			Mode:     d.Mode.String(),
			Built:    d.Built(),
			Shown:    d.IsOnShow,
			Active:   d.IsActive,
			Primary:  d.IsShowInPrimaryPartition,
			InStack:  d.InCurrentStack,
			Reusable: d.Reusable,
			Nested:   d.Nested,
		})
	}
	if v.Split {
		for _, slot := range c.Split().Content() {
			v.Content = append(v.Content, SlotView{ID: uint64(slot.ID), Index: slot.Index, Placeholder: slot.Placeholder})
		}
	}
	return v
}

// DescribeAll captures every container of nav, sorted by id.
func DescribeAll(nav *wayfinder.Navigator) []ContainerView {
	var out []ContainerView
	for _, id := range nav.ContainerIDs() {
		if c, err := nav.Container(id); err == nil {
			out = append(out, Describe(c))
		}
	}
	return out
}
