package sim

import (
	"context"
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// Route describes how a destination name is built.
type Route struct {
	Mode           domain.Mode `yaml:"mode" mapstructure:"mode"`
	Reusable       bool        `yaml:"reusable" mapstructure:"reusable"`
	SystemBarStyle string      `yaml:"system_bar" mapstructure:"system_bar"`
	Nested         []string    `yaml:"nested" mapstructure:"nested"`
	// Fail makes every build of the route report failure.
	Fail bool `yaml:"fail" mapstructure:"fail"`
}

// RouteTable is a ports.ContentBuilder over a static name to route map.
// Unknown names fail to build.
type RouteTable struct {
	routes   map[string]Route
	builds   map[string]int
	seq      int
	released []domain.RenderHandle
}

// NewRouteTable creates a table. routes may be nil.
func NewRouteTable(routes map[string]Route) *RouteTable {
	t := &RouteTable{
		routes: make(map[string]Route, len(routes)),
		builds: make(map[string]int),
	}
	for name, r := range routes {
		t.routes[name] = r
	}
	return t
}

// Set adds or replaces a route.
func (t *RouteTable) Set(name string, r Route) {
	t.routes[name] = r
}

// CreateNodeByIndex builds the destination for entry.
func (t *RouteTable) CreateNodeByIndex(ctx context.Context, index int, entry domain.PathEntry) (ports.Built, bool) {
	r, ok := t.routes[entry.Name]
	if !ok || r.Fail {
		return ports.Built{}, false
	}
	t.seq++
	t.builds[entry.Name]++
	return ports.Built{
		Handle:         fmt.Sprintf("%s#%d", entry.Name, t.seq),
		Mode:           r.Mode,
		Reusable:       r.Reusable,
		SystemBarStyle: r.SystemBarStyle,
		Nested:         append([]string(nil), r.Nested...),
	}, true
}

// Release records a released render handle.
func (t *RouteTable) Release(ctx context.Context, handle domain.RenderHandle) {
	t.released = append(t.released, handle)
}

// Builds returns how many times name was built.
func (t *RouteTable) Builds(name string) int {
	return t.builds[name]
}

// TotalBuilds returns the number of successful builds.
func (t *RouteTable) TotalBuilds() int {
	return t.seq
}

// Released returns the released render handles in order.
func (t *RouteTable) Released() []domain.RenderHandle {
	return append([]domain.RenderHandle(nil), t.released...)
}
