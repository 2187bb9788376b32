package runtime

import (
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/registry"
)

// DefaultSplitThreshold is the minimum window width, in virtual pixels, for force-split.
const DefaultSplitThreshold = 600

// Slot is one position of the secondary content partition. A placeholder keeps
// the index of a destination currently rendered in the primary partition.
type Slot struct {
	ID          domain.DestID
	Index       int
	Placeholder bool
}

// SplitManager decides between single-pane and force-split layouts and owns
// the primary node set.
type SplitManager struct {
	threshold float64
	surface   domain.Surface
	outermost bool
	home      string

	enabled bool
	primary []domain.DestID
	content []Slot
}

// NewSplitManager creates a manager. home names the destination that roots the
// primary partition; it may be empty.
func NewSplitManager(threshold float64, surface domain.Surface, outermost bool, home string) *SplitManager {
	if threshold <= 0 {
		threshold = DefaultSplitThreshold
	}
	return &SplitManager{
		threshold: threshold,
		surface:   surface,
		outermost: outermost,
		home:      home,
	}
}

// Decide reports whether force-split should be active for g.
func (s *SplitManager) Decide(g domain.Geometry) bool {
	return s.surface.MainWindow &&
		s.surface.PrimaryPage &&
		s.outermost &&
		g.IsLandscape() &&
		g.Width > s.threshold &&
		g.WindowMode != domain.WindowSplitScreen
}

// Enabled reports whether force-split is active.
func (s *SplitManager) Enabled() bool {
	return s.enabled
}

// SetEnabled switches the mode and reports whether it changed.
func (s *SplitManager) SetEnabled(enabled bool) bool {
	if s.enabled == enabled {
		return false
	}
	s.enabled = enabled
	return true
}

// Home returns the name of the home destination.
func (s *SplitManager) Home() string {
	return s.home
}

// Primary returns the primary node set in stack order.
func (s *SplitManager) Primary() []domain.DestID {
	return append([]domain.DestID(nil), s.primary...)
}

// IsPrimary reports membership in the primary node set.
func (s *SplitManager) IsPrimary(id domain.DestID) bool {
	for _, p := range s.primary {
		if p == id {
			return true
		}
	}
	return false
}

// Content returns the secondary content partition, placeholders included.
func (s *SplitManager) Content() []Slot {
	return append([]Slot(nil), s.content...)
}

// HomeIndex returns the position of the home destination in stack, or -1.
func (s *SplitManager) HomeIndex(reg *registry.Registry, stack []domain.DestID) int {
	if s.home == "" {
		return -1
	}
	for i, id := range stack {
		if d := reg.Get(id); d != nil && d.Name == s.home {
			return i
		}
	}
	return -1
}

// Apply recomputes the primary node set and the content partition for stack.
func (s *SplitManager) Apply(reg *registry.Registry, stack []domain.DestID, lsi int) {
	var next []domain.DestID
	if s.enabled {
		next = s.partition(reg, stack, lsi)
	}

	member := make(map[domain.DestID]bool, len(next))
	for _, id := range next {
		member[id] = true
	}
	for _, id := range s.primary {
		if d := reg.Get(id); d != nil && !member[id] {
			d.IsShowInPrimaryPartition = false
		}
	}

	s.primary = next
	s.content = s.content[:0]
	for i, id := range stack {
		s.content = append(s.content, Slot{ID: id, Index: i, Placeholder: member[id]})
		if d := reg.Get(id); d != nil {
			d.IsShowInPrimaryPartition = member[id]
		}
	}
}

func (s *SplitManager) partition(reg *registry.Registry, stack []domain.DestID, lsi int) []domain.DestID {
	homeIdx := s.HomeIndex(reg, stack)
	if homeIdx < 0 || homeIdx == lsi {
		if lsi < 0 {
			return nil
		}
		return append([]domain.DestID(nil), stack[lsi:]...)
	}
	end := len(stack)
	for i := homeIdx + 1; i < len(stack); i++ {
		if reg.Get(stack[i]).Mode == domain.ModeStandard {
			end = i
			break
		}
	}
	return append([]domain.DestID(nil), stack[homeIdx:end]...)
}
