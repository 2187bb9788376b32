package domain

import "fmt"

// Mode classifies a destination as a normal stack page or an overlay.
type Mode int

const (
	// ModeStandard is a normal page; it advances the last standard index.
	ModeStandard Mode = iota
	// ModeDialog is an overlay page; pages below it stay visible.
	ModeDialog
)

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "STANDARD"
	case ModeDialog:
		return "DIALOG"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// DestID is the stable arena id of a destination record. Zero is never a valid id.
type DestID uint64

// RenderHandle is the opaque mount handle produced by the content builder.
type RenderHandle any

// Destination is one logical page instance managed by a navigation container.
type Destination struct {
	ID       DestID
	UniqueID string
	Name     string
	Param    string

	// Index is the position in the declarative path list, or -1 if not yet placed.
	Index int
	Mode  Mode

	// ContainerID is a non-owning reference to the owning navigation container.
	ContainerID string

	// Nested lists the ids of navigation containers hosted inside this page.
	Nested []string

	// SystemBarStyle is applied while this destination is the top page. Empty means default.
	SystemBarStyle string

	// Reusable destinations are moved to the cache when removed instead of released.
	Reusable bool

	// FromRecovery marks a record restored from persisted state that has not been built yet.
	FromRecovery bool

	// Materialized is set once the content builder produced this page.
	Materialized bool

	// Disappearing is set once ON_WILL_DISAPPEAR fired.
	Disappearing bool

	IsOnShow                 bool
	IsActive                 bool
	InCurrentStack           bool
	IsShowInPrimaryPartition bool

	Handle RenderHandle
}

// Built reports whether the content builder has produced this destination.
func (d *Destination) Built() bool {
	return d != nil && d.Materialized
}

// IsDialog reports whether the destination is an overlay.
func (d *Destination) IsDialog() bool {
	return d != nil && d.Mode == ModeDialog
}

func (d *Destination) String() string {
	if d == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d", d.Name, d.ID)
}
