package domain

// PathRef identifies an entry of a previous path list by name and position.
type PathRef struct {
	Name  string
	Index int
}

// PathEntry is one element of the declarative path list.
type PathEntry struct {
	Name  string
	Param string

	// Index is the position this entry had in the previously synced list, -1 when new.
	Index int

	// UniqueID identifies the destination bound to this entry, empty when unbound.
	UniqueID string

	ForceSet             bool
	FromRecovery         bool
	NeedBuildNewInstance bool
	IsReplaced           bool
	RecoveredMode        Mode

	// ReplacedFrom is the entry this one replaced, used as a one-shot fallback
	// when the replacement cannot be instantiated.
	ReplacedFrom *PathRef
}

// NewPathEntry creates an unplaced entry.
func NewPathEntry(name, param string) PathEntry {
	return PathEntry{Name: name, Param: param, Index: -1}
}

// LaunchMode selects how a push treats an existing entry with the same name.
type LaunchMode int

const (
	LaunchStandard LaunchMode = iota
	// LaunchMoveToTopSingleton moves the newest entry with the name to the top.
	LaunchMoveToTopSingleton
	// LaunchPopToSingleton pops every entry above the newest entry with the name.
	LaunchPopToSingleton
	// LaunchNewInstance always builds a fresh destination, even when reusable ones exist.
	LaunchNewInstance
)

// LastStandardIndex returns the highest index whose mode is standard, or -1.
func LastStandardIndex(modes []Mode) int {
	for i := len(modes) - 1; i >= 0; i-- {
		if modes[i] == ModeStandard {
			return i
		}
	}
	return -1
}
