package domain

import (
	"errors"
	"fmt"
)

// ErrStackNotFound is returned when no persisted stack exists for a container.
var ErrStackNotFound = errors.New("stack not found")

// ErrContainerNotFound is returned when a container id is not registered in the hierarchy.
var ErrContainerNotFound = errors.New("container not found")

// ErrContainerExists is returned when registering an already known container id.
var ErrContainerExists = errors.New("container already registered")

// ErrDuplicateUniqueID signals a caller-side identity generation bug.
var ErrDuplicateUniqueID = errors.New("duplicate destination unique id")

// ErrInvalidIndex is returned by path stack operations addressing a missing entry.
var ErrInvalidIndex = errors.New("invalid path index")

// ErrTransitionInProgress is returned when an interactive gesture is already current.
var ErrTransitionInProgress = errors.New("interactive transition in progress")

// ResolutionError describes a path entry that could not be matched or instantiated.
type ResolutionError struct {
	Index int
	Name  string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("path entry %d (%q) could not be resolved", e.Index, e.Name)
}
