package domain

import "fmt"

// NodeKind is the tag of a NodeRef.
type NodeKind int

const (
	KindNone NodeKind = iota
	// KindNavBar is the navigation bar / home surface shown when no standard page is on top.
	KindNavBar
	// KindHome is the designated home destination used as the primary partition root.
	KindHome
	// KindStack is an ordinary stack destination.
	KindStack
)

func (k NodeKind) String() string {
	switch k {
	case KindNavBar:
		return "navbar"
	case KindHome:
		return "home"
	case KindStack:
		return "stack"
	default:
		return "none"
	}
}

// NodeRef is a tagged reference to one of the nodes a transition can involve.
// The zero value means "absent".
type NodeRef struct {
	Kind  NodeKind
	ID    DestID
	Index int
}

// NavBarRef refers to the navigation bar.
func NavBarRef() NodeRef { return NodeRef{Kind: KindNavBar, Index: -1} }

// StackRef refers to a stack destination at index.
func StackRef(id DestID, index int) NodeRef { return NodeRef{Kind: KindStack, ID: id, Index: index} }

// HomeRef refers to the home destination at index.
func HomeRef(id DestID, index int) NodeRef { return NodeRef{Kind: KindHome, ID: id, Index: index} }

// IsAbsent reports whether the reference points to nothing.
func (r NodeRef) IsAbsent() bool { return r.Kind == KindNone }

// IsDestination reports whether the reference points to a destination record.
func (r NodeRef) IsDestination() bool { return r.Kind == KindStack || r.Kind == KindHome }

// Same reports identity equality. Home and stack refs to the same record are the same node.
func (r NodeRef) Same(o NodeRef) bool {
	if r.IsDestination() && o.IsDestination() {
		return r.ID == o.ID
	}
	return r.Kind == o.Kind
}

func (r NodeRef) String() string {
	switch r.Kind {
	case KindStack, KindHome:
		return fmt.Sprintf("%s(%d@%d)", r.Kind, r.ID, r.Index)
	default:
		return r.Kind.String()
	}
}
