package runtime

import (
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// PathStack is the application-facing declarative path list of one container.
// Every mutation marks the container dirty; the reconciler consumes the list on
// the next sync pass.
type PathStack struct {
	entries  []domain.PathEntry
	replace  int
	animated bool
	disabled bool

	onChange func()
}

// NewPathStack creates an empty path list.
func NewPathStack() *PathStack {
	return &PathStack{animated: true}
}

func (p *PathStack) changed(animated bool) {
	p.animated = animated && !p.disabled
	if p.onChange != nil {
		p.onChange()
	}
}

// DisableAnimation turns off animations for every following operation.
func (p *PathStack) DisableAnimation(disabled bool) {
	p.disabled = disabled
}

// Push appends a new entry.
func (p *PathStack) Push(name, param string) {
	p.PushWithLaunchMode(name, param, domain.LaunchStandard)
}

// PushNoAnimation appends a new entry and skips the transition animation.
func (p *PathStack) PushNoAnimation(name, param string) {
	p.entries = append(p.entries, domain.NewPathEntry(name, param))
	p.changed(false)
}

// PushWithLaunchMode appends an entry, honouring singleton semantics.
func (p *PathStack) PushWithLaunchMode(name, param string, mode domain.LaunchMode) {
	switch mode {
	case domain.LaunchMoveToTopSingleton:
		if i := p.lastIndexOf(name); i >= 0 {
			e := p.entries[i]
			e.Param = param
			p.entries = append(append(p.entries[:i:i], p.entries[i+1:]...), e)
			p.changed(true)
			return
		}
	case domain.LaunchPopToSingleton:
		if i := p.lastIndexOf(name); i >= 0 {
			p.entries = p.entries[:i+1]
			p.entries[i].Param = param
			p.changed(true)
			return
		}
	case domain.LaunchNewInstance:
		e := domain.NewPathEntry(name, param)
		e.NeedBuildNewInstance = true
		p.entries = append(p.entries, e)
		p.changed(true)
		return
	}
	p.entries = append(p.entries, domain.NewPathEntry(name, param))
	p.changed(true)
}

// Pop removes the top entry.
func (p *PathStack) Pop() (domain.PathEntry, bool) {
	if len(p.entries) == 0 {
		return domain.PathEntry{}, false
	}
	top := p.entries[len(p.entries)-1]
	p.entries = p.entries[:len(p.entries)-1]
	p.changed(true)
	return top, true
}

// PopTo pops every entry above the newest entry named name and returns its index, or -1.
func (p *PathStack) PopTo(name string) int {
	i := p.lastIndexOf(name)
	if i < 0 {
		return -1
	}
	if i < len(p.entries)-1 {
		p.entries = p.entries[:i+1]
		p.changed(true)
	}
	return i
}

// PopToIndex keeps entries [0, index].
func (p *PathStack) PopToIndex(index int) error {
	if index < 0 || index >= len(p.entries) {
		return fmt.Errorf("%w: %d", domain.ErrInvalidIndex, index)
	}
	if index < len(p.entries)-1 {
		p.entries = p.entries[:index+1]
		p.changed(true)
	}
	return nil
}

// Replace swaps the top entry for a new one. On an empty list it pushes.
func (p *PathStack) Replace(name, param string) {
	e := domain.NewPathEntry(name, param)
	e.IsReplaced = true
	if n := len(p.entries); n > 0 {
		old := p.entries[n-1]
		if old.Index >= 0 {
			e.ReplacedFrom = &domain.PathRef{Name: old.Name, Index: old.Index}
		}
		p.entries[n-1] = e
	} else {
		p.entries = append(p.entries, e)
	}
	p.replace = 1
	p.changed(true)
}

// MoveToTop moves the newest entry named name to the top. It reports whether one was found.
func (p *PathStack) MoveToTop(name string) bool {
	i := p.lastIndexOf(name)
	if i < 0 {
		return false
	}
	if i == len(p.entries)-1 {
		return true
	}
	e := p.entries[i]
	p.entries = append(append(p.entries[:i:i], p.entries[i+1:]...), e)
	p.changed(true)
	return true
}

// RemoveByName removes every entry named name and returns how many were removed.
func (p *PathStack) RemoveByName(name string) int {
	kept := p.entries[:0:0]
	for _, e := range p.entries {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	removed := len(p.entries) - len(kept)
	if removed > 0 {
		p.entries = kept
		p.changed(true)
	}
	return removed
}

// Clear removes every entry.
func (p *PathStack) Clear() {
	if len(p.entries) == 0 {
		return
	}
	p.entries = nil
	p.changed(true)
}

// SetPathArray replaces the whole list. Entries resolve by unique id rather than position.
func (p *PathStack) SetPathArray(entries []domain.PathEntry) {
	next := make([]domain.PathEntry, len(entries))
	for i, e := range entries {
		e.ForceSet = true
		e.Index = -1
		next[i] = e
	}
	p.entries = next
	p.changed(true)
}

// Size returns the number of entries.
func (p *PathStack) Size() int {
	return len(p.entries)
}

// Names returns the entry names in order.
func (p *PathStack) Names() []string {
	names := make([]string, len(p.entries))
	for i, e := range p.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the list.
func (p *PathStack) Entries() []domain.PathEntry {
	return append([]domain.PathEntry(nil), p.entries...)
}

func (p *PathStack) lastIndexOf(name string) int {
	for i := len(p.entries) - 1; i >= 0; i-- {
		if p.entries[i].Name == name {
			return i
		}
	}
	return -1
}

// consume hands the pending operation flags to a sync pass and resets them.
func (p *PathStack) consume() (replace int, animated bool) {
	replace, animated = p.replace, p.animated
	p.replace = 0
	p.animated = !p.disabled
	return replace, animated
}

// commit replaces the list with the reconciled entries without marking the container dirty.
func (p *PathStack) commit(entries []domain.PathEntry) {
	p.entries = entries
}

// restoreRecords loads persisted records as lazily instantiated entries.
func (p *PathStack) restoreRecords(records []domain.RecoveryRecord) {
	p.entries = domain.EntriesFromRecords(records)
	p.animated = false
	if p.onChange != nil {
		p.onChange()
	}
}
