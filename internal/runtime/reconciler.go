package runtime

import (
	"context"
	"log/slog"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/registry"
)

// ReconcileInput is the previous stack and the declarative list to match against it.
type ReconcileInput struct {
	Prev    []domain.DestID
	Entries []domain.PathEntry
	// Home names the destination rooting the primary partition while force-split
	// is active. Every entry from it to the tail is built.
	Home string
}

// ReconcileResult is the materialised stack produced by one pass.
type ReconcileResult struct {
	Stack []domain.DestID
	// Entries is aligned with Stack and carries the identity bindings for the next pass.
	Entries           []domain.PathEntry
	LastStandardIndex int
	IsCurForceSetList bool

	// Removed holds ids of the previous stack that did not survive, in previous order.
	Removed []domain.DestID
	// FromCache holds ids that were pulled out of the cache during this pass.
	FromCache []domain.DestID
	// Created holds ids allocated during this pass.
	Created []domain.DestID

	Instantiated int
	Dropped      int
}

// Reconciler diffs the declarative path list against the mounted stack.
type Reconciler struct {
	containerID string
	reg         *registry.Registry
	builder     ports.ContentBuilder
	logger      *slog.Logger

	// CanReuse lets the container veto positional reuse of a mounted destination.
	CanReuse func(*domain.Destination) bool
}

// NewReconciler creates a reconciler over the given registry.
func NewReconciler(containerID string, reg *registry.Registry, builder ports.ContentBuilder, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reconciler{
		containerID: containerID,
		reg:         reg,
		builder:     builder,
		logger:      logger,
	}
}

type pass struct {
	home   string
	prev   []domain.DestID
	used   map[domain.DestID]bool
	result ReconcileResult
}

// Reconcile produces the new ordered stack. Entries that cannot be resolved are
// dropped and logged; the pass itself never fails.
func (r *Reconciler) Reconcile(ctx context.Context, in ReconcileInput) ReconcileResult {
	p := &pass{
		home: in.Home,
		prev: in.Prev,
		used: make(map[domain.DestID]bool, len(in.Entries)),
	}

	removeSize := 0
	for i, entry := range in.Entries {
		slot := i - removeSize
		d, resolved := r.resolve(ctx, p, slot, entry)

		// Push-then-replace edge case: keep the replaced page in the slot instead of dropping it.
		if d == nil && entry.ReplacedFrom != nil {
			r.logger.WarnContext(ctx, "replacement could not be instantiated, restoring replaced entry",
				"container", r.containerID, "index", slot, "name", entry.Name, "replaced", entry.ReplacedFrom.Name)
			retry := domain.NewPathEntry(entry.ReplacedFrom.Name, entry.Param)
			retry.Index = entry.ReplacedFrom.Index
			d, resolved = r.resolve(ctx, p, slot, retry)
		}

		if d == nil {
			removeSize++
			p.result.Dropped++
			r.logger.WarnContext(ctx, "dropping path entry",
				"container", r.containerID,
				"err", &domain.ResolutionError{Index: i, Name: entry.Name})
			continue
		}

		p.used[d.ID] = true
		if entry.ForceSet {
			p.result.IsCurForceSetList = true
		}
		d.Index = slot
		resolved.Index = slot
		resolved.UniqueID = d.UniqueID
		resolved.ForceSet = false
		resolved.NeedBuildNewInstance = false
		resolved.ReplacedFrom = nil
		resolved.FromRecovery = d.FromRecovery && !d.Built()
		p.result.Stack = append(p.result.Stack, d.ID)
		p.result.Entries = append(p.result.Entries, resolved)
	}

	r.generateLastStandardPage(ctx, p)

	for _, id := range in.Prev {
		if !p.used[id] {
			p.result.Removed = append(p.result.Removed, id)
		}
	}
	p.result.LastStandardIndex = r.lastStandardIndex(p.result.Stack)
	return p.result
}

// resolve finds or creates the destination for one entry. It returns the entry as
// actually resolved, which differs from the input only on the replace fallback.
func (r *Reconciler) resolve(ctx context.Context, p *pass, slot int, entry domain.PathEntry) (*domain.Destination, domain.PathEntry) {
	switch {
	case entry.FromRecovery:
		if d := r.fromPrevByUniqueID(p, entry.UniqueID); d != nil {
			return d, entry
		}
		// Instantiation is deferred until the entry is within the visible range.
		d := r.reg.Create(domain.Destination{
			Name:         entry.Name,
			Param:        entry.Param,
			Index:        slot,
			Mode:         entry.RecoveredMode,
			ContainerID:  r.containerID,
			FromRecovery: true,
		})
		p.result.Created = append(p.result.Created, d.ID)
		return d, entry

	case entry.NeedBuildNewInstance:
		return r.build(ctx, p, slot, entry), entry

	case entry.ForceSet:
		if d := r.fromPrevByUniqueID(p, entry.UniqueID); d != nil {
			return d, entry
		}
		if d := r.fromCache(p, entry.Name); d != nil {
			return d, entry
		}
		// Forced-set entries are produced by the backward walk, not here.
		d := r.reg.Create(domain.Destination{
			Name:        entry.Name,
			Param:       entry.Param,
			Index:       slot,
			Mode:        entry.RecoveredMode,
			ContainerID: r.containerID,
		})
		p.result.Created = append(p.result.Created, d.ID)
		return d, entry
	}

	if d := r.fromPrevByPosition(p, entry); d != nil {
		return d, entry
	}
	if d := r.fromCache(p, entry.Name); d != nil {
		return d, entry
	}
	return r.build(ctx, p, slot, entry), entry
}

func (r *Reconciler) fromPrevByUniqueID(p *pass, uniqueID string) *domain.Destination {
	d := r.reg.FindByUniqueID(uniqueID, p.prev)
	if d == nil || p.used[d.ID] {
		return nil
	}
	return d
}

func (r *Reconciler) fromPrevByPosition(p *pass, entry domain.PathEntry) *domain.Destination {
	if entry.Index < 0 || entry.Index >= len(p.prev) {
		return nil
	}
	d := r.reg.Get(p.prev[entry.Index])
	if d == nil || p.used[d.ID] || d.Name != entry.Name {
		return nil
	}
	if entry.UniqueID != "" && d.UniqueID != entry.UniqueID {
		return nil
	}
	if r.CanReuse != nil && !r.CanReuse(d) {
		return nil
	}
	return d
}

func (r *Reconciler) fromCache(p *pass, name string) *domain.Destination {
	d := r.reg.Find(name)
	if d == nil || p.used[d.ID] {
		return nil
	}
	r.reg.Remove(name, d.ID)
	p.result.FromCache = append(p.result.FromCache, d.ID)
	return d
}

func (r *Reconciler) build(ctx context.Context, p *pass, slot int, entry domain.PathEntry) *domain.Destination {
	if r.builder == nil {
		return nil
	}
	built, ok := r.builder.CreateNodeByIndex(ctx, slot, entry)
	if !ok {
		return nil
	}
	d := r.reg.Create(domain.Destination{
		Name:           entry.Name,
		Param:          entry.Param,
		Index:          slot,
		Mode:           built.Mode,
		ContainerID:    r.containerID,
		Nested:         built.Nested,
		SystemBarStyle: built.SystemBarStyle,
		Reusable:       built.Reusable,
		Materialized:   true,
		Handle:         built.Handle,
	})
	p.result.Created = append(p.result.Created, d.ID)
	p.result.Instantiated++
	return d
}

// materialize builds a record that was created lazily (recovery or forced-set).
func (r *Reconciler) materialize(ctx context.Context, p *pass, slot int) bool {
	d := r.reg.Get(p.result.Stack[slot])
	if d.Built() {
		return true
	}
	if r.builder == nil {
		return false
	}
	built, ok := r.builder.CreateNodeByIndex(ctx, slot, p.result.Entries[slot])
	if !ok {
		return false
	}
	d.Mode = built.Mode
	d.Nested = built.Nested
	d.SystemBarStyle = built.SystemBarStyle
	d.Reusable = built.Reusable
	d.Handle = built.Handle
	d.Materialized = true
	d.FromRecovery = false
	p.result.Entries[slot].FromRecovery = false
	p.result.Instantiated++
	return true
}

// generateLastStandardPage makes sure every destination from the last standard
// page to the tail is built. It walks backward from the tail; recovered entries
// know their mode up front, forced-set entries must be built to learn it. The
// range found is then built bottom-up so dialogs are produced after the page
// they cover. With a home set, the range is widened down to the home entry.
// An entry that fails to build is dropped and the walk restarts.
func (r *Reconciler) generateLastStandardPage(ctx context.Context, p *pass) {
	for {
		start := len(p.result.Stack)
		failed := -1
		for i := len(p.result.Stack) - 1; i >= 0; i-- {
			d := r.reg.Get(p.result.Stack[i])
			if !d.Built() && !d.FromRecovery {
				if !r.materialize(ctx, p, i) {
					failed = i
					break
				}
			}
			start = i
			if d.Mode == domain.ModeStandard {
				break
			}
		}
		if home := r.homeIndex(p); home >= 0 && home < start {
			start = home
		}
		if failed < 0 {
			for i := start; i < len(p.result.Stack); i++ {
				if !r.materialize(ctx, p, i) {
					failed = i
					break
				}
			}
		}
		if failed < 0 {
			if start == 0 && len(p.result.Stack) > 0 && r.lastStandardIndex(p.result.Stack) < 0 {
				r.logger.WarnContext(ctx, "no standard destination in stack, top stays on the navigation bar",
					"container", r.containerID, "size", len(p.result.Stack))
			}
			return
		}
		r.dropSlot(ctx, p, failed)
	}
}

func (r *Reconciler) homeIndex(p *pass) int {
	if p.home == "" {
		return -1
	}
	for i, id := range p.result.Stack {
		if r.reg.Get(id).Name == p.home {
			return i
		}
	}
	return -1
}

func (r *Reconciler) dropSlot(ctx context.Context, p *pass, slot int) {
	id := p.result.Stack[slot]
	d := r.reg.Get(id)
	r.logger.WarnContext(ctx, "dropping path entry",
		"container", r.containerID,
		"err", &domain.ResolutionError{Index: slot, Name: d.Name})

	p.result.Stack = append(p.result.Stack[:slot], p.result.Stack[slot+1:]...)
	p.result.Entries = append(p.result.Entries[:slot], p.result.Entries[slot+1:]...)
	for i := slot; i < len(p.result.Stack); i++ {
		p.result.Entries[i].Index = i
		r.reg.Get(p.result.Stack[i]).Index = i
	}
	p.result.Dropped++
	p.used[id] = false

	// A record allocated in this pass that never got built is simply freed.
	for i, c := range p.result.Created {
		if c == id {
			p.result.Created = append(p.result.Created[:i], p.result.Created[i+1:]...)
			r.reg.Evict(id)
			return
		}
	}
}

func (r *Reconciler) lastStandardIndex(stack []domain.DestID) int {
	modes := make([]domain.Mode, len(stack))
	for i, id := range stack {
		modes[i] = r.reg.Get(id).Mode
	}
	return domain.LastStandardIndex(modes)
}
