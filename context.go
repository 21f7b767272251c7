package persist

import (
	"github.com/syssam/persist/schema"
	"github.com/syssam/persist/snapshot"
)

// entry is the tracked state of one entity.
type entry struct {
	desc   *schema.Descriptor
	snap   *snapshot.Snapshot
	status Status
}

// PersistenceContext is the identity map of an EntityManager. Entities are
// tracked by pointer identity.
type PersistenceContext struct {
	entries map[any]*entry
}

// NewPersistenceContext returns an empty PersistenceContext.
func NewPersistenceContext() *PersistenceContext {
	return &PersistenceContext{entries: make(map[any]*entry)}
}

// Status returns the lifecycle state of entity. Untracked entities are New.
func (pc *PersistenceContext) Status(entity any) Status {
	if e, ok := pc.entries[entity]; ok {
		return e.status
	}
	return StatusNew
}

// Snapshot returns the snapshot taken when entity was last loaded or
// written.
func (pc *PersistenceContext) Snapshot(entity any) (*snapshot.Snapshot, bool) {
	e, ok := pc.entries[entity]
	if !ok || e.snap == nil {
		return nil, false
	}
	return e.snap, true
}

// Contains reports if entity is tracked.
func (pc *PersistenceContext) Contains(entity any) bool {
	_, ok := pc.entries[entity]
	return ok
}

// Detach stops tracking entity.
func (pc *PersistenceContext) Detach(entity any) {
	delete(pc.entries, entity)
}

// Clear stops tracking every entity.
func (pc *PersistenceContext) Clear() {
	clear(pc.entries)
}

// Len returns the number of tracked entities.
func (pc *PersistenceContext) Len() int {
	return len(pc.entries)
}

// manage tracks entity as Managed with a fresh snapshot.
func (pc *PersistenceContext) manage(d *schema.Descriptor, entity any) error {
	snap, err := snapshot.Capture(d, entity)
	if err != nil {
		return err
	}
	pc.entries[entity] = &entry{desc: d, snap: snap, status: StatusManaged}
	return nil
}

// lookup returns the entry of entity.
func (pc *PersistenceContext) lookup(entity any) (*entry, bool) {
	e, ok := pc.entries[entity]
	return e, ok
}

// mark sets the status of entity, tracking it if needed, and returns a
// function restoring the previous state.
func (pc *PersistenceContext) mark(d *schema.Descriptor, entity any, status Status) (restore func()) {
	prev, ok := pc.entries[entity]
	if !ok {
		pc.entries[entity] = &entry{desc: d, status: status}
		return func() { delete(pc.entries, entity) }
	}
	old := prev.status
	prev.status = status
	return func() { prev.status = old }
}
