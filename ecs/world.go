package ecs

import "github.com/milk9111/skyhook/ecs/component"

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// World owns entities, component storage, the frame event queue, and the
// system schedule. It knows nothing about physics or rendering; systems
// carry those dependencies themselves.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*SparseSet
	events    EventQueue
	scheduler *Scheduler
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		stores:    map[component.ComponentID]*SparseSet{},
		scheduler: NewScheduler(),
	}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes an entity and every component attached to it,
// reporting whether it was alive.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	return w.entities.destroy(e)
}

// Entities returns every live entity.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.entities()
}

// IsAlive reports whether the handle refers to a live entity.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Schedule appends systems to the update order.
func (w *World) Schedule(systems ...System) {
	if w == nil {
		return
	}
	w.scheduler.Add(systems...)
}

// Update runs all scheduled systems once, then drops unconsumed events.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.scheduler.Update(w)
	w.events.flush()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w == nil {
		return nil
	}
	s, ok := w.stores[id]
	if !ok && create {
		if w.stores == nil {
			w.stores = map[component.ComponentID]*SparseSet{}
		}
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

func (w *World) addComponent(e Entity, id component.ComponentID, v any) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	if v == nil {
		return component.ErrNilComponent
	}
	w.store(id, true).Set(e, v)
	return nil
}

func (w *World) getComponent(e Entity, id component.ComponentID) (any, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	s := w.store(id, false)
	if s == nil {
		return nil, false
	}
	v := s.Get(e)
	if v == nil {
		return nil, false
	}
	return v, true
}

func (w *World) hasComponent(e Entity, id component.ComponentID) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(id, false).Has(e)
}

func (w *World) removeComponent(e Entity, id component.ComponentID) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	s := w.store(id, false)
	if s == nil {
		return false
	}
	return s.Remove(e)
}
