package ecs

import "siegebreak/ecs/component"

// World owns entities, component stores, and the event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity handle.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity kills an entity and drops all of its components. It returns
// false if the handle was stale.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(int(e.id()))
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is still valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns all live entity handles.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, len(w.entities.gen))
	for i := range w.entities.gen {
		if e, ok := w.entities.entityFor(i + 1); ok {
			out = append(out, e)
		}
	}
	return out
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
	if s, ok := w.stores[id]; ok {
		return s
	}
	if !create {
		return nil
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s := &SparseSet{}
	w.stores[id] = s
	return s
}
