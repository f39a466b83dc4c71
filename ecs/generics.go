package ecs

import "siegebreak/ecs/component"

// Add attaches a component to a live entity, replacing any existing value.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], v *T) error {
	if w == nil || !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	if v == nil {
		return component.ErrNilComponent
	}
	if !handle.Kind().Valid() {
		return component.ErrInvalidComponentKind
	}
	w.store(handle.Kind().ID(), true).Set(int(e.id()), v)
	return nil
}

// Get returns the component of the given kind attached to e.
func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	if w == nil || !IsAlive(w, e) {
		return nil, false
	}
	v := w.store(handle.Kind().ID(), false).Get(int(e.id()))
	if v == nil {
		return nil, false
	}
	cast, ok := v.(*T)
	return cast, ok
}

// Has reports whether e carries a component of the given kind.
func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	_, ok := Get(w, e, handle)
	return ok
}

// Remove detaches a component from e. Returns false when absent.
func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if w == nil || !IsAlive(w, e) {
		return false
	}
	return w.store(handle.Kind().ID(), false).Remove(int(e.id()))
}

// First returns an arbitrary entity carrying the given component kind.
// Useful for singleton components like level state.
func First[T any](w *World, handle component.ComponentHandle[T]) (Entity, *T, bool) {
	if w == nil {
		return 0, nil, false
	}
	s := w.store(handle.Kind().ID(), false)
	for _, id := range s.Entities() {
		e, ok := w.entities.entityFor(id)
		if !ok {
			continue
		}
		if v, ok := s.Get(id).(*T); ok {
			return e, v, true
		}
	}
	return 0, nil, false
}

// ForEach visits every live entity carrying the given component kind. The
// id list is snapshotted first, so callbacks may add or destroy entities.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	s := w.store(handle.Kind().ID(), false)
	if s.Len() == 0 {
		return
	}
	ids := append([]int(nil), s.Entities()...)
	for _, id := range ids {
		e, ok := w.entities.entityFor(id)
		if !ok {
			continue
		}
		if v, ok := s.Get(id).(*T); ok {
			fn(e, v)
		}
	}
}

// ForEach2 visits every live entity carrying both component kinds.
func ForEach2[A, B any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	sa := w.store(ha.Kind().ID(), false)
	sb := w.store(hb.Kind().ID(), false)
	ids := IntersectEntities(sa, sb)
	for _, id := range ids {
		e, ok := w.entities.entityFor(id)
		if !ok {
			continue
		}
		a, okA := sa.Get(id).(*A)
		b, okB := sb.Get(id).(*B)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

// ForEach3 visits every live entity carrying all three component kinds.
func ForEach3[A, B, C any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], hc component.ComponentHandle[C], fn func(Entity, *A, *B, *C)) {
	if w == nil || fn == nil {
		return
	}
	sa := w.store(ha.Kind().ID(), false)
	sb := w.store(hb.Kind().ID(), false)
	sc := w.store(hc.Kind().ID(), false)
	for _, id := range IntersectEntities(sa, sb) {
		if !sc.Has(id) {
			continue
		}
		e, ok := w.entities.entityFor(id)
		if !ok {
			continue
		}
		a, okA := sa.Get(id).(*A)
		b, okB := sb.Get(id).(*B)
		c, okC := sc.Get(id).(*C)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}
