package ecs

// SparseSet is cache-friendly component storage keyed by entity slot id.
// Values are stored as `any`; the typed accessors in generics.go do the
// casting.
type SparseSet struct {
	denseEntities []int
	denseValues   []any
	sparse        []int
}

// Has returns true if the entity id exists in the set.
func (s *SparseSet) Has(id int) bool {
	if s == nil || id <= 0 || id-1 >= len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.denseEntities) && s.denseEntities[idx] == id
}

// Get returns the component for id, or nil.
func (s *SparseSet) Get(id int) any {
	if !s.Has(id) {
		return nil
	}
	return s.denseValues[s.sparse[id-1]]
}

// Set inserts or updates a component for id.
func (s *SparseSet) Set(id int, v any) {
	if s == nil || id <= 0 {
		return
	}
	for id-1 >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.Has(id) {
		s.denseValues[s.sparse[id-1]] = v
		return
	}
	s.denseEntities = append(s.denseEntities, id)
	s.denseValues = append(s.denseValues, v)
	s.sparse[id-1] = len(s.denseEntities) - 1
}

// Remove deletes the component for id if present.
func (s *SparseSet) Remove(id int) bool {
	if s == nil || !s.Has(id) {
		return false
	}
	idx := s.sparse[id-1]
	last := len(s.denseEntities) - 1
	lastID := s.denseEntities[last]

	s.denseEntities[idx] = s.denseEntities[last]
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[lastID-1] = idx

	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[id-1] = -1
	return true
}

// Entities returns the dense entity id list.
func (s *SparseSet) Entities() []int {
	if s == nil {
		return nil
	}
	return s.denseEntities
}

// Len returns the number of stored components.
func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseEntities)
}

// IntersectEntities returns entity ids present in both sets.
func IntersectEntities(a, b *SparseSet) []int {
	if a == nil || b == nil {
		return nil
	}
	// iterate smaller set
	if len(a.denseEntities) > len(b.denseEntities) {
		a, b = b, a
	}
	out := make([]int, 0, len(a.denseEntities))
	for _, id := range a.denseEntities {
		if b.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
