package ecs

import "strconv"

// Entity is an opaque generational handle. The low 32 bits hold the slot id,
// the high 32 bits the generation, so recycled slots never alias old handles.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e Entity) Valid() bool {
	return e > 0
}

// entityStore tracks slot generations and the free list.
type entityStore struct {
	gen   []generation
	alive []bool
	free  []entityID
}

func (s *entityStore) create() Entity {
	if s == nil {
		return 0
	}
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gen = append(s.gen, 0)
		s.alive = append(s.alive, false)
		id = entityID(len(s.gen))
	}
	s.alive[id-1] = true
	return makeEntity(id, s.gen[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	idx := e.id() - 1
	s.gen[idx]++
	s.alive[idx] = false
	s.free = append(s.free, e.id())
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	if s == nil || e.id() == 0 || int(e.id()) > len(s.gen) {
		return false
	}
	idx := e.id() - 1
	return s.alive[idx] && s.gen[idx] == e.generation()
}

// entityFor rebuilds a live handle from a slot id, if that slot is in use.
func (s *entityStore) entityFor(id int) (Entity, bool) {
	if s == nil || id <= 0 || id > len(s.gen) || !s.alive[id-1] {
		return 0, false
	}
	return makeEntity(entityID(id), s.gen[id-1]), true
}
