package system

import (
	"siegebreak/ecs"
	"siegebreak/ecs/component"
)

// TTL counts down frame-based lifetimes and destroys expired entities.
// Fireballs carry one so a projectile that never hits anything still
// explodes; the ballistics system runs first each tick and detonates a
// fireball whose counter reached zero before this system would reap it.
type TTL struct{}

func NewTTL() *TTL {
	return &TTL{}
}

func (s *TTL) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.TTLComponent, func(e ecs.Entity, ttl *component.TTL) {
		ttl.Frames--
		if ttl.Frames < 0 {
			ecs.DestroyEntity(w, e)
		}
	})
}
