package system

import (
	"log"

	"github.com/jakecoffman/cp"

	"siegebreak/ecs"
	"siegebreak/ecs/component"
	"siegebreak/tuning"
)

// Ballistics spawns fireball projectiles and turns their explosions into
// shockwaves: a radial, distance-attenuated impulse applied to every dynamic
// body in range, recorded on castle blocks as ShockwaveHit for the fracture
// pass.
type Ballistics struct {
	cfg *tuning.Config

	spawns     []fireballSpawn
	explosions []explosion
}

type fireballSpawn struct {
	x, y   float64
	vx, vy float64
}

type explosion struct {
	x, y   float64
	radius float64
	power  float64
}

// NewBallistics creates the ballistics system.
func NewBallistics(cfg *tuning.Config) *Ballistics {
	return &Ballistics{cfg: cfg}
}

// SpawnFireball queues a projectile launch for the next update. Safe to call
// from scenario scripts between ticks.
func (s *Ballistics) SpawnFireball(x, y, vx, vy float64) {
	if s == nil {
		return
	}
	s.spawns = append(s.spawns, fireballSpawn{x: x, y: y, vx: vx, vy: vy})
}

// Explode queues a bare explosion with no projectile, for scripted tests and
// scenarios.
func (s *Ballistics) Explode(x, y, radius, power float64) {
	if s == nil {
		return
	}
	s.explosions = append(s.explosions, explosion{x: x, y: y, radius: radius, power: power})
}

func (s *Ballistics) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for _, sp := range s.spawns {
		s.spawn(w, sp)
	}
	s.spawns = s.spawns[:0]

	// Fireballs flagged by the contact handler, or out of fuel, explode now.
	ecs.ForEach3(w, component.FireballComponent, component.PhysicsBodyComponent, component.TransformComponent,
		func(e ecs.Entity, fb *component.Fireball, pb *component.PhysicsBody, t *component.Transform) {
			expired := false
			if ttl, ok := ecs.Get(w, e, component.TTLComponent); ok {
				expired = ttl.Frames <= 0
			}
			if !fb.Exploded && !expired {
				return
			}
			s.explosions = append(s.explosions, explosion{x: t.X, y: t.Y, radius: fb.Radius, power: fb.Power})
			ecs.DestroyEntity(w, e)
		})

	for _, ex := range s.explosions {
		s.apply(w, ex)
	}
	s.explosions = s.explosions[:0]
}

func (s *Ballistics) spawn(w *ecs.World, sp fireballSpawn) {
	e := ecs.CreateEntity(w)

	err := ecs.Add(w, e, component.TransformComponent, &component.Transform{X: sp.x, Y: sp.y})
	if err == nil {
		err = ecs.Add(w, e, component.PhysicsBodyComponent, &component.PhysicsBody{
			Radius:     s.cfg.FireballRadius,
			Mass:       s.cfg.FireballMass,
			Elasticity: 0.1,
			VelX:       sp.vx,
			VelY:       sp.vy,
		})
	}
	if err == nil {
		err = ecs.Add(w, e, component.FireballComponent, &component.Fireball{
			Radius: s.cfg.ExplosionRadius,
			Power:  s.cfg.ExplosionImpulse,
		})
	}
	if err == nil {
		err = ecs.Add(w, e, component.TTLComponent, &component.TTL{Frames: s.cfg.FireballTTL})
	}
	if err != nil {
		log.Printf("ballistics: spawn fireball: %v", err)
		ecs.DestroyEntity(w, e)
	}
}

// apply pushes every dynamic body within the blast radius away from the
// center, scaled linearly down to zero at the edge. Castle blocks
// additionally record the impulse so the fracture pass can evaluate it;
// overlapping blasts in one tick accumulate.
func (s *Ballistics) apply(w *ecs.World, ex explosion) {
	center := cp.Vector{X: ex.x, Y: ex.y}

	ecs.ForEach2(w, component.PhysicsBodyComponent, component.TransformComponent,
		func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
			if pb.Body == nil || pb.Static {
				return
			}
			pos := pb.Body.Position()
			dist := pos.Distance(center)
			if dist > ex.radius {
				return
			}

			dir := pos.Sub(center)
			if dist > 0 {
				dir = dir.Mult(1 / dist)
			} else {
				dir = cp.Vector{X: 0, Y: 1}
			}
			scale := 1 - dist/ex.radius
			impulse := dir.Mult(ex.power * scale)
			pb.Body.ApplyImpulseAtWorldPoint(impulse, pos)

			if !ecs.Has(w, e, component.CastleBlockComponent) {
				return
			}
			if hit, ok := ecs.Get(w, e, component.ShockwaveHitComponent); ok {
				hit.ImpulseX += impulse.X
				hit.ImpulseY += impulse.Y
				return
			}
			err := ecs.Add(w, e, component.ShockwaveHitComponent, &component.ShockwaveHit{
				ImpulseX: impulse.X,
				ImpulseY: impulse.Y,
			})
			if err != nil {
				log.Printf("ballistics: add shockwave hit: %v", err)
			}
		})

	log.Printf("ballistics: explosion at (%.1f, %.1f) radius %.1f power %.1f", ex.x, ex.y, ex.radius, ex.power)
}
