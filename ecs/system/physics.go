package system

import (
	"log"

	"github.com/jakecoffman/cp"

	"siegebreak/ecs"
	"siegebreak/ecs/component"
	"siegebreak/tuning"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeBlock
	collisionTypeFireball
)

// Physics owns the Chipmunk space. It creates bodies and shapes for entities
// that gained a PhysicsBody since the last tick, removes the bodies of dead
// entities, steps the simulation, and writes body positions back into
// Transform components.
type Physics struct {
	cfg *tuning.Config
	dt  float64

	space         *cp.Space
	world         *ecs.World
	shapeToEntity map[*cp.Shape]ecs.Entity
	boundsBuilt   bool
}

// NewPhysics creates the physics system with a fixed timestep.
func NewPhysics(cfg *tuning.Config, dt float64) *Physics {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity})

	p := &Physics{
		cfg:           cfg,
		dt:            dt,
		space:         space,
		shapeToEntity: make(map[*cp.Shape]ecs.Entity),
	}
	p.setupHandlers()
	return p
}

// Space returns the underlying Chipmunk space.
func (p *Physics) Space() *cp.Space {
	if p == nil {
		return nil
	}
	return p.space
}

func (p *Physics) Update(w *ecs.World) {
	if p == nil || p.space == nil || w == nil {
		return
	}
	p.world = w

	p.removeDeadBodies(w)
	p.buildBounds(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent, component.TransformComponent,
		func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
			if pb.Shape == nil {
				p.ensureBody(w, e, pb, t)
			}
		})

	p.space.Step(p.dt)

	ecs.ForEach2(w, component.PhysicsBodyComponent, component.TransformComponent,
		func(_ ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
			if pb.Body == nil || pb.Static {
				return
			}
			pos := pb.Body.Position()
			t.X = pos.X
			t.Y = pos.Y
			t.Rotation = pb.Body.Angle()
		})
}

// setupHandlers registers the fireball contact handlers. A fireball touching
// a wall or a castle block is flagged exploded; the ballistics system turns
// the flag into a shockwave on its next update.
func (p *Physics) setupHandlers() {
	begin := func(arb *cp.Arbiter, _ *cp.Space, userData interface{}) bool {
		phys, ok := userData.(*Physics)
		if !ok || phys == nil || phys.world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		for _, shape := range []*cp.Shape{shapeA, shapeB} {
			e, ok := phys.shapeToEntity[shape]
			if !ok {
				continue
			}
			if fb, ok := ecs.Get(phys.world, e, component.FireballComponent); ok {
				fb.Exploded = true
			}
		}
		return true
	}

	for _, other := range []cp.CollisionType{collisionTypeSolid, collisionTypeBlock} {
		handler := p.space.NewCollisionHandler(collisionTypeFireball, other)
		handler.UserData = p
		handler.BeginFunc = begin
	}
}

func (p *Physics) ensureBody(w *ecs.World, e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
	if pb.Static {
		bb := cp.BB{
			L: t.X - pb.Width/2,
			B: t.Y - pb.Height/2,
			R: t.X + pb.Width/2,
			T: t.Y + pb.Height/2,
		}
		shape := cp.NewBox2(p.space.StaticBody, bb, 0)
		shape.SetFriction(friction(pb))
		shape.SetElasticity(pb.Elasticity)
		shape.SetCollisionType(collisionTypeSolid)
		p.space.AddShape(shape)

		pb.Body = p.space.StaticBody
		pb.Shape = shape
		p.shapeToEntity[shape] = e
		return
	}

	mass := pb.Mass
	if mass <= 0 {
		mass = 1
	}

	var body *cp.Body
	var shape *cp.Shape
	if pb.Radius > 0 {
		body = cp.NewBody(mass, cp.MomentForCircle(mass, 0, pb.Radius, cp.Vector{}))
		shape = cp.NewCircle(body, pb.Radius, cp.Vector{})
	} else {
		body = cp.NewBody(mass, cp.MomentForBox(mass, pb.Width, pb.Height))
		shape = cp.NewBox(body, pb.Width, pb.Height, 0)
	}
	body.SetPosition(cp.Vector{X: t.X, Y: t.Y})
	body.SetAngle(t.Rotation)
	if pb.VelX != 0 || pb.VelY != 0 {
		body.SetVelocity(pb.VelX, pb.VelY)
	}

	shape.SetFriction(friction(pb))
	shape.SetElasticity(pb.Elasticity)
	switch {
	case ecs.Has(w, e, component.FireballComponent):
		shape.SetCollisionType(collisionTypeFireball)
	case ecs.Has(w, e, component.CastleBlockComponent):
		shape.SetCollisionType(collisionTypeBlock)
	default:
		shape.SetCollisionType(collisionTypeSolid)
	}

	if pb.LinearDamping > 0 || pb.AngularDamping > 0 {
		lin, ang := pb.LinearDamping, pb.AngularDamping
		body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(b, gravity, damping, dt)
			if lin > 0 {
				b.SetVelocityVector(b.Velocity().Mult(1 - lin*dt))
			}
			if ang > 0 {
				b.SetAngularVelocity(b.AngularVelocity() * (1 - ang*dt))
			}
		})
	}

	p.space.AddBody(body)
	p.space.AddShape(shape)

	pb.Body = body
	pb.Shape = shape
	p.shapeToEntity[shape] = e
}

// removeDeadBodies drops the physics state of destroyed entities. Any
// constraints still attached to a dead body are removed first.
func (p *Physics) removeDeadBodies(w *ecs.World) {
	for shape, e := range p.shapeToEntity {
		if ecs.IsAlive(w, e) {
			continue
		}
		body := shape.Body()
		p.space.RemoveShape(shape)
		if body != nil && body != p.space.StaticBody {
			body.EachConstraint(func(c *cp.Constraint) {
				if p.space.ContainsConstraint(c) {
					p.space.RemoveConstraint(c)
				}
			})
			p.space.RemoveBody(body)
		}
		delete(p.shapeToEntity, shape)
	}
}

// buildBounds adds static segments around the level so blocks and fireballs
// can't escape the playfield.
func (p *Physics) buildBounds(w *ecs.World) {
	if p.boundsBuilt {
		return
	}
	_, bounds, ok := ecs.First(w, component.LevelBoundsComponent)
	if !ok {
		return
	}

	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: bounds.Width, Y: 0}},
		{a: cp.Vector{X: 0, Y: bounds.Height}, b: cp.Vector{X: bounds.Width, Y: bounds.Height}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: bounds.Height}},
		{a: cp.Vector{X: bounds.Width, Y: 0}, b: cp.Vector{X: bounds.Width, Y: bounds.Height}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(p.space.StaticBody, seg.a, seg.b, 1)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeSolid)
		p.space.AddShape(shape)
	}
	p.boundsBuilt = true
	log.Printf("physics: level bounds %.0fx%.0f", bounds.Width, bounds.Height)
}

func friction(pb *component.PhysicsBody) float64 {
	if pb.Friction > 0 {
		return pb.Friction
	}
	return 0.8
}
