package system

import (
	"errors"
	"log"
	"math"

	"github.com/jakecoffman/cp"

	"siegebreak/castle"
	"siegebreak/ecs"
	"siegebreak/ecs/component"
	"siegebreak/tuning"
)

// Castle drives the structural subsystem: it indexes castle blocks onto the
// level grid, assigns footprint-scaled masses, builds mortar joints between
// adjacent blocks, and severs joints on blocks hit hard enough.
//
// Indexing and joint construction are one-shot passes tracked by the
// CastleState singleton; fracture evaluation runs every tick.
type Castle struct {
	cfg  *tuning.Config
	phys *Physics

	grid *castle.Grid
}

// NewCastle creates the castle system. It shares the physics system's space
// for constraint bookkeeping.
func NewCastle(cfg *tuning.Config, phys *Physics) *Castle {
	return &Castle{cfg: cfg, phys: phys}
}

func (c *Castle) Update(w *ecs.World) {
	if c == nil || w == nil || c.phys == nil {
		return
	}

	state := c.state(w)
	if state == nil {
		return
	}

	if state.Phase == component.CastleUninitialized {
		c.index(w, state)
	}
	if state.Phase == component.CastleIndexed {
		c.buildJoints(w, state)
	}

	c.fracture(w)
}

// state returns the CastleState singleton, creating it once the level has
// spawned at least one castle block.
func (c *Castle) state(w *ecs.World) *component.CastleState {
	if _, state, ok := ecs.First(w, component.CastleStateComponent); ok {
		return state
	}
	if _, _, ok := ecs.First(w, component.CastleBlockComponent); !ok {
		return nil
	}
	e := ecs.CreateEntity(w)
	state := &component.CastleState{}
	if err := ecs.Add(w, e, component.CastleStateComponent, state); err != nil {
		log.Printf("castle: add state: %v", err)
		return nil
	}
	return state
}

// index places every castle block on the grid and assigns its mass. Blocks
// whose bodies the physics system hasn't created yet defer the whole pass to
// a later tick, so mass assignment happens exactly once.
func (c *Castle) index(w *ecs.World, state *component.CastleState) {
	ready := true
	ecs.ForEach2(w, component.CastleBlockComponent, component.PhysicsBodyComponent,
		func(_ ecs.Entity, _ *component.CastleBlock, pb *component.PhysicsBody) {
			if pb.Body == nil {
				ready = false
			}
		})
	if !ready {
		return
	}

	grid := castle.NewGrid(c.cfg.GridUnit)
	ecs.ForEach2(w, component.CastleBlockComponent, component.PhysicsBodyComponent,
		func(e ecs.Entity, blk *component.CastleBlock, pb *component.PhysicsBody) {
			origin := castle.Coord{X: blk.GridX, Y: blk.GridY}
			_, err := grid.Place(uint64(e), origin, blk.Width, blk.Height)
			var conflict *castle.ConflictError
			if errors.As(err, &conflict) {
				log.Printf("castle: level data overlap at %v, earlier block keeps entity %s out", conflict.Cells, e)
			}

			mass := castle.BlockMass(blk.Width, blk.Height, c.cfg.BaseMass, c.cfg.ReferenceArea)
			pb.Mass = mass
			pb.Body.SetMass(mass)
			pb.Body.SetMoment(cp.MomentForBox(mass, blk.Width, blk.Height))
		})

	c.grid = grid
	state.Phase = component.CastleIndexed
	log.Printf("castle: indexed %d cell(s)", grid.Len())
}

// buildJoints resolves adjacency and creates one mortar joint per adjacent
// block pair: a pivot joint pinned at the shared face plus a gear joint
// locking relative rotation.
func (c *Castle) buildJoints(w *ecs.World, state *component.CastleState) {
	if c.grid == nil {
		return
	}
	space := c.phys.Space()
	unit := float64(c.grid.Unit())

	for _, pair := range c.grid.AdjacentPairs() {
		entA := ecs.Entity(pair.A.Handle)
		entB := ecs.Entity(pair.B.Handle)
		blkA, okA := ecs.Get(w, entA, component.CastleBlockComponent)
		blkB, okB := ecs.Get(w, entB, component.CastleBlockComponent)
		pbA, okPA := ecs.Get(w, entA, component.PhysicsBodyComponent)
		pbB, okPB := ecs.Get(w, entB, component.PhysicsBodyComponent)
		if !okA || !okB || !okPA || !okPB || pbA.Body == nil || pbB.Body == nil {
			continue
		}

		anchorA, insideA := castle.Anchor(pair.A, pair.B, unit)
		anchorB, insideB := castle.Anchor(pair.B, pair.A, unit)
		if !insideA || !insideB {
			log.Printf("castle: anchor outside block for pair %s-%s: %+v %+v", entA, entB, anchorA, anchorB)
		}

		localA := cp.Vector{X: anchorA.X, Y: anchorA.Y}
		localB := cp.Vector{X: anchorB.X, Y: anchorB.Y}
		pivot := cp.NewPivotJoint2(pbA.Body, pbB.Body, localA, localB)
		pivot.SetErrorBias(c.cfg.Compliance)
		gear := cp.NewGearJoint(pbA.Body, pbB.Body, 0, 1)
		gear.SetErrorBias(c.cfg.Compliance)
		space.AddConstraint(pivot)
		space.AddConstraint(gear)

		jointEnt := ecs.CreateEntity(w)
		joint := &component.MortarJoint{
			A:       uint64(entA),
			B:       uint64(entB),
			Pivot:   pivot,
			Gear:    gear,
			AnchorA: localA,
			AnchorB: localB,
		}
		if err := ecs.Add(w, jointEnt, component.MortarJointComponent, joint); err != nil {
			log.Printf("castle: add joint: %v", err)
			space.RemoveConstraint(pivot)
			space.RemoveConstraint(gear)
			ecs.DestroyEntity(w, jointEnt)
			continue
		}
		blkA.Joints = append(blkA.Joints, uint64(jointEnt))
		blkB.Joints = append(blkB.Joints, uint64(jointEnt))

		state.JointsBuilt++
		w.Events().Push(ecs.Event{Type: ecs.EventJointBuilt, Data: ecs.JointBuiltEvent{
			Joint: jointEnt, A: entA, B: entB,
		}})
	}

	state.Phase = component.CastleJointsBuilt
	log.Printf("castle: built %d mortar joint(s)", state.JointsBuilt)
}

// fracture consumes this tick's shockwave hits. A hit at or above the
// breaking threshold severs every joint still attached to the block; the
// load redistribution that may break more joints plays out over later ticks.
func (c *Castle) fracture(w *ecs.World) {
	ecs.ForEach2(w, component.CastleBlockComponent, component.ShockwaveHitComponent,
		func(e ecs.Entity, blk *component.CastleBlock, hit *component.ShockwaveHit) {
			magnitude := math.Hypot(hit.ImpulseX, hit.ImpulseY)
			broke := magnitude >= c.cfg.BreakingImpulse
			if broke {
				c.severJoints(w, e, blk)
			}
			ecs.Remove(w, e, component.ShockwaveHitComponent)
			w.Events().Push(ecs.Event{Type: ecs.EventShockwave, Data: ecs.ShockwaveEvent{
				Block: e, Magnitude: magnitude, Fractured: broke,
			}})
		})
}

func (c *Castle) severJoints(w *ecs.World, block ecs.Entity, blk *component.CastleBlock) {
	space := c.phys.Space()

	// The joint list shrinks as we detach; walk a copy.
	handles := append([]uint64(nil), blk.Joints...)
	for _, h := range handles {
		jointEnt := ecs.Entity(h)
		joint, ok := ecs.Get(w, jointEnt, component.MortarJointComponent)
		if !ok {
			blk.DetachJoint(h)
			continue
		}

		if joint.Pivot != nil && space.ContainsConstraint(joint.Pivot) {
			space.RemoveConstraint(joint.Pivot)
		}
		if joint.Gear != nil && space.ContainsConstraint(joint.Gear) {
			space.RemoveConstraint(joint.Gear)
		}

		for _, side := range []uint64{joint.A, joint.B} {
			if other, ok := ecs.Get(w, ecs.Entity(side), component.CastleBlockComponent); ok {
				other.DetachJoint(h)
			}
		}
		ecs.DestroyEntity(w, jointEnt)

		w.Events().Push(ecs.Event{Type: ecs.EventJointBroken, Data: ecs.JointBrokenEvent{
			Joint: jointEnt, A: ecs.Entity(joint.A), B: ecs.Entity(joint.B),
		}})
	}
	log.Printf("castle: block %s fractured, severed %d joint(s)", block, len(handles))
}
