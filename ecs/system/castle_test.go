package system

import (
	"testing"

	"siegebreak/ecs"
	"siegebreak/ecs/component"
	"siegebreak/tuning"
)

// rig wires up a headless world with the full system chain for tests.
type rig struct {
	cfg    tuning.Config
	world  *ecs.World
	sched  *ecs.Scheduler
	phys   *Physics
	guns   *Ballistics
	castle *Castle
}

func newRig(t *testing.T) *rig {
	t.Helper()

	r := &rig{cfg: tuning.Default(), world: ecs.NewWorld()}
	r.phys = NewPhysics(&r.cfg, 1.0/60)
	r.guns = NewBallistics(&r.cfg)
	r.castle = NewCastle(&r.cfg, r.phys)
	r.sched = ecs.NewScheduler(r.phys, r.guns, r.castle, NewTTL())

	bounds := ecs.CreateEntity(r.world)
	if err := ecs.Add(r.world, bounds, component.LevelBoundsComponent, &component.LevelBounds{Width: 640, Height: 480}); err != nil {
		t.Fatalf("add bounds: %v", err)
	}
	return r
}

func (r *rig) tick(n int) {
	for i := 0; i < n; i++ {
		r.sched.Update(r.world)
	}
}

// block spawns a castle block at a grid cell, with the transform centered on
// its footprint the same way the level spawner does.
func (r *rig) block(t *testing.T, gx, gy int, w, h float64) ecs.Entity {
	t.Helper()

	unit := float64(r.cfg.GridUnit)
	cw := max(1, int(w)/r.cfg.GridUnit)
	ch := max(1, int(h)/r.cfg.GridUnit)
	cx := (float64(gx) + float64(cw)/2) * unit
	cy := (float64(gy) + 1 - float64(ch)/2) * unit

	e := ecs.CreateEntity(r.world)
	err := ecs.Add(r.world, e, component.TransformComponent, &component.Transform{X: cx, Y: cy})
	if err == nil {
		err = ecs.Add(r.world, e, component.PhysicsBodyComponent, &component.PhysicsBody{
			Width:          w,
			Height:         h,
			LinearDamping:  r.cfg.LinearDamping,
			AngularDamping: r.cfg.AngularDamping,
		})
	}
	if err == nil {
		err = ecs.Add(r.world, e, component.CastleBlockComponent, &component.CastleBlock{
			GridX: gx, GridY: gy, Width: w, Height: h,
		})
	}
	if err != nil {
		t.Fatalf("spawn block (%d,%d): %v", gx, gy, err)
	}
	return e
}

func (r *rig) state(t *testing.T) *component.CastleState {
	t.Helper()
	_, state, ok := ecs.First(r.world, component.CastleStateComponent)
	if !ok {
		t.Fatal("castle state singleton missing")
	}
	return state
}

func (r *rig) joints(t *testing.T, e ecs.Entity) []uint64 {
	t.Helper()
	blk, ok := ecs.Get(r.world, e, component.CastleBlockComponent)
	if !ok {
		t.Fatalf("entity %s has no castle block", e)
	}
	return blk.Joints
}

func countEvents(events []ecs.Event, typ string) int {
	n := 0
	for _, evt := range events {
		if evt.Type == typ {
			n++
		}
	}
	return n
}

func TestCastleBuildsJointsOnce(t *testing.T) {
	r := newRig(t)
	blocks := []ecs.Entity{
		r.block(t, 0, 2, 16, 16),
		r.block(t, 1, 2, 16, 16),
		r.block(t, 0, 1, 16, 16),
		r.block(t, 1, 1, 16, 16),
	}

	r.tick(1)

	state := r.state(t)
	if state.Phase != component.CastleJointsBuilt {
		t.Fatalf("phase = %s, want joints_built", state.Phase)
	}
	// Four blocks in a square: two horizontal and two vertical joints.
	if state.JointsBuilt != 4 {
		t.Fatalf("joints built = %d, want 4", state.JointsBuilt)
	}
	for _, e := range blocks {
		if got := len(r.joints(t, e)); got != 2 {
			t.Errorf("block %s has %d joints, want 2", e, got)
		}
	}

	events := r.world.Events().Drain()
	if got := countEvents(events, ecs.EventJointBuilt); got != 4 {
		t.Errorf("joint_built events = %d, want 4", got)
	}

	// Initialization must not repeat on later ticks.
	r.tick(5)
	if state.JointsBuilt != 4 {
		t.Errorf("joints built after extra ticks = %d, want 4", state.JointsBuilt)
	}
	if got := countEvents(r.world.Events().Drain(), ecs.EventJointBuilt); got != 0 {
		t.Errorf("extra joint_built events = %d, want 0", got)
	}
}

func TestCastleFractureThreshold(t *testing.T) {
	tests := []struct {
		name      string
		impulse   float64
		wantBreak bool
	}{
		{name: "below threshold holds", impulse: 4999, wantBreak: false},
		{name: "at threshold breaks", impulse: 5000, wantBreak: true},
		{name: "above threshold breaks", impulse: 8000, wantBreak: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t)
			a := r.block(t, 0, 1, 16, 16)
			b := r.block(t, 1, 1, 16, 16)

			r.tick(1)
			if got := r.state(t).JointsBuilt; got != 1 {
				t.Fatalf("joints built = %d, want 1", got)
			}
			r.world.Events().Drain()

			err := ecs.Add(r.world, a, component.ShockwaveHitComponent, &component.ShockwaveHit{ImpulseX: tt.impulse})
			if err != nil {
				t.Fatalf("add hit: %v", err)
			}
			r.tick(1)

			if ecs.Has(r.world, a, component.ShockwaveHitComponent) {
				t.Error("shockwave hit not consumed")
			}

			wantJoints := 1
			if tt.wantBreak {
				wantJoints = 0
			}
			if got := len(r.joints(t, a)); got != wantJoints {
				t.Errorf("block a joints = %d, want %d", got, wantJoints)
			}
			if got := len(r.joints(t, b)); got != wantJoints {
				t.Errorf("block b joints = %d, want %d", got, wantJoints)
			}

			events := r.world.Events().Drain()
			if got := countEvents(events, ecs.EventShockwave); got != 1 {
				t.Errorf("shockwave events = %d, want 1", got)
			}
			wantBroken := 0
			if tt.wantBreak {
				wantBroken = 1
			}
			if got := countEvents(events, ecs.EventJointBroken); got != wantBroken {
				t.Errorf("joint_broken events = %d, want %d", got, wantBroken)
			}
		})
	}
}

func TestCastleFractureIsIdempotent(t *testing.T) {
	r := newRig(t)
	a := r.block(t, 0, 1, 16, 16)
	r.block(t, 1, 1, 16, 16)

	r.tick(1)
	r.world.Events().Drain()

	for i := 0; i < 2; i++ {
		err := ecs.Add(r.world, a, component.ShockwaveHitComponent, &component.ShockwaveHit{ImpulseX: 9000})
		if err != nil {
			t.Fatalf("add hit: %v", err)
		}
		r.tick(1)
	}

	if got := len(r.joints(t, a)); got != 0 {
		t.Fatalf("block a joints = %d, want 0", got)
	}
	// Only the first hit had joints to sever.
	if got := countEvents(r.world.Events().Drain(), ecs.EventJointBroken); got != 1 {
		t.Errorf("joint_broken events = %d, want 1", got)
	}
}

func TestCastleFractureSeversOnlyHitBlock(t *testing.T) {
	r := newRig(t)
	a := r.block(t, 0, 1, 16, 16)
	b := r.block(t, 1, 1, 16, 16)
	c := r.block(t, 2, 1, 16, 16)

	r.tick(1)
	if got := r.state(t).JointsBuilt; got != 2 {
		t.Fatalf("joints built = %d, want 2", got)
	}

	err := ecs.Add(r.world, a, component.ShockwaveHitComponent, &component.ShockwaveHit{ImpulseX: 6000})
	if err != nil {
		t.Fatalf("add hit: %v", err)
	}
	r.tick(1)

	if got := len(r.joints(t, a)); got != 0 {
		t.Errorf("block a joints = %d, want 0", got)
	}
	if got := len(r.joints(t, b)); got != 1 {
		t.Errorf("block b joints = %d, want 1", got)
	}
	if got := len(r.joints(t, c)); got != 1 {
		t.Errorf("block c joints = %d, want 1", got)
	}
}

func TestCastleAssignsFootprintScaledMass(t *testing.T) {
	r := newRig(t)
	small := r.block(t, 0, 1, 16, 16)
	big := r.block(t, 2, 2, 32, 32)

	r.tick(1)

	pbSmall, _ := ecs.Get(r.world, small, component.PhysicsBodyComponent)
	pbBig, _ := ecs.Get(r.world, big, component.PhysicsBodyComponent)
	if pbSmall.Mass != 100 {
		t.Errorf("small block mass = %v, want 100", pbSmall.Mass)
	}
	if pbBig.Mass != 200 {
		t.Errorf("big block mass = %v, want 200", pbBig.Mass)
	}
}
