package system

import (
	"testing"

	"siegebreak/ecs"
	"siegebreak/ecs/component"
)

func TestPhysicsCreatesBodiesAndSyncsTransforms(t *testing.T) {
	r := newRig(t)

	e := ecs.CreateEntity(r.world)
	err := ecs.Add(r.world, e, component.TransformComponent, &component.Transform{X: 100, Y: 100})
	if err == nil {
		err = ecs.Add(r.world, e, component.PhysicsBodyComponent, &component.PhysicsBody{Width: 16, Height: 16, Mass: 1})
	}
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	r.tick(10)

	pb, _ := ecs.Get(r.world, e, component.PhysicsBodyComponent)
	if pb.Body == nil || pb.Shape == nil {
		t.Fatal("body not created")
	}
	tf, _ := ecs.Get(r.world, e, component.TransformComponent)
	if tf.Y >= 100 {
		t.Errorf("transform y = %v, want below 100 after falling", tf.Y)
	}
}

func TestPhysicsStaticWallsStayPut(t *testing.T) {
	r := newRig(t)

	e := ecs.CreateEntity(r.world)
	err := ecs.Add(r.world, e, component.TransformComponent, &component.Transform{X: 50, Y: 8})
	if err == nil {
		err = ecs.Add(r.world, e, component.PhysicsBodyComponent, &component.PhysicsBody{Width: 100, Height: 16, Static: true})
	}
	if err == nil {
		err = ecs.Add(r.world, e, component.WallComponent, &component.Wall{})
	}
	if err != nil {
		t.Fatalf("spawn wall: %v", err)
	}

	r.tick(10)

	pb, _ := ecs.Get(r.world, e, component.PhysicsBodyComponent)
	if pb.Shape == nil {
		t.Fatal("wall shape not created")
	}
	if pb.Body != r.phys.Space().StaticBody {
		t.Error("wall not attached to the static body")
	}
	tf, _ := ecs.Get(r.world, e, component.TransformComponent)
	if tf.X != 50 || tf.Y != 8 {
		t.Errorf("wall transform moved to (%v, %v)", tf.X, tf.Y)
	}
}

func TestPhysicsRemovesDeadBodies(t *testing.T) {
	r := newRig(t)

	e := ecs.CreateEntity(r.world)
	err := ecs.Add(r.world, e, component.TransformComponent, &component.Transform{X: 100, Y: 100})
	if err == nil {
		err = ecs.Add(r.world, e, component.PhysicsBodyComponent, &component.PhysicsBody{Width: 16, Height: 16, Mass: 1})
	}
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	r.tick(1)
	if got := len(r.phys.shapeToEntity); got != 1 {
		t.Fatalf("tracked shapes = %d, want 1", got)
	}

	ecs.DestroyEntity(r.world, e)
	r.tick(1)

	if got := len(r.phys.shapeToEntity); got != 0 {
		t.Errorf("tracked shapes after destroy = %d, want 0", got)
	}
}

func TestPhysicsDampingBleedsVelocity(t *testing.T) {
	r := newRig(t)

	spawn := func(y, damping float64) ecs.Entity {
		e := ecs.CreateEntity(r.world)
		err := ecs.Add(r.world, e, component.TransformComponent, &component.Transform{X: 100, Y: y})
		if err == nil {
			err = ecs.Add(r.world, e, component.PhysicsBodyComponent, &component.PhysicsBody{
				Width: 16, Height: 16, Mass: 1,
				LinearDamping: damping,
				VelX:          100,
			})
		}
		if err != nil {
			t.Fatalf("spawn: %v", err)
		}
		return e
	}
	damped := spawn(200, 0.9)
	free := spawn(300, 0)

	r.tick(30)

	pbDamped, _ := ecs.Get(r.world, damped, component.PhysicsBodyComponent)
	pbFree, _ := ecs.Get(r.world, free, component.PhysicsBodyComponent)
	if pbDamped.Body.Velocity().X >= pbFree.Body.Velocity().X {
		t.Errorf("damped vx %v not below free vx %v",
			pbDamped.Body.Velocity().X, pbFree.Body.Velocity().X)
	}
}
