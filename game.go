package main

import (
	"fmt"
	"log"

	"siegebreak/diag"
	"siegebreak/ecs"
	"siegebreak/ecs/component"
	"siegebreak/ecs/system"
	"siegebreak/levels"
	"siegebreak/scenario"
	"siegebreak/tuning"
)

const tickRate = 60

// Game owns the world, the system chain, and the per-tick bookkeeping for a
// headless siege run.
type Game struct {
	cfg   *tuning.Config
	world *ecs.World
	sched *ecs.Scheduler
	guns  *system.Ballistics

	script   *scenario.Runner
	recorder *diag.Recorder

	tick          int64
	jointsBuilt   int
	jointsBroken  int
	blocksCracked int
}

// NewGame builds the world from a level and wires the system chain: physics
// first so bodies exist, then ballistics, the castle subsystem, and reaping.
func NewGame(lvl *levels.Level, cfg *tuning.Config) (*Game, error) {
	world := ecs.NewWorld()
	phys := system.NewPhysics(cfg, 1.0/tickRate)
	guns := system.NewBallistics(cfg)

	g := &Game{
		cfg:   cfg,
		world: world,
		sched: ecs.NewScheduler(phys, guns, system.NewCastle(cfg, phys), system.NewTTL()),
		guns:  guns,
	}
	if err := g.spawnLevel(lvl); err != nil {
		return nil, err
	}
	return g, nil
}

// Artillery exposes the ballistics controls for scenario scripts.
func (g *Game) Artillery() *system.Ballistics {
	return g.guns
}

// SetScenario attaches a scripted scenario, run at the start of every tick.
func (g *Game) SetScenario(r *scenario.Runner) {
	g.script = r
}

// SetRecorder attaches a diagnostics recorder fed from the event queue.
func (g *Game) SetRecorder(r *diag.Recorder) {
	g.recorder = r
}

// Update advances the simulation one tick and drains the event queue.
func (g *Game) Update() error {
	g.tick++

	if g.script != nil {
		g.script.Update(g.world)
	}
	g.sched.Update(g.world)

	events := g.world.Events().Drain()
	for _, evt := range events {
		switch data := evt.Data.(type) {
		case ecs.JointBuiltEvent:
			g.jointsBuilt++
		case ecs.JointBrokenEvent:
			g.jointsBroken++
			log.Printf("game: tick %d joint %s between %s and %s broke", g.tick, data.Joint, data.A, data.B)
		case ecs.ShockwaveEvent:
			if data.Fractured {
				g.blocksCracked++
			}
		}
	}
	if g.recorder != nil {
		if err := g.recorder.Record(g.tick, events); err != nil {
			return fmt.Errorf("record tick %d: %w", g.tick, err)
		}
	}
	return nil
}

// Summary reports the run totals for the final log line.
func (g *Game) Summary() string {
	return fmt.Sprintf("ticks=%d joints_built=%d joints_broken=%d blocks_fractured=%d",
		g.tick, g.jointsBuilt, g.jointsBroken, g.blocksCracked)
}

func (g *Game) spawnLevel(lvl *levels.Level) error {
	if lvl == nil {
		return fmt.Errorf("nil level")
	}
	unit := float64(g.cfg.GridUnit)

	bounds := ecs.CreateEntity(g.world)
	err := ecs.Add(g.world, bounds, component.LevelBoundsComponent, &component.LevelBounds{
		Width:  float64(lvl.Width) * unit,
		Height: float64(lvl.Height) * unit,
	})
	if err != nil {
		return fmt.Errorf("spawn bounds: %w", err)
	}

	for _, wall := range lvl.Walls {
		e := ecs.CreateEntity(g.world)
		err := ecs.Add(g.world, e, component.TransformComponent, &component.Transform{
			X: (float64(wall.X) + float64(wall.W)/2) * unit,
			Y: (float64(wall.Y) + float64(wall.H)/2) * unit,
		})
		if err == nil {
			err = ecs.Add(g.world, e, component.PhysicsBodyComponent, &component.PhysicsBody{
				Width:  float64(wall.W) * unit,
				Height: float64(wall.H) * unit,
				Static: true,
			})
		}
		if err == nil {
			err = ecs.Add(g.world, e, component.WallComponent, &component.Wall{})
		}
		if err != nil {
			return fmt.Errorf("spawn wall at (%d,%d): %w", wall.X, wall.Y, err)
		}
	}

	for _, blk := range lvl.Blocks {
		cw := max(1, int(blk.Width)/g.cfg.GridUnit)
		ch := max(1, int(blk.Height)/g.cfg.GridUnit)

		e := ecs.CreateEntity(g.world)
		err := ecs.Add(g.world, e, component.TransformComponent, &component.Transform{
			X: (float64(blk.X) + float64(cw)/2) * unit,
			Y: (float64(blk.Y) + 1 - float64(ch)/2) * unit,
		})
		if err == nil {
			err = ecs.Add(g.world, e, component.PhysicsBodyComponent, &component.PhysicsBody{
				Width:          blk.Width,
				Height:         blk.Height,
				LinearDamping:  g.cfg.LinearDamping,
				AngularDamping: g.cfg.AngularDamping,
			})
		}
		if err == nil {
			err = ecs.Add(g.world, e, component.CastleBlockComponent, &component.CastleBlock{
				GridX: blk.X, GridY: blk.Y,
				Width: blk.Width, Height: blk.Height,
			})
		}
		if err != nil {
			return fmt.Errorf("spawn block at (%d,%d): %w", blk.X, blk.Y, err)
		}
	}

	log.Printf("game: level %q loaded, %d wall(s), %d block(s)", lvl.Name, len(lvl.Walls), len(lvl.Blocks))
	return nil
}
