// Package scenario drives the headless demo from tengo scripts. A scenario
// script defines an update(engine, state, tick) function that the runner
// calls once per tick; the engine map exposes the siege controls.
package scenario

import (
	"fmt"
	"log"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"siegebreak/ecs"
)

// Artillery is the slice of the ballistics system scripts may drive.
type Artillery interface {
	SpawnFireball(x, y, vx, vy float64)
	Explode(x, y, radius, power float64)
}

const dispatchScript = `
update(__engine, __state, __tick)
`

// Runner compiles a scenario script once and re-runs it every tick. Script
// state lives in the shared __state map, which survives across runs.
type Runner struct {
	compiled *tengo.Compiled
	engine   *tengo.ImmutableMap
	state    *tengo.Map
	tick     int64
	failed   bool
}

// New compiles a scenario from source.
func New(src []byte, art Artillery) (*Runner, error) {
	script := tengo.NewScript(append(append([]byte(nil), src...), dispatchScript...))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__tick", int64(0))
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario: compile: %w", err)
	}

	return &Runner{
		compiled: compiled,
		engine:   buildEngine(art),
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

// LoadFile compiles a scenario from a script file on disk.
func LoadFile(path string, art Artillery) (*Runner, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	return New(src, art)
}

// Update runs one scripted tick. A script error disables the runner so a
// broken scenario doesn't spam the log sixty times a second.
func (r *Runner) Update(_ *ecs.World) {
	if r == nil || r.compiled == nil || r.failed {
		return
	}
	r.tick++

	if err := r.compiled.Set("__engine", r.engine); err == nil {
		err = r.compiled.Set("__state", r.state)
		if err == nil {
			err = r.compiled.Set("__tick", r.tick)
		}
		if err == nil {
			err = r.compiled.Run()
		}
		if err != nil {
			log.Printf("scenario: tick %d: %v", r.tick, err)
			r.failed = true
		}
		return
	}
	r.failed = true
}

// Tick returns the number of scripted ticks run so far.
func (r *Runner) Tick() int64 {
	if r == nil {
		return 0
	}
	return r.tick
}

func buildEngine(art Artillery) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["spawn_fireball"] = &tengo.UserFunction{Name: "spawn_fireball", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if art == nil || len(args) < 4 {
			return tengo.FalseValue, nil
		}
		art.SpawnFireball(floatArg(args[0]), floatArg(args[1]), floatArg(args[2]), floatArg(args[3]))
		return tengo.TrueValue, nil
	}}

	values["explode"] = &tengo.UserFunction{Name: "explode", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if art == nil || len(args) < 4 {
			return tengo.FalseValue, nil
		}
		art.Explode(floatArg(args[0]), floatArg(args[1]), floatArg(args[2]), floatArg(args[3]))
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.UndefinedValue, nil
		}
		log.Printf("scenario: %s", args[0].String())
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func floatArg(obj tengo.Object) float64 {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value
	case *tengo.Int:
		return float64(v.Value)
	default:
		return 0
	}
}
