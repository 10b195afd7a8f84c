package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
	"github.com/milk9111/tomorrow/prefabs"
)

// ScriptLoader returns the source of a behaviour script.
type ScriptLoader func(path string) ([]byte, error)

type behaviorScriptRuntime struct {
	scriptPath string
	compiled   *tengo.Compiled
	stateData  *tengo.Map
}

const behaviorDispatchScript = `
if __event != "" {
	on_event(__engine, __state, __event)
}
`

// BehaviorScriptSystem hands walker events to per-entity tengo scripts.
// A script defines on_event(engine, state, event) and may retune the
// walker through engine.get and engine.set.
type BehaviorScriptSystem struct {
	load     ScriptLoader
	runtimes map[ecs.Entity]*behaviorScriptRuntime
}

func NewBehaviorScriptSystem(load ScriptLoader) *BehaviorScriptSystem {
	if load == nil {
		load = prefabs.LoadScript
	}
	return &BehaviorScriptSystem{load: load, runtimes: map[ecs.Entity]*behaviorScriptRuntime{}}
}

// Invalidate drops compiled scripts so they are reloaded on next use. An
// empty path drops every script.
func (s *BehaviorScriptSystem) Invalidate(path string) {
	if s == nil {
		return
	}
	for e, rt := range s.runtimes {
		if path == "" || rt.scriptPath == path {
			delete(s.runtimes, e)
		}
	}
}

func (s *BehaviorScriptSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for e := range s.runtimes {
		if !w.IsAlive(e) {
			delete(s.runtimes, e)
		}
	}

	for _, evt := range w.Events().Pending() {
		script, ok := ecs.Get(w, evt.Entity, component.BehaviorScriptComponent.Kind())
		if !ok || strings.TrimSpace(script.Path) == "" {
			continue
		}
		rt, err := s.runtime(evt.Entity, script.Path)
		if err != nil {
			fmt.Printf("behavior: entity=%d load script error: %v\n", evt.Entity, err)
			continue
		}
		engine := buildBehaviorEngine(w, evt.Entity)
		if err := rt.dispatch(evt.Type, engine); err != nil {
			fmt.Printf("behavior: entity=%d script on_event(%s) error: %v\n", evt.Entity, evt.Type, err)
		}
	}
}

func (s *BehaviorScriptSystem) runtime(e ecs.Entity, path string) (*behaviorScriptRuntime, error) {
	if rt, ok := s.runtimes[e]; ok && rt.scriptPath == path {
		return rt, nil
	}

	src, err := s.load(path)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + behaviorDispatchScript))
	_ = script.Add("__event", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("behavior: compile %s: %w", path, err)
	}

	rt := &behaviorScriptRuntime{
		scriptPath: path,
		compiled:   compiled,
		stateData:  &tengo.Map{Value: map[string]tengo.Object{}},
	}
	s.runtimes[e] = rt
	return rt, nil
}

// dispatch runs on_event. Some runtime faults (integer division by zero)
// panic inside the VM; they come back as errors.
func (rt *behaviorScriptRuntime) dispatch(event string, engine *tengo.ImmutableMap) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("behavior: %s panicked: %v", rt.scriptPath, r)
		}
	}()

	if err := rt.compiled.Set("__event", event); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func buildBehaviorEngine(w *ecs.World, e ecs.Entity) *tengo.ImmutableMap {
	cfg, _ := ecs.Get(w, e, component.LilithComponent.Kind())
	state, _ := ecs.Get(w, e, component.LilithStateComponent.Kind())

	floatParams := map[string]*float64{}
	if cfg != nil {
		floatParams["jump_probability"] = &cfg.JumpProbability
		floatParams["walk_speed"] = &cfg.WalkSpeed
		floatParams["max_idle_time"] = &cfg.MaxIdleTime
		floatParams["max_walk_time"] = &cfg.MaxWalkTime
	}

	values := map[string]tengo.Object{}

	values["get"] = &tengo.UserFunction{Name: "get", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.UndefinedValue, nil
		}
		name := objectAsString(args[0])
		if p, ok := floatParams[name]; ok {
			return &tengo.Float{Value: *p}, nil
		}
		if name == "opposite_direction" && state != nil {
			return boolObject(state.OppositeDirection), nil
		}
		return tengo.UndefinedValue, nil
	}}

	values["set"] = &tengo.UserFunction{Name: "set", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		name := objectAsString(args[0])
		if p, ok := floatParams[name]; ok {
			v, ok := objectAsFloat(args[1])
			if !ok {
				return tengo.FalseValue, nil
			}
			*p = v
			return tengo.TrueValue, nil
		}
		if name == "opposite_direction" && state != nil {
			state.OppositeDirection = !args[1].IsFalsy()
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["surface"] = &tengo.UserFunction{Name: "surface", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if state == nil {
			return &tengo.String{Value: component.SurfaceNone.String()}, nil
		}
		return &tengo.String{Value: state.Surface.String()}, nil
	}}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: 0}, &tengo.Float{Value: 0}}}, nil
		}
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: t.X}, &tengo.Float{Value: t.Y}}}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		fmt.Printf("behavior: entity=%d %s\n", e, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectAsFloat(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	}
	return 0, false
}
