package simulation

import (
	"testing"

	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
	"github.com/milk9111/tomorrow/prefabs"
)

func TestSimulationRoomConsistency(t *testing.T) {
	counts := map[string]int{}
	sim, err := New(Options{Seed: 1, Observe: func(evt ecs.Event) { counts[evt.Type]++ }})
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	walkers := sim.World.Query(component.LilithComponent.Kind())
	if len(walkers) != 2 {
		t.Fatalf("expected two walkers in the room, got %d", len(walkers))
	}

	width := float64(sim.Level.Width) * sim.Level.Size()
	height := float64(sim.Level.Height) * sim.Level.Size()

	for tick := 0; tick < 900; tick++ {
		sim.Step()

		for _, e := range walkers {
			state, ok := ecs.Get(sim.World, e, component.LilithStateComponent.Kind())
			if !ok {
				t.Fatalf("tick %d: walker %v lost its state", tick, e)
			}
			if state.Attached() && state.Jumping() {
				t.Fatalf("tick %d: walker %v attached while jumping", tick, e)
			}
			if state.Attached() && !state.Surface.Single() {
				t.Fatalf("tick %d: walker %v attached to %s", tick, e, state.Surface)
			}
			if state.Phase == component.PhaseJumping && state.Surface != component.SurfaceNone {
				t.Fatalf("tick %d: walker %v jumping from %s", tick, e, state.Surface)
			}
			tr, _ := ecs.Get(sim.World, e, component.TransformComponent.Kind())
			if tr.X < 0 || tr.X > width || tr.Y < 0 || tr.Y > height {
				t.Fatalf("tick %d: walker %v left the room at (%v,%v)", tick, e, tr.X, tr.Y)
			}
		}
		if n := len(sim.World.Events().Pending()); n != 0 {
			t.Fatalf("tick %d: %d events left after the tick", tick, n)
		}
	}

	if sim.Ticks() != 900 {
		t.Fatalf("expected 900 ticks, got %d", sim.Ticks())
	}
	if counts["landed"] < len(walkers) {
		t.Fatalf("expected every walker to land, got %d landings", counts["landed"])
	}
}

func TestSimulationScriptsAndDebug(t *testing.T) {
	loaded := map[string]int{}
	sim, err := New(Options{
		Seed:  3,
		Debug: true,
		Scripts: func(path string) ([]byte, error) {
			loaded[path]++
			return prefabs.LoadScript(path)
		},
	})
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	if !sim.Debug() {
		t.Fatalf("expected debug on")
	}
	ecs.ForEach(sim.World, component.LilithComponent.Kind(), func(e ecs.Entity, cfg *component.Lilith) {
		if !cfg.Debug {
			t.Fatalf("walker %v not in debug mode", e)
		}
	})

	for i := 0; i < 120; i++ {
		sim.Step()
	}
	if loaded["lilith.tengo"] == 0 {
		t.Fatalf("expected the walker script loaded, got %v", loaded)
	}

	sim.SetDebug(false)
	ecs.ForEach(sim.World, component.LilithComponent.Kind(), func(e ecs.Entity, cfg *component.Lilith) {
		if cfg.Debug {
			t.Fatalf("walker %v still in debug mode", e)
		}
	})
}

func TestSimulationReload(t *testing.T) {
	sim, err := New(Options{Seed: 5})
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	e := sim.World.Query(component.LilithComponent.Kind())[0]
	cfg, _ := ecs.Get(sim.World, e, component.LilithComponent.Kind())
	want := cfg.WalkSpeed
	cfg.WalkSpeed = 99
	bullet := sim.Prefabs.Bullet
	bullet.Damage = 42

	if err := sim.Reload(prefabs.Change{Kind: prefabs.ChangePrefab, Name: "lilith.yaml"}); err != nil {
		t.Fatalf("reload prefabs: %v", err)
	}
	if cfg.WalkSpeed != want {
		t.Fatalf("expected walk speed %v restored from the prefab, got %v", want, cfg.WalkSpeed)
	}
	if sim.Prefabs.Bullet != bullet || bullet.Damage == 42 {
		t.Fatalf("expected the bullet spec reloaded in place")
	}

	if err := sim.Reload(prefabs.Change{Kind: prefabs.ChangeScript, Name: "lilith.tengo"}); err != nil {
		t.Fatalf("reload script: %v", err)
	}
}

func TestNewUnknownLevel(t *testing.T) {
	if _, err := New(Options{Level: "no_such_level", Seed: 1}); err == nil {
		t.Fatalf("expected an error for a missing level")
	}
}
