// Package simulation wires the world, its systems and a level into one
// steppable unit shared by the game window and the headless runner.
package simulation

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
	"github.com/milk9111/tomorrow/ecs/entity"
	"github.com/milk9111/tomorrow/ecs/system"
	"github.com/milk9111/tomorrow/levels"
	"github.com/milk9111/tomorrow/prefabs"
)

const defaultLevel = "room"

type Options struct {
	Level string
	// Seed drives every random choice; zero picks one from the clock.
	Seed  int64
	Debug bool
	// Bridge overrides the clip-driven animation bridge.
	Bridge system.AnimationBridge
	// Scripts overrides where behaviour scripts are read from.
	Scripts system.ScriptLoader
	// Observe sees every event of a tick before the queue is flushed.
	Observe func(ecs.Event)
}

type Simulation struct {
	World   *ecs.World
	Level   *levels.Level
	Prefabs *entity.Prefabs
	Seed    int64

	scheduler *ecs.Scheduler
	scripts   *system.BehaviorScriptSystem
	debug     bool
	ticks     int
}

// New loads the level and prefabs and builds a world ready to step.
func New(opts Options) (*Simulation, error) {
	name := opts.Level
	if name == "" {
		name = defaultLevel
	}
	lvl, err := levels.Load(name)
	if err != nil {
		return nil, fmt.Errorf("simulation: load level %s: %w", name, err)
	}
	return NewWithLevel(lvl, opts)
}

// NewWithLevel builds a world around an already decoded level.
func NewWithLevel(lvl *levels.Level, opts Options) (*Simulation, error) {
	p, err := entity.LoadPrefabs()
	if err != nil {
		return nil, fmt.Errorf("simulation: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld())
	if err := entity.LoadLevelToWorld(w, lvl, p); err != nil {
		return nil, fmt.Errorf("simulation: %w", err)
	}

	bridge := opts.Bridge
	if bridge == nil {
		bridge = system.NewClipAnimator()
	}
	scripts := system.NewBehaviorScriptSystem(opts.Scripts)

	scheduler := ecs.NewScheduler(
		system.NewAnimationSystem(),
		system.NewAwarenessSystem(),
		system.NewAttachmentSystem(bridge, rng),
		system.NewLocomotionSystem(bridge, rng),
		system.NewTurretSystem(entity.NewBulletSpawner(p.Bullet)),
		system.NewPhysicsSystem(),
		system.NewBulletSystem(),
		system.NewWhiteFlashSystem(),
		system.NewTTLSystem(),
		scripts,
	)
	if opts.Observe != nil {
		scheduler.Add(eventObserver(opts.Observe))
	}

	s := &Simulation{
		World:     w,
		Level:     lvl,
		Prefabs:   p,
		Seed:      seed,
		scheduler: scheduler,
		scripts:   scripts,
	}
	s.SetDebug(opts.Debug)
	return s, nil
}

// Step advances the world by one fixed tick.
func (s *Simulation) Step() {
	s.scheduler.Update(s.World)
	s.ticks++
}

// Ticks returns how many ticks have run.
func (s *Simulation) Ticks() int {
	return s.ticks
}

func (s *Simulation) Debug() bool {
	return s.debug
}

// SetDebug toggles state transition logging on every walker.
func (s *Simulation) SetDebug(debug bool) {
	s.debug = debug
	ecs.ForEach(s.World, component.LilithComponent.Kind(), func(e ecs.Entity, cfg *component.Lilith) {
		cfg.Debug = debug
	})
}

// Reload applies a changed prefab or script to the running world.
func (s *Simulation) Reload(c prefabs.Change) error {
	if c.Kind == prefabs.ChangeScript {
		s.scripts.Invalidate(c.Name)
		log.Printf("simulation: reloaded script %s", c.Name)
		return nil
	}

	p, err := entity.LoadPrefabs()
	if err != nil {
		return fmt.Errorf("simulation: reload %s: %w", c.Name, err)
	}
	// in place, so the bullet spawner sees the new spec too
	*s.Prefabs.Lilith = *p.Lilith
	*s.Prefabs.Turret = *p.Turret
	*s.Prefabs.Bullet = *p.Bullet
	for _, e := range s.World.Query(component.LilithComponent.Kind()) {
		if err := entity.ApplyLilithSpec(s.World, e, s.Prefabs.Lilith); err != nil {
			return fmt.Errorf("simulation: reload %s: %w", c.Name, err)
		}
	}
	log.Printf("simulation: reloaded prefabs after %s changed", c.Name)
	return nil
}

type eventObserver func(ecs.Event)

func (o eventObserver) Update(w *ecs.World) {
	for _, evt := range w.Events().Pending() {
		o(evt)
	}
}
