package entity

import (
	"fmt"

	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
	"github.com/milk9111/tomorrow/prefabs"
)

// NewLilith creates a surface walker centred on (x, y). It starts detached
// and falls until a probe finds something to attach to.
func NewLilith(w *ecs.World, spec *prefabs.LilithSpec, x, y float64) (ecs.Entity, error) {
	if spec == nil {
		var err error
		spec, err = prefabs.LoadLilithSpec()
		if err != nil {
			return 0, fmt.Errorf("lilith: load spec: %w", err)
		}
	}

	entity := ecs.CreateEntity(w)

	transform := transformFromSpec(spec.Transform)
	transform.X, transform.Y = x, y
	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), transform); err != nil {
		return 0, fmt.Errorf("lilith: add transform: %w", err)
	}

	body := physicsFromSpec(spec.Physics)
	if body.Radius <= 0 && body.Width <= 0 {
		body.Radius = 0.9 * bodySize(spec)
	}
	body.FixedRotation = true
	if err := ecs.Add(w, entity, component.PhysicsBodyComponent.Kind(), body); err != nil {
		return 0, fmt.Errorf("lilith: add physics body: %w", err)
	}

	layer := layerFromSpec(spec.Layer, component.LayerEnemy)
	if err := ecs.Add(w, entity, component.CollisionLayerComponent.Kind(), layer); err != nil {
		return 0, fmt.Errorf("lilith: add collision layer: %w", err)
	}

	cfg := &component.Lilith{}
	applyLilithTuning(cfg, spec)
	if err := ecs.Add(w, entity, component.LilithComponent.Kind(), cfg); err != nil {
		return 0, fmt.Errorf("lilith: add lilith: %w", err)
	}

	state := &component.LilithState{
		Phase:             component.PhaseDetached,
		Surface:           component.SurfaceNone,
		OppositeDirection: spec.OppositeDirection,
		IdleTimer:         spec.MaxIdleTime,
		WalkTimer:         spec.MaxWalkTime,
		FlipTimer:         spec.MaxFlipTime,
	}
	if err := ecs.Add(w, entity, component.LilithStateComponent.Kind(), state); err != nil {
		return 0, fmt.Errorf("lilith: add state: %w", err)
	}

	aw := &component.Awareness{}
	applyAwarenessTuning(aw, spec)
	if err := ecs.Add(w, entity, component.AwarenessComponent.Kind(), aw); err != nil {
		return 0, fmt.Errorf("lilith: add awareness: %w", err)
	}

	if len(spec.Animation.Defs) > 0 {
		if err := ecs.Add(w, entity, component.AnimationComponent.Kind(), animationFromSpec(spec.Animation)); err != nil {
			return 0, fmt.Errorf("lilith: add animation: %w", err)
		}
	}

	hp := spec.Health
	if hp <= 0 {
		hp = 3
	}
	if err := ecs.Add(w, entity, component.HealthComponent.Kind(), &component.Health{Initial: hp, Current: hp}); err != nil {
		return 0, fmt.Errorf("lilith: add health: %w", err)
	}

	if err := ecs.Add(w, entity, component.TurretTargetComponent.Kind(), &component.TurretTarget{}); err != nil {
		return 0, fmt.Errorf("lilith: add turret target: %w", err)
	}

	if spec.BehaviorScript != "" {
		if err := ecs.Add(w, entity, component.BehaviorScriptComponent.Kind(), &component.BehaviorScript{Path: spec.BehaviorScript}); err != nil {
			return 0, fmt.Errorf("lilith: add behavior script: %w", err)
		}
	}

	if spec.Color != nil {
		if err := ecs.Add(w, entity, component.TintComponent.Kind(), &component.Tint{Color: spec.Color.Color}); err != nil {
			return 0, fmt.Errorf("lilith: add tint: %w", err)
		}
	}

	return entity, nil
}

// ApplyLilithSpec retunes a live walker from a reloaded prefab. Runtime
// state (phase, surface, timers) is left alone.
func ApplyLilithSpec(w *ecs.World, e ecs.Entity, spec *prefabs.LilithSpec) error {
	if spec == nil {
		return fmt.Errorf("lilith: nil spec")
	}
	cfg, ok := ecs.Get(w, e, component.LilithComponent.Kind())
	if !ok {
		return fmt.Errorf("lilith: entity %v has no lilith component", e)
	}
	debug := cfg.Debug
	applyLilithTuning(cfg, spec)
	cfg.Debug = debug

	if aw, ok := ecs.Get(w, e, component.AwarenessComponent.Kind()); ok {
		applyAwarenessTuning(aw, spec)
	}
	if anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok && len(spec.Animation.Defs) > 0 {
		anim.Defs = animationFromSpec(spec.Animation).Defs
	}
	if script, ok := ecs.Get(w, e, component.BehaviorScriptComponent.Kind()); ok {
		script.Path = spec.BehaviorScript
	}
	if tint, ok := ecs.Get(w, e, component.TintComponent.Kind()); ok && spec.Color != nil {
		tint.Color = spec.Color.Color
	}
	return nil
}

func applyLilithTuning(cfg *component.Lilith, spec *prefabs.LilithSpec) {
	cfg.WalkSpeed = spec.WalkSpeed
	cfg.JumpSpeed = spec.JumpSpeed
	cfg.JumpLift = spec.JumpLift
	cfg.JumpLockTime = spec.JumpLockTime
	cfg.JumpProbability = spec.JumpProbability
	cfg.MaxIdleTime = spec.MaxIdleTime
	cfg.MaxWalkTime = spec.MaxWalkTime
	cfg.MaxFlipTime = spec.MaxFlipTime
}

func applyAwarenessTuning(aw *component.Awareness, spec *prefabs.LilithSpec) {
	aw.BodySize = bodySize(spec)
	aw.AttachDistance = spec.AttachDistance
	aw.MinJumpDistance = spec.MinJumpDistance
	aw.MaxJumpDistance = spec.MaxJumpDistance
	aw.WalkableMask = uint32(spec.WalkableLayers)
	if aw.WalkableMask == 0 {
		aw.WalkableMask = component.LayerWalkable | component.LayerFloor
	}
}

func bodySize(spec *prefabs.LilithSpec) float64 {
	if spec.BodySize <= 0 {
		return 1
	}
	return spec.BodySize
}
