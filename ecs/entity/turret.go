package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tomorrow/common"
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
	"github.com/milk9111/tomorrow/prefabs"
)

// defaultTurretAngle aims a fresh turret along its left side.
const defaultTurretAngle = 270

// NewTurret creates a stationary gun centred on (x, y).
func NewTurret(w *ecs.World, spec *prefabs.TurretSpec, x, y float64) (ecs.Entity, error) {
	if spec == nil {
		var err error
		spec, err = prefabs.LoadTurretSpec()
		if err != nil {
			return 0, fmt.Errorf("turret: load spec: %w", err)
		}
	}

	entity := ecs.CreateEntity(w)

	transform := transformFromSpec(spec.Transform)
	transform.X, transform.Y = x, y
	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), transform); err != nil {
		return 0, fmt.Errorf("turret: add transform: %w", err)
	}

	body := physicsFromSpec(spec.Physics)
	body.Static = true
	if body.Width <= 0 || body.Height <= 0 {
		body.Width, body.Height = 1, 0.5
	}
	if err := ecs.Add(w, entity, component.PhysicsBodyComponent.Kind(), body); err != nil {
		return 0, fmt.Errorf("turret: add physics body: %w", err)
	}

	if err := ecs.Add(w, entity, component.CollisionLayerComponent.Kind(), layerFromSpec(spec.Layer, component.LayerTurret)); err != nil {
		return 0, fmt.Errorf("turret: add collision layer: %w", err)
	}

	turret := turretFromSpec(spec)
	pivot := cp.Vector{X: x, Y: y}.Add(turret.PivotOffset)
	turret.LastTargetPos = pivot.Add(turret.ShootingDirection.Mult(turret.MaxDistance))
	if err := ecs.Add(w, entity, component.TurretComponent.Kind(), turret); err != nil {
		return 0, fmt.Errorf("turret: add turret: %w", err)
	}

	if spec.Color != nil {
		if err := ecs.Add(w, entity, component.TintComponent.Kind(), &component.Tint{Color: spec.Color.Color}); err != nil {
			return 0, fmt.Errorf("turret: add tint: %w", err)
		}
	}

	return entity, nil
}

func turretFromSpec(spec *prefabs.TurretSpec) *component.Turret {
	t := &component.Turret{
		TargetMask:     uint32(spec.TargetLayers),
		PivotOffset:    cp.Vector{X: spec.PivotX, Y: spec.PivotY},
		Axis:           common.RotateDegrees(cp.Vector{X: 0, Y: -1}, spec.Mount),
		MaxDistance:    spec.MaxDistance,
		SpotLightAngle: spec.SpotLightAngle,
		OvershootAngle: spec.OvershootAngle,
		SearchAngle:    spec.SearchAngle,
		SearchSpeed:    spec.SearchSpeed,
		FollowTime:     spec.FollowTime,
		FollowSpeed:    spec.FollowSpeed,
		HitFollowTime:  spec.HitFollowTime,
		HitFollowSpeed: spec.HitFollowSpeed,
		BulletSpeed:    spec.BulletSpeed,
		ShootingSpeed:  spec.ShootingSpeed,
		MuzzleOffset:   spec.MuzzleOffset,
		KickBackAmount: spec.KickBackAmount,
		KickBackSpeed:  spec.KickBackSpeed,
	}
	if t.TargetMask == 0 {
		t.TargetMask = component.LayerAll
	}

	angle := spec.StartAngle
	if angle == 0 {
		angle = defaultTurretAngle
	}
	t.CurrentAngle = common.Clamp(angle, 90-t.OvershootAngle, 270+t.OvershootAngle)
	t.ShootingDirection = common.RotateDegrees(t.Axis, t.CurrentAngle)
	return t
}
