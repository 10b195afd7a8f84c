package entity

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tomorrow/common"
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
	"github.com/milk9111/tomorrow/prefabs"
)

// NewBulletSpawner returns the spawn callback turrets fire through.
func NewBulletSpawner(spec *prefabs.BulletSpec) func(w *ecs.World, owner ecs.Entity, origin, dir cp.Vector, speed float64) error {
	return func(w *ecs.World, owner ecs.Entity, origin, dir cp.Vector, speed float64) error {
		_, err := SpawnBullet(w, spec, owner, origin, dir, speed)
		return err
	}
}

// SpawnBullet creates a bullet at origin travelling along dir. The body is
// created straight away so the bullet moves from its first tick.
func SpawnBullet(w *ecs.World, spec *prefabs.BulletSpec, owner ecs.Entity, origin, dir cp.Vector, speed float64) (ecs.Entity, error) {
	if spec == nil {
		var err error
		spec, err = prefabs.LoadBulletSpec()
		if err != nil {
			return 0, fmt.Errorf("bullet: load spec: %w", err)
		}
	}
	dir = dir.Normalize()

	entity := ecs.CreateEntity(w)

	transform := &component.Transform{
		X:        origin.X,
		Y:        origin.Y,
		ScaleX:   1,
		ScaleY:   1,
		Rotation: math.Atan2(dir.Y, dir.X),
	}
	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), transform); err != nil {
		return 0, fmt.Errorf("bullet: add transform: %w", err)
	}

	body := physicsFromSpec(spec.Physics)
	body.Static = false
	body.IgnoreGravity = true
	if body.Radius <= 0 {
		body.Radius = 0.1
	}
	if err := ecs.Add(w, entity, component.PhysicsBodyComponent.Kind(), body); err != nil {
		return 0, fmt.Errorf("bullet: add physics body: %w", err)
	}

	layer := layerFromSpec(spec.Layer, component.LayerBullet)
	layer.Category = component.LayerBullet
	if err := ecs.Add(w, entity, component.CollisionLayerComponent.Kind(), layer); err != nil {
		return 0, fmt.Errorf("bullet: add collision layer: %w", err)
	}

	if err := ecs.Add(w, entity, component.BulletComponent.Kind(), &component.Bullet{
		Direction: dir,
		Speed:     speed,
		Damage:    spec.Damage,
		Owner:     uint64(owner),
	}); err != nil {
		return 0, fmt.Errorf("bullet: add bullet: %w", err)
	}

	lifetime := spec.Lifetime
	if lifetime <= 0 {
		lifetime = 2
	}
	if err := ecs.Add(w, entity, component.TTLComponent.Kind(), &component.TTL{Frames: common.Seconds(lifetime)}); err != nil {
		return 0, fmt.Errorf("bullet: add ttl: %w", err)
	}

	if pw := w.PhysicsWorld(); pw != nil {
		pw.EnsureBody(entity, transform, body, *layer)
		body.SetVelocity(dir.Mult(speed))
	}

	return entity, nil
}
