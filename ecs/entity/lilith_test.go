package entity

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tomorrow/common"
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
	"github.com/milk9111/tomorrow/prefabs"
)

func TestNewLilithFromPrefab(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewLilith(w, nil, 3, 4)
	if err != nil {
		t.Fatalf("new lilith: %v", err)
	}

	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || tr.X != 3 || tr.Y != 4 {
		t.Fatalf("expected a transform at (3,4), got %+v", tr)
	}
	state, ok := ecs.Get(w, e, component.LilithStateComponent.Kind())
	if !ok || state.Phase != component.PhaseDetached || state.Surface != component.SurfaceNone {
		t.Fatalf("expected a detached walker, got %+v", state)
	}
	aw, ok := ecs.Get(w, e, component.AwarenessComponent.Kind())
	if !ok || aw.BodySize != 1 || aw.WalkableMask != component.LayerWalkable|component.LayerFloor {
		t.Fatalf("unexpected awareness %+v", aw)
	}
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || !body.FixedRotation || body.Radius <= 0 {
		t.Fatalf("unexpected body %+v", body)
	}
	layer, ok := ecs.Get(w, e, component.CollisionLayerComponent.Kind())
	if !ok || layer.Category != component.LayerEnemy {
		t.Fatalf("expected the enemy layer, got %+v", layer)
	}

	for name, has := range map[string]bool{
		"lilith":        ecs.Has(w, e, component.LilithComponent.Kind()),
		"animation":     ecs.Has(w, e, component.AnimationComponent.Kind()),
		"health":        ecs.Has(w, e, component.HealthComponent.Kind()),
		"turret_target": ecs.Has(w, e, component.TurretTargetComponent.Kind()),
		"script":        ecs.Has(w, e, component.BehaviorScriptComponent.Kind()),
		"tint":          ecs.Has(w, e, component.TintComponent.Kind()),
	} {
		if !has {
			t.Fatalf("missing %s component", name)
		}
	}
}

func TestNewLilithDefaults(t *testing.T) {
	w := ecs.NewWorld()
	spec := &prefabs.LilithSpec{OppositeDirection: true}
	e, err := NewLilith(w, spec, 0, 0)
	if err != nil {
		t.Fatalf("new lilith: %v", err)
	}

	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !near(body.Radius, 0.9) {
		t.Fatalf("expected a default radius of 0.9, got %v", body.Radius)
	}
	health, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	if health.Current != 3 {
		t.Fatalf("expected 3 default hit points, got %d", health.Current)
	}
	state, _ := ecs.Get(w, e, component.LilithStateComponent.Kind())
	if !state.OppositeDirection {
		t.Fatalf("expected the prefab direction kept")
	}
	if ecs.Has(w, e, component.AnimationComponent.Kind()) || ecs.Has(w, e, component.BehaviorScriptComponent.Kind()) || ecs.Has(w, e, component.TintComponent.Kind()) {
		t.Fatalf("expected optional components left out")
	}
}

func TestApplyLilithSpec(t *testing.T) {
	w := ecs.NewWorld()
	spec, err := prefabs.LoadLilithSpec()
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	e, err := NewLilith(w, spec, 0, 0)
	if err != nil {
		t.Fatalf("new lilith: %v", err)
	}
	cfg, _ := ecs.Get(w, e, component.LilithComponent.Kind())
	cfg.Debug = true
	state, _ := ecs.Get(w, e, component.LilithStateComponent.Kind())
	state.Phase = component.PhaseAttachedSingle
	state.Surface = component.SurfaceLeft

	changed := *spec
	changed.WalkSpeed = 7
	changed.AttachDistance = 0.4
	changed.BehaviorScript = "other.tengo"
	if err := ApplyLilithSpec(w, e, &changed); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if cfg.WalkSpeed != 7 || !cfg.Debug {
		t.Fatalf("expected walk speed 7 with debug kept, got %+v", cfg)
	}
	aw, _ := ecs.Get(w, e, component.AwarenessComponent.Kind())
	if aw.AttachDistance != 0.4 {
		t.Fatalf("expected attach distance 0.4, got %v", aw.AttachDistance)
	}
	script, _ := ecs.Get(w, e, component.BehaviorScriptComponent.Kind())
	if script.Path != "other.tengo" {
		t.Fatalf("expected the script path updated, got %q", script.Path)
	}
	if state.Phase != component.PhaseAttachedSingle || state.Surface != component.SurfaceLeft {
		t.Fatalf("expected runtime state untouched, got %s on %s", state.Phase, state.Surface)
	}

	if err := ApplyLilithSpec(w, e, nil); err == nil {
		t.Fatalf("expected an error for a nil spec")
	}
	if err := ApplyLilithSpec(w, ecs.CreateEntity(w), spec); err == nil {
		t.Fatalf("expected an error for an entity that is not a walker")
	}
}

func TestNewTurretFromPrefab(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewTurret(w, nil, 5, 1.25)
	if err != nil {
		t.Fatalf("new turret: %v", err)
	}
	turret, ok := ecs.Get(w, e, component.TurretComponent.Kind())
	if !ok {
		t.Fatalf("missing turret component")
	}
	if turret.CurrentAngle != 180 {
		t.Fatalf("expected the prefab start angle 180, got %v", turret.CurrentAngle)
	}
	if !nearVec(turret.ShootingDirection, cp.Vector{X: 0, Y: 1}) {
		t.Fatalf("expected the turret aiming up, got %v", turret.ShootingDirection)
	}
	if !nearVec(turret.LastTargetPos, cp.Vector{X: 5, Y: 1.5 + turret.MaxDistance}) {
		t.Fatalf("expected the last target straight ahead at max range, got %v", turret.LastTargetPos)
	}
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !body.Static {
		t.Fatalf("expected a static turret body")
	}
}

func TestTurretFromSpecDefaults(t *testing.T) {
	tests := []struct {
		name      string
		spec      prefabs.TurretSpec
		wantAngle float64
		wantAxis  cp.Vector
	}{
		{name: "default_angle", spec: prefabs.TurretSpec{OvershootAngle: 10}, wantAngle: defaultTurretAngle, wantAxis: cp.Vector{X: 0, Y: -1}},
		{name: "clamped", spec: prefabs.TurretSpec{OvershootAngle: 10, StartAngle: 20}, wantAngle: 80, wantAxis: cp.Vector{X: 0, Y: -1}},
		{name: "wall_mount", spec: prefabs.TurretSpec{Mount: 90, StartAngle: 180}, wantAngle: 180, wantAxis: cp.Vector{X: 1, Y: 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			turret := turretFromSpec(&tc.spec)
			if turret.CurrentAngle != tc.wantAngle {
				t.Fatalf("expected angle %v, got %v", tc.wantAngle, turret.CurrentAngle)
			}
			if !nearVec(turret.Axis, tc.wantAxis) {
				t.Fatalf("expected axis %v, got %v", tc.wantAxis, turret.Axis)
			}
			if turret.TargetMask != component.LayerAll {
				t.Fatalf("expected an unset target mask to match everything")
			}
		})
	}
}

func TestSpawnBullet(t *testing.T) {
	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld())
	owner := ecs.CreateEntity(w)

	e, err := SpawnBullet(w, nil, owner, cp.Vector{X: 1, Y: 2}, cp.Vector{X: 0, Y: 3}, 16)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	bullet, ok := ecs.Get(w, e, component.BulletComponent.Kind())
	if !ok || bullet.Owner != uint64(owner) || bullet.Damage != 1 {
		t.Fatalf("unexpected bullet %+v", bullet)
	}
	if bullet.Direction != (cp.Vector{X: 0, Y: 1}) {
		t.Fatalf("expected a normalized direction, got %v", bullet.Direction)
	}
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if v := body.Velocity(); !nearVec(v, cp.Vector{X: 0, Y: 16}) {
		t.Fatalf("expected velocity (0,16), got %v", v)
	}
	ttl, _ := ecs.Get(w, e, component.TTLComponent.Kind())
	if ttl.Frames != common.Seconds(2) {
		t.Fatalf("expected a two second lifetime, got %d frames", ttl.Frames)
	}
	layer, _ := ecs.Get(w, e, component.CollisionLayerComponent.Kind())
	if layer.Category != component.LayerBullet {
		t.Fatalf("expected the bullet layer, got %d", layer.Category)
	}

	spawn := NewBulletSpawner(nil)
	if err := spawn(w, owner, cp.Vector{}, cp.Vector{X: 1}, 4); err != nil {
		t.Fatalf("spawner: %v", err)
	}
	if n := len(w.Query(component.BulletComponent.Kind())); n != 2 {
		t.Fatalf("expected two bullets, got %d", n)
	}
}
