package system

import (
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
)

// BulletSystem resolves spent bullets: it applies their hit and destroys
// them. A walker brought to zero health is marked dead and falls.
type BulletSystem struct{}

func NewBulletSystem() *BulletSystem {
	return &BulletSystem{}
}

func (s *BulletSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.BulletComponent.Kind(), func(e ecs.Entity, bullet *component.Bullet) {
		if !bullet.Spent {
			return
		}
		if bullet.HitEntity != 0 {
			applyBulletHit(w, ecs.Entity(bullet.HitEntity), bullet)
		}
		ecs.DestroyEntity(w, e)
	})
}

func applyBulletHit(w *ecs.World, target ecs.Entity, bullet *component.Bullet) {
	if !w.IsAlive(target) {
		return
	}

	if turret, ok := ecs.Get(w, target, component.TurretComponent.Kind()); ok {
		if t, ok := ecs.Get(w, target, component.TransformComponent.Kind()); ok {
			TurretHit(turret, TurretPivot(turret, t), bullet.Direction)
		}
	}

	health, ok := ecs.Get(w, target, component.HealthComponent.Kind())
	if !ok || health.Dead() {
		return
	}
	damage := bullet.Damage
	if damage <= 0 {
		damage = 1
	}
	health.Current -= damage
	if health.Current < 0 {
		health.Current = 0
	}

	if !health.Dead() {
		startHurtFlash(w, target)
		pushEvent(w, target, EventHurt, health.Current)
		return
	}
	if state, ok := ecs.Get(w, target, component.LilithStateComponent.Kind()); ok {
		state.Dead = true
	}
	pushEvent(w, target, EventDied, bullet.Direction)
}
