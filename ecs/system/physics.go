package system

import (
	"github.com/milk9111/tomorrow/common"
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
)

// PhysicsSystem creates bodies for new entities, steps the world's space
// and copies body poses back into transforms. Bullet contacts recorded
// during the step mark their bullets spent.
type PhysicsSystem struct{}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	ps.syncEntities(w, pw)
	pw.Step(common.DeltaTime)
	ps.syncTransforms(w)
	ps.flushContacts(w, pw)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World, pw *ecs.PhysicsWorld) {
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, t *component.Transform, body *component.PhysicsBody) {
		var layer component.CollisionLayer
		if l, ok := ecs.Get(w, e, component.CollisionLayerComponent.Kind()); ok {
			layer = *l
		}
		pw.EnsureBody(e, t, body, layer)
		body.SetKinematic(body.Kinematic)
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, t *component.Transform, body *component.PhysicsBody) {
		if body.Body == nil || body.Static {
			return
		}
		pos := body.Body.Position()
		t.X = pos.X
		t.Y = pos.Y
		if !body.FixedRotation {
			t.Rotation = body.Body.Angle()
		}
	})
}

func (ps *PhysicsSystem) flushContacts(w *ecs.World, pw *ecs.PhysicsWorld) {
	for _, c := range pw.DrainContacts() {
		bullet, ok := ecs.Get(w, c.Bullet, component.BulletComponent.Kind())
		if !ok || bullet.Spent {
			continue
		}
		if c.Other != 0 && uint64(c.Other) == bullet.Owner {
			continue
		}
		bullet.Spent = true
		bullet.HitEntity = uint64(c.Other)
	}
}
