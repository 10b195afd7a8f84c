package entity

import (
	"github.com/milk9111/tomorrow/ecs/component"
	"github.com/milk9111/tomorrow/prefabs"
)

func transformFromSpec(spec prefabs.TransformSpec) *component.Transform {
	t := &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	}
	if t.ScaleX == 0 {
		t.ScaleX = 1
	}
	if t.ScaleY == 0 {
		t.ScaleY = 1
	}
	return t
}

func physicsFromSpec(spec prefabs.PhysicsSpec) *component.PhysicsBody {
	return &component.PhysicsBody{
		Width:         spec.Width,
		Height:        spec.Height,
		Radius:        spec.Radius,
		Mass:          spec.Mass,
		Friction:      spec.Friction,
		Elasticity:    spec.Elasticity,
		Static:        spec.Static,
		FixedRotation: spec.FixedRotation,
		GravityScale:  spec.GravityScale,
		IgnoreGravity: spec.IgnoreGravity,
	}
}

// layerFromSpec falls back to category when the prefab leaves it unset.
func layerFromSpec(spec prefabs.LayerSpec, category uint32) *component.CollisionLayer {
	layer := &component.CollisionLayer{
		Category: uint32(spec.Category),
		Mask:     uint32(spec.Mask),
	}
	if layer.Category == 0 {
		layer.Category = category
	}
	return layer
}

func animationFromSpec(spec prefabs.AnimationSpec) *component.Animation {
	defs := make(map[string]component.AnimationDef, len(spec.Defs))
	for name, def := range spec.Defs {
		if def.Name == "" {
			def.Name = name
		}
		defs[name] = component.AnimationDef{
			Name:       def.Name,
			FrameCount: def.FrameCount,
			FPS:        def.FPS,
			Loop:       def.Loop,
			EventFrame: def.EventFrame,
		}
	}
	return &component.Animation{
		Defs:    defs,
		Current: spec.Current,
		Playing: spec.Playing,
	}
}
