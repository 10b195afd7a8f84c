package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tomorrow/common"
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
)

// AnimationSystem advances clips at the fixed tick rate and runs their frame
// and finish callbacks. A clip with no definition completes on its first
// update so nothing waiting on it stalls.
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.AnimationComponent.Kind(), func(e ecs.Entity, anim *component.Animation) {
		if anim == nil || !anim.Playing {
			return
		}

		def, ok := anim.Def()
		if !ok || def.FrameCount <= 0 {
			anim.Finish()
			return
		}

		// callbacks registered since the frame was entered
		anim.TriggerFrame(anim.Frame)

		// Advance frame every N ticks based on FPS and 60 TPS
		ticksPerFrame := 1
		if def.FPS > 0 {
			ticksPerFrame = int(float64(common.TPS) / def.FPS)
		}
		if ticksPerFrame < 1 {
			ticksPerFrame = 1
		}

		anim.FrameTimer++
		if anim.FrameTimer < ticksPerFrame {
			return
		}
		anim.FrameTimer = 0
		anim.Frame++
		if anim.Frame >= def.FrameCount {
			if def.Loop {
				anim.Frame = 0
				anim.Complete()
				return
			}
			anim.Frame = def.FrameCount - 1
			anim.Finish()
			return
		}
		anim.TriggerFrame(anim.Frame)
	})
}

// Clip names played by ClipAnimator.
const (
	ClipIdle         = "idle"
	ClipWalk         = "walk"
	ClipLanding      = "landing"
	ClipFlip         = "flip"
	ClipInnerCorner  = "inner_corner"
	ClipOuterCorner  = "outer_corner"
	ClipJump         = "jump"
	ClipJumpDiagonal = "jump_diagonal"
)

// AnimationBridge is how the walker's state machine drives presentation.
// Every method with a signal must eventually fire it: the state machine
// waits on it before resuming.
type AnimationBridge interface {
	PlayIdle(w *ecs.World, e ecs.Entity)
	PlayWalk(w *ecs.World, e ecs.Entity)
	PlayLanding(w *ecs.World, e ecs.Entity, done *component.Signal)
	PlayFlip(w *ecs.World, e ecs.Entity, done *component.Signal)
	PlayInnerCorner(w *ecs.World, e ecs.Entity, next component.Surface, done *component.Signal)
	PlayOuterCorner(w *ecs.World, e ecs.Entity, next component.Surface, delta cp.Vector, done *component.Signal)
	// PlayJump fires launch on the clip's event frame.
	PlayJump(w *ecs.World, e ecs.Entity, diagonal bool, launch *component.Signal)
}

// ClipAnimator is the AnimationBridge backed by component.Animation clips.
// Entities without an Animation get their signals fired immediately.
type ClipAnimator struct{}

func NewClipAnimator() *ClipAnimator {
	return &ClipAnimator{}
}

func (c *ClipAnimator) PlayIdle(w *ecs.World, e ecs.Entity) {
	if anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
		anim.Ensure(ClipIdle)
	}
}

func (c *ClipAnimator) PlayWalk(w *ecs.World, e ecs.Entity) {
	if anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
		anim.Ensure(ClipWalk)
	}
}

func (c *ClipAnimator) PlayLanding(w *ecs.World, e ecs.Entity, done *component.Signal) {
	c.playUntilFinished(w, e, ClipLanding, done)
}

func (c *ClipAnimator) PlayFlip(w *ecs.World, e ecs.Entity, done *component.Signal) {
	c.playUntilFinished(w, e, ClipFlip, done)
}

func (c *ClipAnimator) PlayInnerCorner(w *ecs.World, e ecs.Entity, next component.Surface, done *component.Signal) {
	c.playUntilFinished(w, e, ClipInnerCorner, done)
}

func (c *ClipAnimator) PlayOuterCorner(w *ecs.World, e ecs.Entity, next component.Surface, delta cp.Vector, done *component.Signal) {
	c.playUntilFinished(w, e, ClipOuterCorner, done)
}

func (c *ClipAnimator) PlayJump(w *ecs.World, e ecs.Entity, diagonal bool, launch *component.Signal) {
	clip := ClipJump
	if diagonal {
		clip = ClipJumpDiagonal
	}
	anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind())
	if !ok {
		launch.Fire()
		return
	}
	anim.Play(clip)
	anim.AddEventCallback(func(*component.Animation, int) {
		launch.Fire()
	})
}

func (c *ClipAnimator) playUntilFinished(w *ecs.World, e ecs.Entity, clip string, done *component.Signal) {
	anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind())
	if !ok {
		done.Fire()
		return
	}
	anim.Play(clip)
	anim.OnFinish(done.Fire)
}
