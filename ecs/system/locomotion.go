package system

import (
	"math/rand"

	"github.com/milk9111/tomorrow/common"
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
)

// LocomotionSystem walks attached walkers along their face and runs the
// idle, walk and turn-around timers.
type LocomotionSystem struct {
	bridge AnimationBridge
	rng    *rand.Rand
}

func NewLocomotionSystem(bridge AnimationBridge, rng *rand.Rand) *LocomotionSystem {
	if bridge == nil {
		bridge = NewClipAnimator()
	}
	return &LocomotionSystem{bridge: bridge, rng: rng}
}

func (s *LocomotionSystem) randomFloat() float64 {
	if s.rng != nil {
		return s.rng.Float64()
	}
	return rand.Float64()
}

// randomDuration returns max + U(-max/2, max*spread).
func (s *LocomotionSystem) randomDuration(max, spread float64) float64 {
	lo, hi := -max/2, max*spread
	return max + lo + s.randomFloat()*(hi-lo)
}

func (s *LocomotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach4(w, component.LilithComponent.Kind(), component.LilithStateComponent.Kind(), component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, cfg *component.Lilith, state *component.LilithState, body *component.PhysicsBody, t *component.Transform) {
		if state.Turning && state.TurnDone.Fired() {
			state.Turning = false
			state.TurnDone = nil
			state.OppositeDirection = !state.OppositeDirection
			pushEvent(w, e, EventTurned, state.OppositeDirection)
		}

		t.ScaleX = 1
		if state.OppositeDirection {
			t.ScaleX = -1
		}
		if state.Attached() && state.Surface.Single() {
			t.Rotation = state.Surface.Rotation()
		}

		if state.Dead || !state.Attached() || state.WalkingAroundCorner() || state.Landing {
			return
		}

		if !state.Turning {
			s.updateIdling(cfg, state)
		}
		if state.Turning {
			return
		}
		if state.Idling {
			s.bridge.PlayIdle(w, e)
			s.updateFlip(w, e, cfg, state)
			return
		}

		s.bridge.PlayWalk(w, e)
		body.SetVelocity(WalkDirection(state.Surface, state.Clockwise()).Mult(cfg.WalkSpeed))
	})
}

func (s *LocomotionSystem) updateIdling(cfg *component.Lilith, state *component.LilithState) {
	if state.Idling {
		state.IdleTimer -= common.DeltaTime
		if state.IdleTimer <= 0 {
			state.IdleTimer = s.randomDuration(cfg.MaxIdleTime, 5)
			state.Idling = false
		}
		return
	}
	// no walk time configured: never rests
	if cfg.MaxWalkTime <= 0 {
		return
	}
	state.WalkTimer -= common.DeltaTime
	if state.WalkTimer <= 0 {
		state.WalkTimer = s.randomDuration(cfg.MaxWalkTime, 5)
		state.Idling = true
	}
}

func (s *LocomotionSystem) updateFlip(w *ecs.World, e ecs.Entity, cfg *component.Lilith, state *component.LilithState) {
	state.FlipTimer -= common.DeltaTime
	if state.FlipTimer > 0 {
		return
	}
	state.FlipTimer = s.randomDuration(cfg.MaxFlipTime, 7)
	state.Turning = true
	state.TurnDone = component.NewSignal()
	s.bridge.PlayFlip(w, e, state.TurnDone)
}
