package system

import (
	"log"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tomorrow/common"
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
)

// Walker events pushed on the world queue.
const (
	EventLanded      = "landed"
	EventJump        = "jump"
	EventLaunched    = "launched"
	EventInnerCorner = "inner_corner"
	EventOuterCorner = "outer_corner"
	EventTurned      = "turned"
	EventHurt        = "hurt"
	EventDied        = "died"
)

// ambiguousPreference picks a surface when a walker with no surface lands
// touching several faces.
var ambiguousPreference = [...]component.Surface{
	component.SurfaceBottom,
	component.SurfaceLeft,
	component.SurfaceRight,
	component.SurfaceTop,
}

// AttachmentSystem is the walker's attachment state machine. It runs after
// AwarenessSystem and before LocomotionSystem.
type AttachmentSystem struct {
	bridge AnimationBridge
	rng    *rand.Rand
}

func NewAttachmentSystem(bridge AnimationBridge, rng *rand.Rand) *AttachmentSystem {
	if bridge == nil {
		bridge = NewClipAnimator()
	}
	return &AttachmentSystem{bridge: bridge, rng: rng}
}

func (s *AttachmentSystem) randomFloat() float64 {
	if s.rng != nil {
		return s.rng.Float64()
	}
	return rand.Float64()
}

func (s *AttachmentSystem) randomIndex(n int) int {
	if s.rng != nil {
		return s.rng.Intn(n)
	}
	return rand.Intn(n)
}

func (s *AttachmentSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach4(w, component.LilithComponent.Kind(), component.LilithStateComponent.Kind(), component.AwarenessComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, cfg *component.Lilith, state *component.LilithState, aw *component.Awareness, body *component.PhysicsBody) {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		s.step(w, e, cfg, state, aw, body, t)
	})
}

func (s *AttachmentSystem) step(w *ecs.World, e ecs.Entity, cfg *component.Lilith, state *component.LilithState, aw *component.Awareness, body *component.PhysicsBody, t *component.Transform) {
	if state.Dead {
		if state.Phase != component.PhaseDetached {
			state.Pending = nil
			s.detach(e, cfg, state, body)
		}
		return
	}

	if state.Landing && state.LandingDone.Fired() {
		state.Landing = false
		state.LandingDone = nil
	}

	if state.Pending != nil {
		if !state.Pending.Done.Fired() {
			hold(body)
			return
		}
		s.resolve(w, e, cfg, state, body, t)
		return
	}

	if state.Phase == component.PhaseJumping {
		state.JumpLock -= common.DeltaTime
		if state.JumpLock > 0 {
			return
		}
		state.JumpLock = 0
		s.setPhase(e, cfg, state, component.PhaseDetached)
	}

	if !s.evaluateAttach(w, e, cfg, state, aw, body, t) {
		return
	}

	if !state.Walking() {
		return
	}
	if s.tryJump(w, e, cfg, state, aw, body) {
		return
	}
	s.tryOuterCorner(w, e, cfg, state, aw, body, t)
}

// resolve commits a transition whose signal has fired.
func (s *AttachmentSystem) resolve(w *ecs.World, e ecs.Entity, cfg *component.Lilith, state *component.LilithState, body *component.PhysicsBody, t *component.Transform) {
	p := state.Pending
	state.Pending = nil

	switch p.Kind {
	case component.TransitionInnerCorner:
		state.Surface = p.Next
		s.setPhase(e, cfg, state, component.PhaseAttachedSingle)
		hold(body)
	case component.TransitionOuterCorner:
		// the clip moves the walker around the edge; the banked offset is
		// applied twice to land it on the next face
		pos := entityPosition(body, t)
		teleport(body, t, pos.Add(p.Delta.Mult(2)))
		state.Surface = p.Next
		s.setPhase(e, cfg, state, component.PhaseAttachedSingle)
		hold(body)
	case component.TransitionJump:
		d := p.JumpDirection
		up := cp.Vector{X: 0, Y: 1}
		lift := cfg.JumpLift
		if lift <= 0 {
			lift = 1 / 1.8
		}
		body.SetKinematic(false)
		body.SetVelocity(d.Add(up.Mult(d.Length() * lift)).Mult(cfg.JumpSpeed))
		state.Surface = component.SurfaceNone
		state.JumpLock = cfg.JumpLockTime
		s.setPhase(e, cfg, state, component.PhaseJumping)
		pushEvent(w, e, EventLaunched, d)
	}
}

// evaluateAttach applies the attach flags. It reports whether the walker
// is attached afterwards.
func (s *AttachmentSystem) evaluateAttach(w *ecs.World, e ecs.Entity, cfg *component.Lilith, state *component.LilithState, aw *component.Awareness, body *component.PhysicsBody, t *component.Transform) bool {
	count := aw.AttachCount()
	if count == 0 {
		if state.Phase != component.PhaseDetached || body.Kinematic {
			s.detach(e, cfg, state, body)
		}
		return false
	}

	wasAttached := state.Attached()
	hold(body)

	if !wasAttached {
		state.Landing = true
		state.LandingDone = component.NewSignal()
		s.bridge.PlayLanding(w, e, state.LandingDone)
		pushEvent(w, e, EventLanded, nil)
	}

	if count == 1 {
		for _, side := range component.Sides {
			if aw.CanAttach(side) {
				state.Surface = side.Surface()
				break
			}
		}
		s.setPhase(e, cfg, state, component.PhaseAttachedSingle)
		return true
	}

	s.setPhase(e, cfg, state, component.PhaseAttachedAmbiguous)
	s.resolveAmbiguous(w, e, cfg, state, aw, body, t)
	return true
}

// resolveAmbiguous starts an inner corner when the next face in the
// traversal order is reachable and keeps the walker flush with its current
// face.
func (s *AttachmentSystem) resolveAmbiguous(w *ecs.World, e ecs.Entity, cfg *component.Lilith, state *component.LilithState, aw *component.Awareness, body *component.PhysicsBody, t *component.Transform) {
	if !state.Surface.Single() {
		for _, surface := range ambiguousPreference {
			side, _ := component.SideOf(surface)
			if aw.CanAttach(side) {
				state.Surface = surface
				break
			}
		}
	}

	next := state.Surface.InnerCornerNext(state.Clockwise())
	if side, ok := component.SideOf(next); ok && aw.CanAttach(side) {
		s.startInnerCorner(w, e, cfg, state, next)
	}

	s.readjust(w, state, aw, body, t)
}

// readjust snaps the walker along -normal so its centre sits one body size
// from the current face.
func (s *AttachmentSystem) readjust(w *ecs.World, state *component.LilithState, aw *component.Awareness, body *component.PhysicsBody, t *component.Transform) {
	pw := w.PhysicsWorld()
	if pw == nil || !state.Surface.Single() {
		return
	}
	dir := state.Surface.Normal().Neg()
	pos := entityPosition(body, t)
	hit := pw.Raycast(pos, dir, aw.BodySize*2, aw.WalkableMask)
	if !hit.Hit {
		return
	}
	teleport(body, t, pos.Add(dir.Mult(hit.Distance-aw.BodySize)))
}

func (s *AttachmentSystem) startInnerCorner(w *ecs.World, e ecs.Entity, cfg *component.Lilith, state *component.LilithState, next component.Surface) {
	if state.Pending != nil {
		return
	}
	done := component.NewSignal()
	state.Pending = &component.Transition{
		Kind: component.TransitionInnerCorner,
		Next: next,
		Done: done,
	}
	s.setPhase(e, cfg, state, component.PhaseInnerCorner)
	s.bridge.PlayInnerCorner(w, e, next, done)
	pushEvent(w, e, EventInnerCorner, next)
}

// tryJump rolls the per-tick jump chance and, on success, winds up a jump
// toward a random candidate.
func (s *AttachmentSystem) tryJump(w *ecs.World, e ecs.Entity, cfg *component.Lilith, state *component.LilithState, aw *component.Awareness, body *component.PhysicsBody) bool {
	if state.Pending != nil || len(aw.JumpCandidates) == 0 {
		return false
	}
	if s.randomFloat()*100 >= cfg.JumpProbability {
		return false
	}

	candidate := aw.JumpCandidates[s.randomIndex(len(aw.JumpCandidates))]
	diagonal := IsDiagonal(candidate.Direction)
	launch := component.NewSignal()
	state.Pending = &component.Transition{
		Kind:          component.TransitionJump,
		JumpDirection: candidate.Direction,
		Done:          launch,
	}
	hold(body)
	s.setPhase(e, cfg, state, component.PhaseJumpWindup)
	s.bridge.PlayJump(w, e, diagonal, launch)
	pushEvent(w, e, EventJump, candidate.Target)
	return true
}

// tryOuterCorner wraps the walker around a convex edge found ahead of it.
func (s *AttachmentSystem) tryOuterCorner(w *ecs.World, e ecs.Entity, cfg *component.Lilith, state *component.LilithState, aw *component.Awareness, body *component.PhysicsBody, t *component.Transform) {
	if state.Pending != nil {
		return
	}
	corner, ok := pickCorner(state, aw)
	if !ok {
		return
	}

	d := corner.Offset
	pos := entityPosition(body, t)
	// step back so the walker stands one body size short of the edge
	pos = pos.Add(d.Sub(d.Normalize().Mult(aw.BodySize)))
	teleport(body, t, pos)

	next := state.Surface.OuterCornerNext(state.Clockwise())
	delta := corner.Position.Sub(pos)
	done := component.NewSignal()
	state.Pending = &component.Transition{
		Kind:  component.TransitionOuterCorner,
		Next:  next,
		Delta: delta,
		Done:  done,
	}
	hold(body)
	s.setPhase(e, cfg, state, component.PhaseOuterCorner)
	s.bridge.PlayOuterCorner(w, e, next, delta, done)
	pushEvent(w, e, EventOuterCorner, next)
}

// pickCorner prefers the corner found by the probe under the current face,
// falling back to the first valid slot.
func pickCorner(state *component.LilithState, aw *component.Awareness) (component.CornerPoint, bool) {
	if side, ok := component.SideOf(state.Surface); ok {
		if c := aw.Corners[component.CornerSlotFor(side, state.Clockwise())]; c.Valid {
			return c, true
		}
	}
	corners := aw.PossibleCorners()
	if len(corners) == 0 {
		return component.CornerPoint{}, false
	}
	return corners[0], true
}

func (s *AttachmentSystem) detach(e ecs.Entity, cfg *component.Lilith, state *component.LilithState, body *component.PhysicsBody) {
	body.SetKinematic(false)
	state.Surface = component.SurfaceNone
	state.Landing = false
	state.LandingDone = nil
	s.setPhase(e, cfg, state, component.PhaseDetached)
}

func (s *AttachmentSystem) setPhase(e ecs.Entity, cfg *component.Lilith, state *component.LilithState, phase component.Phase) {
	if state.Phase == phase {
		return
	}
	if cfg != nil && cfg.Debug {
		log.Printf("lilith: entity=%v %s -> %s surface=%s", e, state.Phase, phase, state.Surface)
	}
	state.Phase = phase
}

// hold pins the body in place: kinematic with no velocity.
func hold(body *component.PhysicsBody) {
	body.SetKinematic(true)
	body.SetVelocity(cp.Vector{})
}

func teleport(body *component.PhysicsBody, t *component.Transform, pos cp.Vector) {
	body.Teleport(pos)
	if t != nil {
		t.X, t.Y = pos.X, pos.Y
	}
}

func pushEvent(w *ecs.World, e ecs.Entity, kind string, data any) {
	w.Events().Push(ecs.Event{Type: kind, Entity: e, Data: data})
}
