package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func nearVec(a, b cp.Vector) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

// newPhysicsTestWorld returns a world with a physics world and the given
// static boxes on the walkable layer.
func newPhysicsTestWorld(boxes ...cp.BB) *ecs.World {
	w := ecs.NewWorld()
	pw := ecs.NewPhysicsWorld()
	for _, bb := range boxes {
		pw.AddStaticBox(bb, component.LayerWalkable)
	}
	w.SetPhysicsWorld(pw)
	return w
}

func testAwareness() *component.Awareness {
	return &component.Awareness{
		BodySize:        1,
		AttachDistance:  0.2,
		MinJumpDistance: 2,
		MaxJumpDistance: 8,
		WalkableMask:    component.LayerWalkable,
	}
}

// newTestWalker adds a walker at (x, y). Its body is created straight away
// when the world has physics.
func newTestWalker(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	tr := &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}
	body := &component.PhysicsBody{Radius: 0.9, Mass: 1, FixedRotation: true}
	layer := &component.CollisionLayer{Category: component.LayerEnemy, Mask: component.LayerWalkable | component.LayerBullet}
	cfg := &component.Lilith{
		WalkSpeed:    2,
		JumpSpeed:    2,
		JumpLift:     0.5,
		JumpLockTime: 0.1,
	}
	state := &component.LilithState{}

	for _, err := range []error{
		ecs.Add(w, e, component.TransformComponent.Kind(), tr),
		ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body),
		ecs.Add(w, e, component.CollisionLayerComponent.Kind(), layer),
		ecs.Add(w, e, component.LilithComponent.Kind(), cfg),
		ecs.Add(w, e, component.LilithStateComponent.Kind(), state),
		ecs.Add(w, e, component.AwarenessComponent.Kind(), testAwareness()),
	} {
		if err != nil {
			t.Fatalf("add walker component: %v", err)
		}
	}
	if pw := w.PhysicsWorld(); pw != nil {
		pw.EnsureBody(e, tr, body, *layer)
	}
	return e
}

type walkerParts struct {
	cfg   *component.Lilith
	state *component.LilithState
	aw    *component.Awareness
	body  *component.PhysicsBody
	t     *component.Transform
}

func partsOf(w *ecs.World, e ecs.Entity) walkerParts {
	var p walkerParts
	p.cfg, _ = ecs.Get(w, e, component.LilithComponent.Kind())
	p.state, _ = ecs.Get(w, e, component.LilithStateComponent.Kind())
	p.aw, _ = ecs.Get(w, e, component.AwarenessComponent.Kind())
	p.body, _ = ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	p.t, _ = ecs.Get(w, e, component.TransformComponent.Kind())
	return p
}

// setFlags marks the given sides as touching and every other side as clear.
func setFlags(aw *component.Awareness, sides ...component.Side) {
	for _, side := range component.Sides {
		aw.Attach[side] = component.Miss(cp.Vector{}, side.Direction(), aw.AttachDistance)
	}
	for _, side := range sides {
		aw.Attach[side] = component.ProbeResult{Hit: true, Direction: side.Direction(), MaxDistance: aw.AttachDistance}
	}
}

type bridgeCall struct {
	clip   string
	signal *component.Signal
	next   component.Surface
}

// recordingBridge remembers every request and leaves signals for the test
// to fire.
type recordingBridge struct {
	calls []bridgeCall
}

func (b *recordingBridge) record(clip string, next component.Surface, s *component.Signal) {
	b.calls = append(b.calls, bridgeCall{clip: clip, signal: s, next: next})
}

func (b *recordingBridge) PlayIdle(w *ecs.World, e ecs.Entity) {
	b.record(ClipIdle, component.SurfaceNone, nil)
}

func (b *recordingBridge) PlayWalk(w *ecs.World, e ecs.Entity) {
	b.record(ClipWalk, component.SurfaceNone, nil)
}

func (b *recordingBridge) PlayLanding(w *ecs.World, e ecs.Entity, done *component.Signal) {
	b.record(ClipLanding, component.SurfaceNone, done)
}

func (b *recordingBridge) PlayFlip(w *ecs.World, e ecs.Entity, done *component.Signal) {
	b.record(ClipFlip, component.SurfaceNone, done)
}

func (b *recordingBridge) PlayInnerCorner(w *ecs.World, e ecs.Entity, next component.Surface, done *component.Signal) {
	b.record(ClipInnerCorner, next, done)
}

func (b *recordingBridge) PlayOuterCorner(w *ecs.World, e ecs.Entity, next component.Surface, delta cp.Vector, done *component.Signal) {
	b.record(ClipOuterCorner, next, done)
}

func (b *recordingBridge) PlayJump(w *ecs.World, e ecs.Entity, diagonal bool, launch *component.Signal) {
	clip := ClipJump
	if diagonal {
		clip = ClipJumpDiagonal
	}
	b.record(clip, component.SurfaceNone, launch)
}

// last returns the most recent call for clip.
func (b *recordingBridge) last(clip string) (bridgeCall, bool) {
	for i := len(b.calls) - 1; i >= 0; i-- {
		if b.calls[i].clip == clip {
			return b.calls[i], true
		}
	}
	return bridgeCall{}, false
}

func eventTypes(w *ecs.World) []string {
	var out []string
	for _, evt := range w.Events().Pending() {
		out = append(out, evt.Type)
	}
	return out
}

func hasEvent(w *ecs.World, kind string) bool {
	for _, evt := range w.Events().Pending() {
		if evt.Type == kind {
			return true
		}
	}
	return false
}
