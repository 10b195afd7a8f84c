package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tomorrow/common"
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
)

const (
	// probeSkin pulls the edge check back off the surface it starts on.
	probeSkin = 0.05
	// cornerNudge steps just past a surface when looking for its face.
	cornerNudge = 0.01
)

// Prober casts rays against world geometry. *ecs.PhysicsWorld implements it.
type Prober interface {
	Raycast(origin, dir cp.Vector, maxDistance float64, mask uint32) component.ProbeResult
}

// cornerSides is the evaluation order of the corner checks.
var cornerSides = [...]component.Side{component.SideLeft, component.SideRight, component.SideUp, component.SideDown}

// AwarenessSystem refreshes every walker's probes from the physics world.
type AwarenessSystem struct{}

func NewAwarenessSystem() *AwarenessSystem {
	return &AwarenessSystem{}
}

func (s *AwarenessSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	ecs.ForEach3(w, component.AwarenessComponent.Kind(), component.LilithStateComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, aw *component.Awareness, state *component.LilithState, t *component.Transform) {
		body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		Sense(pw, entityPosition(body, t), state.Surface, state.Clockwise(), aw)
	})
}

// Sense rewrites aw from probes cast around pos. surface and clockwise
// select the walking frame used by the corner and jump checks.
func Sense(p Prober, pos cp.Vector, surface component.Surface, clockwise bool, aw *component.Awareness) {
	if p == nil || aw == nil {
		return
	}

	for _, side := range component.Sides {
		aw.Attach[side] = castAttach(p, pos, side.Direction(), aw)
	}

	aw.ClearCorners()
	for _, side := range cornerSides {
		if !aw.CanAttach(side) {
			continue
		}
		dir := side.Direction()
		corner, ok := findCorner(p, pos, dir, aw.Attach[side].Distance, clockwise, aw)
		if !ok {
			continue
		}
		aw.Corners[component.CornerSlotFor(side, clockwise)] = corner
		aw.DistanceToCorner = corner.Offset
	}

	normal := surface.Normal()
	walk := WalkDirection(surface, clockwise)
	aw.JumpCandidates = aw.JumpCandidates[:0]
	for i, dir := range component.JumpDirections {
		ray := p.Raycast(pos, dir, aw.MaxJumpDistance, aw.WalkableMask)
		aw.JumpRays[i] = ray
		if !ray.Hit || ray.Distance < aw.MinJumpDistance || ray.Distance > aw.MaxJumpDistance {
			continue
		}
		if isWalkingDirection(dir, normal) {
			continue
		}
		diagonal := IsDiagonal(dir)
		if diagonal && dir.Dot(walk) <= 0 {
			continue
		}
		aw.JumpCandidates = append(aw.JumpCandidates, component.JumpCandidate{
			Direction: dir.Mult(ray.Distance),
			Target:    pos.Add(dir.Mult(ray.Distance)),
			Diagonal:  diagonal,
		})
	}
}

// castAttach probes one side. The ray starts at the body centre so it never
// begins inside geometry; the result is reported from the body edge
// (position + dir × bodySize) with the attach distance as its range. A
// surface inside the body edge gives a negative distance.
func castAttach(p Prober, pos, dir cp.Vector, aw *component.Awareness) component.ProbeResult {
	origin := pos.Add(dir.Mult(aw.BodySize))
	raw := p.Raycast(pos, dir, aw.BodySize+aw.AttachDistance, aw.WalkableMask)
	if !raw.Hit {
		return component.Miss(origin, dir, aw.AttachDistance)
	}
	raw.Origin = origin
	raw.MaxDistance = aw.AttachDistance
	raw.Distance -= aw.BodySize
	return raw
}

// findCorner looks one body size ahead of the contact point of a probe. If
// the surface ends there, the face beyond the edge is located and the
// edge point returned.
func findCorner(p Prober, pos, dir cp.Vector, distance float64, clockwise bool, aw *component.Awareness) (component.CornerPoint, bool) {
	bs := aw.BodySize
	contact := pos.Add(dir.Mult(bs + distance))

	ahead, back := dir.Perp(), dir.ReversePerp()
	if !clockwise {
		ahead, back = back, ahead
	}

	edgeStart := contact.Add(ahead.Mult(bs))
	if p.Raycast(edgeStart.Sub(dir.Mult(probeSkin)), dir, bs+probeSkin, aw.WalkableMask).Hit {
		return component.CornerPoint{}, false
	}

	checkPos := edgeStart.Add(dir.Mult(cornerNudge))
	face := p.Raycast(checkPos, back, bs, aw.WalkableMask)
	if !face.Hit {
		return component.CornerPoint{}, false
	}
	corner := checkPos.Add(back.Mult(face.Distance)).Sub(dir.Mult(cornerNudge))
	return component.CornerPoint{
		Valid:    true,
		Position: corner,
		Offset:   corner.Sub(contact),
	}, true
}

// WalkDirection is the unit direction of travel along surface: the normal
// rotated -90° for the clockwise sense, +90° otherwise.
func WalkDirection(surface component.Surface, clockwise bool) cp.Vector {
	return common.Rotate90(surface.Normal(), !clockwise)
}

func isWalkingDirection(dir, normal cp.Vector) bool {
	if normal.X == 0 && normal.Y == 0 {
		return false
	}
	return common.ApproxEqual(dir, normal.Perp()) || common.ApproxEqual(dir, normal.ReversePerp())
}

// IsDiagonal reports whether dir, once normalized, is not one of the four
// unit axes.
func IsDiagonal(dir cp.Vector) bool {
	if dir.X == 0 && dir.Y == 0 {
		return false
	}
	n := dir.Normalize()
	return math.Abs(n.X) > common.Epsilon && math.Abs(n.Y) > common.Epsilon
}

// entityPosition prefers the live body position over the last synced
// transform.
func entityPosition(body *component.PhysicsBody, t *component.Transform) cp.Vector {
	if pos, ok := body.Position(); ok {
		return pos
	}
	if t == nil {
		return cp.Vector{}
	}
	return cp.Vector{X: t.X, Y: t.Y}
}
