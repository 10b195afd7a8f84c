package component

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Side names one of the four attach probes.
type Side int

const (
	SideUp Side = iota
	SideDown
	SideLeft
	SideRight
	sideCount
)

var sideNames = [...]string{"up", "down", "left", "right"}

func (s Side) String() string {
	if s < 0 || s >= sideCount {
		return "side(?)"
	}
	return sideNames[s]
}

// Direction is the unit vector the side's probe is cast along.
func (s Side) Direction() cp.Vector {
	switch s {
	case SideUp:
		return cp.Vector{X: 0, Y: 1}
	case SideDown:
		return cp.Vector{X: 0, Y: -1}
	case SideLeft:
		return cp.Vector{X: -1, Y: 0}
	case SideRight:
		return cp.Vector{X: 1, Y: 0}
	}
	return cp.Vector{}
}

// Surface is the face a walker attached through this side stands on.
func (s Side) Surface() Surface {
	switch s {
	case SideUp:
		return SurfaceTop
	case SideDown:
		return SurfaceBottom
	case SideLeft:
		return SurfaceLeft
	case SideRight:
		return SurfaceRight
	}
	return SurfaceNone
}

// SideOf returns the probe side that faces surface.
func SideOf(s Surface) (Side, bool) {
	switch s {
	case SurfaceTop:
		return SideUp, true
	case SurfaceBottom:
		return SideDown, true
	case SurfaceLeft:
		return SideLeft, true
	case SurfaceRight:
		return SideRight, true
	}
	return 0, false
}

// Sides lists the attach probes in evaluation order.
var Sides = [...]Side{SideUp, SideDown, SideLeft, SideRight}

// CornerSlot indexes the eight corner points: one per side and rotation
// sense.
type CornerSlot int

const (
	CornerLeftClockwise CornerSlot = iota
	CornerLeftCounterClockwise
	CornerRightClockwise
	CornerRightCounterClockwise
	CornerTopClockwise
	CornerTopCounterClockwise
	CornerBottomClockwise
	CornerBottomCounterClockwise
	cornerSlotCount
)

// CornerSlotFor returns the slot fed by side's probe in the given sense.
func CornerSlotFor(side Side, clockwise bool) CornerSlot {
	var base CornerSlot
	switch side {
	case SideLeft:
		base = CornerLeftClockwise
	case SideRight:
		base = CornerRightClockwise
	case SideUp:
		base = CornerTopClockwise
	case SideDown:
		base = CornerBottomClockwise
	}
	if !clockwise {
		base++
	}
	return base
}

// CornerPoint is a detected outer corner. Offset is the corner's position
// relative to the contact point of the probe that found it.
type CornerPoint struct {
	Valid    bool
	Position cp.Vector
	Offset   cp.Vector
}

// JumpDirections are the eight sampled jump directions: four axes then
// four normalized diagonals.
var JumpDirections = [8]cp.Vector{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
	{X: -math.Sqrt2 / 2, Y: math.Sqrt2 / 2},
	{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2},
	{X: -math.Sqrt2 / 2, Y: -math.Sqrt2 / 2},
	{X: math.Sqrt2 / 2, Y: -math.Sqrt2 / 2},
}

// JumpCandidate is a reachable landing point. Direction is the full vector
// from the walker to the point, not normalized.
type JumpCandidate struct {
	Direction cp.Vector
	Target    cp.Vector
	Diagonal  bool
}

// Awareness aggregates the walker's probes. It is rewritten every tick by
// the awareness system and read by the attachment state machine.
type Awareness struct {
	BodySize        float64
	AttachDistance  float64
	MinJumpDistance float64
	MaxJumpDistance float64
	WalkableMask    uint32

	Attach  [sideCount]ProbeResult
	Corners [cornerSlotCount]CornerPoint
	// DistanceToCorner is the offset of the last corner found this tick.
	DistanceToCorner cp.Vector

	JumpRays       [len(JumpDirections)]ProbeResult
	JumpCandidates []JumpCandidate
}

// CanAttach reports whether the side's probe found a surface strictly
// closer than the attach distance.
func (a *Awareness) CanAttach(side Side) bool {
	if a == nil || side < 0 || side >= sideCount {
		return false
	}
	return a.Attach[side].Distance < a.AttachDistance
}

// AttachCount returns how many sides can attach.
func (a *Awareness) AttachCount() int {
	n := 0
	for _, side := range Sides {
		if a.CanAttach(side) {
			n++
		}
	}
	return n
}

// CanAttachAny reports whether any side can attach.
func (a *Awareness) CanAttachAny() bool {
	return a.AttachCount() > 0
}

// PossibleCorners returns the valid corner points in slot order.
func (a *Awareness) PossibleCorners() []CornerPoint {
	if a == nil {
		return nil
	}
	var out []CornerPoint
	for _, c := range a.Corners {
		if c.Valid {
			out = append(out, c)
		}
	}
	return out
}

// ClearCorners marks every corner slot absent.
func (a *Awareness) ClearCorners() {
	if a == nil {
		return
	}
	a.Corners = [cornerSlotCount]CornerPoint{}
	a.DistanceToCorner = cp.Vector{}
}

var AwarenessComponent = NewComponent[Awareness]()
