package component

import "github.com/jakecoffman/cp"

// Lilith holds the tuning of a surface-walking enemy. Times are seconds,
// probabilities are percentages per tick.
type Lilith struct {
	WalkSpeed    float64
	JumpSpeed    float64
	JumpLift     float64
	JumpLockTime float64

	JumpProbability float64

	MaxIdleTime float64
	MaxWalkTime float64
	MaxFlipTime float64

	Debug bool
}

// Phase is the attachment state of a surface walker.
type Phase int

const (
	PhaseDetached Phase = iota
	PhaseAttachedSingle
	PhaseAttachedAmbiguous
	PhaseInnerCorner
	PhaseOuterCorner
	// PhaseJumpWindup holds the walker in place while the jump clip winds
	// up. The body is kinematic but the walker is no longer attached.
	PhaseJumpWindup
	PhaseJumping
)

var phaseNames = [...]string{"detached", "attached", "ambiguous", "inner_corner", "outer_corner", "jump_windup", "jumping"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "phase(?)"
	}
	return phaseNames[p]
}

// TransitionKind identifies an in-flight, animation-paced transition.
type TransitionKind int

const (
	TransitionInnerCorner TransitionKind = iota + 1
	TransitionOuterCorner
	TransitionJump
)

// Transition is a suspended state change waiting on its Done signal.
type Transition struct {
	Kind TransitionKind
	Next Surface
	// Delta is the banked position correction of an outer corner.
	Delta cp.Vector
	// JumpDirection is the launch vector of a jump.
	JumpDirection cp.Vector
	Done          *Signal
}

// LilithState is the runtime motion state. Attached, Jumping and
// WalkingAroundCorner derive from Phase so they cannot disagree.
type LilithState struct {
	Phase   Phase
	Surface Surface
	// OppositeDirection selects the counter-clockwise traversal sense.
	OppositeDirection bool

	Idling  bool
	Turning bool
	Landing bool
	Dead    bool

	IdleTimer float64
	WalkTimer float64
	FlipTimer float64
	// JumpLock counts down after launch; attach checks resume at zero.
	JumpLock float64

	Pending     *Transition
	TurnDone    *Signal
	LandingDone *Signal
}

func (s *LilithState) Attached() bool {
	if s == nil {
		return false
	}
	switch s.Phase {
	case PhaseAttachedSingle, PhaseAttachedAmbiguous, PhaseInnerCorner, PhaseOuterCorner:
		return true
	}
	return false
}

func (s *LilithState) Jumping() bool {
	return s != nil && (s.Phase == PhaseJumpWindup || s.Phase == PhaseJumping)
}

func (s *LilithState) WalkingAroundCorner() bool {
	return s != nil && (s.Phase == PhaseInnerCorner || s.Phase == PhaseOuterCorner)
}

// Clockwise is the traversal sense used by the corner rotation orders.
func (s *LilithState) Clockwise() bool {
	return s == nil || !s.OppositeDirection
}

// Walking reports whether the walker is free to walk and decide this tick.
func (s *LilithState) Walking() bool {
	return s.Attached() && !s.WalkingAroundCorner() && !s.Landing && !s.Idling && !s.Turning
}

var LilithComponent = NewComponent[Lilith]()
var LilithStateComponent = NewComponent[LilithState]()
