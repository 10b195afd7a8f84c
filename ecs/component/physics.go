package component

import (
	"math"

	"github.com/jakecoffman/cp"
)

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Body and Shape are filled in by the physics system the first tick the
// entity is seen.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape

	Width      float64
	Height     float64
	Radius     float64
	Mass       float64
	Friction   float64
	Elasticity float64
	Static     bool
	Sensor     bool

	// Kinematic requests a kinematic body: no gravity, moved only by its
	// velocity. Flipping it switches the body type on the next physics tick.
	Kinematic     bool
	FixedRotation bool
	// GravityScale multiplies world gravity for dynamic bodies; zero means 1.
	GravityScale float64
	// IgnoreGravity keeps a dynamic body on a straight line (bullets).
	IgnoreGravity bool
}

// Position returns the body position, or ok=false before the body exists.
func (p *PhysicsBody) Position() (cp.Vector, bool) {
	if p == nil || p.Body == nil {
		return cp.Vector{}, false
	}
	return p.Body.Position(), true
}

// Velocity returns the body velocity.
func (p *PhysicsBody) Velocity() cp.Vector {
	if p == nil || p.Body == nil {
		return cp.Vector{}
	}
	return p.Body.Velocity()
}

// SetVelocity writes the body velocity.
func (p *PhysicsBody) SetVelocity(v cp.Vector) {
	if p == nil || p.Body == nil {
		return
	}
	p.Body.SetVelocityVector(v)
}

// Teleport moves the body without integrating.
func (p *PhysicsBody) Teleport(pos cp.Vector) {
	if p == nil || p.Body == nil {
		return
	}
	p.Body.SetPosition(pos)
}

// SetKinematic toggles between kinematic and dynamic. The body type is
// switched immediately when the body exists.
func (p *PhysicsBody) SetKinematic(kinematic bool) {
	if p == nil {
		return
	}
	p.Kinematic = kinematic
	if p.Body == nil || p.Static {
		return
	}
	want := cp.BODY_DYNAMIC
	if kinematic {
		want = cp.BODY_KINEMATIC
	}
	if p.Body.GetType() == want {
		return
	}
	p.Body.SetType(want)
	if !kinematic && p.FixedRotation {
		// mass is re-accumulated from the shapes on the switch back
		p.Body.SetMoment(math.Inf(1))
		p.Body.SetAngularVelocity(0)
	}
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
