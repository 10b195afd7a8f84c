package ecs

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tomorrow/common"
	"github.com/milk9111/tomorrow/ecs/component"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeBody
	collisionTypeBullet
)

// Contact is a bullet impact recorded during a physics step.
type Contact struct {
	Bullet Entity
	Other  Entity
	Point  cp.Vector
	Normal cp.Vector
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

// PhysicsWorld owns the Chipmunk space, the static level shapes and the
// mapping from shapes back to entities.
type PhysicsWorld struct {
	space         *cp.Space
	handlersReady bool

	bodies        map[Entity]*bodyInfo
	shapeToEntity map[*cp.Shape]Entity
	staticShapes  []*cp.Shape
	contacts      []Contact
}

// NewPhysicsWorld creates an empty space with world gravity.
func NewPhysicsWorld() *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})

	pw := &PhysicsWorld{
		space:         space,
		bodies:        make(map[Entity]*bodyInfo),
		shapeToEntity: make(map[*cp.Shape]Entity),
	}
	pw.setupHandlers()
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// AddStaticBox adds an axis-aligned solid box of the given category.
func (pw *PhysicsWorld) AddStaticBox(bb cp.BB, category uint32) *cp.Shape {
	if pw == nil || pw.space == nil {
		return nil
	}
	if category == 0 {
		category = component.LayerWalkable
	}
	shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeSolid)
	shape.SetFilter(cp.NewShapeFilter(0, uint(category), cp.ALL_CATEGORIES))
	pw.space.AddShape(shape)
	pw.staticShapes = append(pw.staticShapes, shape)
	return shape
}

// AddTileGrid merges solid tiles row-major into as few boxes as possible and
// adds them as static geometry. tile(x, y) returns the category of the tile
// at column x, row y (row 0 at the top of the grid), zero for empty.
func (pw *PhysicsWorld) AddTileGrid(width, height int, tileSize float64, tile func(x, y int) uint32) int {
	if pw == nil || width <= 0 || height <= 0 || tile == nil {
		return 0
	}
	if tileSize <= 0 {
		tileSize = 1
	}
	processed := make([]bool, width*height)
	added := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if processed[idx] {
				continue
			}
			category := tile(x, y)
			if category == 0 {
				processed[idx] = true
				continue
			}

			w := 1
			for x+w < width {
				idx2 := y*width + x + w
				if processed[idx2] || tile(x+w, y) != category {
					break
				}
				w++
			}

			h := 1
		heightLoop:
			for y+h < height {
				for xi := x; xi < x+w; xi++ {
					idx2 := (y+h)*width + xi
					if processed[idx2] || tile(xi, y+h) != category {
						break heightLoop
					}
				}
				h++
			}

			// grid rows grow downward, world Y grows upward
			top := float64(height-y) * tileSize
			bb := cp.BB{
				L: float64(x) * tileSize,
				B: top - float64(h)*tileSize,
				R: float64(x+w) * tileSize,
				T: top,
			}
			pw.AddStaticBox(bb, category)
			added++

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*width+xx] = true
				}
			}
		}
	}
	return added
}

// StaticBounds returns the boxes of the level geometry.
func (pw *PhysicsWorld) StaticBounds() []cp.BB {
	if pw == nil {
		return nil
	}
	out := make([]cp.BB, 0, len(pw.staticShapes))
	for _, shape := range pw.staticShapes {
		out = append(out, shape.BB())
	}
	return out
}

// Raycast casts a segment from origin along dir for maxDistance and returns
// the nearest shape whose category is in mask. dir must be a unit vector.
func (pw *PhysicsWorld) Raycast(origin, dir cp.Vector, maxDistance float64, mask uint32) component.ProbeResult {
	res, _ := pw.segmentQuery(origin, dir, maxDistance, mask)
	return res
}

// RaycastEntity is Raycast that also reports which entity owns the hit
// shape. Level geometry reports ok=false.
func (pw *PhysicsWorld) RaycastEntity(origin, dir cp.Vector, maxDistance float64, mask uint32) (component.ProbeResult, Entity, bool) {
	res, shape := pw.segmentQuery(origin, dir, maxDistance, mask)
	if shape == nil {
		return res, 0, false
	}
	e, ok := pw.shapeToEntity[shape]
	return res, e, ok
}

func (pw *PhysicsWorld) segmentQuery(origin, dir cp.Vector, maxDistance float64, mask uint32) (component.ProbeResult, *cp.Shape) {
	miss := component.Miss(origin, dir, maxDistance)
	if pw == nil || pw.space == nil || maxDistance <= 0 || (dir.X == 0 && dir.Y == 0) {
		return miss, nil
	}
	end := origin.Add(dir.Mult(maxDistance))
	filter := cp.NewShapeFilter(0, cp.ALL_CATEGORIES, uint(mask))
	info := pw.space.SegmentQueryFirst(origin, end, 0, filter)
	if info.Shape == nil {
		return miss, nil
	}
	return component.ProbeResult{
		Origin:         origin,
		Direction:      dir,
		MaxDistance:    maxDistance,
		Hit:            true,
		Distance:       info.Alpha * maxDistance,
		Point:          info.Point,
		Normal:         info.Normal,
		Classification: uint32(info.Shape.Filter.Categories),
	}, info.Shape
}

// EnsureBody creates the body and shape for an entity the first time it is
// seen and fills them into body.
func (pw *PhysicsWorld) EnsureBody(e Entity, t *component.Transform, body *component.PhysicsBody, layer component.CollisionLayer) {
	if pw == nil || pw.space == nil || t == nil || body == nil {
		return
	}
	if info, ok := pw.bodies[e]; ok {
		body.Body = info.body
		body.Shape = info.shape
		return
	}

	category, mask := layer.Resolved()
	filter := cp.NewShapeFilter(0, uint(category), uint(mask))
	pos := cp.Vector{X: t.X, Y: t.Y}

	width, height, radius := body.Width, body.Height, body.Radius
	if radius <= 0 && (width <= 0 || height <= 0) {
		width, height = 1, 1
	}

	if body.Static {
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(pw.space.StaticBody, radius, pos)
		} else {
			shape = cp.NewBox2(pw.space.StaticBody, cp.BB{L: pos.X - width/2, B: pos.Y - height/2, R: pos.X + width/2, T: pos.Y + height/2}, 0)
		}
		shape.SetFriction(body.Friction)
		shape.SetElasticity(body.Elasticity)
		shape.SetCollisionType(collisionTypeBody)
		shape.SetFilter(filter)
		shape.SetSensor(body.Sensor)
		pw.space.AddShape(shape)

		pw.bodies[e] = &bodyInfo{body: pw.space.StaticBody, shape: shape, static: true}
		pw.shapeToEntity[shape] = e
		body.Body = pw.space.StaticBody
		body.Shape = shape
		return
	}

	mass := body.Mass
	if mass <= 0 {
		mass = 1
	}
	var moment float64
	if radius > 0 {
		moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
	} else {
		moment = cp.MomentForBox(mass, width, height)
	}
	if body.FixedRotation {
		moment = math.Inf(1)
	}

	cpBody := cp.NewBody(mass, moment)
	cpBody.SetPosition(pos)
	cpBody.SetAngle(t.Rotation)

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(cpBody, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(cpBody, width, height, 0)
	}
	shape.SetFriction(body.Friction)
	shape.SetElasticity(body.Elasticity)
	shape.SetFilter(filter)
	shape.SetSensor(body.Sensor)
	if category == component.LayerBullet {
		shape.SetCollisionType(collisionTypeBullet)
	} else {
		shape.SetCollisionType(collisionTypeBody)
	}

	if body.IgnoreGravity {
		cpBody.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(b, cp.Vector{}, damping, dt)
		})
	} else if body.GravityScale != 0 && body.GravityScale != 1 {
		scale := body.GravityScale
		cpBody.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(b, gravity.Mult(scale), damping, dt)
		})
	}

	pw.space.AddBody(cpBody)
	pw.space.AddShape(shape)
	// shape mass lets the body recover its mass when switched back to dynamic
	shape.SetMass(mass)
	if body.FixedRotation {
		cpBody.SetMoment(math.Inf(1))
	}

	pw.bodies[e] = &bodyInfo{body: cpBody, shape: shape}
	pw.shapeToEntity[shape] = e
	body.Body = cpBody
	body.Shape = shape
	body.SetKinematic(body.Kinematic)
}

// RemoveEntity drops the entity's body and shape from the space.
func (pw *PhysicsWorld) RemoveEntity(e Entity) {
	if pw == nil {
		return
	}
	info, ok := pw.bodies[e]
	if !ok {
		return
	}
	if info.shape != nil {
		// removal inside a step callback is deferred by the space
		pw.space.RemoveShape(info.shape)
		delete(pw.shapeToEntity, info.shape)
	}
	if info.body != nil && !info.static {
		pw.space.RemoveBody(info.body)
	}
	delete(pw.bodies, e)
}

// EntityForShape maps a shape back to its owning entity.
func (pw *PhysicsWorld) EntityForShape(shape *cp.Shape) (Entity, bool) {
	if pw == nil || shape == nil {
		return 0, false
	}
	e, ok := pw.shapeToEntity[shape]
	return e, ok
}

// Step advances the physics simulation.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil {
		return
	}
	pw.space.Step(dt)
}

// DrainContacts returns the bullet contacts recorded since the last call.
func (pw *PhysicsWorld) DrainContacts() []Contact {
	if pw == nil || len(pw.contacts) == 0 {
		return nil
	}
	out := pw.contacts
	pw.contacts = nil
	return out
}

func (pw *PhysicsWorld) setupHandlers() {
	if pw == nil || pw.handlersReady || pw.space == nil {
		return
	}

	bulletHandler := pw.space.NewWildcardCollisionHandler(collisionTypeBullet)
	bulletHandler.UserData = pw
	bulletHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		var pointA, pointB cp.Vector
		if arb.Count() > 0 {
			set := arb.ContactPointSet()
			pointA, pointB = set.Points[0].PointA, set.Points[0].PointB
		}
		world.recordBulletContact(shapeA, shapeB, arb.Normal(), pointA, pointB)
		// bullets never push anything around
		return false
	}

	pw.handlersReady = true
	log.Printf("physics: handlers ready")
}

func isBulletShape(shape *cp.Shape) bool {
	return shape != nil && shape.Filter.Categories&uint(component.LayerBullet) != 0
}

// recordBulletContact queues a contact for the bullet among a and b. Points
// are the contact on each shape and normal points from a to b.
func (pw *PhysicsWorld) recordBulletContact(a, b *cp.Shape, normal, pointA, pointB cp.Vector) bool {
	bulletShape, otherShape, point := a, b, pointA
	if isBulletShape(b) && !isBulletShape(a) {
		bulletShape, otherShape, point = b, a, pointB
	}
	bullet, ok := pw.shapeToEntity[bulletShape]
	if !ok || !isBulletShape(bulletShape) {
		return false
	}
	other, _ := pw.shapeToEntity[otherShape]
	pw.contacts = append(pw.contacts, Contact{Bullet: bullet, Other: other, Normal: normal, Point: point})
	return true
}
