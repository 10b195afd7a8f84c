package component

import "github.com/jakecoffman/cp"

// Bullet is a projectile. Owner is the entity that fired it, so a bullet
// never hits its own gun.
type Bullet struct {
	Direction cp.Vector
	Speed     float64
	Damage    int
	Owner     uint64
	// Spent is set by the collision handler; the bullet system destroys the
	// entity on its next update.
	Spent bool
	// HitEntity is the entity the bullet struck, zero for level geometry.
	HitEntity uint64
}

var BulletComponent = NewComponent[Bullet]()
