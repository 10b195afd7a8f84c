package component

import "github.com/jakecoffman/cp"

// Turret holds the tuning and aim state of a stationary gun. Angles are in
// degrees, measured from the turret's down axis; speeds are degrees per
// second.
type Turret struct {
	TargetMask uint32

	// PivotOffset places the weapon pivot relative to the transform.
	PivotOffset cp.Vector
	// Axis is the turret's local down direction, already rotated by the
	// mount.
	Axis cp.Vector

	MaxDistance    float64
	SpotLightAngle float64
	OvershootAngle float64

	SearchAngle    float64
	SearchSpeed    float64
	FollowTime     float64
	FollowSpeed    float64
	HitFollowTime  float64
	HitFollowSpeed float64

	BulletSpeed   float64
	ShootingSpeed float64
	MuzzleOffset  float64

	KickBackAmount float64
	KickBackSpeed  float64

	// runtime
	CurrentAngle      float64
	AngleSearchOffset float64
	SearchFlip        bool
	FollowDirection   int
	FollowTimer       float64
	HitFollowTimer    float64
	ShootTimer        float64
	Target            uint64
	HasTarget         bool
	LastTargetPos     cp.Vector
	ShootingDirection cp.Vector
	KickBack          cp.Vector
}

var TurretComponent = NewComponent[Turret]()
