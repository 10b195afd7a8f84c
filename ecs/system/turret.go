package system

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tomorrow/common"
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
)

// BulletSpawner creates a bullet fired by owner from origin along dir.
type BulletSpawner func(w *ecs.World, owner ecs.Entity, origin, dir cp.Vector, speed float64) error

// TurretSystem scans a fan of rays in front of each turret, follows what it
// sees and fires on a cooldown. With nothing in sight it sweeps around the
// last known target position.
type TurretSystem struct {
	spawn BulletSpawner
}

func NewTurretSystem(spawn BulletSpawner) *TurretSystem {
	return &TurretSystem{spawn: spawn}
}

func (s *TurretSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pw := w.PhysicsWorld()

	ecs.ForEach2(w, component.TurretComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, turret *component.Turret, t *component.Transform) {
		pivot := TurretPivot(turret, t)
		s.scan(w, pw, turret, pivot)

		if turret.HasTarget || turret.FollowTimer > 0 {
			if turret.HasTarget {
				turret.FollowTimer = turret.FollowTime
			}
			s.shoot(w, e, turret, pivot)
			followTarget(turret)
		} else {
			searchSweep(turret)
			aimAtLastTarget(turret, pivot)
		}

		turret.ShootTimer = common.Clamp(turret.ShootTimer-common.DeltaTime, 0, turret.ShootingSpeed)
		turret.KickBack = common.LerpVector(turret.KickBack, cp.Vector{}, common.DeltaTime*turret.KickBackSpeed)
		turret.FollowTimer -= common.DeltaTime
		turret.HitFollowTimer -= common.DeltaTime
	})
}

// TurretPivot is the world position the turret aims and fires from.
func TurretPivot(turret *component.Turret, t *component.Transform) cp.Vector {
	return cp.Vector{X: t.X, Y: t.Y}.Add(turret.PivotOffset)
}

// TurretHit reacts to being shot from direction dir: the turret turns
// toward where the shot came from for HitFollowTime.
func TurretHit(turret *component.Turret, pivot, dir cp.Vector) {
	if turret == nil {
		return
	}
	turret.LastTargetPos = pivot.Sub(dir.Normalize().Mult(10))
	turret.HitFollowTimer = turret.HitFollowTime
}

// leftMost is the first ray of the spotlight fan, half the fan angle
// counter-clockwise from the aim.
func leftMost(turret *component.Turret) cp.Vector {
	return common.RotateDegrees(turret.ShootingDirection, turret.SpotLightAngle/2)
}

func (s *TurretSystem) scan(w *ecs.World, pw *ecs.PhysicsWorld, turret *component.Turret, pivot cp.Vector) {
	turret.HasTarget = false
	if pw == nil {
		return
	}
	first, last := -1, -1
	start := leftMost(turret)
	rays := int(turret.SpotLightAngle)
	for i := 0; i < rays; i++ {
		dir := common.RotateDegrees(start, -float64(i))
		_, hit, ok := pw.RaycastEntity(pivot, dir, turret.MaxDistance, turret.TargetMask)
		if !ok || !ecs.Has(w, hit, component.TurretTargetComponent.Kind()) {
			continue
		}
		if first == -1 {
			first = i
		}
		last = i
		if first != last {
			turret.HasTarget = true
			turret.Target = uint64(hit)
		}
	}
	if first == last {
		return
	}

	index := float64(first) + float64(last-first)/2
	switch {
	case index <= turret.SpotLightAngle*0.45:
		turret.FollowDirection = -1
	case index >= turret.SpotLightAngle*0.55:
		turret.FollowDirection = 1
	default:
		turret.FollowDirection = 0
	}

	if tt, ok := ecs.Get(w, ecs.Entity(turret.Target), component.TransformComponent.Kind()); ok {
		turret.LastTargetPos = cp.Vector{X: tt.X, Y: tt.Y}
	}
}

func (s *TurretSystem) shoot(w *ecs.World, e ecs.Entity, turret *component.Turret, pivot cp.Vector) {
	if turret.ShootTimer != 0 || s.spawn == nil {
		return
	}
	dir := turret.ShootingDirection.Normalize()
	if dir.Length() == 0 {
		return
	}
	origin := pivot.Add(dir.Mult(turret.MuzzleOffset))
	if err := s.spawn(w, e, origin, dir, turret.BulletSpeed); err != nil {
		fmt.Printf("turret: entity=%d spawn bullet error: %v\n", e, err)
		return
	}
	turret.KickBack = dir.Neg().Mult(turret.KickBackAmount)
	turret.ShootTimer = turret.ShootingSpeed
}

func followTarget(turret *component.Turret) {
	angle := turret.CurrentAngle
	switch turret.FollowDirection {
	case -1:
		angle += turret.FollowSpeed * common.DeltaTime
	case 1:
		angle -= turret.FollowSpeed * common.DeltaTime
	}
	turret.CurrentAngle = clampTurretAngle(turret, angle)
	turret.ShootingDirection = common.RotateDegrees(turret.Axis, turret.CurrentAngle)
}

func searchSweep(turret *component.Turret) {
	if !turret.SearchFlip {
		turret.AngleSearchOffset += common.DeltaTime * turret.SearchSpeed
	} else {
		turret.AngleSearchOffset -= common.DeltaTime * turret.SearchSpeed
	}
	if math.Abs(turret.AngleSearchOffset) >= turret.SearchAngle {
		turret.SearchFlip = !turret.SearchFlip
	}
}

// AimAngle is the angle in degrees, counter-clockwise from the turret's
// axis, of target seen from pivot. The result lies in [0, 360).
func AimAngle(turret *component.Turret, pivot, target cp.Vector) float64 {
	dir := target.Sub(pivot)
	angle := common.AngleBetween(dir, turret.Axis)
	if common.Side(turret.Axis, dir) < 0 {
		angle = 360 - angle
	}
	return angle
}

// aimAtLastTarget turns toward the last target position, slowing down as
// the aim closes in.
func aimAtLastTarget(turret *component.Turret, pivot cp.Vector) {
	speed := turret.SearchSpeed
	if turret.HitFollowTimer > 0 {
		speed = turret.HitFollowSpeed
	}

	dir := turret.LastTargetPos.Sub(pivot)
	angle := common.AngleBetween(dir, turret.Axis)
	if turret.HitFollowTimer <= 0 {
		angle += turret.AngleSearchOffset
	}
	if common.Side(turret.Axis, dir) < 0 {
		angle = 360 - angle
	}

	diff := math.Abs(angle - turret.CurrentAngle)
	step := 0.0
	switch {
	case diff > 10:
		step = speed
	case diff > 5:
		step = speed / 2
	case diff > 2:
		step = speed / 4
	case diff > 1:
		step = speed / 8
	}
	if step > 0 {
		if angle < turret.CurrentAngle {
			step = -step
		}
		turret.CurrentAngle = clampTurretAngle(turret, turret.CurrentAngle+step*common.DeltaTime)
	}
	turret.ShootingDirection = common.RotateDegrees(turret.Axis, turret.CurrentAngle)
}

func clampTurretAngle(turret *component.Turret, angle float64) float64 {
	return common.Clamp(angle, 90-turret.OvershootAngle, 270+turret.OvershootAngle)
}
