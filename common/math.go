package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	// TPS is the fixed logic rate.
	TPS = 60
	// DeltaTime is the duration of one logic tick in seconds.
	DeltaTime = 1.0 / TPS
	// Gravity is applied along -Y; world space is Y-up.
	Gravity = -20.0
	// PixelsPerUnit scales world units (one tile) to screen pixels.
	PixelsPerUnit = 32
	// Epsilon is the tolerance used when comparing directions.
	Epsilon = 1e-6
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// LerpVector moves a toward b by t, like Vector3.Lerp with t clamped to [0,1].
func LerpVector(a, b cp.Vector, t float64) cp.Vector {
	return a.Lerp(b, Clamp(t, 0, 1))
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ApproxEqual compares two vectors component-wise within Epsilon.
func ApproxEqual(a, b cp.Vector) bool {
	return math.Abs(a.X-b.X) <= Epsilon && math.Abs(a.Y-b.Y) <= Epsilon
}

// Rotate90 rotates v by +90° (counter-clockwise) when ccw is true and by
// -90° otherwise. Axis-aligned inputs stay exact.
func Rotate90(v cp.Vector, ccw bool) cp.Vector {
	if ccw {
		return v.Perp()
	}
	return v.ReversePerp()
}

// RotateDegrees rotates v counter-clockwise by deg degrees.
func RotateDegrees(v cp.Vector, deg float64) cp.Vector {
	return v.Rotate(cp.ForAngle(deg * math.Pi / 180))
}

// AngleBetween returns the unsigned angle in degrees between a and b.
func AngleBetween(a, b cp.Vector) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return 0
	}
	cos := Clamp(a.Dot(b)/(la*lb), -1, 1)
	return math.Acos(cos) * 180 / math.Pi
}

// Side returns 1 when target is to the left of fwd (counter-clockwise),
// -1 when it is to the right and 0 when colinear.
func Side(fwd, target cp.Vector) float64 {
	c := fwd.Cross(target)
	switch {
	case c > 0:
		return 1
	case c < 0:
		return -1
	}
	return 0
}

// Seconds converts a duration in seconds to whole ticks, rounding up.
func Seconds(s float64) int {
	if s <= 0 {
		return 0
	}
	return int(math.Ceil(s*TPS - Epsilon))
}
