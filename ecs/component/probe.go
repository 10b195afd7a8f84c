package component

import "github.com/jakecoffman/cp"

// ProbeResult is the outcome of one ray cast. It is a value record,
// recomputed every tick and never mutated in place.
type ProbeResult struct {
	Origin      cp.Vector
	Direction   cp.Vector
	MaxDistance float64

	Hit bool
	// Distance is the hit distance, or MaxDistance when nothing was hit.
	Distance float64
	Point    cp.Vector
	// Normal is the hit surface normal, the zero vector on a miss.
	Normal cp.Vector
	// Classification is the collision category of the hit shape, zero on a
	// miss.
	Classification uint32
}

// Miss builds the result of a cast that found nothing.
func Miss(origin, direction cp.Vector, maxDistance float64) ProbeResult {
	return ProbeResult{
		Origin:      origin,
		Direction:   direction,
		MaxDistance: maxDistance,
		Distance:    maxDistance,
		Point:       origin.Add(direction.Mult(maxDistance)),
	}
}

// End is the point the probe reached: the hit point or the ray's end.
func (r ProbeResult) End() cp.Vector {
	return r.Origin.Add(r.Direction.Mult(r.Distance))
}
