package system

import (
	"math"
	"reflect"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
)

// fakeProber reports a hit at a fixed distance along each listed direction,
// wherever the ray starts.
type fakeProber map[component.Side]float64

func (f fakeProber) Raycast(origin, dir cp.Vector, maxDistance float64, mask uint32) component.ProbeResult {
	for side, d := range f {
		if dir != side.Direction() || d > maxDistance {
			continue
		}
		return component.ProbeResult{
			Origin:         origin,
			Direction:      dir,
			MaxDistance:    maxDistance,
			Hit:            true,
			Distance:       d,
			Point:          origin.Add(dir.Mult(d)),
			Normal:         dir.Neg(),
			Classification: component.LayerWalkable,
		}
	}
	return component.Miss(origin, dir, maxDistance)
}

func nearVecTol(a, b cp.Vector, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol
}

func TestSenseAttachThreshold(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		want bool
	}{
		{name: "flush", raw: 0.5, want: true},
		{name: "inside_body", raw: 0.375, want: true},
		{name: "just_inside", raw: 0.625, want: true},
		{name: "exactly_attach_distance", raw: 0.75, want: false},
		{name: "out_of_range", raw: 1, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			aw := &component.Awareness{BodySize: 0.5, AttachDistance: 0.25, MinJumpDistance: 2, MaxJumpDistance: 8}
			Sense(fakeProber{component.SideDown: tc.raw}, cp.Vector{}, component.SurfaceNone, true, aw)

			if got := aw.CanAttach(component.SideDown); got != tc.want {
				t.Fatalf("CanAttach(down) = %v, want %v (distance %v)", got, tc.want, aw.Attach[component.SideDown].Distance)
			}
			for _, side := range []component.Side{component.SideUp, component.SideLeft, component.SideRight} {
				if aw.CanAttach(side) {
					t.Fatalf("unexpected attach on %s", side)
				}
			}
			origin := aw.Attach[component.SideDown].Origin
			if origin != (cp.Vector{X: 0, Y: -0.5}) {
				t.Fatalf("expected the probe reported from the body edge, got %v", origin)
			}
		})
	}
}

func TestSenseFlushFloor(t *testing.T) {
	w := newPhysicsTestWorld(cp.BB{L: -10, B: -1, R: 10, T: 0})
	aw := testAwareness()

	Sense(w.PhysicsWorld(), cp.Vector{X: 0, Y: 1}, component.SurfaceNone, true, aw)

	if !aw.CanAttach(component.SideDown) || aw.AttachCount() != 1 {
		t.Fatalf("expected only the floor in reach, got count %d", aw.AttachCount())
	}
	down := aw.Attach[component.SideDown]
	if math.Abs(down.Distance) > 1e-6 {
		t.Fatalf("expected a flush contact, got distance %v", down.Distance)
	}
	if !nearVecTol(down.Normal, cp.Vector{X: 0, Y: 1}, 1e-6) {
		t.Fatalf("expected an upward normal, got %v", down.Normal)
	}
	if down.Classification != component.LayerWalkable {
		t.Fatalf("expected walkable classification, got %d", down.Classification)
	}
	if len(aw.PossibleCorners()) != 0 {
		t.Fatalf("expected no corners in the middle of a floor")
	}
}

func TestSenseIsIdempotent(t *testing.T) {
	w := newPhysicsTestWorld(
		cp.BB{L: 0, B: 0, R: 10, T: 1},
		cp.BB{L: 0, B: 6, R: 20, T: 7},
	)
	pos := cp.Vector{X: 9.5, Y: 2}
	aw := testAwareness()

	Sense(w.PhysicsWorld(), pos, component.SurfaceBottom, true, aw)
	first := *aw
	first.JumpCandidates = append([]component.JumpCandidate(nil), aw.JumpCandidates...)

	Sense(w.PhysicsWorld(), pos, component.SurfaceBottom, true, aw)
	if !reflect.DeepEqual(first, *aw) {
		t.Fatalf("two probes of an unchanged world differ:\nfirst  %+v\nsecond %+v", first, *aw)
	}
}

func TestSenseOuterCorner(t *testing.T) {
	tests := []struct {
		name      string
		clockwise bool
		wantSlot  component.CornerSlot
		want      bool
	}{
		{name: "walking_off_the_edge", clockwise: true, wantSlot: component.CornerBottomClockwise, want: true},
		{name: "walking_back_onto_the_floor", clockwise: false, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newPhysicsTestWorld(cp.BB{L: 0, B: 0, R: 10, T: 1})
			aw := testAwareness()

			Sense(w.PhysicsWorld(), cp.Vector{X: 9.5, Y: 2}, component.SurfaceBottom, tc.clockwise, aw)

			corners := aw.PossibleCorners()
			if !tc.want {
				if len(corners) != 0 {
					t.Fatalf("expected no corner, got %+v", corners)
				}
				return
			}
			c := aw.Corners[tc.wantSlot]
			if !c.Valid || len(corners) != 1 {
				t.Fatalf("expected one corner in slot %d, got %+v", tc.wantSlot, corners)
			}
			if !nearVecTol(c.Position, cp.Vector{X: 10, Y: 1}, 1e-6) {
				t.Fatalf("expected the corner at the floor edge (10,1), got %v", c.Position)
			}
			if !nearVecTol(c.Offset, cp.Vector{X: 0.5, Y: 0}, 1e-6) {
				t.Fatalf("expected offset (0.5,0) from the contact, got %v", c.Offset)
			}
			if !nearVecTol(aw.DistanceToCorner, c.Offset, 1e-9) {
				t.Fatalf("expected DistanceToCorner %v, got %v", c.Offset, aw.DistanceToCorner)
			}
		})
	}
}

func TestSenseCornersNeedAttachedSide(t *testing.T) {
	// floor edge is right there but the floor is out of attach range
	w := newPhysicsTestWorld(cp.BB{L: 0, B: 0, R: 10, T: 1})
	aw := testAwareness()

	Sense(w.PhysicsWorld(), cp.Vector{X: 9.5, Y: 2.5}, component.SurfaceBottom, true, aw)

	if aw.CanAttachAny() {
		t.Fatalf("expected nothing in reach")
	}
	if len(aw.PossibleCorners()) != 0 {
		t.Fatalf("expected corners only for attachable sides")
	}
}

func TestSenseJumpCandidates(t *testing.T) {
	floor := cp.BB{L: 0, B: 0, R: 20, T: 1}
	ceiling := cp.BB{L: 0, B: 6, R: 20, T: 7}
	rightWall := cp.BB{L: 9, B: -10, R: 10, T: 20}

	tests := []struct {
		name      string
		boxes     []cp.BB
		surface   component.Surface
		clockwise bool
		want      []cp.Vector
	}{
		{
			name:      "ceiling_clockwise",
			boxes:     []cp.BB{floor, ceiling},
			surface:   component.SurfaceBottom,
			clockwise: true,
			want:      []cp.Vector{{X: 0, Y: 4}, {X: 4, Y: 4}},
		},
		{
			name:    "ceiling_counter_clockwise",
			boxes:   []cp.BB{floor, ceiling},
			surface: component.SurfaceBottom,
			want:    []cp.Vector{{X: 0, Y: 4}, {X: -4, Y: 4}},
		},
		{
			name:      "no_surface_skips_diagonals",
			boxes:     []cp.BB{floor, ceiling},
			surface:   component.SurfaceNone,
			clockwise: true,
			want:      []cp.Vector{{X: 0, Y: 4}},
		},
		{
			name:      "wall_ahead_is_walked_to_not_jumped",
			boxes:     []cp.BB{floor, rightWall},
			surface:   component.SurfaceBottom,
			clockwise: true,
			want:      []cp.Vector{{X: 4, Y: 4}},
		},
		{
			name:      "wall_without_surface",
			boxes:     []cp.BB{floor, rightWall},
			surface:   component.SurfaceNone,
			clockwise: true,
			want:      []cp.Vector{{X: 4, Y: 0}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newPhysicsTestWorld(tc.boxes...)
			aw := testAwareness()
			pos := cp.Vector{X: 5, Y: 2}

			Sense(w.PhysicsWorld(), pos, tc.surface, tc.clockwise, aw)

			if len(aw.JumpCandidates) != len(tc.want) {
				t.Fatalf("expected %d candidates, got %+v", len(tc.want), aw.JumpCandidates)
			}
			for i, want := range tc.want {
				got := aw.JumpCandidates[i]
				if !nearVecTol(got.Direction, want, 1e-6) {
					t.Fatalf("candidate %d: expected direction %v, got %v", i, want, got.Direction)
				}
				if !nearVecTol(got.Target, pos.Add(want), 1e-6) {
					t.Fatalf("candidate %d: expected target %v, got %v", i, pos.Add(want), got.Target)
				}
				if got.Diagonal != IsDiagonal(want) {
					t.Fatalf("candidate %d: diagonal=%v", i, got.Diagonal)
				}
				d := got.Direction.Length()
				if d < aw.MinJumpDistance || d > aw.MaxJumpDistance {
					t.Fatalf("candidate %d: distance %v outside [%v, %v]", i, d, aw.MinJumpDistance, aw.MaxJumpDistance)
				}
			}
		})
	}
}

func TestAwarenessSystemUsesBodyPosition(t *testing.T) {
	w := newPhysicsTestWorld(cp.BB{L: -10, B: -1, R: 10, T: 0})
	e := newTestWalker(t, w, 0, 5)
	p := partsOf(w, e)
	// the transform lags behind the body until the physics system syncs it
	p.body.Teleport(cp.Vector{X: 0, Y: 1})

	NewAwarenessSystem().Update(w)

	if !p.aw.CanAttach(component.SideDown) {
		t.Fatalf("expected the floor in reach of the body")
	}
}

func TestAwarenessSystemWithoutPhysics(t *testing.T) {
	w := ecs.NewWorld()
	e := newTestWalker(t, w, 0, 0)
	p := partsOf(w, e)
	setFlags(p.aw)

	NewAwarenessSystem().Update(w)

	if p.aw.CanAttachAny() {
		t.Fatalf("expected untouched awareness without a physics world")
	}
}

func TestIsDiagonal(t *testing.T) {
	tests := []struct {
		dir  cp.Vector
		want bool
	}{
		{dir: cp.Vector{X: 1, Y: 0}, want: false},
		{dir: cp.Vector{X: 0, Y: -3}, want: false},
		{dir: cp.Vector{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}, want: true},
		{dir: cp.Vector{X: -4, Y: 4}, want: true},
		{dir: cp.Vector{}, want: false},
	}
	for _, tc := range tests {
		if got := IsDiagonal(tc.dir); got != tc.want {
			t.Fatalf("IsDiagonal(%v) = %v, want %v", tc.dir, got, tc.want)
		}
	}
}

func TestWalkDirection(t *testing.T) {
	tests := []struct {
		surface   component.Surface
		clockwise bool
		want      cp.Vector
	}{
		{surface: component.SurfaceBottom, clockwise: true, want: cp.Vector{X: 1, Y: 0}},
		{surface: component.SurfaceBottom, clockwise: false, want: cp.Vector{X: -1, Y: 0}},
		{surface: component.SurfaceRight, clockwise: true, want: cp.Vector{X: 0, Y: 1}},
		{surface: component.SurfaceTop, clockwise: true, want: cp.Vector{X: -1, Y: 0}},
		{surface: component.SurfaceLeft, clockwise: true, want: cp.Vector{X: 0, Y: -1}},
		{surface: component.SurfaceLeft, clockwise: false, want: cp.Vector{X: 0, Y: 1}},
	}
	for _, tc := range tests {
		if got := WalkDirection(tc.surface, tc.clockwise); got != tc.want {
			t.Fatalf("WalkDirection(%s, %v) = %v, want %v", tc.surface, tc.clockwise, got, tc.want)
		}
	}
}
