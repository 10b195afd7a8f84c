package component

import (
	"fmt"
	"math"
	"strings"

	"github.com/jakecoffman/cp"
)

// Surface is the face a surface walker treats as "down" for its local
// walking frame. Top is a ceiling, Left/Right are walls on that side of the
// walker and Bottom is a floor.
type Surface int

const (
	SurfaceNone Surface = iota
	SurfaceMultiple
	SurfaceTop
	SurfaceRight
	SurfaceLeft
	SurfaceBottom
)

var surfaceNames = map[Surface]string{
	SurfaceNone:     "none",
	SurfaceMultiple: "multiple",
	SurfaceTop:      "top",
	SurfaceRight:    "right",
	SurfaceLeft:     "left",
	SurfaceBottom:   "bottom",
}

func (s Surface) String() string {
	if name, ok := surfaceNames[s]; ok {
		return name
	}
	return fmt.Sprintf("surface(%d)", int(s))
}

// ParseSurface is the inverse of String.
func ParseSurface(name string) (Surface, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range surfaceNames {
		if n == name {
			return s, nil
		}
	}
	return SurfaceNone, fmt.Errorf("component: unknown surface %q", name)
}

func (s *Surface) UnmarshalText(text []byte) error {
	parsed, err := ParseSurface(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Surface) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Single reports whether s names exactly one face.
func (s Surface) Single() bool {
	switch s {
	case SurfaceTop, SurfaceRight, SurfaceLeft, SurfaceBottom:
		return true
	}
	return false
}

// Normal points away from the face, into the walker. None and Multiple
// have no in-plane normal and return the zero vector.
func (s Surface) Normal() cp.Vector {
	switch s {
	case SurfaceLeft:
		return cp.Vector{X: 1, Y: 0}
	case SurfaceRight:
		return cp.Vector{X: -1, Y: 0}
	case SurfaceTop:
		return cp.Vector{X: 0, Y: -1}
	case SurfaceBottom:
		return cp.Vector{X: 0, Y: 1}
	default:
		return cp.Vector{}
	}
}

// Rotation is the visual rotation in radians of a walker standing on s.
func (s Surface) Rotation() float64 {
	switch s {
	case SurfaceRight:
		return math.Pi / 2
	case SurfaceLeft:
		return -math.Pi / 2
	case SurfaceTop:
		return math.Pi
	default:
		return 0
	}
}

// InnerCornerNext is the face reached by walking into a concave corner
// from s. Clockwise runs left→bottom→right→top→left.
func (s Surface) InnerCornerNext(clockwise bool) Surface {
	if clockwise {
		switch s {
		case SurfaceLeft:
			return SurfaceBottom
		case SurfaceBottom:
			return SurfaceRight
		case SurfaceRight:
			return SurfaceTop
		case SurfaceTop:
			return SurfaceLeft
		}
		return SurfaceNone
	}
	switch s {
	case SurfaceLeft:
		return SurfaceTop
	case SurfaceTop:
		return SurfaceRight
	case SurfaceRight:
		return SurfaceBottom
	case SurfaceBottom:
		return SurfaceLeft
	}
	return SurfaceNone
}

// OuterCornerNext is the face reached by wrapping around a convex edge
// from s. Clockwise runs bottom→left→top→right→bottom.
func (s Surface) OuterCornerNext(clockwise bool) Surface {
	if clockwise {
		switch s {
		case SurfaceBottom:
			return SurfaceLeft
		case SurfaceLeft:
			return SurfaceTop
		case SurfaceTop:
			return SurfaceRight
		case SurfaceRight:
			return SurfaceBottom
		}
		return SurfaceNone
	}
	switch s {
	case SurfaceBottom:
		return SurfaceRight
	case SurfaceRight:
		return SurfaceTop
	case SurfaceTop:
		return SurfaceLeft
	case SurfaceLeft:
		return SurfaceBottom
	}
	return SurfaceNone
}
