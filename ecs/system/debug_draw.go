package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tomorrow/common"
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
	"golang.org/x/image/colornames"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// View maps Y-up world units onto a Y-down screen.
type View struct {
	X, Y    float64
	Zoom    float64
	ScreenH float64
}

func (v View) scale() float64 {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return common.PixelsPerUnit * zoom
}

// ToScreen converts a world point to screen pixels.
func (v View) ToScreen(p cp.Vector) (float32, float32) {
	s := v.scale()
	return float32((p.X - v.X) * s), float32(v.ScreenH - (p.Y-v.Y)*s)
}

func (v View) line(screen *ebiten.Image, a, b cp.Vector, clr color.Color) {
	x1, y1 := v.ToScreen(a)
	x2, y2 := v.ToScreen(b)
	vector.StrokeLine(screen, x1, y1, x2, y2, 1, clr, false)
}

func (v View) circle(screen *ebiten.Image, center cp.Vector, radius float64, clr color.Color) {
	x, y := v.ToScreen(center)
	vector.StrokeCircle(screen, x, y, float32(radius*v.scale()), 1, clr, false)
}

// DrawPhysicsDebug outlines every shape in the space.
func DrawPhysicsDebug(pw *ecs.PhysicsWorld, view View, screen *ebiten.Image) {
	if pw == nil || pw.Space() == nil || screen == nil {
		return
	}
	cp.DrawSpace(pw.Space(), &physicsDebugDrawer{screen: screen, view: view})
}

// DrawLilithGizmos draws each walker's probes, corners, jump candidates
// and a state line.
func DrawLilithGizmos(w *ecs.World, view View, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	row := 10
	ecs.ForEach3(w, component.AwarenessComponent.Kind(), component.LilithStateComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, aw *component.Awareness, state *component.LilithState, t *component.Transform) {
		for _, side := range component.Sides {
			probe := aw.Attach[side]
			clr := colornames.Gray
			if aw.CanAttach(side) {
				clr = colornames.Lime
			}
			view.line(screen, cp.Vector{X: t.X, Y: t.Y}, probe.End(), clr)
		}
		for _, c := range aw.PossibleCorners() {
			view.circle(screen, c.Position, 0.15, colornames.Red)
		}
		for _, jc := range aw.JumpCandidates {
			view.line(screen, cp.Vector{X: t.X, Y: t.Y}, jc.Target, colornames.Orange)
			view.circle(screen, jc.Target, 0.1, colornames.Orange)
		}

		text := fmt.Sprintf("lilith %v: %s surface=%s ccw=%v idle=%v", e, state.Phase, state.Surface, state.OppositeDirection, state.Idling)
		ebitenutil.DebugPrintAt(screen, text, 10, row)
		row += 16
	})
}

// DrawTurretGizmos draws each turret's range, aim and last known target.
func DrawTurretGizmos(w *ecs.World, view View, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	ecs.ForEach2(w, component.TurretComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, turret *component.Turret, t *component.Transform) {
		pivot := TurretPivot(turret, t)
		view.circle(screen, pivot, turret.MaxDistance, colornames.Green)
		view.circle(screen, turret.LastTargetPos, 0.5, colornames.Green)
		view.line(screen, pivot, pivot.Add(turret.ShootingDirection.Mult(turret.MaxDistance)), colornames.Blue)
		view.line(screen, pivot, pivot.Add(leftMost(turret).Mult(turret.MaxDistance)), colornames.Blue)
	})
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	view   View
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.view.circle(d.screen, pos, radius, toNRGBA(outline))
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.view.line(d.screen, pos, end, toNRGBA(outline))
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.view.line(d.screen, a, b, toNRGBA(fill))
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.view.line(d.screen, a, b, toNRGBA(outline))
	if radius > 0 {
		d.view.circle(d.screen, a, radius, toNRGBA(outline))
		d.view.circle(d.screen, b, radius, toNRGBA(outline))
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	for i := 0; i < count; i++ {
		d.view.line(d.screen, verts[i], verts[(i+1)%count], toNRGBA(outline))
	}
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	x, y := d.view.ToScreen(pos)
	half := float32(size / 2)
	vector.FillRect(d.screen, x-half, y-half, 2*half, 2*half, toNRGBA(fill), false)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
