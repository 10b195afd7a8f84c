package system

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
	"golang.org/x/image/colornames"
)

// RenderSystem draws the level and its actors as flat shapes.
type RenderSystem struct{}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, view View, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	screen.Fill(colornames.Midnightblue)

	scale := float32(view.scale())
	for _, bb := range w.PhysicsWorld().StaticBounds() {
		x, y := view.ToScreen(cp.Vector{X: bb.L, Y: bb.T})
		vector.FillRect(screen, x, y, float32(bb.R-bb.L)*scale, float32(bb.T-bb.B)*scale, colornames.Dimgray, false)
	}

	ecs.ForEach2(w, component.TurretComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, turret *component.Turret, t *component.Transform) {
		body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if body != nil && body.Width > 0 {
			x, y := view.ToScreen(cp.Vector{X: t.X - body.Width/2, Y: t.Y + body.Height/2})
			vector.FillRect(screen, x, y, float32(body.Width)*scale, float32(body.Height)*scale, tint(w, e, colornames.Steelblue), false)
		}
		pivot := TurretPivot(turret, t).Add(turret.KickBack)
		x1, y1 := view.ToScreen(pivot)
		x2, y2 := view.ToScreen(pivot.Add(turret.ShootingDirection.Normalize().Mult(turret.MuzzleOffset)))
		vector.StrokeLine(screen, x1, y1, x2, y2, 4, colornames.Lightsteelblue, false)
	})

	ecs.ForEach3(w, component.LilithStateComponent.Kind(), component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, state *component.LilithState, body *component.PhysicsBody, t *component.Transform) {
		clr := tint(w, e, colornames.Mediumpurple)
		switch {
		case state.Dead:
			clr = colornames.Darkslategray
		case flashing(w, e):
			clr = colornames.White
		}
		x, y := view.ToScreen(cp.Vector{X: t.X, Y: t.Y})
		vector.StrokeCircle(screen, x, y, float32(body.Radius)*scale, 2, clr, true)
		// facing: the walk direction in the walker's local frame
		facing := cp.ForAngle(t.Rotation).Mult(t.ScaleX)
		x2, y2 := view.ToScreen(cp.Vector{X: t.X, Y: t.Y}.Add(facing.Mult(body.Radius)))
		vector.StrokeLine(screen, x, y, x2, y2, 2, clr, true)
	})

	ecs.ForEach2(w, component.BulletComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bullet *component.Bullet, t *component.Transform) {
		x, y := view.ToScreen(cp.Vector{X: t.X, Y: t.Y})
		vector.FillRect(screen, x-2, y-2, 4, 4, colornames.Gold, false)
	})
}

func tint(w *ecs.World, e ecs.Entity, fallback color.Color) color.Color {
	if t, ok := ecs.Get(w, e, component.TintComponent.Kind()); ok && t.Color != nil {
		return t.Color
	}
	return fallback
}
