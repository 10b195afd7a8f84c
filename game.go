package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tomorrow/common"
	"github.com/milk9111/tomorrow/ecs/system"
	"github.com/milk9111/tomorrow/prefabs"
	"github.com/milk9111/tomorrow/simulation"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	sim     *simulation.Simulation
	render  *system.RenderSystem
	watcher *prefabs.Watcher

	levelName string
	seed      int64

	paused      bool
	showPhysics bool
	showGizmos  bool
}

func NewGame(levelName string, seed int64, debug, watch bool) (*Game, error) {
	sim, err := simulation.New(simulation.Options{Level: levelName, Seed: seed, Debug: debug})
	if err != nil {
		return nil, err
	}
	log.Printf("game: level=%q seed=%d", levelName, sim.Seed)

	g := &Game{
		sim:        sim,
		render:     system.NewRenderSystem(),
		levelName:  levelName,
		seed:       seed,
		showGizmos: debug,
	}

	if watch {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			// running away from the source tree: embedded prefabs only
			log.Printf("game: prefab hot reload disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.drainWatcher()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		g.showPhysics = !g.showPhysics
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		g.showGizmos = !g.showGizmos
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		g.sim.SetDebug(!g.sim.Debug())
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := g.restart(); err != nil {
			log.Printf("game: restart error: %v", err)
		}
	}

	if g.paused && !inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		return nil
	}
	g.sim.Step()
	return nil
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case c, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("game: %s %s changed", c.Kind, c.Name)
			if err := g.sim.Reload(c); err != nil {
				log.Printf("game: reload error: %v", err)
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("game: watch error: %v", err)
		default:
			return
		}
	}
}

// restart rebuilds the world with the same seed, picking up prefab edits.
func (g *Game) restart() error {
	sim, err := simulation.New(simulation.Options{Level: g.levelName, Seed: g.sim.Seed, Debug: g.sim.Debug()})
	if err != nil {
		return err
	}
	g.sim = sim
	return nil
}

func (g *Game) view() system.View {
	return system.View{Zoom: baseHeight / (g.sim.Level.Size() * float64(g.sim.Level.Height) * common.PixelsPerUnit), ScreenH: baseHeight}
}

func (g *Game) Draw(screen *ebiten.Image) {
	view := g.view()
	g.render.Draw(g.sim.World, view, screen)
	if g.showPhysics {
		system.DrawPhysicsDebug(g.sim.World.PhysicsWorld(), view, screen)
	}
	if g.showGizmos {
		system.DrawLilithGizmos(g.sim.World, view, screen)
		system.DrawTurretGizmos(g.sim.World, view, screen)
	}

	status := fmt.Sprintf("tick %d  FPS %.1f  seed %d", g.sim.Ticks(), ebiten.ActualFPS(), g.sim.Seed)
	if g.paused {
		status += "  [paused: . steps]"
	}
	ebitenutil.DebugPrintAt(screen, status, 10, baseHeight-20)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
