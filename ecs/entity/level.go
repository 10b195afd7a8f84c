package entity

import (
	"fmt"

	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
	"github.com/milk9111/tomorrow/levels"
	"github.com/milk9111/tomorrow/prefabs"
)

// Prefabs bundles the specs a level spawns its entities from.
type Prefabs struct {
	Lilith *prefabs.LilithSpec
	Turret *prefabs.TurretSpec
	Bullet *prefabs.BulletSpec
}

// LoadPrefabs reads every prefab spec.
func LoadPrefabs() (*Prefabs, error) {
	lilith, err := prefabs.LoadLilithSpec()
	if err != nil {
		return nil, fmt.Errorf("prefabs: lilith: %w", err)
	}
	turret, err := prefabs.LoadTurretSpec()
	if err != nil {
		return nil, fmt.Errorf("prefabs: turret: %w", err)
	}
	bullet, err := prefabs.LoadBulletSpec()
	if err != nil {
		return nil, fmt.Errorf("prefabs: bullet: %w", err)
	}
	return &Prefabs{Lilith: lilith, Turret: turret, Bullet: bullet}, nil
}

// LoadLevelToWorld adds the level's tiles to the physics world as merged
// static boxes and spawns its entities.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level, p *Prefabs) error {
	pw := w.PhysicsWorld()
	if pw == nil {
		return fmt.Errorf("level: world has no physics")
	}
	if p == nil {
		p = &Prefabs{}
	}

	tileSize := lvl.Size()
	pw.AddTileGrid(lvl.Width, lvl.Height, tileSize, func(x, y int) uint32 {
		switch lvl.Tile(x, y) {
		case levels.TileWall:
			return component.LayerWalkable
		case levels.TileFloor:
			return component.LayerFloor
		}
		return 0
	})

	for i, ent := range lvl.Entities {
		// cell centre, with rows counted down from the top
		x := (float64(ent.X) + 0.5) * tileSize
		y := (float64(lvl.Height-ent.Y) - 0.5) * tileSize

		switch ent.Type {
		case "lilith":
			e, err := NewLilith(w, p.Lilith, x, y)
			if err != nil {
				return fmt.Errorf("level: entity %d: %w", i, err)
			}
			if opposite, ok := ent.Props["opposite_direction"].(bool); ok {
				if state, ok := ecs.Get(w, e, component.LilithStateComponent.Kind()); ok {
					state.OppositeDirection = opposite
				}
			}
		case "turret":
			height := 0.5
			if p.Turret != nil && p.Turret.Physics.Height > 0 {
				height = p.Turret.Physics.Height
			}
			// turrets sit on the bottom of their cell
			y = float64(lvl.Height-ent.Y-1)*tileSize + height/2
			if _, err := NewTurret(w, p.Turret, x, y); err != nil {
				return fmt.Errorf("level: entity %d: %w", i, err)
			}
		default:
			return fmt.Errorf("level: entity %d: unknown type %q", i, ent.Type)
		}
	}
	return nil
}
