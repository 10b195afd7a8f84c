package component

// Collision categories. A shape belongs to one category and collides with
// (or is found by queries against) the categories in its mask.
const (
	LayerWalkable uint32 = 1 << iota
	LayerFloor
	LayerEnemy
	LayerTurret
	LayerBullet
	LayerTarget
)

// LayerAll matches every category.
const LayerAll uint32 = ^uint32(0)

// CollisionLayer allows entities to declare a collision category and mask
// so the physics system can selectively enable/disable collisions between
// groups of objects.
type CollisionLayer struct {
	// Category is a bitmask of this entity's collision category. If zero,
	// the physics system will treat it as LayerWalkable.
	Category uint32 `json:"category,omitempty" yaml:"category,omitempty"`
	// Mask is a bitmask of categories this entity should collide with. If
	// zero, the physics system will treat it as all-bits set (collide with all).
	Mask uint32 `json:"mask,omitempty" yaml:"mask,omitempty"`
}

// Resolved returns the category and mask with the zero defaults applied.
func (c CollisionLayer) Resolved() (category, mask uint32) {
	category, mask = c.Category, c.Mask
	if category == 0 {
		category = LayerWalkable
	}
	if mask == 0 {
		mask = LayerAll
	}
	return category, mask
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()
