package component

// Transform is the world-space pose of an entity. ScaleX mirrors the
// sprite horizontally (-1 when facing the other way).
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
