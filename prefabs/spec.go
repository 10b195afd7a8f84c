package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/tomorrow/ecs/component"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LilithSpec is the prefab of the surface-walking enemy.
type LilithSpec struct {
	Name     string  `yaml:"name"`
	BodySize float64 `yaml:"body_size"`

	AttachDistance  float64   `yaml:"attach_distance"`
	MinJumpDistance float64   `yaml:"min_jump_distance"`
	MaxJumpDistance float64   `yaml:"max_jump_distance"`
	WalkableLayers  LayerMask `yaml:"walkable_layers"`

	WalkSpeed       float64 `yaml:"walk_speed"`
	JumpSpeed       float64 `yaml:"jump_speed"`
	JumpLift        float64 `yaml:"jump_lift"`
	JumpLockTime    float64 `yaml:"jump_lock_time"`
	JumpProbability float64 `yaml:"jump_probability"`
	MaxIdleTime     float64 `yaml:"max_idle_time"`
	MaxWalkTime     float64 `yaml:"max_walk_time"`
	MaxFlipTime     float64 `yaml:"max_flip_time"`

	OppositeDirection bool   `yaml:"opposite_direction"`
	Health            int    `yaml:"health"`
	BehaviorScript    string `yaml:"behavior_script"`

	Transform TransformSpec `yaml:"transform"`
	Physics   PhysicsSpec   `yaml:"physics"`
	Layer     LayerSpec     `yaml:"layer"`
	Animation AnimationSpec `yaml:"animation"`
	Color     *YAMLColor    `yaml:"color"`
}

func LoadLilithSpec() (*LilithSpec, error) {
	spec, err := LoadSpec[LilithSpec]("lilith.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// TurretSpec is the prefab of a stationary gun.
type TurretSpec struct {
	Name         string    `yaml:"name"`
	TargetLayers LayerMask `yaml:"target_layers"`

	PivotX float64 `yaml:"pivot_x"`
	PivotY float64 `yaml:"pivot_y"`
	// Mount rotates the turret's down axis, in degrees counter-clockwise.
	Mount float64 `yaml:"mount"`

	MaxDistance    float64 `yaml:"max_distance"`
	SpotLightAngle float64 `yaml:"spot_light_angle"`
	OvershootAngle float64 `yaml:"overshoot_angle"`
	StartAngle     float64 `yaml:"start_angle"`

	SearchAngle    float64 `yaml:"search_angle"`
	SearchSpeed    float64 `yaml:"search_speed"`
	FollowTime     float64 `yaml:"follow_time"`
	FollowSpeed    float64 `yaml:"follow_speed"`
	HitFollowTime  float64 `yaml:"hit_follow_time"`
	HitFollowSpeed float64 `yaml:"hit_follow_speed"`

	BulletSpeed   float64 `yaml:"bullet_speed"`
	ShootingSpeed float64 `yaml:"shooting_speed"`
	MuzzleOffset  float64 `yaml:"muzzle_offset"`

	KickBackAmount float64 `yaml:"kick_back_amount"`
	KickBackSpeed  float64 `yaml:"kick_back_speed"`

	Transform TransformSpec `yaml:"transform"`
	Physics   PhysicsSpec   `yaml:"physics"`
	Layer     LayerSpec     `yaml:"layer"`
	Color     *YAMLColor    `yaml:"color"`
}

func LoadTurretSpec() (*TurretSpec, error) {
	spec, err := LoadSpec[TurretSpec]("turret.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// BulletSpec is the prefab of a turret bullet.
type BulletSpec struct {
	Name     string      `yaml:"name"`
	Damage   int         `yaml:"damage"`
	Lifetime float64     `yaml:"lifetime"`
	Physics  PhysicsSpec `yaml:"physics"`
	Layer    LayerSpec   `yaml:"layer"`
}

func LoadBulletSpec() (*BulletSpec, error) {
	spec, err := LoadSpec[BulletSpec]("bullet.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type PhysicsSpec struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Radius        float64 `yaml:"radius"`
	Mass          float64 `yaml:"mass"`
	Friction      float64 `yaml:"friction"`
	Elasticity    float64 `yaml:"elasticity"`
	Static        bool    `yaml:"static"`
	FixedRotation bool    `yaml:"fixed_rotation"`
	GravityScale  float64 `yaml:"gravity_scale"`
	IgnoreGravity bool    `yaml:"ignore_gravity"`
}

// LayerSpec names a collision category and the categories it collides
// with.
type LayerSpec struct {
	Category LayerMask `yaml:"category"`
	Mask     LayerMask `yaml:"mask"`
}

type AnimationSpec struct {
	Defs    map[string]AnimationDefSpec `yaml:"defs"`
	Current string                      `yaml:"current"`
	Playing bool                        `yaml:"playing"`
}

type AnimationDefSpec struct {
	Name       string  `yaml:"name"`
	FrameCount int     `yaml:"frame_count"`
	FPS        float64 `yaml:"fps"`
	Loop       bool    `yaml:"loop"`
	EventFrame int     `yaml:"event_frame"`
}

var layerNames = map[string]uint32{
	"walkable": component.LayerWalkable,
	"floor":    component.LayerFloor,
	"enemy":    component.LayerEnemy,
	"turret":   component.LayerTurret,
	"bullet":   component.LayerBullet,
	"target":   component.LayerTarget,
	"all":      component.LayerAll,
}

// LayerMask is a set of collision categories written as a list of layer
// names (or a single name, or a raw integer).
type LayerMask uint32

func (m *LayerMask) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if n, err := strconv.ParseUint(value.Value, 0, 32); err == nil {
			*m = LayerMask(n)
			return nil
		}
		bits, err := ParseLayer(value.Value)
		if err != nil {
			return err
		}
		*m = LayerMask(bits)
		return nil
	case yaml.SequenceNode:
		var out uint32
		for _, item := range value.Content {
			bits, err := ParseLayer(item.Value)
			if err != nil {
				return err
			}
			out |= bits
		}
		*m = LayerMask(out)
		return nil
	}
	return fmt.Errorf("prefabs: layer mask must be a name or a list of names")
}

// ParseLayer returns the category bits of a layer name.
func ParseLayer(name string) (uint32, error) {
	bits, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("prefabs: unknown layer %q", name)
	}
	return bits, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
