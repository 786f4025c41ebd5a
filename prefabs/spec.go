package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/skyhook/ecs/component"
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

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

type CapsuleSpec struct {
	HalfHeight float64 `yaml:"half_height"`
	Radius     float64 `yaml:"radius"`
}

type PlayerSpec struct {
	Name            string      `yaml:"name"`
	Health          float64     `yaml:"health"`
	Mass            float64     `yaml:"mass"`
	MoveSpeed       float64     `yaml:"move_speed"`
	SwingControl    float64     `yaml:"swing_control"`
	JumpSpeed       float64     `yaml:"jump_speed"`
	JumpCooldown    float64     `yaml:"jump_cooldown"`
	CancelBoost     float64     `yaml:"cancel_boost"`
	BoostForce      float64     `yaml:"boost_force"`
	FaceLerp        float64     `yaml:"face_lerp"`
	GroundRayMargin float64     `yaml:"ground_ray_margin"`
	GroundEpsilon   float64     `yaml:"ground_epsilon"`
	Spawn           Vec3Spec    `yaml:"spawn"`
	Collider        CapsuleSpec `yaml:"collider"`
	Hooks           HooksSpec   `yaml:"hooks"`
	Attack          AttackSpec  `yaml:"attack"`
	Rig             string      `yaml:"rig"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type HooksSpec struct {
	ShootSpeed    float64 `yaml:"shoot_speed"`
	MaxRange      float64 `yaml:"max_range"`
	ReleaseRadius float64 `yaml:"release_radius"`
	ReelForce     float64 `yaml:"reel_force"`
	InitialPull   float64 `yaml:"initial_pull"`
	FallDamping   float64 `yaml:"fall_damping"`
	LateralOffset float64 `yaml:"lateral_offset"`
	VaultProbe    float64 `yaml:"vault_probe"`
	VaultImpulse  float64 `yaml:"vault_impulse"`
	VaultUp       float64 `yaml:"vault_up"`
}

type AttackSpec struct {
	Damage float64 `yaml:"damage"`
	Reach  float64 `yaml:"reach"`
}

type TitanSpec struct {
	Name           string      `yaml:"name"`
	Health         float64     `yaml:"health"`
	SearchRange    float64     `yaml:"search_range"`
	ArmReach       float64     `yaml:"arm_reach"`
	FootRadius     float64     `yaml:"foot_radius"`
	FarRange       float64     `yaml:"far_range"`
	ChaseSpeed     float64     `yaml:"chase_speed"`
	RoamSpeed      float64     `yaml:"roam_speed"`
	AttackTime     float64     `yaml:"attack_time"`
	AttackCooldown float64     `yaml:"attack_cooldown"`
	WindowStart    float64     `yaml:"window_start"`
	WindowEnd      float64     `yaml:"window_end"`
	StompDamage    float64     `yaml:"stomp_damage"`
	SwipeDamage    float64     `yaml:"swipe_damage"`
	Collider       CapsuleSpec `yaml:"collider"`
	Volley         VolleySpec  `yaml:"volley"`
	Nape           NapeSpec    `yaml:"nape"`
	Hazard         HazardSpec  `yaml:"hazard"`
	FSM            FSMSpec     `yaml:"fsm"`
	FSMFile        string      `yaml:"fsm_file"`
	Script         string      `yaml:"script"`
	Rig            string      `yaml:"rig"`
}

func LoadTitanSpec() (*TitanSpec, error) {
	spec, err := LoadSpec[TitanSpec]("titan.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type VolleySpec struct {
	Count  int     `yaml:"count"`
	Speed  float64 `yaml:"speed"`
	Damage float64 `yaml:"damage"`
}

type NapeSpec struct {
	Offset Vec3Spec `yaml:"offset"`
	Radius float64  `yaml:"radius"`
}

type HazardSpec struct {
	Radius   float64 `yaml:"radius"`
	Damage   float64 `yaml:"damage"`
	Interval float64 `yaml:"interval"`
}

type CameraSpec struct {
	Name      string  `yaml:"name"`
	Distance  float64 `yaml:"distance"`
	Smoothing float64 `yaml:"smoothing"`
	Yaw       float64 `yaml:"yaw"`
	Pitch     float64 `yaml:"pitch"`
	FocusLift float64 `yaml:"focus_lift"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec]("camera.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type CitySpec struct {
	Name         string       `yaml:"name"`
	GridStep     float64      `yaml:"grid_step"`
	Jitter       float64      `yaml:"jitter"`
	HalfExtent   float64      `yaml:"half_extent"`
	PlazaRadius  float64      `yaml:"plaza_radius"`
	MinHalf      Vec3Spec     `yaml:"min_half"`
	MaxHalf      Vec3Spec     `yaml:"max_half"`
	MaxBuildings int          `yaml:"max_buildings"`
	GroundHalf   float64      `yaml:"ground_half"`
	Palette      []*YAMLColor `yaml:"palette"`
}

func LoadCitySpec() (*CitySpec, error) {
	spec, err := LoadSpec[CitySpec]("city.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// FSMSpec is the inline yaml form of a titan brain. Transitions take
// the list form, one `event_or_condition: target_state` entry each.
type FSMSpec struct {
	Initial     string                      `yaml:"initial"`
	States      map[string]FSMStateSpec     `yaml:"states"`
	Transitions map[string][]map[string]any `yaml:"transitions"`
}

type FSMStateSpec struct {
	OnEnter []map[string]any `yaml:"on_enter"`
	While   []map[string]any `yaml:"while"`
	OnExit  []map[string]any `yaml:"on_exit"`
}

func (s FSMSpec) Empty() bool {
	return s.Initial == ""
}

// Component converts the YAML form into the component-layer spec that
// the titan system compiles at runtime.
func (s FSMSpec) Component() *component.FSMSpec {
	if s.Empty() {
		return nil
	}
	out := &component.FSMSpec{
		Initial:     s.Initial,
		States:      make(map[string]component.FSMStateSpec, len(s.States)),
		Transitions: make(map[string][]map[string]any, len(s.Transitions)),
	}
	for name, st := range s.States {
		out.States[name] = component.FSMStateSpec{
			OnEnter: st.OnEnter,
			While:   st.While,
			OnExit:  st.OnExit,
		}
	}
	for from, list := range s.Transitions {
		out.Transitions[from] = list
	}
	return out
}

// YAMLColor decodes "#RRGGBB", "#RRGGBBAA", or "#RGB" scalars.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string scalar")
	}

	s := strings.TrimPrefix(strings.TrimSpace(value.Value), "#")
	if len(s) == 3 {
		s = strings.Repeat(s[0:1], 2) + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2)
	}
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}
	if len(s) == 6 {
		v = v<<8 | 0xff
	}

	c.Color = color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}
	return nil
}
