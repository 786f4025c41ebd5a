package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/skyhook/physics"
)

// StateID identifies a titan FSM state.
type StateID string

// EventID identifies a titan FSM event.
type EventID string

const DefaultTitanFSMName = "titan_default"

// Titan carries per-titan tuning plus the handles of the nape weak
// point, a kinematic sphere trailing the neck.
type Titan struct {
	SearchRange    float64
	ArmReach       float64
	FootRadius     float64
	FarRange       float64
	ChaseSpeed     float64
	RoamSpeed      float64
	AttackTime     float64
	AttackCooldown float64
	WindowStart    float64
	WindowEnd      float64
	VolleyCount    int
	VolleySpeed    float64
	VolleyDamage   float64
	StompDamage    float64
	SwipeDamage    float64

	NapeOffset   mgl64.Vec3
	NapeRadius   float64
	NapeBody     physics.BodyHandle
	NapeCollider physics.ColliderHandle
}

var TitanComponent = NewComponent[Titan]()

// TitanState stores the current FSM state and its per-state clocks.
type TitanState struct {
	Current  StateID
	Clock    float64
	Cooldown float64

	// HasHit latches once the active attack window has dealt damage so
	// a single swing cannot hit twice.
	HasHit bool

	// Flavor selects the attack variant picked at wind-up.
	Flavor string

	WarnPulse float64
	Dead      bool
	Yaw       float64
}

var TitanStateComponent = NewComponent[TitanState]()

// TitanConfig names the FSM and optional script driving a titan.
type TitanConfig struct {
	FSM        string
	Spec       *FSMSpec
	ScriptPath string
}

var TitanConfigComponent = NewComponent[TitanConfig]()
